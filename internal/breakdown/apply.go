package breakdown

import (
	"context"
	"log/slog"

	"github.com/regenrek/peakydash/internal/panel"
)

// Apply sets the breakdown field on every target that supports it. Panels whose
// structure cannot be resolved are left alone; write failures are logged and
// skipped. It returns the IDs that changed.
func Apply(ctx context.Context, store panel.AttributeStore, views DataViews, ids []string, field string) []string {
	var updated []string
	for _, id := range ids {
		caps, ok := store.Capabilities(id)
		if !ok || !caps.Has(panel.CapBreakdownField) {
			continue
		}
		attrs, err := store.Attributes(ctx, id)
		if err != nil {
			slog.Warn("breakdown: read attributes failed", slog.String("panel_id", id), slog.Any("err", err))
			continue
		}
		next := SetField(attrs, field, views)
		if next == attrs {
			continue
		}
		if err := store.UpdateAttributes(ctx, id, next); err != nil {
			slog.Warn("breakdown: update attributes failed", slog.String("panel_id", id), slog.Any("err", err))
			continue
		}
		updated = append(updated, id)
	}
	return updated
}
