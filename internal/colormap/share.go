// Package colormap copies breakdown color assignments between visualizations.
package colormap

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/regenrek/peakydash/internal/panel"
)

// Share copies src's color mapping onto dst. dst is returned unchanged when
// src has no mapping or dst already carries an identical one.
func Share(src, dst *panel.Attributes) *panel.Attributes {
	if src == nil || src.ColorMapping == nil || dst == nil {
		return dst
	}
	if reflect.DeepEqual(src.ColorMapping, dst.ColorMapping) {
		return dst
	}
	out := dst.Clone()
	out.ColorMapping = src.ColorMapping.Clone()
	return out
}

// ColorFor returns the color assigned to term, falling back to the mapping's
// other color.
func ColorFor(m *panel.ColorMapping, term string) string {
	if m == nil {
		return ""
	}
	for _, a := range m.Assignments {
		for _, t := range a.Terms {
			if t == term {
				return a.Color
			}
		}
	}
	return m.OtherColor
}

// Apply shares the mapping of sourceID with every target that supports color
// mapping. Targets are read at call time; failures are logged and skipped.
// It returns the IDs that were updated.
func Apply(ctx context.Context, store panel.AttributeStore, sourceID string, targets []string) ([]string, error) {
	caps, ok := store.Capabilities(sourceID)
	if !ok {
		return nil, fmt.Errorf("colormap: %w %q", panel.ErrUnknownPanel, sourceID)
	}
	if !caps.Has(panel.CapColorMapping) {
		return nil, fmt.Errorf("colormap: source %q: %w", sourceID, panel.ErrUnsupported)
	}
	src, err := store.Attributes(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("colormap: read source %q: %w", sourceID, err)
	}
	if src == nil || src.ColorMapping == nil {
		return nil, nil
	}
	var updated []string
	for _, id := range targets {
		if id == sourceID {
			continue
		}
		if c, ok := store.Capabilities(id); !ok || !c.Has(panel.CapColorMapping) {
			continue
		}
		dst, err := store.Attributes(ctx, id)
		if err != nil {
			slog.Warn("colormap: read target failed", slog.String("panel_id", id), slog.Any("err", err))
			continue
		}
		next := Share(src, dst)
		if next == dst {
			continue
		}
		if err := store.UpdateAttributes(ctx, id, next); err != nil {
			slog.Warn("colormap: update target failed", slog.String("panel_id", id), slog.Any("err", err))
			continue
		}
		updated = append(updated, id)
	}
	return updated, nil
}
