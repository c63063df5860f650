package breakdown

import (
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/regenrek/peakydash/internal/panel"
)

// Option is a selectable breakdown field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldOptions lists the aggregatable fields of the data view behind the
// breakdown layer, sorted by label for the given locale. Any lookup failure
// yields no options.
func FieldOptions(attrs *panel.Attributes, views DataViews, locale language.Tag) []Option {
	view, _, ok := resolve(attrs, views)
	if !ok {
		return nil
	}
	opts := make([]Option, 0, len(view.Fields))
	for _, f := range view.Fields {
		if f.Aggregatable {
			opts = append(opts, Option{Value: f.Name, Label: f.Label()})
		}
	}
	sortOptions(opts, locale)
	return opts
}

// SetField points the breakdown column at field. The input is returned as is
// when the layer, column, data view or field cannot be resolved, or when
// nothing would change; otherwise a modified copy is returned.
func SetField(attrs *panel.Attributes, field string, views DataViews) *panel.Attributes {
	view, layerIdx, ok := resolve(attrs, views)
	if !ok {
		return attrs
	}
	f, found := view.Field(field)
	if !found || !f.Aggregatable {
		return attrs
	}
	layer := attrs.Layers[layerIdx]
	col := layer.Columns[layer.BreakdownColumn]
	if col.SourceField == f.Name {
		return attrs
	}
	out := attrs.Clone()
	col.SourceField = f.Name
	col.Label = f.Label()
	out.Layers[layerIdx].Columns[layer.BreakdownColumn] = col
	return out
}

// CurrentField returns the field the breakdown column splits by.
func CurrentField(attrs *panel.Attributes) (string, bool) {
	idx := attrs.BreakdownLayer()
	if idx < 0 {
		return "", false
	}
	layer := attrs.Layers[idx]
	col := layer.Columns[layer.BreakdownColumn]
	return col.SourceField, col.SourceField != ""
}

func resolve(attrs *panel.Attributes, views DataViews) (*DataView, int, bool) {
	if attrs == nil || views == nil {
		return nil, -1, false
	}
	idx := attrs.BreakdownLayer()
	if idx < 0 {
		return nil, -1, false
	}
	view, err := views.DataView(attrs.Layers[idx].DataViewID)
	if err != nil || view == nil {
		slog.Debug("breakdown: data view unavailable", slog.String("data_view_id", attrs.Layers[idx].DataViewID), slog.Any("err", err))
		return nil, -1, false
	}
	return view, idx, true
}

func sortOptions(opts []Option, locale language.Tag) {
	col := collate.New(locale, collate.IgnoreCase)
	slices.SortStableFunc(opts, func(a, b Option) int {
		if c := col.CompareString(a.Label, b.Label); c != 0 {
			return c
		}
		return strings.Compare(a.Value, b.Value)
	})
}

// ParseLocale turns a configured locale into a tag, falling back to English.
func ParseLocale(raw string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return language.English
	}
	return tag
}
