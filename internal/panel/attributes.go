package panel

import (
	"maps"
	"slices"
)

// Attributes is the full saved state of a visualization panel.
type Attributes struct {
	Title             string        `yaml:"title,omitempty" json:"title,omitempty"`
	VisualizationType string        `yaml:"visualization_type,omitempty" json:"visualizationType,omitempty"`
	Layers            []Layer       `yaml:"layers,omitempty" json:"layers,omitempty"`
	ColorMapping      *ColorMapping `yaml:"color_mapping,omitempty" json:"colorMapping,omitempty"`
}

type LayerType string

const (
	LayerData        LayerType = "data"
	LayerAnnotations LayerType = "annotations"
	LayerReference   LayerType = "reference_line"
)

// Layer binds columns to one data view. BreakdownColumn names the column
// splitting the series, empty when the layer has no breakdown.
type Layer struct {
	ID              string            `yaml:"id" json:"id"`
	Type            LayerType         `yaml:"type" json:"type"`
	DataViewID      string            `yaml:"data_view_id" json:"dataViewId"`
	BreakdownColumn string            `yaml:"breakdown_column,omitempty" json:"breakdownColumn,omitempty"`
	Columns         map[string]Column `yaml:"columns,omitempty" json:"columns,omitempty"`
}

type Column struct {
	Operation   string `yaml:"operation" json:"operation"`
	SourceField string `yaml:"source_field,omitempty" json:"sourceField,omitempty"`
	Label       string `yaml:"label,omitempty" json:"label,omitempty"`
	Size        int    `yaml:"size,omitempty" json:"size,omitempty"`
}

// ColorMapping assigns palette colors to breakdown terms.
type ColorMapping struct {
	Palette     string       `yaml:"palette" json:"palette"`
	Assignments []Assignment `yaml:"assignments,omitempty" json:"assignments,omitempty"`
	OtherColor  string       `yaml:"other_color,omitempty" json:"otherColor,omitempty"`
}

type Assignment struct {
	Terms []string `yaml:"terms" json:"terms"`
	Color string   `yaml:"color" json:"color"`
}

// Clone returns a deep copy.
func (a *Attributes) Clone() *Attributes {
	if a == nil {
		return nil
	}
	out := *a
	out.Layers = make([]Layer, len(a.Layers))
	for i, l := range a.Layers {
		out.Layers[i] = l.clone()
	}
	if a.Layers == nil {
		out.Layers = nil
	}
	out.ColorMapping = a.ColorMapping.Clone()
	return &out
}

func (l Layer) clone() Layer {
	if l.Columns == nil {
		return l
	}
	l.Columns = maps.Clone(l.Columns)
	return l
}

func (m *ColorMapping) Clone() *ColorMapping {
	if m == nil {
		return nil
	}
	out := *m
	out.Assignments = make([]Assignment, len(m.Assignments))
	for i, a := range m.Assignments {
		out.Assignments[i] = Assignment{Terms: slices.Clone(a.Terms), Color: a.Color}
	}
	return &out
}

// BreakdownLayer returns the index of the first data layer that has a
// breakdown column, or -1.
func (a *Attributes) BreakdownLayer() int {
	if a == nil {
		return -1
	}
	for i, l := range a.Layers {
		if l.Type != LayerData || l.BreakdownColumn == "" {
			continue
		}
		if _, ok := l.Columns[l.BreakdownColumn]; ok {
			return i
		}
	}
	return -1
}
