package layout

// GridColumns is the fixed width of the dashboard grid in column units.
const GridColumns = 48

// GridData positions a panel on the grid. SectionID is empty for panels that
// live in the implicit root section; y is relative to the owning section.
type GridData struct {
	X         int    `yaml:"x" json:"x"`
	Y         int    `yaml:"y" json:"y"`
	W         int    `yaml:"w" json:"w"`
	H         int    `yaml:"h" json:"h"`
	SectionID string `yaml:"section_id,omitempty" json:"sectionId,omitempty"`
}

func (g GridData) Right() int {
	return g.X + g.W
}

func (g GridData) Bottom() int {
	return g.Y + g.H
}

func (g GridData) Empty() bool {
	return g.W <= 0 || g.H <= 0
}

type Panel struct {
	Type string   `yaml:"type" json:"type"`
	Grid GridData `yaml:"grid" json:"grid"`
}

type SectionGrid struct {
	Y int `yaml:"y" json:"y"`
}

// Section is a titled, collapsible row grouping panels.
type Section struct {
	Title     string      `yaml:"title" json:"title"`
	Collapsed bool        `yaml:"collapsed,omitempty" json:"collapsed,omitempty"`
	Grid      SectionGrid `yaml:"grid" json:"grid"`
}

// PinnedPanel is excluded from every reflow and carried through unchanged.
type PinnedPanel struct {
	Type  string `yaml:"type" json:"type"`
	Order int    `yaml:"order" json:"order"`
}

// Layout is the canonical positional and grouping state of a dashboard.
type Layout struct {
	Panels       map[string]Panel       `yaml:"panels" json:"panels"`
	Sections     map[string]Section     `yaml:"sections,omitempty" json:"sections,omitempty"`
	PinnedPanels map[string]PinnedPanel `yaml:"pinned_panels,omitempty" json:"pinnedPanels,omitempty"`
}

// New returns an empty layout with initialized maps.
func New() *Layout {
	return &Layout{
		Panels:       make(map[string]Panel),
		Sections:     make(map[string]Section),
		PinnedPanels: make(map[string]PinnedPanel),
	}
}

// Panel looks up a panel by id.
func (l *Layout) Panel(id string) (Panel, bool) {
	if l == nil || l.Panels == nil {
		return Panel{}, false
	}
	p, ok := l.Panels[id]
	return p, ok
}

// HasSection reports whether id names an existing section.
func (l *Layout) HasSection(id string) bool {
	if l == nil || l.Sections == nil {
		return false
	}
	_, ok := l.Sections[id]
	return ok
}

// IsPinned reports whether id is a pinned panel.
func (l *Layout) IsPinned(id string) bool {
	if l == nil || l.PinnedPanels == nil {
		return false
	}
	_, ok := l.PinnedPanels[id]
	return ok
}
