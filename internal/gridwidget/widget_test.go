package gridwidget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regenrek/peakydash/internal/layout"
)

func sampleLayout() *layout.Layout {
	l := layout.New()
	l.Panels["p1"] = layout.Panel{Type: "lens", Grid: layout.GridData{X: 0, Y: 0, W: 16, H: 10}}
	l.Panels["p2"] = layout.Panel{Type: "markdown", Grid: layout.GridData{X: 16, Y: 0, W: 16, H: 10}}
	l.Panels["s1a"] = layout.Panel{Type: "lens", Grid: layout.GridData{X: 0, Y: 0, W: 24, H: 8, SectionID: "s1"}}
	l.Panels["s1b"] = layout.Panel{Type: "lens", Grid: layout.GridData{X: 24, Y: 0, W: 24, H: 6, SectionID: "s1"}}
	l.Panels["s2a"] = layout.Panel{Type: "map", Grid: layout.GridData{X: 0, Y: 0, W: 48, H: 12, SectionID: "s2"}}
	l.Sections["s1"] = layout.Section{Title: "Traffic", Grid: layout.SectionGrid{Y: 10}}
	l.Sections["s2"] = layout.Section{Title: "Geo", Collapsed: true, Grid: layout.SectionGrid{Y: 11}}
	l.PinnedPanels["ctl"] = layout.PinnedPanel{Type: "control", Order: 0}
	return l
}

func TestRoundTripPreservesLayout(t *testing.T) {
	src := sampleLayout()
	back := ToLayout(FromLayout(src), src.PinnedPanels)
	assert.True(t, layout.Equal(src, back), "round trip changed layout:\n%#v\n%#v", src, back)
}

func TestFromLayoutOrdering(t *testing.T) {
	widgets := FromLayout(sampleLayout())
	require.Len(t, widgets, 4)
	ids := []string{widgets[0].ID, widgets[1].ID, widgets[2].ID, widgets[3].ID}
	assert.Equal(t, []string{"p1", "p2", "s1", "s2"}, ids)

	s1 := widgets[2]
	assert.Equal(t, KindSection, s1.Kind)
	assert.Equal(t, 8, s1.H)
	require.Len(t, s1.Children, 2)
	assert.Equal(t, "s1a", s1.Children[0].ID)
}

func TestToLayoutIgnoresUnknownAndDuplicates(t *testing.T) {
	widgets := []Widget{
		{ID: "a", Kind: KindPanel, W: 4, H: 4},
		{ID: "a", Kind: KindPanel, X: 10, W: 4, H: 4},
		{ID: "x", Kind: "iframe", W: 4, H: 4},
		{ID: "sec", Kind: KindSection, Y: 4, Children: []Widget{
			{ID: "b", Kind: KindPanel, W: 8, H: 2},
			{ID: "nested", Kind: KindSection},
		}},
	}
	l := ToLayout(widgets, nil)
	assert.Equal(t, []string{"a", "b"}, l.PanelIDs())
	assert.Equal(t, 0, l.Panels["a"].Grid.X)
	assert.Equal(t, "sec", l.Panels["b"].Grid.SectionID)
	assert.False(t, l.HasSection("nested"))
}

func TestFlattenStacksSections(t *testing.T) {
	panels, headers := Flatten(FromLayout(sampleLayout()))
	require.Len(t, headers, 2)
	assert.Equal(t, 10, headers[0].Y)
	assert.Equal(t, 19, headers[1].Y)

	rows := map[string]int{}
	for _, p := range panels {
		rows[p.ID] = p.Y
	}
	assert.Equal(t, 11, rows["s1a"])
	_, hidden := rows["s2a"]
	assert.False(t, hidden, "collapsed section children are not rendered")
}
