package theme

import "testing"

func TestCellStylesRenderText(t *testing.T) {
	for name, style := range map[string]interface{ Render(...string) string }{
		"border":   PanelBorder,
		"selected": PanelSelected,
		"preview":  PanelPreview,
		"section":  SectionHeader,
	} {
		if got := style.Render("x"); got == "" {
			t.Fatalf("%s style rendered nothing", name)
		}
	}
}
