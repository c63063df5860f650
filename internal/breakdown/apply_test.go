package breakdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/regenrek/peakydash/internal/panel"
)

type memStore struct {
	caps  map[string]panel.Capabilities
	attrs map[string]*panel.Attributes
}

func (m *memStore) Capabilities(id string) (panel.Capabilities, bool) {
	c, ok := m.caps[id]
	return c, ok
}

func (m *memStore) Attributes(_ context.Context, id string) (*panel.Attributes, error) {
	return m.attrs[id], nil
}

func (m *memStore) UpdateAttributes(_ context.Context, id string, attrs *panel.Attributes) error {
	m.attrs[id] = attrs
	return nil
}

func TestApplyUpdatesCapablePanels(t *testing.T) {
	store := &memStore{
		caps: map[string]panel.Capabilities{
			"a":  panel.DefaultCapabilities("lens"),
			"b":  panel.DefaultCapabilities("lens"),
			"md": panel.DefaultCapabilities("markdown"),
		},
		attrs: map[string]*panel.Attributes{
			"a":  breakdownAttrs(),
			"b":  {Title: "no layers"},
			"md": breakdownAttrs(),
		},
	}
	updated := Apply(context.Background(), store, NewRegistry(logsView()), []string{"a", "b", "md", "ghost"}, "zone")
	assert.Equal(t, []string{"a"}, updated)

	field, _ := CurrentField(store.attrs["a"])
	assert.Equal(t, "zone", field)
	field, _ = CurrentField(store.attrs["md"])
	assert.Equal(t, "host.name", field)
}
