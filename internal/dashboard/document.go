package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/regenrek/peakydash/internal/atomicfile"
	"github.com/regenrek/peakydash/internal/breakdown"
	"github.com/regenrek/peakydash/internal/layout"
	"github.com/regenrek/peakydash/internal/panel"
)

// DocumentVersion is the schema version written by Save.
const DocumentVersion = 1

// Document is the on-disk dashboard: layout plus per-panel state and the data
// views panels reference.
type Document struct {
	Version   int                   `yaml:"version"`
	Title     string                `yaml:"title,omitempty"`
	Layout    *layout.Layout        `yaml:"layout"`
	Panels    map[string]PanelState `yaml:"panels,omitempty"`
	DataViews []*breakdown.DataView `yaml:"data_views,omitempty"`
}

// PanelState is the stored state of one panel. Capabilities override the
// defaults implied by the panel type when set.
type PanelState struct {
	Capabilities []string          `yaml:"capabilities,omitempty"`
	Attributes   *panel.Attributes `yaml:"attributes,omitempty"`
}

// ReadDocument parses a YAML dashboard document.
func ReadDocument(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dashboard: empty document")
		}
		return nil, fmt.Errorf("dashboard: parse document: %w", err)
	}
	if doc.Version == 0 {
		doc.Version = DocumentVersion
	}
	if doc.Version > DocumentVersion {
		return nil, fmt.Errorf("dashboard: unsupported document version %d", doc.Version)
	}
	if doc.Layout == nil {
		doc.Layout = layout.New()
	}
	fillMaps(doc.Layout)
	return &doc, nil
}

// LoadDocument reads a document from path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dashboard: read %q: %w", path, err)
	}
	doc, err := ReadDocument(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Encode writes the document as YAML.
func (doc *Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("dashboard: encode document: %w", err)
	}
	return enc.Close()
}

// SaveDocument atomically replaces path with doc.
func SaveDocument(path string, doc *Document) error {
	return atomicfile.Write(path, 0o644, doc.Encode)
}

// Validate reports layout problems and panel state for unknown panels.
func (doc *Document) Validate() error {
	var errs []error
	if err := doc.Layout.Validate(); err != nil {
		errs = append(errs, err)
	}
	for id, st := range doc.Panels {
		if _, ok := doc.Layout.Panels[id]; !ok && !doc.Layout.IsPinned(id) {
			errs = append(errs, fmt.Errorf("panels.%s: no such panel in layout", id))
		}
		for _, name := range st.Capabilities {
			if _, ok := panel.ParseCapability(name); !ok {
				errs = append(errs, fmt.Errorf("panels.%s: unknown capability %q", id, name))
			}
		}
	}
	return errors.Join(errs...)
}

func fillMaps(l *layout.Layout) {
	if l.Panels == nil {
		l.Panels = map[string]layout.Panel{}
	}
	if l.Sections == nil {
		l.Sections = map[string]layout.Section{}
	}
	if l.PinnedPanels == nil {
		l.PinnedPanels = map[string]layout.PinnedPanel{}
	}
}
