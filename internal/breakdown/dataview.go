// Package breakdown resolves and changes the field a visualization splits its
// series by.
package breakdown

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDataViewNotFound is returned by a DataViews lookup for an unknown ID.
var ErrDataViewNotFound = errors.New("breakdown: data view not found")

type Field struct {
	Name         string `yaml:"name" json:"name"`
	DisplayName  string `yaml:"display_name,omitempty" json:"displayName,omitempty"`
	Type         string `yaml:"type" json:"type"`
	Aggregatable bool   `yaml:"aggregatable" json:"aggregatable"`
}

// Label is the text shown for a field.
func (f Field) Label() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

type DataView struct {
	ID     string  `yaml:"id" json:"id"`
	Title  string  `yaml:"title" json:"title"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Field looks up a field by name.
func (d *DataView) Field(name string) (Field, bool) {
	if d == nil {
		return Field{}, false
	}
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// DataViews resolves data views referenced by panel layers.
type DataViews interface {
	DataView(id string) (*DataView, error)
}

// Registry is an in-memory DataViews implementation.
type Registry struct {
	mu    sync.RWMutex
	views map[string]*DataView
}

func NewRegistry(views ...*DataView) *Registry {
	r := &Registry{views: make(map[string]*DataView, len(views))}
	for _, v := range views {
		r.Put(v)
	}
	return r
}

func (r *Registry) Put(v *DataView) {
	if v == nil || v.ID == "" {
		return
	}
	r.mu.Lock()
	r.views[v.ID] = v
	r.mu.Unlock()
}

func (r *Registry) DataView(id string) (*DataView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDataViewNotFound, id)
	}
	return v, nil
}

// All returns every registered view.
func (r *Registry) All() []*DataView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*DataView, 0, len(r.views))
	for _, v := range r.views {
		out = append(out, v)
	}
	return out
}
