// Package panel describes what a dashboard panel instance can do and how bulk
// operations reach it.
package panel

import "strings"

// Capability is a tagged feature of a panel instance, checked instead of
// probing for methods at each call site.
type Capability uint16

const (
	CapDuplicate Capability = 1 << iota
	CapRemove
	CapAttributes
	CapBreakdownField
	CapColorMapping
)

// Capabilities is a set of capability flags.
type Capabilities uint16

func NewCapabilities(caps ...Capability) Capabilities {
	var out Capabilities
	for _, c := range caps {
		out |= Capabilities(c)
	}
	return out
}

func (c Capabilities) Has(cap Capability) bool {
	return c&Capabilities(cap) != 0
}

func (c Capabilities) With(cap Capability) Capabilities {
	return c | Capabilities(cap)
}

var capNames = []struct {
	cap  Capability
	name string
}{
	{CapDuplicate, "duplicate"},
	{CapRemove, "remove"},
	{CapAttributes, "attributes"},
	{CapBreakdownField, "breakdown_field"},
	{CapColorMapping, "color_mapping"},
}

func (c Capabilities) String() string {
	names := make([]string, 0, len(capNames))
	for _, n := range capNames {
		if c.Has(n.cap) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseCapability maps a config name to its flag.
func ParseCapability(name string) (Capability, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range capNames {
		if n.name == name {
			return n.cap, true
		}
	}
	return 0, false
}

// DefaultCapabilities returns the capabilities implied by a panel type.
func DefaultCapabilities(panelType string) Capabilities {
	base := NewCapabilities(CapDuplicate, CapRemove)
	switch strings.ToLower(panelType) {
	case "lens":
		return base.With(CapAttributes).With(CapBreakdownField).With(CapColorMapping)
	case "markdown", "image":
		return base.With(CapAttributes)
	default:
		return base
	}
}
