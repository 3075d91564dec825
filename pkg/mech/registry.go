package mech

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownMechanism reports a mechanism name absent from the registry.
var ErrUnknownMechanism = errors.New("mech: unknown mechanism")

// Builder constructs a mechanism instance over the given CV indices.
type Builder func(nodeIndex []int) Mechanism

var registry = map[string]Builder{}

// Register adds a mechanism builder under name, replacing any previous
// registration. Built-ins register themselves in init; user mechanisms
// may register before cell construction.
func Register(name string, b Builder) {
	registry[name] = b
}

// New instantiates the named mechanism over the given CV indices.
func New(name string, nodeIndex []int) (Mechanism, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMechanism, name)
	}
	return b(nodeIndex), nil
}

// Names returns the registered mechanism names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("pas", func(nodes []int) Mechanism { return NewPas(nodes) })
	Register("hh", func(nodes []int) Mechanism { return NewHH(nodes) })
	Register("expsyn", func(nodes []int) Mechanism { return NewExpSyn(nodes) })
}
