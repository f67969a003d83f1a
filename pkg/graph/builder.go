package graph

import (
	"fmt"

	"github.com/edp1096/grid-spice/pkg/device"
)

// Builder turns terminal coordinates into a node/element graph, reusing one
// node per distinct coordinate.
type Builder struct {
	reg   *Registry
	graph *Graph
}

// NewBuilder seeds the reference node. A nil registry starts a fresh one.
func NewBuilder(reg *Registry) *Builder {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Builder{reg: reg, graph: New()}
}

// Add records e with the given terminal coordinates and sets its node list.
// The builder keeps e; pass a clone to keep the caller's copy untouched.
func (b *Builder) Add(e *device.Element, coords []device.Point) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if len(coords) != e.TerminalCount() {
		return fmt.Errorf("%s: %w: %d coordinates for %d terminals", e.GetName(), device.ErrTerminalCount, len(coords), e.TerminalCount())
	}
	if _, ok := b.graph.Elements[e.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateElement, e.ID)
	}

	nodes := make([]int, len(coords))
	for i, p := range coords {
		id := b.reg.Resolve(p)
		n, ok := b.graph.Nodes[id]
		if !ok {
			n = NewNode(id)
			b.graph.Nodes[id] = n
		}
		n.Connect(e.ID)
		nodes[i] = id
	}

	if err := e.SetNodes(nodes); err != nil {
		return err
	}
	b.graph.Elements[e.ID] = e
	return nil
}

// AddPlaced uses the element's own geometry for its terminals.
func (b *Builder) AddPlaced(e *device.Element) error {
	return b.Add(e, e.Terminals())
}

func (b *Builder) Graph() *Graph { return b.graph }

func (b *Builder) Registry() *Registry { return b.reg }

// Build places every element by its geometry into a fresh graph.
func Build(elements ...*device.Element) (*Graph, *Registry, error) {
	b := NewBuilder(nil)
	for _, e := range elements {
		if err := b.AddPlaced(e); err != nil {
			return nil, nil, err
		}
	}
	return b.Graph(), b.Registry(), nil
}
