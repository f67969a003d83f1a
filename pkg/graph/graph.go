package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/edp1096/grid-spice/internal/consts"
	"github.com/edp1096/grid-spice/pkg/device"
)

var (
	ErrDuplicateElement = errors.New("element id already in graph")
	ErrBrokenIncidence  = errors.New("node and element incidence disagree")
)

// Graph is a snapshot of nodes and elements, each kept in its own arena and
// cross-referenced by id only.
type Graph struct {
	Nodes    map[int]*Node
	Elements map[int]*device.Element
}

// New returns an empty graph holding only the reference node.
func New() *Graph {
	g := &Graph{
		Nodes:    make(map[int]*Node),
		Elements: make(map[int]*device.Element),
	}
	g.Nodes[consts.ReferenceNodeID] = NewNode(consts.ReferenceNodeID)
	return g
}

func (g *Graph) Clone() *Graph {
	c := &Graph{
		Nodes:    make(map[int]*Node, len(g.Nodes)),
		Elements: make(map[int]*device.Element, len(g.Elements)),
	}
	for id, n := range g.Nodes {
		c.Nodes[id] = n.Clone()
	}
	for id, e := range g.Elements {
		c.Elements[id] = e.Clone()
	}
	return c
}

func (g *Graph) NodeIDs() []int { return slices.Sorted(maps.Keys(g.Nodes)) }

func (g *Graph) ElementIDs() []int { return slices.Sorted(maps.Keys(g.Elements)) }

// ElectricalNodes counts the nodes other than the reference.
func (g *Graph) ElectricalNodes() int {
	n := len(g.Nodes)
	if _, ok := g.Nodes[consts.ReferenceNodeID]; ok {
		n--
	}
	return n
}

// ElectricalNodeIDs lists the non-reference node ids, ascending.
func (g *Graph) ElectricalNodeIDs() []int {
	ids := g.NodeIDs()
	return slices.DeleteFunc(ids, func(id int) bool { return id == consts.ReferenceNodeID })
}

// Grounded reports whether a ground element sits on the node.
func (g *Graph) Grounded(nodeID int) bool {
	n, ok := g.Nodes[nodeID]
	if !ok {
		return false
	}
	for eid := range n.Connections {
		if e, ok := g.Elements[eid]; ok && e.Kind == device.Ground {
			return true
		}
	}
	return false
}

// Validate checks that every element terminal names a node in the snapshot
// and that node connection sets mirror element node lists.
func (g *Graph) Validate() error {
	for _, eid := range g.ElementIDs() {
		e := g.Elements[eid]
		if len(e.Nodes) != e.TerminalCount() {
			return fmt.Errorf("%s: %w: got %d, want %d", e.GetName(), device.ErrTerminalCount, len(e.Nodes), e.TerminalCount())
		}
		for _, nid := range e.Nodes {
			n, ok := g.Nodes[nid]
			if !ok {
				return fmt.Errorf("%s: %w: node %d", e.GetName(), device.ErrUnknownNode, nid)
			}
			if !n.IsConnected(eid) {
				return fmt.Errorf("%w: node %d misses element %d", ErrBrokenIncidence, nid, eid)
			}
		}
	}

	for _, nid := range g.NodeIDs() {
		for _, eid := range g.Nodes[nid].ConnectionIDs() {
			e, ok := g.Elements[eid]
			if !ok || !slices.Contains(e.Nodes, nid) {
				return fmt.Errorf("%w: node %d lists element %d", ErrBrokenIncidence, nid, eid)
			}
		}
	}

	return nil
}
