package graph

import (
	"maps"
	"slices"
)

// Node is an electrical junction. Connections holds the ids of the elements
// that have a terminal on it.
type Node struct {
	ID          int
	Voltage     float64
	Connections map[int]struct{}
}

func NewNode(id int) *Node {
	return &Node{ID: id, Connections: make(map[int]struct{})}
}

func (n *Node) Connect(elementID int) { n.Connections[elementID] = struct{}{} }

func (n *Node) Disconnect(elementID int) { delete(n.Connections, elementID) }

func (n *Node) IsConnected(elementID int) bool {
	_, ok := n.Connections[elementID]
	return ok
}

func (n *Node) Degree() int { return len(n.Connections) }

func (n *Node) ConnectionIDs() []int {
	return slices.Sorted(maps.Keys(n.Connections))
}

func (n *Node) Clone() *Node {
	return &Node{ID: n.ID, Voltage: n.Voltage, Connections: maps.Clone(n.Connections)}
}
