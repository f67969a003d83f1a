package graph

import (
	"fmt"
	"io"
	"slices"

	"github.com/edp1096/grid-spice/internal/consts"
	"github.com/edp1096/grid-spice/pkg/device"
)

type SimplifyOption func(*Simplifier)

// WithTrace writes a summary of every pass to w.
func WithTrace(w io.Writer) SimplifyOption {
	return func(s *Simplifier) { s.trace = w }
}

// Simplifier reduces a graph to its electrically distinct nodes. It works on
// its own clone of the input.
type Simplifier struct {
	g      *Graph
	merges MergeMap
	trace  io.Writer
	passes int
}

func NewSimplifier(g *Graph, opts ...SimplifyOption) *Simplifier {
	s := &Simplifier{g: g.Clone(), merges: make(MergeMap)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simplify runs the rewrite to a fixpoint and returns the reduced graph with
// the merge map needed to scatter results back.
func Simplify(g *Graph, opts ...SimplifyOption) (*Graph, MergeMap) {
	return NewSimplifier(g, opts...).Run()
}

func (s *Simplifier) Run() (*Graph, MergeMap) {
	for s.Pass() {
	}
	return s.g, s.merges
}

func (s *Simplifier) Passes() int { return s.passes }

// Pass prunes, repairs and merges once. It reports whether anything changed.
func (s *Simplifier) Pass() bool {
	s.passes++

	dangling := s.pruneDangling()
	orphans := s.pruneOrphans()
	s.repairConnections()
	merged := s.mergeShorted()

	changed := len(dangling) > 0 || len(orphans) > 0 || len(merged) > 0
	if s.trace != nil {
		fmt.Fprintf(s.trace, "pass %d: nodes=%d elements=%d\n", s.passes, len(s.g.Nodes), len(s.g.Elements))
		if len(dangling) > 0 {
			fmt.Fprintf(s.trace, "  pruned dangling nodes %v\n", dangling)
		}
		if len(orphans) > 0 {
			fmt.Fprintf(s.trace, "  pruned elements %v\n", orphans)
		}
		for _, m := range merged {
			fmt.Fprintf(s.trace, "  merged node %d into %d\n", m[1], m[0])
		}
		if !changed {
			fmt.Fprintln(s.trace, "  no change")
		}
	}

	return changed
}

// anchored nodes carry a constraint row and must survive even when only one
// element touches them.
func (s *Simplifier) anchored(n *Node) bool {
	if n.ID == consts.ReferenceNodeID {
		return true
	}
	for eid := range n.Connections {
		if e, ok := s.g.Elements[eid]; ok && e.Constraint() {
			return true
		}
	}
	return false
}

func (s *Simplifier) pruneDangling() []int {
	var pruned []int
	for _, id := range s.g.NodeIDs() {
		n := s.g.Nodes[id]
		if n.Degree() <= 1 && !s.anchored(n) {
			delete(s.g.Nodes, id)
			pruned = append(pruned, id)
		}
	}
	return pruned
}

// pruneOrphans drops elements that no longer reach as many distinct live
// nodes as they have terminals. Elements whose terminals were merged onto
// one node fall out here too, except those owning an auxiliary row: a
// shorted voltage source keeps its unsatisfiable constraint.
func (s *Simplifier) pruneOrphans() []int {
	var pruned []int
	for _, id := range s.g.ElementIDs() {
		e := s.g.Elements[id]
		var live []int
		missing := false
		for _, nid := range e.Nodes {
			if _, ok := s.g.Nodes[nid]; !ok {
				missing = true
				continue
			}
			if !slices.Contains(live, nid) {
				live = append(live, nid)
			}
		}
		if !missing && e.AuxRows() > 0 {
			continue
		}
		if len(live) < e.TerminalCount() {
			delete(s.g.Elements, id)
			pruned = append(pruned, id)
		}
	}
	return pruned
}

func (s *Simplifier) repairConnections() {
	for _, n := range s.g.Nodes {
		for eid := range n.Connections {
			if _, ok := s.g.Elements[eid]; !ok {
				n.Disconnect(eid)
			}
		}
	}
}

// joined reports whether two live nodes are the same electrical node: a
// shorted element spans them, or both sit on the ground rail.
func (s *Simplifier) joined(a, b *Node) bool {
	groundA, groundB := false, false
	for eid := range a.Connections {
		e := s.g.Elements[eid]
		if e.Kind == device.Ground {
			groundA = true
		}
		if b.IsConnected(eid) && e.Shorted() {
			return true
		}
	}
	if groundA {
		for eid := range b.Connections {
			if s.g.Elements[eid].Kind == device.Ground {
				groundB = true
				break
			}
		}
	}
	return groundA && groundB
}

// mergeShorted folds every higher-numbered node into the lowest-numbered
// node it is shorted to. It returns the (survivor, removed) pairs.
func (s *Simplifier) mergeShorted() [][2]int {
	var merged [][2]int
	removed := make(map[int]bool)

	ids := s.g.NodeIDs()
	for x, i := range ids {
		if i == consts.ReferenceNodeID || removed[i] {
			continue
		}
		for _, j := range ids[x+1:] {
			if removed[j] {
				continue
			}
			a, b := s.g.Nodes[i], s.g.Nodes[j]
			if !s.joined(a, b) {
				continue
			}
			s.merge(a, b)
			removed[j] = true
			merged = append(merged, [2]int{i, j})
		}
	}

	for id := range removed {
		delete(s.g.Nodes, id)
	}
	return merged
}

func (s *Simplifier) merge(survivor, gone *Node) {
	for eid := range gone.Connections {
		survivor.Connect(eid)
		e := s.g.Elements[eid]
		for k, nid := range e.Nodes {
			if nid == gone.ID {
				e.Nodes[k] = survivor.ID
			}
		}
	}
	s.merges.record(survivor.ID, gone.ID)
}
