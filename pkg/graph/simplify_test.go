package graph_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/grid-spice/pkg/device"
	"github.com/edp1096/grid-spice/pkg/graph"
)

// ring: R0 (0,0)-(0,1), W1 (0,1)-(1,1), W2 (1,1)-(2,1), R3 (2,1)-(0,0).
// Node ids: (0,0)=1 (0,1)=2 (1,1)=3 (2,1)=4.
func ring(t *testing.T) *graph.Graph {
	return build(t,
		device.NewResistor(pt(0, 0), pt(0, 1), 10),
		device.NewWire(pt(0, 1), pt(1, 0)),
		device.NewWire(pt(1, 1), pt(1, 0)),
		device.NewResistor(pt(2, 1), pt(-2, -1), 20),
	)
}

func TestSimplifyMergesWireChainTransitively(t *testing.T) {
	g := ring(t)
	reduced, merges := graph.Simplify(g)

	require.Equal(t, []int{0, 1, 2}, reduced.NodeIDs())
	require.Equal(t, []int{0, 3}, reduced.ElementIDs())
	require.Equal(t, []int{1, 2}, reduced.Elements[0].Nodes)
	require.Equal(t, []int{2, 1}, reduced.Elements[3].Nodes)
	require.Equal(t, []int{3, 4}, merges.Merged(2))
	require.Equal(t, []int{2}, merges.Survivors())
	require.NoError(t, reduced.Validate())

	// input untouched
	require.Len(t, g.Nodes, 5)
	require.Len(t, g.Elements, 4)
}

func TestSimplifyPrunesDanglingChains(t *testing.T) {
	// G0 lead ends at (0,1); V1 (0,1)-(1,1); R2 (1,1)-(1,0); W3 (1,0)-(0,0).
	// (0,0) hangs off the wire alone, then the wire, then the resistor go.
	g := build(t,
		device.NewGround(pt(0, 0), pt(0, 1)),
		device.NewVoltageSource(pt(0, 1), pt(1, 0), 5),
		device.NewResistor(pt(1, 1), pt(0, -1), 10),
		device.NewWire(pt(1, 0), pt(-1, 0)),
	)

	reduced, merges := graph.Simplify(g)
	require.Equal(t, []int{0, 1, 2}, reduced.NodeIDs())
	require.Equal(t, []int{0, 1}, reduced.ElementIDs())
	require.Empty(t, merges)
	require.NoError(t, reduced.Validate())
}

func TestSimplifyKeepsConstraintNodes(t *testing.T) {
	g := build(t, device.NewVoltageSource(pt(0, 0), pt(1, 0), 5))
	reduced, _ := graph.Simplify(g)
	require.Equal(t, []int{0, 1, 2}, reduced.NodeIDs())
	require.Equal(t, []int{0}, reduced.ElementIDs())
}

func TestSimplifyKeepsShortedVoltageSource(t *testing.T) {
	// G0 lead ends at (0,0); V1 (0,0)-(0,1) with W2 and R3 both across it.
	g := build(t,
		device.NewGround(pt(0, -1), pt(0, 1)),
		device.NewVoltageSource(pt(0, 0), pt(0, 1), 5),
		device.NewWire(pt(0, 1), pt(0, -1)),
		device.NewResistor(pt(0, 1), pt(0, -1), 10),
	)

	reduced, merges := graph.Simplify(g)
	require.Equal(t, []int{0, 1}, reduced.NodeIDs())
	require.Equal(t, []int{0, 1}, reduced.ElementIDs())
	require.Equal(t, []int{1, 1}, reduced.Elements[1].Nodes)
	require.Equal(t, []int{2}, merges.Merged(1))
	require.NoError(t, reduced.Validate())
}

func TestSimplifyDropsLoneElements(t *testing.T) {
	g := build(t, device.NewResistor(pt(0, 0), pt(1, 0), 5))
	reduced, merges := graph.Simplify(g)
	require.Equal(t, []int{0}, reduced.NodeIDs())
	require.Empty(t, reduced.Elements)
	require.Empty(t, merges)
}

func TestSimplifyEmptyGraph(t *testing.T) {
	reduced, merges := graph.Simplify(graph.New())
	require.Equal(t, []int{0}, reduced.NodeIDs())
	require.Empty(t, merges)
}

func TestSimplifyJoinsGroundRail(t *testing.T) {
	// Two grounds on different nodes with a resistor between them.
	g := build(t,
		device.NewGround(pt(0, -1), pt(0, 1)),
		device.NewGround(pt(5, -1), pt(0, 1)),
		device.NewResistor(pt(0, 0), pt(5, 0), 10),
	)

	reduced, merges := graph.Simplify(g)
	require.Equal(t, []int{0, 1}, reduced.NodeIDs())
	require.Equal(t, []int{0, 1}, reduced.ElementIDs())
	require.Equal(t, []int{2}, merges.Merged(1))
	require.True(t, reduced.Grounded(1))
}

func TestSimplifySwitchState(t *testing.T) {
	elements := func(closed bool) []*device.Element {
		return []*device.Element{
			device.NewGround(pt(0, -1), pt(0, 1)),
			device.NewVoltageSource(pt(0, 0), pt(0, 1), 5),
			device.NewSwitch(pt(0, 1), pt(1, 0), closed),
			device.NewResistor(pt(1, 1), pt(0, -1), 10),
			device.NewWire(pt(1, 0), pt(-1, 0)),
		}
	}

	// W4 always folds (1,0) into the grounded node 1.
	open, merges := graph.Simplify(build(t, elements(false)...))
	require.Equal(t, []int{1}, merges.Survivors())
	require.Contains(t, open.Elements, 2)
	require.Len(t, open.Nodes, 4)

	closed, merges := graph.Simplify(build(t, elements(true)...))
	require.NotContains(t, closed.Elements, 2)
	require.Len(t, closed.Nodes, 3)
	require.Equal(t, []int{1, 2}, merges.Survivors())
	require.Equal(t, []int{2, 1}, closed.Elements[3].Nodes)
}

func TestSimplifyIsIdempotent(t *testing.T) {
	for name, g := range map[string]*graph.Graph{
		"ring": ring(t),
		"ground rail": build(t,
			device.NewGround(pt(0, -1), pt(0, 1)),
			device.NewGround(pt(5, -1), pt(0, 1)),
			device.NewVoltageSource(pt(0, 0), pt(0, 2), 3),
			device.NewResistor(pt(0, 2), pt(5, -2), 10),
		),
	} {
		t.Run(name, func(t *testing.T) {
			once, _ := graph.Simplify(g)
			twice, merges := graph.Simplify(once)
			require.Equal(t, once.NodeIDs(), twice.NodeIDs())
			require.Equal(t, once.ElementIDs(), twice.ElementIDs())
			for id, e := range once.Elements {
				require.Equal(t, e.Nodes, twice.Elements[id].Nodes)
			}
			require.Empty(t, merges)
		})
	}
}

func TestSimplifyIsDeterministic(t *testing.T) {
	a, ma := graph.Simplify(ring(t))
	b, mb := graph.Simplify(ring(t))
	require.Equal(t, a.NodeIDs(), b.NodeIDs())
	require.Equal(t, a.ElementIDs(), b.ElementIDs())
	require.Equal(t, ma.String(), mb.String())
}

func TestSimplifyTrace(t *testing.T) {
	var buf bytes.Buffer
	s := graph.NewSimplifier(ring(t), graph.WithTrace(&buf))
	s.Run()

	require.Equal(t, 3, s.Passes())
	out := buf.String()
	require.Contains(t, out, "pass 1: nodes=3 elements=4")
	require.Contains(t, out, "merged node 3 into 2")
	require.Contains(t, out, "merged node 4 into 2")
	require.Contains(t, out, "pruned elements [1 2]")
	require.Contains(t, out, "no change")
}

func TestMergeMap(t *testing.T) {
	g := ring(t)
	_, merges := graph.Simplify(g)
	require.Equal(t, 2, merges.Resolve(4))
	require.Equal(t, 1, merges.Resolve(1))
	require.Equal(t, "{2: [3 4]}", merges.String())
}
