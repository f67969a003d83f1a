package circuit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/grid-spice/pkg/circuit"
	"github.com/edp1096/grid-spice/pkg/device"
	"github.com/edp1096/grid-spice/pkg/graph"
)

func reduced(t *testing.T, elements ...*device.Element) *graph.Graph {
	t.Helper()
	for i, e := range elements {
		e.ID = i
	}
	g, _, err := graph.Build(elements...)
	require.NoError(t, err)
	r, _ := graph.Simplify(g)
	return r
}

func TestAssembleAuxRowsFollowElementOrder(t *testing.T) {
	g := reduced(t,
		device.NewGround(pt(0, -1), pt(0, 1)),
		device.NewVoltageSource(pt(0, 0), pt(0, 1), 1),
		device.NewVoltageSource(pt(0, 1), pt(0, 1), 2),
		device.NewResistor(pt(0, 2), pt(0, -2), 10),
	)

	asm, err := circuit.Assemble(g, 0)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3}, asm.Order)
	require.Equal(t, []int{1, 2}, asm.Sources)
	require.Equal(t, 6, asm.System.Size)
	require.Equal(t, 4, asm.System.Nodes)
	require.Equal(t, 4, g.Elements[1].AuxRow())
	require.Equal(t, 5, g.Elements[2].AuxRow())
	require.Equal(t, 1.0, asm.System.RHSAt(4))
	require.Equal(t, 2.0, asm.System.RHSAt(5))
	require.Equal(t, 2, asm.Rows[2])
}

func TestAssembleInvariantViolations(t *testing.T) {
	g := reduced(t,
		device.NewGround(pt(0, -1), pt(0, 1)),
		device.NewVoltageSource(pt(0, 0), pt(0, 1), 1),
	)

	broken := g.Clone()
	broken.Elements[1].Nodes[1] = 99
	_, err := circuit.Assemble(broken, 0)
	require.ErrorIs(t, err, device.ErrUnknownNode)

	noRef := g.Clone()
	delete(noRef.Nodes, 0)
	_, err = circuit.Assemble(noRef, 0)
	require.ErrorIs(t, err, device.ErrUnknownNode)

	_, err = circuit.Solve(broken, circuit.DefaultOptions())
	require.ErrorIs(t, err, device.ErrUnknownNode)
}

func TestSolveTrivialGraphs(t *testing.T) {
	sol, err := circuit.Solve(graph.New(), circuit.DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, sol.Voltages)
	require.Nil(t, sol.X)

	// Grounded node with nothing else attached.
	g := reduced(t, device.NewGround(pt(0, 0), pt(0, 1)))
	sol, err = circuit.Solve(g, circuit.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, map[int]float64{1: 0}, sol.Voltages)
}

func TestMapResults(t *testing.T) {
	sol := &circuit.Solution{Voltages: map[int]float64{1: 3, 2: 0}}
	merges := graph.MergeMap{1: {4: {}, 5: {}}, 7: {8: {}}}

	got := circuit.MapResults(sol, merges)
	require.Equal(t, map[int]float64{1: 3, 4: 3, 5: 3, 2: 0}, got)
}
