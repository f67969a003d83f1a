package circuit

import (
	"fmt"
	"maps"
	"slices"

	"github.com/edp1096/grid-spice/internal/consts"
	"github.com/edp1096/grid-spice/pkg/graph"
	"github.com/edp1096/grid-spice/pkg/solver"
)

// Solution holds the solved unknowns of a reduced graph.
type Solution struct {
	Order          []int
	X              []float64
	Voltages       map[int]float64 // reduced node id -> volts, reference excluded
	SourceCurrents map[int]float64 // voltage source id -> current into its positive terminal
	Trivial        bool            // nothing left to solve, every voltage is zero
}

// Solve assembles and solves a reduced graph. The graph is not modified
// apart from the auxiliary rows handed to its sources. A graph with nothing
// to solve yields zero voltages; a singular system yields solver.ErrSingular.
func Solve(reduced *graph.Graph, opts Options) (*Solution, error) {
	sol := &Solution{
		Voltages:       make(map[int]float64),
		SourceCurrents: make(map[int]float64),
	}

	if len(reduced.Elements) == 0 || reduced.ElectricalNodes() == 0 {
		sol.Trivial = true
		for _, id := range reduced.NodeIDs() {
			if id != consts.ReferenceNodeID {
				sol.Voltages[id] = 0
			}
		}
		return sol, nil
	}

	asm, err := Assemble(reduced, opts.Gmin)
	if err != nil {
		return nil, err
	}
	sol.Order = asm.Order

	if w := opts.tracing(opts.Matrix); w != nil {
		asm.System.PrintMatrix(w)
	}
	if w := opts.tracing(opts.Currents); w != nil {
		asm.System.PrintRHS(w)
	}

	x, err := solver.Solve(asm.System, opts.Solver)
	if err != nil {
		if w := opts.tracing(opts.Voltages); w != nil {
			fmt.Fprintln(w, "Matrix is singular")
		}
		return nil, err
	}
	sol.X = x

	for row, id := range asm.Order {
		if id == consts.ReferenceNodeID {
			continue
		}
		if reduced.Grounded(id) {
			sol.Voltages[id] = 0
			continue
		}
		sol.Voltages[id] = x[row]
	}
	for _, id := range asm.Sources {
		sol.SourceCurrents[id] = x[reduced.Elements[id].AuxRow()]
	}

	if w := opts.tracing(opts.Voltages); w != nil {
		fmt.Fprintln(w, "Node voltages:")
		for _, id := range slices.Sorted(maps.Keys(sol.Voltages)) {
			fmt.Fprintf(w, "  node %d: %g V\n", id, sol.Voltages[id])
		}
	}

	return sol, nil
}
