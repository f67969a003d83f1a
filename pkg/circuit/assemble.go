package circuit

import (
	"fmt"

	"github.com/edp1096/grid-spice/internal/consts"
	"github.com/edp1096/grid-spice/pkg/device"
	"github.com/edp1096/grid-spice/pkg/graph"
	"github.com/edp1096/grid-spice/pkg/matrix"
)

// Assembly is a stamped system plus the row bookkeeping needed to read the
// solution back.
type Assembly struct {
	System  *matrix.System
	Order   []int       // node id per row, reference first
	Rows    map[int]int // node id -> row
	Sources []int       // ids of elements owning auxiliary rows, in row order
}

// Assemble stamps every element of a reduced graph into a fresh system.
// The graph's elements receive their auxiliary rows as a side effect.
func Assemble(g *graph.Graph, gmin float64) (*Assembly, error) {
	order := g.NodeIDs()
	if len(order) == 0 || order[0] != consts.ReferenceNodeID {
		return nil, fmt.Errorf("%w: reference node %d missing", device.ErrUnknownNode, consts.ReferenceNodeID)
	}

	rows := make(map[int]int, len(order))
	for i, id := range order {
		rows[id] = i
	}

	var sources []int
	aux := 0
	for _, id := range g.ElementIDs() {
		e := g.Elements[id]
		if n := e.AuxRows(); n > 0 {
			e.SetAuxRow(len(order) + aux)
			sources = append(sources, id)
			aux += n
		}
	}

	sys, err := matrix.NewSystem(len(order)+aux, len(order))
	if err != nil {
		return nil, err
	}

	index := func(nodeID int) (int, bool) {
		row, ok := rows[nodeID]
		return row, ok
	}
	for _, id := range g.ElementIDs() {
		if err := g.Elements[id].Stamp(sys, index); err != nil {
			return nil, fmt.Errorf("stamping element %d: %w", id, err)
		}
	}
	sys.LoadGmin(gmin)

	return &Assembly{System: sys, Order: order, Rows: rows, Sources: sources}, nil
}
