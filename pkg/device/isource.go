package device

import "github.com/edp1096/grid-spice/pkg/matrix"

// NewCurrentSource places an ideal DC source pushing Value amperes from its
// first terminal into its second.
func NewCurrentSource(pos, size Point, value float64) *Element {
	return &Element{Kind: CurrentSource, Pos: pos, Size: size, Value: value}
}

func stampCurrentSource(e *Element, m matrix.DeviceMatrix, rows []int) error {
	n1, n2 := rows[0], rows[1]
	m.AddRHS(n2, e.Value)
	m.AddRHS(n1, -e.Value)
	return nil
}
