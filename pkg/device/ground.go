package device

import (
	"github.com/edp1096/grid-spice/internal/consts"
	"github.com/edp1096/grid-spice/pkg/matrix"
)

func NewGround(pos, size Point) *Element {
	return &Element{Kind: Ground, Pos: pos, Size: size}
}

// Pins its node to the reference row. Column 0 then carries the current
// returned through ground.
func stampGround(_ *Element, m matrix.DeviceMatrix, rows []int) error {
	ref, n := consts.ReferenceRow, rows[0]
	m.AddElement(ref, n, 1)
	m.AddElement(n, ref, 1)
	return nil
}
