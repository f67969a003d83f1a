package device

import "github.com/edp1096/grid-spice/internal/consts"

func NewWire(pos, size Point) *Element {
	return &Element{Kind: Wire, Pos: pos, Size: size}
}

// A wire is merged away during simplification. If one is still present at
// assembly it stamps as a very large conductance.
func wireAdmittance(*Element) float64 { return consts.ShortAdmittance }
