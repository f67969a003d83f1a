package device

import "github.com/edp1096/grid-spice/pkg/matrix"

// NewVoltageSource places an ideal DC source. The second terminal
// (Pos+Size) is the positive one.
func NewVoltageSource(pos, size Point, value float64) *Element {
	return &Element{Kind: VoltageSource, Pos: pos, Size: size, Value: value}
}

// v(b) - v(a) = V on the auxiliary row k; the unknown in column k is the
// current flowing into the positive terminal.
func stampVoltageSource(e *Element, m matrix.DeviceMatrix, rows []int) error {
	n1, n2 := rows[0], rows[1]
	k := e.auxRow

	m.AddElement(k, n1, -1)
	m.AddElement(k, n2, 1)
	m.AddElement(n1, k, -1)
	m.AddElement(n2, k, 1)
	m.AddRHS(k, e.Value)

	return nil
}
