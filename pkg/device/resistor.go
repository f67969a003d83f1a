package device

import "github.com/edp1096/grid-spice/pkg/matrix"

func NewResistor(pos, size Point, value float64) *Element {
	return &Element{Kind: Resistor, Pos: pos, Size: size, Value: value}
}

func resistorAdmittance(e *Element) float64 { return 1.0 / e.Value }

// stampConductance is the two-terminal Ohm's law stamp shared by every kind
// whose contribution is a plain admittance.
func stampConductance(e *Element, m matrix.DeviceMatrix, rows []int) error {
	g := e.Admittance()
	if g == 0 {
		return nil
	}

	n1, n2 := rows[0], rows[1]
	m.AddElement(n1, n1, g)
	m.AddElement(n1, n2, -g)
	m.AddElement(n2, n1, -g)
	m.AddElement(n2, n2, g)

	return nil
}
