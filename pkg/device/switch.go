package device

import "github.com/edp1096/grid-spice/internal/consts"

func NewSwitch(pos, size Point, closed bool) *Element {
	return &Element{Kind: Switch, Pos: pos, Size: size, Closed: closed}
}

func (e *Element) Toggle() { e.Closed = !e.Closed }

func switchShorted(e *Element) bool { return e.Closed }

func switchAdmittance(e *Element) float64 {
	if e.Closed {
		return consts.ShortAdmittance
	}
	return 0
}
