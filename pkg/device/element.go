package device

import (
	"fmt"
	"slices"

	"github.com/edp1096/grid-spice/pkg/matrix"
)

// Element is one placed component. It references nodes by id only.
type Element struct {
	ID     int
	Kind   Kind
	Name   string
	Pos    Point
	Size   Point
	Nodes  []int
	Value  float64 // ohm, volt, ampere or farad depending on Kind
	Closed bool    // switch state

	auxRow int
}

func (e *Element) capability() Capability {
	if !e.Kind.Valid() {
		panic(fmt.Sprintf("element %d: %v", e.ID, ErrUnknownKind))
	}
	return capabilities[e.Kind]
}

func (e *Element) GetName() string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("%s%d", e.Kind.Letter(), e.ID)
}

func (e *Element) GetNodes() []int { return slices.Clone(e.Nodes) }

func (e *Element) SetNodes(nodes []int) error {
	if len(nodes) != e.TerminalCount() {
		return fmt.Errorf("%s: %w: got %d, want %d", e.GetName(), ErrTerminalCount, len(nodes), e.TerminalCount())
	}
	e.Nodes = slices.Clone(nodes)
	return nil
}

func (e *Element) GetValue() float64 { return e.Value }

func (e *Element) SetValue(value float64) { e.Value = value }

func (e *Element) TerminalCount() int { return e.capability().Terminals }

func (e *Element) AuxRows() int { return e.capability().AuxRows }

func (e *Element) Constraint() bool { return e.capability().Constraint }

func (e *Element) Admittance() float64 { return e.capability().Admittance(e) }

func (e *Element) Shorted() bool { return e.capability().Shorted(e) }

// SetAuxRow hands a voltage-source-like element the first matrix row of its
// auxiliary block. It is called once per assembly before stamping.
func (e *Element) SetAuxRow(row int) { e.auxRow = row }

func (e *Element) AuxRow() int { return e.auxRow }

// Terminals derives grid terminals from the placed geometry. A ground has a
// single terminal at the end of its lead.
func (e *Element) Terminals() []Point {
	if e.TerminalCount() == 1 {
		return []Point{e.Pos.Add(e.Size)}
	}
	return []Point{e.Pos, e.Pos.Add(e.Size)}
}

func (e *Element) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("element %d: %w: %d", e.ID, ErrUnknownKind, int(e.Kind))
	}
	if e.Nodes != nil && len(e.Nodes) != e.TerminalCount() {
		return fmt.Errorf("%s: %w: got %d, want %d", e.GetName(), ErrTerminalCount, len(e.Nodes), e.TerminalCount())
	}
	if e.Kind == Resistor && e.Value <= 0 {
		return fmt.Errorf("%s: %w: resistance %g", e.GetName(), ErrInvalidValue, e.Value)
	}
	if e.Kind == Capacitor && e.Value < 0 {
		return fmt.Errorf("%s: %w: capacitance %g", e.GetName(), ErrInvalidValue, e.Value)
	}
	return nil
}

// Stamp writes the element's contribution. Every node it references must be
// resolvable through idx; anything else is an invariant violation.
func (e *Element) Stamp(m matrix.DeviceMatrix, idx Index) error {
	c := e.capability()
	if len(e.Nodes) != c.Terminals {
		return fmt.Errorf("%s: %w: got %d, want %d", e.GetName(), ErrTerminalCount, len(e.Nodes), c.Terminals)
	}

	rows := make([]int, len(e.Nodes))
	for i, id := range e.Nodes {
		row, ok := idx(id)
		if !ok {
			return fmt.Errorf("%s: %w: node %d", e.GetName(), ErrUnknownNode, id)
		}
		rows[i] = row
	}

	return c.Stamp(e, m, rows)
}

func (e *Element) Clone() *Element {
	c := *e
	c.Nodes = slices.Clone(e.Nodes)
	return &c
}

func (e *Element) String() string {
	return fmt.Sprintf("%s(%s %v)", e.GetName(), e.Kind, e.Nodes)
}
