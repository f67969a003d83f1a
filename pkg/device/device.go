package device

import (
	"errors"
	"fmt"

	"github.com/edp1096/grid-spice/internal/consts"
	"github.com/edp1096/grid-spice/pkg/matrix"
)

var (
	ErrUnknownKind   = errors.New("unknown element kind")
	ErrTerminalCount = errors.New("terminal count mismatch")
	ErrUnknownNode   = errors.New("element references a node outside the snapshot")
	ErrInvalidValue  = errors.New("invalid element value")
)

type Kind int

const (
	Wire Kind = iota
	Resistor
	Capacitor
	VoltageSource
	CurrentSource
	Switch
	Ground
)

var kindNames = [...]string{
	Wire:          "wire",
	Resistor:      "resistor",
	Capacitor:     "capacitor",
	VoltageSource: "voltage source",
	CurrentSource: "current source",
	Switch:        "switch",
	Ground:        "ground",
}

// Netlist letters, first character of an element name.
var kindLetters = [...]string{
	Wire:          "W",
	Resistor:      "R",
	Capacitor:     "C",
	VoltageSource: "V",
	CurrentSource: "I",
	Switch:        "S",
	Ground:        "G",
}

func (k Kind) Valid() bool { return k >= Wire && k <= Ground }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) Letter() string {
	if !k.Valid() {
		return "?"
	}
	return kindLetters[k]
}

func KindFromLetter(letter string) (Kind, bool) {
	for k, l := range kindLetters {
		if l == letter {
			return Kind(k), true
		}
	}
	return 0, false
}

// Point is an integer grid coordinate.
type Point struct {
	X, Y int
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) String() string { return fmt.Sprintf("%d,%d", p.X, p.Y) }

// Index resolves a node id to its matrix row in the reduced ordering.
type Index func(nodeID int) (row int, ok bool)

// Capability is the per-kind behavior record. Every kind spells out all of
// it, including kinds whose stamp contributes nothing.
type Capability struct {
	Terminals  int
	AuxRows    int
	Constraint bool // terminals feed constraint rows and survive dangling pruning
	Admittance func(e *Element) float64
	Shorted    func(e *Element) bool
	Stamp      func(e *Element, m matrix.DeviceMatrix, rows []int) error
}

var capabilities [Ground + 1]Capability

// Filled in init: stampConductance reaches back into the table through
// Element.Admittance.
func init() {
	capabilities = [Ground + 1]Capability{
		Wire: {
			Terminals:  2,
			Admittance: wireAdmittance,
			Shorted:    always,
			Stamp:      stampConductance,
		},
		Resistor: {
			Terminals:  2,
			Admittance: resistorAdmittance,
			Shorted:    never,
			Stamp:      stampConductance,
		},
		Capacitor: {
			Terminals:  2,
			Admittance: noAdmittance,
			Shorted:    never,
			Stamp:      stampOpen,
		},
		VoltageSource: {
			Terminals:  2,
			AuxRows:    1,
			Constraint: true,
			Admittance: noAdmittance,
			Shorted:    never,
			Stamp:      stampVoltageSource,
		},
		CurrentSource: {
			Terminals:  2,
			Admittance: noAdmittance,
			Shorted:    never,
			Stamp:      stampCurrentSource,
		},
		Switch: {
			Terminals:  2,
			Admittance: switchAdmittance,
			Shorted:    switchShorted,
			Stamp:      stampConductance,
		},
		Ground: {
			Terminals:  1,
			Constraint: true,
			Admittance: noAdmittance,
			Shorted:    never,
			Stamp:      stampGround,
		},
	}
}

func CapabilityOf(k Kind) (Capability, error) {
	if !k.Valid() {
		return Capability{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return capabilities[k], nil
}

func always(*Element) bool { return true }

func never(*Element) bool { return false }

func noAdmittance(*Element) float64 { return 0 }

// DefaultValue is the value an element of kind k gets when placed without one.
func DefaultValue(k Kind) float64 {
	switch k {
	case Resistor:
		return consts.DefaultResistor
	case Capacitor:
		return consts.DefaultCapacitor
	case VoltageSource:
		return consts.DefaultVoltage
	case CurrentSource:
		return consts.DefaultCurrent
	}
	return 0
}
