package analysis

import (
	"fmt"

	"github.com/edp1096/grid-spice/pkg/circuit"
)

type OperatingPoint struct{ BaseAnalysis }

func NewOP() *OperatingPoint {
	return &OperatingPoint{
		BaseAnalysis: *NewBaseAnalysis(),
	}
}

func (op *OperatingPoint) Setup(ckt *circuit.Circuit) error {
	op.Circuit = ckt
	return nil
}

func (op *OperatingPoint) Execute() error {
	if op.Circuit == nil {
		return fmt.Errorf("circuit not set")
	}

	_, err := op.Circuit.Recompute()
	if err != nil {
		return fmt.Errorf("operating point: %w", err)
	}

	op.StoreSolution(nil, op.Circuit.GetSolution())
	return nil
}
