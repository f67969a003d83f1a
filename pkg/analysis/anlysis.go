package analysis

import (
	"github.com/edp1096/grid-spice/pkg/circuit"
)

type Analysis interface {
	Setup(ckt *circuit.Circuit) error
	Execute() error
	GetResults() map[string][]float64
}

type BaseAnalysis struct {
	Circuit *circuit.Circuit
	results map[string][]float64 // key: V(x,y) or I(name), value: one entry per solved point
}

func NewBaseAnalysis() *BaseAnalysis {
	return &BaseAnalysis{results: make(map[string][]float64)}
}

// StoreSolution appends one solved point. Keys listed in sweep carry the
// swept source values.
func (a *BaseAnalysis) StoreSolution(sweep map[string]float64, solution map[string]float64) {
	for name, value := range sweep {
		a.results[name] = append(a.results[name], value)
	}
	for name, value := range solution {
		a.results[name] = append(a.results[name], value)
	}
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}
