package analysis

import (
	"fmt"
	"math"

	"github.com/edp1096/grid-spice/pkg/circuit"
	"github.com/edp1096/grid-spice/pkg/device"
)

type DCSweep struct {
	BaseAnalysis
	sourceNames []string    // Names of voltage/current sources to sweep
	startVals   []float64   // Start values for each source
	stopVals    []float64   // Stop values for each source
	increments  []float64   // Incremental value of steps for each source
	sweepVals   [][]float64 // Generated sweep values for each source
	sourceIDs   []int
	origVals    []float64 // Original values of the sources
}

func NewDCSweep(sources []string, starts, stops, increments []float64) (*DCSweep, error) {
	if len(sources) != len(starts) || len(sources) != len(stops) || len(sources) != len(increments) {
		return nil, fmt.Errorf("inconsistent parameter lengths")
	}
	if len(sources) == 0 || len(sources) > 2 {
		return nil, fmt.Errorf("unsupported number of sweep sources: %d", len(sources))
	}

	dc := &DCSweep{
		BaseAnalysis: *NewBaseAnalysis(),
		sourceNames:  sources,
		startVals:    starts,
		stopVals:     stops,
		increments:   increments,
		sweepVals:    make([][]float64, len(sources)),
		sourceIDs:    make([]int, len(sources)),
		origVals:     make([]float64, len(sources)),
	}

	for i := range sources {
		sweep, err := sweepValues(starts[i], stops[i], increments[i])
		if err != nil {
			return nil, fmt.Errorf("sweep %s: %w", sources[i], err)
		}
		dc.sweepVals[i] = sweep
	}

	return dc, nil
}

// sweepValues steps by index so accumulated rounding never drops the stop
// value.
func sweepValues(start, stop, inc float64) ([]float64, error) {
	if inc == 0 || (stop-start)/inc < 0 {
		return nil, fmt.Errorf("increment %g does not reach %g from %g", inc, stop, start)
	}
	n := int(math.Floor((stop-start)/inc+1e-9)) + 1
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = start + float64(i)*inc
	}
	return vals, nil
}

func (dc *DCSweep) Setup(ckt *circuit.Circuit) error {
	dc.Circuit = ckt

	for i, name := range dc.sourceNames {
		el, ok := ckt.ElementByName(name)
		if !ok {
			return fmt.Errorf("source %s not found", name)
		}
		if el.Kind != device.VoltageSource && el.Kind != device.CurrentSource {
			return fmt.Errorf("%s is a %s, not a source", name, el.Kind)
		}
		dc.sourceIDs[i] = el.ID
		dc.origVals[i] = el.GetValue()
	}

	return nil
}

func (dc *DCSweep) Execute() error {
	if dc.Circuit == nil {
		return fmt.Errorf("circuit not set")
	}
	defer dc.restore()

	if len(dc.sourceNames) == 1 {
		return dc.singleSweep()
	}
	return dc.nestedSweep()
}

func (dc *DCSweep) restore() {
	for i, id := range dc.sourceIDs {
		_ = dc.Circuit.SetValue(id, dc.origVals[i])
	}
}

func (dc *DCSweep) singleSweep() error {
	sourceName := dc.sourceNames[0]

	for _, val := range dc.sweepVals[0] {
		if err := dc.Circuit.SetValue(dc.sourceIDs[0], val); err != nil {
			return err
		}
		if _, err := dc.Circuit.Recompute(); err != nil {
			return fmt.Errorf("solving at %s=%g: %w", sourceName, val, err)
		}
		dc.StoreSolution(map[string]float64{"SWEEP1": val}, dc.Circuit.GetSolution())
	}

	return nil
}

func (dc *DCSweep) nestedSweep() error {
	source1Name := dc.sourceNames[0]
	source2Name := dc.sourceNames[1]

	for _, val1 := range dc.sweepVals[0] {
		if err := dc.Circuit.SetValue(dc.sourceIDs[0], val1); err != nil {
			return err
		}

		for _, val2 := range dc.sweepVals[1] {
			if err := dc.Circuit.SetValue(dc.sourceIDs[1], val2); err != nil {
				return err
			}
			if _, err := dc.Circuit.Recompute(); err != nil {
				return fmt.Errorf("solving at %s=%g, %s=%g: %w",
					source1Name, val1, source2Name, val2, err)
			}
			dc.StoreSolution(map[string]float64{"SWEEP1": val1, "SWEEP2": val2}, dc.Circuit.GetSolution())
		}
	}

	return nil
}
