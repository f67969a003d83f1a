package circuit

import (
	"io"

	"github.com/edp1096/grid-spice/pkg/solver"
)

// TraceOptions selects which debug sections are written to Options.Trace.
type TraceOptions struct {
	Simplification bool
	NodeMap        bool
	Matrix         bool
	Currents       bool
	Voltages       bool
}

func (t TraceOptions) Any() bool {
	return t.Simplification || t.NodeMap || t.Matrix || t.Currents || t.Voltages
}

type Options struct {
	Solver solver.Options
	Gmin   float64
	Trace  io.Writer
	TraceOptions
}

func DefaultOptions() Options {
	return Options{Solver: solver.DefaultOptions()}
}

func (o Options) tracing(section bool) io.Writer {
	if o.Trace == nil || !section {
		return nil
	}
	return o.Trace
}
