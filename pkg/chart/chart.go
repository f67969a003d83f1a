package chart

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var ErrNoSweep = errors.New("results hold no SWEEP1 column")

// SaveSweep draws every V(...) and I(...) column of a DC sweep against the
// first swept value and writes the image to path. The extension picks the
// format (png, svg, pdf).
func SaveSweep(title string, results map[string][]float64, path string) error {
	sweep, ok := results["SWEEP1"]
	if !ok || len(sweep) == 0 {
		return ErrNoSweep
	}

	var names []string
	for name := range results {
		if strings.HasPrefix(name, "V(") || strings.HasPrefix(name, "I(") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "SWEEP1"
	p.Y.Label.Text = "V / A"
	p.Add(plotter.NewGrid())

	for i, name := range names {
		values := results[name]
		if len(values) != len(sweep) {
			return fmt.Errorf("column %s has %d points, sweep has %d", name, len(values), len(sweep))
		}

		xys := make(plotter.XYs, len(sweep))
		for j := range sweep {
			xys[j].X = sweep[j]
			xys[j].Y = values[j]
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("plotting %s: %w", name, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i / 7)
		p.Add(line)
		p.Legend.Add(name, line)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}
