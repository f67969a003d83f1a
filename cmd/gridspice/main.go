package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/edp1096/grid-spice/pkg/analysis"
	"github.com/edp1096/grid-spice/pkg/chart"
	"github.com/edp1096/grid-spice/pkg/circuit"
	"github.com/edp1096/grid-spice/pkg/config"
	"github.com/edp1096/grid-spice/pkg/netlist"
	"github.com/edp1096/grid-spice/pkg/solver"
	"github.com/edp1096/grid-spice/pkg/util"
	"github.com/edp1096/grid-spice/pkg/watch"
)

var (
	configPath = flag.String("config", "", "config file (default: search $GRIDSPICE_CONFIG, ./gridspice.yaml)")
	trace      = flag.Bool("trace", false, "print simplification, node map, matrix and voltages")
	watchFile  = flag.Bool("watch", false, "re-run whenever the layout file changes")
	plotPath   = flag.String("plot", "", "write a DC sweep chart to this file (.png, .svg, .pdf)")
)

func getKeys(m map[string][]float64, prefix string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func printResults(results map[string][]float64) {
	fmt.Println("\nAnalysis Results:")
	fmt.Println("================")

	voltageNames := getKeys(results, "V(")
	currentNames := getKeys(results, "I(")

	// DC Sweep
	if sweep1, isDC := results["SWEEP1"]; isDC {
		fmt.Printf("\nDC Sweep Analysis Results (%d points):\n", len(sweep1))
		fmt.Println("Sweep Values    Node Voltages        Branch Currents")
		fmt.Println("------------------------------------------------")

		sweep2, hasNested := results["SWEEP2"]
		for i := range sweep1 {
			if hasNested {
				fmt.Printf("S1=%-9s S2=%-9s  ",
					util.FormatValueFactor(sweep1[i], ""),
					util.FormatValueFactor(sweep2[i], ""))
			} else {
				fmt.Printf("S=%-9s  ", util.FormatValueFactor(sweep1[i], ""))
			}

			for _, name := range voltageNames {
				fmt.Printf("%s=%s  ", name, util.FormatValueFactor(results[name][i], "V"))
			}
			for _, name := range currentNames {
				fmt.Printf("%s=%s  ", name, util.FormatValueFactor(results[name][i], "A"))
			}
			fmt.Println()
		}
		return
	}

	// Operating point
	fmt.Println("\nNode Voltages:")
	for _, name := range voltageNames {
		fmt.Printf("%s = %s\n", name, util.FormatValueFactor(results[name][0], "V"))
	}
	fmt.Println("\nBranch Currents:")
	for _, name := range currentNames {
		fmt.Printf("%s = %s\n", name, util.FormatValueFactor(results[name][0], "A"))
	}
}

func loadConfig() *config.Config {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if *configPath != "" {
		cfg, path, err = config.LoadFromPath(*configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Error loading config %s: %v", path, err)
	}
	return cfg
}

func newAnalyzer(data *netlist.NetlistData) (analysis.Analysis, error) {
	switch data.Analysis {
	case netlist.AnalysisOP:
		return analysis.NewOP(), nil
	case netlist.AnalysisDC:
		param := data.DCParam
		if param.Source2 != "" {
			// nested sweep
			return analysis.NewDCSweep(
				[]string{param.Source1, param.Source2},
				[]float64{param.Start1, param.Start2},
				[]float64{param.Stop1, param.Stop2},
				[]float64{param.Increment1, param.Increment2},
			)
		}
		// single sweep
		return analysis.NewDCSweep(
			[]string{param.Source1},
			[]float64{param.Start1},
			[]float64{param.Stop1},
			[]float64{param.Increment1},
		)
	}
	return nil, fmt.Errorf("unsupported analysis type: %d", data.Analysis)
}

func run(path string, cfg *config.Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading layout file: %w", err)
	}

	data, err := netlist.Parse(string(content))
	if err != nil {
		return fmt.Errorf("parsing layout: %w", err)
	}

	opts := cfg.CircuitOptions()
	if *trace {
		opts.TraceOptions = circuit.TraceOptions{
			Simplification: true,
			NodeMap:        true,
			Matrix:         true,
			Currents:       true,
			Voltages:       true,
		}
	}
	if opts.TraceOptions.Any() {
		opts.Trace = os.Stdout
	}

	ckt := circuit.NewWithOptions(data.Title, opts)
	ckt.SetLogger(log.Default())
	if err := netlist.Load(data, ckt); err != nil {
		return fmt.Errorf("building circuit: %w", err)
	}

	fmt.Printf("Circuit: %s (%d elements)\n", ckt.Name(), len(data.Elements))
	for _, e := range ckt.Elements() {
		unit := util.Unit(e.Kind.Letter())
		if unit == "" {
			fmt.Printf("  %-6s %-14s %v\n", e.GetName(), e.Kind, e.Terminals())
			continue
		}
		fmt.Printf("  %-6s %-14s %v %s\n", e.GetName(), e.Kind, e.Terminals(), util.FormatValueFactor(e.GetValue(), unit))
	}

	analyzer, err := newAnalyzer(data)
	if err != nil {
		return err
	}
	if err := analyzer.Setup(ckt); err != nil {
		return fmt.Errorf("analysis setup failed: %w", err)
	}
	if err := analyzer.Execute(); err != nil {
		return fmt.Errorf("analysis execution failed: %w", err)
	}

	results := analyzer.GetResults()
	printResults(results)

	if *plotPath != "" && data.Analysis == netlist.AnalysisDC {
		if err := chart.SaveSweep(data.Title, results, *plotPath); err != nil {
			return err
		}
		fmt.Printf("\nSweep chart written to %s\n", *plotPath)
	}
	return nil
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("Usage: gridspice [-config file] [-trace] [-watch] [-plot file] <layout_file>")
	}
	path := flag.Arg(0)
	cfg := loadConfig()

	if !*watchFile {
		if err := run(path, cfg); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	rerun := func() {
		err := run(path, cfg)
		if errors.Is(err, solver.ErrSingular) {
			log.Printf("Status: %s", circuit.StatusSingular)
		} else if err != nil {
			log.Printf("Error: %v", err)
		}
	}
	rerun()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := watch.New(path, rerun).WithDebounce(cfg.Watch.Debounce)
	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Error watching %s: %v", path, err)
	}
}
