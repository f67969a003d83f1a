package circuit

import (
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"slices"

	"github.com/edp1096/grid-spice/pkg/device"
	"github.com/edp1096/grid-spice/pkg/graph"
	"github.com/edp1096/grid-spice/pkg/solver"
)

var (
	ErrNoElement = errors.New("no such element")
	ErrNotSwitch = errors.New("element is not a switch")
)

const StatusSingular = "matrix is singular"

// Result is what one recomputation produced.
type Result struct {
	Graph    *graph.Graph // snapshot before simplification
	Reduced  *graph.Graph
	Merges   graph.MergeMap
	Solution *Solution
	Voltages map[int]float64 // original node id -> volts written back
	Currents map[int]float64 // element id -> amps, resistors and sources only
}

// Circuit is the live store an editor drives. Elements and node voltages
// persist between recomputations; everything else is rebuilt each time.
type Circuit struct {
	name     string
	elements map[int]*device.Element
	registry *graph.Registry
	voltages map[int]float64
	opts     Options
	logger   *log.Logger
	status   string
	last     *Result
}

func New(name string) *Circuit {
	return NewWithOptions(name, DefaultOptions())
}

func NewWithOptions(name string, opts Options) *Circuit {
	return &Circuit{
		name:     name,
		elements: make(map[int]*device.Element),
		registry: graph.NewRegistry(),
		voltages: make(map[int]float64),
		opts:     opts,
		logger:   log.New(io.Discard, "", 0),
	}
}

func (c *Circuit) Name() string { return c.name }

func (c *Circuit) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	c.logger = l
}

func (c *Circuit) Options() Options { return c.opts }

func (c *Circuit) SetOptions(opts Options) { c.opts = opts }

func (c *Circuit) Status() string { return c.status }

// LastResult returns the result of the latest successful recomputation. It
// is nil again once an element is placed or removed.
func (c *Circuit) LastResult() *Result { return c.last }

func (c *Circuit) nextID() int {
	id := 0
	for {
		if _, used := c.elements[id]; !used {
			return id
		}
		id++
	}
}

// Place stores a copy of e under the next free id and resolves its
// terminals to node ids.
func (c *Circuit) Place(e *device.Element) (int, error) {
	el := e.Clone()
	el.ID = c.nextID()
	el.Nodes = nil
	if err := el.Validate(); err != nil {
		return -1, err
	}
	if el.Name != "" {
		if _, ok := c.ElementByName(el.Name); ok {
			return -1, fmt.Errorf("placing %s: name already in use", el.Name)
		}
	}

	terms := el.Terminals()
	nodes := make([]int, len(terms))
	for i, p := range terms {
		nodes[i] = c.registry.Resolve(p)
	}
	if err := el.SetNodes(nodes); err != nil {
		return -1, err
	}

	c.elements[el.ID] = el
	c.last = nil
	return el.ID, nil
}

// Remove deletes an element and releases coordinates nothing else touches.
func (c *Circuit) Remove(id int) error {
	el, ok := c.elements[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoElement, id)
	}
	delete(c.elements, id)
	c.last = nil

	used := make(map[device.Point]struct{})
	for _, other := range c.elements {
		for _, p := range other.Terminals() {
			used[p] = struct{}{}
		}
	}
	for _, p := range el.Terminals() {
		if _, ok := used[p]; ok {
			continue
		}
		if nid, ok := c.registry.Lookup(p); ok {
			delete(c.voltages, nid)
		}
		c.registry.Release(p)
	}
	return nil
}

func (c *Circuit) Toggle(id int) error {
	el, ok := c.elements[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoElement, id)
	}
	if el.Kind != device.Switch {
		return fmt.Errorf("%s: %w", el.GetName(), ErrNotSwitch)
	}
	el.Toggle()
	return nil
}

func (c *Circuit) SetValue(id int, value float64) error {
	el, ok := c.elements[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoElement, id)
	}
	prev := el.GetValue()
	el.SetValue(value)
	if err := el.Validate(); err != nil {
		el.SetValue(prev)
		return err
	}
	return nil
}

// Element returns a copy of the stored element.
func (c *Circuit) Element(id int) (*device.Element, bool) {
	el, ok := c.elements[id]
	if !ok {
		return nil, false
	}
	return el.Clone(), true
}

func (c *Circuit) ElementByName(name string) (*device.Element, bool) {
	for _, id := range c.elementIDs() {
		if c.elements[id].GetName() == name {
			return c.elements[id].Clone(), true
		}
	}
	return nil, false
}

func (c *Circuit) Elements() []*device.Element {
	out := make([]*device.Element, 0, len(c.elements))
	for _, id := range c.elementIDs() {
		out = append(out, c.elements[id].Clone())
	}
	return out
}

func (c *Circuit) elementIDs() []int { return slices.Sorted(maps.Keys(c.elements)) }

// Snapshot builds the full pre-simplification graph from copies of the
// stored elements.
func (c *Circuit) Snapshot() (*graph.Graph, error) {
	b := graph.NewBuilder(c.registry)
	for _, id := range c.elementIDs() {
		el := c.elements[id].Clone()
		el.Nodes = nil
		if err := b.AddPlaced(el); err != nil {
			return nil, err
		}
	}
	return b.Graph(), nil
}

// Nodes lists the live nodes with their current voltages, reference
// excluded.
func (c *Circuit) Nodes() ([]*graph.Node, error) {
	g, err := c.Snapshot()
	if err != nil {
		return nil, err
	}
	var out []*graph.Node
	for _, id := range g.ElectricalNodeIDs() {
		n := g.Nodes[id].Clone()
		n.Voltage = c.voltages[id]
		out = append(out, n)
	}
	return out, nil
}

func (c *Circuit) NodeAt(p device.Point) (int, bool) { return c.registry.Lookup(p) }

func (c *Circuit) Point(nodeID int) (device.Point, bool) { return c.registry.Point(nodeID) }

// Voltage returns the live voltage at a grid coordinate.
func (c *Circuit) Voltage(p device.Point) (float64, bool) {
	id, ok := c.registry.Lookup(p)
	if !ok {
		return 0, false
	}
	return c.voltages[id], true
}

// Recompute runs build, simplify, solve and map from scratch and writes the
// new voltages into the store. A singular system leaves the previous
// voltages untouched and returns solver.ErrSingular. When simplification
// leaves nothing to solve every live node drops to zero.
func (c *Circuit) Recompute() (*Result, error) {
	g, err := c.Snapshot()
	if err != nil {
		c.status = err.Error()
		return nil, err
	}

	var simplifyOpts []graph.SimplifyOption
	if w := c.opts.tracing(c.opts.Simplification); w != nil {
		simplifyOpts = append(simplifyOpts, graph.WithTrace(w))
	}
	reduced, merges := graph.Simplify(g, simplifyOpts...)
	if err := reduced.Validate(); err != nil {
		c.status = err.Error()
		return nil, err
	}

	if w := c.opts.tracing(c.opts.NodeMap); w != nil {
		fmt.Fprintf(w, "Node map: %s\n", merges)
	}

	res := &Result{Graph: g, Reduced: reduced, Merges: merges}

	sol, err := Solve(reduced, c.opts)
	if err != nil {
		if errors.Is(err, solver.ErrSingular) {
			c.status = StatusSingular
			c.logger.Printf("%s: %s", c.name, StatusSingular)
			return res, err
		}
		c.status = err.Error()
		return nil, err
	}
	res.Solution = sol

	res.Voltages = MapResults(sol, merges)
	if sol.Trivial {
		for _, id := range g.ElectricalNodeIDs() {
			res.Voltages[id] = 0
		}
	}
	for id, v := range res.Voltages {
		c.voltages[id] = v
	}
	res.Currents = elementCurrents(reduced, sol)

	c.status = fmt.Sprintf("solved %d nodes", reduced.ElectricalNodes())
	c.logger.Printf("%s: %s", c.name, c.status)
	c.last = res
	return res, nil
}

func elementCurrents(reduced *graph.Graph, sol *Solution) map[int]float64 {
	currents := make(map[int]float64)
	for _, id := range reduced.ElementIDs() {
		e := reduced.Elements[id]
		switch e.Kind {
		case device.Resistor:
			va, vb := sol.Voltages[e.Nodes[0]], sol.Voltages[e.Nodes[1]]
			currents[id] = (va - vb) / e.Value
		case device.VoltageSource:
			currents[id] = sol.SourceCurrents[id]
		case device.CurrentSource:
			currents[id] = e.Value
		}
	}
	return currents
}

// GetSolution returns voltages keyed V(x,y) and currents keyed I(name), the
// naming used by the analyses.
func (c *Circuit) GetSolution() map[string]float64 {
	out := make(map[string]float64)
	for _, id := range c.registry.IDs() {
		p, _ := c.registry.Point(id)
		out[fmt.Sprintf("V(%s)", p)] = c.voltages[id]
	}
	if c.last != nil {
		for id, i := range c.last.Currents {
			if el, ok := c.elements[id]; ok {
				out[fmt.Sprintf("I(%s)", el.GetName())] = i
			}
		}
	}
	return out
}
