package netlist

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/edp1096/grid-spice/pkg/circuit"
	"github.com/edp1096/grid-spice/pkg/device"
)

var ErrSyntax = errors.New("layout syntax error")

type AnalysisType int

const (
	AnalysisOP AnalysisType = iota
	AnalysisDC
)

type NetlistData struct {
	Elements []Element    // Placed elements in file order
	Analysis AnalysisType // Analysis type
	DCParam  struct {
		Source1    string
		Start1     float64
		Stop1      float64
		Increment1 float64
		Source2    string
		Start2     float64
		Stop2      float64
		Increment2 float64
	}
	Title string // Circuit title
}

type Element struct {
	Type     string         // Part letter (R, C, V, I, W, S, G)
	Name     string         // Part name
	Points   []device.Point // Grid coordinates, one or two
	Value    float64        // Part value
	HasValue bool
	Closed   bool // Switch state
}

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"M":   1e-3,  // milli, SPICE suffixes ignore case
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

var (
	valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGMKkmunpf])?[a-zA-Z]?$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Parse reads a grid layout. The first line is the title.
func Parse(input string) (*NetlistData, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	netlistData := &NetlistData{}

	// Title or comment
	if scanner.Scan() {
		netlistData.Title = strings.TrimPrefix(scanner.Text(), "*")
		netlistData.Title = strings.TrimSpace(netlistData.Title)
	}

	var currentLine string
	lineNo := 1
	startLine := 1

	flush := func() error {
		if currentLine == "" {
			return nil
		}
		err := parseLine(netlistData, currentLine)
		currentLine = ""
		if err != nil {
			return fmt.Errorf("line %d: %w", startLine, err)
		}
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Inline comment
		if idx := strings.IndexAny(line, "*;"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if len(line) == 0 {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}

		if strings.HasPrefix(line, "+") { // Line continue
			if currentLine != "" {
				currentLine += " " + strings.TrimSpace(line[1:])
			}
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}
		currentLine = line
		startLine = lineNo
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return netlistData, nil
}

func parseLine(netlistData *NetlistData, line string) error {
	line = spaceRe.ReplaceAllString(line, " ")

	if strings.HasPrefix(line, ".") {
		return parseDotOperator(netlistData, line)
	}

	element, err := parseElement(line)
	if err != nil {
		return err
	}

	for _, e := range netlistData.Elements {
		if strings.EqualFold(e.Name, element.Name) {
			return fmt.Errorf("%w: duplicate element %s", ErrSyntax, element.Name)
		}
	}
	netlistData.Elements = append(netlistData.Elements, *element)
	return nil
}

// Parse .op, .dc
func parseDotOperator(netlistData *NetlistData, line string) error {
	var err error

	fields := strings.Fields(line)

	switch strings.ToLower(fields[0]) {
	case ".op":
		netlistData.Analysis = AnalysisOP

	case ".dc":
		netlistData.Analysis = AnalysisDC
		if len(fields) != 5 && len(fields) != 9 {
			return fmt.Errorf("%w: insufficient DC sweep parameters", ErrSyntax)
		}

		p := &netlistData.DCParam
		p.Source1 = fields[1]
		if p.Start1, p.Stop1, p.Increment1, err = parseSweep(fields[2:5]); err != nil {
			return err
		}

		if len(fields) == 9 {
			p.Source2 = fields[5]
			if p.Start2, p.Stop2, p.Increment2, err = parseSweep(fields[6:9]); err != nil {
				return err
			}
		}

	case ".end":

	default:
		return fmt.Errorf("%w: unsupported analysis type: %s", ErrSyntax, fields[0])
	}

	return nil
}

func parseSweep(fields []string) (start, stop, inc float64, err error) {
	if start, err = ParseValue(fields[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid start value: %w", err)
	}
	if stop, err = ParseValue(fields[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid stop value: %w", err)
	}
	if inc, err = ParseValue(fields[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid increment value: %w", err)
	}
	return start, stop, inc, nil
}

// Parse circuit element
func parseElement(line string) (*Element, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: invalid element format: %s", ErrSyntax, line)
	}

	elem := &Element{
		Name: fields[0],
		Type: strings.ToUpper(string(fields[0][0])),
	}
	kind, ok := device.KindFromLetter(elem.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unknown element type %s", ErrSyntax, elem.Type)
	}

	capability, err := device.CapabilityOf(kind)
	if err != nil {
		return nil, err
	}
	terms := capability.Terminals
	rest := fields[1:]

	// A ground may give its lead as two points or just the net point.
	npoints := 2
	if terms == 1 && (len(rest) < 2 || !strings.Contains(rest[1], ",")) {
		npoints = 1
	}
	if len(rest) < npoints {
		return nil, fmt.Errorf("%w: %s needs %d coordinates", ErrSyntax, elem.Name, npoints)
	}
	for _, f := range rest[:npoints] {
		p, err := ParsePoint(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", elem.Name, err)
		}
		elem.Points = append(elem.Points, p)
	}
	rest = rest[npoints:]

	switch kind {
	case device.Wire, device.Ground:
		if len(rest) > 0 {
			return nil, fmt.Errorf("%w: %s takes no value", ErrSyntax, elem.Name)
		}

	case device.Switch:
		if len(rest) > 1 {
			return nil, fmt.Errorf("%w: %s: too many fields", ErrSyntax, elem.Name)
		}
		if len(rest) == 1 {
			switch strings.ToLower(rest[0]) {
			case "closed", "on":
				elem.Closed = true
			case "open", "off":
			default:
				return nil, fmt.Errorf("%w: %s: switch state %q", ErrSyntax, elem.Name, rest[0])
			}
		}

	default:
		if len(rest) > 0 && strings.EqualFold(rest[0], "dc") {
			rest = rest[1:]
		}
		if len(rest) > 1 {
			return nil, fmt.Errorf("%w: %s: too many fields", ErrSyntax, elem.Name)
		}
		if len(rest) == 1 {
			value, err := ParseValue(rest[0])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", elem.Name, err)
			}
			elem.Value = value
			elem.HasValue = true
		}
	}

	return elem, nil
}

// ParsePoint reads an "x,y" grid coordinate.
func ParsePoint(s string) (device.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return device.Point{}, fmt.Errorf("%w: invalid coordinate %q", ErrSyntax, s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return device.Point{}, fmt.Errorf("%w: invalid coordinate %q", ErrSyntax, s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return device.Point{}, fmt.Errorf("%w: invalid coordinate %q", ErrSyntax, s)
	}
	return device.Point{X: x, Y: y}, nil
}

// ParseValue - Parse value and factor. 1k -> 1000
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("%w: invalid value format: %s", ErrSyntax, val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	// factor
	if matches[2] != "" {
		multiplier, ok := unitMap[matches[2]]
		if !ok {
			return 0, fmt.Errorf("%w: unknown factor %q in %s", ErrSyntax, matches[2], val)
		}
		num *= multiplier
	}

	return num, nil
}

// CreateDevice turns a parsed line into an element ready to place.
func CreateDevice(elem Element) (*device.Element, error) {
	kind, ok := device.KindFromLetter(elem.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s", device.ErrUnknownKind, elem.Type)
	}

	value := elem.Value
	if !elem.HasValue {
		value = device.DefaultValue(kind)
	}

	pos := elem.Points[0]
	var size device.Point
	if len(elem.Points) > 1 {
		size = device.Point{X: elem.Points[1].X - pos.X, Y: elem.Points[1].Y - pos.Y}
	}

	var e *device.Element
	switch kind {
	case device.Wire:
		e = device.NewWire(pos, size)
	case device.Resistor:
		e = device.NewResistor(pos, size, value)
	case device.Capacitor:
		e = device.NewCapacitor(pos, size, value)
	case device.VoltageSource:
		e = device.NewVoltageSource(pos, size, value)
	case device.CurrentSource:
		e = device.NewCurrentSource(pos, size, value)
	case device.Switch:
		e = device.NewSwitch(pos, size, elem.Closed)
	case device.Ground:
		e = device.NewGround(pos, size)
	}
	e.Name = elem.Name

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Load places every element of the layout into ckt, in file order.
func Load(data *NetlistData, ckt *circuit.Circuit) error {
	for _, elem := range data.Elements {
		e, err := CreateDevice(elem)
		if err != nil {
			return err
		}
		if _, err := ckt.Place(e); err != nil {
			return fmt.Errorf("placing %s: %w", elem.Name, err)
		}
	}
	return nil
}
