package netlist_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/grid-spice/pkg/circuit"
	"github.com/edp1096/grid-spice/pkg/device"
	"github.com/edp1096/grid-spice/pkg/netlist"
)

const dividerLayout = `* RR divider
G1 0,-1 0,0
V1 0,0 0,2 DC 10
R1 0,2 2,2 1k   ; top leg
R2 2,2 2,0
+ 1k
W1 2,0 0,0

.op
`

func TestParseValue(t *testing.T) {
	cases := map[string]float64{
		"100":    100,
		"1k":     1e3,
		"4.7K":   4.7e3,
		"2meg":   2e6,
		"10m":    10e-3,
		"1M":     1e-3,
		"5M":     5e-3,
		"1u":     1e-6,
		"3n":     3e-9,
		"5p":     5e-12,
		"1e-3":   1e-3,
		"-2.5":   -2.5,
		"5V":     5,
		"10mA":   10e-3,
		"1.5e3k": 1.5e6,
	}
	for in, want := range cases {
		got, err := netlist.ParseValue(in)
		require.NoError(t, err, in)
		require.InDelta(t, want, got, math.Abs(want)*1e-12, in)
	}

	for _, bad := range []string{"", "k", "1..2", "abc", "1k2"} {
		_, err := netlist.ParseValue(bad)
		require.ErrorIs(t, err, netlist.ErrSyntax, bad)
	}
}

func TestParsePoint(t *testing.T) {
	p, err := netlist.ParsePoint("3,-4")
	require.NoError(t, err)
	require.Equal(t, device.Point{X: 3, Y: -4}, p)

	for _, bad := range []string{"3", "a,1", "1,b", ""} {
		_, err := netlist.ParsePoint(bad)
		require.ErrorIs(t, err, netlist.ErrSyntax, bad)
	}
}

func TestParseLayout(t *testing.T) {
	data, err := netlist.Parse(dividerLayout)
	require.NoError(t, err)

	require.Equal(t, "RR divider", data.Title)
	require.Equal(t, netlist.AnalysisOP, data.Analysis)
	require.Len(t, data.Elements, 5)

	v1 := data.Elements[1]
	require.Equal(t, "V", v1.Type)
	require.Equal(t, []device.Point{{X: 0, Y: 0}, {X: 0, Y: 2}}, v1.Points)
	require.Equal(t, 10.0, v1.Value)

	require.Equal(t, 1e3, data.Elements[3].Value)
	require.True(t, data.Elements[3].HasValue)
	require.False(t, data.Elements[4].HasValue)
}

func TestParseMilliSuffixInLayout(t *testing.T) {
	data, err := netlist.Parse(`title
V1 0,0 0,1 5M
R1 0,1 1,1 1M
`)
	require.NoError(t, err)
	require.InDelta(t, 5e-3, data.Elements[0].Value, 1e-15)

	r, err := netlist.CreateDevice(data.Elements[1])
	require.NoError(t, err)
	require.InDelta(t, 1e-3, r.Value, 1e-15)
	require.NoError(t, r.Validate())
}

func TestParseSwitchGroundAndDefaults(t *testing.T) {
	data, err := netlist.Parse(`title
G1 3,3
S1 0,0 1,0 closed
S2 1,0 2,0
C1 2,0 3,0
I1 3,0 3,3 2m
`)
	require.NoError(t, err)
	require.Len(t, data.Elements, 5)

	g, err := netlist.CreateDevice(data.Elements[0])
	require.NoError(t, err)
	require.Equal(t, []device.Point{{X: 3, Y: 3}}, g.Terminals())

	s1, err := netlist.CreateDevice(data.Elements[1])
	require.NoError(t, err)
	require.True(t, s1.Closed)

	s2, err := netlist.CreateDevice(data.Elements[2])
	require.NoError(t, err)
	require.False(t, s2.Closed)

	c1, err := netlist.CreateDevice(data.Elements[3])
	require.NoError(t, err)
	require.Equal(t, device.DefaultValue(device.Capacitor), c1.GetValue())

	i1, err := netlist.CreateDevice(data.Elements[4])
	require.NoError(t, err)
	require.Equal(t, device.CurrentSource, i1.Kind)
	require.Equal(t, "I1", i1.GetName())
	require.InDelta(t, 2e-3, i1.GetValue(), 1e-15)
	require.Equal(t, []device.Point{{X: 3, Y: 0}, {X: 3, Y: 3}}, i1.Terminals())
}

func TestParseDC(t *testing.T) {
	data, err := netlist.Parse("sweep\nV1 0,0 0,1 1\n.dc V1 0 5 1\n")
	require.NoError(t, err)
	require.Equal(t, netlist.AnalysisDC, data.Analysis)
	require.Equal(t, "V1", data.DCParam.Source1)
	require.Equal(t, 5.0, data.DCParam.Stop1)
	require.Empty(t, data.DCParam.Source2)

	data, err = netlist.Parse("sweep\n.dc V1 0 5 1 V2 0 1m 100u\n")
	require.NoError(t, err)
	require.Equal(t, "V2", data.DCParam.Source2)
	require.InDelta(t, 1e-4, data.DCParam.Increment2, 1e-18)
}

func TestParseErrors(t *testing.T) {
	for name, src := range map[string]string{
		"unknown letter":  "t\nQ1 0,0 1,0",
		"missing point":   "t\nR1 0,0 5",
		"bad point":       "t\nR1 0,0 x,1 5",
		"wire with value": "t\nW1 0,0 1,0 5",
		"switch state":    "t\nS1 0,0 1,0 maybe",
		"extra fields":    "t\nR1 0,0 1,0 5 6",
		"bad dc":          "t\n.dc V1 0 5",
		"unknown dot":     "t\n.tran 1n 1u",
		"duplicate":       "t\nR1 0,0 1,0 5\nR1 1,0 2,0 5",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := netlist.Parse(src)
			require.ErrorIs(t, err, netlist.ErrSyntax)
		})
	}

	data, err := netlist.Parse("t\nR1 0,0 1,0 0")
	require.NoError(t, err)
	_, err = netlist.CreateDevice(data.Elements[0])
	require.ErrorIs(t, err, device.ErrInvalidValue)
}

func TestLoadAndSolve(t *testing.T) {
	data, err := netlist.Parse(dividerLayout)
	require.NoError(t, err)

	ckt := circuit.New(data.Title)
	require.NoError(t, netlist.Load(data, ckt))
	require.Len(t, ckt.Elements(), 5)

	_, err = ckt.Recompute()
	require.NoError(t, err)
	v, ok := ckt.Voltage(device.Point{X: 2, Y: 2})
	require.True(t, ok)
	require.InDelta(t, 5, v, 1e-9)
}
