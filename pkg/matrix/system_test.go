package matrix_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/grid-spice/pkg/matrix"
)

func TestNewSystemRejectsBadSizes(t *testing.T) {
	for _, tc := range []struct{ size, nodes int }{{0, 0}, {2, 0}, {2, 3}, {-1, 1}} {
		_, err := matrix.NewSystem(tc.size, tc.nodes)
		require.ErrorIs(t, err, matrix.ErrInvalidSize, "size=%d nodes=%d", tc.size, tc.nodes)
	}
}

func TestAddAccumulates(t *testing.T) {
	sys, err := matrix.NewSystem(3, 2)
	require.NoError(t, err)

	sys.AddElement(1, 1, 0.5)
	sys.AddElement(1, 1, 0.25)
	sys.AddRHS(2, 3)
	sys.AddRHS(2, -1)

	require.Equal(t, 0.75, sys.At(1, 1))
	require.Equal(t, 2.0, sys.RHSAt(2))

	sys.Clear()
	require.Zero(t, sys.At(1, 1))
	require.Zero(t, sys.RHSAt(2))
}

func TestOutOfBoundsPanics(t *testing.T) {
	sys, err := matrix.NewSystem(2, 2)
	require.NoError(t, err)
	require.Panics(t, func() { sys.AddElement(2, 0, 1) })
	require.Panics(t, func() { sys.AddRHS(-1, 1) })
}

func TestLoadGminSkipsReferenceAndAuxRows(t *testing.T) {
	sys, err := matrix.NewSystem(4, 3)
	require.NoError(t, err)

	sys.LoadGmin(1e-9)
	require.Zero(t, sys.At(0, 0))
	require.Equal(t, 1e-9, sys.At(1, 1))
	require.Equal(t, 1e-9, sys.At(2, 2))
	require.Zero(t, sys.At(3, 3))
}

func TestNonZerosRowMajor(t *testing.T) {
	sys, err := matrix.NewSystem(2, 2)
	require.NoError(t, err)
	sys.AddElement(1, 0, 2)
	sys.AddElement(0, 1, 1)

	var got [][3]float64
	sys.NonZeros(func(i, j int, v float64) {
		got = append(got, [3]float64{float64(i), float64(j), v})
	})
	require.Equal(t, [][3]float64{{0, 1, 1}, {1, 0, 2}}, got)
}

func TestPrinting(t *testing.T) {
	sys, err := matrix.NewSystem(2, 2)
	require.NoError(t, err)
	sys.AddElement(1, 1, 4)
	sys.AddRHS(1, 2)

	var buf bytes.Buffer
	sys.PrintMatrix(&buf)
	sys.PrintRHS(&buf)
	sys.PrintSystem(&buf)

	out := buf.String()
	require.Contains(t, out, "Admittance matrix (2x2, 2 node rows):")
	require.Contains(t, out, "Injected currents:")
	require.Contains(t, out, "Equation 1:  +4*x1 = 2")
	require.NotContains(t, out, "Equation 0:")
}
