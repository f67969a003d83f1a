package matrix

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

var ErrInvalidSize = errors.New("invalid system size")

// System is an assembled MNA system A·x = b. Row and column 0 belong to the
// reference node; node rows follow, auxiliary source rows come last.
type System struct {
	Size  int
	Nodes int // leading rows that belong to nodes, the rest are auxiliary
	a     *mat.Dense
	rhs   *mat.VecDense
}

func NewSystem(size, nodes int) (*System, error) {
	if size <= 0 || nodes <= 0 || nodes > size {
		return nil, fmt.Errorf("%w: size=%d nodes=%d", ErrInvalidSize, size, nodes)
	}

	return &System{
		Size:  size,
		Nodes: nodes,
		a:     mat.NewDense(size, size, nil),
		rhs:   mat.NewVecDense(size, nil),
	}, nil
}

// AddElement and AddRHS panic on out-of-range indices: a stamp outside the
// system means the assembler handed out a bad row.
func (s *System) AddElement(i, j int, value float64) {
	if i < 0 || j < 0 || i >= s.Size || j >= s.Size {
		panic(fmt.Sprintf("matrix index out of bounds (i=%d, j=%d, size=%d)", i, j, s.Size))
	}
	s.a.Set(i, j, s.a.At(i, j)+value)
}

func (s *System) AddRHS(i int, value float64) {
	if i < 0 || i >= s.Size {
		panic(fmt.Sprintf("rhs index out of bounds (i=%d, size=%d)", i, s.Size))
	}
	s.rhs.SetVec(i, s.rhs.AtVec(i)+value)
}

func (s *System) At(i, j int) float64 { return s.a.At(i, j) }

func (s *System) RHSAt(i int) float64 { return s.rhs.AtVec(i) }

// LoadGmin adds a small conductance from every node row to the reference.
// The reference row itself and the auxiliary rows are left alone.
func (s *System) LoadGmin(gmin float64) {
	if gmin == 0 {
		return
	}
	for i := 1; i < s.Nodes; i++ {
		s.a.Set(i, i, s.a.At(i, i)+gmin)
	}
}

func (s *System) Clear() {
	s.a.Zero()
	s.rhs.Zero()
}

// Matrix and RHS expose the underlying gonum values for the solvers.
func (s *System) Matrix() mat.Matrix { return s.a }

func (s *System) RHS() mat.Vector { return s.rhs }

// NonZeros calls fn for every non-zero coefficient in row-major order.
func (s *System) NonZeros(fn func(i, j int, v float64)) {
	for i := 0; i < s.Size; i++ {
		for j := 0; j < s.Size; j++ {
			if v := s.a.At(i, j); v != 0 {
				fn(i, j, v)
			}
		}
	}
}

func (s *System) PrintMatrix(w io.Writer) {
	fmt.Fprintf(w, "Admittance matrix (%dx%d, %d node rows):\n", s.Size, s.Size, s.Nodes)
	fmt.Fprintf(w, "%v\n", mat.Formatted(s.a, mat.Prefix(""), mat.Squeeze()))
}

func (s *System) PrintRHS(w io.Writer) {
	fmt.Fprintln(w, "Injected currents:")
	fmt.Fprintf(w, "%v\n", mat.Formatted(s.rhs, mat.Prefix(""), mat.Squeeze()))
}

// PrintSystem writes one equation per row, skipping empty rows.
func (s *System) PrintSystem(w io.Writer) {
	fmt.Fprintf(w, "\nCircuit Equations (%dx%d):\n", s.Size, s.Size)
	fmt.Fprintln(w, "Reference row 0, node equations 1..n, followed by source equations")

	for i := 0; i < s.Size; i++ {
		rowHasElements := false
		for j := 0; j < s.Size; j++ {
			if v := s.a.At(i, j); v != 0 {
				if !rowHasElements {
					fmt.Fprintf(w, "Equation %d:", i)
				}
				fmt.Fprintf(w, "  %+g*x%d", v, j)
				rowHasElements = true
			}
		}
		if rowHasElements {
			fmt.Fprintf(w, " = %g\n", s.rhs.AtVec(i))
		}
	}
}
