package solver

import (
	"fmt"
	"math"

	"github.com/edp1096/grid-spice/internal/consts"
	"github.com/edp1096/grid-spice/pkg/matrix"
	"github.com/edp1096/sparse"
	"gonum.org/v1/gonum/mat"
)

// solveLU factors a 1-based sparse copy of the system.
func solveLU(sys *matrix.System) ([]float64, error) {
	size := sys.Size

	config := &sparse.Configuration{
		Real:           true,
		Complex:        false,
		Expandable:     true,
		Translate:      false,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
		Annotate:       0,
	}

	m, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %v", err)
	}
	defer m.Destroy()

	for i := 1; i <= size; i++ {
		for j := 1; j <= size; j++ {
			m.GetElement(int64(i), int64(j))
		}
	}
	sys.NonZeros(func(i, j int, v float64) {
		m.GetElement(int64(i+1), int64(j+1)).Real += v
	})

	rhs := make([]float64, size+1) // 1-based indexing
	for i := 0; i < size; i++ {
		rhs[i+1] = sys.RHSAt(i)
	}

	if err := m.Factor(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	solution, err := m.Solve(rhs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	x := make([]float64, size)
	copy(x, solution[1:size+1])

	if r := relativeResidual(sys, x); r > consts.ResidualTol || math.IsNaN(r) {
		return nil, fmt.Errorf("%w: residual %g", ErrSingular, r)
	}
	return x, nil
}

// relativeResidual is |A·x - b| / (|A|·|x| + |b|), which stays small for a
// good solve regardless of scale.
func relativeResidual(sys *matrix.System, x []float64) float64 {
	xv := mat.NewVecDense(len(x), x)

	var ax mat.VecDense
	ax.MulVec(sys.Matrix(), xv)

	var r mat.VecDense
	r.SubVec(&ax, sys.RHS())

	den := mat.Norm(sys.Matrix(), 2)*mat.Norm(xv, 2) + mat.Norm(sys.RHS(), 2)
	if den == 0 {
		return 0
	}
	return mat.Norm(&r, 2) / den
}
