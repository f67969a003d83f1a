package solver

import (
	"fmt"
	"math"

	"github.com/edp1096/grid-spice/internal/consts"
	"github.com/edp1096/grid-spice/pkg/matrix"
	"gonum.org/v1/gonum/mat"
)

func solvePinv(sys *matrix.System, opts Options) ([]float64, error) {
	tol := opts.Tolerance
	if tol <= 0 {
		tol = consts.PinvTolerance
	}

	a, b := equilibrate(sys)

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return nil, fmt.Errorf("%w: SVD factorization failed", ErrSingular)
	}

	rank := svd.Rank(tol)
	if rank == 0 {
		return nil, fmt.Errorf("%w: zero matrix", ErrSingular)
	}
	if rank < sys.Size && !opts.AcceptRankDeficient {
		return nil, fmt.Errorf("%w: rank %d of %d", ErrSingular, rank, sys.Size)
	}

	var x mat.VecDense
	svd.SolveVecTo(&x, b, rank)

	return mat.Col(nil, 0, &x), nil
}

// equilibrate scales every row to a largest magnitude of 1 so the rank
// cutoff does not mistake rows of tiny conductances for zero rows. Zero rows
// stay zero.
func equilibrate(sys *matrix.System) (*mat.Dense, *mat.VecDense) {
	a := mat.DenseCopyOf(sys.Matrix())
	b := mat.VecDenseCopyOf(sys.RHS())

	for i := 0; i < sys.Size; i++ {
		row := a.RawRowView(i)
		peak := 0.0
		for _, v := range row {
			peak = math.Max(peak, math.Abs(v))
		}
		if peak == 0 {
			continue
		}
		for j := range row {
			row[j] /= peak
		}
		b.SetVec(i, b.AtVec(i)/peak)
	}
	return a, b
}
