package solver

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/edp1096/grid-spice/internal/consts"
	"github.com/edp1096/grid-spice/pkg/matrix"
)

// ErrSingular means the system has no unique finite solution, typically a
// sub-circuit with no path to the reference.
var ErrSingular = errors.New("no unique solution")

var ErrUnknownMethod = errors.New("unknown solver method")

type Method int

const (
	MethodPseudoInverse Method = iota
	MethodLU
)

func (m Method) String() string {
	switch m {
	case MethodPseudoInverse:
		return "pinv"
	case MethodLU:
		return "lu"
	}
	return fmt.Sprintf("method(%d)", int(m))
}

func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pinv", "pseudoinverse", "svd":
		return MethodPseudoInverse, nil
	case "lu", "sparse":
		return MethodLU, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

type Options struct {
	Method    Method
	Tolerance float64 // relative singular value cutoff, pseudoinverse only
	// AcceptRankDeficient returns the minimum-norm solution instead of
	// ErrSingular when the pseudoinverse finds a rank-deficient system.
	AcceptRankDeficient bool
}

func DefaultOptions() Options {
	return Options{Method: MethodPseudoInverse, Tolerance: consts.PinvTolerance}
}

// Solve returns x for the assembled system, indexed like its rows.
func Solve(sys *matrix.System, opts Options) ([]float64, error) {
	if sys == nil || sys.Size == 0 {
		return []float64{}, nil
	}

	var (
		x   []float64
		err error
	)
	switch opts.Method {
	case MethodPseudoInverse:
		x, err = solvePinv(sys, opts)
	case MethodLU:
		x, err = solveLU(sys)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(opts.Method))
	}
	if err != nil {
		return nil, err
	}

	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite value in row %d", ErrSingular, i)
		}
	}
	return x, nil
}
