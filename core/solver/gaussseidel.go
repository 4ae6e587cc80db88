// core/solver/gaussseidel.go
package solver

import (
	"fvsim-core/sparse"
)

func init() { Register("gs", func() Solver { return &GaussSeidel{} }) }

// GaussSeidel does forward relaxation sweeps. Slow on large systems but
// robust on the diagonally dominant assemblies the terms produce, and exact
// in one sweep on triangular systems (pure upwind transport).
type GaussSeidel struct{}

func (*GaussSeidel) Name() string { return "gs" }

func (*GaussSeidel) Solve(A *sparse.CSR, x, b []float64, opt Options) (Stats, error) {
	if err := checkSizes(A, x, b); err != nil {
		return Stats{}, err
	}
	opt = opt.withDefaults()

	r := make([]float64, A.N)
	res := residualInto(r, A, x, b)
	if res <= opt.Tolerance {
		return Stats{Residual: res, Converged: true}, nil
	}

	for it := 1; it <= opt.MaxIterations; it++ {
		for i := 0; i < A.N; i++ {
			s := b[i]
			diag := 0.0
			for k := A.RowPtr[i]; k < A.RowPtr[i+1]; k++ {
				j := A.Col[k]
				if j == i {
					diag = A.Val[k]
					continue
				}
				s -= A.Val[k] * x[j]
			}
			if diag != 0 {
				x[i] = s / diag
			}
		}
		res = residualInto(r, A, x, b)
		if res <= opt.Tolerance {
			return Stats{Iterations: it, Residual: res, Converged: true}, nil
		}
	}
	return Stats{Iterations: opt.MaxIterations, Residual: res}, ErrNoConvergence
}
