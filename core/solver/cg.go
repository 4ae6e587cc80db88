// core/solver/cg.go
package solver

import (
	"gonum.org/v1/gonum/floats"

	"fvsim-core/sparse"
)

func init() { Register("cg", func() Solver { return &CG{} }) }

// CG is a Jacobi-preconditioned conjugate gradient solver for symmetric
// positive definite systems (pure diffusion / Poisson assemblies).
type CG struct{}

func (*CG) Name() string { return "cg" }

func (*CG) Solve(A *sparse.CSR, x, b []float64, opt Options) (Stats, error) {
	if err := checkSizes(A, x, b); err != nil {
		return Stats{}, err
	}
	opt = opt.withDefaults()
	n := A.N

	invD := A.Diag()
	for i, d := range invD {
		if d != 0 {
			invD[i] = 1 / d
		} else {
			invD[i] = 1
		}
	}

	r := make([]float64, n)
	res := residualInto(r, A, x, b)
	if res <= opt.Tolerance {
		return Stats{Residual: res, Converged: true}, nil
	}

	z := make([]float64, n)
	p := make([]float64, n)
	ap := make([]float64, n)
	for i := range z {
		z[i] = invD[i] * r[i]
		p[i] = z[i]
	}
	rz := floats.Dot(r, z)
	scale := bNorm(b)

	for it := 1; it <= opt.MaxIterations; it++ {
		_ = A.MulVec(ap, p)
		pap := floats.Dot(p, ap)
		if pap == 0 {
			return Stats{Iterations: it, Residual: res}, ErrNoConvergence
		}
		alpha := rz / pap
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)

		res = floats.Norm(r, 2) / scale
		if res <= opt.Tolerance {
			return Stats{Iterations: it, Residual: res, Converged: true}, nil
		}

		for i := range z {
			z[i] = invD[i] * r[i]
		}
		rzNext := floats.Dot(r, z)
		beta := rzNext / rz
		rz = rzNext
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
	}
	return Stats{Iterations: opt.MaxIterations, Residual: res}, ErrNoConvergence
}
