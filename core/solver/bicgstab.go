// core/solver/bicgstab.go
package solver

import (
	"gonum.org/v1/gonum/floats"

	"fvsim-core/sparse"
)

func init() { Register("bicgstab", func() Solver { return &BiCGStab{} }) }

// BiCGStab handles the nonsymmetric systems produced by convection and
// implicit sources. It is the default backend.
type BiCGStab struct{}

func (*BiCGStab) Name() string { return "bicgstab" }

func (*BiCGStab) Solve(A *sparse.CSR, x, b []float64, opt Options) (Stats, error) {
	if err := checkSizes(A, x, b); err != nil {
		return Stats{}, err
	}
	opt = opt.withDefaults()
	n := A.N

	r := make([]float64, n)
	res := residualInto(r, A, x, b)
	if res <= opt.Tolerance {
		return Stats{Residual: res, Converged: true}, nil
	}

	rhat := make([]float64, n)
	copy(rhat, r)
	p := make([]float64, n)
	v := make([]float64, n)
	s := make([]float64, n)
	t := make([]float64, n)

	rho, alpha, omega := 1.0, 1.0, 1.0
	scale := bNorm(b)

	for it := 1; it <= opt.MaxIterations; it++ {
		rhoNext := floats.Dot(rhat, r)
		if rhoNext == 0 {
			return Stats{Iterations: it, Residual: res}, ErrNoConvergence
		}
		beta := (rhoNext / rho) * (alpha / omega)
		rho = rhoNext
		for i := range p {
			p[i] = r[i] + beta*(p[i]-omega*v[i])
		}
		_ = A.MulVec(v, p)
		den := floats.Dot(rhat, v)
		if den == 0 {
			return Stats{Iterations: it, Residual: res}, ErrNoConvergence
		}
		alpha = rho / den
		for i := range s {
			s[i] = r[i] - alpha*v[i]
		}
		if sn := floats.Norm(s, 2) / scale; sn <= opt.Tolerance {
			floats.AddScaled(x, alpha, p)
			return Stats{Iterations: it, Residual: sn, Converged: true}, nil
		}
		_ = A.MulVec(t, s)
		tt := floats.Dot(t, t)
		if tt == 0 {
			return Stats{Iterations: it, Residual: res}, ErrNoConvergence
		}
		omega = floats.Dot(t, s) / tt
		for i := range x {
			x[i] += alpha*p[i] + omega*s[i]
		}
		for i := range r {
			r[i] = s[i] - omega*t[i]
		}
		res = floats.Norm(r, 2) / scale
		if res <= opt.Tolerance {
			return Stats{Iterations: it, Residual: res, Converged: true}, nil
		}
		if omega == 0 {
			return Stats{Iterations: it, Residual: res}, ErrNoConvergence
		}
	}
	return Stats{Iterations: opt.MaxIterations, Residual: res}, ErrNoConvergence
}
