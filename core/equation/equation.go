// core/equation/equation.go
package equation

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"fvsim-core/solver"
	"fvsim-core/sparse"
	"fvsim-core/terms"
	"fvsim-core/variable"
)

// Options controls one solve. Backend names a registered solver backend;
// empty picks solver.DefaultName (FVSIM_SOLVER-aware).
type Options struct {
	Dt            float64
	Backend       string
	Tolerance     float64
	MaxIterations int
}

// Equation is a sum of terms in canonical form
// (transient + convection - diffusion + implicit source) = explicit source.
// Boundary conditions come from the solution variable's constraints.
type Equation struct {
	terms []terms.Term
}

// New builds an equation from its terms.
func New(ts ...terms.Term) *Equation { return &Equation{terms: ts} }

// ErrEmpty is returned for an equation with no terms.
var ErrEmpty = errors.New("equation: no terms")

func (e *Equation) assemble(v *variable.Cell, dt float64) (*sparse.CSR, []float64, error) {
	if len(e.terms) == 0 {
		return nil, nil, ErrEmpty
	}
	sys := &terms.System{
		B:   sparse.NewBuilder(v.M.NCells),
		RHS: make([]float64, v.M.NCells),
		Dt:  dt,
	}
	for _, t := range e.terms {
		if err := t.Assemble(v, sys); err != nil {
			return nil, nil, fmt.Errorf("equation: assemble %T: %w", t, err)
		}
	}
	return sys.B.Build(), sys.RHS, nil
}

// Solve assembles the system and solves it in place, updating v.
func (e *Equation) Solve(v *variable.Cell, opt Options) (solver.Stats, error) {
	_, stats, err := e.sweep(v, opt)
	return stats, err
}

// Sweep assembles, measures the residual of the current state against the
// fresh assembly, then solves. The returned residual is relative to the
// RHS norm; coupled models iterate sweeps until every equation's residual
// is below tolerance.
func (e *Equation) Sweep(v *variable.Cell, opt Options) (float64, solver.Stats, error) {
	return e.sweep(v, opt)
}

func (e *Equation) sweep(v *variable.Cell, opt Options) (float64, solver.Stats, error) {
	A, b, err := e.assemble(v, opt.Dt)
	if err != nil {
		return 0, solver.Stats{}, err
	}

	// Pre-solve residual of the current field.
	r := make([]float64, len(b))
	_ = A.MulVec(r, v.V)
	for i := range r {
		r[i] = b[i] - r[i]
	}
	bn := floats.Norm(b, 2)
	if bn == 0 {
		bn = 1
	}
	res := floats.Norm(r, 2) / bn

	s, err := solver.New(opt.Backend)
	if err != nil {
		return res, solver.Stats{}, err
	}
	stats, err := s.Solve(A, v.V, b, solver.Options{
		Tolerance:     opt.Tolerance,
		MaxIterations: opt.MaxIterations,
	})
	return res, stats, err
}
