// internal/sim/steady.go
package sim

import (
	"fvsim-core/equation"
	"fvsim-core/mesh"
	"fvsim-core/terms"
	"fvsim-core/variable"
	"fvsim/internal/config"
)

// steadyProblem wraps a single time-independent equation as a Model.
// The two built-in verification problems have closed-form solutions and
// double as smoke tests for a fresh build.
type steadyProblem struct {
	name  string
	field *variable.Cell
	eq    *equation.Equation
	opt   equation.Options
}

func (p *steadyProblem) Name() string { return p.name }

func (p *steadyProblem) Fields() []*variable.Cell { return []*variable.Cell{p.field} }

func (p *steadyProblem) Revert() {}

func (p *steadyProblem) Step(_, _ float64) (float64, error) {
	stats, err := p.eq.Solve(p.field, p.opt)
	return stats.Residual, err
}

// newSteadyDiffusion poses grad^2 phi = 0 with phi pinned to zero on the
// near boundary and to the domain extent on the far one; the solution is
// linear through the cell centers on any of the meshes, including the
// composite gap-fill bands.
func newSteadyDiffusion(m *mesh.Mesh, sc config.Solver) (Model, error) {
	phi := variable.NewCell(m, "phi", 0)
	if m.Dim == 1 {
		span := m.FaceCX[m.FacesRight()[0]]
		phi.Constrain(m.FacesLeft(), 0)
		phi.Constrain(m.FacesRight(), span)
	} else {
		span := m.FaceCY[m.FacesTop()[0]]
		phi.Constrain(m.FacesBottom(), 0)
		phi.Constrain(m.FacesTop(), span)
	}
	return &steadyProblem{
		name:  "diffusion",
		field: phi,
		eq:    equation.New(terms.Diffusion(variable.NewFace(m, 1))),
		opt: equation.Options{
			Backend:       sc.Backend,
			Tolerance:     sc.Tolerance,
			MaxIterations: sc.MaxIterations,
		},
	}, nil
}

// newSteadyConvection poses d(phi)/dx + alpha*phi = 0 with phi(0) = 1 and
// an open outflow on the right; the solution is exp(-alpha*x).
func newSteadyConvection(m *mesh.Mesh, pc config.Physics, sc config.Solver) (Model, error) {
	scheme := terms.PowerLaw
	if pc.Scheme != "" {
		var err error
		scheme, err = terms.SchemeFromString(pc.Scheme)
		if err != nil {
			return nil, err
		}
	}
	alpha := pc.Alpha
	if alpha == 0 {
		alpha = 1
	}

	phi := variable.NewCell(m, "phi", 1)
	phi.Constrain(m.FacesLeft(), 1)

	return &steadyProblem{
		name:  "convection",
		field: phi,
		eq: equation.New(
			terms.Convection(variable.NewFlowFace(m, 1, 0), scheme),
			terms.ImplicitSource(variable.NewCell(m, "alpha", alpha)),
		),
		opt: equation.Options{
			Backend:       sc.Backend,
			Tolerance:     sc.Tolerance,
			MaxIterations: sc.MaxIterations,
		},
	}, nil
}
