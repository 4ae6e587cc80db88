// internal/electrochem/model.go
package electrochem

import (
	"fmt"
	"math"

	"fvsim-core/equation"
	"fvsim-core/mesh"
	"fvsim-core/terms"
	"fvsim-core/variable"
)

// Params are the physical coefficients of the interface model: a phase
// field xi separating electrode (1) from electrolyte (0), a depositing
// species concentration, and the electrostatic potential across the double
// layer.
type Params struct {
	Mobility           float64 // phase-field mobility M
	GradientEnergy     float64 // kappa
	BarrierHeight      float64 // W of the double well 16*W*xi^2*(1-xi)^2
	DrivingCoeff       float64 // electrochemical driving strength
	DiffusionLiquid    float64 // species diffusivity in the electrolyte
	PermittivitySolid  float64
	PermittivityLiquid float64
	AppliedPotential   float64 // potential held at the electrode boundary
	BulkConcentration  float64 // far-field species concentration
	ConsumptionCoeff   float64 // species consumed per unit interface advance
	ChargeCoeff        float64 // space charge per unit electrolyte concentration
	InterfaceHeight    float64 // initial electrode/electrolyte position
}

// SolveOptions select the linear backend and the sweep budget shared by
// the three equations.
type SolveOptions struct {
	Backend       string
	Tolerance     float64
	MaxIterations int
	Sweeps        int
}

// Model couples the three equations over one mesh. Each Step sweeps
// potential, phase, and concentration in turn until the worst pre-solve
// residual settles.
type Model struct {
	msh *mesh.Mesh
	p   Params
	so  SolveOptions

	phase *variable.Cell
	conc  *variable.Cell
	pot   *variable.Cell
}

// New initializes the fields: electrode below InterfaceHeight, electrolyte
// at bulk concentration above it, potential applied on the electrode side
// and grounded at the far field.
func New(m *mesh.Mesh, p Params, so SolveOptions) (*Model, error) {
	if p.BulkConcentration <= 0 {
		return nil, fmt.Errorf("electrochem: bulk concentration must be > 0, got %g", p.BulkConcentration)
	}
	if so.Sweeps <= 0 {
		so.Sweeps = 5
	}

	md := &Model{msh: m, p: p, so: so}

	coord := m.CellCY
	electrode, far := m.FacesBottom(), m.FacesTop()
	if m.Dim == 1 {
		coord = m.CellCX
		electrode, far = m.FacesLeft(), m.FacesRight()
	}

	md.phase = variable.NewCell(m, "phase", 0)
	md.conc = variable.NewCell(m, "concentration", 0)
	md.pot = variable.NewCell(m, "potential", 0)
	for c := 0; c < m.NCells; c++ {
		if coord[c] < p.InterfaceHeight {
			md.phase.V[c] = 1
		} else {
			md.conc.V[c] = p.BulkConcentration
		}
	}

	md.pot.Constrain(electrode, p.AppliedPotential)
	md.pot.Constrain(far, 0)
	md.conc.Constrain(far, p.BulkConcentration)
	// The phase field keeps natural zero-flux boundaries everywhere.

	return md, nil
}

func (md *Model) Name() string { return "electrochem" }

// Fields exposes phase, concentration, and potential for output.
func (md *Model) Fields() []*variable.Cell {
	return []*variable.Cell{md.phase, md.conc, md.pot}
}

// Phase returns the order parameter field.
func (md *Model) Phase() *variable.Cell { return md.phase }

// Concentration returns the species field.
func (md *Model) Concentration() *variable.Cell { return md.conc }

// Potential returns the electrostatic field.
func (md *Model) Potential() *variable.Cell { return md.pot }

func (md *Model) solveOpts(dt float64) equation.Options {
	return equation.Options{
		Dt:            dt,
		Backend:       md.so.Backend,
		Tolerance:     md.so.Tolerance,
		MaxIterations: md.so.MaxIterations,
	}
}

// Step advances the coupled system by dt. The three equations are swept in
// a fixed order (potential first, since phase and concentration read it)
// until the worst residual drops below tol or the sweep budget runs out.
func (md *Model) Step(dt, tol float64) (float64, error) {
	md.phase.UpdateOld()
	md.conc.UpdateOld()
	md.pot.UpdateOld()

	res := math.Inf(1)
	for s := 0; s < md.so.Sweeps; s++ {
		rPot, err := md.sweepPotential()
		if err != nil {
			return res, err
		}
		rPhase, err := md.sweepPhase(dt)
		if err != nil {
			return res, err
		}
		rConc, err := md.sweepConcentration(dt)
		if err != nil {
			return res, err
		}
		res = math.Max(rPot, math.Max(rPhase, rConc))
		if res < tol {
			break
		}
	}
	return res, nil
}

// Revert restores all fields to their state at the start of the last Step.
func (md *Model) Revert() {
	copy(md.phase.V, md.phase.Old())
	copy(md.conc.V, md.conc.Old())
	copy(md.pot.V, md.pot.Old())
}

// sweepPotential solves the Poisson equation
// -div(eps(xi) grad psi) = charge(c, xi) to steady state.
func (md *Model) sweepPotential() (float64, error) {
	m := md.msh
	eps := variable.NewCell(m, "eps", 0)
	charge := variable.NewCell(m, "charge", 0)
	for c := 0; c < m.NCells; c++ {
		xi := md.phase.V[c]
		eps.V[c] = md.p.PermittivitySolid*xi + md.p.PermittivityLiquid*(1-xi)
		// Space charge follows the ionic content of the electrolyte.
		charge.V[c] = md.p.ChargeCoeff * md.conc.V[c] * (1 - xi)
	}

	eq := equation.New(
		terms.Diffusion(eps.HarmonicFaceValue()),
		terms.Source(charge),
	)
	res, _, err := eq.Sweep(md.pot, md.solveOpts(0))
	return res, err
}

// sweepPhase advances the Allen-Cahn equation
// d(xi)/dt = M*(kappa lap xi - W'(xi) - g'(xi)*dG(psi, c))
// with the reactive source linearized around the current state: the
// constant curvature bound of the double well goes on the diagonal, the
// remainder stays explicit.
func (md *Model) sweepPhase(dt float64) (float64, error) {
	m := md.msh
	p := md.p

	sp := variable.NewCell(m, "sp", p.Mobility*32*p.BarrierHeight)
	sc := variable.NewCell(m, "sc", 0)
	for c := 0; c < m.NCells; c++ {
		xi := md.phase.V[c]
		dWell := 32 * p.BarrierHeight * xi * (1 - xi) * (1 - 2*xi)
		dInterp := 30 * xi * xi * (1 - xi) * (1 - xi)
		dG := p.DrivingCoeff * (md.conc.V[c] / p.BulkConcentration) * md.pot.V[c]
		sc.V[c] = sp.V[c]*xi - p.Mobility*(dWell+dInterp*dG)
	}

	eq := equation.New(
		terms.Transient(1),
		terms.Diffusion(variable.NewFace(m, p.Mobility*p.GradientEnergy)),
		terms.ImplicitSource(sp),
		terms.Source(sc),
	)
	res, _, err := eq.Sweep(md.phase, md.solveOpts(dt))
	if err != nil {
		return res, err
	}

	// Drift guard: the linearized source can overshoot the wells slightly.
	for c := range md.phase.V {
		if md.phase.V[c] < 0 {
			md.phase.V[c] = 0
		} else if md.phase.V[c] > 1 {
			md.phase.V[c] = 1
		}
	}
	return res, nil
}

// sweepConcentration advances species diffusion with consumption where the
// interface advances. The sink is implicit, which keeps the assembly an
// M-matrix and the concentration nonnegative.
func (md *Model) sweepConcentration(dt float64) (float64, error) {
	m := md.msh
	p := md.p

	diff := variable.NewCell(m, "D", 0)
	sink := variable.NewCell(m, "sink", 0)
	oldPhase := md.phase.Old()
	for c := 0; c < m.NCells; c++ {
		xi := md.phase.V[c]
		diff.V[c] = p.DiffusionLiquid * (1 - xi)
		if adv := (xi - oldPhase[c]) / dt; adv > 0 {
			sink.V[c] = p.ConsumptionCoeff * adv
		}
	}

	eq := equation.New(
		terms.Transient(1),
		terms.Diffusion(diff.HarmonicFaceValue()),
		terms.ImplicitSource(sink),
	)
	res, _, err := eq.Sweep(md.conc, md.solveOpts(dt))
	if err != nil {
		return res, err
	}
	for c := range md.conc.V {
		if md.conc.V[c] < 0 {
			md.conc.V[c] = 0
		}
	}
	return res, nil
}
