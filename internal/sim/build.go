// internal/sim/build.go
package sim

import (
	"fmt"

	"fvsim-core/mesh"
	"fvsim/internal/config"
	"fvsim/internal/electrochem"
)

// Build turns a validated config into a runnable model plus driver options.
func Build(cfg config.Config) (Model, Options, error) {
	m, err := buildMesh(cfg.Mesh)
	if err != nil {
		return nil, Options{}, err
	}

	opt := Options{
		Dt:             cfg.Time.Dt,
		MaxDt:          cfg.Time.MaxDt,
		Steps:          cfg.Time.Steps,
		SweepTolerance: cfg.Time.SweepTolerance,
		Every:          cfg.Output.Every,
		Fields:         cfg.Output.Fields,
	}

	var md Model
	switch cfg.Model {
	case config.ModelElectrochem:
		md, err = electrochem.New(m, electrochem.Params{
			Mobility:           cfg.Physics.Mobility,
			GradientEnergy:     cfg.Physics.GradientEnergy,
			BarrierHeight:      cfg.Physics.BarrierHeight,
			DrivingCoeff:       cfg.Physics.DrivingCoeff,
			DiffusionLiquid:    cfg.Physics.DiffusionLiquid,
			PermittivitySolid:  cfg.Physics.PermittivitySolid,
			PermittivityLiquid: cfg.Physics.PermittivityLiquid,
			AppliedPotential:   cfg.Physics.AppliedPotential,
			BulkConcentration:  cfg.Physics.BulkConcentration,
			ConsumptionCoeff:   cfg.Physics.ConsumptionCoeff,
			ChargeCoeff:        cfg.Physics.ChargeCoeff,
			InterfaceHeight:    cfg.Physics.InterfaceHeight,
		}, electrochem.SolveOptions{
			Backend:       cfg.Solver.Backend,
			Tolerance:     cfg.Solver.Tolerance,
			MaxIterations: cfg.Solver.MaxIterations,
			Sweeps:        cfg.Time.Sweeps,
		})

	case config.ModelDiffusion:
		md, err = newSteadyDiffusion(m, cfg.Solver)

	case config.ModelConvection:
		md, err = newSteadyConvection(m, cfg.Physics, cfg.Solver)

	default:
		return nil, Options{}, fmt.Errorf("sim: unknown model %q", cfg.Model)
	}
	if err != nil {
		return nil, Options{}, err
	}
	if err := checkOutputFields(md, opt.Fields); err != nil {
		return nil, Options{}, err
	}
	return md, opt, nil
}

// checkOutputFields rejects output.fields entries the model does not have,
// so a typo fails at startup instead of silently producing no snapshots.
func checkOutputFields(m Model, names []string) error {
	for _, want := range names {
		found := false
		for _, f := range m.Fields() {
			if f.Name == want {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("sim: model %s has no field %q for output.fields", m.Name(), want)
		}
	}
	return nil
}

func buildMesh(mc config.Mesh) (*mesh.Mesh, error) {
	switch mc.Kind {
	case "grid1d":
		return mesh.NewGrid1D(mc.NX, mc.DX)
	case "grid2d":
		return mesh.NewGrid2D(mc.NX, mc.NY, mc.DX, mc.DY)
	case "gapfill":
		return mesh.NewGapFill(mesh.GapFillConfig{
			CellSize:         mc.CellSize,
			DomainWidth:      mc.DomainWidth,
			DomainHeight:     mc.DomainHeight,
			FineHeight:       mc.FineHeight,
			TransitionHeight: mc.TransitionHeight,
		})
	}
	return nil, fmt.Errorf("sim: unknown mesh kind %q", mc.Kind)
}
