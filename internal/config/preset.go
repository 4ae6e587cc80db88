// internal/config/preset.go
package config

import "fmt"

// Preset returns a ready-to-run built-in configuration. The trench preset
// is the electrochemical gap-fill problem; diffusion and convection are the
// steady verification problems with known solutions.
func Preset(name string) (Config, error) {
	switch name {
	case "trench":
		return Config{
			Name:  "trench",
			Model: ModelElectrochem,
			Mesh: Mesh{
				Kind:             "gapfill",
				CellSize:         0.05,
				DomainWidth:      1,
				DomainHeight:     5,
				FineHeight:       1,
				TransitionHeight: 2,
			},
			Physics: Physics{
				Mobility:           1,
				GradientEnergy:     2.5e-3,
				BarrierHeight:      1,
				DrivingCoeff:       5,
				DiffusionLiquid:    1,
				PermittivitySolid:  10,
				PermittivityLiquid: 1,
				AppliedPotential:   -0.25,
				BulkConcentration:  1,
				ConsumptionCoeff:   0.5,
				ChargeCoeff:        0.1,
				InterfaceHeight:    0.4,
			},
			Time: Time{
				Dt:             1e-3,
				MaxDt:          1e-2,
				Steps:          50,
				Sweeps:         10,
				SweepTolerance: 1e-4,
			},
			Solver: Solver{Tolerance: 1e-10, MaxIterations: 4000},
			Output: Output{Format: "table", Every: 10},
		}, nil

	case "diffusion":
		return Config{
			Name:  "diffusion",
			Model: ModelDiffusion,
			Mesh: Mesh{
				Kind:             "gapfill",
				CellSize:         0.1,
				DomainWidth:      1,
				DomainHeight:     5,
				FineHeight:       1,
				TransitionHeight: 2,
			},
			Time:   Time{Steps: 1},
			Solver: Solver{Backend: "cg", Tolerance: 1e-12, MaxIterations: 5000},
			Output: Output{Format: "table"},
		}, nil

	case "convection":
		return Config{
			Name:    "convection",
			Model:   ModelConvection,
			Mesh:    Mesh{Kind: "grid1d", NX: 5000, DX: 10.0 / 5000},
			Physics: Physics{Alpha: 1, Scheme: "powerlaw"},
			Time:    Time{Steps: 1},
			Solver:  Solver{Backend: "gs", Tolerance: 1e-12},
			Output:  Output{Format: "table"},
		}, nil
	}
	return Config{}, fmt.Errorf("config: unknown preset %q (have trench, diffusion, convection)", name)
}
