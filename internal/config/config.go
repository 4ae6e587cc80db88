// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Model names accepted by Config.Model.
const (
	ModelElectrochem = "electrochem"
	ModelDiffusion   = "diffusion"
	ModelConvection  = "convection"
)

// Config is one complete simulation description, loaded from YAML.
type Config struct {
	Name    string  `yaml:"name"`
	Model   string  `yaml:"model"`
	Mesh    Mesh    `yaml:"mesh"`
	Physics Physics `yaml:"physics"`
	Time    Time    `yaml:"time"`
	Solver  Solver  `yaml:"solver"`
	Output  Output  `yaml:"output"`
}

type Mesh struct {
	Kind string  `yaml:"kind"` // grid1d | grid2d | gapfill
	NX   int     `yaml:"nx"`
	NY   int     `yaml:"ny"`
	DX   float64 `yaml:"dx"`
	DY   float64 `yaml:"dy"`

	// gapfill only
	CellSize         float64 `yaml:"cellSize"`
	DomainWidth      float64 `yaml:"domainWidth"`
	DomainHeight     float64 `yaml:"domainHeight"`
	FineHeight       float64 `yaml:"fineHeight"`
	TransitionHeight float64 `yaml:"transitionHeight"`
}

type Physics struct {
	Mobility           float64 `yaml:"mobility"`
	GradientEnergy     float64 `yaml:"gradientEnergy"`
	BarrierHeight      float64 `yaml:"barrierHeight"`
	DrivingCoeff       float64 `yaml:"drivingCoeff"`
	DiffusionLiquid    float64 `yaml:"diffusionLiquid"`
	PermittivitySolid  float64 `yaml:"permittivitySolid"`
	PermittivityLiquid float64 `yaml:"permittivityLiquid"`
	AppliedPotential   float64 `yaml:"appliedPotential"`
	BulkConcentration  float64 `yaml:"bulkConcentration"`
	ConsumptionCoeff   float64 `yaml:"consumptionCoeff"`
	ChargeCoeff        float64 `yaml:"chargeCoeff"`
	InterfaceHeight    float64 `yaml:"interfaceHeight"`

	// convection preset only
	Alpha  float64 `yaml:"alpha"`
	Scheme string  `yaml:"scheme"`
}

type Time struct {
	Dt             float64 `yaml:"dt"`
	MaxDt          float64 `yaml:"maxDt"`
	Steps          int     `yaml:"steps"`
	Sweeps         int     `yaml:"sweeps"`
	SweepTolerance float64 `yaml:"sweepTolerance"`
}

type Solver struct {
	Backend       string  `yaml:"backend"` // empty defers to FVSIM_SOLVER / bicgstab
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"maxIterations"`
}

type Output struct {
	Format string   `yaml:"format"` // table | csv | jsonl
	Every  int      `yaml:"every"`  // snapshot interval in steps; 0 = final only
	Fields []string `yaml:"fields"` // empty = all model fields
}

var ErrUnknownKey = errors.New("config: unknown override key")

// Load reads and validates a YAML config. Unknown YAML keys are rejected so
// typos fail loudly.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var c Config
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the cross-field invariants a solve depends on.
func (c *Config) Validate() error {
	switch c.Model {
	case ModelElectrochem, ModelDiffusion, ModelConvection:
	default:
		return fmt.Errorf("config: unknown model %q", c.Model)
	}
	switch c.Mesh.Kind {
	case "grid1d":
		if c.Mesh.NX <= 0 || c.Mesh.DX <= 0 {
			return fmt.Errorf("config: grid1d needs nx > 0 and dx > 0")
		}
	case "grid2d":
		if c.Mesh.NX <= 0 || c.Mesh.NY <= 0 || c.Mesh.DX <= 0 || c.Mesh.DY <= 0 {
			return fmt.Errorf("config: grid2d needs positive nx, ny, dx, dy")
		}
	case "gapfill":
		if c.Mesh.CellSize <= 0 || c.Mesh.DomainWidth <= 0 || c.Mesh.DomainHeight <= 0 ||
			c.Mesh.FineHeight <= 0 || c.Mesh.TransitionHeight <= 0 {
			return fmt.Errorf("config: gapfill needs positive band dimensions")
		}
	default:
		return fmt.Errorf("config: unknown mesh kind %q", c.Mesh.Kind)
	}
	if c.Time.Steps < 0 {
		return fmt.Errorf("config: time.steps must be >= 0")
	}
	if c.Model != ModelDiffusion && c.Model != ModelConvection {
		if c.Time.Dt <= 0 {
			return fmt.Errorf("config: time.dt must be > 0 for transient models")
		}
	}
	if c.Time.MaxDt != 0 && c.Time.MaxDt < c.Time.Dt {
		return fmt.Errorf("config: time.maxDt (%g) below time.dt (%g)", c.Time.MaxDt, c.Time.Dt)
	}
	if c.Output.Every < 0 {
		return fmt.Errorf("config: output.every must be >= 0")
	}
	return nil
}

// Apply sets dotted-path overrides, the mechanism behind sweep axes.
// Only keys that make sense to vary across a matrix are addressable.
func (c *Config) Apply(overrides map[string]string) error {
	for k, v := range overrides {
		if err := c.set(k, v); err != nil {
			return err
		}
	}
	return c.Validate()
}

func (c *Config) set(key, val string) error {
	switch key {
	case "solver.backend":
		c.Solver.Backend = val
		return nil
	case "solver.tolerance":
		return setFloat(&c.Solver.Tolerance, key, val)
	case "mesh.nx":
		return setInt(&c.Mesh.NX, key, val)
	case "mesh.ny":
		return setInt(&c.Mesh.NY, key, val)
	case "mesh.cellSize":
		return setFloat(&c.Mesh.CellSize, key, val)
	case "time.dt":
		return setFloat(&c.Time.Dt, key, val)
	case "time.steps":
		return setInt(&c.Time.Steps, key, val)
	case "physics.appliedPotential":
		return setFloat(&c.Physics.AppliedPotential, key, val)
	case "physics.bulkConcentration":
		return setFloat(&c.Physics.BulkConcentration, key, val)
	case "physics.mobility":
		return setFloat(&c.Physics.Mobility, key, val)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
}

func setFloat(dst *float64, key, val string) error {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = f
	return nil
}

func setInt(dst *int, key, val string) error {
	n, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}
