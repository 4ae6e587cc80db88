// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"
	"fmt"

	"fvsim/internal/config"
)

// Common holds CLI fields shared by fvsim and fvsweep.
type Common struct {
	// Problem selection
	ConfigPath string
	Preset     string

	// Solver
	Solver string

	// Output
	Output string // table|csv|jsonl
	Every  int

	// Misc
	Quiet   bool
	Verbose bool
	Version bool
}

// Register wires the shared flags onto fs.
func Register(fs *flag.FlagSet, c *Common) {
	// Problem selection
	fs.StringVar(&c.ConfigPath, "config", "", "YAML simulation config file")
	fs.StringVar(&c.Preset, "preset", "", "built-in problem: trench | diffusion | convection")
	fs.StringVar(&c.ConfigPath, "c", "", "alias of --config")
	fs.StringVar(&c.Preset, "p", "", "alias of --preset")

	// Solver
	fs.StringVar(&c.Solver, "solver", "", "linear backend: cg | bicgstab | gs | lu (empty = config/FVSIM_SOLVER)")

	// Output
	fs.StringVar(&c.Output, "output", "", "output format: table | csv | jsonl (empty = config value)")
	fs.StringVar(&c.Output, "o", "", "alias of --output")
	fs.IntVar(&c.Every, "every", -1, "snapshot every N steps (-1 = config value, 0 = final only) [-1]")

	// Misc
	fs.BoolVar(&c.Quiet, "quiet", false, "suppress progress logging [false]")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Verbose, "verbose", false, "per-step debug logging [false]")
	fs.BoolVar(&c.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")
}

// Validate applies the shared CLI invariants used by both tools.
func Validate(c *Common) error {
	switch {
	case c.ConfigPath != "" && c.Preset != "":
		return errors.New("--config conflicts with --preset")
	case c.ConfigPath == "" && c.Preset == "":
		return errors.New("provide --config or --preset")
	}
	switch c.Output {
	case "", "table", "csv", "jsonl":
	default:
		return fmt.Errorf("invalid --output %q", c.Output)
	}
	if c.Every < -1 {
		return errors.New("--every must be >= -1")
	}
	if c.Quiet && c.Verbose {
		return errors.New("--quiet conflicts with --verbose")
	}
	return nil
}

// LoadConfig resolves the preset or config file and layers the shared CLI
// overrides on top.
func LoadConfig(c *Common) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if c.Preset != "" {
		cfg, err = config.Preset(c.Preset)
	} else {
		cfg, err = config.Load(c.ConfigPath)
	}
	if err != nil {
		return config.Config{}, err
	}

	if c.Solver != "" {
		cfg.Solver.Backend = c.Solver
	}
	if c.Output != "" {
		cfg.Output.Format = c.Output
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "table"
	}
	if c.Every >= 0 {
		cfg.Output.Every = c.Every
	}
	return cfg, cfg.Validate()
}
