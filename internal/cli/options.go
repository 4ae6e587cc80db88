// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"fvsim/internal/clibase"
	"fvsim/internal/version"
)

// Options holds all fvsim flags.
type Options struct {
	clibase.Common

	// Time-loop overrides (0 = keep the config value)
	Steps int
	Dt    float64
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: finite-volume simulation of electrochemical interfaces

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	clibase.Register(fs, &opt.Common)

	fs.IntVar(&opt.Steps, "steps", 0, "time steps (0 = config value) [0]")
	fs.Float64Var(&opt.Dt, "dt", 0, "initial time step (0 = config value) [0]")

	fs.BoolVar(&help, "h", false, "show this help message [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}

	if err := clibase.Validate(&opt.Common); err != nil {
		return opt, err
	}
	if opt.Steps < 0 {
		return opt, errors.New("--steps must be >= 0")
	}
	if opt.Dt < 0 {
		return opt, errors.New("--dt must be >= 0")
	}
	return opt, nil
}
