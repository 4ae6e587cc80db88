// internal/sweepcli/options.go
package sweepcli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"fvsim/internal/clibase"
	"fvsim/internal/version"
)

// Options holds all fvsweep flags.
type Options struct {
	clibase.Common

	Axes    []string // raw "key=v1,v2" specs, parsed by the pipeline
	Threads int
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: parameter sweeps over fvsim configurations

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

	axes := stringSlice{dst: &opt.Axes}
	fs.Var(&axes, "axis", "sweep axis key=v1,v2,... (repeatable)")
	fs.Var(&axes, "a", "alias of --axis")
	fs.IntVar(&opt.Threads, "threads", 0, "concurrent runs (0 = all CPUs) [0]")
	fs.IntVar(&opt.Threads, "t", 0, "alias of --threads")

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
	if len(opt.Axes) == 0 {
		return opt, errors.New("at least one --axis is required")
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be >= 0")
	}
	switch opt.Output {
	case "", "table", "jsonl":
	default:
		return opt, fmt.Errorf("invalid --output %q for sweep results", opt.Output)
	}
	return opt, nil
}

// stringSlice allows repeatable string flags.
type stringSlice struct{ dst *[]string }

func (s *stringSlice) String() string {
	if s.dst == nil {
		return ""
	}
	return strings.Join(*s.dst, " ")
}

func (s *stringSlice) Set(v string) error {
	*s.dst = append(*s.dst, v)
	return nil
}
