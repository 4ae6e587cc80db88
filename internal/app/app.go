// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"fvsim/internal/cli"
	"fvsim/internal/clibase"
	"fvsim/internal/config"
	"fvsim/internal/logging"
	"fvsim/internal/sim"
	"fvsim/internal/version"
	"fvsim/internal/writers"
	"fvsim/pkg/api"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("fvsim")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			if e := outw.Flush(); writers.IsBrokenPipe(e) {
				return 0
			} else if e != nil {
				_, _ = fmt.Fprintln(stderr, e)
				return 3
			}
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "fvsim version %s\n", version.Version)
		if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	log := logging.New(stderr, opts.Quiet, opts.Verbose)
	defer func() { _ = log.Sync() }()

	model, simOpt, err := sim.Build(cfg)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	log.Info("starting run",
		zap.String("name", cfg.Name),
		zap.String("model", model.Name()),
		zap.Int("steps", simOpt.Steps),
	)

	in, errCh := writers.StartSnapshotWriter(outw, cfg.Output.Format, 0)
	emit := func(s api.SnapshotV1) error {
		select {
		case in <- s:
			return nil
		case <-parent.Done():
			return parent.Err()
		}
	}

	stats, runErr := sim.Run(parent, model, simOpt, log, emit)
	close(in)
	if werr := <-errCh; werr != nil {
		_, _ = fmt.Fprintln(stderr, werr)
		return 3
	}
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return 130
		}
		_, _ = fmt.Fprintln(stderr, runErr)
		return 1
	}

	log.Info("run complete",
		zap.Int("steps", stats.Steps),
		zap.Int("retries", stats.Retries),
		zap.Float64("t", stats.Time),
		zap.Float64("residual", stats.FinalResidual),
	)
	return 0
}

// loadConfig resolves the shared flags and layers the fvsim-only time
// overrides on top.
func loadConfig(opts cli.Options) (config.Config, error) {
	cfg, err := clibase.LoadConfig(&opts.Common)
	if err != nil {
		return config.Config{}, err
	}
	if opts.Steps > 0 {
		cfg.Time.Steps = opts.Steps
	}
	if opts.Dt > 0 {
		cfg.Time.Dt = opts.Dt
		if cfg.Time.MaxDt != 0 && cfg.Time.MaxDt < cfg.Time.Dt {
			cfg.Time.MaxDt = cfg.Time.Dt
		}
	}
	return cfg, cfg.Validate()
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
