// internal/sweepapp/app.go
package sweepapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"
	"sort"

	"go.uber.org/zap"

	"fvsim/internal/clibase"
	"fvsim/internal/config"
	"fvsim/internal/logging"
	"fvsim/internal/pipeline"
	"fvsim/internal/sim"
	"fvsim/internal/sweepcli"
	"fvsim/internal/version"
	"fvsim/internal/writers"
	"fvsim/pkg/api"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := sweepcli.NewFlagSet("fvsweep")
	fs.SetOutput(io.Discard)

	opts, err := sweepcli.ParseArgs(fs, argv)
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
		_, _ = fmt.Fprintf(outw, "fvsweep version %s\n", version.Version)
		if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 0
	}

	base, err := clibase.LoadConfig(&opts.Common)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	format := base.Output.Format
	switch format {
	case "table", "jsonl":
	default:
		_, _ = fmt.Fprintf(stderr, "fvsweep: result format %q not supported (use table or jsonl)\n", format)
		return 2
	}

	axes := make([]pipeline.Axis, 0, len(opts.Axes))
	for _, raw := range opts.Axes {
		ax, err := pipeline.ParseAxis(raw)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		axes = append(axes, ax)
	}
	runs := pipeline.Expand(axes)

	threads := opts.Threads
	if threads == 0 {
		threads = runtime.NumCPU()
	}

	log := logging.New(stderr, opts.Quiet, opts.Verbose)
	defer func() { _ = log.Sync() }()
	log.Info("starting sweep",
		zap.String("base", base.Name),
		zap.Int("runs", len(runs)),
		zap.Int("threads", threads),
	)

	var results []api.RunResultV1
	failures := 0
	visit := func(r pipeline.Result) error {
		rec := api.RunResultV1{
			ID:            r.ID,
			Overrides:     r.Overrides,
			Steps:         r.Stats.Steps,
			FinalResidual: r.Stats.FinalResidual,
			FinalDt:       r.Stats.FinalDt,
			WallMS:        r.Wall.Milliseconds(),
		}
		if r.Err != nil {
			rec.Error = r.Err.Error()
			failures++
			log.Warn("run failed", zap.String("id", r.ID), zap.Error(r.Err))
		} else {
			log.Debug("run done", zap.String("id", r.ID), zap.Float64("residual", rec.FinalResidual))
		}
		results = append(results, rec)
		return nil
	}

	if err := pipeline.ForEachResult(parent, threads, base, runs, execRun, visit); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	// Workers finish in arbitrary order; output is sorted by run ID so
	// repeated sweeps diff cleanly.
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	if err := writers.WriteResults(format, outw, results); err != nil && !writers.IsBrokenPipe(err) {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}

	if failures > 0 {
		_, _ = fmt.Fprintf(stderr, "fvsweep: %d of %d runs failed\n", failures, len(runs))
		return 1
	}
	return 0
}

// execRun builds and drives one configured model; sweep runs keep their
// snapshots to themselves, only the summary stats travel back.
func execRun(ctx context.Context, cfg config.Config) (sim.Stats, error) {
	model, opt, err := sim.Build(cfg)
	if err != nil {
		return sim.Stats{}, err
	}
	return sim.Run(ctx, model, opt, zap.NewNop(), func(api.SnapshotV1) error { return nil })
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
