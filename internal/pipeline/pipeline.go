// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"fvsim/internal/config"
	"fvsim/internal/sim"
)

// Axis is one dimension of a parameter matrix: a config override key and
// the values it takes.
type Axis struct {
	Key    string
	Values []string
}

// Run is one point of the expanded matrix.
type Run struct {
	ID        string
	Overrides map[string]string
}

// Result is the outcome of one run, streamed to the visit callback.
type Result struct {
	Run
	Stats sim.Stats
	Wall  time.Duration
	Err   error
}

// RunFunc executes one configured simulation. Injected so the pipeline can
// be exercised without solving anything.
type RunFunc func(ctx context.Context, cfg config.Config) (sim.Stats, error)

// Expand builds the cartesian product of the axes, in axis order, with
// stable IDs of the form "key=value,key=value".
func Expand(axes []Axis) []Run {
	runs := []Run{{ID: "base", Overrides: map[string]string{}}}
	if len(axes) == 0 {
		return runs
	}
	runs = []Run{{Overrides: map[string]string{}}}
	for _, ax := range axes {
		next := make([]Run, 0, len(runs)*len(ax.Values))
		for _, r := range runs {
			for _, v := range ax.Values {
				ov := make(map[string]string, len(r.Overrides)+1)
				for k, val := range r.Overrides {
					ov[k] = val
				}
				ov[ax.Key] = v
				next = append(next, Run{Overrides: ov})
			}
		}
		runs = next
	}
	for i := range runs {
		runs[i].ID = runID(axes, runs[i].Overrides)
	}
	return runs
}

func runID(axes []Axis, ov map[string]string) string {
	parts := make([]string, 0, len(axes))
	for _, ax := range axes {
		parts = append(parts, ax.Key+"="+ov[ax.Key])
	}
	return strings.Join(parts, ",")
}

// ParseAxis parses the CLI form "key=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	key, vals, ok := strings.Cut(s, "=")
	if !ok || key == "" || vals == "" {
		return Axis{}, fmt.Errorf("pipeline: axis %q must look like key=v1,v2", s)
	}
	ax := Axis{Key: key}
	for _, v := range strings.Split(vals, ",") {
		if v = strings.TrimSpace(v); v != "" {
			ax.Values = append(ax.Values, v)
		}
	}
	if len(ax.Values) == 0 {
		return Axis{}, fmt.Errorf("pipeline: axis %q has no values", s)
	}
	return ax, nil
}

// ForEachResult fans the runs across a worker pool, executes each against a
// copy of the base config, and streams Results to visit from a single
// collector goroutine. Returns the first error raised by visit; run
// failures travel inside Result.Err so one diverging run cannot sink the
// rest of the matrix.
func ForEachResult(
	ctx context.Context,
	threads int,
	base config.Config,
	runs []Run,
	exec RunFunc,
	visit func(Result) error,
) error {
	if threads < 1 {
		threads = 1
	}

	jobs := make(chan Run, threads)
	results := make(chan Result, threads)

	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case r, ok := <-jobs:
					if !ok {
						return
					}
					res := Result{Run: r}
					start := time.Now()
					cfg := base
					if err := cfg.Apply(r.Overrides); err != nil {
						res.Err = err
					} else {
						res.Stats, res.Err = exec(ctx, cfg)
					}
					res.Wall = time.Since(start)
					select {
					case results <- res:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	var (
		cerr error
		cwg  sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for r := range results {
			if cerr != nil {
				continue
			}
			if err := visit(r); err != nil {
				cerr = err
			}
		}
	}()

feed:
	for _, r := range runs {
		select {
		case jobs <- r:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if cerr != nil {
		return cerr
	}
	return ctx.Err()
}
