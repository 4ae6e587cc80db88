// internal/sim/driver.go
package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fvsim-core/variable"
	"fvsim/pkg/api"
)

// Model is one solvable problem: a set of fields and a Step that advances
// them by one time step (sweeping internally until its equations settle).
// Steady problems ignore dt and converge in a single step.
type Model interface {
	Name() string
	Fields() []*variable.Cell
	// Step advances by dt, sweeping until the worst equation residual is
	// below tol or the sweep budget runs out, and returns that residual.
	Step(dt, tol float64) (float64, error)
	// Revert restores the fields to their state at the start of the last
	// Step, so a failed step can be retried with a smaller dt.
	Revert()
}

// Options drives the time loop.
type Options struct {
	Dt             float64
	MaxDt          float64 // 0 = keep Dt fixed
	Steps          int
	SweepTolerance float64
	Every          int      // snapshot interval in steps; 0 = final state only
	Fields         []string // field names to snapshot; empty = all
}

// Stats summarizes a completed run.
type Stats struct {
	Steps         int
	Retries       int
	Time          float64
	FinalDt       float64
	FinalResidual float64
}

const (
	dtGrowth   = 1.1
	maxRetries = 8
)

// Run executes the time loop with adaptive stepping: a converged step grows
// dt by 10% (capped at MaxDt), a failed step is retried at half the dt.
// Snapshots of every field go to emit per Options.Every and after the final
// step.
func Run(ctx context.Context, m Model, opt Options, log *zap.Logger, emit func(api.SnapshotV1) error) (Stats, error) {
	if opt.Steps <= 0 {
		opt.Steps = 1
	}
	tol := opt.SweepTolerance
	if tol <= 0 {
		tol = 1e-6
	}

	stats := Stats{FinalDt: opt.Dt}
	dt := opt.Dt

	for step := 1; step <= opt.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		res, err := m.Step(dt, tol)
		for retry := 0; err != nil || res > tol; retry++ {
			if retry >= maxRetries {
				if err == nil {
					err = fmt.Errorf("sim: step %d stalled: residual %g > %g after %d retries",
						step, res, tol, maxRetries)
				}
				return stats, err
			}
			m.Revert()
			dt /= 2
			stats.Retries++
			log.Debug("step retry", zap.Int("step", step), zap.Float64("dt", dt), zap.Float64("residual", res), zap.Error(err))
			res, err = m.Step(dt, tol)
		}

		stats.Steps = step
		stats.Time += dt
		stats.FinalDt = dt
		stats.FinalResidual = res
		log.Debug("step done", zap.Int("step", step), zap.Float64("t", stats.Time), zap.Float64("residual", res))

		if opt.Every > 0 && step%opt.Every == 0 && step != opt.Steps {
			if err := emitAll(m, opt, step, stats.Time, res, emit); err != nil {
				return stats, err
			}
		}

		if opt.MaxDt > 0 {
			dt *= dtGrowth
			if dt > opt.MaxDt {
				dt = opt.MaxDt
			}
		}
	}

	if err := emitAll(m, opt, stats.Steps, stats.Time, stats.FinalResidual, emit); err != nil {
		return stats, err
	}
	return stats, nil
}

func emitAll(m Model, opt Options, step int, t, res float64, emit func(api.SnapshotV1) error) error {
	for _, f := range m.Fields() {
		if !wantField(opt.Fields, f.Name) {
			continue
		}
		if err := emit(Snapshot(f, step, t, res)); err != nil {
			return err
		}
	}
	return nil
}

func wantField(names []string, name string) bool {
	if len(names) == 0 {
		return true
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Snapshot captures a cell field as the stable output record.
func Snapshot(f *variable.Cell, step int, t, res float64) api.SnapshotV1 {
	s := api.SnapshotV1{
		Step:     step,
		Time:     t,
		Field:    f.Name,
		Residual: res,
		X:        append([]float64(nil), f.M.CellCX...),
		Values:   append([]float64(nil), f.V...),
	}
	if f.M.Dim > 1 {
		s.Y = append([]float64(nil), f.M.CellCY...)
	}
	return s
}
