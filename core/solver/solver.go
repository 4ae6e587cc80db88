// core/solver/solver.go
package solver

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/gonum/floats"

	"fvsim-core/sparse"
)

// EnvBackend selects the default backend when set (e.g. FVSIM_SOLVER=cg).
const EnvBackend = "FVSIM_SOLVER"

// Options bounds an iterative solve. Zero values pick the defaults.
type Options struct {
	Tolerance     float64 // relative residual target [1e-10]
	MaxIterations int     // iteration budget [2000]
}

func (o Options) withDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-10
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 2000
	}
	return o
}

// Stats reports how a solve went. Residual is relative to ||b||.
type Stats struct {
	Iterations int
	Residual   float64
	Converged  bool
}

// Solver solves A x = b. x carries the initial guess in and the solution
// out; A and b are never mutated.
type Solver interface {
	Name() string
	Solve(A *sparse.CSR, x, b []float64, opt Options) (Stats, error)
}

var (
	ErrNoConvergence  = errors.New("solver: iteration budget exhausted before convergence")
	ErrUnknownBackend = errors.New("solver: unknown backend")
)

// allocators holds all registered backends.
var allocators = map[string]func() Solver{}

// Register adds a backend allocator under name (last registration wins).
func Register(name string, alloc func() Solver) { allocators[name] = alloc }

// New dispatches a backend by name; the empty string picks DefaultName.
func New(name string) (Solver, error) {
	if name == "" {
		name = DefaultName()
	}
	alloc, ok := allocators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownBackend, name, Names())
	}
	return alloc(), nil
}

// Names lists registered backends, sorted.
func Names() []string {
	out := make([]string, 0, len(allocators))
	for k := range allocators {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultName is bicgstab unless overridden through the environment.
func DefaultName() string {
	if v := os.Getenv(EnvBackend); v != "" {
		return v
	}
	return "bicgstab"
}

func checkSizes(A *sparse.CSR, x, b []float64) error {
	if len(x) != A.N || len(b) != A.N {
		return fmt.Errorf("solver: size mismatch: n=%d len(x)=%d len(b)=%d", A.N, len(x), len(b))
	}
	return nil
}

// bNorm returns the scale for relative residuals; unity for a zero RHS.
func bNorm(b []float64) float64 {
	n := floats.Norm(b, 2)
	if n == 0 {
		return 1
	}
	return n
}

// residualInto computes r = b - A x and returns ||r|| / ||b||.
func residualInto(r []float64, A *sparse.CSR, x, b []float64) float64 {
	_ = A.MulVec(r, x)
	for i := range r {
		r[i] = b[i] - r[i]
	}
	return floats.Norm(r, 2) / bNorm(b)
}
