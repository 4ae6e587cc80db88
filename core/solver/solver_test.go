// core/solver/solver_test.go
package solver

import (
	"errors"
	"math"
	"testing"

	"fvsim-core/sparse"
)

// laplacian1D builds the SPD tridiagonal system for the 1-D Poisson problem on n cells
// with zero Dirichlet ends, unit spacing.
func laplacian1D(n int) (*sparse.CSR, []float64) {
	b := sparse.NewBuilder(n)
	rhs := make([]float64, n)
	for i := 0; i < n; i++ {
		b.AddToDiag(i, 2)
		if i > 0 {
			b.Add(i, i-1, -1)
		}
		if i < n-1 {
			b.Add(i, i+1, -1)
		}
		rhs[i] = 1
	}
	return b.Build(), rhs
}

func TestBackendsAgree(t *testing.T) {
	A, b := laplacian1D(25)

	ref := make([]float64, A.N)
	lu, err := New("lu")
	if err != nil {
		t.Fatalf("New(lu): %v", err)
	}
	if _, err := lu.Solve(A, ref, b, Options{}); err != nil {
		t.Fatalf("lu solve: %v", err)
	}

	for _, name := range []string{"cg", "bicgstab", "gs"} {
		t.Run(name, func(t *testing.T) {
			s, err := New(name)
			if err != nil {
				t.Fatalf("New(%s): %v", name, err)
			}
			x := make([]float64, A.N)
			stats, err := s.Solve(A, x, b, Options{Tolerance: 1e-12, MaxIterations: 20000})
			if err != nil {
				t.Fatalf("solve: %v", err)
			}
			if !stats.Converged {
				t.Fatalf("did not converge: %+v", stats)
			}
			for i := range x {
				if math.Abs(x[i]-ref[i]) > 1e-6 {
					t.Fatalf("x[%d] = %g, lu reference %g", i, x[i], ref[i])
				}
			}
		})
	}
}

func TestSolversDoNotMutateInputs(t *testing.T) {
	A, b := laplacian1D(10)
	bCopy := make([]float64, len(b))
	copy(bCopy, b)
	valCopy := make([]float64, len(A.Val))
	copy(valCopy, A.Val)

	for _, name := range Names() {
		s, _ := New(name)
		x := make([]float64, A.N)
		if _, err := s.Solve(A, x, b, Options{}); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for i := range b {
			if b[i] != bCopy[i] {
				t.Fatalf("%s mutated b", name)
			}
		}
		for i := range A.Val {
			if A.Val[i] != valCopy[i] {
				t.Fatalf("%s mutated A", name)
			}
		}
	}
}

func TestNoConvergence(t *testing.T) {
	A, b := laplacian1D(50)
	s, _ := New("cg")
	x := make([]float64, A.N)
	stats, err := s.Solve(A, x, b, Options{Tolerance: 1e-14, MaxIterations: 2})
	if !errors.Is(err, ErrNoConvergence) {
		t.Fatalf("err = %v, want ErrNoConvergence", err)
	}
	if stats.Converged {
		t.Error("stats.Converged should be false")
	}
}

func TestDispatch(t *testing.T) {
	if _, err := New("nonsense"); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("err = %v, want ErrUnknownBackend", err)
	}

	want := map[string]bool{"cg": true, "bicgstab": true, "gs": true, "lu": true}
	for _, n := range Names() {
		delete(want, n)
	}
	if len(want) != 0 {
		t.Errorf("missing registered backends: %v", want)
	}
}

func TestDefaultNameEnvOverride(t *testing.T) {
	if got := DefaultName(); got != "bicgstab" {
		t.Errorf("default backend = %q, want bicgstab", got)
	}
	t.Setenv(EnvBackend, "gs")
	if got := DefaultName(); got != "gs" {
		t.Errorf("env override backend = %q, want gs", got)
	}
	s, err := New("")
	if err != nil {
		t.Fatalf("New(\"\"): %v", err)
	}
	if s.Name() != "gs" {
		t.Errorf("dispatched %q, want gs", s.Name())
	}
}

func TestZeroRHS(t *testing.T) {
	A, _ := laplacian1D(5)
	b := make([]float64, A.N)
	x := []float64{1, -2, 3, -4, 5}
	s, _ := New("cg")
	stats, err := s.Solve(A, x, b, Options{Tolerance: 1e-12, MaxIterations: 100})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !stats.Converged {
		t.Fatalf("zero-RHS solve should converge: %+v", stats)
	}
	for i := range x {
		if math.Abs(x[i]) > 1e-10 {
			t.Errorf("x[%d] = %g, want 0", i, x[i])
		}
	}
}
