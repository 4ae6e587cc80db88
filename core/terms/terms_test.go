// core/terms/terms_test.go
package terms

import (
	"errors"
	"math"
	"testing"

	"fvsim-core/mesh"
	"fvsim-core/sparse"
	"fvsim-core/variable"
)

func newSystem(m *mesh.Mesh, dt float64) *System {
	return &System{
		B:   sparse.NewBuilder(m.NCells),
		RHS: make([]float64, m.NCells),
		Dt:  dt,
	}
}

func TestTransientNeedsDt(t *testing.T) {
	m, _ := mesh.NewGrid1D(3, 1)
	v := variable.NewCell(m, "phi", 0)
	if err := Transient(1).Assemble(v, newSystem(m, 0)); !errors.Is(err, ErrNeedsDt) {
		t.Fatalf("err = %v, want ErrNeedsDt", err)
	}
}

func TestTransientDiagonalAndHistory(t *testing.T) {
	m, _ := mesh.NewGrid1D(2, 0.5)
	v := variable.NewCell(m, "phi", 3)
	v.UpdateOld()
	v.SetAll(7) // current value must not leak into the RHS

	sys := newSystem(m, 0.25)
	if err := Transient(2).Assemble(v, sys); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	A := sys.B.Build()
	d := A.Diag()
	want := 2 * 0.5 / 0.25
	for i := range d {
		if math.Abs(d[i]-want) > 1e-12 {
			t.Errorf("diag[%d] = %g, want %g", i, d[i], want)
		}
		if math.Abs(sys.RHS[i]-want*3) > 1e-12 {
			t.Errorf("rhs[%d] = %g, want %g", i, sys.RHS[i], want*3)
		}
	}
}

func TestDiffusionRowSumsVanishInside(t *testing.T) {
	m, _ := mesh.NewGrid2D(4, 3, 0.5, 0.25)
	v := variable.NewCell(m, "phi", 0)
	sys := newSystem(m, 0)
	if err := Diffusion(variable.NewFace(m, 2.5)).Assemble(v, sys); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	A := sys.B.Build()
	// With no constraints every row must sum to zero: a uniform field has
	// no diffusive flux anywhere.
	ones := make([]float64, m.NCells)
	for i := range ones {
		ones[i] = 1
	}
	y := make([]float64, m.NCells)
	_ = A.MulVec(y, ones)
	for i := range y {
		if math.Abs(y[i]) > 1e-12 {
			t.Fatalf("row %d sum = %g, want 0", i, y[i])
		}
	}
}

func TestDiffusionBoundaryConstraints(t *testing.T) {
	m, _ := mesh.NewGrid1D(2, 1)
	v := variable.NewCell(m, "phi", 0)
	v.Constrain(m.FacesLeft(), 10)
	v.ConstrainFlux(m.FacesRight(), 3)

	sys := newSystem(m, 0)
	if err := Diffusion(variable.NewFace(m, 1)).Assemble(v, sys); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	// Left: conductance 1/(0.5) = 2 into the diagonal and 2*10 on the RHS.
	// Right: flux constraint puts 1*1*3 on the RHS only.
	if math.Abs(sys.RHS[0]-20) > 1e-12 {
		t.Errorf("rhs[0] = %g, want 20", sys.RHS[0])
	}
	if math.Abs(sys.RHS[1]-3) > 1e-12 {
		t.Errorf("rhs[1] = %g, want 3", sys.RHS[1])
	}
	d := sys.B.Build().Diag()
	if math.Abs(d[0]-3) > 1e-12 { // 2 boundary + 1 interior
		t.Errorf("diag[0] = %g, want 3", d[0])
	}
	if math.Abs(d[1]-1) > 1e-12 { // interior only
		t.Errorf("diag[1] = %g, want 1", d[1])
	}
}

func TestSchemeWeights(t *testing.T) {
	tests := []struct {
		scheme Scheme
		F, D   float64
		want   float64
	}{
		{Central, 4, 1, 0.5},
		{Upwind, 4, 1, 1},
		{Upwind, -4, 1, 0},
		{PowerLaw, 1e-9, 1, 0.5},           // Peclet -> 0 recovers central
		{PowerLaw, 1e9, 1, 1},              // Peclet -> +inf recovers upwind
		{PowerLaw, -1e9, 1, 0},             // Peclet -> -inf recovers downwind
		{Exponential, 1e-9, 1, 0.5},        // limiter -> 1 as P -> 0
		{Exponential, 200, 1, 199.0 / 200}, // limiter floors to 0 at large P
		{Hybrid, 1, 1, 0.5},                // |P| < 2 stays central
		{PowerLaw, 3, 0, 1},                // no diffusion pairing: pure upwind
		{PowerLaw, -3, 0, 0},
	}
	for _, tc := range tests {
		c := Convection(nil, tc.scheme)
		got := c.alpha(tc.F, tc.D)
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("%s alpha(F=%g, D=%g) = %g, want %g", tc.scheme, tc.F, tc.D, got, tc.want)
		}
	}
}

func TestSchemeNames(t *testing.T) {
	for _, s := range []Scheme{Central, Upwind, Hybrid, PowerLaw, Exponential} {
		got, err := SchemeFromString(s.String())
		if err != nil || got != s {
			t.Errorf("round trip %v: got %v, err %v", s, got, err)
		}
	}
	if _, err := SchemeFromString("quick"); err == nil {
		t.Error("expected error for unknown scheme")
	}
}

func TestConvectionConservesInterior(t *testing.T) {
	m, _ := mesh.NewGrid2D(3, 3, 1, 1)
	v := variable.NewCell(m, "phi", 0)
	vel := variable.NewFlowFace(m, 1, 0)

	sys := newSystem(m, 0)
	if err := Convection(vel, Upwind).Assemble(v, sys); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	// A uniform field in a divergence-free flow generates no net transport:
	// each row times the ones vector equals the boundary in/outflow, and
	// the column sums over all cells must cancel to the boundary flux too.
	A := sys.B.Build()
	ones := make([]float64, m.NCells)
	for i := range ones {
		ones[i] = 1
	}
	y := make([]float64, m.NCells)
	_ = A.MulVec(y, ones)
	total := 0.0
	for i := range y {
		total += y[i]
	}
	// Net over the whole domain: outflow area 3 minus inflow handled via
	// the open-boundary diagonal on the left (F < 0), so the global sum is
	// zero for this uniform field.
	if math.Abs(total) > 1e-12 {
		t.Errorf("global transport of uniform field = %g, want 0", total)
	}
}

func TestMeshMismatch(t *testing.T) {
	m1, _ := mesh.NewGrid1D(3, 1)
	m2, _ := mesh.NewGrid1D(3, 1)
	v := variable.NewCell(m1, "phi", 0)

	cases := []struct {
		name string
		term Term
	}{
		{"diffusion", Diffusion(variable.NewFace(m2, 1))},
		{"convection", Convection(variable.NewFace(m2, 1), Upwind)},
		{"implicit source", ImplicitSource(variable.NewCell(m2, "sp", 1))},
		{"source", Source(variable.NewCell(m2, "sc", 1))},
	}
	for _, tc := range cases {
		if err := tc.term.Assemble(v, newSystem(m1, 1)); !errors.Is(err, ErrMeshMismatch) {
			t.Errorf("%s: err = %v, want ErrMeshMismatch", tc.name, err)
		}
	}
}
