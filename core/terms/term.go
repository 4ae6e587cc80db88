// core/terms/term.go
package terms

import (
	"errors"

	"fvsim-core/sparse"
	"fvsim-core/variable"
)

// System is the linear system under assembly for one equation: terms add
// their coefficients to B and their known parts to RHS. Dt is the time step
// of the enclosing solve; zero for steady equations.
type System struct {
	B   *sparse.Builder
	RHS []float64
	Dt  float64
}

// Term is one discretized operator of a PDE. Assemble adds the term's
// contribution for the solution variable v in canonical form
// (transient + convection - diffusion + implicit source) = explicit source.
type Term interface {
	Assemble(v *variable.Cell, sys *System) error
}

var (
	ErrMeshMismatch = errors.New("terms: coefficient field lives on a different mesh")
	ErrNeedsDt      = errors.New("terms: transient term requires a positive time step")
)
