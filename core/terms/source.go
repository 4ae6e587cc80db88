// core/terms/source.go
package terms

import "fvsim-core/variable"

// ImplicitSourceTerm is coeff * phi on the canonical left-hand side. A
// positive coefficient is a sink and strengthens the diagonal; negative
// coefficients are legal but can destabilize the solve.
type ImplicitSourceTerm struct {
	Coeff *variable.Cell
}

// ImplicitSource builds an implicit source from a per-cell coefficient.
func ImplicitSource(coeff *variable.Cell) *ImplicitSourceTerm {
	return &ImplicitSourceTerm{Coeff: coeff}
}

func (t *ImplicitSourceTerm) Assemble(v *variable.Cell, sys *System) error {
	if t.Coeff.M != v.M {
		return ErrMeshMismatch
	}
	for c := 0; c < v.M.NCells; c++ {
		sys.B.AddToDiag(c, v.M.CellVolume[c]*t.Coeff.V[c])
	}
	return nil
}

// SourceTerm is an explicit per-cell source on the right-hand side.
type SourceTerm struct {
	Value *variable.Cell
}

// Source builds an explicit source from a per-cell value field.
func Source(value *variable.Cell) *SourceTerm { return &SourceTerm{Value: value} }

func (t *SourceTerm) Assemble(v *variable.Cell, sys *System) error {
	if t.Value.M != v.M {
		return ErrMeshMismatch
	}
	for c := 0; c < v.M.NCells; c++ {
		sys.RHS[c] += v.M.CellVolume[c] * t.Value.V[c]
	}
	return nil
}
