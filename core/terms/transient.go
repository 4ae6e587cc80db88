// core/terms/transient.go
package terms

import "fvsim-core/variable"

// TransientTerm is d(coeff * phi)/dt, discretized backward Euler against
// the variable's previous-timestep values (see Cell.UpdateOld).
type TransientTerm struct {
	Coeff float64
}

// Transient builds a transient term with a constant coefficient.
func Transient(coeff float64) *TransientTerm { return &TransientTerm{Coeff: coeff} }

func (t *TransientTerm) Assemble(v *variable.Cell, sys *System) error {
	if sys.Dt <= 0 {
		return ErrNeedsDt
	}
	old := v.Old()
	for c := 0; c < v.M.NCells; c++ {
		a := t.Coeff * v.M.CellVolume[c] / sys.Dt
		sys.B.AddToDiag(c, a)
		sys.RHS[c] += a * old[c]
	}
	return nil
}
