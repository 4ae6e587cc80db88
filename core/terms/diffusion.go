// core/terms/diffusion.go
package terms

import "fvsim-core/variable"

// DiffusionTerm is -div(gamma grad phi) with a two-point flux across each
// face. Gamma is a face field; use Cell.HarmonicFaceValue for coefficients
// that jump between materials. Boundary faces honor the variable's
// constraints: fixed values enter the matrix, fixed fluxes the RHS, and
// unconstrained faces are natural zero-flux.
type DiffusionTerm struct {
	Gamma *variable.Face
}

// Diffusion builds a diffusion term from a face coefficient field.
func Diffusion(gamma *variable.Face) *DiffusionTerm { return &DiffusionTerm{Gamma: gamma} }

func (t *DiffusionTerm) Assemble(v *variable.Cell, sys *System) error {
	m := v.M
	if t.Gamma.M != m {
		return ErrMeshMismatch
	}
	for f := 0; f < m.NFaces; f++ {
		d := t.Gamma.V[f] * m.FaceArea[f] / m.Dist[f]
		o := m.Owner[f]
		n := m.Neigh[f]
		if n >= 0 {
			sys.B.AddToDiag(o, d)
			sys.B.Add(o, n, -d)
			sys.B.AddToDiag(n, d)
			sys.B.Add(n, o, -d)
			continue
		}
		if val, ok := v.FixedValueAt(f); ok {
			sys.B.AddToDiag(o, d)
			sys.RHS[o] += d * val
		} else if g, ok := v.FixedFluxAt(f); ok {
			sys.RHS[o] += t.Gamma.V[f] * m.FaceArea[f] * g
		}
	}
	return nil
}
