// core/variable/cell.go
package variable

import (
	"fmt"

	"fvsim-core/mesh"
)

// Cell is a field stored at cell centers. Boundary conditions live on the
// variable itself: Constrain pins the value on a face set (Dirichlet) and
// ConstrainFlux pins the outward normal gradient (Neumann). Faces with no
// constraint get the natural zero-flux treatment during assembly.
type Cell struct {
	Name string
	M    *mesh.Mesh
	V    []float64

	old        []float64
	fixedValue map[int]float64
	fixedFlux  map[int]float64
}

// NewCell builds a cell field with a uniform initial value.
func NewCell(m *mesh.Mesh, name string, initial float64) *Cell {
	v := make([]float64, m.NCells)
	for i := range v {
		v[i] = initial
	}
	return &Cell{Name: name, M: m, V: v}
}

// NewCellFrom builds a cell field from explicit per-cell values.
func NewCellFrom(m *mesh.Mesh, name string, values []float64) (*Cell, error) {
	if len(values) != m.NCells {
		return nil, fmt.Errorf("variable: %q has %d values for %d cells", name, len(values), m.NCells)
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &Cell{Name: name, M: m, V: v}, nil
}

// Copy duplicates values; constraints are not carried over.
func (c *Cell) Copy(name string) *Cell {
	out, _ := NewCellFrom(c.M, name, c.V)
	return out
}

// SetAll overwrites every cell with v.
func (c *Cell) SetAll(v float64) {
	for i := range c.V {
		c.V[i] = v
	}
}

// UpdateOld snapshots the current values as the previous-timestep state
// used by transient terms. Call once at the start of each time step.
func (c *Cell) UpdateOld() {
	if c.old == nil {
		c.old = make([]float64, len(c.V))
	}
	copy(c.old, c.V)
}

// Old returns the previous-timestep values, or the current values when
// UpdateOld has never been called.
func (c *Cell) Old() []float64 {
	if c.old == nil {
		return c.V
	}
	return c.old
}

// Constrain fixes the field value on the given boundary faces.
func (c *Cell) Constrain(faces []int, value float64) {
	if c.fixedValue == nil {
		c.fixedValue = make(map[int]float64, len(faces))
	}
	for _, f := range faces {
		c.fixedValue[f] = value
	}
}

// ConstrainFlux fixes the outward normal gradient on the given boundary faces.
func (c *Cell) ConstrainFlux(faces []int, flux float64) {
	if c.fixedFlux == nil {
		c.fixedFlux = make(map[int]float64, len(faces))
	}
	for _, f := range faces {
		c.fixedFlux[f] = flux
	}
}

// FixedValueAt reports the Dirichlet constraint on face f, if any.
func (c *Cell) FixedValueAt(f int) (float64, bool) {
	v, ok := c.fixedValue[f]
	return v, ok
}

// FixedFluxAt reports the Neumann constraint on face f, if any.
func (c *Cell) FixedFluxAt(f int) (float64, bool) {
	v, ok := c.fixedFlux[f]
	return v, ok
}
