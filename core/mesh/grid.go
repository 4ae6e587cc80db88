// core/mesh/grid.go
package mesh

import "fmt"

// NewGrid1D builds a uniform 1-D mesh of nx cells of width dx.
func NewGrid1D(nx int, dx float64) (*Mesh, error) {
	if nx <= 0 {
		return nil, fmt.Errorf("mesh: nx must be > 0, got %d", nx)
	}
	if dx <= 0 {
		return nil, fmt.Errorf("mesh: dx must be > 0, got %g", dx)
	}
	return buildTensor(uniformEdges(nx, dx), []float64{0, 1}, 1), nil
}

// NewGrid2D builds a uniform 2-D mesh of nx by ny cells.
func NewGrid2D(nx, ny int, dx, dy float64) (*Mesh, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("mesh: cell counts must be > 0, got nx=%d ny=%d", nx, ny)
	}
	if dx <= 0 || dy <= 0 {
		return nil, fmt.Errorf("mesh: spacings must be > 0, got dx=%g dy=%g", dx, dy)
	}
	return buildTensor(uniformEdges(nx, dx), uniformEdges(ny, dy), 2), nil
}

func uniformEdges(n int, d float64) []float64 {
	e := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		e[i] = e[i-1] + d
	}
	return e
}
