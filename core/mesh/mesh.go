// core/mesh/mesh.go
package mesh

// Mesh is a structured finite-volume mesh in one or two dimensions.
// Geometry is face-addressed: every face knows its owner cell and, for
// interior faces, its neighbour cell. Boundary faces have Neigh == -1 and
// an outward-pointing normal.
type Mesh struct {
	NX, NY int // cell counts per axis (NY == 1 for 1-D meshes)
	Dim    int

	NCells int
	NFaces int

	Owner []int // owning cell per face
	Neigh []int // neighbour cell per face, -1 on the boundary

	FaceArea []float64 // face area (unit depth in 2-D, unity in 1-D)
	FaceNX   []float64 // unit normal, owner -> neighbour / outward
	FaceNY   []float64
	FaceCX   []float64 // face centers
	FaceCY   []float64

	CellCX     []float64 // cell centers
	CellCY     []float64
	CellVolume []float64

	// Dist is the center-to-center distance across a face, or the
	// owner-center to face-center distance on the boundary. It is the
	// denominator of every two-point flux.
	Dist []float64

	left, right, bottom, top []int
}

// FacesLeft returns the face indices on the x = min boundary.
func (m *Mesh) FacesLeft() []int { return m.left }

// FacesRight returns the face indices on the x = max boundary.
func (m *Mesh) FacesRight() []int { return m.right }

// FacesBottom returns the face indices on the y = min boundary.
func (m *Mesh) FacesBottom() []int { return m.bottom }

// FacesTop returns the face indices on the y = max boundary.
func (m *Mesh) FacesTop() []int { return m.top }

// FacesExterior returns every boundary face.
func (m *Mesh) FacesExterior() []int {
	out := make([]int, 0, len(m.left)+len(m.right)+len(m.bottom)+len(m.top))
	out = append(out, m.left...)
	out = append(out, m.right...)
	out = append(out, m.bottom...)
	out = append(out, m.top...)
	return out
}

// cellIndex maps structured (i, j) to the flat cell index.
func (m *Mesh) cellIndex(i, j int) int { return j*m.NX + i }

// buildTensor constructs the mesh for the tensor product of the given edge
// coordinates. len(xe) >= 2 and len(ye) >= 2; spacing may be non-uniform.
func buildTensor(xe, ye []float64, dim int) *Mesh {
	nx := len(xe) - 1
	ny := len(ye) - 1

	m := &Mesh{
		NX:     nx,
		NY:     ny,
		Dim:    dim,
		NCells: nx * ny,
	}

	// Cell geometry.
	m.CellCX = make([]float64, m.NCells)
	m.CellCY = make([]float64, m.NCells)
	m.CellVolume = make([]float64, m.NCells)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			c := m.cellIndex(i, j)
			m.CellCX[c] = 0.5 * (xe[i] + xe[i+1])
			m.CellCY[c] = 0.5 * (ye[j] + ye[j+1])
			m.CellVolume[c] = (xe[i+1] - xe[i]) * (ye[j+1] - ye[j])
		}
	}

	addFace := func(owner, neigh int, area, nxc, nyc, cx, cy, dist float64) int {
		f := m.NFaces
		m.Owner = append(m.Owner, owner)
		m.Neigh = append(m.Neigh, neigh)
		m.FaceArea = append(m.FaceArea, area)
		m.FaceNX = append(m.FaceNX, nxc)
		m.FaceNY = append(m.FaceNY, nyc)
		m.FaceCX = append(m.FaceCX, cx)
		m.FaceCY = append(m.FaceCY, cy)
		m.Dist = append(m.Dist, dist)
		m.NFaces++
		return f
	}

	// Faces normal to x.
	for j := 0; j < ny; j++ {
		dy := ye[j+1] - ye[j]
		cy := 0.5 * (ye[j] + ye[j+1])
		for i := 0; i <= nx; i++ {
			switch {
			case i == 0:
				c := m.cellIndex(0, j)
				f := addFace(c, -1, dy, -1, 0, xe[0], cy, m.CellCX[c]-xe[0])
				m.left = append(m.left, f)
			case i == nx:
				c := m.cellIndex(nx-1, j)
				f := addFace(c, -1, dy, 1, 0, xe[nx], cy, xe[nx]-m.CellCX[c])
				m.right = append(m.right, f)
			default:
				o := m.cellIndex(i-1, j)
				n := m.cellIndex(i, j)
				addFace(o, n, dy, 1, 0, xe[i], cy, m.CellCX[n]-m.CellCX[o])
			}
		}
	}

	// Faces normal to y.
	for j := 0; j <= ny; j++ {
		for i := 0; i < nx; i++ {
			dx := xe[i+1] - xe[i]
			cx := 0.5 * (xe[i] + xe[i+1])
			switch {
			case j == 0:
				c := m.cellIndex(i, 0)
				f := addFace(c, -1, dx, 0, -1, cx, ye[0], m.CellCY[c]-ye[0])
				m.bottom = append(m.bottom, f)
			case j == ny:
				c := m.cellIndex(i, ny-1)
				f := addFace(c, -1, dx, 0, 1, cx, ye[ny], ye[ny]-m.CellCY[c])
				m.top = append(m.top, f)
			default:
				o := m.cellIndex(i, j-1)
				n := m.cellIndex(i, j)
				addFace(o, n, dx, 0, 1, cx, ye[j], m.CellCY[n]-m.CellCY[o])
			}
		}
	}

	return m
}
