// core/sparse/csr.go
package sparse

import "fmt"

// CSR is a compressed sparse row matrix. Row i spans
// Col[RowPtr[i]:RowPtr[i+1]] / Val[RowPtr[i]:RowPtr[i+1]], columns ascending.
type CSR struct {
	N      int
	RowPtr []int
	Col    []int
	Val    []float64
}

// MulVec computes dst = A x.
func (m *CSR) MulVec(dst, x []float64) error {
	if len(dst) != m.N || len(x) != m.N {
		return fmt.Errorf("sparse: MulVec size mismatch: n=%d len(dst)=%d len(x)=%d", m.N, len(dst), len(x))
	}
	for i := 0; i < m.N; i++ {
		s := 0.0
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			s += m.Val[k] * x[m.Col[k]]
		}
		dst[i] = s
	}
	return nil
}

// Diag extracts the diagonal; absent diagonal entries are zero.
func (m *CSR) Diag() []float64 {
	d := make([]float64, m.N)
	for i := 0; i < m.N; i++ {
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			if m.Col[k] == i {
				d[i] = m.Val[k]
				break
			}
		}
	}
	return d
}

// NNZ returns the stored entry count.
func (m *CSR) NNZ() int { return len(m.Val) }
