// core/sparse/builder.go
package sparse

import "sort"

// Builder accumulates matrix entries in coordinate form. Duplicate (i, j)
// entries are summed when Build compresses to CSR, so assembly code can
// add face contributions without tracking prior entries.
type Builder struct {
	n    int
	rows []int
	cols []int
	vals []float64
}

// NewBuilder creates a builder for an n x n matrix.
func NewBuilder(n int) *Builder {
	return &Builder{n: n}
}

// Add accumulates v at (i, j).
func (b *Builder) Add(i, j int, v float64) {
	b.rows = append(b.rows, i)
	b.cols = append(b.cols, j)
	b.vals = append(b.vals, v)
}

// AddToDiag accumulates v at (i, i).
func (b *Builder) AddToDiag(i int, v float64) { b.Add(i, i, v) }

// N returns the matrix dimension.
func (b *Builder) N() int { return b.n }

// Build sorts entries row-major, merges duplicates, and returns the CSR form.
func (b *Builder) Build() *CSR {
	order := make([]int, len(b.vals))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(x, y int) bool {
		a, c := order[x], order[y]
		if b.rows[a] != b.rows[c] {
			return b.rows[a] < b.rows[c]
		}
		return b.cols[a] < b.cols[c]
	})

	m := &CSR{
		N:      b.n,
		RowPtr: make([]int, b.n+1),
	}
	prevRow, prevCol := -1, -1
	for _, k := range order {
		r, c, v := b.rows[k], b.cols[k], b.vals[k]
		if r == prevRow && c == prevCol {
			m.Val[len(m.Val)-1] += v
			continue
		}
		m.Col = append(m.Col, c)
		m.Val = append(m.Val, v)
		m.RowPtr[r+1]++
		prevRow, prevCol = r, c
	}
	for i := 0; i < b.n; i++ {
		m.RowPtr[i+1] += m.RowPtr[i]
	}
	return m
}
