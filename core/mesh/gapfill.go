// core/mesh/gapfill.go
package mesh

import (
	"fmt"
	"math"
)

// GapFillConfig sizes the composite trench mesh. The domain is split into
// three vertical bands: a fine uniform band of CellSize cells around the
// interface, a transition band whose rows grow geometrically, and a coarse
// boundary-layer band whose row height matches the domain width. Only the
// fine band resolves interface motion; the upper bands exist for diffusion
// through the boundary layer.
type GapFillConfig struct {
	CellSize         float64 // cell size in the fine band
	DomainWidth      float64
	DomainHeight     float64 // total desired height
	FineHeight       float64 // desired height of the fine band
	TransitionHeight float64
}

// transitionGrowth is the row-to-row growth ratio inside the transition band.
const transitionGrowth = 1.5

// NewGapFill glues the three bands into a single structured mesh.
func NewGapFill(cfg GapFillConfig) (*Mesh, error) {
	if cfg.CellSize <= 0 || cfg.DomainWidth <= 0 || cfg.DomainHeight <= 0 ||
		cfg.FineHeight <= 0 || cfg.TransitionHeight <= 0 {
		return nil, fmt.Errorf("mesh: gap-fill dimensions must be > 0: %+v", cfg)
	}

	nx := int(cfg.DomainWidth / cfg.CellSize)
	nyFine := int(cfg.FineHeight / cfg.CellSize)
	if nx < 1 || nyFine < 1 {
		return nil, fmt.Errorf("mesh: cell size %g too coarse for fine band %gx%g",
			cfg.CellSize, cfg.DomainWidth, cfg.FineHeight)
	}

	actualWidth := float64(nx) * cfg.CellSize
	actualFine := float64(nyFine) * cfg.CellSize

	boundaryHeight := cfg.DomainHeight - actualFine - cfg.TransitionHeight
	if boundaryHeight <= 0 {
		return nil, fmt.Errorf("mesh: bands exceed domain height %g (fine %g + transition %g)",
			cfg.DomainHeight, actualFine, cfg.TransitionHeight)
	}

	// Fine band edges.
	ye := make([]float64, 0, nyFine+8)
	y := 0.0
	ye = append(ye, y)
	for j := 0; j < nyFine; j++ {
		y += cfg.CellSize
		ye = append(ye, y)
	}

	// Transition band: geometric row heights from CellSize toward the
	// domain width. The last row absorbs the remainder so the band spans
	// exactly TransitionHeight without shrinking any row below its
	// predecessor.
	sizes := []float64{cfg.CellSize * transitionGrowth}
	sum := sizes[0]
	for sum < cfg.TransitionHeight && sizes[len(sizes)-1] < actualWidth {
		next := sizes[len(sizes)-1] * transitionGrowth
		sizes = append(sizes, next)
		sum += next
	}
	for sum < cfg.TransitionHeight {
		// Growth capped at the domain width; pad with width-sized rows and
		// fold any short remainder into the row below it.
		next := math.Min(cfg.TransitionHeight-sum, actualWidth)
		if next < sizes[len(sizes)-1] {
			sizes[len(sizes)-1] += next
		} else {
			sizes = append(sizes, next)
		}
		sum += next
	}
	if excess := sum - cfg.TransitionHeight; excess > 0 {
		last := len(sizes) - 1
		sizes[last] -= excess
		if last > 0 && sizes[last] < sizes[last-1] {
			sizes[last-1] += sizes[last]
			sizes = sizes[:last]
		}
	}
	for _, s := range sizes {
		y += s
		ye = append(ye, y)
	}

	// Boundary layer: rows as tall as the domain is wide.
	nyBoundary := int(boundaryHeight / actualWidth)
	if nyBoundary < 1 {
		nyBoundary = 1
	}
	rowH := boundaryHeight / float64(nyBoundary)
	for j := 0; j < nyBoundary; j++ {
		y += rowH
		ye = append(ye, y)
	}

	xe := uniformEdges(nx, cfg.CellSize)
	return buildTensor(xe, ye, 2), nil
}
