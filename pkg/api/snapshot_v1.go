// pkg/api/snapshot_v1.go
package api

// SnapshotV1 is the stable JSON/JSONL schema for field snapshots.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type SnapshotV1 struct {
	Step     int     `json:"step"`
	Time     float64 `json:"time"`
	Field    string  `json:"field"`
	Residual float64 `json:"residual,omitempty"`

	// Cell centers and values, index-aligned. Y is empty on 1-D meshes.
	X      []float64 `json:"x"`
	Y      []float64 `json:"y,omitempty"`
	Values []float64 `json:"values"`
}

// RunResultV1 is the stable schema for one parameter-sweep run.
type RunResultV1 struct {
	ID            string            `json:"id"`
	Overrides     map[string]string `json:"overrides,omitempty"`
	Steps         int               `json:"steps"`
	FinalResidual float64           `json:"final_residual"`
	FinalDt       float64           `json:"final_dt,omitempty"`
	WallMS        int64             `json:"wall_ms"`
	Error         string            `json:"error,omitempty"`
}
