// internal/writers/csv.go
package writers

import (
	"encoding/csv"
	"io"
	"strconv"

	"fvsim/pkg/api"
)

func init() { RegisterSnapshot("csv", writeSnapshotCSV) }

// writeSnapshotCSV flattens snapshots to one row per cell, all fields in
// one stream. Plot-friendly: filter on the field column.
func writeSnapshotCSV(w io.Writer, snaps []api.SnapshotV1) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"field", "step", "time", "x", "y", "value"}); err != nil {
		return err
	}
	g := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, s := range snaps {
		for i := range s.Values {
			y := ""
			if len(s.Y) > 0 {
				y = g(s.Y[i])
			}
			rec := []string{s.Field, strconv.Itoa(s.Step), g(s.Time), g(s.X[i]), y, g(s.Values[i])}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
