// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"fvsim/pkg/api"
)

func init() {
	RegisterSnapshot("jsonl", writeSnapshotJSONL)
	RegisterResult("jsonl", writeResultJSONL)
}

func writeSnapshotJSONL(w io.Writer, snaps []api.SnapshotV1) error {
	enc := json.NewEncoder(w)
	for _, s := range snaps {
		if err := enc.Encode(s); err != nil {
			return err
		}
	}
	return nil
}

func writeResultJSONL(w io.Writer, results []api.RunResultV1) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
