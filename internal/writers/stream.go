// internal/writers/stream.go
package writers

import (
	"encoding/json"
	"io"

	"fvsim/pkg/api"
)

// StartSnapshotWriter spins up a writer goroutine fed through the returned
// channel; the error channel yields once after the input channel is closed.
// jsonl streams line by line, the buffered formats (table, csv) collect and
// write everything on close. A broken pipe downstream is not an error.
func StartSnapshotWriter(out io.Writer, format string, bufSize int) (chan<- api.SnapshotV1, <-chan error) {
	if bufSize <= 0 {
		bufSize = 16
	}
	in := make(chan api.SnapshotV1, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case "jsonl":
			enc := json.NewEncoder(out)
			for s := range in {
				if err != nil {
					continue // drain so producers never block
				}
				if e := enc.Encode(s); e != nil && !IsBrokenPipe(e) {
					err = e
				}
			}
		default:
			var buf []api.SnapshotV1
			for s := range in {
				buf = append(buf, s)
			}
			if e := WriteSnapshots(format, out, buf); e != nil && !IsBrokenPipe(e) {
				err = e
			}
		}
		errCh <- err
	}()

	return in, errCh
}
