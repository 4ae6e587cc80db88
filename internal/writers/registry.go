// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"fvsim/pkg/api"
)

// Writer registries (format -> handler), populated from init() in the
// per-format files.
var (
	snapshotWriters = map[string]func(io.Writer, []api.SnapshotV1) error{}
	resultWriters   = map[string]func(io.Writer, []api.RunResultV1) error{}
)

// RegisterSnapshot installs a snapshot writer (last registration wins).
func RegisterSnapshot(format string, fn func(io.Writer, []api.SnapshotV1) error) {
	snapshotWriters[format] = fn
}

// RegisterResult installs a sweep-result writer.
func RegisterResult(format string, fn func(io.Writer, []api.RunResultV1) error) {
	resultWriters[format] = fn
}

// WriteSnapshots dispatches by format name.
func WriteSnapshots(format string, w io.Writer, snaps []api.SnapshotV1) error {
	fn, ok := snapshotWriters[format]
	if !ok {
		return fmt.Errorf("writers: unknown snapshot format %q (have %v)", format, SnapshotFormats())
	}
	return fn(w, snaps)
}

// WriteResults dispatches by format name.
func WriteResults(format string, w io.Writer, results []api.RunResultV1) error {
	fn, ok := resultWriters[format]
	if !ok {
		return fmt.Errorf("writers: unknown result format %q", format)
	}
	return fn(w, results)
}

// SnapshotFormats lists registered snapshot formats, sorted.
func SnapshotFormats() []string {
	out := make([]string, 0, len(snapshotWriters))
	for k := range snapshotWriters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
