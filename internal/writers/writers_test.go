// internal/writers/writers_test.go
package writers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"syscall"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fvsim/pkg/api"
)

func sampleSnapshots() []api.SnapshotV1 {
	return []api.SnapshotV1{
		{
			Step: 1, Time: 0.5, Field: "phi", Residual: 1e-9,
			X: []float64{0.05, 0.15}, Values: []float64{1, 0.5},
		},
		{
			Step: 1, Time: 0.5, Field: "psi", Residual: 2e-9,
			X: []float64{0.05, 0.15}, Y: []float64{0.1, 0.1}, Values: []float64{-0.25, 0},
		},
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := sampleSnapshots()
	if err := WriteSnapshots("jsonl", &buf, want); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got []api.SnapshotV1
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var s api.SnapshotV1
		if err := dec.Decode(&s); err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = append(got, s)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTableSnapshot(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshots("table", &buf, sampleSnapshots()); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# field=phi step=1 time=0.5 residual=1e-09",
		"# field=psi step=1 time=0.5 residual=2e-09",
		"value",
		"0.05",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	// The 2-D block carries a y column, the 1-D block does not.
	if strings.Count(out, "y") < 1 {
		t.Errorf("2-D header missing y column:\n%s", out)
	}
}

func TestCSVSnapshot(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshots("csv", &buf, sampleSnapshots()); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "field,step,time,x,y,value" {
		t.Errorf("bad header %q", lines[0])
	}
	if len(lines) != 5 { // header + 2 cells per snapshot
		t.Errorf("want 5 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[1] != "phi,1,0.5,0.05,,1" {
		t.Errorf("bad 1-D row %q", lines[1])
	}
}

func TestUnknownFormat(t *testing.T) {
	if err := WriteSnapshots("xml", io.Discard, nil); err == nil {
		t.Fatalf("expected error for unknown snapshot format")
	}
	if err := WriteResults("csv", io.Discard, nil); err == nil {
		t.Fatalf("csv has no result writer, expected error")
	}
}

func TestSnapshotFormatsSorted(t *testing.T) {
	got := SnapshotFormats()
	want := []string{"csv", "jsonl", "table"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("formats (-want +got):\n%s", diff)
	}
}

func TestResultTable(t *testing.T) {
	var buf bytes.Buffer
	results := []api.RunResultV1{
		{ID: "solver.backend=cg", Steps: 10, FinalResidual: 1e-5, FinalDt: 1e-3, WallMS: 12},
		{ID: "solver.backend=lu", Error: "boom"},
	}
	if err := WriteResults("table", &buf, results); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "solver.backend=cg") || !strings.Contains(out, "boom") {
		t.Errorf("result table incomplete:\n%s", out)
	}
}

func TestStartSnapshotWriterStreams(t *testing.T) {
	var buf bytes.Buffer
	in, errCh := StartSnapshotWriter(&buf, "jsonl", 4)
	for _, s := range sampleSnapshots() {
		in <- s
	}
	close(in)
	if err := <-errCh; err != nil {
		t.Fatalf("writer: %v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Errorf("want 2 jsonl lines, got %d", n)
	}
}

func TestStartSnapshotWriterBuffered(t *testing.T) {
	var buf bytes.Buffer
	in, errCh := StartSnapshotWriter(&buf, "table", 0)
	in <- sampleSnapshots()[0]
	close(in)
	if err := <-errCh; err != nil {
		t.Fatalf("writer: %v", err)
	}
	if !strings.Contains(buf.String(), "# field=phi") {
		t.Errorf("buffered table output missing header:\n%s", buf.String())
	}
}

type failWriter struct{ err error }

func (f failWriter) Write([]byte) (int, error) { return 0, f.err }

func TestStartSnapshotWriterDrainsAfterError(t *testing.T) {
	in, errCh := StartSnapshotWriter(failWriter{err: errors.New("disk full")}, "jsonl", 1)
	// Producers must not block once the sink is broken.
	for i := 0; i < 64; i++ {
		in <- sampleSnapshots()[0]
	}
	close(in)
	if err := <-errCh; err == nil {
		t.Fatalf("expected write error to surface")
	}
}

func TestIsBrokenPipe(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{syscall.EPIPE, true},
		{io.ErrClosedPipe, true},
		{errors.New("disk full"), false},
	}
	for _, tc := range tests {
		if got := IsBrokenPipe(tc.err); got != tc.want {
			t.Errorf("IsBrokenPipe(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestBrokenPipeNotAnError(t *testing.T) {
	in, errCh := StartSnapshotWriter(failWriter{err: syscall.EPIPE}, "jsonl", 1)
	in <- sampleSnapshots()[0]
	close(in)
	if err := <-errCh; err != nil {
		t.Fatalf("broken pipe should be swallowed, got %v", err)
	}
}
