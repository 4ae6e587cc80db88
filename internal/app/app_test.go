// internal/app/app_test.go
package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fvsim/pkg/api"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := Run(args, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func TestRunDiffusionPresetJSONL(t *testing.T) {
	code, out, errOut := run(t, "--preset", "diffusion", "--output", "jsonl", "--quiet")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}

	var snaps []api.SnapshotV1
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var s api.SnapshotV1
		if err := dec.Decode(&s); err != nil {
			t.Fatalf("stdout is not jsonl: %v\n%s", err, out)
		}
		snaps = append(snaps, s)
	}
	if len(snaps) != 1 {
		t.Fatalf("want 1 final snapshot, got %d", len(snaps))
	}
	s := snaps[0]
	if s.Field != "phi" || len(s.Values) != len(s.X) || len(s.Values) == 0 {
		t.Errorf("bad snapshot %+v", s)
	}
	// Steady diffusion with pinned ends: values track the cell height.
	for i := range s.Values {
		if diff := s.Values[i] - s.Y[i]; diff > 0.2 || diff < -0.2 {
			t.Fatalf("cell %d: value %g far from linear profile %g", i, s.Values[i], s.Y[i])
		}
	}
}

func TestRunConvectionPresetCSV(t *testing.T) {
	code, out, errOut := run(t, "--preset", "convection", "--output", "csv", "--quiet")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "field,step,time,x,y,value" {
		t.Errorf("bad csv header %q", lines[0])
	}
	if len(lines) != 5001 { // header + one row per cell
		t.Errorf("want 5001 lines, got %d", len(lines))
	}
}

func TestRunStepsOverride(t *testing.T) {
	code, out, errOut := run(t,
		"--preset", "trench", "--output", "jsonl", "--quiet",
		"--steps", "2", "--every", "1",
	)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	// 3 fields, snapshots after step 1 and the final step.
	if n := strings.Count(out, "\n"); n != 6 {
		t.Errorf("want 6 jsonl lines, got %d", n)
	}
}

func TestConfigFileOutputFormatWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	body := `
name: decay
model: diffusion
mesh: {kind: grid1d, nx: 20, dx: 0.05}
time: {steps: 1}
solver: {backend: lu}
output:
  format: jsonl
  fields: [phi]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	// No --output flag: the file's format must take effect.
	code, out, errOut := run(t, "--config", path, "--quiet")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	var s api.SnapshotV1
	if err := json.Unmarshal([]byte(strings.SplitN(out, "\n", 2)[0]), &s); err != nil {
		t.Fatalf("stdout should be jsonl per the config file: %v\n%s", err, out)
	}
	if s.Field != "phi" || len(s.Values) != 20 {
		t.Errorf("bad snapshot %+v", s)
	}
}

func TestVersionFlag(t *testing.T) {
	code, out, _ := run(t, "--version")
	if code != 0 || !strings.Contains(out, "fvsim version") {
		t.Errorf("exit %d, out %q", code, out)
	}
}

func TestHelpExitsZero(t *testing.T) {
	code, out, _ := run(t, "-h")
	if code != 0 || !strings.Contains(out, "Usage of fvsim") {
		t.Errorf("exit %d, out %q", code, out)
	}
}

func TestBadFlagExitsUsage(t *testing.T) {
	code, _, errOut := run(t, "--bogus")
	if code != 2 {
		t.Errorf("exit %d, want 2 (stderr: %s)", code, errOut)
	}
}

func TestUnknownPresetExitsConfig(t *testing.T) {
	code, _, errOut := run(t, "--preset", "vortex")
	if code != 2 || !strings.Contains(errOut, "vortex") {
		t.Errorf("exit %d, stderr %q", code, errOut)
	}
}

func TestConflictingProblemSelection(t *testing.T) {
	code, _, _ := run(t, "--preset", "trench", "--config", "sim.yaml")
	if code != 2 {
		t.Errorf("exit %d, want 2", code)
	}
}
