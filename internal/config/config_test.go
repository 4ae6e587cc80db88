// internal/config/config_test.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const goodYAML = `
name: decay
model: convection
mesh:
  kind: grid1d
  nx: 100
  dx: 0.1
physics:
  alpha: 2
  scheme: upwind
time:
  steps: 1
solver:
  backend: gs
output:
  format: table
`

func TestLoadOK(t *testing.T) {
	c, err := Load(writeTemp(t, goodYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Model != ModelConvection || c.Mesh.NX != 100 || c.Physics.Alpha != 2 {
		t.Errorf("bad decode %+v", c)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	bad := strings.Replace(goodYAML, "alpha: 2", "alhpa: 2", 1)
	if _, err := Load(writeTemp(t, bad)); err == nil {
		t.Fatalf("expected strict decode to reject typo key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		c, err := Preset("trench")
		if err != nil {
			t.Fatal(err)
		}
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"preset valid", func(c *Config) {}, true},
		{"unknown model", func(c *Config) { c.Model = "magnetics" }, false},
		{"unknown mesh", func(c *Config) { c.Mesh.Kind = "octree" }, false},
		{"zero dt transient", func(c *Config) { c.Time.Dt = 0 }, false},
		{"maxDt below dt", func(c *Config) { c.Time.MaxDt = c.Time.Dt / 2 }, false},
		{"negative every", func(c *Config) { c.Output.Every = -1 }, false},
		{"gapfill zero band", func(c *Config) { c.Mesh.FineHeight = 0 }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(&c)
			err := c.Validate()
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Errorf("expected validation failure")
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	c, err := Preset("trench")
	if err != nil {
		t.Fatal(err)
	}
	err = c.Apply(map[string]string{
		"solver.backend":            "cg",
		"time.dt":                   "5e-4",
		"time.steps":                "7",
		"physics.appliedPotential":  "-0.3",
		"physics.bulkConcentration": "2",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if c.Solver.Backend != "cg" || c.Time.Dt != 5e-4 || c.Time.Steps != 7 {
		t.Errorf("overrides not applied %+v", c)
	}
	if c.Physics.AppliedPotential != -0.3 || c.Physics.BulkConcentration != 2 {
		t.Errorf("physics overrides not applied %+v", c.Physics)
	}
}

func TestApplyUnknownKey(t *testing.T) {
	c, _ := Preset("trench")
	err := c.Apply(map[string]string{"physics.gravity": "9.8"})
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("want ErrUnknownKey, got %v", err)
	}
}

func TestApplyBadValue(t *testing.T) {
	c, _ := Preset("trench")
	if err := c.Apply(map[string]string{"time.dt": "fast"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestApplyRevalidates(t *testing.T) {
	c, _ := Preset("trench")
	// Valid syntax, invalid result: dt above maxDt.
	if err := c.Apply(map[string]string{"time.dt": "1"}); err == nil {
		t.Fatalf("expected validation failure after override")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range []string{"trench", "diffusion", "convection"} {
		c, err := Preset(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestPresetUnknown(t *testing.T) {
	if _, err := Preset("vortex"); err == nil {
		t.Fatalf("expected error for unknown preset")
	}
}
