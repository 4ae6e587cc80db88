// internal/sim/build_test.go
package sim

import (
	"testing"

	"fvsim/internal/config"
)

func TestBuildPassesOutputFields(t *testing.T) {
	cfg, err := config.Preset("diffusion")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Output.Fields = []string{"phi"}
	_, opt, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(opt.Fields) != 1 || opt.Fields[0] != "phi" {
		t.Errorf("output fields not threaded through: %v", opt.Fields)
	}
}

func TestBuildRejectsUnknownOutputField(t *testing.T) {
	cfg, err := config.Preset("diffusion")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Output.Fields = []string{"velocity"}
	if _, _, err := Build(cfg); err == nil {
		t.Fatalf("expected error for unknown output field")
	}
}

func TestBuildElectrochemFieldNames(t *testing.T) {
	cfg, err := config.Preset("trench")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Output.Fields = []string{"phase", "concentration", "potential"}
	if _, _, err := Build(cfg); err != nil {
		t.Fatalf("electrochem field names should all be accepted: %v", err)
	}
}
