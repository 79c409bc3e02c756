package pricing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Mode = "freestyle" }},
		{"no materials", func(c *Config) { c.Materials = nil }},
		{"zero density", func(c *Config) { c.Materials[0].DensityGPerCm3 = 0 }},
		{"negative fee", func(c *Config) { c.Materials[0].SmallOrderBaseFee = -1 }},
		{"no quality tiers", func(c *Config) { c.Quality = nil }},
		{"zero speed", func(c *Config) { c.Quality[QualityDraft] = 0 }},
		{"shell fraction above one", func(c *Config) { c.Params.ShellBaseFraction = 1.5 }},
		{"zero calibration", func(c *Config) { c.Params.CalibrationMultiplier = 0 }},
		{"negative taper", func(c *Config) { c.Params.SmallFeeTaper = -10 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestMaterialByName(t *testing.T) {
	cfg := Default()

	m, err := cfg.MaterialByName("petg")
	if err != nil {
		t.Fatalf("MaterialByName failed: %v", err)
	}
	if m.Name != "PETG" {
		t.Errorf("Name = %q, want PETG", m.Name)
	}

	if _, err := cfg.MaterialByName("resin"); !errors.Is(err, ErrUnknownMaterial) {
		t.Errorf("expected ErrUnknownMaterial, got %v", err)
	}
}

func TestSpeedFor(t *testing.T) {
	cfg := Default()

	speed, err := cfg.SpeedFor("FINE")
	if err != nil {
		t.Fatalf("SpeedFor failed: %v", err)
	}
	if speed != 297 {
		t.Errorf("speed = %v, want 297", speed)
	}

	if _, err := cfg.SpeedFor("turbo"); !errors.Is(err, ErrInvalidQualityTier) {
		t.Errorf("expected ErrInvalidQualityTier, got %v", err)
	}
}

const overlayYAML = `currency: EUR
quality_speeds:
  ultra: 150
params:
  waste_grams_per_part: 3.5
  prep_per_part: true
`

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	if err := os.WriteFile(path, []byte(overlayYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", cfg.Currency)
	}
	if cfg.Params.WasteGramsPerPart != 3.5 {
		t.Errorf("WasteGramsPerPart = %v, want 3.5", cfg.Params.WasteGramsPerPart)
	}
	if !cfg.Params.PrepPerPart {
		t.Error("PrepPerPart not overridden")
	}

	// Untouched keys keep their defaults
	if cfg.Params.CalibrationMultiplier != 2.02 {
		t.Errorf("CalibrationMultiplier = %v, want default 2.02", cfg.Params.CalibrationMultiplier)
	}
	if len(cfg.Materials) != 4 {
		t.Errorf("materials = %d, want default catalog of 4", len(cfg.Materials))
	}

	// Quality tiers merge instead of replacing
	if cfg.Quality["ultra"] != 150 {
		t.Errorf("ultra speed = %v, want 150", cfg.Quality["ultra"])
	}
	if cfg.Quality[QualityStandard] != 486 {
		t.Errorf("standard speed = %v, want default 486", cfg.Quality[QualityStandard])
	}
}

func TestLoadFileReplacesMaterialCatalog(t *testing.T) {
	content := `materials:
  - name: WoodFill
    density_g_cm3: 1.15
    cost_per_kg: 4100
    small_order_base_fee: 220
`
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(cfg.Materials) != 1 || cfg.Materials[0].Name != "WoodFill" {
		t.Fatalf("materials = %+v, want only WoodFill", cfg.Materials)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("materials: {not: a list}"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("mode: freestyle"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(invalid); err == nil {
		t.Error("expected validation error for unknown mode")
	}
}
