package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != 7373 {
		t.Errorf("Port = %d, want 7373", cfg.Port)
	}
	if cfg.TickRate <= 0 {
		t.Errorf("TickRate = %d, want positive", cfg.TickRate)
	}
	if cfg.Arena.Width <= 0 || cfg.Arena.Depth <= 0 {
		t.Errorf("arena dimensions %gx%g, want positive", cfg.Arena.Width, cfg.Arena.Depth)
	}
	if cfg.Leash.LeashLength <= cfg.Leash.MaxCaptureDistance {
		t.Errorf("LeashLength %g should exceed MaxCaptureDistance %g",
			cfg.Leash.LeashLength, cfg.Leash.MaxCaptureDistance)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	body := `
port: 9999
name: Test Arena
leash:
  leash_length: 12.5
  variable_pull_strength: true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.Name != "Test Arena" {
		t.Errorf("Name = %q, want %q", cfg.Name, "Test Arena")
	}
	if cfg.Leash.LeashLength != 12.5 {
		t.Errorf("LeashLength = %g, want 12.5", cfg.Leash.LeashLength)
	}
	if !cfg.Leash.VariablePullStrength {
		t.Error("VariablePullStrength should be true")
	}

	// Keys absent from the file keep their defaults.
	def := DefaultConfig()
	if cfg.TickRate != def.TickRate {
		t.Errorf("TickRate = %d, want default %d", cfg.TickRate, def.TickRate)
	}
	if cfg.Leash.MinPullStrength != def.Leash.MinPullStrength {
		t.Errorf("MinPullStrength = %g, want default %g",
			cfg.Leash.MinPullStrength, def.Leash.MinPullStrength)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	// Defaults still come back so callers can fall back.
	if cfg.Port != DefaultConfig().Port {
		t.Errorf("Port = %d, want default", cfg.Port)
	}
}

func TestLeashConfigParamsRoundTrip(t *testing.T) {
	l := LeashConfig{
		MaxCaptureDistance:    2.0,
		LeashLength:           8.0,
		MinPullStrength:       3.0,
		VelocityMultiplier:    1.5,
		VariablePullStrength:  true,
		SnapToAnchor:          true,
		CanPickupWhenAttached: true,
		Scale:                 0.5,
	}
	p := l.Params()

	if p.LeashLength != 8.0 || p.MaxCaptureDistance != 2.0 {
		t.Errorf("distances not carried over: %+v", p)
	}
	if !p.VariablePullStrength || !p.SnapToAnchor || !p.CanPickupWhenAttached {
		t.Errorf("flags not carried over: %+v", p)
	}
	if p.Scale != 0.5 {
		t.Errorf("Scale = %g, want 0.5", p.Scale)
	}
}
