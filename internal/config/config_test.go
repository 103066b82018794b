package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Scene.Distance != 0.3 {
		t.Errorf("expected distance 0.3, got %v", cfg.Scene.Distance)
	}
	if cfg.Scene.RotationSpeed != 2 {
		t.Errorf("expected rotation speed 2, got %v", cfg.Scene.RotationSpeed)
	}
	if cfg.Scene.LightPosition != [3]float64{30, 52.5, 30} {
		t.Errorf("unexpected light position %v", cfg.Scene.LightPosition)
	}
	if !cfg.Scene.BoulderFlatShading {
		t.Error("expected boulder flat shading by default")
	}
	if cfg.Explosion.Duration != time.Second || cfg.Explosion.Multiplier != 20 {
		t.Errorf("unexpected explosion defaults %+v", cfg.Explosion)
	}
	if cfg.Graphics.Samples != 4 {
		t.Errorf("expected 4 samples, got %d", cfg.Graphics.Samples)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.LogFile != "" {
		t.Errorf("unexpected logging defaults %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "shatter.yaml")

	yamlContent := `
scene:
  distance: 0.5
  rotation_speed: 3.5
  light_position: [1, 2, 3]
  background: "#102030"
  crystal_wireframe: true

boulder:
  vertices: 240
  chunk: 80
  seed: 7

explosion:
  duration: 1500ms
  multiplier: 12

graphics:
  samples: 9
  tone_mapping: none

feed:
  path: feed.yaml

logging:
  level: debug
  log_file: shatter.log
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Scene.Distance != 0.5 || cfg.Scene.RotationSpeed != 3.5 {
		t.Errorf("scene = %+v", cfg.Scene)
	}
	if cfg.Scene.LightPosition != [3]float64{1, 2, 3} {
		t.Errorf("light position = %v", cfg.Scene.LightPosition)
	}
	if !cfg.Scene.CrystalWireframe || !cfg.Scene.BoulderFlatShading {
		t.Error("expected file to set crystal wireframe and keep boulder flat shading")
	}
	if cfg.Boulder.Vertices != 240 || cfg.Boulder.Chunk != 80 || cfg.Boulder.Seed != 7 {
		t.Errorf("boulder = %+v", cfg.Boulder)
	}
	if cfg.Explosion.Duration != 1500*time.Millisecond || cfg.Explosion.Multiplier != 12 {
		t.Errorf("explosion = %+v", cfg.Explosion)
	}
	if cfg.Graphics.Samples != 9 || cfg.Graphics.ToneMapping != "none" {
		t.Errorf("graphics = %+v", cfg.Graphics)
	}
	// Unset values keep their defaults
	if cfg.Graphics.FPS != 30 || cfg.Post.Taps != 32 {
		t.Errorf("defaults lost: fps=%d taps=%d", cfg.Graphics.FPS, cfg.Post.Taps)
	}
	if cfg.Feed.Path != "feed.yaml" || cfg.Logging.Level != "debug" {
		t.Errorf("feed=%+v logging=%+v", cfg.Feed, cfg.Logging)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		check   func(*Config) bool
		wantErr bool
	}{
		{
			name:   "clamps distance",
			mutate: func(c *Config) { c.Scene.Distance = 5 },
			check:  func(c *Config) bool { return c.Scene.Distance == MaxAmplitude },
		},
		{
			name:   "keeps wide distance",
			mutate: func(c *Config) { c.Scene.Distance = 3.5 },
			check:  func(c *Config) bool { return c.Scene.Distance == 3.5 },
		},
		{
			name:   "clamps force",
			mutate: func(c *Config) { c.Scene.Force = -1 },
			check:  func(c *Config) bool { return c.Scene.Force == 0 },
		},
		{
			name:   "raises tiny vertex budget",
			mutate: func(c *Config) { c.Boulder.Vertices = 2 },
			check:  func(c *Config) bool { return c.Boulder.Vertices == 4 },
		},
		{
			name:   "keeps random vertex budget",
			mutate: func(c *Config) { c.Boulder.Vertices = 0 },
			check:  func(c *Config) bool { return c.Boulder.Vertices == 0 },
		},
		{
			name:   "fixes zero duration",
			mutate: func(c *Config) { c.Explosion.Duration = 0 },
			check:  func(c *Config) bool { return c.Explosion.Duration == time.Second },
		},
		{
			name:   "clamps samples",
			mutate: func(c *Config) { c.Graphics.Samples = 0 },
			check:  func(c *Config) bool { return c.Graphics.Samples == 1 },
		},
		{
			name:   "zero shadow map disables shadows",
			mutate: func(c *Config) { c.Graphics.ShadowMapSize = 0 },
			check:  func(c *Config) bool { return c.Graphics.ShadowMapSize == 0 },
		},
		{
			name:   "clamps small shadow map",
			mutate: func(c *Config) { c.Graphics.ShadowMapSize = 4 },
			check:  func(c *Config) bool { return c.Graphics.ShadowMapSize == 16 },
		},
		{
			name:   "clamps fov",
			mutate: func(c *Config) { c.Graphics.FOV = 179 },
			check:  func(c *Config) bool { return c.Graphics.FOV == 120 },
		},
		{
			name:   "normalizes tone mapping case",
			mutate: func(c *Config) { c.Graphics.ToneMapping = "ACES" },
			check:  func(c *Config) bool { return c.Graphics.ToneMapping == "aces" },
		},
		{
			name:    "rejects unknown tone mapping",
			mutate:  func(c *Config) { c.Graphics.ToneMapping = "reinhard" },
			wantErr: true,
		},
		{
			name:    "rejects bad background",
			mutate:  func(c *Config) { c.Scene.Background = "grey" },
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.check != nil && !tc.check(cfg) {
				t.Errorf("unexpected config after Validate: %+v", cfg)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"#202224", 0x202224, false},
		{"ffffff", 0xffffff, false},
		{" #000000 ", 0, false},
		{"#fff", 0, true},
		{"#zzzzzz", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseHexColor(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseHexColor(%q) = %#x, %v", tc.in, got, err)
		}
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shatter.yaml")

	cfg := Default()
	cfg.Boulder.Seed = 99
	cfg.Explosion.Duration = 2 * time.Second
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Boulder.Seed != 99 || loaded.Explosion.Duration != 2*time.Second {
		t.Errorf("round trip lost values: %+v %+v", loaded.Boulder, loaded.Explosion)
	}
}

func TestApplyFlags(t *testing.T) {
	for name, value := range map[string]string{
		"vertices": "321",
		"samples":  "16",
		"feed":     "drive.yaml",
		"debug":    "true",
	} {
		if err := flag.Set(name, value); err != nil {
			t.Fatalf("flag.Set(%s): %v", name, err)
		}
	}
	t.Cleanup(func() {
		for _, name := range []string{"vertices", "samples"} {
			_ = flag.Set(name, "0")
		}
		_ = flag.Set("feed", "")
		_ = flag.Set("debug", "false")
	})

	cfg := Default()
	applyFlags(cfg)
	if cfg.Boulder.Vertices != 321 || cfg.Graphics.Samples != 16 {
		t.Errorf("flags not applied: %+v %+v", cfg.Boulder, cfg.Graphics)
	}
	if cfg.Feed.Path != "drive.yaml" || cfg.Logging.Level != "debug" {
		t.Errorf("flags not applied: %+v %+v", cfg.Feed, cfg.Logging)
	}
}
