// Package config handles shatter configuration loading and management.
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MaxAmplitude bounds the distance and force parameters.
const MaxAmplitude = 4.0

// Config holds all settings.
type Config struct {
	Scene     SceneConfig     `yaml:"scene"`
	Boulder   BoulderConfig   `yaml:"boulder"`
	Explosion ExplosionConfig `yaml:"explosion"`
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Post      PostConfig      `yaml:"post"`
	Feed      FeedConfig      `yaml:"feed"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SceneConfig holds the live-editable scene parameters.
type SceneConfig struct {
	Distance       float64    `yaml:"distance"`
	Force          float64    `yaml:"force"`
	RotationSpeed  float64    `yaml:"rotation_speed"`
	LightPosition  [3]float64 `yaml:"light_position"`
	LightIntensity float64    `yaml:"light_intensity"`
	Background     string     `yaml:"background"` // #rrggbb

	BoulderFlatShading bool `yaml:"boulder_flat_shading"`
	BoulderWireframe   bool `yaml:"boulder_wireframe"`
	CrystalFlatShading bool `yaml:"crystal_flat_shading"`
	CrystalWireframe   bool `yaml:"crystal_wireframe"`
}

// BoulderConfig controls fragment generation. Zero budgets are drawn at
// random on every generation.
type BoulderConfig struct {
	Vertices  int     `yaml:"vertices"`
	Chunk     int     `yaml:"chunk"`
	Seed      uint64  `yaml:"seed"` // 0 = random
	Roughness float64 `yaml:"roughness"`
	CoreDepth float64 `yaml:"core_depth"`
	Source    string  `yaml:"source"` // optional GLB to fracture instead
}

// ExplosionConfig holds the explosion window settings.
type ExplosionConfig struct {
	Duration   time.Duration `yaml:"duration"`
	Multiplier float64       `yaml:"multiplier"`
}

// GraphicsConfig holds rendering settings.
type GraphicsConfig struct {
	FPS           int     `yaml:"fps"`
	FOV           float64 `yaml:"fov"` // vertical, degrees
	Samples       int     `yaml:"samples"`
	ShadowMapSize int     `yaml:"shadow_map_size"`
	Exposure      float64 `yaml:"exposure"`
	ToneMapping   string  `yaml:"tone_mapping"` // aces or none
}

// PostConfig holds compositor settings.
type PostConfig struct {
	Taps         int     `yaml:"taps"`
	Density      float64 `yaml:"density"`
	Decay        float64 `yaml:"decay"`
	Weight       float64 `yaml:"weight"`
	Exposure     float64 `yaml:"exposure"`
	ZoomStrength float64 `yaml:"zoom_strength"`
}

// FeedConfig selects an external driver feed. With a path set the
// animation runs in focus mode.
type FeedConfig struct {
	Path             string  `yaml:"path"`
	FocusJitterScale float64 `yaml:"focus_jitter_scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Scene: SceneConfig{
			Distance:           0.3,
			Force:              0.5,
			RotationSpeed:      2,
			LightPosition:      [3]float64{30, 52.5, 30},
			LightIntensity:     0.5,
			Background:         "#202224",
			BoulderFlatShading: true,
		},
		Boulder: BoulderConfig{
			Roughness: 0.18,
			CoreDepth: 0.3,
		},
		Explosion: ExplosionConfig{
			Duration:   time.Second,
			Multiplier: 20,
		},
		Graphics: GraphicsConfig{
			FPS:           30,
			FOV:           75,
			Samples:       4,
			ShadowMapSize: 256,
			Exposure:      1,
			ToneMapping:   "aces",
		},
		Post: PostConfig{
			Taps:         32,
			Density:      0.85,
			Decay:        0.95,
			Weight:       0.5,
			Exposure:     0.6,
			ZoomStrength: 0.12,
		},
		Feed: FeedConfig{
			FocusJitterScale: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate clamps out-of-range values and rejects settings that cannot be
// repaired.
func (c *Config) Validate() error {
	if _, err := ParseHexColor(c.Scene.Background); err != nil {
		return fmt.Errorf("scene.background: %w", err)
	}

	c.Scene.Distance = clamp(c.Scene.Distance, 0, MaxAmplitude)
	c.Scene.Force = clamp(c.Scene.Force, 0, MaxAmplitude)
	c.Scene.RotationSpeed = clamp(c.Scene.RotationSpeed, 0, 10)
	c.Scene.LightIntensity = clamp(c.Scene.LightIntensity, 0, 10)

	if c.Boulder.Vertices != 0 {
		c.Boulder.Vertices = max(c.Boulder.Vertices, 4)
	}
	c.Boulder.Chunk = max(c.Boulder.Chunk, 0)
	c.Boulder.Roughness = clamp(c.Boulder.Roughness, 0, 0.5)
	c.Boulder.CoreDepth = clamp(c.Boulder.CoreDepth, 0, 1)

	if c.Explosion.Duration <= 0 {
		c.Explosion.Duration = time.Second
	}
	c.Explosion.Multiplier = max(c.Explosion.Multiplier, 1)

	c.Graphics.FPS = max(1, min(c.Graphics.FPS, 120))
	c.Graphics.FOV = clamp(c.Graphics.FOV, 20, 120)
	c.Graphics.Samples = max(1, min(c.Graphics.Samples, 16))
	if c.Graphics.ShadowMapSize <= 0 {
		c.Graphics.ShadowMapSize = 0 // shadows off
	} else {
		c.Graphics.ShadowMapSize = max(16, min(c.Graphics.ShadowMapSize, 2048))
	}
	if c.Graphics.Exposure <= 0 {
		c.Graphics.Exposure = 1
	}
	switch strings.ToLower(c.Graphics.ToneMapping) {
	case "aces", "none":
		c.Graphics.ToneMapping = strings.ToLower(c.Graphics.ToneMapping)
	default:
		return fmt.Errorf("graphics.tone_mapping: unknown mode %q", c.Graphics.ToneMapping)
	}

	c.Post.Taps = max(1, min(c.Post.Taps, 128))
	c.Post.Density = clamp(c.Post.Density, 0, 1)
	c.Post.Decay = clamp(c.Post.Decay, 0, 1)
	c.Post.Weight = max(c.Post.Weight, 0)
	c.Post.Exposure = max(c.Post.Exposure, 0)
	c.Post.ZoomStrength = clamp(c.Post.ZoomStrength, 0, 1)

	return nil
}

// ParseHexColor parses "#rrggbb" (the # is optional) into 0xRRGGBB.
func ParseHexColor(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(v), nil
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return max(lo, min(v, hi))
}
