package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/taigrr/shatter/internal/config"
	"github.com/taigrr/shatter/internal/logger"
	"github.com/taigrr/shatter/pkg/feed"
	"github.com/taigrr/shatter/pkg/math3d"
	"github.com/taigrr/shatter/pkg/models"
	"github.com/taigrr/shatter/pkg/render"
	"github.com/taigrr/shatter/pkg/scene"
)

// sceneOptions translates the loaded configuration into scene options for a
// width x height pixel output. It loads the optional solid and feed files.
func sceneOptions(cfg *config.Config, width, height int) (scene.Options, error) {
	opts := scene.DefaultOptions()
	opts.Width, opts.Height = width, height
	opts.FPS = cfg.Graphics.FPS
	opts.FOV = cfg.Graphics.FOV
	opts.Samples = cfg.Graphics.Samples
	opts.ShadowMapSize = cfg.Graphics.ShadowMapSize
	opts.Exposure = cfg.Graphics.Exposure

	switch cfg.Graphics.ToneMapping {
	case "none":
		opts.ToneMapping = render.ToneMappingNone
	default:
		opts.ToneMapping = render.ToneMappingACES
	}

	bg, err := config.ParseHexColor(cfg.Scene.Background)
	if err != nil {
		return opts, fmt.Errorf("background: %w", err)
	}
	opts.Background = render.Hex(bg)

	opts.Vertices = cfg.Boulder.Vertices
	opts.Chunk = cfg.Boulder.Chunk
	opts.Seed = cfg.Boulder.Seed
	opts.Roughness = cfg.Boulder.Roughness
	opts.CoreDepth = cfg.Boulder.CoreDepth

	opts.ExplosionDuration = cfg.Explosion.Duration
	opts.ExplosionMultiplier = cfg.Explosion.Multiplier

	p := scene.DefaultParams()
	p.Anim.Distance = cfg.Scene.Distance
	p.Anim.Force = cfg.Scene.Force
	p.Anim.RotationSpeed = cfg.Scene.RotationSpeed
	p.Anim.FocusJitterScale = cfg.Feed.FocusJitterScale
	lp := cfg.Scene.LightPosition
	p.LightPosition = math3d.V3(lp[0], lp[1], lp[2])
	p.LightIntensity = cfg.Scene.LightIntensity
	p.BoulderFlatShading = cfg.Scene.BoulderFlatShading
	p.BoulderWireframe = cfg.Scene.BoulderWireframe
	p.CrystalFlatShading = cfg.Scene.CrystalFlatShading
	p.CrystalWireframe = cfg.Scene.CrystalWireframe

	p.Post.Taps = cfg.Post.Taps
	p.Post.Density = float32(cfg.Post.Density)
	p.Post.Decay = float32(cfg.Post.Decay)
	p.Post.Weight = float32(cfg.Post.Weight)
	p.Post.Exposure = float32(cfg.Post.Exposure)
	p.Post.ZoomStrength = float32(cfg.Post.ZoomStrength)
	opts.Params = p

	if cfg.Boulder.Source != "" {
		solid, err := models.LoadSolid(cfg.Boulder.Source)
		if err != nil {
			return opts, fmt.Errorf("load solid: %w", err)
		}
		logger.Info("solid loaded",
			zap.String("path", cfg.Boulder.Source),
			zap.Int("vertices", solid.VertexCount()))
		opts.Solid = solid
	}

	if cfg.Feed.Path != "" {
		f, err := feed.Load(cfg.Feed.Path)
		if err != nil {
			return opts, fmt.Errorf("load feed: %w", err)
		}
		logger.Info("feed loaded",
			zap.String("path", cfg.Feed.Path),
			zap.Int("records", f.Len()),
			zap.Float64("rate", f.Rate))
		opts.Feed = f
	}

	return opts, nil
}
