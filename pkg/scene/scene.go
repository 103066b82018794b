// Package scene composes the fractured boulder, the crystal and the light
// rig, and renders them through the silhouette and color passes into the
// compositor.
package scene

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/shatter/internal/logger"
	"github.com/taigrr/shatter/pkg/anim"
	"github.com/taigrr/shatter/pkg/feed"
	"github.com/taigrr/shatter/pkg/fracture"
	"github.com/taigrr/shatter/pkg/math3d"
	"github.com/taigrr/shatter/pkg/models"
	"github.com/taigrr/shatter/pkg/post"
	"github.com/taigrr/shatter/pkg/render"
)

// Params are the live-editable scene parameters.
type Params struct {
	Anim anim.Params

	LightPosition  math3d.Vec3
	LightIntensity float64

	BoulderFlatShading bool
	BoulderWireframe   bool
	CrystalFlatShading bool
	CrystalWireframe   bool

	Post post.Params
}

// DefaultParams returns the stock look.
func DefaultParams() Params {
	return Params{
		Anim:               anim.DefaultParams(),
		LightPosition:      math3d.V3(1, 1.75, 1).Scale(30),
		LightIntensity:     0.5,
		BoulderFlatShading: true,
		Post:               post.DefaultParams(),
	}
}

// Options configure a new Scene.
type Options struct {
	Width, Height int     // output pixels
	FPS           int     // orbit damping rate
	FOV           float64 // vertical field of view in degrees, 0 keeps the default

	Samples       int
	ShadowMapSize int // 0 disables shadows
	ToneMapping   render.ToneMapping
	Exposure      float64
	Background    render.Color

	// Fragment generation. Zero budgets are drawn at random.
	Vertices  int
	Chunk     int
	Seed      uint64 // 0 = random
	Roughness float64
	CoreDepth float64
	Solid     *models.Solid // fractured instead of a generated boulder

	CrystalRadius float64
	CrystalDetail int

	ExplosionDuration   time.Duration
	ExplosionMultiplier float64

	Feed   *feed.Feed        // enables focus mode
	Jitter anim.JitterSource // nil = random
	Params Params
}

// DefaultOptions returns options matching the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:               80,
		Height:              48,
		FPS:                 30,
		Samples:             4,
		ShadowMapSize:       256,
		ToneMapping:         render.ToneMappingACES,
		Exposure:            1,
		Background:          render.Hex(0x202224),
		Roughness:           fracture.DefaultRoughness,
		CoreDepth:           fracture.DefaultCoreDepth,
		CrystalRadius:       0.7,
		CrystalDetail:       3,
		ExplosionDuration:   anim.DefaultExplosionDuration * time.Second,
		ExplosionMultiplier: anim.DefaultExplosionMultiplier,
		Params:              DefaultParams(),
	}
}

// Scene owns everything drawn in a frame.
type Scene struct {
	Params Params

	Camera     *render.Camera
	Orbit      *anim.Orbit
	Targets    *render.TargetManager
	Rasterizer *render.Rasterizer
	Lights     *render.Lights
	Compositor *post.Compositor

	State  *anim.State
	Driver *anim.Driver
	Feed   *feed.Feed

	opts    Options
	rng     *rand.Rand
	set     *fracture.Set
	crystal *models.Mesh

	silhouetteMat *render.Material
	boulderMat    *render.Material
	crystalMat    *render.Material
}

// New builds a scene and generates its first boulder.
func New(opts Options) (*Scene, error) {
	if opts.CrystalDetail < 0 || opts.CrystalRadius <= 0 {
		return nil, fmt.Errorf("invalid crystal: radius %v detail %d", opts.CrystalRadius, opts.CrystalDetail)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	camera := render.NewCamera()
	if opts.FOV > 0 {
		camera.SetFOV(opts.FOV * math.Pi / 180)
	}

	s := &Scene{
		Params:     opts.Params,
		Camera:     camera,
		Orbit:      anim.NewOrbit(max(opts.FPS, 1), camera.Position, math3d.Zero3()),
		Targets:    render.NewTargetManager(opts.Samples),
		Rasterizer: render.NewRasterizer(camera),
		Compositor: post.NewCompositor(opts.Width, opts.Height),
		State:      anim.NewState(),
		Driver:     anim.NewDriver(opts.Jitter),
		Feed:       opts.Feed,
		opts:       opts,
		rng:        rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)),
		crystal:    models.NewIcosphere(opts.CrystalRadius, opts.CrystalDetail),

		silhouetteMat: render.NewBasicMaterial("silhouette", render.Linear{}),
		boulderMat:    render.NewStandardMaterial("boulder", render.Linear{R: 1, G: 1, B: 1}),
		crystalMat:    render.NewStandardMaterial("crystal", render.Linear{R: 1, G: 1, B: 1}),
	}
	s.crystalMat.Emissive = render.Linear{R: 0.6, G: 0.6, B: 0.6}
	s.crystal.CalculateBounds()

	s.Lights = &render.Lights{
		Hemisphere: render.HemisphereLight{
			Sky:       render.HSL(0.6, 1, 0.6),
			Ground:    render.HSL(0.095, 1, 0.75),
			Intensity: 0.2,
		},
		Directional: render.DirectionalLight{Color: render.HSL(0.1, 1, 0.95)},
	}
	if opts.ShadowMapSize > 0 {
		s.Lights.Shadow = render.NewShadowMap(opts.ShadowMapSize, 5)
	}
	s.Rasterizer.Lights = s.Lights
	s.Rasterizer.ToneMapping = opts.ToneMapping
	s.Rasterizer.Exposure = opts.Exposure

	s.State.Explosion.Duration = opts.ExplosionDuration.Seconds()
	s.State.Explosion.ActiveMultiplier = opts.ExplosionMultiplier

	s.Resize(opts.Width, opts.Height)
	s.Regenerate()
	return s, nil
}

// Set returns the current fragment set.
func (s *Scene) Set() *fracture.Set { return s.set }

// Crystal returns the crystal mesh.
func (s *Scene) Crystal() *models.Mesh { return s.crystal }

// Regenerate replaces the fragment set with a freshly fractured boulder.
func (s *Scene) Regenerate() {
	vertices, chunk := s.opts.Vertices, s.opts.Chunk
	if s.opts.Solid != nil {
		vertices = s.opts.Solid.VertexCount()
	}
	if vertices == 0 {
		v, c := fracture.RandomBudgets(s.rng)
		vertices = v
		if chunk == 0 {
			chunk = c
		}
	}
	if chunk == 0 {
		frac := fracture.MinChunkFraction + (fracture.MaxChunkFraction-fracture.MinChunkFraction)*s.rng.Float64()
		chunk = max(1, int(math.Round(float64(vertices)*frac)))
	}

	opts := []fracture.Option{
		fracture.WithRand(s.rng),
		fracture.WithRoughness(s.opts.Roughness),
		fracture.WithCoreDepth(s.opts.CoreDepth),
	}
	if s.opts.Solid != nil {
		s.set = fracture.GenerateFrom(s.opts.Solid, chunk, opts...)
	} else {
		s.set = fracture.Generate(vertices, chunk, opts...)
	}
	s.set.SetMaterial(render.PassSilhouette, s.silhouetteMat)
	s.set.SetMaterial(render.PassShaded, s.boulderMat)

	logger.Info("boulder generated",
		zap.Int("vertices", s.set.Solid().VertexCount()),
		zap.Int("chunk", chunk),
		zap.Int("fragments", s.set.Len()))
}

// Resize updates the camera, both render targets and the compositor to a
// new output size. It must run before the next Render.
func (s *Scene) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	s.Targets.Resize(width, height)
	s.Compositor.SetSize(width, height)
	s.Camera.SetAspectRatio(float64(width) / float64(height))
	s.Rasterizer.InvalidateFrustum()

	logger.Debug("resize", zap.Int("width", width), zap.Int("height", height))
}

// Size returns the output size.
func (s *Scene) Size() (width, height int) { return s.Compositor.Size() }

// Explode opens the explosion window now.
func (s *Scene) Explode() {
	s.State.Explode()
	logger.Debug("explosion triggered", zap.Float64("at", s.State.Elapsed))
}

// RestartFeed rewinds the driver feed to its first record.
func (s *Scene) RestartFeed() {
	if s.Feed != nil {
		s.Feed.Restart()
	}
}

// Update advances animation to the given clock reading.
func (s *Scene) Update(elapsed, delta float64) {
	if s.State.Advance(elapsed, delta) {
		logger.Debug("explosion ended", zap.Float64("at", elapsed))
	}

	p := s.Params.Anim
	if s.Feed != nil {
		p.FocusMode = true
		if s.Feed.Advance(delta) && s.Feed.Done() {
			logger.Info("feed finished", zap.Int("records", s.Feed.Len()))
		}
		s.State.Focus = s.Feed.Focus()
	}
	s.Driver.Step(s.set, s.State, p)

	s.Orbit.Update()
	s.Camera.SetPosition(s.Orbit.Position())
	s.Camera.LookAt(s.Orbit.Target)

	s.applyParams()
}

func (s *Scene) applyParams() {
	s.Lights.Directional.Position = s.Params.LightPosition
	s.Lights.Directional.Intensity = s.Params.LightIntensity
	s.boulderMat.FlatShading = s.Params.BoulderFlatShading
	s.boulderMat.Wireframe = s.Params.BoulderWireframe
	s.crystalMat.FlatShading = s.Params.CrystalFlatShading
	s.crystalMat.Wireframe = s.Params.CrystalWireframe
	s.Compositor.Params = s.Params.Post
}

// Render draws the shadow map, the silhouette and color passes, and
// composites them. The returned framebuffer is owned by the compositor.
func (s *Scene) Render() (*render.Framebuffer, error) {
	s.applyParams()
	s.Rasterizer.InvalidateFrustum()
	group := s.State.GroupTransform()

	if sm := s.Lights.Shadow; sm != nil {
		sm.Begin(s.Lights.Directional.Position)
		for _, f := range s.set.Fragments {
			if f.CastShadow {
				sm.DrawMesh(f.Mesh, group.Mul(f.Transform()))
			}
		}
		sm.DrawMesh(s.crystal, math3d.Identity())
	}

	silhouette, err := s.renderPass(render.TargetSilhouette, render.PassSilhouette, render.ColorTransparent, group)
	if err != nil {
		return nil, err
	}
	color, err := s.renderPass(render.TargetColor, render.PassShaded, s.opts.Background, group)
	if err != nil {
		return nil, err
	}

	return s.Compositor.Render(color, silhouette), nil
}

func (s *Scene) renderPass(name string, pass render.Pass, clear render.Color, group math3d.Mat4) (*render.Texture, error) {
	target, err := s.Targets.Acquire(name)
	if err != nil {
		return nil, fmt.Errorf("%s pass: %w", pass, err)
	}
	target.Clear(clear)
	s.Rasterizer.SetTarget(target)

	for _, f := range s.set.Fragments {
		s.Rasterizer.DrawMesh(f.Mesh, group.Mul(f.Transform()), f.Material(pass), f.ReceiveShadow)
	}
	s.Rasterizer.DrawMesh(s.crystal, math3d.Identity(), s.crystalMat, true)

	return target.Resolve(), nil
}
