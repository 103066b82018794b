package fracture

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/taigrr/shatter/pkg/models"
)

// Budget ranges used by RandomBudgets.
const (
	MinVertexBudget = 100
	MaxVertexBudget = 500

	MinChunkFraction = 0.25
	MaxChunkFraction = 0.5
)

// DefaultCoreDepth places each fragment's inner apex at 30% of the way from
// the solid's center to the fragment centroid.
const DefaultCoreDepth = 0.3

// DefaultRoughness is the radial noise amplitude of generated boulders.
const DefaultRoughness = 0.18

type options struct {
	rng       *rand.Rand
	roughness float64
	coreDepth float64
}

// Option configures generation.
type Option func(*options)

// WithRand sets the random source used for the boulder shape and seeding.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithSeed makes generation deterministic.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithRoughness sets the radial noise amplitude of the generated boulder.
func WithRoughness(r float64) Option {
	return func(o *options) { o.roughness = r }
}

// WithCoreDepth sets where the inner apex of each fragment sits, as a
// fraction of its centroid. 0 puts every apex at the solid's center.
func WithCoreDepth(d float64) Option {
	return func(o *options) { o.coreDepth = d }
}

func newOptions(opts []Option) options {
	o := options{
		roughness: DefaultRoughness,
		coreDepth: DefaultCoreDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	o.coreDepth = max(0, min(o.coreDepth, 1))
	return o
}

// RandomBudgets draws a vertex budget in [100, 500] and a chunk size between
// a quarter and a half of it.
func RandomBudgets(rng *rand.Rand) (vertices, chunk int) {
	vertices = MinVertexBudget + rng.IntN(MaxVertexBudget-MinVertexBudget+1)
	frac := MinChunkFraction + (MaxChunkFraction-MinChunkFraction)*rng.Float64()
	chunk = int(math.Round(float64(vertices) * frac))
	return vertices, chunk
}

// FragmentCount returns how many fragments a solid with n vertices is split
// into for the given chunk size.
func FragmentCount(n, chunk int) int {
	chunk = max(chunk, 1)
	k := int(math.Round(float64(n) / float64(chunk)))
	return max(1, min(k, n))
}

// Generate builds a boulder with exactly totalVertexBudget vertices and
// splits it into fragments of about verticesPerChunkBudget vertices each.
// It panics if totalVertexBudget is below 4.
func Generate(totalVertexBudget, verticesPerChunkBudget int, opts ...Option) *Set {
	if totalVertexBudget < models.MinSolidVertices {
		panic(fmt.Sprintf("fracture: vertex budget %d below %d", totalVertexBudget, models.MinSolidVertices))
	}
	o := newOptions(opts)
	solid := models.NewBoulder(totalVertexBudget, o.rng, o.roughness)
	return generate(solid, verticesPerChunkBudget, o)
}

// GenerateFrom splits an existing solid. Chunk sizes below 1 are treated as
// 1 and sizes at or above the vertex count yield a single fragment.
func GenerateFrom(solid *models.Solid, verticesPerChunkBudget int, opts ...Option) *Set {
	if solid == nil || solid.VertexCount() < models.MinSolidVertices {
		panic("fracture: solid needs at least 4 vertices")
	}
	return generate(solid, verticesPerChunkBudget, newOptions(opts))
}

func generate(solid *models.Solid, chunk int, o options) *Set {
	k := FragmentCount(solid.VertexCount(), chunk)

	p := newPartition(solid, k, o.rng)
	p.grow()
	p.absorbLeftovers()

	set := &Set{solid: solid}
	for r, faces := range p.assignFaces() {
		f := p.buildFragment(r, faces, o.coreDepth)
		if len(f.Owned) == 0 || f.Mesh.VertexCount() == 0 {
			panic(fmt.Sprintf("fracture: fragment %d is empty", r))
		}
		set.Fragments = append(set.Fragments, f)
	}
	if len(set.Fragments) == 0 {
		panic("fracture: generation produced no fragments")
	}
	return set
}
