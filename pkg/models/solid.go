package models

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/taigrr/shatter/pkg/math3d"
)

// MinSolidVertices is the smallest vertex count a closed solid can have.
const MinSolidVertices = 4

// Solid is an immutable closed triangle mesh with its vertex adjacency graph.
// It is the input to fragment generation.
type Solid struct {
	mesh *Mesh
	adj  [][]int
}

// NewSolid wraps a closed mesh. The mesh is copied; later changes to m do not
// affect the solid.
func NewSolid(m *Mesh) *Solid {
	c := m.Clone()
	c.CalculateBounds()
	return &Solid{mesh: c, adj: c.Adjacency()}
}

// VertexCount returns the number of vertices.
func (s *Solid) VertexCount() int { return len(s.mesh.Vertices) }

// FaceCount returns the number of triangles.
func (s *Solid) FaceCount() int { return len(s.mesh.Faces) }

// Position returns the position of vertex i.
func (s *Solid) Position(i int) math3d.Vec3 { return s.mesh.Vertices[i].Position }

// Face returns the vertex indices of face i.
func (s *Solid) Face(i int) [3]int { return s.mesh.Faces[i].V }

// Neighbors returns the vertices sharing an edge with vertex i.
func (s *Solid) Neighbors(i int) []int { return slices.Clone(s.adj[i]) }

// Degree returns the number of neighbors of vertex i.
func (s *Solid) Degree(i int) int { return len(s.adj[i]) }

// Mesh returns a copy of the underlying mesh.
func (s *Solid) Mesh() *Mesh { return s.mesh.Clone() }

// Bounds returns the axis-aligned bounding box.
func (s *Solid) Bounds() (min, max math3d.Vec3) { return s.mesh.GetBounds() }

// NewBoulder builds a rock-like closed solid with exactly n vertices. Points
// are spread over a jittered Fibonacci sphere, hulled and then displaced
// radially by smooth noise scaled by roughness. Panics if n < 4.
func NewBoulder(n int, rng *rand.Rand, roughness float64) *Solid {
	if n < MinSolidVertices {
		panic(fmt.Sprintf("models: boulder needs at least %d vertices, got %d", MinSolidVertices, n))
	}

	dirs := fibonacciSphere(n, rng)
	faces := convexHull(dirs)

	noise := newRadialNoise(rng, 6)
	m := NewMesh("boulder")
	for _, d := range dirs {
		r := 1 + roughness*noise.at(d)
		m.AddVertex(d.Scale(r))
	}
	for _, f := range faces {
		m.AddFace(f[0], f[1], f[2])
	}
	m.CalculateSmoothNormals()

	return NewSolid(m)
}

// fibonacciSphere returns n unit vectors spread evenly over the sphere with a
// small random perturbation so that no four points are coplanar.
func fibonacciSphere(n int, rng *rand.Rand) []math3d.Vec3 {
	golden := math.Pi * (3 - math.Sqrt(5))
	spacing := math.Sqrt(4 * math.Pi / float64(n))
	jitter := 0.25 * spacing

	pts := make([]math3d.Vec3, n)
	for i := range n {
		y := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - y*y)
		phi := float64(i) * golden
		p := math3d.V3(math.Cos(phi)*r, y, math.Sin(phi)*r)
		p = p.Add(math3d.V3(
			(rng.Float64()-0.5)*jitter,
			(rng.Float64()-0.5)*jitter,
			(rng.Float64()-0.5)*jitter,
		))
		pts[i] = p.Normalize()
	}
	return pts
}

// radialNoise is a sum of random plane waves evaluated on the unit sphere.
type radialNoise struct {
	dirs   []math3d.Vec3
	freqs  []float64
	phases []float64
	amps   []float64
}

func newRadialNoise(rng *rand.Rand, octaves int) radialNoise {
	var n radialNoise
	amp, freq := 0.5, 1.5
	for range octaves {
		d := math3d.V3(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()).Normalize()
		if d.LenSq() == 0 {
			d = math3d.Up()
		}
		n.dirs = append(n.dirs, d)
		n.freqs = append(n.freqs, freq)
		n.phases = append(n.phases, rng.Float64()*2*math.Pi)
		n.amps = append(n.amps, amp)
		amp *= 0.55
		freq *= 1.9
	}
	return n
}

func (n radialNoise) at(p math3d.Vec3) float64 {
	var sum float64
	for i, d := range n.dirs {
		sum += n.amps[i] * math.Sin(p.Dot(d)*n.freqs[i]*math.Pi+n.phases[i])
	}
	return sum
}
