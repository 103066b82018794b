package fracture

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/taigrr/shatter/pkg/math3d"
	"github.com/taigrr/shatter/pkg/models"
)

const unowned = -1

// partition assigns every vertex of a solid to one of k regions.
type partition struct {
	solid *models.Solid
	k     int

	owner  []int   // region per vertex, unowned until claimed
	counts []int   // vertices per region
	quota  []int   // target size per region
	queues [][]int // BFS frontier per region
}

func newPartition(solid *models.Solid, k int, rng *rand.Rand) *partition {
	n := solid.VertexCount()
	p := &partition{
		solid:  solid,
		k:      k,
		owner:  make([]int, n),
		counts: make([]int, k),
		quota:  make([]int, k),
		queues: make([][]int, k),
	}
	for i := range p.owner {
		p.owner[i] = unowned
	}

	for r := range k {
		p.quota[r] = n / k
		if r < n%k {
			p.quota[r]++
		}
	}

	for r, seed := range farthestPoints(solid, k, rng) {
		p.claim(seed, r)
	}
	return p
}

// farthestPoints picks k distinct vertices spread over the solid: a random
// first vertex, then repeatedly the vertex farthest from all picks so far.
func farthestPoints(solid *models.Solid, k int, rng *rand.Rand) []int {
	n := solid.VertexCount()
	seeds := make([]int, 0, k)
	picked := make([]bool, n)
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}

	next := rng.IntN(n)
	for len(seeds) < k {
		seeds = append(seeds, next)
		picked[next] = true

		sp := solid.Position(next)
		best, bestDist := -1, -1.0
		for i := range n {
			if picked[i] {
				continue
			}
			if d := solid.Position(i).Sub(sp).LenSq(); d < dist[i] {
				dist[i] = d
			}
			if dist[i] > bestDist {
				best, bestDist = i, dist[i]
			}
		}
		if best < 0 {
			break
		}
		next = best
	}
	return seeds
}

func (p *partition) claim(v, r int) {
	p.owner[v] = r
	p.counts[r]++
	for _, nb := range p.solid.Neighbors(v) {
		if p.owner[nb] == unowned {
			p.queues[r] = append(p.queues[r], nb)
		}
	}
}

// grow expands regions breadth-first in round-robin order, one vertex per
// region per turn, until every region is full or boxed in.
func (p *partition) grow() {
	for {
		progress := false
		for r := range p.k {
			if p.counts[r] >= p.quota[r] {
				continue
			}
			for len(p.queues[r]) > 0 {
				v := p.queues[r][0]
				p.queues[r] = p.queues[r][1:]
				if p.owner[v] == unowned {
					p.claim(v, r)
					progress = true
					break
				}
			}
		}
		if !progress {
			return
		}
	}
}

// absorbLeftovers hands each unclaimed vertex to the smallest adjacent
// region. Vertices with no claimed neighbor go to the region of the nearest
// claimed vertex.
func (p *partition) absorbLeftovers() {
	for changed := true; changed; {
		changed = false
		for v, o := range p.owner {
			if o != unowned {
				continue
			}
			best := unowned
			for _, nb := range p.solid.Neighbors(v) {
				r := p.owner[nb]
				if r == unowned {
					continue
				}
				if best == unowned || p.counts[r] < p.counts[best] || (p.counts[r] == p.counts[best] && r < best) {
					best = r
				}
			}
			if best != unowned {
				p.claim(v, best)
				changed = true
			}
		}
	}

	for v, o := range p.owner {
		if o != unowned {
			continue
		}
		pos := p.solid.Position(v)
		best, bestDist := unowned, math.Inf(1)
		for u, r := range p.owner {
			if r == unowned {
				continue
			}
			if d := p.solid.Position(u).Sub(pos).LenSq(); d < bestDist {
				best, bestDist = r, d
			}
		}
		p.claim(v, best)
	}
}

// faceOwner returns the region owning most of a face's vertices, or the
// first vertex's region on a three-way tie.
func (p *partition) faceOwner(face [3]int) int {
	a, b, c := p.owner[face[0]], p.owner[face[1]], p.owner[face[2]]
	if b == c {
		return b
	}
	return a
}

// assignFaces returns the source face indices of each region. A region left
// without faces takes one of its incident faces from the region holding the
// most faces.
func (p *partition) assignFaces() [][]int {
	region := make([]int, p.solid.FaceCount())
	faces := make([][]int, p.k)
	for i := range region {
		region[i] = p.faceOwner(p.solid.Face(i))
		faces[region[i]] = append(faces[region[i]], i)
	}

	for r := range p.k {
		if len(faces[r]) > 0 {
			continue
		}
		face, shared := -1, -1
		for i, d := range region {
			f := p.solid.Face(i)
			if p.owner[f[0]] != r && p.owner[f[1]] != r && p.owner[f[2]] != r {
				continue
			}
			if shared < 0 {
				shared = i
			}
			if len(faces[d]) > 1 && (face < 0 || len(faces[d]) > len(faces[region[face]])) {
				face = i
			}
		}
		switch {
		case face >= 0:
			donor := region[face]
			faces[donor] = slices.DeleteFunc(faces[donor], func(i int) bool { return i == face })
			faces[r] = []int{face}
			region[face] = r
		case shared >= 0:
			// Every neighbor is down to one face; duplicate instead.
			faces[r] = []int{shared}
		default:
			panic(fmt.Sprintf("fracture: region %d has no incident faces", r))
		}
	}
	return faces
}

// buildFragment turns region r and its faces into a closed fragment mesh.
// Owned vertices come first; vertices of other regions referenced by the
// faces are duplicated after them. Each boundary edge of the open shell is
// joined to an inner apex at coreDepth times the centroid.
func (p *partition) buildFragment(r int, faces []int, coreDepth float64) *Fragment {
	var owned []int
	var centroid math3d.Vec3
	for v, o := range p.owner {
		if o == r {
			owned = append(owned, v)
			centroid = centroid.Add(p.solid.Position(v))
		}
	}
	centroid = centroid.Scale(1 / float64(len(owned)))

	mesh := models.NewMesh(fmt.Sprintf("fragment_%03d", r))
	local := make(map[int]int, len(owned))
	index := func(v int) int {
		if i, ok := local[v]; ok {
			return i
		}
		i := mesh.AddVertex(p.solid.Position(v).Sub(centroid))
		local[v] = i
		return i
	}
	for _, v := range owned {
		index(v)
	}

	type edge struct{ a, b int }
	edges := make(map[edge]bool, len(faces)*3)
	for _, fi := range faces {
		f := p.solid.Face(fi)
		a, b, c := index(f[0]), index(f[1]), index(f[2])
		mesh.AddFace(a, b, c)
		edges[edge{a, b}] = true
		edges[edge{b, c}] = true
		edges[edge{c, a}] = true
	}

	var boundary []edge
	for _, f := range mesh.Faces {
		for k := range 3 {
			e := edge{f.V[k], f.V[(k+1)%3]}
			if !edges[edge{e.b, e.a}] {
				boundary = append(boundary, e)
			}
		}
	}
	if len(boundary) > 0 {
		core := mesh.AddVertex(centroid.Scale(coreDepth - 1))
		for _, e := range boundary {
			mesh.AddFace(e.b, e.a, core)
		}
	}

	mesh.CalculateSmoothNormals()
	mesh.CalculateBounds()

	return &Fragment{
		Mesh:          mesh,
		Owned:         owned,
		Position:      centroid,
		CastShadow:    true,
		ReceiveShadow: true,
		rest:          centroid,
	}
}
