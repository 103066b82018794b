package fracture

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/shatter/pkg/math3d"
	"github.com/taigrr/shatter/pkg/models"
	"github.com/taigrr/shatter/pkg/render"
)

// checkPartition verifies that owned vertex sets are non-empty, disjoint and
// cover the source solid.
func checkPartition(t *testing.T, set *Set) {
	t.Helper()

	n := set.Solid().VertexCount()
	if got := set.OwnedVertexCount(); got != n {
		t.Errorf("owned vertex count = %d, want %d", got, n)
	}

	seen := make([]int, n)
	for i, f := range set.Fragments {
		if len(f.Owned) == 0 {
			t.Errorf("fragment %d owns no vertices", i)
		}
		if f.Mesh.VertexCount() == 0 || f.Mesh.TriangleCount() == 0 {
			t.Errorf("fragment %d has an empty mesh", i)
		}
		for _, v := range f.Owned {
			seen[v]++
		}
	}
	for v, c := range seen {
		if c != 1 {
			t.Errorf("vertex %d owned %d times, want 1", v, c)
		}
	}
}

func TestGenerateRandomBudgets(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := range 25 {
		vertices, chunk := RandomBudgets(rng)
		set := Generate(vertices, chunk, WithSeed(uint64(i)))

		if set.Solid().VertexCount() != vertices {
			t.Fatalf("V=%d: solid has %d vertices", vertices, set.Solid().VertexCount())
		}
		want := int(math.Round(float64(vertices) / float64(chunk)))
		if set.Len() != want {
			t.Errorf("V=%d chunk=%d: %d fragments, want %d", vertices, chunk, set.Len(), want)
		}
		checkPartition(t, set)
	}
}

func TestRandomBudgetsRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for range 1000 {
		v, c := RandomBudgets(rng)
		if v < MinVertexBudget || v > MaxVertexBudget {
			t.Fatalf("vertices = %d out of range", v)
		}
		lo := int(math.Round(float64(v) * MinChunkFraction))
		hi := int(math.Round(float64(v) * MaxChunkFraction))
		if c < lo || c > hi {
			t.Fatalf("chunk = %d, want in [%d, %d] for V=%d", c, lo, hi, v)
		}
	}
}

func TestFragmentCount(t *testing.T) {
	tests := []struct {
		name     string
		n, chunk int
		want     int
	}{
		{"even split", 300, 100, 3},
		{"rounds up", 500, 200, 3},
		{"rounds down", 400, 180, 2},
		{"chunk equals V", 120, 120, 1},
		{"chunk above V", 120, 1000, 1},
		{"chunk zero", 50, 0, 50},
		{"chunk negative", 50, -3, 50},
		{"chunk one", 50, 1, 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FragmentCount(tc.n, tc.chunk); got != tc.want {
				t.Errorf("FragmentCount(%d, %d) = %d, want %d", tc.n, tc.chunk, got, tc.want)
			}
		})
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	tests := []struct {
		name          string
		vertices      int
		chunk         int
		wantFragments int
	}{
		{"chunk at least V", 150, 150, 1},
		{"chunk far above V", 150, 10_000, 1},
		{"minimal solid", 4, 4, 1},
		{"minimal solid chunk zero", 4, 0, 4},
		{"minimal solid chunk negative", 4, -2, 4},
		{"one vertex per fragment", 12, 1, 12},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			set := Generate(tc.vertices, tc.chunk, WithSeed(42))
			if set.Len() != tc.wantFragments {
				t.Errorf("got %d fragments, want %d", set.Len(), tc.wantFragments)
			}
			checkPartition(t, set)
		})
	}
}

func TestGeneratePanicsOnTinySolid(t *testing.T) {
	for _, v := range []int{-1, 0, 3} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Generate(%d, 1) did not panic", v)
				}
			}()
			Generate(v, 1)
		}()
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(200, 60, WithSeed(9))
	b := Generate(200, 60, WithSeed(9))

	if a.Len() != b.Len() {
		t.Fatalf("fragment counts differ: %d vs %d", a.Len(), b.Len())
	}
	for i := range a.Fragments {
		if a.Fragments[i].Rest() != b.Fragments[i].Rest() {
			t.Errorf("fragment %d rest differs", i)
		}
		if len(a.Fragments[i].Owned) != len(b.Fragments[i].Owned) {
			t.Errorf("fragment %d owned count differs", i)
		}
	}
}

func TestFragmentsAreConnected(t *testing.T) {
	set := Generate(300, 75, WithSeed(3))
	solid := set.Solid()

	for i, f := range set.Fragments {
		inRegion := make(map[int]bool, len(f.Owned))
		for _, v := range f.Owned {
			inRegion[v] = true
		}

		visited := map[int]bool{f.Owned[0]: true}
		queue := []int{f.Owned[0]}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, nb := range solid.Neighbors(v) {
				if inRegion[nb] && !visited[nb] {
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		if len(visited) != len(f.Owned) {
			t.Errorf("fragment %d: reached %d of %d owned vertices", i, len(visited), len(f.Owned))
		}
	}
}

func TestFragmentsAreClosed(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3} {
		set := Generate(250, 80, WithSeed(seed))
		for i, f := range set.Fragments {
			type edge struct{ a, b int }
			count := make(map[edge]int)
			for _, face := range f.Mesh.Faces {
				for k := range 3 {
					count[edge{face.V[k], face.V[(k+1)%3]}]++
				}
			}
			for e, c := range count {
				if count[edge{e.b, e.a}] != c {
					t.Errorf("seed %d fragment %d: edge %v used %d times, reverse %d", seed, i, e, c, count[edge{e.b, e.a}])
				}
			}
		}
	}
}

func TestFragmentsReassembleSolid(t *testing.T) {
	set := Generate(180, 60, WithSeed(5))
	solid := set.Solid()

	for i, f := range set.Fragments {
		for j, v := range f.Owned {
			pos, _ := f.Mesh.GetVertex(j)
			world := pos.Add(f.Rest())
			if !world.ApproxEqual(solid.Position(v), 1e-9) {
				t.Fatalf("fragment %d vertex %d at %v, want %v", i, v, world, solid.Position(v))
			}
		}
	}
}

func TestRestIsFixed(t *testing.T) {
	set := Generate(100, 50, WithSeed(11))
	f := set.Fragments[0]
	rest := f.Rest()

	if f.Position != rest {
		t.Errorf("initial position %v, want rest %v", f.Position, rest)
	}
	if !f.CastShadow || !f.ReceiveShadow {
		t.Error("shadow flags not set")
	}

	f.Position = f.Position.Add(math3d.V3(1, 2, 3))
	f.Rotation = math3d.V3(0.1, 0.2, 0.3)
	if f.Rest() != rest {
		t.Errorf("rest changed to %v after moving fragment", f.Rest())
	}

	set.ResetToRest()
	if f.Position != rest || f.Rotation != (math3d.Vec3{}) {
		t.Errorf("after reset position=%v rotation=%v", f.Position, f.Rotation)
	}
	if got := f.Transform().Translation(); got != rest {
		t.Errorf("transform translation = %v, want %v", got, rest)
	}
}

func TestSetMaterial(t *testing.T) {
	set := Generate(100, 30, WithSeed(2))
	black := render.NewBasicMaterial("silhouette", render.Linear{})
	rock := render.NewStandardMaterial("boulder", render.Linear{R: 0.5, G: 0.5, B: 0.5})

	set.SetMaterial(render.PassSilhouette, black)
	set.SetMaterial(render.PassShaded, rock)

	for i, f := range set.Fragments {
		if f.Material(render.PassSilhouette) != black || f.Material(render.PassShaded) != rock {
			t.Errorf("fragment %d materials = %v", i, f.Materials)
		}
	}
}

func TestGenerateFromIcosphere(t *testing.T) {
	solid := models.NewSolid(models.NewIcosphere(1, 1))
	set := GenerateFrom(solid, 10, WithSeed(8))

	if set.Len() != 4 {
		t.Errorf("got %d fragments, want 4", set.Len())
	}
	checkPartition(t, set)
}

func TestExportNodes(t *testing.T) {
	set := Generate(120, 40, WithSeed(4))
	nodes := set.ExportNodes()

	if len(nodes) != set.Len() {
		t.Fatalf("got %d nodes, want %d", len(nodes), set.Len())
	}
	for i, n := range nodes {
		if n.Position != set.Fragments[i].Rest() || n.Mesh != set.Fragments[i].Mesh {
			t.Errorf("node %d does not match fragment", i)
		}
	}
}

func BenchmarkGenerate(b *testing.B) {
	for b.Loop() {
		Generate(300, 100, WithSeed(1))
	}
}
