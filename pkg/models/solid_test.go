package models

import (
	"math/rand/v2"
	"testing"

	"github.com/taigrr/shatter/pkg/math3d"
)

// assertClosed checks that every directed edge has its twin, i.e. the mesh
// is a closed, consistently wound surface.
func assertClosed(t *testing.T, faces func(int) [3]int, count int) {
	t.Helper()
	edges := make(map[[2]int]int)
	for i := range count {
		f := faces(i)
		for k := range 3 {
			edges[[2]int{f[k], f[(k+1)%3]}]++
		}
	}
	for e, n := range edges {
		if n != 1 {
			t.Fatalf("edge %v used %d times", e, n)
		}
		if edges[[2]int{e[1], e[0]}] != 1 {
			t.Fatalf("edge %v has no twin", e)
		}
	}
}

func TestNewBoulderVertexCount(t *testing.T) {
	for _, n := range []int{4, 5, 12, 100, 257, 500} {
		rng := rand.New(rand.NewPCG(uint64(n), 7))
		s := NewBoulder(n, rng, 0.15)

		if s.VertexCount() != n {
			t.Errorf("n=%d: VertexCount = %d", n, s.VertexCount())
		}
		if want := 2*n - 4; s.FaceCount() != want {
			t.Errorf("n=%d: FaceCount = %d, want %d", n, s.FaceCount(), want)
		}
		for i := range n {
			if s.Degree(i) < 3 {
				t.Errorf("n=%d: vertex %d has degree %d", n, i, s.Degree(i))
			}
		}
		assertClosed(t, s.Face, s.FaceCount())
	}
}

func TestNewBoulderPanicsBelowFour(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for 3 vertices")
		}
	}()
	NewBoulder(3, rand.New(rand.NewPCG(1, 1)), 0)
}

func TestNewBoulderDeterministic(t *testing.T) {
	a := NewBoulder(120, rand.New(rand.NewPCG(42, 42)), 0.2)
	b := NewBoulder(120, rand.New(rand.NewPCG(42, 42)), 0.2)
	for i := range a.VertexCount() {
		if a.Position(i) != b.Position(i) {
			t.Fatalf("vertex %d differs: %v vs %v", i, a.Position(i), b.Position(i))
		}
	}
}

func TestConvexBoulderWindsOutward(t *testing.T) {
	s := NewBoulder(200, rand.New(rand.NewPCG(3, 9)), 0)
	m := s.Mesh()
	for i := range m.TriangleCount() {
		f := m.GetFace(i)
		c := m.Vertices[f[0]].Position.Add(m.Vertices[f[1]].Position).Add(m.Vertices[f[2]].Position)
		if m.FaceNormal(i).Dot(c) <= 0 {
			t.Fatalf("face %d faces inward", i)
		}
	}
}

func TestSolidIsImmutable(t *testing.T) {
	s := NewBoulder(50, rand.New(rand.NewPCG(5, 5)), 0.1)
	before := s.Position(0)

	m := s.Mesh()
	m.Vertices[0].Position = math3d.V3(99, 99, 99)
	if s.Position(0) != before {
		t.Error("mutating Mesh() copy changed the solid")
	}

	nb := s.Neighbors(0)
	nb[0] = -1
	if s.Neighbors(0)[0] == -1 {
		t.Error("mutating Neighbors() result changed the solid")
	}
}

func TestIcosphere(t *testing.T) {
	tests := []struct {
		detail, verts, faces int
	}{
		{0, 12, 20},
		{1, 42, 80},
		{2, 162, 320},
	}
	for _, tc := range tests {
		m := NewIcosphere(0.7, tc.detail)
		if m.VertexCount() != tc.verts || m.TriangleCount() != tc.faces {
			t.Errorf("detail %d: got %d/%d, want %d/%d",
				tc.detail, m.VertexCount(), m.TriangleCount(), tc.verts, tc.faces)
		}
		for i, v := range m.Vertices {
			if r := v.Position.Len(); r < 0.7-1e-9 || r > 0.7+1e-9 {
				t.Fatalf("detail %d: vertex %d at radius %v", tc.detail, i, r)
			}
		}
		assertClosed(t, m.GetFace, m.TriangleCount())
	}
}

func TestAdjacencySymmetric(t *testing.T) {
	m := NewIcosphere(1, 1)
	adj := m.Adjacency()
	for a, nbrs := range adj {
		for _, b := range nbrs {
			found := false
			for _, c := range adj[b] {
				if c == a {
					found = true
				}
			}
			if !found {
				t.Fatalf("%d lists %d but not vice versa", a, b)
			}
		}
	}
}
