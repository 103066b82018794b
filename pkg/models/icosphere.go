package models

import (
	"math"

	"github.com/taigrr/shatter/pkg/math3d"
)

// NewIcosphere builds a subdivided icosahedron of the given radius. Each
// detail level splits every triangle into four.
func NewIcosphere(radius float64, detail int) *Mesh {
	t := (1 + math.Sqrt(5)) / 2

	m := NewMesh("icosphere")
	for _, p := range []math3d.Vec3{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	} {
		m.AddVertex(p.Normalize())
	}

	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for range max(detail, 0) {
		mid := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if i, ok := mid[key]; ok {
				return i
			}
			p := m.Vertices[a].Position.Add(m.Vertices[b].Position).Normalize()
			i := m.AddVertex(p)
			mid[key] = i
			return i
		}

		next := make([][3]int, 0, len(faces)*4)
		for _, f := range faces {
			ab := midpoint(f[0], f[1])
			bc := midpoint(f[1], f[2])
			ca := midpoint(f[2], f[0])
			next = append(next,
				[3]int{f[0], ab, ca},
				[3]int{f[1], bc, ab},
				[3]int{f[2], ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		faces = next
	}

	for _, f := range faces {
		m.AddFace(f[0], f[1], f[2])
	}
	for i := range m.Vertices {
		n := m.Vertices[i].Position
		m.Vertices[i].Normal = n
		m.Vertices[i].Position = n.Scale(radius)
	}
	m.CalculateBounds()
	return m
}
