package models

import (
	"math"

	"github.com/taigrr/shatter/pkg/math3d"
)

const hullEpsilon = 1e-10

type hullFace struct {
	v     [3]int
	n     math3d.Vec3
	d     float64
	alive bool
}

func newHullFace(pts []math3d.Vec3, a, b, c int) hullFace {
	n := pts[b].Sub(pts[a]).Cross(pts[c].Sub(pts[a])).Normalize()
	return hullFace{v: [3]int{a, b, c}, n: n, d: n.Dot(pts[a]), alive: true}
}

func (f hullFace) height(p math3d.Vec3) float64 {
	return f.n.Dot(p) - f.d
}

type hullEdge struct{ a, b int }

// convexHull returns the triangles of the convex hull of pts, wound
// counter-clockwise when seen from outside. Points strictly inside the hull
// are not referenced. Panics if all points are coplanar.
func convexHull(pts []math3d.Vec3) [][3]int {
	i0, i1, i2, i3 := initialTetrahedron(pts)

	centroid := pts[i0].Add(pts[i1]).Add(pts[i2]).Add(pts[i3]).Scale(0.25)
	faces := make([]hullFace, 0, 2*len(pts))
	for _, tri := range [][3]int{{i0, i1, i2}, {i0, i2, i3}, {i0, i3, i1}, {i1, i3, i2}} {
		f := newHullFace(pts, tri[0], tri[1], tri[2])
		if f.height(centroid) > 0 {
			f = newHullFace(pts, tri[0], tri[2], tri[1])
		}
		faces = append(faces, f)
	}

	for p := range pts {
		if p == i0 || p == i1 || p == i2 || p == i3 {
			continue
		}

		edges := make(map[hullEdge]bool)
		visible := false
		for fi := range faces {
			f := &faces[fi]
			if !f.alive || f.height(pts[p]) <= hullEpsilon {
				continue
			}
			visible = true
			f.alive = false
			for k := range 3 {
				edges[hullEdge{f.v[k], f.v[(k+1)%3]}] = true
			}
		}
		if !visible {
			continue
		}

		// Horizon edges are those whose twin is not on a visible face.
		for e := range edges {
			if edges[hullEdge{e.b, e.a}] {
				continue
			}
			faces = append(faces, newHullFace(pts, e.a, e.b, p))
		}
	}

	out := make([][3]int, 0, len(faces))
	for _, f := range faces {
		if f.alive {
			out = append(out, f.v)
		}
	}
	return out
}

func initialTetrahedron(pts []math3d.Vec3) (int, int, int, int) {
	if len(pts) < MinSolidVertices {
		panic("models: hull needs at least 4 points")
	}

	i0 := 0
	i1, best := -1, 0.0
	for i, p := range pts {
		if d := p.Sub(pts[i0]).LenSq(); d > best {
			i1, best = i, d
		}
	}

	axis := pts[i1].Sub(pts[i0])
	i2, best := -1, 0.0
	for i, p := range pts {
		if d := axis.Cross(p.Sub(pts[i0])).LenSq(); d > best {
			i2, best = i, d
		}
	}

	normal := axis.Cross(pts[i2].Sub(pts[i0]))
	i3, best := -1, 0.0
	for i, p := range pts {
		if d := math.Abs(normal.Dot(p.Sub(pts[i0]))); d > best {
			i3, best = i, d
		}
	}

	if i1 < 0 || i2 < 0 || i3 < 0 {
		panic("models: hull input is degenerate")
	}
	return i0, i1, i2, i3
}
