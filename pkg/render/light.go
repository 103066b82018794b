package render

import (
	"math"

	"github.com/taigrr/shatter/pkg/math3d"
)

// HemisphereLight blends a sky and a ground color by how much a surface
// faces up.
type HemisphereLight struct {
	Sky       Linear
	Ground    Linear
	Intensity float64
}

// DirectionalLight shines from Position towards the origin.
type DirectionalLight struct {
	Position  math3d.Vec3
	Color     Linear
	Intensity float64
}

// Lights is the light rig used by the shaded pass.
type Lights struct {
	Hemisphere  HemisphereLight
	Directional DirectionalLight

	// Shadow is optional; nil disables shadows.
	Shadow *ShadowMap
}

// Shade returns the linear radiance leaving a surface point.
func (l *Lights) Shade(m *Material, pos, normal math3d.Vec3, receiveShadow bool) Linear {
	if m.Unlit || l == nil {
		return m.Color.Add(m.Emissive)
	}

	hemi := l.Hemisphere
	irradiance := hemi.Ground.Lerp(hemi.Sky, 0.5*normal.Y+0.5).Scale(hemi.Intensity)

	dir := l.Directional.Position.Normalize()
	if ndl := normal.Dot(dir); ndl > 0 {
		visibility := 1.0
		if receiveShadow && l.Shadow != nil {
			visibility = l.Shadow.Visibility(pos, normal)
		}
		irradiance = irradiance.Add(l.Directional.Color.Scale(l.Directional.Intensity * ndl * visibility))
	}

	return m.Color.Mul(irradiance).Add(m.Emissive)
}

// ShadowMap is a depth map rendered from a directional light with an
// orthographic projection centered on the origin.
type ShadowMap struct {
	Size       int     // texels per side
	Extent     float64 // half-size of the projection box in world units
	Bias       float64 // depth bias in NDC units
	NormalBias float64 // world-space offset along the surface normal

	depth    []float64
	viewProj math3d.Mat4
}

// NewShadowMap creates a square shadow map.
func NewShadowMap(size int, extent float64) *ShadowMap {
	size = max(size, 1)
	return &ShadowMap{
		Size:       size,
		Extent:     extent,
		Bias:       0.004,
		NormalBias: 0.02,
		depth:      make([]float64, size*size),
	}
}

// Begin clears the map and aims it from lightPos at the origin.
func (s *ShadowMap) Begin(lightPos math3d.Vec3) {
	up := math3d.Up()
	if math.Abs(lightPos.Normalize().Dot(up)) > 0.999 {
		up = math3d.V3(0, 0, 1)
	}
	dist := lightPos.Len()
	view := math3d.LookAt(lightPos, math3d.Zero3(), up)
	proj := math3d.Orthographic(-s.Extent, s.Extent, -s.Extent, s.Extent, dist-s.Extent, dist+s.Extent)
	s.viewProj = proj.Mul(view)

	s.depth[0] = math.MaxFloat64
	for i := 1; i < len(s.depth); i *= 2 {
		copy(s.depth[i:], s.depth[:i])
	}
}

func (s *ShadowMap) project(p math3d.Vec3) screenVertex {
	ndc := s.viewProj.MulVec3(p)
	return screenVertex{
		X:    (ndc.X + 1) * 0.5 * float64(s.Size),
		Y:    (1 - ndc.Y) * 0.5 * float64(s.Size),
		Z:    ndc.Z,
		InvW: 1,
	}
}

// DrawMesh writes the mesh's depth into the map.
func (s *ShadowMap) DrawMesh(mesh MeshRenderer, transform math3d.Mat4) {
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var sv [3]screenVertex
		for k, idx := range face {
			p, _ := mesh.GetVertex(idx)
			sv[k] = s.project(transform.MulVec3(p))
		}

		area2 := signedArea2(&sv)
		if area2 == 0 {
			continue
		}
		if area2 < 0 {
			sv[1], sv[2] = sv[2], sv[1]
			area2 = -area2
		}

		scanTriangle(s.Size, s.Size, &sv, area2, func(idx int, z, _, _, _ float64) {
			if z < s.depth[idx] {
				s.depth[idx] = z
			}
		})
	}
}

// Visibility returns the lit fraction of a world point in [0, 1] using a
// 3x3 percentage-closer filter.
func (s *ShadowMap) Visibility(pos, normal math3d.Vec3) float64 {
	p := s.project(pos.Add(normal.Scale(s.NormalBias)))
	cx, cy := int(p.X), int(p.Y)

	var lit, total float64
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := cx+dx, cy+dy
			total++
			if x < 0 || x >= s.Size || y < 0 || y >= s.Size {
				lit++
				continue
			}
			if p.Z-s.Bias <= s.depth[y*s.Size+x] {
				lit++
			}
		}
	}
	return lit / total
}
