package render

import (
	"math"

	"github.com/taigrr/shatter/pkg/math3d"
)

// MeshRenderer is the geometry the rasterizer draws. It is satisfied by
// models.Mesh without importing it.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// CullingStats tracks frustum culling performance.
type CullingStats struct {
	MeshesTested int // Total meshes tested for culling
	MeshesCulled int // Meshes culled (not rendered)
	MeshesDrawn  int // Meshes that passed culling
}

// Rasterizer draws meshes into a Target with per-pixel lighting.
type Rasterizer struct {
	camera *Camera
	target *Target

	Lights      *Lights
	ToneMapping ToneMapping
	Exposure    float64

	CullingStats           CullingStats
	DisableBackfaceCulling bool // If true, render both sides of triangles

	frustum      Frustum
	frustumDirty bool

	// per-mesh scratch, reused across draws
	world   []math3d.Vec3
	normals []math3d.Vec3
	screen  []screenVertex
	inFront []bool
}

// NewRasterizer creates a rasterizer viewing through camera.
func NewRasterizer(camera *Camera) *Rasterizer {
	return &Rasterizer{
		camera:       camera,
		ToneMapping:  ToneMappingACES,
		Exposure:     1,
		frustumDirty: true,
	}
}

// SetTarget selects the target subsequent draws write into.
func (r *Rasterizer) SetTarget(t *Target) {
	r.target = t
}

// Width returns the sample width of the bound target.
func (r *Rasterizer) Width() int {
	if r.target == nil {
		return 0
	}
	return r.target.SampleWidth()
}

// Height returns the sample height of the bound target.
func (r *Rasterizer) Height() int {
	if r.target == nil {
		return 0
	}
	return r.target.SampleHeight()
}

// InvalidateFrustum marks the frustum as needing recalculation.
// Call this when the camera moves or rotates.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumDirty = true
}

// ResetCullingStats resets the culling statistics (call once per frame).
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// IsVisible tests if a world-space AABB is visible in the frustum.
func (r *Rasterizer) IsVisible(worldBounds AABB) bool {
	if r.frustumDirty {
		r.frustum = NewFrustumFromMatrix(r.camera.ViewProjectionMatrix())
		r.frustumDirty = false
	}
	return r.frustum.IntersectAABB(worldBounds)
}

// tryFrustumCull reports whether a mesh with bounds lies entirely outside
// the view.
func (r *Rasterizer) tryFrustumCull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.CullingStats.MeshesTested++

	minBounds, maxBounds := bounded.GetBounds()
	if !r.IsVisible(AABB{Min: minBounds, Max: maxBounds}.Transform(transform)) {
		r.CullingStats.MeshesCulled++
		return true
	}

	r.CullingStats.MeshesDrawn++
	return false
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y float64 // Screen coordinates
	Z    float64 // NDC depth (for Z-buffer)
	InvW float64 // 1/W for perspective-correct interpolation
}

// DrawMesh renders a mesh with the given transform and material.
// Automatically performs frustum culling if the mesh provides bounds.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, mat *Material, receiveShadow bool) {
	if r.target == nil || mat == nil {
		return
	}
	if r.tryFrustumCull(mesh, transform) {
		return
	}

	r.project(mesh, transform)

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		if !r.inFront[face[0]] || !r.inFront[face[1]] || !r.inFront[face[2]] {
			// Simple near-plane rejection
			continue
		}

		if mat.Wireframe {
			r.drawWireTriangle(face, mat, receiveShadow)
			continue
		}
		r.drawTriangle(face, mat, receiveShadow)
	}
}

// project transforms every vertex of mesh into world and screen space.
func (r *Rasterizer) project(mesh MeshRenderer, transform math3d.Mat4) {
	n := mesh.VertexCount()
	r.world = resize(r.world, n)
	r.normals = resize(r.normals, n)
	r.screen = resize(r.screen, n)
	r.inFront = resize(r.inFront, n)

	viewProj := r.camera.ViewProjectionMatrix()
	width, height := float64(r.Width()), float64(r.Height())

	for i := range n {
		p, nrm := mesh.GetVertex(i)
		wp := transform.MulVec3(p)
		r.world[i] = wp
		r.normals[i] = transform.MulVec3Dir(nrm).Normalize()

		clip := viewProj.MulVec4(math3d.V4FromV3(wp, 1))
		r.inFront[i] = clip.W > r.camera.Near
		if !r.inFront[i] {
			continue
		}
		invW := 1.0 / clip.W
		r.screen[i] = screenVertex{
			// NDC to screen coordinates
			X:    (clip.X*invW + 1) * 0.5 * width,
			Y:    (1 - clip.Y*invW) * 0.5 * height,
			Z:    clip.Z * invW,
			InvW: invW,
		}
	}
}

func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

// shade computes the display color of a surface point.
func (r *Rasterizer) shade(mat *Material, pos, normal math3d.Vec3, receiveShadow bool) Color {
	c := r.ToneMapping.Display(r.Lights.Shade(mat, pos, normal, receiveShadow), r.Exposure)
	c.A = to8(mat.Opacity)
	return c
}

func (r *Rasterizer) drawTriangle(face [3]int, mat *Material, receiveShadow bool) {
	sv := [3]screenVertex{r.screen[face[0]], r.screen[face[1]], r.screen[face[2]]}

	p0, p1, p2 := r.world[face[0]], r.world[face[1]], r.world[face[2]]
	n0, n1, n2 := r.normals[face[0]], r.normals[face[1]], r.normals[face[2]]
	faceNormal := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()

	// Counter-clockwise (front facing) triangles have negative area in
	// y-down screen space. Flip them so the edge functions are positive inside.
	area2 := signedArea2(&sv)
	switch {
	case area2 == 0:
		return
	case area2 > 0:
		if !r.DisableBackfaceCulling {
			return
		}
		// Back face: light it from the viewer's side
		faceNormal = faceNormal.Negate()
		n0, n1, n2 = n0.Negate(), n1.Negate(), n2.Negate()
	default:
		sv[1], sv[2] = sv[2], sv[1]
		p1, p2 = p2, p1
		n1, n2 = n2, n1
		area2 = -area2
	}

	width := r.Width()
	depth := r.target.depth
	pixels := r.target.color.Pixels

	var flat Color
	if mat.FlatShading || mat.Unlit {
		centroid := p0.Add(p1).Add(p2).Scale(1.0 / 3)
		flat = r.shade(mat, centroid, faceNormal, receiveShadow)
	}

	scanTriangle(width, r.Height(), &sv, area2, func(idx int, z, b0, b1, b2 float64) {
		if z < -1 || z >= depth[idx] {
			return
		}
		depth[idx] = z

		if mat.FlatShading || mat.Unlit {
			pixels[idx] = flat
			return
		}

		// Perspective-correct weights
		w0, w1, w2 := b0*sv[0].InvW, b1*sv[1].InvW, b2*sv[2].InvW
		inv := 1 / (w0 + w1 + w2)
		w0, w1, w2 = w0*inv, w1*inv, w2*inv

		pos := p0.Scale(w0).Add(p1.Scale(w1)).Add(p2.Scale(w2))
		nrm := n0.Scale(w0).Add(n1.Scale(w1)).Add(n2.Scale(w2)).Normalize()
		pixels[idx] = r.shade(mat, pos, nrm, receiveShadow)
	})
}

// signedArea2 returns twice the signed screen-space area of the triangle.
func signedArea2(sv *[3]screenVertex) float64 {
	return (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C, which is
// positive to the left of the edge from (x0, y0) to (x1, y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1 // dy
	B = x1 - x0 // -dx
	C = x0*y1 - x1*y0
	return
}

// scanTriangle visits every pixel center inside a triangle with positive
// signed area, passing the pixel index, interpolated depth and screen-space
// barycentric coordinates. Edge functions are stepped incrementally.
func scanTriangle(width, height int, sv *[3]screenVertex, area2 float64, fn func(idx int, z, b0, b1, b2 float64)) {
	// Bounding box (clamped to screen)
	minX := int(math.Max(0, math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(width-1), math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(height-1), math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	A1, B1, C1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	A2, B2, C2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)
	invArea := 1.0 / area2

	// Evaluate edge functions at the first pixel center
	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := A0*px + B0*py + C0
	w1Row := A1*px + B1*py + C1
	w2Row := A2*px + B2*py + C2

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		rowOffset := y * width

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				b0, b1, b2 := w0*invArea, w1*invArea, w2*invArea
				z := b0*sv[0].Z + b1*sv[1].Z + b2*sv[2].Z
				fn(rowOffset+x, z, b0, b1, b2)
			}

			// Step in X direction
			w0 += A0
			w1 += A1
			w2 += A2
		}

		// Step in Y direction
		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}

// drawWireTriangle draws the edges of a front-facing triangle with depth
// testing.
func (r *Rasterizer) drawWireTriangle(face [3]int, mat *Material, receiveShadow bool) {
	sv := [3]screenVertex{r.screen[face[0]], r.screen[face[1]], r.screen[face[2]]}
	if signedArea2(&sv) > 0 && !r.DisableBackfaceCulling {
		return
	}

	p0, p1, p2 := r.world[face[0]], r.world[face[1]], r.world[face[2]]
	normal := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	c := r.shade(mat, p0.Add(p1).Add(p2).Scale(1.0/3), normal, receiveShadow)

	for k := range 3 {
		r.drawLine(sv[k], sv[(k+1)%3], c)
	}
}

// drawLine draws a depth-tested line using a DDA walk.
func (r *Rasterizer) drawLine(a, b screenVertex, c Color) {
	const depthBias = 1e-4

	width, height := r.Width(), r.Height()
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		steps = 1
	}

	depth := r.target.depth
	pixels := r.target.color.Pixels
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(a.X + dx*t)
		y := int(a.Y + dy*t)
		if x < 0 || x >= width || y < 0 || y >= height {
			continue
		}
		z := a.Z + (b.Z-a.Z)*t - depthBias
		idx := y*width + x
		if z < depth[idx] {
			depth[idx] = z
			pixels[idx] = c
		}
	}
}
