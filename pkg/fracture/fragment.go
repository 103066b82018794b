// Package fracture carves a closed solid into contiguous fragments that can be
// moved independently.
package fracture

import (
	"github.com/taigrr/shatter/pkg/math3d"
	"github.com/taigrr/shatter/pkg/models"
	"github.com/taigrr/shatter/pkg/render"
)

// Fragment is one rigid piece of a fractured solid. Mesh positions are local
// to the fragment origin, which sits at the centroid of its owned vertices.
type Fragment struct {
	Mesh  *models.Mesh
	Owned []int // source vertex indices claimed by this fragment

	Position math3d.Vec3 // current offset from the group origin
	Rotation math3d.Vec3 // Euler angles in radians

	// One material per render pass; materials are shared, not owned.
	Materials [render.PassCount]*render.Material

	CastShadow    bool
	ReceiveShadow bool

	rest math3d.Vec3
}

// Rest returns the position the fragment was created at.
func (f *Fragment) Rest() math3d.Vec3 { return f.rest }

// Material returns the material used for pass p.
func (f *Fragment) Material(p render.Pass) *render.Material { return f.Materials[p] }

// Transform returns the fragment's local-to-group matrix.
func (f *Fragment) Transform() math3d.Mat4 {
	return math3d.Compose(f.Position, f.Rotation)
}

// ResetToRest moves the fragment back to its rest position.
func (f *Fragment) ResetToRest() {
	f.Position = f.rest
	f.Rotation = math3d.Vec3{}
}

// Set is the ordered output of one generation call.
type Set struct {
	Fragments []*Fragment
	solid     *models.Solid
}

// Len returns the number of fragments.
func (s *Set) Len() int { return len(s.Fragments) }

// Solid returns the source solid the set was carved from.
func (s *Set) Solid() *models.Solid { return s.solid }

// OwnedVertexCount returns the number of source vertices claimed across all
// fragments. It always equals the source solid's vertex count.
func (s *Set) OwnedVertexCount() int {
	n := 0
	for _, f := range s.Fragments {
		n += len(f.Owned)
	}
	return n
}

// SetMaterial assigns mat to pass p on every fragment.
func (s *Set) SetMaterial(p render.Pass, mat *render.Material) {
	for _, f := range s.Fragments {
		f.Materials[p] = mat
	}
}

// ResetToRest moves every fragment back to rest.
func (s *Set) ResetToRest() {
	for _, f := range s.Fragments {
		f.ResetToRest()
	}
}

// ExportNodes returns one node per fragment placed at its rest position.
func (s *Set) ExportNodes() []models.ExportNode {
	nodes := make([]models.ExportNode, len(s.Fragments))
	for i, f := range s.Fragments {
		nodes[i] = models.ExportNode{
			Name:     f.Mesh.Name,
			Mesh:     f.Mesh,
			Position: f.rest,
		}
	}
	return nodes
}
