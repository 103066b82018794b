package render

import "fmt"

// Pass identifies one of the scene's render passes. Each renderable carries
// one material slot per pass.
type Pass int

const (
	PassSilhouette Pass = iota // flat occupancy mask
	PassShaded                 // lit color
	PassCount
)

func (p Pass) String() string {
	switch p {
	case PassSilhouette:
		return "silhouette"
	case PassShaded:
		return "shaded"
	}
	return fmt.Sprintf("Pass(%d)", int(p))
}

// Material describes how a surface is shaded.
type Material struct {
	Name     string
	Color    Linear  // albedo for lit materials, output color for unlit ones
	Emissive Linear  // added after lighting
	Opacity  float64 // written to the target's alpha channel

	Unlit       bool // skip lighting entirely
	FlatShading bool // use the face normal instead of interpolated normals
	Wireframe   bool // draw triangle edges only
}

// NewStandardMaterial returns a lit, opaque material.
func NewStandardMaterial(name string, c Linear) *Material {
	return &Material{Name: name, Color: c, Opacity: 1}
}

// NewBasicMaterial returns an unlit, opaque material.
func NewBasicMaterial(name string, c Linear) *Material {
	return &Material{Name: name, Color: c, Opacity: 1, Unlit: true}
}
