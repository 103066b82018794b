package render

import (
	"math"
	"testing"

	"github.com/taigrr/shatter/pkg/math3d"
)

func TestLightsShadeHemisphere(t *testing.T) {
	lights := &Lights{Hemisphere: HemisphereLight{Sky: Linear{1, 0, 0}, Ground: Linear{0, 0, 1}, Intensity: 1}}
	mat := NewStandardMaterial("white", Linear{1, 1, 1})

	up := lights.Shade(mat, math3d.Zero3(), math3d.V3(0, 1, 0), false)
	down := lights.Shade(mat, math3d.Zero3(), math3d.V3(0, -1, 0), false)
	side := lights.Shade(mat, math3d.Zero3(), math3d.V3(1, 0, 0), false)

	if up != (Linear{1, 0, 0}) {
		t.Errorf("up = %v, want sky", up)
	}
	if down != (Linear{0, 0, 1}) {
		t.Errorf("down = %v, want ground", down)
	}
	if side != (Linear{0.5, 0, 0.5}) {
		t.Errorf("side = %v, want even mix", side)
	}
}

func TestLightsShadeDirectional(t *testing.T) {
	lights := &Lights{Directional: DirectionalLight{Position: math3d.V3(0, 10, 0), Color: Linear{1, 1, 1}, Intensity: 0.5}}
	mat := NewStandardMaterial("grey", Linear{0.5, 0.5, 0.5})
	mat.Emissive = Linear{0.1, 0, 0}

	got := lights.Shade(mat, math3d.Zero3(), math3d.V3(0, 1, 0), false)
	if math.Abs(got.R-0.35) > 1e-9 || math.Abs(got.G-0.25) > 1e-9 {
		t.Errorf("lit = %v, want {0.35 0.25 0.25}", got)
	}

	away := lights.Shade(mat, math3d.Zero3(), math3d.V3(0, -1, 0), false)
	if away != mat.Emissive {
		t.Errorf("facing away = %v, want emissive only", away)
	}
}

func TestLightsShadeUnlit(t *testing.T) {
	lights := &Lights{Hemisphere: HemisphereLight{Sky: Linear{1, 1, 1}, Intensity: 5}}
	mat := NewBasicMaterial("black", Linear{})
	if got := lights.Shade(mat, math3d.Zero3(), math3d.Up(), false); got != (Linear{}) {
		t.Errorf("unlit = %v, want black", got)
	}
}

// floorAndBlocker returns a large floor at y=0 and a small quad above it.
func floorAndBlocker() (floor, blocker *mockMesh) {
	up := math3d.Up()
	quad := func(size, y float64) *mockMesh {
		return &mockMesh{
			positions: []math3d.Vec3{
				math3d.V3(-size, y, -size), math3d.V3(-size, y, size),
				math3d.V3(size, y, size), math3d.V3(size, y, -size),
			},
			normals: []math3d.Vec3{up, up, up, up},
			faces:   [][3]int{{0, 1, 2}, {0, 2, 3}},
		}
	}
	return quad(3, 0), quad(0.5, 1)
}

func TestShadowMapOcclusion(t *testing.T) {
	floor, blocker := floorAndBlocker()

	shadow := NewShadowMap(128, 5)
	shadow.Begin(math3d.V3(0, 30, 0.01))
	shadow.DrawMesh(floor, math3d.Identity())
	shadow.DrawMesh(blocker, math3d.Identity())

	tests := []struct {
		name string
		pos  math3d.Vec3
		want float64
	}{
		{"under blocker", math3d.V3(0, 0, 0), 0},
		{"open floor", math3d.V3(2, 0, 2), 1},
		{"top of blocker", math3d.V3(0, 1, 0), 1},
		{"outside map", math3d.V3(20, 0, 0), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := shadow.Visibility(tc.pos, math3d.Up()); got != tc.want {
				t.Errorf("Visibility(%v) = %v, want %v", tc.pos, got, tc.want)
			}
		})
	}
}

func TestShadowDarkensReceiver(t *testing.T) {
	floor, blocker := floorAndBlocker()
	shadow := NewShadowMap(128, 5)
	shadow.Begin(math3d.V3(0, 30, 0.01))
	shadow.DrawMesh(floor, math3d.Identity())
	shadow.DrawMesh(blocker, math3d.Identity())

	lights := &Lights{
		Directional: DirectionalLight{Position: math3d.V3(0, 30, 0.01), Color: Linear{1, 1, 1}, Intensity: 1},
		Shadow:      shadow,
	}
	mat := NewStandardMaterial("white", Linear{1, 1, 1})

	shadowed := lights.Shade(mat, math3d.Zero3(), math3d.Up(), true)
	ignored := lights.Shade(mat, math3d.Zero3(), math3d.Up(), false)
	if shadowed.R >= ignored.R {
		t.Errorf("shadowed = %v, non-receiver = %v", shadowed, ignored)
	}
}
