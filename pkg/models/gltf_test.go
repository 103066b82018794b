package models

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/shatter/pkg/math3d"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if loader.WeldEpsilon <= 0 {
		t.Error("welding should be enabled by default")
	}
}

func TestSaveAndLoadGLB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sphere.glb")
	sphere := NewIcosphere(1, 1)

	if err := SaveGLB(path, []ExportNode{{Name: "sphere", Mesh: sphere}}); err != nil {
		t.Fatalf("SaveGLB: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}

	got, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if got.VertexCount() != sphere.VertexCount() {
		t.Errorf("VertexCount = %d, want %d", got.VertexCount(), sphere.VertexCount())
	}
	if got.TriangleCount() != sphere.TriangleCount() {
		t.Errorf("TriangleCount = %d, want %d", got.TriangleCount(), sphere.TriangleCount())
	}
}

func TestSaveGLBEmpty(t *testing.T) {
	err := SaveGLB(filepath.Join(t.TempDir(), "empty.glb"), nil)
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("SaveGLB(nil) = %v, want ErrNoGeometry", err)
	}
}

func TestLoadSolidNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.glb")
	sphere := NewIcosphere(5, 1)
	sphere.Transform(math3d.Translate(math3d.V3(10, 0, -3)))

	if err := SaveGLB(path, []ExportNode{{Name: "big", Mesh: sphere}}); err != nil {
		t.Fatalf("SaveGLB: %v", err)
	}

	solid, err := LoadSolid(path)
	if err != nil {
		t.Fatalf("LoadSolid: %v", err)
	}
	for i := range solid.VertexCount() {
		if r := solid.Position(i).Len(); math.Abs(r-1) > 1e-4 {
			t.Fatalf("vertex %d at radius %v, want 1", i, r)
		}
	}
}

func TestWeldMergesDuplicates(t *testing.T) {
	m := NewMesh("split")
	// Two triangles sharing an edge, but with the shared vertices duplicated.
	m.AddVertex(math3d.V3(0, 0, 0))
	m.AddVertex(math3d.V3(1, 0, 0))
	m.AddVertex(math3d.V3(0, 1, 0))
	m.AddVertex(math3d.V3(1, 0, 0))
	m.AddVertex(math3d.V3(1, 1, 0))
	m.AddVertex(math3d.V3(0, 1, 0))
	m.AddFace(0, 1, 2)
	m.AddFace(3, 4, 5)

	got := weld(m, 1e-6)
	if got.VertexCount() != 4 {
		t.Errorf("VertexCount = %d, want 4", got.VertexCount())
	}
	if got.TriangleCount() != 2 {
		t.Errorf("TriangleCount = %d, want 2", got.TriangleCount())
	}
}

func TestEulerToQuatIdentity(t *testing.T) {
	if got := eulerToQuat(math3d.Zero3()); got != [4]float64{0, 0, 0, 1} {
		t.Errorf("eulerToQuat(0) = %v, want identity", got)
	}
}
