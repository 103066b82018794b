package models

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"unsafe"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/shatter/pkg/math3d"
)

// ErrNoGeometry is returned when a document contains no triangle primitives.
var ErrNoGeometry = errors.New("no triangle geometry")

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// WeldEpsilon merges vertices closer than this distance. Exporters often
	// split vertices along hard edges, which would disconnect the adjacency
	// graph. Zero disables welding.
	WeldEpsilon float64
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{WeldEpsilon: 1e-6}
}

// LoadGLB loads a binary GLTF (.glb) file. Node transforms are ignored.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// LoadSolid loads a GLB file, recenters it on the origin and scales it to
// unit radius so it can stand in for the procedural boulder.
func LoadSolid(path string) (*Solid, error) {
	mesh, err := LoadGLB(path)
	if err != nil {
		return nil, err
	}
	if mesh.VertexCount() < MinSolidVertices {
		return nil, fmt.Errorf("%s: %d vertices, need at least %d", path, mesh.VertexCount(), MinSolidVertices)
	}

	center := mesh.Center()
	var radius float64
	for _, v := range mesh.Vertices {
		radius = math.Max(radius, v.Position.Distance(center))
	}
	if radius == 0 {
		return nil, fmt.Errorf("%s: degenerate geometry", path)
	}
	mesh.Transform(math3d.ScaleUniform(1 / radius).Mul(math3d.Translate(center.Negate())))
	mesh.CalculateSmoothNormals()

	return NewSolid(mesh), nil
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}

	if l.WeldEpsilon > 0 {
		mesh = weld(mesh, l.WeldEpsilon)
	}
	mesh.CalculateSmoothNormals()
	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		baseVertex := len(mesh.Vertices)
		for _, p := range positions {
			mesh.AddVertex(p)
		}

		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.AddFace(baseVertex+indices[i], baseVertex+indices[i+1], baseVertex+indices[i+2])
			}
		} else {
			// No indices, assume sequential triangles
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.AddFace(baseVertex+i, baseVertex+i+1, baseVertex+i+2)
			}
		}
	}

	return nil
}

// weld merges vertices that fall into the same eps-sized grid cell and drops
// triangles that collapse as a result.
func weld(m *Mesh, eps float64) *Mesh {
	out := NewMesh(m.Name)
	remap := make([]int, len(m.Vertices))
	cells := make(map[[3]int64]int)
	for i, v := range m.Vertices {
		key := [3]int64{
			int64(math.Round(v.Position.X / eps)),
			int64(math.Round(v.Position.Y / eps)),
			int64(math.Round(v.Position.Z / eps)),
		}
		idx, ok := cells[key]
		if !ok {
			idx = out.AddVertex(v.Position)
			cells[key] = idx
		}
		remap[i] = idx
	}
	for _, f := range m.Faces {
		a, b, c := remap[f.V[0]], remap[f.V[1]], remap[f.V[2]]
		if a == b || b == c || a == c {
			continue
		}
		out.AddFace(a, b, c)
	}
	return out
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		return widen(v), nil
	case []uint16:
		return widen(v), nil
	case []uint32:
		return widen(v), nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

func widen[T uint8 | uint16 | uint32](v []T) []int {
	result := make([]int, len(v))
	for i, x := range v {
		result[i] = int(x)
	}
	return result
}

// readAccessorData reads raw data from a GLTF accessor.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	if buffer.URI != "" && buffer.Data == nil {
		return nil, fmt.Errorf("external buffer %q not loaded", buffer.URI)
	}
	bufData := buffer.Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12 // 3 floats * 4 bytes
		}
		if start+(count-1)*stride+12 > len(bufData) && count > 0 {
			return nil, fmt.Errorf("accessor exceeds buffer")
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		if stride == 0 {
			switch accessor.ComponentType {
			case gltf.ComponentUbyte:
				stride = 1
			case gltf.ComponentUshort:
				stride = 2
			case gltf.ComponentUint:
				stride = 4
			}
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint16(bufData[offset]) | uint16(bufData[offset+1])<<8
			}
			return result, nil
		case gltf.ComponentUint:
			result := make([]uint32, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint32(bufData[offset]) |
					uint32(bufData[offset+1])<<8 |
					uint32(bufData[offset+2])<<16 |
					uint32(bufData[offset+3])<<24
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return float32frombits(bits)
}

// float32frombits converts bits to float32.
func float32frombits(b uint32) float32 {
	return *(*float32)(unsafe.Pointer(&b))
}

// ExportNode is one mesh placed in an exported scene.
type ExportNode struct {
	Name     string
	Mesh     *Mesh
	Position math3d.Vec3
	Rotation math3d.Vec3 // Euler angles, XYZ order
}

// SaveGLB writes nodes as a binary GLTF file, one mesh and node per entry.
func SaveGLB(path string, nodes []ExportNode) error {
	if len(nodes) == 0 {
		return fmt.Errorf("save %s: %w", path, ErrNoGeometry)
	}

	doc := gltf.NewDocument()
	for i, n := range nodes {
		positions := make([][3]float32, len(n.Mesh.Vertices))
		normals := make([][3]float32, len(n.Mesh.Vertices))
		for j, v := range n.Mesh.Vertices {
			positions[j] = [3]float32{float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z)}
			normals[j] = [3]float32{float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z)}
		}
		indices := make([]uint32, 0, len(n.Mesh.Faces)*3)
		for _, f := range n.Mesh.Faces {
			indices = append(indices, uint32(f.V[0]), uint32(f.V[1]), uint32(f.V[2]))
		}

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: n.Name,
			Primitives: []*gltf.Primitive{{
				Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
				Attributes: map[string]int{
					gltf.POSITION: modeler.WritePosition(doc, positions),
					gltf.NORMAL:   modeler.WriteNormal(doc, normals),
				},
			}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        n.Name,
			Mesh:        gltf.Index(i),
			Translation: [3]float64{n.Position.X, n.Position.Y, n.Position.Z},
			Rotation:    eulerToQuat(n.Rotation),
			Scale:       [3]float64{1, 1, 1},
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, i)
	}

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// eulerToQuat converts XYZ-order Euler angles to an (x, y, z, w) quaternion.
func eulerToQuat(e math3d.Vec3) [4]float64 {
	c1, s1 := math.Cos(e.X/2), math.Sin(e.X/2)
	c2, s2 := math.Cos(e.Y/2), math.Sin(e.Y/2)
	c3, s3 := math.Cos(e.Z/2), math.Sin(e.Z/2)
	return [4]float64{
		s1*c2*c3 + c1*s2*s3,
		c1*s2*c3 - s1*c2*s3,
		c1*c2*s3 + s1*s2*c3,
		c1*c2*c3 - s1*s2*s3,
	}
}
