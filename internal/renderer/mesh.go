package renderer

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/shading"
)

// Geometry is a range of the index buffer drawn with a single material.
type Geometry struct {
	Name       string
	IndexStart uint32
	IndexCount uint32
}

type Mesh struct {
	Name       string
	Vertices   []shading.VertexInput
	Indices    []uint32
	Geometries []Geometry

	// Bounding sphere in model space, for frustum culling
	BoundingSphereCenter mgl32.Vec3
	BoundingSphereRadius float32
}

// NewMesh wraps vertices and indices. With no geometries given the whole
// index buffer becomes one geometry named after the mesh.
func NewMesh(name string, vertices []shading.VertexInput, indices []uint32, geometries ...Geometry) (*Mesh, error) {
	if len(geometries) == 0 {
		geometries = []Geometry{{Name: name, IndexStart: 0, IndexCount: uint32(len(indices))}}
	}
	m := &Mesh{Name: name, Vertices: vertices, Indices: indices, Geometries: geometries}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.CalculateBoundingSphere()
	return m, nil
}

func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %s: index count %d is not a multiple of 3", m.Name, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("mesh %s: index %d at %d is out of range (%d vertices)", m.Name, idx, i, len(m.Vertices))
		}
	}
	for _, g := range m.Geometries {
		end := uint64(g.IndexStart) + uint64(g.IndexCount)
		if end > uint64(len(m.Indices)) || g.IndexCount%3 != 0 {
			return fmt.Errorf("mesh %s: geometry %s covers indices [%d, %d) of %d", m.Name, g.Name, g.IndexStart, end, len(m.Indices))
		}
	}
	return nil
}

// GeometryIndices returns the index slice for one geometry.
func (m *Mesh) GeometryIndices(g Geometry) []uint32 {
	return m.Indices[g.IndexStart : g.IndexStart+g.IndexCount]
}

func (m *Mesh) CalculateBoundingSphere() {
	if len(m.Vertices) == 0 {
		m.BoundingSphereCenter = mgl32.Vec3{}
		m.BoundingSphereRadius = 0
		return
	}

	var center mgl32.Vec3
	for _, v := range m.Vertices {
		center = center.Add(v.Position)
	}
	center = center.Mul(1.0 / float32(len(m.Vertices)))

	var maxDistanceSq float32
	for _, v := range m.Vertices {
		if d := v.Position.Sub(center).LenSqr(); d > maxDistanceSq {
			maxDistanceSq = d
		}
	}

	m.BoundingSphereCenter = center
	m.BoundingSphereRadius = float32(math.Sqrt(float64(maxDistanceSq)))
}
