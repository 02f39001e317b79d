package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/shading"
)

// quadMesh is a 2x2 square in the XY plane facing +Z.
func quadMesh(t *testing.T, name string) *Mesh {
	t.Helper()
	normal := mgl32.Vec3{0, 0, 1}
	vertices := []shading.VertexInput{
		{Position: mgl32.Vec3{-1, -1, 0}, UV: mgl32.Vec3{0, 1, 0}, Normal: normal},
		{Position: mgl32.Vec3{1, -1, 0}, UV: mgl32.Vec3{1, 1, 0}, Normal: normal},
		{Position: mgl32.Vec3{1, 1, 0}, UV: mgl32.Vec3{1, 0, 0}, Normal: normal},
		{Position: mgl32.Vec3{-1, 1, 0}, UV: mgl32.Vec3{0, 0, 0}, Normal: normal},
	}
	mesh, err := NewMesh(name, vertices, []uint32{0, 1, 2, 0, 2, 3})
	if err != nil {
		t.Fatalf("NewMesh failed: %v", err)
	}
	return mesh
}

func colorModel(t *testing.T, name string, diffuse mgl32.Vec3) *Model {
	t.Helper()
	return &Model{
		Name:      name,
		Mesh:      quadMesh(t, name),
		Materials: []Material{NewColorMaterial(name, diffuse.Mul(0.1), diffuse, mgl32.Vec3{})},
	}
}

func testConfig() RenderConfig {
	cfg := DefaultRenderConfig()
	cfg.Width = 64
	cfg.Height = 64
	cfg.TileSize = 16
	cfg.Workers = 2
	return cfg
}

// frontCamera looks down -Z at the origin from (0, 0, 5).
func frontCamera(cfg RenderConfig) *Camera {
	cam := NewCameraFromConfig(cfg)
	cam.Position = mgl32.Vec3{0, 0, 5}
	cam.Target = mgl32.Vec3{0, 0, 0}
	return cam
}

func frontLight() *Light {
	light := NewDefaultLight()
	light.Position = mgl32.Vec3{0, 0, 5}
	return light
}

func newTestRenderer(t *testing.T, cfg RenderConfig) *SoftwareRenderer {
	t.Helper()
	r := NewSoftwareRenderer()
	if err := r.Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(r.Cleanup)
	return r
}

// vecNear compares component-wise with an absolute tolerance, so expected
// zeros tolerate rounding residue.
func vecNear(a, b mgl32.Vec3, tol float32) bool {
	for i := range a {
		if !floatNear(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

func matNear(a, b mgl32.Mat3, tol float32) bool {
	for i := range a {
		if !floatNear(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

func floatNear(a, b, tol float32) bool {
	return mgl32.Abs(a-b) <= tol
}
