package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewDefaultCamera(t *testing.T) {
	cam := NewDefaultCamera(1600, 900)

	if cam == nil {
		t.Fatal("NewDefaultCamera returned nil")
	}

	if cam.Position == (mgl32.Vec3{0, 0, 0}) {
		t.Error("Camera position should not be at origin")
	}

	if cam.Fov != 45 || cam.Near != 1 || cam.Far != 1000 {
		t.Errorf("Unexpected perspective fov=%v near=%v far=%v", cam.Fov, cam.Near, cam.Far)
	}

	if !mgl32.FloatEqual(cam.AspectRatio, 16.0/9.0) {
		t.Errorf("Expected 16:9 aspect, got %v", cam.AspectRatio)
	}
}

func TestCameraGetViewMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 5}
	cam.Target = mgl32.Vec3{0, 0, 0}

	view := cam.GetViewMatrix()

	if view.At(3, 3) != 1.0 {
		t.Error("View matrix should be valid (w component = 1)")
	}

	eyeSpace := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !mgl32.FloatEqual(eyeSpace.Z(), -5) {
		t.Errorf("Target should sit 5 units down -Z in eye space, got %v", eyeSpace)
	}
}

func TestCameraGetProjectionMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	proj := cam.GetProjectionMatrix()

	if proj.At(3, 3) != 0.0 {
		t.Error("Perspective projection should have w=0 at (3,3)")
	}
}

func TestCameraDepthRange(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 0}
	cam.Target = mgl32.Vec3{0, 0, -1}

	vp := cam.GetViewProjection()
	near := vp.Mul4x1(mgl32.Vec4{0, 0, -cam.Near, 1})
	far := vp.Mul4x1(mgl32.Vec4{0, 0, -cam.Far, 1})

	if !floatNear(near.Z()/near.W(), 0, 1e-5) {
		t.Errorf("Near plane should map to depth 0, got %v", near.Z()/near.W())
	}
	if !mgl32.FloatEqualThreshold(far.Z()/far.W(), 1, 1e-4) {
		t.Errorf("Far plane should map to depth 1, got %v", far.Z()/far.W())
	}
}

func TestCameraUniform(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{1, 2, 3}

	u := cam.Uniform()

	if u.ViewPos != (mgl32.Vec4{1, 2, 3, 1}) {
		t.Errorf("Expected view_pos (1,2,3,1), got %v", u.ViewPos)
	}
	if u.ViewProj != cam.GetViewProjection() {
		t.Error("Uniform view_proj should match GetViewProjection")
	}
}

func TestCameraSetters(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	before := cam.Projection

	cam.SetFov(60)

	if cam.Projection == before {
		t.Error("SetFov should rebuild the projection")
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 10}
	cam.Target = mgl32.Vec3{0, 0, 0}

	frustum := cam.CalculateFrustum()

	if !frustum.IntersectsSphere(mgl32.Vec3{0, 0, 0}, 1) {
		t.Error("Sphere at the target should be visible")
	}
	if frustum.IntersectsSphere(mgl32.Vec3{0, 0, 20}, 1) {
		t.Error("Sphere behind the camera should be culled")
	}
	if frustum.IntersectsSphere(mgl32.Vec3{500, 0, 0}, 1) {
		t.Error("Sphere far to the side should be culled")
	}
}
