package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func orbitCamera() *Camera {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 10}
	cam.Target = mgl32.Vec3{0, 0, 0}
	return cam
}

func TestOrbitControllerKeepsRadius(t *testing.T) {
	for _, key := range []OrbitKey{KeyLeft, KeyRight, KeyUp, KeyDown} {
		cam := orbitCamera()
		ctrl := NewOrbitController(1)
		ctrl.SetKey(key, true)

		ctrl.Update(cam)

		if cam.Position == (mgl32.Vec3{0, 0, 10}) {
			t.Errorf("Key %d should move the camera", key)
		}
		if d := cam.Position.Sub(cam.Target).Len(); !mgl32.FloatEqualThreshold(d, 10, 1e-4) {
			t.Errorf("Key %d changed the radius to %v", key, d)
		}
	}
}

func TestOrbitControllerZoom(t *testing.T) {
	cam := orbitCamera()
	ctrl := NewOrbitController(1)

	ctrl.Forward = true
	ctrl.Update(cam)
	if !vecNear(cam.Position, mgl32.Vec3{0, 0, 9}, 1e-5) {
		t.Errorf("Forward should move one step closer, got %v", cam.Position)
	}

	ctrl.Forward = false
	ctrl.Backward = true
	ctrl.Update(cam)
	ctrl.Update(cam)
	if !vecNear(cam.Position, mgl32.Vec3{0, 0, 11}, 1e-5) {
		t.Errorf("Backward should move away, got %v", cam.Position)
	}
}

func TestOrbitControllerStopsBeforeTarget(t *testing.T) {
	cam := orbitCamera()
	cam.Position = mgl32.Vec3{0, 0, 0.5}
	ctrl := NewOrbitController(1)
	ctrl.Forward = true

	ctrl.Update(cam)

	if cam.Position != (mgl32.Vec3{0, 0, 0.5}) {
		t.Errorf("Forward closer than one step should be refused, got %v", cam.Position)
	}
}

func TestOrbitControllerIdle(t *testing.T) {
	ctrl := NewOrbitController(1)
	if !ctrl.Idle() {
		t.Error("New controller should be idle")
	}
	ctrl.SetKey(KeyDown, true)
	if ctrl.Idle() {
		t.Error("Controller with a pressed key should not be idle")
	}
	ctrl.SetKey(KeyDown, false)
	if !ctrl.Idle() {
		t.Error("Releasing the key should make it idle again")
	}
}

func TestParseOrbitKey(t *testing.T) {
	cases := map[string]OrbitKey{
		"W": KeyForward, "Up": KeyForward,
		"s": KeyBackward, "a": KeyLeft, "Right": KeyRight,
		"H": KeyUp, "L": KeyDown,
	}
	for name, want := range cases {
		got, ok := ParseOrbitKey(name)
		if !ok || got != want {
			t.Errorf("ParseOrbitKey(%q) = %v, %v; want %v", name, got, ok, want)
		}
	}
	if _, ok := ParseOrbitKey("q"); ok {
		t.Error("Unbound key should not parse")
	}
}
