package behaviour

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/renderer"
)

func TestNewGameObject(t *testing.T) {
	obj := NewGameObject("TestObject")

	if obj == nil {
		t.Fatal("NewGameObject returned nil")
	}

	if obj.Name != "TestObject" {
		t.Errorf("Expected name 'TestObject', got '%s'", obj.Name)
	}

	if !obj.Active {
		t.Error("New GameObject should be active by default")
	}

	if obj.Transform == nil {
		t.Fatal("Transform should not be nil")
	}

	if obj.Transform.Position != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("Expected position (0,0,0), got %v", obj.Transform.Position)
	}

	if obj.Transform.Scale != 1 {
		t.Errorf("Expected scale 1, got %v", obj.Transform.Scale)
	}
}

func TestTransformSetPosition(t *testing.T) {
	transform := &Transform{Rotation: mgl32.QuatIdent(), Scale: 1}

	transform.SetPosition(mgl32.Vec3{10, 20, 30})

	if transform.Position != (mgl32.Vec3{10, 20, 30}) {
		t.Errorf("Expected position (10,20,30), got %v", transform.Position)
	}
}

func TestTransformTranslate(t *testing.T) {
	transform := &Transform{
		Position: mgl32.Vec3{5, 5, 5},
		Rotation: mgl32.QuatIdent(),
		Scale:    1,
	}

	transform.Translate(mgl32.Vec3{1, 2, 3})

	expected := mgl32.Vec3{6, 7, 8}
	if transform.Position != expected {
		t.Errorf("Expected position %v, got %v", expected, transform.Position)
	}
}

func TestTransformRotate(t *testing.T) {
	transform := &Transform{Rotation: mgl32.QuatIdent(), Scale: 1}

	transform.Rotate(mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(90))

	forward := transform.Forward()
	if !vecNear(forward, mgl32.Vec3{-1, 0, 0}, 1e-5) {
		t.Errorf("Expected forward (-1,0,0) after 90 degree yaw, got %v", forward)
	}
}

type MockComponent struct {
	BaseComponent
	awakeCalled   bool
	startCalled   int
	updateCalled  bool
	fixedCalled   bool
	destroyCalled bool
	lastDt        float32
}

func (m *MockComponent) Awake() {
	m.awakeCalled = true
}

func (m *MockComponent) Start() {
	m.startCalled++
}

func (m *MockComponent) Update(dt float32) {
	m.updateCalled = true
	m.lastDt = dt
}

func (m *MockComponent) FixedUpdate(dt float32) {
	m.fixedCalled = true
}

func (m *MockComponent) OnDestroy() {
	m.destroyCalled = true
}

func TestGameObjectAddComponent(t *testing.T) {
	obj := NewGameObject("Test")
	comp := &MockComponent{}

	obj.AddComponent(comp)

	if len(obj.Components) != 1 {
		t.Errorf("Expected 1 component, got %d", len(obj.Components))
	}

	if comp.GetGameObject() != obj {
		t.Error("Component's GameObject reference not set correctly")
	}

	if !comp.awakeCalled {
		t.Error("Awake() should run when the component is attached")
	}

	if !comp.GetEnabled() {
		t.Error("Attached component should be enabled")
	}
}

func TestGameObjectRemoveComponent(t *testing.T) {
	obj := NewGameObject("Test")
	comp := &MockComponent{}

	obj.AddComponent(comp)
	obj.RemoveComponent(comp)

	if len(obj.Components) != 0 {
		t.Errorf("Expected 0 components after removal, got %d", len(obj.Components))
	}

	if !comp.destroyCalled {
		t.Error("OnDestroy() should run when the component is removed")
	}
}

func TestGetComponent(t *testing.T) {
	obj := NewGameObject("Test")
	spinner := NewSpinner(mgl32.Vec3{0, 1, 0}, 90)
	obj.AddComponent(&MockComponent{})
	obj.AddComponent(spinner)

	got, ok := GetComponent[*Spinner](obj)
	if !ok || got != spinner {
		t.Error("GetComponent should find the spinner")
	}

	if _, ok := GetComponent[*LightOrbit](obj); ok {
		t.Error("GetComponent should not find a missing component type")
	}
}

func TestStartRunsOnce(t *testing.T) {
	obj := NewGameObject("Test")
	comp := &MockComponent{}
	obj.AddComponent(comp)

	obj.internalUpdate(0.1)
	obj.internalUpdate(0.1)

	if comp.startCalled != 1 {
		t.Errorf("Expected Start() once, got %d", comp.startCalled)
	}
	if comp.lastDt != 0.1 {
		t.Errorf("Expected dt 0.1, got %v", comp.lastDt)
	}
}

func TestDisabledComponentSkipped(t *testing.T) {
	obj := NewGameObject("Test")
	comp := &MockComponent{}
	obj.AddComponent(comp)
	comp.SetEnabled(false)

	obj.internalUpdate(0.1)

	if comp.updateCalled {
		t.Error("Update() should not run on a disabled component")
	}
}

func TestGameObjectDrivesRendererObject(t *testing.T) {
	object := renderer.NewObject("cube", nil)
	object.Position = mgl32.Vec3{1, 2, 3}
	object.MeshScale = 2

	obj := NewGameObjectFor(object)
	if obj.Transform.Position != object.Position {
		t.Errorf("Expected transform to start at %v, got %v", object.Position, obj.Transform.Position)
	}
	if obj.Transform.Scale != 2 {
		t.Errorf("Expected transform scale 2, got %v", obj.Transform.Scale)
	}

	obj.AddComponent(NewSpinner(mgl32.Vec3{0, 1, 0}, 90))
	obj.internalUpdate(1)

	forward := object.Orientation.Rotate(mgl32.Vec3{0, 0, -1})
	if !vecNear(forward, mgl32.Vec3{-1, 0, 0}, 1e-5) {
		t.Errorf("Expected object to have turned 90 degrees, forward is %v", forward)
	}
	if object.Position != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Spinner should not move the object, got %v", object.Position)
	}
}

func TestLightOrbitAdvancesLight(t *testing.T) {
	light := renderer.NewDefaultLight()
	before := light.Position

	obj := NewGameObject("Sun")
	obj.AddComponent(&LightOrbit{Light: light})
	obj.internalUpdate(0.5)

	if light.Position.ApproxEqualThreshold(before, 1e-6) {
		t.Error("LightOrbit should move the light")
	}
	if d := light.Position.Len() - before.Len(); d > 1e-4 || d < -1e-4 {
		t.Errorf("Orbit should keep the light's distance, changed by %v", d)
	}
}

func vecNear(a, b mgl32.Vec3, tol float32) bool {
	for i := range a {
		if mgl32.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
