package renderer

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/pipeline"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore()
	store.AddPipeline(pipeline.MustBuild())
	store.AddMesh(quadMesh(t, "quad"))
	store.AddMaterial(NewColorMaterial("red", mgl32.Vec3{0.1, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 1}))
	tex, err := NewMaterialBuilder("brick").Kind(MaterialTexture).Textures("brick.png", "brick_n.png").Build()
	if err != nil {
		t.Fatalf("texture material: %v", err)
	}
	store.AddMaterial(tex)
	return store
}

func quadDescriptor(material string) ModelDescriptor {
	return ModelDescriptor{
		Name:      "tile",
		Mesh:      "quad",
		Materials: []GeometryMaterial{{Geometry: "quad", Material: material}},
		Pipeline:  "phong",
	}
}

func TestNewModel(t *testing.T) {
	store := testStore(t)

	model, err := store.BuildModel(quadDescriptor("red"))
	if err != nil {
		t.Fatalf("BuildModel failed: %v", err)
	}
	if len(model.Materials) != 1 || model.Materials[0].Name() != "red" {
		t.Errorf("Unexpected materials %v", model.Materials)
	}
	if got, ok := store.Model("tile"); !ok || got != model {
		t.Error("Built model should be kept in the store")
	}
}

func TestNewModelPipelineNotFound(t *testing.T) {
	store := testStore(t)
	desc := quadDescriptor("red")
	desc.Pipeline = "toon"
	desc.Materials = nil // also wrong, but the pipeline is checked first

	_, err := NewModel(store, desc)

	var merr *ModelError
	if !errors.As(err, &merr) || merr.Kind != ModelPipelineNotFound {
		t.Fatalf("Expected ModelPipelineNotFound, got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("Missing pipeline should match ErrNotFound")
	}
	want := "Pipeline toon not found in store while trying to build tile model description"
	if err.Error() != want {
		t.Errorf("Got %q, want %q", err.Error(), want)
	}
}

func TestNewModelInvalidMaterialCount(t *testing.T) {
	store := testStore(t)
	desc := quadDescriptor("red")
	desc.Materials = append(desc.Materials, GeometryMaterial{Geometry: "extra", Material: "red"})

	_, err := NewModel(store, desc)

	var merr *ModelError
	if !errors.As(err, &merr) || merr.Kind != ModelInvalidMaterialCount {
		t.Fatalf("Expected ModelInvalidMaterialCount, got %v", err)
	}
	want := "Materials count (2) does not match with geometries count (1) for model tile (mesh: quad)"
	if err.Error() != want {
		t.Errorf("Got %q, want %q", err.Error(), want)
	}
}

func TestNewModelMaterialNotSetForGeometry(t *testing.T) {
	store := testStore(t)
	desc := quadDescriptor("red")
	desc.Materials[0].Geometry = "other"

	_, err := NewModel(store, desc)

	var merr *ModelError
	if !errors.As(err, &merr) || merr.Kind != ModelMaterialNotSetForGeometry {
		t.Fatalf("Expected ModelMaterialNotSetForGeometry, got %v", err)
	}
	if err.Error() != "Material not set for geometry quad for model tile" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}

func TestNewModelTextureMaterialRejected(t *testing.T) {
	store := testStore(t)

	_, err := NewModel(store, quadDescriptor("brick"))

	var merr *ModelError
	if !errors.As(err, &merr) || merr.Kind != ModelInvalidMaterialAndPipeline {
		t.Fatalf("Expected ModelInvalidMaterialAndPipeline, got %v", err)
	}
	if merr.Pipeline != "phong" || merr.Reason == "" {
		t.Errorf("Error should name the pipeline and a reason, got %+v", merr)
	}
}

func TestNewModelUnknownMaterial(t *testing.T) {
	store := testStore(t)

	_, err := NewModel(store, quadDescriptor("gold"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStoreNamesSorted(t *testing.T) {
	store := NewStore()
	for _, name := range []string{"b", "c", "a"} {
		store.AddMaterial(NewColorMaterial(name, mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{}))
	}

	names := store.MaterialNames()
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestMeshValidate(t *testing.T) {
	mesh := quadMesh(t, "quad")
	if mesh.BoundingSphereRadius <= 1.4 || mesh.BoundingSphereRadius > 1.5 {
		t.Errorf("Expected radius sqrt(2), got %v", mesh.BoundingSphereRadius)
	}

	mesh.Indices = append(mesh.Indices, 0, 1, 9)
	if err := mesh.Validate(); err == nil {
		t.Error("Out of range index should fail validation")
	}

	mesh.Indices = mesh.Indices[:6]
	mesh.Geometries = []Geometry{{Name: "too_long", IndexStart: 3, IndexCount: 6}}
	if err := mesh.Validate(); err == nil {
		t.Error("Geometry past the index buffer should fail validation")
	}
}
