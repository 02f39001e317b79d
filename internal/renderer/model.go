package renderer

import (
	"errors"
	"fmt"

	"Pomarin/internal/pipeline"
)

// GeometryMaterial binds one geometry of a mesh to a material by name.
type GeometryMaterial struct {
	Geometry string `yaml:"geometry"`
	Material string `yaml:"material"`
}

// ModelDescriptor names the parts a model is assembled from. All of them
// must already be in the store.
type ModelDescriptor struct {
	Name      string             `yaml:"name"`
	Mesh      string             `yaml:"mesh"`
	Materials []GeometryMaterial `yaml:"materials"`
	Pipeline  string             `yaml:"pipeline"`
}

// Model is a mesh ready to draw: one material per geometry and a pipeline
// that accepts every one of them.
type Model struct {
	Name      string
	Mesh      *Mesh
	Pipeline  *pipeline.Pipeline
	Materials []Material // indexed like Mesh.Geometries
}

type ModelErrorKind int

const (
	ModelPipelineNotFound ModelErrorKind = iota
	ModelInvalidMaterialCount
	ModelInvalidMaterialAndPipeline
	ModelMaterialNotSetForGeometry
)

var ErrNotFound = errors.New("not found in store")

type ModelError struct {
	Kind     ModelErrorKind
	Model    string
	Mesh     string
	Pipeline string
	Geometry string
	Reason   string

	MaterialCount int
	GeometryCount int
}

func (e *ModelError) Error() string {
	switch e.Kind {
	case ModelPipelineNotFound:
		return fmt.Sprintf("Pipeline %s not found in store while trying to build %s model description", e.Pipeline, e.Model)
	case ModelInvalidMaterialCount:
		return fmt.Sprintf("Materials count (%d) does not match with geometries count (%d) for model %s (mesh: %s)",
			e.MaterialCount, e.GeometryCount, e.Model, e.Mesh)
	case ModelInvalidMaterialAndPipeline:
		return fmt.Sprintf("Invalid materials configuration for model %s using pipeline %s: %s", e.Model, e.Pipeline, e.Reason)
	case ModelMaterialNotSetForGeometry:
		return fmt.Sprintf("Material not set for geometry %s for model %s", e.Geometry, e.Model)
	}
	return fmt.Sprintf("model %s: unknown error", e.Model)
}

func (e *ModelError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == ModelPipelineNotFound
}

// NewModel resolves a descriptor against the store. The pipeline is looked
// up first, then the material count, the per-geometry assignment and
// finally whether the pipeline can bind each material kind.
func NewModel(store *Store, desc ModelDescriptor) (*Model, error) {
	p, ok := store.Pipeline(desc.Pipeline)
	if !ok {
		return nil, &ModelError{Kind: ModelPipelineNotFound, Model: desc.Name, Pipeline: desc.Pipeline}
	}

	mesh, ok := store.Mesh(desc.Mesh)
	if !ok {
		return nil, fmt.Errorf("model %s: mesh %s: %w", desc.Name, desc.Mesh, ErrNotFound)
	}

	if len(desc.Materials) != len(mesh.Geometries) {
		return nil, &ModelError{
			Kind:          ModelInvalidMaterialCount,
			Model:         desc.Name,
			Mesh:          desc.Mesh,
			MaterialCount: len(desc.Materials),
			GeometryCount: len(mesh.Geometries),
		}
	}

	byGeometry := make(map[string]string, len(desc.Materials))
	for _, gm := range desc.Materials {
		byGeometry[gm.Geometry] = gm.Material
	}

	materials := make([]Material, len(mesh.Geometries))
	for i, g := range mesh.Geometries {
		name, ok := byGeometry[g.Name]
		if !ok {
			return nil, &ModelError{Kind: ModelMaterialNotSetForGeometry, Model: desc.Name, Geometry: g.Name}
		}
		m, ok := store.Material(name)
		if !ok {
			return nil, fmt.Errorf("model %s: material %s: %w", desc.Name, name, ErrNotFound)
		}
		materials[i] = m
	}

	for _, m := range materials {
		if reason, ok := accepts(p, m); !ok {
			return nil, &ModelError{Kind: ModelInvalidMaterialAndPipeline, Model: desc.Name, Pipeline: desc.Pipeline, Reason: reason}
		}
	}

	return &Model{Name: desc.Name, Mesh: mesh, Pipeline: p, Materials: materials}, nil
}

func accepts(p *pipeline.Pipeline, m Material) (string, bool) {
	switch m.Kind() {
	case MaterialColor:
		if !p.AcceptsColorMaterial() {
			return fmt.Sprintf("material %s is %s but the pipeline binds no color block", m.Name(), m.Kind()), false
		}
		return "", true
	default:
		return fmt.Sprintf("material %s is %s, only %s is supported", m.Name(), m.Kind(), MaterialColor), false
	}
}
