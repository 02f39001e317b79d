package renderer

import (
	"sort"
	"sync"

	"Pomarin/internal/pipeline"
)

// Store keeps every named resource a model can refer to.
type Store struct {
	mu        sync.RWMutex
	materials map[string]Material
	meshes    map[string]*Mesh
	pipelines map[string]*pipeline.Pipeline
	models    map[string]*Model
}

func NewStore() *Store {
	return &Store{
		materials: make(map[string]Material),
		meshes:    make(map[string]*Mesh),
		pipelines: make(map[string]*pipeline.Pipeline),
		models:    make(map[string]*Model),
	}
}

func (s *Store) AddMaterial(m Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials[m.Name()] = m
}

func (s *Store) Material(name string) (Material, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.materials[name]
	return m, ok
}

func (s *Store) AddMesh(m *Mesh) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meshes[m.Name] = m
}

func (s *Store) Mesh(name string) (*Mesh, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meshes[name]
	return m, ok
}

func (s *Store) AddPipeline(p *pipeline.Pipeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipelines[p.Label] = p
}

func (s *Store) Pipeline(name string) (*pipeline.Pipeline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pipelines[name]
	return p, ok
}

func (s *Store) AddModel(m *Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[m.Name] = m
}

func (s *Store) Model(name string) (*Model, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[name]
	return m, ok
}

// BuildModel resolves desc with NewModel and keeps the result.
func (s *Store) BuildModel(desc ModelDescriptor) (*Model, error) {
	m, err := NewModel(s, desc)
	if err != nil {
		return nil, err
	}
	s.AddModel(m)
	return m, nil
}

func (s *Store) MaterialNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.materials)
}

func (s *Store) MeshNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.meshes)
}

func (s *Store) PipelineNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.pipelines)
}

func (s *Store) ModelNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.models)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
