package renderer

import (
	"sync"

	"Pomarin/internal/pipeline"
	"Pomarin/internal/shading"
)

const (
	cameraBlock = "camera"
	lightBlock  = "light"
)

// UniformCache holds the encoded uniform blocks bound for a frame, keyed by
// block name. Material blocks are encoded once and reused until invalidated.
type UniformCache struct {
	mu       sync.Mutex
	blocks   map[string][]byte
	pipeline string
}

// NewUniformCache creates a new uniform cache for one pipeline
func NewUniformCache(pipelineLabel string) *UniformCache {
	return &UniformCache{
		blocks:   make(map[string][]byte),
		pipeline: pipelineLabel,
	}
}

func materialBlock(name string) string {
	return "material:" + name
}

// Block returns a copy of the cached bytes for a block.
func (uc *UniformCache) Block(name string) ([]byte, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	b, ok := uc.blocks[name]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b...), true
}

// SetCamera encodes the camera block and returns it as the shader reads it.
func (uc *UniformCache) SetCamera(c shading.CameraUniform) (shading.CameraUniform, error) {
	buf := pipeline.EncodeCamera(c)
	uc.store(cameraBlock, buf)
	return pipeline.DecodeCamera(buf)
}

// SetLight encodes the light block and returns it as the shader reads it.
func (uc *UniformCache) SetLight(l shading.Light) (shading.Light, error) {
	buf := pipeline.EncodeLight(l)
	uc.store(lightBlock, buf)
	return pipeline.DecodeLight(buf)
}

// Material returns the cached block for m, encoding it on first use.
func (uc *UniformCache) Material(m *ColorMaterial) (shading.MaterialColor, error) {
	key := materialBlock(m.Name())

	uc.mu.Lock()
	buf, exists := uc.blocks[key]
	if !exists {
		buf = pipeline.EncodeMaterial(m.Uniform())
		uc.blocks[key] = buf
	}
	uc.mu.Unlock()

	return pipeline.DecodeMaterial(buf)
}

// Invalidate drops one material block, e.g. after its colors were edited.
func (uc *UniformCache) Invalidate(material string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.blocks, materialBlock(material))
}

func (uc *UniformCache) Len() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.blocks)
}

// Clear clears the cache (call when the pipeline changes)
func (uc *UniformCache) Clear() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.blocks = make(map[string][]byte)
}

func (uc *UniformCache) store(name string, buf []byte) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.blocks[name] = buf
}
