package renderer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"Pomarin/internal/logger"
	"Pomarin/internal/pipeline"
	"Pomarin/internal/shading"
)

var ErrNotInitialized = errors.New("renderer not initialized")

// SoftwareRenderer runs the Phong pipeline on the CPU. Vertices are
// shaded per instance and fragments per tile, both on a worker pool.
type SoftwareRenderer struct {
	cfg    RenderConfig
	shader shading.Shader
	fb     *Framebuffer
	pool   pond.Pool
	cache  *UniformCache

	mu      sync.Mutex
	objects []*Object

	// Set when a capture was requested for the next frame
	captureNext bool
	lastCapture *Capture
}

var _ Render = (*SoftwareRenderer)(nil)

func NewSoftwareRenderer() *SoftwareRenderer {
	return &SoftwareRenderer{}
}

func (r *SoftwareRenderer) Init(cfg RenderConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("software renderer: %w", err)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if r.pool != nil {
		r.pool.StopAndWait()
	}

	r.cfg = cfg
	r.shader = shading.Shader{Options: cfg.ShaderOptions()}
	r.fb = NewFramebuffer(cfg.Width, cfg.Height)
	r.fb.Clear(cfg.Background())
	r.pool = pond.NewPool(workers)
	r.cache = NewUniformCache("phong")

	logger.Log.Info("Software renderer initialized",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("tile_size", cfg.TileSize),
		zap.Int("workers", workers),
		zap.String("normal_mode", cfg.NormalMode.String()))
	return nil
}

func (r *SoftwareRenderer) AddObject(object *Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects = append(r.objects, object)
}

func (r *SoftwareRenderer) RemoveObject(object *Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.objects {
		if o == object {
			r.objects = append(r.objects[:i], r.objects[i+1:]...)
			return
		}
	}
}

func (r *SoftwareRenderer) Objects() []*Object {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Object(nil), r.objects...)
}

func (r *SoftwareRenderer) Framebuffer() *Framebuffer {
	return r.fb
}

// UniformCache exposes the encoded blocks, e.g. to invalidate a material
// after editing it.
func (r *SoftwareRenderer) UniformCache() *UniformCache {
	return r.cache
}

// CaptureNextFrame records the buffers of the next rendered frame.
func (r *SoftwareRenderer) CaptureNextFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captureNext = true
}

// LastCapture returns the most recent capture, or nil.
func (r *SoftwareRenderer) LastCapture() *Capture {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastCapture
}

func (r *SoftwareRenderer) Cleanup() {
	if r.pool != nil {
		r.pool.StopAndWait()
		r.pool = nil
	}
	if r.cache != nil {
		r.cache.Clear()
	}
	r.mu.Lock()
	r.objects = nil
	r.mu.Unlock()
}

// batch is every visible instance of one model.
type batch struct {
	model     *Model
	instances []shading.InstanceInput
}

func (r *SoftwareRenderer) batches(frustum *Frustum) []batch {
	var order []*Model
	byModel := make(map[*Model]*batch)

	for _, o := range r.Objects() {
		if o.Model == nil {
			continue
		}
		inst := o.Instance()
		if err := ValidateInstance(inst); err != nil {
			logger.Log.Warn("Skipping object", zap.String("object", o.Name), zap.Error(err))
			continue
		}
		if frustum != nil && !visible(frustum, o) {
			continue
		}
		b, ok := byModel[o.Model]
		if !ok {
			b = &batch{model: o.Model}
			byModel[o.Model] = b
			order = append(order, o.Model)
		}
		b.instances = append(b.instances, inst)
	}

	batches := make([]batch, len(order))
	for i, m := range order {
		batches[i] = *byModel[m]
	}
	return batches
}

func visible(frustum *Frustum, o *Object) bool {
	mesh := o.Model.Mesh
	center := o.ModelMatrix().Mul4x1(mesh.BoundingSphereCenter.Vec4(1)).Vec3()
	scale := o.MeshScale
	if scale < 0 {
		scale = -scale
	}
	return frustum.IntersectsSphere(center, mesh.BoundingSphereRadius*scale)
}

// Render draws every object into the framebuffer. The frame is abandoned
// with ctx.Err() if the context is cancelled.
func (r *SoftwareRenderer) Render(ctx context.Context, camera *Camera, light *Light) (RenderStats, error) {
	var stats RenderStats
	if r.fb == nil || r.pool == nil {
		return stats, ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	start := time.Now()

	camU, lightU := camera.Uniform(), light.Uniform()
	if err := errors.Join(ValidateCamera(camU), ValidateLight(lightU)); err != nil {
		return stats, err
	}
	camU, err := r.cache.SetCamera(camU)
	if err != nil {
		return stats, err
	}
	lightU, err = r.cache.SetLight(lightU)
	if err != nil {
		return stats, err
	}

	var frustum *Frustum
	if r.cfg.FrustumCulling {
		f := camera.CalculateFrustum()
		frustum = &f
	}

	r.mu.Lock()
	capturing := r.captureNext
	r.captureNext = false
	r.mu.Unlock()
	var capture *Capture
	if capturing {
		capture = &Capture{
			Camera: pipeline.EncodeCamera(camU),
			Light:  pipeline.EncodeLight(lightU),
		}
	}

	r.fb.Clear(r.cfg.Background())
	tiles := newTiles(r.fb.Width, r.fb.Height, r.cfg.TileSize)
	setup := &rasterSetup{width: r.fb.Width, height: r.fb.Height, cullBack: r.cfg.FaceCulling}

	for _, b := range r.batches(frustum) {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		mesh := b.model.Mesh
		outputs, err := r.shadeVertices(ctx, camU, mesh.Vertices, b.instances)
		if err != nil {
			return stats, err
		}

		for g, geometry := range mesh.Geometries {
			mat, err := r.materialUniform(b.model, g)
			if err != nil {
				return stats, err
			}
			if capture != nil {
				capture.Draws = append(capture.Draws, newDrawCapture(b, geometry, mat))
			}
			binTriangles(setup, tiles, outputs, mesh.GeometryIndices(geometry), mat)
			stats.Draws++
		}
		stats.Instances += len(b.instances)
	}

	if err := r.rasterizeTiles(ctx, tiles, camU, lightU); err != nil {
		return stats, err
	}
	stats.collect(setup, tiles)
	stats.Duration = time.Since(start)

	if capture != nil {
		r.mu.Lock()
		r.lastCapture = capture
		r.mu.Unlock()
	}

	logger.Log.Debug("Frame rendered",
		zap.Int("draws", stats.Draws),
		zap.Int("instances", stats.Instances),
		zap.Int("triangles", stats.Triangles),
		zap.Int("culled", stats.Culled),
		zap.Int("fragments", stats.Fragments),
		zap.Duration("duration", stats.Duration))
	return stats, nil
}

// shadeVertices runs the vertex stage for every instance, one task per
// instance.
func (r *SoftwareRenderer) shadeVertices(ctx context.Context, cam shading.CameraUniform,
	vertices []shading.VertexInput, instances []shading.InstanceInput) ([][]shading.VertexOutput, error) {
	outputs := make([][]shading.VertexOutput, len(instances))

	group := r.pool.NewGroup()
	for i, inst := range instances {
		i, inst := i, inst
		group.SubmitErr(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out := make([]shading.VertexOutput, len(vertices))
			for v := range vertices {
				out[v] = r.shader.Vertex(cam, vertices[v], inst)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// binTriangles assembles every instance's triangles and hands each one to
// the tiles it overlaps.
func binTriangles(setup *rasterSetup, tiles []*tile, outputs [][]shading.VertexOutput, indices []uint32, mat shading.MaterialColor) {
	for _, out := range outputs {
		for i := 0; i+2 < len(indices); i += 3 {
			for _, tri := range setup.Setup(out[indices[i]], out[indices[i+1]], out[indices[i+2]], mat) {
				for _, t := range tiles {
					if t.overlaps(tri) {
						t.Triangles = append(t.Triangles, tri)
					}
				}
			}
		}
	}
}

func (r *SoftwareRenderer) rasterizeTiles(ctx context.Context, tiles []*tile, cam shading.CameraUniform, light shading.Light) error {
	fs := &fragmentState{shader: r.shader, camera: cam, light: light, compare: r.cfg.DepthCompare}
	group := r.pool.NewGroup()
	for _, t := range tiles {
		if len(t.Triangles) == 0 {
			continue
		}
		t := t
		group.SubmitErr(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t.Rasterize(r.fb, fs)
			return nil
		})
	}
	return group.Wait()
}

func (r *SoftwareRenderer) materialUniform(model *Model, geometry int) (shading.MaterialColor, error) {
	cm, ok := model.Materials[geometry].(*ColorMaterial)
	if !ok {
		return shading.MaterialColor{}, fmt.Errorf("model %s: material %s is %s", model.Name,
			model.Materials[geometry].Name(), model.Materials[geometry].Kind())
	}
	if err := ValidateMaterial(cm.Uniform()); err != nil {
		return shading.MaterialColor{}, fmt.Errorf("model %s: %w", model.Name, err)
	}
	return r.cache.Material(cm)
}

// Background is the clear color of the current configuration.
func (r *SoftwareRenderer) Background() mgl32.Vec4 {
	return r.cfg.Background()
}
