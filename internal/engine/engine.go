package engine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"Pomarin/internal/behaviour"
	"Pomarin/internal/logger"
	"Pomarin/internal/renderer"
	"Pomarin/internal/scene"
)

// fixedUpdateInterval is how many frames pass between FixedUpdate calls.
const fixedUpdateInterval = 2

// Engine drives a renderer without a window: every frame updates the
// behaviours, applies the orbit controls and renders into the framebuffer.
type Engine struct {
	Config     renderer.RenderConfig
	Camera     *renderer.Camera
	Light      *renderer.Light
	Orbit      *renderer.OrbitController
	Behaviours *behaviour.ComponentManager

	rendererAPI      renderer.Render
	objects          []*renderer.Object
	frameTrackId     int
	frames           int
	onRenderCallback func(frame int, stats renderer.RenderStats) // called after each rendered frame
}

// NewEngine initializes a software renderer for cfg. The camera comes from
// the config and the light from renderer.NewDefaultLight.
func NewEngine(cfg renderer.RenderConfig) (*Engine, error) {
	return NewEngineWithRenderer(cfg, renderer.NewSoftwareRenderer())
}

func NewEngineWithRenderer(cfg renderer.RenderConfig, rendererAPI renderer.Render) (*Engine, error) {
	logger.Log.Info("Engine initializing...",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height))

	if err := rendererAPI.Init(cfg); err != nil {
		return nil, err
	}
	return &Engine{
		Config:      cfg,
		Camera:      renderer.NewCameraFromConfig(cfg),
		Light:       renderer.NewDefaultLight(),
		Orbit:       renderer.NewOrbitController(cfg.Camera.OrbitSpeed),
		Behaviours:  behaviour.NewComponentManager(),
		rendererAPI: rendererAPI,
	}, nil
}

// LoadScene adds every object of sc, registers its scripted game objects
// and takes over its light.
func (e *Engine) LoadScene(sc *scene.Scene) {
	e.AddObjectBatch(sc.Objects)
	for _, obj := range sc.GameObjects {
		e.Behaviours.RegisterGameObject(obj)
	}
	if sc.Light != nil {
		e.Light = sc.Light
	}
	logger.Log.Info("Scene loaded",
		zap.Int("objects", len(sc.Objects)),
		zap.Int("gameObjects", len(sc.GameObjects)))
}

func (e *Engine) AddObject(object *renderer.Object) {
	e.objects = append(e.objects, object)
	e.rendererAPI.AddObject(object)
}

func (e *Engine) AddObjectBatch(objects []*renderer.Object) {
	for _, object := range objects {
		e.AddObject(object)
	}
}

func (e *Engine) RemoveObject(object *renderer.Object) {
	for i, o := range e.objects {
		if o == object {
			e.objects = append(e.objects[:i], e.objects[i+1:]...)
			break
		}
	}
	e.rendererAPI.RemoveObject(object)
}

func (e *Engine) Objects() []*renderer.Object {
	return e.objects
}

// SetOnRenderCallback sets a callback that will be called after every frame.
func (e *Engine) SetOnRenderCallback(callback func(frame int, stats renderer.RenderStats)) {
	e.onRenderCallback = callback
}

// GetRenderer returns the renderer API (for tools that need the framebuffer or captures).
func (e *Engine) GetRenderer() renderer.Render {
	return e.rendererAPI
}

// Frames is the number of frames rendered so far.
func (e *Engine) Frames() int {
	return e.frames
}

// RenderFrame advances the simulation by dt seconds and renders one frame.
func (e *Engine) RenderFrame(ctx context.Context, dt float32) (renderer.RenderStats, error) {
	if !e.Orbit.Idle() {
		e.Orbit.Update(e.Camera)
	}

	if e.frameTrackId >= fixedUpdateInterval {
		e.Behaviours.FixedUpdateAll(dt * fixedUpdateInterval)
		e.frameTrackId = 0
	}
	e.Behaviours.UpdateAll(dt)

	stats, err := e.rendererAPI.Render(ctx, e.Camera, e.Light)
	if err != nil {
		return stats, err
	}

	e.frameTrackId++
	e.frames++
	if e.onRenderCallback != nil {
		e.onRenderCallback(e.frames, stats)
	}
	return stats, nil
}

// Run renders frames at a fixed dt until the count is reached or ctx is
// done. A frames value of 0 or less runs until cancellation.
func (e *Engine) Run(ctx context.Context, frames int, dt float32) error {
	start := time.Now()
	var total renderer.RenderStats
	rendered := 0

	for frames <= 0 || rendered < frames {
		stats, err := e.RenderFrame(ctx, dt)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.Log.Info("Render loop stopped", zap.Int("frames", rendered), zap.Error(err))
			}
			return err
		}
		rendered++
		total.Draws += stats.Draws
		total.Fragments += stats.Fragments

		logger.Log.Debug("Frame",
			zap.Int("frame", e.frames),
			zap.Duration("duration", stats.Duration),
			zap.Int("draws", stats.Draws),
			zap.Int("instances", stats.Instances),
			zap.Int("fragments", stats.Fragments))
	}

	elapsed := time.Since(start)
	fps := 0.0
	if elapsed > 0 {
		fps = float64(rendered) / elapsed.Seconds()
	}
	logger.Log.Info("Render loop finished",
		zap.Int("frames", rendered),
		zap.Duration("elapsed", elapsed),
		zap.Float64("fps", fps),
		zap.Int("draws", total.Draws),
		zap.Int("fragments", total.Fragments))
	return nil
}

// Pick returns the nearest object under the pixel (x, y) of the framebuffer.
func (e *Engine) Pick(x, y float32) (renderer.Hit, bool) {
	return renderer.Pick(e.Camera, e.objects, x, y, e.Config.Width, e.Config.Height)
}

// Snapshot writes the current framebuffer as a PNG.
func (e *Engine) Snapshot(path string) error {
	fb := e.rendererAPI.Framebuffer()
	if fb == nil {
		return renderer.ErrNotInitialized
	}
	return fb.WritePNG(path)
}

// Cleanup stops the renderer and destroys every game object.
func (e *Engine) Cleanup() {
	e.Behaviours.Clear()
	e.rendererAPI.Cleanup()
	e.objects = nil
}
