package renderer

import (
	"context"
	"time"
)

// RenderStats describes one frame.
type RenderStats struct {
	Draws     int
	Instances int
	Triangles int
	Culled    int
	Clipped   int
	Fragments int
	Duration  time.Duration
}

type Render interface {
	Init(cfg RenderConfig) error
	Render(ctx context.Context, camera *Camera, light *Light) (RenderStats, error)
	AddObject(object *Object)
	RemoveObject(object *Object)
	Framebuffer() *Framebuffer
	Cleanup()
}
