package renderer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"Pomarin/internal/logger"
)

// Replay redraws a captured frame from its buffers alone, without the
// scene that produced it. Every uniform block is validated first; an
// instance that fails ValidateInstance is skipped as Render would.
func (r *SoftwareRenderer) Replay(ctx context.Context, c *Capture) (RenderStats, error) {
	var stats RenderStats
	if r.fb == nil || r.pool == nil {
		return stats, ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	start := time.Now()

	camU, lightU, err := c.Uniforms()
	if err != nil {
		return stats, fmt.Errorf("replay: %w", err)
	}

	r.fb.Clear(r.cfg.Background())
	tiles := newTiles(r.fb.Width, r.fb.Height, r.cfg.TileSize)
	setup := &rasterSetup{width: r.fb.Width, height: r.fb.Height, cullBack: r.cfg.FaceCulling}

	for i := range c.Draws {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		d := &c.Draws[i]
		vertices, instances, mat, err := d.Decode()
		if err != nil {
			return stats, fmt.Errorf("replay: %w", err)
		}
		if err := ValidateUniforms(camU, lightU, mat); err != nil {
			return stats, fmt.Errorf("replay draw %s/%s: %w", d.Model, d.Geometry, err)
		}
		for _, idx := range d.Indices {
			if int(idx) >= len(vertices) {
				return stats, fmt.Errorf("replay draw %s/%s: %w: index %d of %d vertices",
					d.Model, d.Geometry, ErrCorruptCapture, idx, len(vertices))
			}
		}

		valid := instances[:0]
		for _, inst := range instances {
			if err := ValidateInstance(inst); err != nil {
				logger.Log.Warn("Skipping captured instance", zap.String("model", d.Model), zap.Error(err))
				continue
			}
			valid = append(valid, inst)
		}

		outputs, err := r.shadeVertices(ctx, camU, vertices, valid)
		if err != nil {
			return stats, err
		}
		binTriangles(setup, tiles, outputs, d.Indices, mat)
		stats.Draws++
		stats.Instances += len(valid)
	}

	if err := r.rasterizeTiles(ctx, tiles, camU, lightU); err != nil {
		return stats, err
	}
	stats.collect(setup, tiles)
	stats.Duration = time.Since(start)

	logger.Log.Debug("Capture replayed",
		zap.Int("draws", stats.Draws),
		zap.Int("triangles", stats.Triangles),
		zap.Int("fragments", stats.Fragments))
	return stats, nil
}
