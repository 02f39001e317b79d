package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/shading"
)

// screenVertex is a clipped vertex after the perspective divide. The
// interpolated outputs are kept so fragments can be reconstructed.
type screenVertex struct {
	x, y, z float32
	invW    float32
	out     shading.VertexOutput
}

type triangle struct {
	v        [3]screenVertex
	area     float32
	material shading.MaterialColor

	minX, minY, maxX, maxY int
}

type tile struct {
	X0, Y0, X1, Y1 int
	Triangles      []*triangle
	Fragments      int
}

func newTiles(width, height, size int) []*tile {
	var tiles []*tile
	for y := 0; y < height; y += size {
		for x := 0; x < width; x += size {
			tiles = append(tiles, &tile{
				X0: x, Y0: y,
				X1: min(x+size, width), Y1: min(y+size, height),
			})
		}
	}
	return tiles
}

func lerpOutput(a, b shading.VertexOutput, t float32) shading.VertexOutput {
	return shading.VertexOutput{
		ClipPosition:  a.ClipPosition.Add(b.ClipPosition.Sub(a.ClipPosition).Mul(t)),
		WorldPosition: a.WorldPosition.Add(b.WorldPosition.Sub(a.WorldPosition).Mul(t)),
		WorldNormal:   a.WorldNormal.Add(b.WorldNormal.Sub(a.WorldNormal).Mul(t)),
	}
}

// clipNear clips a polygon against the z >= 0 clip plane. Attributes are
// interpolated in clip space, where they are still linear.
func clipNear(poly []shading.VertexOutput) []shading.VertexOutput {
	out := make([]shading.VertexOutput, 0, len(poly)+1)
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		da, db := a.ClipPosition.Z(), b.ClipPosition.Z()
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, lerpOutput(a, b, da/(da-db)))
		}
	}
	return out
}

func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// rasterSetup turns clip-space triangles into screen-space triangles.
type rasterSetup struct {
	width, height int
	cullBack      bool

	Triangles int
	Culled    int
	Clipped   int
}

func (rs *rasterSetup) toScreen(o shading.VertexOutput) (screenVertex, bool) {
	w := o.ClipPosition.W()
	if !(w > 0) {
		return screenVertex{}, false
	}
	invW := 1 / w
	ndc := o.ClipPosition.Vec3().Mul(invW)
	return screenVertex{
		x:    (ndc.X()*0.5 + 0.5) * float32(rs.width),
		y:    (0.5 - ndc.Y()*0.5) * float32(rs.height),
		z:    ndc.Z(),
		invW: invW,
		out:  o,
	}, true
}

// Setup clips one triangle and returns what is left to rasterize.
// Front faces wind counter-clockwise in NDC, which is negative area once y
// points down.
func (rs *rasterSetup) Setup(a, b, c shading.VertexOutput, mat shading.MaterialColor) []*triangle {
	rs.Triangles++

	poly := []shading.VertexOutput{a, b, c}
	if a.ClipPosition.Z() < 0 || b.ClipPosition.Z() < 0 || c.ClipPosition.Z() < 0 {
		rs.Clipped++
		poly = clipNear(poly)
		if len(poly) < 3 {
			return nil
		}
	}

	verts := make([]screenVertex, len(poly))
	for i, o := range poly {
		v, ok := rs.toScreen(o)
		if !ok {
			return nil
		}
		verts[i] = v
	}

	var tris []*triangle
	for i := 1; i+1 < len(verts); i++ {
		t := &triangle{v: [3]screenVertex{verts[0], verts[i], verts[i+1]}, material: mat}
		t.area = edge(t.v[0], t.v[1], t.v[2].x, t.v[2].y)
		if t.area == 0 || math.IsNaN(float64(t.area)) {
			continue
		}
		if rs.cullBack && t.area > 0 {
			rs.Culled++
			continue
		}
		if !rs.bounds(t) {
			continue
		}
		tris = append(tris, t)
	}
	return tris
}

func (rs *rasterSetup) bounds(t *triangle) bool {
	minX := min(t.v[0].x, t.v[1].x, t.v[2].x)
	maxX := max(t.v[0].x, t.v[1].x, t.v[2].x)
	minY := min(t.v[0].y, t.v[1].y, t.v[2].y)
	maxY := max(t.v[0].y, t.v[1].y, t.v[2].y)

	t.minX = max(int(math.Floor(float64(minX))), 0)
	t.minY = max(int(math.Floor(float64(minY))), 0)
	t.maxX = min(int(math.Ceil(float64(maxX))), rs.width-1)
	t.maxY = min(int(math.Ceil(float64(maxY))), rs.height-1)
	return t.minX <= t.maxX && t.minY <= t.maxY
}

func (t *tile) overlaps(tri *triangle) bool {
	return tri.maxX >= t.X0 && tri.minX < t.X1 && tri.maxY >= t.Y0 && tri.minY < t.Y1
}

// fragmentState is what every fragment of a frame shares.
type fragmentState struct {
	shader  shading.Shader
	camera  shading.CameraUniform
	light   shading.Light
	compare CompareFunc
}

// Rasterize draws the tile's triangles in submission order. The tile owns
// its pixels, so tiles can run concurrently.
func (t *tile) Rasterize(fb *Framebuffer, fs *fragmentState) {
	for _, tri := range t.Triangles {
		t.rasterizeTriangle(fb, fs, tri)
	}
}

func (t *tile) rasterizeTriangle(fb *Framebuffer, fs *fragmentState, tri *triangle) {
	v0, v1, v2 := tri.v[0], tri.v[1], tri.v[2]
	x0, x1 := max(tri.minX, t.X0), min(tri.maxX, t.X1-1)
	y0, y1 := max(tri.minY, t.Y0), min(tri.maxY, t.Y1-1)

	for y := y0; y <= y1; y++ {
		py := float32(y) + 0.5
		for x := x0; x <= x1; x++ {
			px := float32(x) + 0.5

			b0 := edge(v1, v2, px, py) / tri.area
			b1 := edge(v2, v0, px, py) / tri.area
			b2 := edge(v0, v1, px, py) / tri.area
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}

			z := b0*v0.z + b1*v1.z + b2*v2.z
			if z < 0 || z > 1 {
				continue
			}
			i := y*fb.Width + x
			if !fs.compare.Passes(z, fb.Depth[i]) {
				continue
			}

			// Perspective-correct weights
			p0, p1, p2 := b0*v0.invW, b1*v1.invW, b2*v2.invW
			sum := p0 + p1 + p2
			p0, p1, p2 = p0/sum, p1/sum, p2/sum

			frag := shading.VertexOutput{
				ClipPosition:  mgl32.Vec4{px, py, z, sum},
				WorldPosition: weigh(v0.out.WorldPosition, v1.out.WorldPosition, v2.out.WorldPosition, p0, p1, p2),
				WorldNormal:   weigh(v0.out.WorldNormal, v1.out.WorldNormal, v2.out.WorldNormal, p0, p1, p2),
			}

			fb.Color[i] = fs.shader.Fragment(fs.camera, fs.light, tri.material, frag)
			fb.Depth[i] = z
			t.Fragments++
		}
	}
}

func weigh(a, b, c mgl32.Vec3, wa, wb, wc float32) mgl32.Vec3 {
	return a.Mul(wa).Add(b.Mul(wb)).Add(c.Mul(wc))
}

func (s *RenderStats) collect(setup *rasterSetup, tiles []*tile) {
	for _, t := range tiles {
		s.Fragments += t.Fragments
	}
	s.Triangles = setup.Triangles
	s.Culled = setup.Culled
	s.Clipped = setup.Clipped
}
