package loader

import (
	"errors"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"Pomarin/internal/logger"
	"Pomarin/internal/renderer"
	"Pomarin/internal/shading"
)

// LoadPlane builds a flat grid in the XZ plane centred on the origin, facing +Y.
func LoadPlane(size float32, segments int) (*renderer.Mesh, error) {
	if segments < 1 {
		return nil, errors.New("segments must be at least 1")
	}
	return grid("plane", size, segments, func(x, z float32) float32 { return 0 })
}

// TerrainConfig drives the Perlin heightmap used by LoadTerrain.
type TerrainConfig struct {
	Size      float32 `yaml:"size"`
	Segments  int     `yaml:"segments"`
	Height    float32 `yaml:"height"`
	Frequency float64 `yaml:"frequency"`
	Alpha     float64 `yaml:"alpha"`
	Beta      float64 `yaml:"beta"`
	Octaves   int32   `yaml:"octaves"`
	Seed      int64   `yaml:"seed"`
}

func DefaultTerrainConfig() TerrainConfig {
	return TerrainConfig{
		Size:      40,
		Segments:  64,
		Height:    4,
		Frequency: 0.08,
		Alpha:     2,
		Beta:      2,
		Octaves:   3,
		Seed:      1,
	}
}

// LoadTerrain builds a heightmap grid and recalculates its normals.
func LoadTerrain(cfg TerrainConfig) (*renderer.Mesh, error) {
	if cfg.Segments < 1 {
		return nil, errors.New("terrain segments must be at least 1")
	}
	if cfg.Octaves < 1 {
		return nil, fmt.Errorf("terrain octaves %d must be at least 1", cfg.Octaves)
	}

	p := perlin.NewPerlin(cfg.Alpha, cfg.Beta, cfg.Octaves, cfg.Seed)
	height := func(x, z float32) float32 {
		return cfg.Height * float32(p.Noise2D(float64(x)*cfg.Frequency, float64(z)*cfg.Frequency))
	}

	mesh, err := grid("terrain", cfg.Size, cfg.Segments, height)
	if err != nil {
		return nil, err
	}
	RecalculateNormals(mesh.Vertices, mesh.Indices)

	logger.Log.Info("Terrain created",
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", len(mesh.Indices)/3),
		zap.Float32("size", cfg.Size),
		zap.Int64("seed", cfg.Seed))
	return mesh, nil
}

func grid(name string, size float32, segments int, height func(x, z float32) float32) (*renderer.Mesh, error) {
	row := segments + 1
	vertices := make([]shading.VertexInput, 0, row*row)
	indices := make([]uint32, 0, segments*segments*6)

	step := size / float32(segments)
	start := -size * 0.5

	// Generate vertices
	for x := 0; x < row; x++ {
		for z := 0; z < row; z++ {
			posX := start + float32(x)*step
			posZ := start + float32(z)*step
			vertices = append(vertices, shading.VertexInput{
				Position: mgl32.Vec3{posX, height(posX, posZ), posZ},
				UV:       mgl32.Vec3{float32(x) / float32(segments), float32(z) / float32(segments), 0},
				Normal:   mgl32.Vec3{0, 1, 0},
			})
		}
	}

	// Two counter-clockwise triangles per cell, seen from above
	for x := 0; x < segments; x++ {
		for z := 0; z < segments; z++ {
			topLeft := uint32(x*row + z)
			topRight := topLeft + 1
			bottomLeft := uint32((x+1)*row + z)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, topRight, bottomLeft)
			indices = append(indices, topRight, bottomRight, bottomLeft)
		}
	}

	ComputeTangents(vertices, indices)
	return renderer.NewMesh(name, vertices, indices)
}

type cubeFace struct {
	normal, u, v mgl32.Vec3
}

// Each face's u x v is its outward normal.
var cubeFaces = []cubeFace{
	{normal: mgl32.Vec3{1, 0, 0}, u: mgl32.Vec3{0, 0, -1}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{-1, 0, 0}, u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{0, 1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, -1}},
	{normal: mgl32.Vec3{0, -1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, 1}},
	{normal: mgl32.Vec3{0, 0, 1}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{0, 0, -1}, u: mgl32.Vec3{-1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
}

// LoadCube builds an axis aligned cube with flat per-face normals.
func LoadCube(size float32) (*renderer.Mesh, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cube size %v must be positive", size)
	}
	half := size * 0.5

	vertices := make([]shading.VertexInput, 0, 24)
	indices := make([]uint32, 0, 36)
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	uvs := [4]mgl32.Vec3{{0, 1, 0}, {1, 1, 0}, {1, 0, 0}, {0, 0, 0}}

	for _, f := range cubeFaces {
		base := uint32(len(vertices))
		for i, c := range corners {
			pos := f.normal.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1])).Mul(half)
			vertices = append(vertices, shading.VertexInput{Position: pos, UV: uvs[i], Normal: f.normal})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	ComputeTangents(vertices, indices)
	return renderer.NewMesh("cube", vertices, indices)
}

// LoadSphere builds a UV sphere with smooth normals.
func LoadSphere(radius float32, segments int) (*renderer.Mesh, error) {
	if segments < 3 {
		return nil, errors.New("sphere needs at least 3 segments")
	}
	var vertices []shading.VertexInput
	var indices []uint32

	for i := 0; i <= segments; i++ {
		lat := float64(i) * math.Pi / float64(segments)
		for j := 0; j <= segments; j++ {
			lon := float64(j) * 2 * math.Pi / float64(segments)

			n := mgl32.Vec3{
				float32(math.Sin(lat) * math.Cos(lon)),
				float32(math.Cos(lat)),
				float32(math.Sin(lat) * math.Sin(lon)),
			}
			vertices = append(vertices, shading.VertexInput{
				Position: n.Mul(radius),
				UV:       mgl32.Vec3{float32(j) / float32(segments), float32(i) / float32(segments), 0},
				Normal:   n,
			})
		}
	}

	for i := 0; i < segments; i++ {
		for j := 0; j < segments; j++ {
			first := uint32(i*(segments+1) + j)
			second := first + uint32(segments+1)

			indices = append(indices,
				first, first+1, second,
				first+1, second+1, second,
			)
		}
	}

	ComputeTangents(vertices, indices)
	return renderer.NewMesh("sphere", vertices, indices)
}

// RecalculateNormals replaces every normal with the area weighted average
// of the faces around the vertex.
func RecalculateNormals(vertices []shading.VertexInput, indices []uint32) {
	normals := make([]mgl32.Vec3, len(vertices))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= len(vertices) || int(i1) >= len(vertices) || int(i2) >= len(vertices) {
			logger.Log.Warn("Index out of bounds",
				zap.Uint32("i0", i0), zap.Uint32("i1", i1), zap.Uint32("i2", i2),
				zap.Int("vertices", len(vertices)))
			continue
		}

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)
		// Left unnormalized so larger faces weigh more
		normal := edge1.Cross(edge2)

		normals[i0] = normals[i0].Add(normal)
		normals[i1] = normals[i1].Add(normal)
		normals[i2] = normals[i2].Add(normal)
	}

	for i, n := range normals {
		if n.LenSqr() > 0 {
			vertices[i].Normal = n.Normalize()
		}
	}
}

// ComputeTangents fills tangent and bitangent from the UV layout. Triangles
// with degenerate UVs are skipped.
func ComputeTangents(vertices []shading.VertexInput, indices []uint32) {
	tangents := make([]mgl32.Vec3, len(vertices))
	bitangents := make([]mgl32.Vec3, len(vertices))
	counts := make([]float32, len(vertices))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= len(vertices) || int(i1) >= len(vertices) || int(i2) >= len(vertices) {
			continue
		}
		v0, v1, v2 := vertices[i0], vertices[i1], vertices[i2]

		dp1 := v1.Position.Sub(v0.Position)
		dp2 := v2.Position.Sub(v0.Position)
		duv1 := v1.UV.Sub(v0.UV)
		duv2 := v2.UV.Sub(v0.UV)

		det := duv1.X()*duv2.Y() - duv1.Y()*duv2.X()
		if det == 0 {
			continue
		}
		r := 1 / det
		tangent := dp1.Mul(duv2.Y()).Sub(dp2.Mul(duv1.Y())).Mul(r)
		bitangent := dp2.Mul(duv1.X()).Sub(dp1.Mul(duv2.X())).Mul(r)

		for _, idx := range [3]uint32{i0, i1, i2} {
			tangents[idx] = tangents[idx].Add(tangent)
			bitangents[idx] = bitangents[idx].Add(bitangent)
			counts[idx]++
		}
	}

	for i := range vertices {
		if counts[i] == 0 {
			continue
		}
		if t := tangents[i].Mul(1 / counts[i]); t.LenSqr() > 0 {
			vertices[i].Tangent = t.Normalize()
		}
		if b := bitangents[i].Mul(1 / counts[i]); b.LenSqr() > 0 {
			vertices[i].Bitangent = b.Normalize()
		}
	}
}
