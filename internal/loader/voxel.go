package loader

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/renderer"
)

type VoxelID uint16

const (
	VoxelAir VoxelID = iota
	VoxelGrass
	VoxelDirt
	VoxelStone
)

// VoxelWorld is a dense block grid. Every exposed voxel becomes one
// instance of a shared cube model.
type VoxelWorld struct {
	SizeX        int
	SizeZ        int
	MaxHeight    int
	VoxelSize    float32
	ActiveVoxels int

	voxels []VoxelID
}

func NewVoxelWorld(sizeX, sizeZ, maxHeight int, voxelSize float32) *VoxelWorld {
	return &VoxelWorld{
		SizeX:     sizeX,
		SizeZ:     sizeZ,
		MaxHeight: maxHeight,
		VoxelSize: voxelSize,
		voxels:    make([]VoxelID, sizeX*sizeZ*maxHeight),
	}
}

func (world *VoxelWorld) index(x, y, z int) (int, bool) {
	if x < 0 || x >= world.SizeX || z < 0 || z >= world.SizeZ || y < 0 || y >= world.MaxHeight {
		return 0, false
	}
	return (x*world.MaxHeight+y)*world.SizeZ + z, true
}

func (world *VoxelWorld) SetVoxel(x, y, z int, voxelID VoxelID) {
	i, ok := world.index(x, y, z)
	if !ok {
		return
	}

	wasActive := world.voxels[i] != VoxelAir
	world.voxels[i] = voxelID
	active := voxelID != VoxelAir

	if wasActive && !active {
		world.ActiveVoxels--
	} else if !wasActive && active {
		world.ActiveVoxels++
	}
}

func (world *VoxelWorld) GetVoxel(x, y, z int) VoxelID {
	i, ok := world.index(x, y, z)
	if !ok {
		return VoxelAir
	}
	return world.voxels[i]
}

// FillHeightmap stacks columns up to a Perlin height: grass on top, dirt
// below it and stone underneath.
func (world *VoxelWorld) FillHeightmap(alpha, beta float64, octaves int32, frequency float64, seed int64) {
	p := perlin.NewPerlin(alpha, beta, octaves, seed)
	for x := 0; x < world.SizeX; x++ {
		for z := 0; z < world.SizeZ; z++ {
			noise := p.Noise2D(float64(x)*frequency, float64(z)*frequency)
			height := int((noise + 1) * 0.5 * float64(world.MaxHeight))
			height = min(max(height, 1), world.MaxHeight)

			for y := 0; y < height; y++ {
				switch {
				case y == height-1:
					world.SetVoxel(x, y, z, VoxelGrass)
				case y >= height-3:
					world.SetVoxel(x, y, z, VoxelDirt)
				default:
					world.SetVoxel(x, y, z, VoxelStone)
				}
			}
		}
	}
}

func (world *VoxelWorld) exposed(x, y, z int) bool {
	return world.GetVoxel(x+1, y, z) == VoxelAir || world.GetVoxel(x-1, y, z) == VoxelAir ||
		world.GetVoxel(x, y+1, z) == VoxelAir || world.GetVoxel(x, y-1, z) == VoxelAir ||
		world.GetVoxel(x, y, z+1) == VoxelAir || world.GetVoxel(x, y, z-1) == VoxelAir
}

// Objects returns one object per visible voxel of the given kind. Buried
// voxels are skipped since no face of theirs can reach the framebuffer.
func (world *VoxelWorld) Objects(model *renderer.Model, kind VoxelID) []*renderer.Object {
	var objects []*renderer.Object
	for x := 0; x < world.SizeX; x++ {
		for y := 0; y < world.MaxHeight; y++ {
			for z := 0; z < world.SizeZ; z++ {
				if world.GetVoxel(x, y, z) != kind || !world.exposed(x, y, z) {
					continue
				}
				o := renderer.NewObject(fmt.Sprintf("%s_%d_%d_%d", model.Name, x, y, z), model)
				o.Position = mgl32.Vec3{float32(x), float32(y), float32(z)}.Mul(world.VoxelSize)
				o.MeshScale = world.VoxelSize
				objects = append(objects, o)
			}
		}
	}
	return objects
}

// ParseVoxelID accepts the names used in scene files.
func ParseVoxelID(name string) (VoxelID, error) {
	switch name {
	case "air":
		return VoxelAir, nil
	case "grass":
		return VoxelGrass, nil
	case "dirt":
		return VoxelDirt, nil
	case "stone":
		return VoxelStone, nil
	}
	return VoxelAir, fmt.Errorf("unknown voxel kind %q", name)
}
