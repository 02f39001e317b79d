package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"Pomarin/internal/loader"
	"Pomarin/internal/renderer"
)

// Description is the on-disk form of a scene. Parts refer to each other by
// name and are resolved section by section: materials and meshes, then
// models, then objects and voxels.
type Description struct {
	Materials []MaterialDescription      `yaml:"materials"`
	Meshes    []MeshDescription          `yaml:"meshes"`
	Models    []renderer.ModelDescriptor `yaml:"models"`
	Objects   []ObjectDescription        `yaml:"objects"`
	Voxels    []VoxelDescription         `yaml:"voxels"`
	Light     *LightDescription          `yaml:"light,omitempty"`
}

type MaterialDescription struct {
	Name     string      `yaml:"name"`
	Kind     string      `yaml:"kind"` // MaterialKind::Color or MaterialKind::Texture
	Ambient  *[3]float32 `yaml:"ambient,omitempty"`
	Diffuse  *[3]float32 `yaml:"diffuse,omitempty"`
	Specular *[3]float32 `yaml:"specular,omitempty"`

	DiffuseTexture string `yaml:"diffuse_texture,omitempty"`
	NormalTexture  string `yaml:"normal_texture,omitempty"`
}

// MeshDescription selects one of the procedural generators.
type MeshDescription struct {
	Name     string                `yaml:"name"`
	Kind     string                `yaml:"kind"` // plane, cube, sphere or terrain
	Size     float32               `yaml:"size"`
	Segments int                   `yaml:"segments"`
	Radius   float32               `yaml:"radius"`
	Terrain  *loader.TerrainConfig `yaml:"terrain,omitempty"`
}

type ObjectDescription struct {
	Name     string           `yaml:"name"`
	Model    string           `yaml:"model"`
	Position *[3]float32      `yaml:"position,omitempty"`
	Rotation [3]float32       `yaml:"rotation"` // degrees
	Scale    float32          `yaml:"scale"`
	Opacity  float32          `yaml:"opacity"`
	Tag      string           `yaml:"tag"`
	Scripts  []string         `yaml:"scripts"`
	Spin     *SpinDescription `yaml:"spin,omitempty"`
}

type SpinDescription struct {
	Axis             [3]float32 `yaml:"axis"`
	DegreesPerSecond float32    `yaml:"degrees_per_second"`
}

// VoxelDescription fills a voxel world from Perlin noise. Models maps a
// voxel kind (grass, dirt, stone) to the model drawn for it.
type VoxelDescription struct {
	Name      string            `yaml:"name"`
	SizeX     int               `yaml:"size_x"`
	SizeZ     int               `yaml:"size_z"`
	MaxHeight int               `yaml:"max_height"`
	VoxelSize float32           `yaml:"voxel_size"`
	Alpha     float64           `yaml:"alpha"`
	Beta      float64           `yaml:"beta"`
	Octaves   int32             `yaml:"octaves"`
	Frequency float64           `yaml:"frequency"`
	Seed      int64             `yaml:"seed"`
	Models    map[string]string `yaml:"models"`
}

type LightDescription struct {
	Position *[3]float32 `yaml:"position,omitempty"`
	Color    *[3]float32 `yaml:"color,omitempty"`
	Speed    *float32    `yaml:"speed,omitempty"`
	Orbit    bool        `yaml:"orbit"`
}

// Parse decodes a scene description.
func Parse(data []byte) (*Description, error) {
	var desc Description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return &desc, nil
}

// LoadFile reads and decodes a scene file.
func LoadFile(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	return Parse(data)
}

// Save writes desc back out as YAML.
func Save(path string, desc *Description) error {
	data, err := yaml.Marshal(desc)
	if err != nil {
		return fmt.Errorf("failed to serialize scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save scene: %w", err)
	}
	return nil
}
