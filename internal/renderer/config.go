package renderer

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	"Pomarin/internal/pipeline"
	"Pomarin/internal/shading"
)

// RenderConfig controls the software renderer and the default camera.
type RenderConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	TileSize int `yaml:"tile_size"`
	Workers  int `yaml:"workers"` // 0 means one per CPU

	// Fragment stage options
	NormalMode             shading.NormalMode `yaml:"normal_mode"`
	GuardDegenerateNormals bool               `yaml:"guard_degenerate_normals"`

	FaceCulling    bool        `yaml:"face_culling"`
	FrustumCulling bool        `yaml:"frustum_culling"`
	DepthCompare   CompareFunc `yaml:"depth_compare"`
	ClearColor     [4]float32  `yaml:"clear_color"`

	Camera CameraConfig `yaml:"camera"`
}

type CameraConfig struct {
	Fov        float32    `yaml:"fov"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	Position   [3]float32 `yaml:"position"`
	Target     [3]float32 `yaml:"target"`
	OrbitSpeed float32    `yaml:"orbit_speed"`
}

// CompareFunc is a depth compare function spelled the WebGPU way in YAML,
// e.g. "less" or "less-equal".
type CompareFunc gputypes.CompareFunction

var compareNames = map[string]gputypes.CompareFunction{
	"never":         gputypes.CompareFunctionNever,
	"less":          gputypes.CompareFunctionLess,
	"equal":         gputypes.CompareFunctionEqual,
	"less-equal":    gputypes.CompareFunctionLessEqual,
	"greater":       gputypes.CompareFunctionGreater,
	"not-equal":     gputypes.CompareFunctionNotEqual,
	"greater-equal": gputypes.CompareFunctionGreaterEqual,
	"always":        gputypes.CompareFunctionAlways,
}

func (c *CompareFunc) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	fn, ok := compareNames[s]
	if !ok {
		return fmt.Errorf("invalid depth compare %q", s)
	}
	*c = CompareFunc(fn)
	return nil
}

func (c CompareFunc) MarshalYAML() (interface{}, error) {
	for name, fn := range compareNames {
		if fn == gputypes.CompareFunction(c) {
			return name, nil
		}
	}
	return nil, fmt.Errorf("unknown depth compare %d", c)
}

// Passes applies the compare function to an incoming fragment depth against
// the stored depth.
func (c CompareFunc) Passes(incoming, stored float32) bool {
	switch gputypes.CompareFunction(c) {
	case gputypes.CompareFunctionNever:
		return false
	case gputypes.CompareFunctionLess:
		return incoming < stored
	case gputypes.CompareFunctionEqual:
		return incoming == stored
	case gputypes.CompareFunctionLessEqual:
		return incoming <= stored
	case gputypes.CompareFunctionGreater:
		return incoming > stored
	case gputypes.CompareFunctionNotEqual:
		return incoming != stored
	case gputypes.CompareFunctionGreaterEqual:
		return incoming >= stored
	case gputypes.CompareFunctionAlways:
		return true
	}
	return false
}

// DefaultRenderConfig returns the settings the demo scene is tuned for.
func DefaultRenderConfig() RenderConfig {
	bg := pipeline.ClearColor()
	return RenderConfig{
		Width:        640,
		Height:       360,
		TileSize:     32,
		Workers:      0,
		NormalMode:   shading.NormalAsIs,
		FaceCulling:  true,
		DepthCompare: CompareFunc(gputypes.CompareFunctionLess),
		ClearColor:   [4]float32{float32(bg.R), float32(bg.G), float32(bg.B), float32(bg.A)},
		Camera: CameraConfig{
			Fov:        45,
			Near:       1,
			Far:        1000,
			Position:   [3]float32{0, 5, 10},
			Target:     [3]float32{0, 0, 0},
			OrbitSpeed: 0.2,
		},
	}
}

// LoadRenderConfig reads a YAML file on top of the defaults.
func LoadRenderConfig(path string) (RenderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RenderConfig{}, fmt.Errorf("reading render config: %w", err)
	}
	return ParseRenderConfig(data)
}

func ParseRenderConfig(data []byte) (RenderConfig, error) {
	cfg := DefaultRenderConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RenderConfig{}, fmt.Errorf("parsing render config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RenderConfig{}, err
	}
	return cfg, nil
}

func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("render config: viewport %dx%d must be positive", c.Width, c.Height)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("render config: tile size %d must be positive", c.TileSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("render config: workers %d must not be negative", c.Workers)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("render config: camera planes near=%v far=%v are invalid", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return fmt.Errorf("render config: fov %v out of range", c.Camera.Fov)
	}
	return nil
}

func (c RenderConfig) AspectRatio() float32 {
	return float32(c.Width) / float32(c.Height)
}

func (c RenderConfig) ShaderOptions() shading.Options {
	return shading.Options{
		NormalMode:            c.NormalMode,
		GuardDegenerateNormal: c.GuardDegenerateNormals,
	}
}

func (c RenderConfig) Background() mgl32.Vec4 {
	return mgl32.Vec4(c.ClearColor)
}
