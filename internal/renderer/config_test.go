package renderer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	"Pomarin/internal/shading"
)

func TestDefaultRenderConfig(t *testing.T) {
	cfg := DefaultRenderConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if gputypes.CompareFunction(cfg.DepthCompare) != gputypes.CompareFunctionLess {
		t.Error("Default depth compare should be less")
	}
	if cfg.NormalMode != shading.NormalAsIs || cfg.GuardDegenerateNormals {
		t.Error("Default shader options should reproduce the GPU shader")
	}
	if cfg.ShaderOptions() != (shading.Options{}) {
		t.Errorf("Expected zero shader options, got %+v", cfg.ShaderOptions())
	}
}

func TestParseRenderConfig(t *testing.T) {
	data := []byte(`
width: 320
height: 240
normal_mode: renormalize
guard_degenerate_normals: true
depth_compare: less-equal
camera:
  fov: 60
  near: 0.1
  far: 100
`)
	cfg, err := ParseRenderConfig(data)
	if err != nil {
		t.Fatalf("ParseRenderConfig failed: %v", err)
	}

	if cfg.Width != 320 || cfg.Height != 240 {
		t.Errorf("Unexpected viewport %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.TileSize != 32 {
		t.Errorf("Unset fields should keep defaults, tile size %d", cfg.TileSize)
	}
	if cfg.NormalMode != shading.NormalRenormalize || !cfg.GuardDegenerateNormals {
		t.Errorf("Shader options not applied: %+v", cfg.ShaderOptions())
	}
	if gputypes.CompareFunction(cfg.DepthCompare) != gputypes.CompareFunctionLessEqual {
		t.Error("Depth compare should be less-equal")
	}
	if cfg.Camera.Fov != 60 || cfg.Camera.Position != [3]float32{0, 5, 10} {
		t.Errorf("Camera overlay wrong: %+v", cfg.Camera)
	}
}

func TestParseRenderConfigRejects(t *testing.T) {
	cases := map[string]string{
		"zero width":      "width: 0",
		"bad compare":     "depth_compare: sometimes",
		"bad normal mode": "normal_mode: sideways",
		"inverted planes": "camera: {near: 10, far: 1}",
	}
	for name, doc := range cases {
		if _, err := ParseRenderConfig([]byte(doc)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestCompareFuncYAMLRoundTrip(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.DepthCompare = CompareFunc(gputypes.CompareFunctionGreaterEqual)

	out, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	parsed, err := ParseRenderConfig(out)
	if err != nil {
		t.Fatalf("ParseRenderConfig failed: %v\n%s", err, out)
	}
	if parsed.DepthCompare != cfg.DepthCompare || parsed.NormalMode != cfg.NormalMode {
		t.Errorf("Round trip changed the config: %+v", parsed)
	}
}

func TestCompareFuncPasses(t *testing.T) {
	less := CompareFunc(gputypes.CompareFunctionLess)
	if !less.Passes(0.5, 1) || less.Passes(1, 1) {
		t.Error("less should pass only strictly closer fragments")
	}
	if !CompareFunc(gputypes.CompareFunctionAlways).Passes(2, 0) {
		t.Error("always should pass")
	}
	if CompareFunc(gputypes.CompareFunctionNever).Passes(0, 1) {
		t.Error("never should fail")
	}
}

func TestLoadRenderConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	if err := os.WriteFile(path, []byte("tile_size: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRenderConfig(path)
	if err != nil {
		t.Fatalf("LoadRenderConfig failed: %v", err)
	}
	if cfg.TileSize != 8 {
		t.Errorf("Expected tile size 8, got %d", cfg.TileSize)
	}

	if _, err := LoadRenderConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Missing file should fail")
	}
}
