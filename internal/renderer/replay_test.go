package renderer

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/pipeline"
)

func capturedFrame(t *testing.T, r *SoftwareRenderer, cfg RenderConfig) (*Capture, RenderStats) {
	t.Helper()
	red := colorModel(t, "red", mgl32.Vec3{1, 0, 0})
	left := NewObject("left", red)
	left.SetPosition(-1, 0, 0)
	right := NewObject("right", red)
	right.SetPosition(1, 0, -1)
	green := NewObject("green", colorModel(t, "green", mgl32.Vec3{0, 1, 0}))
	green.SetPosition(0, 0.5, -0.5)
	r.AddObject(left)
	r.AddObject(right)
	r.AddObject(green)

	r.CaptureNextFrame()
	stats, err := r.Render(context.Background(), frontCamera(cfg), frontLight())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return r.LastCapture(), stats
}

func TestReplayMatchesRenderedFrame(t *testing.T) {
	cfg := testConfig()
	r := newTestRenderer(t, cfg)
	capture, rendered := capturedFrame(t, r, cfg)

	want := append([]mgl32.Vec4(nil), r.Framebuffer().Color...)

	path := filepath.Join(t.TempDir(), "frame.phng")
	if err := WriteCapture(path, capture); err != nil {
		t.Fatalf("WriteCapture failed: %v", err)
	}
	loaded, err := ReadCapture(path)
	if err != nil {
		t.Fatalf("ReadCapture failed: %v", err)
	}

	replayer := newTestRenderer(t, cfg)
	stats, err := replayer.Replay(context.Background(), loaded)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}

	if stats.Draws != rendered.Draws || stats.Instances != rendered.Instances ||
		stats.Triangles != rendered.Triangles || stats.Fragments != rendered.Fragments {
		t.Errorf("Replay stats %+v differ from rendered %+v", stats, rendered)
	}
	got := replayer.Framebuffer().Color
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Pixel %d: replay %v, rendered %v", i, got[i], want[i])
		}
	}
}

func TestReplayRejectsNonFiniteMaterial(t *testing.T) {
	cfg := testConfig()
	r := newTestRenderer(t, cfg)
	capture, _ := capturedFrame(t, r, cfg)

	_, _, mat, err := capture.Draws[0].Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	mat.Diffuse[1] = float32(math.NaN())
	capture.Draws[0].Material = pipeline.EncodeMaterial(mat)

	if _, err := r.Replay(context.Background(), capture); !errors.Is(err, ErrNonFinite) {
		t.Errorf("Expected ErrNonFinite, got %v", err)
	}
}

func TestReplayRejectsOutOfRangeIndex(t *testing.T) {
	cfg := testConfig()
	r := newTestRenderer(t, cfg)
	capture, _ := capturedFrame(t, r, cfg)

	capture.Draws[0].Indices[2] = 99
	if _, err := r.Replay(context.Background(), capture); !errors.Is(err, ErrCorruptCapture) {
		t.Errorf("Expected ErrCorruptCapture, got %v", err)
	}
}

func TestReplayNotInitialized(t *testing.T) {
	if _, err := NewSoftwareRenderer().Replay(context.Background(), &Capture{}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}
