package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"

	"Pomarin/internal/engine"
	"Pomarin/internal/logger"
	"Pomarin/internal/renderer"
	"Pomarin/internal/scene"
)

const (
	frameCount = 120
	frameDelta = float32(1.0 / 60.0)
)

func main() {
	if err := logger.InitDevelopment(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(); err != nil {
		logger.Log.Error("Runtime failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run() error {
	cfg := renderer.DefaultRenderConfig()
	if path := findAsset("render.yaml"); path != "" {
		loaded, err := renderer.LoadRenderConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		logger.Log.Warn("No render.yaml found, using defaults")
	}

	gameEngine, err := engine.NewEngine(cfg)
	if err != nil {
		return err
	}
	defer gameEngine.Cleanup()

	if err := loadGame(gameEngine); err != nil {
		return err
	}

	// Capture the buffers of the last frame for offline inspection
	if sw, ok := gameEngine.GetRenderer().(*renderer.SoftwareRenderer); ok {
		gameEngine.SetOnRenderCallback(func(frame int, stats renderer.RenderStats) {
			if frame == frameCount-1 {
				sw.CaptureNextFrame()
			}
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := gameEngine.Run(ctx, frameCount, frameDelta); err != nil {
		return err
	}

	if err := gameEngine.Snapshot("frame.png"); err != nil {
		return err
	}
	if sw, ok := gameEngine.GetRenderer().(*renderer.SoftwareRenderer); ok && sw.LastCapture() != nil {
		if err := renderer.WriteCapture("frame.phng", sw.LastCapture()); err != nil {
			return err
		}
		if err := replayCapture(ctx, cfg, "frame.phng", "replay.png"); err != nil {
			return err
		}
	}
	logger.Log.Info("Frame written", zap.String("image", "frame.png"))
	return nil
}

// replayCapture redraws a saved capture on a fresh renderer, so the image
// can be diffed against the live frame.
func replayCapture(ctx context.Context, cfg renderer.RenderConfig, capturePath, imagePath string) error {
	c, err := renderer.ReadCapture(capturePath)
	if err != nil {
		return err
	}

	sw := renderer.NewSoftwareRenderer()
	if err := sw.Init(cfg); err != nil {
		return err
	}
	defer sw.Cleanup()

	stats, err := sw.Replay(ctx, c)
	if err != nil {
		return err
	}
	logger.Log.Info("Capture replayed",
		zap.String("capture", capturePath),
		zap.Int("draws", stats.Draws),
		zap.Int("fragments", stats.Fragments))
	return sw.Framebuffer().WritePNG(imagePath)
}

func loadGame(gameEngine *engine.Engine) error {
	scenePath := findAsset("scene.yaml")
	if scenePath == "" {
		logger.Log.Warn("No scene.yaml found, starting with empty scene")
		return nil
	}

	sc, err := scene.Load(scenePath)
	if err != nil {
		return err
	}
	gameEngine.LoadScene(sc)
	return nil
}

func findAsset(name string) string {
	exePath, _ := os.Executable()
	exeDir := filepath.Dir(exePath)

	paths := []string{
		filepath.Join(exeDir, "assets", name),
		filepath.Join(exeDir, name),
		filepath.Join("assets", name),
		filepath.Join("runtime", "assets", name),
		name,
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
