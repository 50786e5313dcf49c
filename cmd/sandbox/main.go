package main

import (
	"bytes"
	_ "embed"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/config"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/loader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/surface"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed assets/cube.obj
var cubeOBJ []byte

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		common.Logger().Error("sandbox failed", "err", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// Errors before the configured logger exists still need to be visible.
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	level, _ := cfg.Log.SlogLevel()
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// ── Models ──────────────────────────────────────────────────────────
	models, err := loadModels(cfg.Models)
	if err != nil {
		return err
	}

	// ── Window + GPU ────────────────────────────────────────────────────
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	presentMode := surface.PresentModeVSync
	if cfg.Renderer.PresentMode == config.PresentModeUncapped {
		presentMode = surface.PresentModeUncapped
	}
	backend, err := surface.NewWGPUBackend(win.SurfaceDescriptor(),
		surface.WithPresentMode(presentMode),
		surface.WithForceFallbackAdapter(cfg.Renderer.ForceFallbackAdapter),
		surface.WithClearColor(clearColor(cfg.Renderer.ClearColor)),
		surface.WithFramebufferSize(win.FramebufferSize),
	)
	if err != nil {
		return fmt.Errorf("gpu: %w", err)
	}
	defer backend.Release()

	// ── Scene ───────────────────────────────────────────────────────────
	width, height := win.FramebufferSize()
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	cam := camera.NewCamera(
		camera.WithFov(cfg.Camera.Fov),
		camera.WithAspect(aspect),
		camera.WithNear(cfg.Camera.Near),
		camera.WithFar(cfg.Camera.Far),
		camera.WithPosition(cfg.Camera.CameraPosition()),
		camera.WithTarget(mgl32.Vec3(cfg.Camera.Target)),
		camera.WithSpeed(cfg.Camera.Speed),
		camera.WithRotationRate(cfg.Camera.RotationRate),
	)
	scn := defaultScene(cam, len(models))

	resourceOpts := []renderer.ResourceSetBuilderOption{
		renderer.WithLabel("sandbox"),
		renderer.WithPipelineOptions(pipeline.WithDepthFormat(backend.DepthFormat())),
	}
	if cfg.Renderer.Shader != "" {
		source, err := os.ReadFile(cfg.Renderer.Shader)
		if err != nil {
			return fmt.Errorf("shader: %w", err)
		}
		resourceOpts = append(resourceOpts, renderer.WithShaderSource(string(source)))
	}
	resources, err := renderer.NewResourceSet(backend.Device(), backend.Queue(), scn, models, backend.Format(), resourceOpts...)
	if err != nil {
		return fmt.Errorf("resources: %w", err)
	}
	defer resources.Release()

	// ── Engine ──────────────────────────────────────────────────────────
	frames := surface.NewManager(backend, surface.WithWindowSize(win.FramebufferSize))
	eng, err := engine.NewEngine(scn, resources, frames,
		engine.WithWindow(win),
		engine.WithProfiling(cfg.Profiling.Enabled, cfg.Profiling.Interval),
	)
	if err != nil {
		return err
	}
	if err := eng.Resize(width, height); err != nil {
		return fmt.Errorf("configure surface: %w", err)
	}
	return eng.Run()
}

// builtinCube names the embedded cube in the models list.
const builtinCube = "builtin:cube"

// loadModels imports the configured model files, or the built-in cube when none are configured.
// builtinCube may also appear among the paths.
func loadModels(paths []string) ([]model.ImportedModel, error) {
	cube, err := loader.NewLoader().LoadReader(builtinCube, bytes.NewReader(cubeOBJ), loader.BackendTypeOBJ)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		paths = []string{builtinCube}
	}
	return loader.NewLoader(loader.WithModel(builtinCube, cube)).LoadAll(paths)
}

func clearColor(c [4]float64) wgpu.Color {
	return wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// defaultScene places one object per model along X, with one point light and one directional light.
// Objects are mirrored in X to bring right-handed OBJ data into the left-handed world.
func defaultScene(cam camera.Camera, modelCount int) scene.Scene {
	objects := make([]model.Object, modelCount)
	for i := range objects {
		x := 1.5 * (float32(i) - float32(modelCount-1)/2)
		transform := mgl32.Translate3D(x, 0, 0).Mul4(mgl32.Scale3D(-1, 1, 1))
		objects[i] = model.NewObject(transform, 0.5)
	}
	return scene.NewScene("sandbox", cam,
		scene.WithObjects(objects...),
		scene.WithPointLights(light.NewPointLight([3]float32{0, 1, -2}, [3]float32{1, 1, 1}, 5)),
		scene.WithDirectionalLights(light.NewDirectionalLight(
			[3]float32{0, 3, 0},
			[3]float32{0.3, -1, 0.5},
			[3]float32{1, 0.95, 0.9},
			1,
		)),
	)
}
