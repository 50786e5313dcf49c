package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Present modes accepted by RendererConfig.PresentMode.
const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

// maxConfigSize bounds the config files Load will read.
const maxConfigSize = 1024 * 1024

var (
	// ErrInvalidConfig is wrapped by every validation failure.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config is the sandbox configuration loaded from YAML.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Camera    CameraConfig    `yaml:"camera"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Models    []string        `yaml:"models"`
	Log       LogConfig       `yaml:"log"`
	Profiling ProfilingConfig `yaml:"profiling"`
}

// WindowConfig sizes and titles the application window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// CameraConfig holds the initial camera parameters.
type CameraConfig struct {
	// Fov is the vertical field of view in radians.
	Fov float32 `yaml:"fov"`
	// FovDegrees overrides Fov when set.
	FovDegrees   float32    `yaml:"fov_degrees"`
	Near         float32    `yaml:"near"`
	Far          float32    `yaml:"far"`
	Speed        float32    `yaml:"speed"`
	RotationRate float32    `yaml:"rotation_rate"`
	Position     [3]float32 `yaml:"position"`
	Target       [3]float32 `yaml:"target"`
}

// RendererConfig selects presentation and adapter behaviour.
type RendererConfig struct {
	PresentMode          string     `yaml:"present_mode"`
	ForceFallbackAdapter bool       `yaml:"force_fallback_adapter"`
	ClearColor           [4]float64 `yaml:"clear_color"`
	// Shader is an optional WGSL file replacing the built-in mesh shader.
	Shader string `yaml:"shader"`
}

// LogConfig sets the engine log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ProfilingConfig enables periodic frame statistics.
type ProfilingConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy sandbox",
			Width:  1280,
			Height: 720,
		},
		Camera: CameraConfig{
			Fov:          0.75,
			Near:         0.1,
			Far:          5.0,
			Speed:        1.0,
			RotationRate: 0.2,
			Position:     [3]float32{0, 1.2, -3},
			Target:       [3]float32{0, 0, 0},
		},
		Renderer: RendererConfig{
			PresentMode: PresentModeVSync,
			ClearColor:  [4]float64{0.003, 0.017, 0.032, 1.0},
		},
		Log: LogConfig{
			Level: "info",
		},
		Profiling: ProfilingConfig{
			Interval: time.Second,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns Default().
//
// Parameters:
//   - path: the config file path, may be empty
//
// Returns:
//   - Config: the loaded configuration
//   - error: a read, parse or validation failure
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("config: %s is %d bytes, limit %d", path, info.Size(), maxConfigSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	common.Logger().Info("loaded config", "path", path, "size", info.Size())
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected. An empty document yields the defaults.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the parsed configuration
//   - error: a parse or validation failure
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if cfg.Camera.FovDegrees > 0 {
		cfg.Camera.Fov = common.DegreesToRadians(cfg.Camera.FovDegrees)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks sizes, camera ranges, present mode and log level.
//
// Returns:
//   - error: ErrInvalidConfig wrapped with the first problem found
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d must be positive", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Camera.Fov <= 0 || c.Camera.Fov >= math32.Pi:
		return fmt.Errorf("%w: camera fov %v out of (0, pi)", ErrInvalidConfig, c.Camera.Fov)
	case c.Camera.Near <= 0:
		return fmt.Errorf("%w: camera near %v must be positive", ErrInvalidConfig, c.Camera.Near)
	case c.Camera.Near >= c.Camera.Far:
		return fmt.Errorf("%w: camera near %v must be less than far %v", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	case c.Camera.Speed < 0 || c.Camera.RotationRate < 0:
		return fmt.Errorf("%w: camera speed and rotation rate must not be negative", ErrInvalidConfig)
	case c.Camera.Position == c.Camera.Target:
		return fmt.Errorf("%w: camera position equals target", ErrInvalidConfig)
	case common.IsVertical(c.Camera.CameraDirection()):
		return fmt.Errorf("%w: camera looks straight up or down from %v to %v", ErrInvalidConfig, c.Camera.Position, c.Camera.Target)
	case c.Renderer.PresentMode != PresentModeVSync && c.Renderer.PresentMode != PresentModeUncapped:
		return fmt.Errorf("%w: unknown present mode %q", ErrInvalidConfig, c.Renderer.PresentMode)
	case !unitRange(c.Renderer.ClearColor[:]):
		return fmt.Errorf("%w: clear color %v components must be in [0, 1]", ErrInvalidConfig, c.Renderer.ClearColor)
	case c.Profiling.Enabled && c.Profiling.Interval <= 0:
		return fmt.Errorf("%w: profiling interval must be positive", ErrInvalidConfig)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SlogLevel parses Level into a slog.Level. An empty level is info.
//
// Returns:
//   - slog.Level: the level
//   - error: an unknown level name
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", l.Level, err)
	}
	return level, nil
}

// CameraPosition returns Position as a vector.
func (c CameraConfig) CameraPosition() mgl32.Vec3 {
	return mgl32.Vec3(c.Position)
}

// CameraDirection returns the direction from Position to Target.
func (c CameraConfig) CameraDirection() mgl32.Vec3 {
	return mgl32.Vec3(c.Target).Sub(mgl32.Vec3(c.Position))
}

func unitRange(values []float64) bool {
	for _, v := range values {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}
