package core

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/compound/device"
)

// Environment variables read by LoadConfiguration.
const (
	EnvApplicationName = "COMPOUND_APP_NAME"
	EnvDebug           = "COMPOUND_DEBUG"
	EnvWidth           = "COMPOUND_WIDTH"
	EnvHeight          = "COMPOUND_HEIGHT"
	EnvFramesPerSecond = "COMPOUND_FPS"
	EnvShaders         = "COMPOUND_SHADERS"
	EnvWindow          = "COMPOUND_WINDOW"
	EnvLogLevel        = "COMPOUND_LOG_LEVEL"
	EnvClearColor      = "COMPOUND_CLEAR_COLOR"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Instance InstanceConfiguration
	Window   WindowConfiguration
	Renderer RendererConfiguration
	Time     TimeConfiguration

	// LogLevel is any level logrus can parse
	LogLevel string
}

// InstanceConfiguration is used to create the Vulkan instance.
// ApplicationName is only read at instance creation.
type InstanceConfiguration struct {
	ApplicationName string
	DebugMode       bool
	Extensions      []string
	Layers          []string
}

// WindowConfiguration selects the windowing backend
type WindowConfiguration struct {
	// Backend is either "sdl" or "glfw"
	Backend string
	Title   string
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	MinAPIVersion    uint32
	DeviceExtensions []string

	ScreenWidth  uint32
	ScreenHeight uint32

	// Shaders is a directory or a kar archive holding compiled shaders,
	// empty means the shaders bundled with the binary.
	Shaders    string
	ClearColor mgl32.Vec4
}

// Requirements returns the device requirements the renderer needs.
func (r RendererConfiguration) Requirements() device.Requirements {
	return device.Requirements{
		MinAPIVersion: r.MinAPIVersion,
		Extensions:    r.DeviceExtensions,
	}
}

// DefaultConfiguration returns the configuration used when nothing is overridden.
func DefaultConfiguration() Configuration {
	return Configuration{
		Instance: InstanceConfiguration{
			ApplicationName: "compound",
		},
		Window: WindowConfiguration{
			Backend: "sdl",
			Title:   "compound",
		},
		Renderer: RendererConfiguration{
			MinAPIVersion:    vk.MakeVersion(1, 3, 0),
			DeviceExtensions: []string{vk.KhrSwapchainExtensionName},
			ScreenWidth:      800,
			ScreenHeight:     600,
			ClearColor:       mgl32.Vec4{0, 0, 0, 1},
		},
		Time: TimeConfiguration{
			FramesPerSecond: 60,
		},
		LogLevel: "info",
	}
}

// LoadConfiguration loads the given .env files into the environment and
// applies COMPOUND_* variables on top of DefaultConfiguration.
func LoadConfiguration(files ...string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return cfg, errors.Wrap(err, "godotenv.Load()")
		}
		envy.Reload()
	}

	cfg.Instance.ApplicationName = envy.Get(EnvApplicationName, cfg.Instance.ApplicationName)
	cfg.Window.Backend = envy.Get(EnvWindow, cfg.Window.Backend)
	cfg.Renderer.Shaders = envy.Get(EnvShaders, cfg.Renderer.Shaders)
	cfg.LogLevel = envy.Get(EnvLogLevel, cfg.LogLevel)

	var err error
	if cfg.Instance.DebugMode, err = envBool(EnvDebug, cfg.Instance.DebugMode); err != nil {
		return cfg, err
	}
	if cfg.Renderer.ScreenWidth, err = envUint32(EnvWidth, cfg.Renderer.ScreenWidth); err != nil {
		return cfg, err
	}
	if cfg.Renderer.ScreenHeight, err = envUint32(EnvHeight, cfg.Renderer.ScreenHeight); err != nil {
		return cfg, err
	}
	if cfg.Time.FramesPerSecond, err = envInt(EnvFramesPerSecond, cfg.Time.FramesPerSecond); err != nil {
		return cfg, err
	}
	if value := envy.Get(EnvClearColor, ""); value != "" {
		if cfg.Renderer.ClearColor, err = ParseColor(value); err != nil {
			return cfg, errors.Wrap(err, EnvClearColor)
		}
	}
	return cfg, nil
}

func envBool(key string, fallback bool) (bool, error) {
	value := envy.Get(key, "")
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	return b, errors.Wrap(err, key)
}

func envInt(key string, fallback int) (int, error) {
	value := envy.Get(key, "")
	if value == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(value)
	return i, errors.Wrap(err, key)
}

func envUint32(key string, fallback uint32) (uint32, error) {
	value := envy.Get(key, "")
	if value == "" {
		return fallback, nil
	}
	u, err := strconv.ParseUint(value, 10, 32)
	return uint32(u), errors.Wrap(err, key)
}

// ParseColor parses four comma separated floats into an RGBA color.
func ParseColor(s string) (mgl32.Vec4, error) {
	var color mgl32.Vec4
	parts := strings.Split(s, ",")
	if len(parts) != len(color) {
		return color, errors.Errorf("color %q: want %d components, got %d", s, len(color), len(parts))
	}
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return color, errors.Wrapf(err, "color %q", s)
		}
		color[i] = float32(f)
	}
	return color, nil
}
