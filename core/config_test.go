package core_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/envy"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/compound/core"
)

func TestDefaultConfiguration(t *testing.T) {
	c := qt.New(t)
	cfg := core.DefaultConfiguration()

	c.Assert(cfg.Renderer.MinAPIVersion, qt.Equals, vk.MakeVersion(1, 3, 0))
	c.Assert(cfg.Renderer.DeviceExtensions, qt.DeepEquals, []string{vk.KhrSwapchainExtensionName})
	c.Assert(cfg.Renderer.ClearColor, qt.Equals, mgl32.Vec4{0, 0, 0, 1})
	c.Assert(cfg.Window.Backend, qt.Equals, "sdl")

	req := cfg.Renderer.Requirements()
	c.Assert(req.MinAPIVersion, qt.Equals, cfg.Renderer.MinAPIVersion)
	c.Assert(req.Extensions, qt.DeepEquals, cfg.Renderer.DeviceExtensions)
}

func TestLoadConfigurationEnv(t *testing.T) {
	envy.Temp(func() {
		c := qt.New(t)
		envy.Set(core.EnvApplicationName, "triangle")
		envy.Set(core.EnvDebug, "true")
		envy.Set(core.EnvWidth, "1024")
		envy.Set(core.EnvFramesPerSecond, "0")
		envy.Set(core.EnvWindow, "glfw")
		envy.Set(core.EnvClearColor, "0.1, 0.2, 0.3, 1")

		cfg, err := core.LoadConfiguration()
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Instance.ApplicationName, qt.Equals, "triangle")
		c.Assert(cfg.Instance.DebugMode, qt.IsTrue)
		c.Assert(cfg.Renderer.ScreenWidth, qt.Equals, uint32(1024))
		c.Assert(cfg.Renderer.ScreenHeight, qt.Equals, uint32(600))
		c.Assert(cfg.Time.FramesPerSecond, qt.Equals, 0)
		c.Assert(cfg.Window.Backend, qt.Equals, "glfw")
		c.Assert(cfg.Renderer.ClearColor, qt.Equals, mgl32.Vec4{0.1, 0.2, 0.3, 1})
	})
}

func TestLoadConfigurationInvalid(t *testing.T) {
	envy.Temp(func() {
		c := qt.New(t)
		envy.Set(core.EnvHeight, "tall")

		_, err := core.LoadConfiguration()
		c.Assert(err, qt.ErrorMatches, core.EnvHeight+".*")
	})
}

func TestLoadConfigurationFile(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "compound.env")
	c.Assert(os.WriteFile(path, []byte("COMPOUND_SHADERS=shaders.kar\nCOMPOUND_LOG_LEVEL=debug\n"), 0600), qt.IsNil)
	c.Cleanup(func() {
		os.Unsetenv(core.EnvShaders)
		os.Unsetenv(core.EnvLogLevel)
		envy.Reload()
	})

	cfg, err := core.LoadConfiguration(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Renderer.Shaders, qt.Equals, "shaders.kar")
	c.Assert(cfg.LogLevel, qt.Equals, "debug")
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	c := qt.New(t)
	_, err := core.LoadConfiguration(filepath.Join(c.TempDir(), "missing.env"))
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestParseColor(t *testing.T) {
	c := qt.New(t)

	color, err := core.ParseColor("1,0.5,0,1")
	c.Assert(err, qt.IsNil)
	c.Assert(color, qt.Equals, mgl32.Vec4{1, 0.5, 0, 1})

	_, err = core.ParseColor("1,0.5,0")
	c.Assert(err, qt.ErrorMatches, `color "1,0.5,0": want 4 components, got 3`)

	_, err = core.ParseColor("1,0.5,0,x")
	c.Assert(err, qt.Not(qt.IsNil))
}
