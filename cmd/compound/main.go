// Command compound opens a window and draws a triangle into it with Vulkan.
//
// Without -shaders the compiled shaders are bundled from ../../shaders, which
// only holds GLSL in the repository. Compile them first with glslc on the path:
//
//	go generate ./shaders
package main

import (
	"flag"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/gobuffalo/packr"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/compound/core"
	"github.com/devblok/compound/utility/kar"
	"github.com/devblok/compound/window"
)

func init() {
	runtime.LockOSThread()
}

var (
	envFile     = flag.String("env", "", "Load configuration from this .env file")
	debug       = flag.Bool("vkdbg", false, "Load Vulkan validation layers")
	backend     = flag.String("window", "", "Window backend, sdl or glfw")
	shaders     = flag.String("shaders", "", "Directory or kar archive with compiled shaders")
	fps         = flag.Int("fps", -1, "Frames per second cap, 0 to unlimit")
	logLevel    = flag.String("loglevel", "", "Log level")
	cpuProfile  = flag.String("cpuprof", "", "Profile CPU usage to file")
	memProfile  = flag.String("memprof", "", "Profile memory usage into a file")
	traceOutput = flag.String("trace", "", "Trace output for profiling")
)

var logger = log.WithField("component", "compound.main")

func main() {
	flag.Parse()
	os.Exit(start())
}

// start runs the program with profiling around it
// and returns the exit code.
func start() int {
	cfg, err := configure()
	if err != nil {
		logger.WithError(err).Error("Invalid configuration")
		return 2
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			logger.WithError(err).Error("Could not create CPU profile")
			return 1
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.WithError(err).Error("Could not start CPU profile")
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	if *traceOutput != "" {
		f, err := os.Create(*traceOutput)
		if err != nil {
			logger.WithError(err).Error("Could not create trace output")
			return 1
		}
		if err := trace.Start(f); err != nil {
			logger.WithError(err).Error("Could not start trace")
			return 1
		}
		defer trace.Stop()
	}

	code := 0
	if err := run(cfg); err != nil {
		logger.WithError(err).Error("Exiting")
		code = 1
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			logger.WithError(err).Error("Could not create memory profile")
			return 1
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			logger.WithError(err).Error("Could not write memory profile")
		}
	}
	return code
}

func configure() (core.Configuration, error) {
	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := core.LoadConfiguration(files...)
	if err != nil {
		return cfg, err
	}

	if *debug {
		cfg.Instance.DebugMode = true
	}
	if *backend != "" {
		cfg.Window.Backend = *backend
	}
	if *shaders != "" {
		cfg.Renderer.Shaders = *shaders
	}
	if *fps >= 0 {
		cfg.Time.FramesPerSecond = *fps
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, errors.Wrap(err, "log level")
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return cfg, nil
}

// boxShaders serves the shaders bundled with the binary.
type boxShaders struct {
	box packr.Box
}

func (b boxShaders) Find(name string) ([]byte, error) {
	if !b.box.Has(name) {
		return nil, errors.Wrapf(core.ErrShaderMissing, "%s is not bundled, run go generate ./shaders", name)
	}
	return b.box.Find(name)
}

// shaderSource picks where compiled shaders are read from, the
// returned func releases it.
func shaderSource(path string) (core.ShaderSource, func(), error) {
	switch {
	case path == "":
		return boxShaders{box: packr.NewBox("../../shaders")}, func() {}, nil
	case strings.HasSuffix(path, ".kar"):
		f, err := kar.OpenFile(path)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil
	default:
		return core.DirShaders(path), func() {}, nil
	}
}

func run(cfg core.Configuration) error {
	win, err := window.New(cfg.Window, cfg.Renderer.ScreenWidth, cfg.Renderer.ScreenHeight)
	if err != nil {
		return err
	}
	defer win.Terminate()

	cfg.Instance.Extensions = append(cfg.Instance.Extensions, win.InstanceExtensions()...)
	instance, err := core.NewInstance(cfg.Instance, cfg.Renderer.MinAPIVersion, win.ProcAddr())
	if err != nil {
		win.Destroy()
		return err
	}
	defer instance.Destroy()
	instance.LogProperties()

	surface, err := core.NewSurface(instance, win)
	if err != nil {
		win.Destroy()
		return err
	}
	defer surface.Destroy()

	selection, err := core.SelectPhysicalDevice(instance, surface, cfg.Renderer.Requirements())
	if err != nil {
		return err
	}

	dev, err := core.CreateLogicalDevice(instance, selection, cfg.Renderer.DeviceExtensions)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	swapchain, err := core.CreateSwapchain(dev, surface)
	if err != nil {
		return err
	}
	defer swapchain.Destroy()

	source, release, err := shaderSource(cfg.Renderer.Shaders)
	if err != nil {
		return err
	}
	loaded, err := core.LoadShaders(source, core.VertexShaderName, core.FragmentShaderName)
	release()
	if err != nil {
		return err
	}

	pipeline, err := core.NewPipeline(dev, swapchain.Format(), loaded)
	if err != nil {
		return err
	}
	defer pipeline.Destroy()

	framebuffers, err := core.NewFramebuffers(dev, swapchain, pipeline.RenderPass())
	if err != nil {
		return err
	}
	defer framebuffers.Destroy()

	pool, err := core.NewCommandPool(dev)
	if err != nil {
		return err
	}
	defer pool.Destroy()

	cmd, err := pool.Allocate(cfg.Renderer.ClearColor)
	if err != nil {
		return err
	}

	frames, err := core.NewFrameSynchronizer(dev, swapchain, framebuffers)
	if err != nil {
		return err
	}
	defer frames.Destroy()

	// Nothing can be destroyed while the device is still using it.
	defer func() {
		if err := dev.WaitIdle(); err != nil {
			logger.WithError(err).Warn("Device did not go idle")
		}
	}()

	return loop(cfg.Time, surface, frames, cmd, swapchain, pipeline)
}

func loop(cfg core.TimeConfiguration, surface *core.Surface, frames *core.FrameSynchronizer,
	cmd core.Recorder, swapchain *core.Swapchain, pipeline *core.Pipeline) error {

	clock := core.NewTime(cfg)
	defer clock.Stop()

	logger.Info("Entering main loop")
	for range clock.FpsTicker().C {
		if surface.ShouldClose() {
			break
		}
		if err := frames.DrawFrame(cmd, swapchain, pipeline); err != nil {
			return err
		}
		clock.Frame()
	}

	logger.WithFields(log.Fields{
		"frames":     clock.Frames(),
		"averageFps": clock.AverageFps(),
	}).Info("Main loop exited")
	return nil
}
