package window

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
	vk "github.com/vulkan-go/vulkan"
)

// SDLWindow is a window opened with SDL2.
type SDLWindow struct {
	window *sdl.Window
	closed bool
}

// NewSDLWindow initialises SDL video with Vulkan and opens the window.
func NewSDLWindow(title string, width, height uint32) (*SDLWindow, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, errors.Wrap(err, "sdl.Init()")
	}
	if err := sdl.VulkanLoadLibrary(""); err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "sdl.VulkanLoadLibrary()")
	}

	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(width),
		int32(height),
		sdl.WINDOW_VULKAN)
	if err != nil {
		sdl.VulkanUnloadLibrary()
		sdl.Quit()
		return nil, errors.Wrap(err, "sdl.CreateWindow()")
	}
	return &SDLWindow{window: window}, nil
}

// InstanceExtensions implements Window
func (w *SDLWindow) InstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

// ProcAddr implements Window
func (w *SDLWindow) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

// FramebufferSize implements core.Window
func (w *SDLWindow) FramebufferSize() (int, int) {
	width, height := w.window.VulkanGetDrawableSize()
	return int(width), int(height)
}

// CreateSurface implements core.Window
func (w *SDLWindow) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	surface, err := w.window.VulkanCreateSurface(instance)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "sdl.Window.VulkanCreateSurface()")
	}
	return vk.SurfaceFromPointer(uintptr(surface)), nil
}

// ShouldClose implements core.Window, escape closes the window too
func (w *SDLWindow) ShouldClose() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch et := event.(type) {
		case *sdl.KeyboardEvent:
			if et.Keysym.Sym == sdl.K_ESCAPE {
				w.closed = true
			}
		case *sdl.QuitEvent:
			w.closed = true
		}
	}
	return w.closed
}

// Destroy implements core.Window
func (w *SDLWindow) Destroy() {
	if err := w.window.Destroy(); err != nil {
		logger.WithError(err).Warn("Could not destroy window")
	}
}

// Terminate implements Window
func (w *SDLWindow) Terminate() {
	sdl.VulkanUnloadLibrary()
	sdl.Quit()
}
