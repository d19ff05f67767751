package window

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// GLFWWindow is a window opened with GLFW.
type GLFWWindow struct {
	window *glfw.Window
}

// NewGLFWWindow initialises GLFW without a client API and opens the window.
func NewGLFWWindow(title string, width, height uint32) (*GLFWWindow, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw.Init()")
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return nil, errors.New("glfw: vulkan is not supported")
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(int(width), int(height), title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "glfw.CreateWindow()")
	}
	return &GLFWWindow{window: window}, nil
}

// InstanceExtensions implements Window
func (w *GLFWWindow) InstanceExtensions() []string {
	return w.window.GetRequiredInstanceExtensions()
}

// ProcAddr implements Window
func (w *GLFWWindow) ProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

// FramebufferSize implements core.Window
func (w *GLFWWindow) FramebufferSize() (int, int) {
	return w.window.GetFramebufferSize()
}

// CreateSurface implements core.Window
func (w *GLFWWindow) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	surface, err := w.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "glfw.Window.CreateWindowSurface()")
	}
	return vk.SurfaceFromPointer(surface), nil
}

// ShouldClose implements core.Window, escape closes the window too
func (w *GLFWWindow) ShouldClose() bool {
	glfw.PollEvents()
	if w.window.GetKey(glfw.KeyEscape) == glfw.Press {
		w.window.SetShouldClose(true)
	}
	return w.window.ShouldClose()
}

// Destroy implements core.Window
func (w *GLFWWindow) Destroy() {
	w.window.Destroy()
}

// Terminate implements Window
func (w *GLFWWindow) Terminate() {
	glfw.Terminate()
}
