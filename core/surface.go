package core

import (
	vk "github.com/vulkan-go/vulkan"
)

// Surface owns a window and the surface created for it on an instance.
// It must outlive the device and swapchain built against it.
type Surface struct {
	instance *Instance
	window   Window
	handle   vk.Surface
}

// NewSurface creates a surface for window and takes ownership of the window.
// The instance is borrowed and must stay alive until Destroy.
func NewSurface(instance *Instance, window Window) (*Surface, error) {
	handle, err := window.CreateSurface(instance.Handle())
	if err != nil {
		return nil, err
	}
	return &Surface{
		instance: instance,
		window:   window,
		handle:   handle,
	}, nil
}

// Handle returns the vk.Surface
func (s *Surface) Handle() vk.Surface {
	return s.handle
}

// FramebufferSize returns the current pixel size of the window
func (s *Surface) FramebufferSize() (width, height int) {
	return s.window.FramebufferSize()
}

// ShouldClose reports whether the frame loop should stop
func (s *Surface) ShouldClose() bool {
	return s.window.ShouldClose()
}

// Destroy destroys the window, then its surface
func (s *Surface) Destroy() {
	s.window.Destroy()
	vk.DestroySurface(s.instance.Handle(), s.handle, nil)
}
