// Package core brings a Vulkan instance, a window surface, a logical
// device and a swapchain up in order and drives the frame loop that
// draws into it. All of it must be called from a single locked OS thread.
//
// Objects are destroyed by their owners in the reverse order they were
// created in: frame synchronization and swapchain before the device,
// the device before the surface, the surface before the instance.
package core

import (
	vk "github.com/vulkan-go/vulkan"
)

// Window is the platform window a surface is created for.
type Window interface {
	// FramebufferSize returns the drawable size in pixels
	FramebufferSize() (width, height int)

	// CreateSurface creates a surface for the window on the instance
	CreateSurface(instance vk.Instance) (vk.Surface, error)

	// ShouldClose processes pending events and reports
	// whether the window was asked to close
	ShouldClose() bool

	// Destroy destroys the window
	Destroy()
}

// ShaderSource finds compiled shaders by name, directories,
// kar archives and packr boxes all satisfy it.
type ShaderSource interface {
	Find(name string) ([]byte, error)
}

// Recorder records the commands of one frame into a command buffer.
type Recorder interface {
	// Handle returns the command buffer submitted for the frame
	Handle() vk.CommandBuffer

	// Reset discards previously recorded commands
	Reset() error

	// Record records drawing into target
	Record(target RenderTarget) error
}

// RenderTarget is what recording needs to know about the frame.
type RenderTarget struct {
	RenderPass  vk.RenderPass
	Pipeline    vk.Pipeline
	Framebuffer vk.Framebuffer
	Extent      vk.Extent2D
}

// ShaderType represents the type of shader thats loaded
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
	UnknownShaderType
)
