package core

import (
	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"
)

// CommandPool is a pool of command buffers that can be reset one by one.
type CommandPool struct {
	device *Device
	handle vk.CommandPool
}

// NewCommandPool creates a command pool on the graphics queue family of dev.
func NewCommandPool(dev *Device) (*CommandPool, error) {
	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: dev.GraphicsFamily(),
	}

	var handle vk.CommandPool
	if err := vkError(vk.CreateCommandPool(dev.Handle(), &cpci, nil, &handle), "vk.CreateCommandPool()"); err != nil {
		return nil, err
	}
	return &CommandPool{device: dev, handle: handle}, nil
}

// Allocate allocates a primary command buffer that clears to clearColor.
func (p *CommandPool) Allocate(clearColor mgl32.Vec4) (*CommandBuffer, error) {
	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        p.handle,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}

	buffers := make([]vk.CommandBuffer, 1)
	if err := vkError(vk.AllocateCommandBuffers(p.device.Handle(), &cbai, buffers), "vk.AllocateCommandBuffers()"); err != nil {
		return nil, err
	}
	return &CommandBuffer{
		handle:     buffers[0],
		clearColor: clearColor,
	}, nil
}

// Destroy destroys the pool and frees every buffer allocated from it
func (p *CommandPool) Destroy() {
	vk.DestroyCommandPool(p.device.Handle(), p.handle, nil)
}

// CommandBuffer records the triangle draw. It implements Recorder.
type CommandBuffer struct {
	handle     vk.CommandBuffer
	clearColor mgl32.Vec4
}

// Handle implements Recorder
func (c *CommandBuffer) Handle() vk.CommandBuffer {
	return c.handle
}

// Reset implements Recorder
func (c *CommandBuffer) Reset() error {
	return vkError(vk.ResetCommandBuffer(c.handle, 0), "vk.ResetCommandBuffer()")
}

// Record implements Recorder
func (c *CommandBuffer) Record(target RenderTarget) error {
	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	if err := vkError(vk.BeginCommandBuffer(c.handle, &cbbi), "vk.BeginCommandBuffer()"); err != nil {
		return err
	}

	clearValues := make([]vk.ClearValue, 1)
	clearValues[0].SetColor(c.clearColor[:])

	rpbi := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  target.RenderPass,
		Framebuffer: target.Framebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: target.Extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}

	viewport, scissor := viewportOf(target.Extent)

	vk.CmdBeginRenderPass(c.handle, &rpbi, vk.SubpassContentsInline)
	vk.CmdBindPipeline(c.handle, vk.PipelineBindPointGraphics, target.Pipeline)
	vk.CmdSetViewport(c.handle, 0, 1, []vk.Viewport{viewport})
	vk.CmdSetScissor(c.handle, 0, 1, []vk.Rect2D{scissor})
	vk.CmdDraw(c.handle, 3, 1, 0, 0)
	vk.CmdEndRenderPass(c.handle)

	return vkError(vk.EndCommandBuffer(c.handle), "vk.EndCommandBuffer()")
}

// viewportOf covers the whole extent with the viewport and the scissor.
func viewportOf(extent vk.Extent2D) (vk.Viewport, vk.Rect2D) {
	size := mgl32.Vec2{float32(extent.Width), float32(extent.Height)}
	viewport := vk.Viewport{
		X:        0,
		Y:        0,
		Width:    size.X(),
		Height:   size.Y(),
		MinDepth: 0,
		MaxDepth: 1,
	}
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}
	return viewport, scissor
}
