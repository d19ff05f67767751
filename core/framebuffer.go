package core

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Framebuffers holds one framebuffer per swapchain image view, in the
// same order as the views.
type Framebuffers struct {
	device  *Device
	handles []vk.Framebuffer
}

// NewFramebuffers creates the framebuffers of swapchain for renderPass.
func NewFramebuffers(dev *Device, swapchain *Swapchain, renderPass vk.RenderPass) (*Framebuffers, error) {
	f := &Framebuffers{device: dev}
	extent := swapchain.Extent()
	for idx, view := range swapchain.ImageViews() {
		attachments := []vk.ImageView{view}
		fci := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           extent.Width,
			Height:          extent.Height,
			Layers:          1,
		}

		var framebuffer vk.Framebuffer
		if err := vkError(vk.CreateFramebuffer(dev.Handle(), &fci, nil, &framebuffer), "vk.CreateFramebuffer()"); err != nil {
			f.Destroy()
			return nil, errors.Wrapf(err, "image %d", idx)
		}
		f.handles = append(f.handles, framebuffer)
	}
	return f, nil
}

// At returns the framebuffer of the swapchain image at index
func (f *Framebuffers) At(index uint32) vk.Framebuffer {
	return f.handles[index]
}

// Len is the number of framebuffers
func (f *Framebuffers) Len() int {
	return len(f.handles)
}

// Destroy destroys every framebuffer
func (f *Framebuffers) Destroy() {
	for _, framebuffer := range f.handles {
		vk.DestroyFramebuffer(f.device.Handle(), framebuffer, nil)
	}
	f.handles = nil
}
