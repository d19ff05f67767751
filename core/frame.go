package core

import (
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

var renderloopLog = log.WithField("component", "compound.renderloop")

// frameDevice issues the device calls a frame is made of.
type frameDevice interface {
	CreateSemaphore() (vk.Semaphore, error)
	CreateFence(signaled bool) (vk.Fence, error)
	WaitForFence(fence vk.Fence) error
	ResetFence(fence vk.Fence) error
	AcquireNextImage(swapchain vk.Swapchain, signal vk.Semaphore) (uint32, vk.Result)
	Submit(queue vk.Queue, submit vk.SubmitInfo, fence vk.Fence) error
	Present(queue vk.Queue, present vk.PresentInfo) vk.Result
	DestroySemaphore(semaphore vk.Semaphore)
	DestroyFence(fence vk.Fence)
}

type vulkanFrameDevice struct {
	handle vk.Device
}

func (d vulkanFrameDevice) CreateSemaphore() (vk.Semaphore, error) {
	sci := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	var semaphore vk.Semaphore
	err := vkError(vk.CreateSemaphore(d.handle, &sci, nil, &semaphore), "vk.CreateSemaphore()")
	return semaphore, err
}

func (d vulkanFrameDevice) CreateFence(signaled bool) (vk.Fence, error) {
	fci := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		fci.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	err := vkError(vk.CreateFence(d.handle, &fci, nil, &fence), "vk.CreateFence()")
	return fence, err
}

func (d vulkanFrameDevice) WaitForFence(fence vk.Fence) error {
	return vkError(vk.WaitForFences(d.handle, 1, []vk.Fence{fence}, vk.True, math.MaxUint64), "vk.WaitForFences()")
}

func (d vulkanFrameDevice) ResetFence(fence vk.Fence) error {
	return vkError(vk.ResetFences(d.handle, 1, []vk.Fence{fence}), "vk.ResetFences()")
}

func (d vulkanFrameDevice) AcquireNextImage(swapchain vk.Swapchain, signal vk.Semaphore) (uint32, vk.Result) {
	var index uint32
	ret := vk.AcquireNextImage(d.handle, swapchain, math.MaxUint64, signal, vk.NullFence, &index)
	return index, ret
}

func (d vulkanFrameDevice) Submit(queue vk.Queue, submit vk.SubmitInfo, fence vk.Fence) error {
	return vkError(vk.QueueSubmit(queue, 1, []vk.SubmitInfo{submit}, fence), "vk.QueueSubmit()")
}

func (d vulkanFrameDevice) Present(queue vk.Queue, present vk.PresentInfo) vk.Result {
	return vk.QueuePresent(queue, &present)
}

func (d vulkanFrameDevice) DestroySemaphore(semaphore vk.Semaphore) {
	vk.DestroySemaphore(d.handle, semaphore, nil)
}

func (d vulkanFrameDevice) DestroyFence(fence vk.Fence) {
	vk.DestroyFence(d.handle, fence, nil)
}

// FrameSynchronizer drives acquire, submit and present of one frame at a
// time. There is a render finished semaphore for every swapchain image,
// indexed by the acquired image index, so a semaphore is never signaled
// while a previous present may still wait on it.
type FrameSynchronizer struct {
	device frameDevice

	graphicsQueue     vk.Queue
	presentationQueue vk.Queue

	// borrowed, must outlive the synchronizer
	framebuffers *Framebuffers

	imageAvailable vk.Semaphore
	renderFinished []vk.Semaphore
	inFlight       vk.Fence
}

// NewFrameSynchronizer creates the synchronization objects for swapchain.
// The in-flight fence starts signaled so the first frame doesn't block.
// dev and framebuffers are borrowed and must outlive the synchronizer.
func NewFrameSynchronizer(dev *Device, swapchain *Swapchain, framebuffers *Framebuffers) (*FrameSynchronizer, error) {
	return newFrameSynchronizer(vulkanFrameDevice{handle: dev.Handle()},
		dev.GraphicsQueue(), dev.PresentationQueue(), swapchain.ImageCount(), framebuffers)
}

func newFrameSynchronizer(fd frameDevice, graphics, presentation vk.Queue, images int, framebuffers *Framebuffers) (*FrameSynchronizer, error) {
	f := &FrameSynchronizer{
		device:            fd,
		graphicsQueue:     graphics,
		presentationQueue: presentation,
		framebuffers:      framebuffers,
		inFlight:          vk.NullFence,
	}

	var err error
	if f.imageAvailable, err = fd.CreateSemaphore(); err != nil {
		return nil, err
	}
	for idx := 0; idx < images; idx++ {
		semaphore, err := fd.CreateSemaphore()
		if err != nil {
			f.Destroy()
			return nil, errors.Wrapf(err, "image %d", idx)
		}
		f.renderFinished = append(f.renderFinished, semaphore)
	}
	if f.inFlight, err = fd.CreateFence(true); err != nil {
		f.inFlight = vk.NullFence
		f.Destroy()
		return nil, err
	}
	return f, nil
}

// DrawFrame waits for the previous frame, acquires the next image, records
// and submits the frame for it and queues it for presentation. Failing to
// present is logged and not returned.
func (f *FrameSynchronizer) DrawFrame(cmd Recorder, swapchain *Swapchain, pipeline *Pipeline) error {
	if err := f.device.WaitForFence(f.inFlight); err != nil {
		return err
	}
	if err := f.device.ResetFence(f.inFlight); err != nil {
		return err
	}

	imageIndex, ret := f.device.AcquireNextImage(swapchain.Handle(), f.imageAvailable)
	if ret != vk.Success {
		return kindError(ErrSwapchainAcquireFailed, vkError(ret, "vk.AcquireNextImage()"))
	}
	if int(imageIndex) >= len(f.renderFinished) {
		return errors.Wrapf(ErrSwapchainAcquireFailed, "image index %d out of %d images", imageIndex, len(f.renderFinished))
	}
	renderFinished := f.renderFinished[imageIndex]

	if err := cmd.Reset(); err != nil {
		return err
	}
	if err := cmd.Record(RenderTarget{
		RenderPass:  pipeline.RenderPass(),
		Pipeline:    pipeline.Handle(),
		Framebuffer: f.framebuffers.At(imageIndex),
		Extent:      swapchain.Extent(),
	}); err != nil {
		return err
	}

	submit := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{f.imageAvailable},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cmd.Handle()},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{renderFinished},
	}
	if err := f.device.Submit(f.graphicsQueue, submit, f.inFlight); err != nil {
		return err
	}

	present := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{swapchain.Handle()},
		PImageIndices:      []uint32{imageIndex},
	}
	if ret := f.device.Present(f.presentationQueue, present); ret != vk.Success {
		renderloopLog.WithField("result", ret).Warn("Presentation did not succeed")
	}
	return nil
}

// Destroy destroys every semaphore and the fence. The device must be idle.
func (f *FrameSynchronizer) Destroy() {
	if f.inFlight != vk.NullFence {
		f.device.DestroyFence(f.inFlight)
	}
	for _, semaphore := range f.renderFinished {
		f.device.DestroySemaphore(semaphore)
	}
	f.renderFinished = nil
	f.device.DestroySemaphore(f.imageAvailable)
}
