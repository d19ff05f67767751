package core

import (
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"

	"github.com/devblok/compound/device"
)

var swapchainLog = log.WithField("component", "compound.swapchain")

// SurfaceFormat is the only format swapchains are created with.
var SurfaceFormat = vk.SurfaceFormat{
	Format:     vk.FormatB8g8r8a8Srgb,
	ColorSpace: vk.ColorSpaceSrgbNonlinear,
}

// SwapchainConfig is the outcome of negotiating a swapchain against
// the capabilities of a surface.
type SwapchainConfig struct {
	Format      vk.SurfaceFormat
	PresentMode vk.PresentMode
	Extent      vk.Extent2D
	ImageCount  uint32

	SharingMode vk.SharingMode
	// QueueFamilies is only set for concurrent sharing
	QueueFamilies []uint32

	PreTransform vk.SurfaceTransformFlagBits
}

// ChooseSurfaceFormat requires SurfaceFormat to be offered, there is no fallback.
func ChooseSurfaceFormat(formats []vk.SurfaceFormat) (vk.SurfaceFormat, error) {
	for _, f := range formats {
		if f.Format == SurfaceFormat.Format && f.ColorSpace == SurfaceFormat.ColorSpace {
			return f, nil
		}
	}
	return vk.SurfaceFormat{}, ErrUnsupportedSurfaceFormat
}

// ChoosePresentMode prefers mailbox and falls back to FIFO, which
// every surface supports.
func ChoosePresentMode(modes []vk.PresentMode) vk.PresentMode {
	if slices.Contains(modes, vk.PresentModeMailbox) {
		return vk.PresentModeMailbox
	}
	return vk.PresentModeFifo
}

// ChooseExtent uses the current extent of the surface, unless the surface
// leaves it to the window, then the framebuffer size is clamped into the
// extent limits of the surface.
func ChooseExtent(capabilities vk.SurfaceCapabilities, width, height int) vk.Extent2D {
	if capabilities.CurrentExtent.Width != math.MaxUint32 {
		return capabilities.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clamp(toUint32(width), capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(toUint32(height), capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image more than the minimum, but never
// more than the maximum. A maximum of zero means there is no limit.
func ChooseImageCount(capabilities vk.SurfaceCapabilities) uint32 {
	count := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && count > capabilities.MaxImageCount {
		count = capabilities.MaxImageCount
	}
	return count
}

// ChooseSharingMode shares images concurrently between two different
// families, otherwise the single family owns them exclusively.
func ChooseSharingMode(graphics, presentation uint32) (vk.SharingMode, []uint32) {
	if graphics != presentation {
		return vk.SharingModeConcurrent, []uint32{graphics, presentation}
	}
	return vk.SharingModeExclusive, nil
}

// NegotiateSwapchain reconciles what the surface supports with the
// framebuffer size and the queue families in use.
func NegotiateSwapchain(support device.SurfaceSupport, width, height int, graphics, presentation uint32) (SwapchainConfig, error) {
	format, err := ChooseSurfaceFormat(support.Formats)
	if err != nil {
		return SwapchainConfig{}, err
	}
	sharing, families := ChooseSharingMode(graphics, presentation)
	return SwapchainConfig{
		Format:        format,
		PresentMode:   ChoosePresentMode(support.PresentModes),
		Extent:        ChooseExtent(support.Capabilities, width, height),
		ImageCount:    ChooseImageCount(support.Capabilities),
		SharingMode:   sharing,
		QueueFamilies: families,
		PreTransform:  support.Capabilities.CurrentTransform,
	}, nil
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}

// imageDevice issues the device calls swapchain images and views need.
type imageDevice interface {
	SwapchainImages(swapchain vk.Swapchain) ([]vk.Image, error)
	CreateImageView(info vk.ImageViewCreateInfo) (vk.ImageView, error)
	DestroyImageView(view vk.ImageView)
	DestroySwapchain(swapchain vk.Swapchain)
}

type vulkanImageDevice struct {
	handle vk.Device
}

func (d vulkanImageDevice) SwapchainImages(swapchain vk.Swapchain) ([]vk.Image, error) {
	var numImages uint32
	if err := vkError(vk.GetSwapchainImages(d.handle, swapchain, &numImages, nil), "vk.GetSwapchainImages(num)"); err != nil {
		return nil, err
	}
	images := make([]vk.Image, numImages)
	if err := vkError(vk.GetSwapchainImages(d.handle, swapchain, &numImages, images), "vk.GetSwapchainImages(images)"); err != nil {
		return nil, err
	}
	return images[:numImages], nil
}

func (d vulkanImageDevice) CreateImageView(info vk.ImageViewCreateInfo) (vk.ImageView, error) {
	var view vk.ImageView
	err := vkError(vk.CreateImageView(d.handle, &info, nil, &view), "vk.CreateImageView()")
	return view, err
}

func (d vulkanImageDevice) DestroyImageView(view vk.ImageView) {
	vk.DestroyImageView(d.handle, view, nil)
}

func (d vulkanImageDevice) DestroySwapchain(swapchain vk.Swapchain) {
	vk.DestroySwapchain(d.handle, swapchain, nil)
}

// Swapchain is a created image chain with one view per image. Views are
// index aligned with the images the swapchain hands out on acquire.
type Swapchain struct {
	device imageDevice

	handle vk.Swapchain
	config SwapchainConfig
	images []vk.Image
	views  []vk.ImageView
}

// CreateSwapchain creates a swapchain for surface on dev. Both are borrowed
// and must outlive the swapchain.
func CreateSwapchain(dev *Device, surface *Surface) (*Swapchain, error) {
	support, err := device.QuerySurface(dev.Physical(), surface.Handle())
	if err != nil {
		return nil, err
	}

	width, height := surface.FramebufferSize()
	config, err := NegotiateSwapchain(support, width, height, dev.GraphicsFamily(), dev.PresentationFamily())
	if err != nil {
		return nil, err
	}

	scci := vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               surface.Handle(),
		MinImageCount:         config.ImageCount,
		ImageFormat:           config.Format.Format,
		ImageColorSpace:       config.Format.ColorSpace,
		ImageExtent:           config.Extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      config.SharingMode,
		QueueFamilyIndexCount: uint32(len(config.QueueFamilies)),
		PQueueFamilyIndices:   config.QueueFamilies,
		PreTransform:          config.PreTransform,
		CompositeAlpha:        vk.CompositeAlphaOpaqueBit,
		PresentMode:           config.PresentMode,
		Clipped:               vk.True,
		OldSwapchain:          vk.NullSwapchain,
	}

	var handle vk.Swapchain
	if err := vkError(vk.CreateSwapchain(dev.Handle(), &scci, nil, &handle), "vk.CreateSwapchain()"); err != nil {
		return nil, err
	}
	s := &Swapchain{
		device: vulkanImageDevice{handle: dev.Handle()},
		handle: handle,
		config: config,
	}

	if err := s.createImageViews(); err != nil {
		s.Destroy()
		return nil, err
	}

	swapchainLog.WithFields(log.Fields{
		"width":       config.Extent.Width,
		"height":      config.Extent.Height,
		"images":      len(s.images),
		"presentMode": config.PresentMode,
		"sharing":     config.SharingMode,
	}).Info("Created swapchain")
	return s, nil
}

func (s *Swapchain) createImageViews() error {
	images, err := s.device.SwapchainImages(s.handle)
	if err != nil {
		return err
	}
	s.images = images

	for idx, image := range s.images {
		ivci := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   s.config.Format.Format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		}

		view, err := s.device.CreateImageView(ivci)
		if err != nil {
			return errors.Wrapf(err, "image %d", idx)
		}
		s.views = append(s.views, view)
	}
	return nil
}

// Handle returns the vk.Swapchain
func (s *Swapchain) Handle() vk.Swapchain {
	return s.handle
}

// Config returns the negotiated configuration
func (s *Swapchain) Config() SwapchainConfig {
	return s.config
}

// Extent returns the size of the swapchain images
func (s *Swapchain) Extent() vk.Extent2D {
	return s.config.Extent
}

// Format returns the format of the swapchain images
func (s *Swapchain) Format() vk.Format {
	return s.config.Format.Format
}

// ImageViews returns one view per swapchain image, in image order
func (s *Swapchain) ImageViews() []vk.ImageView {
	return s.views
}

// ImageCount is the number of images the swapchain was created with
func (s *Swapchain) ImageCount() int {
	return len(s.images)
}

// Destroy destroys the image views, then the swapchain
func (s *Swapchain) Destroy() {
	for _, view := range s.views {
		s.device.DestroyImageView(view)
	}
	s.views = nil
	s.images = nil
	s.device.DestroySwapchain(s.handle)
}
