package core_test

import (
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/compound/core"
	"github.com/devblok/compound/device"
)

func TestChooseSurfaceFormat(t *testing.T) {
	c := qt.New(t)

	format, err := core.ChooseSurfaceFormat([]vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(format.Format, qt.Equals, vk.FormatB8g8r8a8Srgb)
	c.Assert(format.ColorSpace, qt.Equals, vk.ColorSpaceSrgbNonlinear)
}

func TestChooseSurfaceFormatUnsupported(t *testing.T) {
	tests := []struct {
		name    string
		formats []vk.SurfaceFormat
	}{{
		name: "empty",
	}, {
		name: "unorm only",
		formats: []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
	}, {
		name: "right format in another color space",
		formats: []vk.SurfaceFormat{
			// VK_COLOR_SPACE_EXTENDED_SRGB_LINEAR_EXT
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpace(1000104002)},
		},
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := qt.New(t)
			_, err := core.ChooseSurfaceFormat(test.formats)
			c.Assert(err, qt.ErrorIs, core.ErrUnsupportedSurfaceFormat)
		})
	}
}

func TestChoosePresentMode(t *testing.T) {
	tests := []struct {
		name     string
		modes    []vk.PresentMode
		expected vk.PresentMode
	}{{
		name:     "mailbox available",
		modes:    []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox},
		expected: vk.PresentModeMailbox,
	}, {
		name:     "fifo fallback",
		modes:    []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo},
		expected: vk.PresentModeFifo,
	}, {
		name:     "nothing reported",
		expected: vk.PresentModeFifo,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := qt.New(t)
			first := core.ChoosePresentMode(test.modes)
			c.Assert(first, qt.Equals, test.expected)
			c.Assert(core.ChoosePresentMode(test.modes), qt.Equals, first)
		})
	}
}

func capabilities(current, min, max vk.Extent2D) vk.SurfaceCapabilities {
	return vk.SurfaceCapabilities{
		MinImageCount:  2,
		CurrentExtent:  current,
		MinImageExtent: min,
		MaxImageExtent: max,
	}
}

func TestChooseExtent(t *testing.T) {
	sentinel := vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32}
	min := vk.Extent2D{Width: 100, Height: 100}
	max := vk.Extent2D{Width: 1920, Height: 1080}

	tests := []struct {
		name          string
		current       vk.Extent2D
		width, height int
		expected      vk.Extent2D
	}{{
		name:     "surface decides",
		current:  vk.Extent2D{Width: 640, Height: 480},
		width:    800,
		height:   600,
		expected: vk.Extent2D{Width: 640, Height: 480},
	}, {
		name:     "window size within limits",
		current:  sentinel,
		width:    800,
		height:   600,
		expected: vk.Extent2D{Width: 800, Height: 600},
	}, {
		name:     "window size clamped to maximum",
		current:  sentinel,
		width:    4096,
		height:   2160,
		expected: max,
	}, {
		name:     "window size clamped to minimum",
		current:  sentinel,
		width:    10,
		height:   0,
		expected: min,
	}, {
		name:     "each component clamped on its own",
		current:  sentinel,
		width:    50,
		height:   5000,
		expected: vk.Extent2D{Width: 100, Height: 1080},
	}, {
		name:     "negative size",
		current:  sentinel,
		width:    -1,
		height:   300,
		expected: vk.Extent2D{Width: 100, Height: 300},
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := qt.New(t)
			extent := core.ChooseExtent(capabilities(test.current, min, max), test.width, test.height)
			c.Assert(extent.Width, qt.Equals, test.expected.Width)
			c.Assert(extent.Height, qt.Equals, test.expected.Height)
		})
	}
}

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		name     string
		min, max uint32
		expected uint32
	}{{
		name:     "no maximum",
		min:      2,
		max:      0,
		expected: 3,
	}, {
		name:     "below maximum",
		min:      2,
		max:      8,
		expected: 3,
	}, {
		name:     "maximum equals minimum",
		min:      3,
		max:      3,
		expected: 3,
	}, {
		name:     "one above minimum is the maximum",
		min:      1,
		max:      2,
		expected: 2,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := qt.New(t)
			count := core.ChooseImageCount(vk.SurfaceCapabilities{
				MinImageCount: test.min,
				MaxImageCount: test.max,
			})
			c.Assert(count, qt.Equals, test.expected)
		})
	}
}

func TestChooseSharingMode(t *testing.T) {
	c := qt.New(t)

	mode, families := core.ChooseSharingMode(0, 0)
	c.Assert(mode, qt.Equals, vk.SharingModeExclusive)
	c.Assert(families, qt.HasLen, 0)

	mode, families = core.ChooseSharingMode(0, 2)
	c.Assert(mode, qt.Equals, vk.SharingModeConcurrent)
	c.Assert(families, qt.DeepEquals, []uint32{0, 2})
}

func TestNegotiateSwapchain(t *testing.T) {
	c := qt.New(t)

	caps := capabilities(
		vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32},
		vk.Extent2D{Width: 1, Height: 1},
		vk.Extent2D{Width: 4096, Height: 4096},
	)
	caps.CurrentTransform = vk.SurfaceTransformIdentityBit

	config, err := core.NegotiateSwapchain(device.SurfaceSupport{
		Formats:      []vk.SurfaceFormat{core.SurfaceFormat},
		PresentModes: []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox},
		Capabilities: caps,
	}, 800, 600, 0, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(config.Format.Format, qt.Equals, vk.FormatB8g8r8a8Srgb)
	c.Assert(config.PresentMode, qt.Equals, vk.PresentModeMailbox)
	c.Assert(config.Extent.Width, qt.Equals, uint32(800))
	c.Assert(config.Extent.Height, qt.Equals, uint32(600))
	c.Assert(config.ImageCount, qt.Equals, uint32(3))
	c.Assert(config.SharingMode, qt.Equals, vk.SharingModeConcurrent)
	c.Assert(config.QueueFamilies, qt.DeepEquals, []uint32{0, 1})
	c.Assert(config.PreTransform, qt.Equals, vk.SurfaceTransformIdentityBit)
}

func TestNegotiateSwapchainUnsupportedFormat(t *testing.T) {
	c := qt.New(t)

	_, err := core.NegotiateSwapchain(device.SurfaceSupport{
		Formats: []vk.SurfaceFormat{{
			Format:     vk.FormatR8g8b8a8Srgb,
			ColorSpace: vk.ColorSpaceSrgbNonlinear,
		}},
		PresentModes: []vk.PresentMode{vk.PresentModeFifo},
	}, 800, 600, 0, 0)
	c.Assert(err, qt.ErrorIs, core.ErrUnsupportedSurfaceFormat)
}
