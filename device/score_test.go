package device_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/compound/device"
)

const (
	graphics = vk.QueueFlags(vk.QueueGraphicsBit)
	compute  = vk.QueueFlags(vk.QueueComputeBit)
	transfer = vk.QueueFlags(vk.QueueTransferBit)
)

func families(flags ...vk.QueueFlags) []device.QueueFamily {
	fs := make([]device.QueueFamily, len(flags))
	for i, f := range flags {
		fs[i] = device.QueueFamily{Index: uint32(i), Flags: f, Count: 1}
	}
	return fs
}

func TestGraphicsFamilyIndex(t *testing.T) {
	tests := []struct {
		name     string
		families []device.QueueFamily
		expected uint32
	}{{
		name:     "single general purpose family",
		families: families(graphics | compute | transfer),
		expected: 0,
	}, {
		name:     "dedicated graphics family preferred",
		families: families(graphics|compute|transfer, transfer, graphics),
		expected: 2,
	}, {
		name:     "fewer unrelated capabilities preferred",
		families: families(graphics|compute|transfer, graphics|transfer),
		expected: 1,
	}, {
		name:     "first family wins a tie",
		families: families(compute, graphics|compute, graphics|transfer),
		expected: 1,
	}, {
		name:     "non graphics family never chosen",
		families: families(0, graphics|compute|transfer),
		expected: 1,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := qt.New(t)
			index, err := device.GraphicsFamilyIndex(test.families)
			c.Assert(err, qt.IsNil)
			c.Assert(index, qt.Equals, test.expected)
			c.Assert(test.families[index].Has(vk.QueueGraphicsBit), qt.IsTrue)
		})
	}
}

func TestGraphicsFamilyIndexMissing(t *testing.T) {
	c := qt.New(t)

	_, err := device.GraphicsFamilyIndex(nil)
	c.Assert(err, qt.ErrorIs, device.ErrNoGraphicsQueue)

	_, err = device.GraphicsFamilyIndex(families(compute|transfer, transfer, 0))
	c.Assert(err, qt.ErrorIs, device.ErrNoGraphicsQueue)
}

func TestPresentationFamilyIndex(t *testing.T) {
	c := qt.New(t)

	fs := families(graphics|compute|transfer, graphics, compute|transfer)
	fs[0].Present = true
	fs[2].Present = true

	index, err := device.PresentationFamilyIndex(fs)
	c.Assert(err, qt.IsNil)
	c.Assert(index, qt.Equals, uint32(0))

	fs = families(graphics, transfer)
	fs[1].Present = true
	index, err = device.PresentationFamilyIndex(fs)
	c.Assert(err, qt.IsNil)
	c.Assert(index, qt.Equals, uint32(1))
}

func TestPresentationFamilyIndexMissing(t *testing.T) {
	c := qt.New(t)

	_, err := device.PresentationFamilyIndex(families(graphics, graphics|compute))
	c.Assert(err, qt.ErrorIs, device.ErrNoPresentationQueue)

	_, err = device.PresentationFamilyIndex(nil)
	c.Assert(err, qt.ErrorIs, device.ErrNoPresentationQueue)

	// transfer and compute without graphics scores zero even when it can present
	fs := families(graphics, compute|transfer)
	fs[1].Present = true
	_, err = device.PresentationFamilyIndex(fs)
	c.Assert(err, qt.ErrorIs, device.ErrNoPresentationQueue)
}

func TestIndicesMayDiffer(t *testing.T) {
	c := qt.New(t)

	fs := families(graphics, transfer)
	fs[1].Present = true

	g, err := device.GraphicsFamilyIndex(fs)
	c.Assert(err, qt.IsNil)
	p, err := device.PresentationFamilyIndex(fs)
	c.Assert(err, qt.IsNil)
	c.Assert(g, qt.Equals, uint32(0))
	c.Assert(p, qt.Equals, uint32(1))
}

func qualified(deviceType vk.PhysicalDeviceType) device.Candidate {
	fs := families(graphics | compute | transfer)
	fs[0].Present = true
	return device.Candidate{
		Name:          "test",
		APIVersion:    vk.MakeVersion(1, 3, 0),
		Type:          deviceType,
		QueueFamilies: fs,
		Extensions:    []string{vk.KhrSwapchainExtensionName},
		Surface: device.SurfaceSupport{
			Formats: []vk.SurfaceFormat{{
				Format:     vk.FormatB8g8r8a8Srgb,
				ColorSpace: vk.ColorSpaceSrgbNonlinear,
			}},
			PresentModes: []vk.PresentMode{vk.PresentModeFifo},
		},
	}
}

func TestScore(t *testing.T) {
	req := device.DefaultRequirements()

	tests := []struct {
		name     string
		modify   func(*device.Candidate)
		expected int
	}{{
		name:     "discrete",
		modify:   func(*device.Candidate) {},
		expected: 1000,
	}, {
		name:     "integrated",
		modify:   func(c *device.Candidate) { c.Type = vk.PhysicalDeviceTypeIntegratedGpu },
		expected: 500,
	}, {
		name:     "cpu",
		modify:   func(c *device.Candidate) { c.Type = vk.PhysicalDeviceTypeCpu },
		expected: 0,
	}, {
		name:     "virtual",
		modify:   func(c *device.Candidate) { c.Type = vk.PhysicalDeviceTypeVirtualGpu },
		expected: 0,
	}, {
		name:     "api version below minimum",
		modify:   func(c *device.Candidate) { c.APIVersion = vk.MakeVersion(1, 2, 198) },
		expected: 0,
	}, {
		name:     "no graphics family",
		modify:   func(c *device.Candidate) { c.QueueFamilies[0].Flags = compute },
		expected: 0,
	}, {
		name:     "no presentation family",
		modify:   func(c *device.Candidate) { c.QueueFamilies[0].Present = false },
		expected: 0,
	}, {
		name: "only a compute and transfer family can present",
		modify: func(c *device.Candidate) {
			c.QueueFamilies = families(graphics, compute|transfer)
			c.QueueFamilies[1].Present = true
		},
		expected: 0,
	}, {
		name:     "missing swapchain extension",
		modify:   func(c *device.Candidate) { c.Extensions = []string{"VK_KHR_maintenance1"} },
		expected: 0,
	}, {
		name:     "no surface formats",
		modify:   func(c *device.Candidate) { c.Surface.Formats = nil },
		expected: 0,
	}, {
		name:     "no present modes",
		modify:   func(c *device.Candidate) { c.Surface.PresentModes = nil },
		expected: 0,
	}, {
		name:     "invalid snapshot",
		modify:   func(c *device.Candidate) { c.Invalid = true },
		expected: 0,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := qt.New(t)
			candidate := qualified(vk.PhysicalDeviceTypeDiscreteGpu)
			test.modify(&candidate)
			c.Assert(device.Score(candidate, req), qt.Equals, test.expected)
		})
	}
}

func TestMissingExtensions(t *testing.T) {
	c := qt.New(t)
	candidate := device.Candidate{Extensions: []string{"a", "b"}}
	c.Assert(candidate.MissingExtensions([]string{"a", "c", "d"}), qt.DeepEquals, []string{"c", "d"})
	c.Assert(candidate.MissingExtensions(nil), qt.HasLen, 0)
}
