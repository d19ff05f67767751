package device_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/compound/device"
)

type fakeProber struct {
	candidates []device.Candidate
	err        error
}

func (f fakeProber) Probe() ([]device.Candidate, error) {
	return f.candidates, f.err
}

func named(c device.Candidate, name string) device.Candidate {
	c.Name = name
	return c
}

func TestSelectNoDevice(t *testing.T) {
	c := qt.New(t)
	_, err := device.Select(fakeProber{}, device.DefaultRequirements())
	c.Assert(err, qt.ErrorIs, device.ErrNoDeviceFound)
}

func TestSelectProbeFailure(t *testing.T) {
	c := qt.New(t)
	probeErr := errors.New("lost")
	_, err := device.Select(fakeProber{err: probeErr}, device.DefaultRequirements())
	c.Assert(err, qt.ErrorIs, probeErr)
}

func TestSelectOldAPIVersion(t *testing.T) {
	c := qt.New(t)
	old := qualified(vk.PhysicalDeviceTypeDiscreteGpu)
	old.APIVersion = vk.MakeVersion(1, 1, 0)

	_, err := device.Select(fakeProber{candidates: []device.Candidate{old}}, device.DefaultRequirements())
	c.Assert(err, qt.ErrorIs, device.ErrNoSuitableDevice)
}

func TestSelectCPUOnly(t *testing.T) {
	c := qt.New(t)
	p := fakeProber{candidates: []device.Candidate{
		named(qualified(vk.PhysicalDeviceTypeCpu), "llvmpipe"),
	}}

	_, err := device.Select(p, device.DefaultRequirements())
	c.Assert(err, qt.ErrorIs, device.ErrNoSuitableDevice)
}

func TestSelectPrefersDiscrete(t *testing.T) {
	c := qt.New(t)
	p := fakeProber{candidates: []device.Candidate{
		named(qualified(vk.PhysicalDeviceTypeIntegratedGpu), "integrated"),
		named(qualified(vk.PhysicalDeviceTypeDiscreteGpu), "discrete"),
	}}

	selection, err := device.Select(p, device.DefaultRequirements())
	c.Assert(err, qt.IsNil)
	c.Assert(selection.Candidate.Name, qt.Equals, "discrete")
	c.Assert(selection.Score, qt.Equals, 1000)
}

func TestSelectTieKeepsFirst(t *testing.T) {
	c := qt.New(t)
	p := fakeProber{candidates: []device.Candidate{
		named(qualified(vk.PhysicalDeviceTypeDiscreteGpu), "first"),
		named(qualified(vk.PhysicalDeviceTypeDiscreteGpu), "second"),
	}}

	selection, err := device.Select(p, device.DefaultRequirements())
	c.Assert(err, qt.IsNil)
	c.Assert(selection.Candidate.Name, qt.Equals, "first")
}

func TestSelectSkipsUnsuitable(t *testing.T) {
	c := qt.New(t)
	broken := named(qualified(vk.PhysicalDeviceTypeDiscreteGpu), "broken")
	broken.QueueFamilies = families(compute | transfer)

	p := fakeProber{candidates: []device.Candidate{
		broken,
		named(qualified(vk.PhysicalDeviceTypeIntegratedGpu), "integrated"),
	}}

	selection, err := device.Select(p, device.DefaultRequirements())
	c.Assert(err, qt.IsNil)
	c.Assert(selection.Candidate.Name, qt.Equals, "integrated")
}

func TestSelectSharedFamily(t *testing.T) {
	c := qt.New(t)
	p := fakeProber{candidates: []device.Candidate{qualified(vk.PhysicalDeviceTypeDiscreteGpu)}}

	selection, err := device.Select(p, device.DefaultRequirements())
	c.Assert(err, qt.IsNil)
	c.Assert(selection.GraphicsFamily, qt.Equals, uint32(0))
	c.Assert(selection.PresentationFamily, qt.Equals, uint32(0))
	c.Assert(selection.Families(), qt.DeepEquals, []uint32{0})
}

func TestSelectSeparateFamilies(t *testing.T) {
	c := qt.New(t)
	candidate := qualified(vk.PhysicalDeviceTypeDiscreteGpu)
	candidate.QueueFamilies = families(graphics|compute|transfer, transfer)
	candidate.QueueFamilies[1].Present = true

	selection, err := device.Select(fakeProber{candidates: []device.Candidate{candidate}}, device.DefaultRequirements())
	c.Assert(err, qt.IsNil)
	c.Assert(selection.Families(), qt.DeepEquals, []uint32{0, 1})
}

func TestDescribe(t *testing.T) {
	c := qt.New(t)
	info := device.Describe(qualified(vk.PhysicalDeviceTypeIntegratedGpu), device.DefaultRequirements())
	c.Assert(info.Type, qt.Equals, "integrated")
	c.Assert(info.APIVersion, qt.Equals, "1.3.0")
	c.Assert(info.Score, qt.Equals, 500)
	c.Assert(info.QueueFamilies, qt.DeepEquals, []device.QueueFamilyInfo{{
		Index:    0,
		Queues:   1,
		Graphics: true,
		Compute:  true,
		Transfer: true,
		Present:  true,
	}})
}

func TestDescribeHeadless(t *testing.T) {
	c := qt.New(t)
	candidate := qualified(vk.PhysicalDeviceTypeDiscreteGpu)
	candidate.QueueFamilies[0].Present = false
	candidate.Surface = device.SurfaceSupport{}

	c.Assert(device.Describe(candidate, device.DefaultRequirements()).Score, qt.Equals, 0)

	info := device.DescribeHeadless(candidate, device.DefaultRequirements())
	c.Assert(info.Score, qt.Equals, 1000)
	c.Assert(info.Headless, qt.IsTrue)

	candidate.Extensions = nil
	c.Assert(device.HeadlessScore(candidate, device.DefaultRequirements()), qt.Equals, 0)
}
