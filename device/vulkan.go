package device

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// VulkanProber probes the physical devices of a Vulkan instance. When
// Surface is null the surface dependent queries are skipped and no
// family reports present support.
type VulkanProber struct {
	Instance vk.Instance
	Surface  vk.Surface
}

// Probe implements interface
func (p VulkanProber) Probe() ([]Candidate, error) {
	handles, err := enumerateDevices(p.Instance)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(handles))
	for _, handle := range handles {
		c, err := p.probe(handle)
		if err != nil {
			logger.WithError(err).WithField("device", c.Name).Warn("Failed to query physical device")
			c.Invalid = true
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func enumerateDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	devices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, devices)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	return devices[:deviceCount], nil
}

func (p VulkanProber) probe(handle vk.PhysicalDevice) (Candidate, error) {
	c := Candidate{Handle: handle}

	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(handle, &properties)
	properties.Deref()
	c.Name = vk.ToString(properties.DeviceName[:])
	c.APIVersion = properties.ApiVersion
	c.DriverVersion = properties.DriverVersion
	c.VendorID = properties.VendorID
	c.DeviceID = properties.DeviceID
	c.Type = properties.DeviceType

	families, err := queryQueueFamilies(handle, p.Surface)
	if err != nil {
		return c, err
	}
	c.QueueFamilies = families

	extensions, err := queryExtensions(handle)
	if err != nil {
		return c, err
	}
	c.Extensions = extensions

	if p.Surface == vk.NullSurface {
		return c, nil
	}
	support, err := QuerySurface(handle, p.Surface)
	if err != nil {
		return c, err
	}
	c.Surface = support
	return c, nil
}

func queryQueueFamilies(handle vk.PhysicalDevice, surface vk.Surface) ([]QueueFamily, error) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(handle, &count, nil)
	properties := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(handle, &count, properties)

	families := make([]QueueFamily, count)
	for i := uint32(0); i < count; i++ {
		properties[i].Deref()
		families[i] = QueueFamily{
			Index: i,
			Flags: properties[i].QueueFlags,
			Count: properties[i].QueueCount,
		}
		if surface == vk.NullSurface {
			continue
		}
		var supported vk.Bool32
		if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(handle, i, surface, &supported)); err != nil {
			return nil, errors.Wrapf(err, "vk.GetPhysicalDeviceSurfaceSupport(%d)", i)
		}
		families[i].Present = supported.B()
	}
	return families, nil
}

func queryExtensions(handle vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(handle, "", &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties()")
	}
	properties := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(handle, "", &count, properties)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties()")
	}

	extensions := make([]string, 0, count)
	for _, ext := range properties[:count] {
		ext.Deref()
		extensions = append(extensions, vk.ToString(ext.ExtensionName[:]))
	}
	return extensions, nil
}

// QuerySurface queries the formats, present modes and capabilities the
// device offers for surface.
func QuerySurface(handle vk.PhysicalDevice, surface vk.Surface) (SurfaceSupport, error) {
	var support SurfaceSupport

	var formatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(handle, surface, &formatCount, nil)); err != nil {
		return support, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}
	formats := make([]vk.SurfaceFormat, formatCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(handle, surface, &formatCount, formats)); err != nil {
		return support, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}
	for i := range formats {
		formats[i].Deref()
	}
	support.Formats = formats[:formatCount]

	var modeCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(handle, surface, &modeCount, nil)); err != nil {
		return support, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}
	modes := make([]vk.PresentMode, modeCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(handle, surface, &modeCount, modes)); err != nil {
		return support, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}
	support.PresentModes = modes[:modeCount]

	var capabilities vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(handle, surface, &capabilities)); err != nil {
		return support, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceCapabilities()")
	}
	capabilities.Deref()
	capabilities.CurrentExtent.Deref()
	capabilities.MinImageExtent.Deref()
	capabilities.MaxImageExtent.Deref()
	support.Capabilities = capabilities

	return support, nil
}
