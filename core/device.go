package core

import (
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/compound/device"
)

var deviceLog = log.WithField("component", "compound.device")

// SelectPhysicalDevice picks the physical device best suited to render to
// surface and resolves its graphics and presentation queue families.
func SelectPhysicalDevice(instance *Instance, surface *Surface, req device.Requirements) (device.Selection, error) {
	selection, err := device.Select(device.VulkanProber{
		Instance: instance.Handle(),
		Surface:  surface.Handle(),
	}, req)
	if err != nil {
		return selection, err
	}
	device.LogQueueFamilies(selection.Candidate)
	return selection, nil
}

// QueueCreateInfos requests one queue at priority 1.0 for every
// distinct queue family of the selection.
func QueueCreateInfos(selection device.Selection) []vk.DeviceQueueCreateInfo {
	families := selection.Families()
	infos := make([]vk.DeviceQueueCreateInfo, 0, len(families))
	for _, family := range families {
		infos = append(infos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}
	return infos
}

// Device is a logical device with its graphics and presentation queues.
// When both come from the same family they are the same queue.
type Device struct {
	physical vk.PhysicalDevice
	handle   vk.Device

	graphicsFamily     uint32
	presentationFamily uint32
	graphicsQueue      vk.Queue
	presentationQueue  vk.Queue
}

// CreateLogicalDevice creates the logical device of the selection with the
// given device extensions enabled. The instance layers are enabled on the
// device as well, for implementations that still honor device layers.
func CreateLogicalDevice(instance *Instance, selection device.Selection, extensions []string) (*Device, error) {
	queueInfos := QueueCreateInfos(selection)
	layers := instance.Layers()

	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}

	var handle vk.Device
	if err := vkError(vk.CreateDevice(selection.Candidate.Handle, &dci, nil, &handle), "vk.CreateDevice()"); err != nil {
		return nil, kindError(ErrDeviceCreationFailed, err)
	}

	d := &Device{
		physical:           selection.Candidate.Handle,
		handle:             handle,
		graphicsFamily:     selection.GraphicsFamily,
		presentationFamily: selection.PresentationFamily,
	}
	vk.GetDeviceQueue(handle, selection.GraphicsFamily, 0, &d.graphicsQueue)
	vk.GetDeviceQueue(handle, selection.PresentationFamily, 0, &d.presentationQueue)

	deviceLog.WithFields(log.Fields{
		"device": selection.Candidate.Name,
		"queues": len(queueInfos),
	}).Info("Created logical device")
	return d, nil
}

// Handle returns the vk.Device
func (d *Device) Handle() vk.Device {
	return d.handle
}

// Physical returns the physical device the device was created on
func (d *Device) Physical() vk.PhysicalDevice {
	return d.physical
}

// GraphicsFamily returns the queue family index used for graphics
func (d *Device) GraphicsFamily() uint32 {
	return d.graphicsFamily
}

// PresentationFamily returns the queue family index used for presentation
func (d *Device) PresentationFamily() uint32 {
	return d.presentationFamily
}

// GraphicsQueue returns the queue draw commands are submitted to
func (d *Device) GraphicsQueue() vk.Queue {
	return d.graphicsQueue
}

// PresentationQueue returns the queue images are presented on
func (d *Device) PresentationQueue() vk.Queue {
	return d.presentationQueue
}

// WaitIdle blocks until the device has no work left
func (d *Device) WaitIdle() error {
	return vkError(vk.DeviceWaitIdle(d.handle), "vk.DeviceWaitIdle()")
}

// Destroy destroys the logical device
func (d *Device) Destroy() {
	vk.DestroyDevice(d.handle, nil)
}
