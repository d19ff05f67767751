package device

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Info describes a candidate in a form fit for reports and logs.
type Info struct {
	Name          string            `json:"name"`
	Type          string            `json:"type"`
	APIVersion    string            `json:"apiVersion"`
	DriverVersion uint32            `json:"driverVersion"`
	VendorID      uint32            `json:"vendorId"`
	DeviceID      uint32            `json:"deviceId"`
	Extensions    int               `json:"extensions"`
	QueueFamilies []QueueFamilyInfo `json:"queueFamilies"`
	Score         int               `json:"score"`
	Headless      bool              `json:"headless,omitempty"`
	Invalid       bool              `json:"invalid,omitempty"`
}

// QueueFamilyInfo describes a single queue family.
type QueueFamilyInfo struct {
	Index    uint32 `json:"index"`
	Queues   uint32 `json:"queues"`
	Graphics bool   `json:"graphics"`
	Compute  bool   `json:"compute"`
	Transfer bool   `json:"transfer"`
	Present  bool   `json:"present"`
}

// DescribeHeadless is Describe for candidates probed without a surface,
// scored with HeadlessScore.
func DescribeHeadless(c Candidate, req Requirements) Info {
	info := Describe(c, req)
	info.Score = HeadlessScore(c, req)
	info.Headless = true
	return info
}

// Describe builds the Info of c, scored against req.
func Describe(c Candidate, req Requirements) Info {
	info := Info{
		Name:          c.Name,
		Type:          TypeName(c.Type),
		APIVersion:    VersionString(c.APIVersion),
		DriverVersion: c.DriverVersion,
		VendorID:      c.VendorID,
		DeviceID:      c.DeviceID,
		Extensions:    len(c.Extensions),
		Score:         Score(c, req),
		Invalid:       c.Invalid,
	}
	for _, f := range c.QueueFamilies {
		info.QueueFamilies = append(info.QueueFamilies, QueueFamilyInfo{
			Index:    f.Index,
			Queues:   f.Count,
			Graphics: f.Has(vk.QueueGraphicsBit),
			Compute:  f.Has(vk.QueueComputeBit),
			Transfer: f.Has(vk.QueueTransferBit),
			Present:  f.Present,
		})
	}
	return info
}

// LogQueueFamilies writes every queue family of c to the device log.
func LogQueueFamilies(c Candidate) {
	for _, f := range Describe(c, Requirements{}).QueueFamilies {
		logger.WithField("device", c.Name).Debugf(
			"Queue family %d: queues=%d graphics=%t compute=%t transfer=%t present=%t",
			f.Index, f.Queues, f.Graphics, f.Compute, f.Transfer, f.Present)
	}
}

// TypeName returns a readable name of a physical device type.
func TypeName(t vk.PhysicalDeviceType) string {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete"
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "other"
	}
}

// VersionString formats a packed Vulkan version as major.minor.patch.
func VersionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>22, (v>>12)&0x3ff, v&0xfff)
}
