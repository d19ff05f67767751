// Package device holds the capability snapshots of physical rendering
// devices and the logic that scores them and resolves their queue families.
// Nothing here creates Vulkan objects; the Vulkan queries live behind Prober.
package device

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slices"
)

// package errors
var (
	ErrNoDeviceFound       = errors.New("device: no physical device found")
	ErrNoSuitableDevice    = errors.New("device: no suitable physical device")
	ErrNoGraphicsQueue     = errors.New("device: no queue family with graphics capability")
	ErrNoPresentationQueue = errors.New("device: no queue family with presentation support")
)

var logger = log.WithField("component", "compound.device")

// QueueFamily is one queue family of a physical device, together with
// whether it can present to the surface the snapshot was taken against.
type QueueFamily struct {
	Index   uint32
	Flags   vk.QueueFlags
	Count   uint32
	Present bool
}

// Has reports whether the family advertises the capability bit.
func (q QueueFamily) Has(bit vk.QueueFlagBits) bool {
	return q.Flags&vk.QueueFlags(bit) != 0
}

// SurfaceSupport is what a device offers for a particular surface.
type SurfaceSupport struct {
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
	Capabilities vk.SurfaceCapabilities
}

// Candidate is a read-only snapshot of a physical device taken during
// one enumeration pass.
type Candidate struct {
	Handle vk.PhysicalDevice `json:"-"`

	Name          string
	APIVersion    uint32
	DriverVersion uint32
	VendorID      uint32
	DeviceID      uint32
	Type          vk.PhysicalDeviceType

	QueueFamilies []QueueFamily
	Extensions    []string
	Surface       SurfaceSupport

	// Invalid is set when any of the queries failed, such a
	// candidate always scores zero.
	Invalid bool
}

// MissingExtensions returns the names in required the device does not expose.
func (c Candidate) MissingExtensions(required []string) []string {
	var missing []string
	for _, name := range required {
		if !slices.Contains(c.Extensions, name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Requirements are the hard requirements a device is scored against.
type Requirements struct {
	MinAPIVersion uint32
	Extensions    []string
}

// DefaultRequirements asks for Vulkan 1.3 and swapchain support.
func DefaultRequirements() Requirements {
	return Requirements{
		MinAPIVersion: vk.MakeVersion(1, 3, 0),
		Extensions:    []string{vk.KhrSwapchainExtensionName},
	}
}

// Selection is the outcome of device selection. Both family indices are
// valid indices into Candidate.QueueFamilies and may be equal.
type Selection struct {
	Candidate          Candidate
	Score              int
	GraphicsFamily     uint32
	PresentationFamily uint32
}

// Families returns the distinct queue family indices of the selection,
// graphics first.
func (s Selection) Families() []uint32 {
	if s.GraphicsFamily == s.PresentationFamily {
		return []uint32{s.GraphicsFamily}
	}
	return []uint32{s.GraphicsFamily, s.PresentationFamily}
}

// Prober takes capability snapshots of every physical device visible
// to an instance.
type Prober interface {
	Probe() ([]Candidate, error)
}
