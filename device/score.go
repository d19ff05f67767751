package device

import (
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// Score contributions. A family scores for the capability it is looked up
// for and for every unrelated capability it lacks, so narrow families win
// over general purpose ones.
const (
	familyCapabilityScore = 500

	// Only the device type adds to the score of a device meeting every
	// hard requirement, other types stay at zero.
	discreteScore   = 1000
	integratedScore = 500
)

func familyScore(f QueueFamily) int {
	var score int
	if f.Has(vk.QueueGraphicsBit) {
		score += familyCapabilityScore
	}
	if !f.Has(vk.QueueTransferBit) {
		score += familyCapabilityScore
	}
	if !f.Has(vk.QueueComputeBit) {
		score += familyCapabilityScore
	}
	return score
}

func graphicsScore(f QueueFamily) int {
	if !f.Has(vk.QueueGraphicsBit) {
		return 0
	}
	return familyScore(f)
}

// presentationScore scores present capable families like any other, a
// family with transfer and compute but no graphics scores zero.
func presentationScore(f QueueFamily) int {
	if !f.Present {
		return 0
	}
	return familyScore(f)
}

// bestFamily scans left to right and keeps the first family reaching
// the highest score. ok is false when every family scored zero.
func bestFamily(families []QueueFamily, score func(QueueFamily) int) (index uint32, ok bool) {
	var top int
	for _, f := range families {
		if s := score(f); s > top {
			top = s
			index = f.Index
		}
	}
	return index, top > 0
}

// GraphicsFamilyIndex returns the graphics capable family with the fewest
// unrelated capabilities.
func GraphicsFamilyIndex(families []QueueFamily) (uint32, error) {
	index, ok := bestFamily(families, graphicsScore)
	if !ok {
		return 0, ErrNoGraphicsQueue
	}
	return index, nil
}

// PresentationFamilyIndex returns the best scoring family that can present
// to the surface the families were queried against.
func PresentationFamilyIndex(families []QueueFamily) (uint32, error) {
	index, ok := bestFamily(families, presentationScore)
	if !ok {
		return 0, ErrNoPresentationQueue
	}
	return index, nil
}

// Score rates a candidate against req, zero means the device can't be used.
func Score(c Candidate, req Requirements) int {
	return score(c, req, true)
}

// HeadlessScore is Score without the clauses that need a surface: present
// support and surface formats and present modes are not looked at.
func HeadlessScore(c Candidate, req Requirements) int {
	return score(c, req, false)
}

func score(c Candidate, req Requirements, surface bool) int {
	if c.Invalid || c.APIVersion < req.MinAPIVersion {
		return 0
	}
	if _, ok := bestFamily(c.QueueFamilies, graphicsScore); !ok {
		return 0
	}
	if len(c.MissingExtensions(req.Extensions)) > 0 {
		return 0
	}
	if surface {
		if _, ok := bestFamily(c.QueueFamilies, presentationScore); !ok {
			return 0
		}
		if len(c.Surface.Formats) == 0 || len(c.Surface.PresentModes) == 0 {
			return 0
		}
	}

	switch c.Type {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return discreteScore
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return integratedScore
	default:
		return 0
	}
}

// Select probes every device and picks the highest scoring one. On a tie
// the device enumerated first is kept. Queue family indices are resolved
// again on the chosen device and their failures are returned.
func Select(p Prober, req Requirements) (Selection, error) {
	candidates, err := p.Probe()
	if err != nil {
		return Selection{}, err
	}
	if len(candidates) == 0 {
		return Selection{}, ErrNoDeviceFound
	}

	var (
		best Candidate
		top  int
	)
	for _, c := range candidates {
		score := Score(c, req)
		logger.WithFields(log.Fields{
			"device": c.Name,
			"score":  score,
		}).Debug("Scored physical device")
		if score > top {
			best, top = c, score
		}
	}
	if top == 0 {
		return Selection{}, ErrNoSuitableDevice
	}

	graphics, err := GraphicsFamilyIndex(best.QueueFamilies)
	if err != nil {
		return Selection{}, err
	}
	presentation, err := PresentationFamilyIndex(best.QueueFamilies)
	if err != nil {
		return Selection{}, err
	}

	logger.WithFields(log.Fields{
		"device":       best.Name,
		"graphics":     graphics,
		"presentation": presentation,
	}).Info("Selected physical device")

	return Selection{
		Candidate:          best,
		Score:              top,
		GraphicsFamily:     graphics,
		PresentationFamily: presentation,
	}, nil
}
