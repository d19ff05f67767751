package core

import (
	"testing"

	qt "github.com/frankban/quicktest"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

func TestDebugLevel(t *testing.T) {
	tests := []struct {
		flags    vk.DebugReportFlagBits
		expected log.Level
	}{
		{vk.DebugReportErrorBit, log.ErrorLevel},
		{vk.DebugReportErrorBit | vk.DebugReportWarningBit, log.ErrorLevel},
		{vk.DebugReportWarningBit, log.WarnLevel},
		{vk.DebugReportPerformanceWarningBit, log.WarnLevel},
		{vk.DebugReportInformationBit, log.InfoLevel},
		{vk.DebugReportDebugBit, log.DebugLevel},
	}

	for _, test := range tests {
		c := qt.New(t)
		c.Assert(debugLevel(vk.DebugReportFlags(test.flags)), qt.Equals, test.expected)
	}
}

func TestDebugCallbackNeverAborts(t *testing.T) {
	c := qt.New(t)
	ret := debugCallback(vk.DebugReportFlags(vk.DebugReportErrorBit), 0, 0, 0, 1, "layer", "message", nil)
	c.Assert(ret, qt.Equals, vk.Bool32(vk.False))
}

func TestTrimNames(t *testing.T) {
	c := qt.New(t)
	c.Assert(trimNames([]string{"VK_KHR_surface\x00", "VK_KHR_xcb_surface"}), qt.DeepEquals,
		[]string{"VK_KHR_surface", "VK_KHR_xcb_surface"})
	c.Assert(safeStrings([]string{"a"}), qt.DeepEquals, []string{"a\x00"})
}
