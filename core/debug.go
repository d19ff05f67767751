package core

import (
	"unsafe"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

var vkdebugLog = log.WithField("component", "compound.vkdebug")

const debugReportFlags = vk.DebugReportErrorBit |
	vk.DebugReportWarningBit |
	vk.DebugReportPerformanceWarningBit |
	vk.DebugReportInformationBit |
	vk.DebugReportDebugBit

type debugReport struct {
	callback vk.DebugReportCallback
}

func newDebugReport(instance vk.Instance) (*debugReport, error) {
	info := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(debugReportFlags),
		PfnCallback: debugCallback,
	}

	var callback vk.DebugReportCallback
	if err := vkError(vk.CreateDebugReportCallback(instance, &info, nil, &callback), "vk.CreateDebugReportCallback()"); err != nil {
		return nil, err
	}
	return &debugReport{callback: callback}, nil
}

func (d *debugReport) Destroy(instance vk.Instance) {
	vk.DestroyDebugReportCallback(instance, d.callback, nil)
}

// debugLevel maps report flags to the log level the message is written at.
func debugLevel(flags vk.DebugReportFlags) log.Level {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return log.ErrorLevel
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return log.WarnLevel
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return log.InfoLevel
	default:
		return log.DebugLevel
	}
}

func debugCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	entry := vkdebugLog.WithFields(log.Fields{
		"layer": pLayerPrefix,
		"code":  messageCode,
	})
	switch debugLevel(flags) {
	case log.ErrorLevel:
		entry.Error(pMessage)
	case log.WarnLevel:
		entry.Warn(pMessage)
	case log.InfoLevel:
		entry.Info(pMessage)
	default:
		entry.Debug(pMessage)
	}
	// The call that triggered the report is never aborted.
	return vk.Bool32(vk.False)
}
