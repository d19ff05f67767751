package core

import (
	"strings"
	"unsafe"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slices"
)

// ValidationLayer is enabled on the instance and device in debug mode.
const ValidationLayer = "VK_LAYER_KHRONOS_validation"

const engineName = "compound"

var initLog = log.WithField("component", "compound.init")

// Instance owns the Vulkan instance and, in debug mode, the debug report
// callback installed on it. It has to outlive everything created from it.
type Instance struct {
	handle     vk.Instance
	layers     []string
	extensions []string

	debugReport *debugReport
}

// NewInstance creates a Vulkan instance for an application requiring
// apiVersion. procAddr is the vkGetInstanceProcAddr handed out by the
// windowing library, if nil the system loader is used.
func NewInstance(cfg InstanceConfiguration, apiVersion uint32, procAddr unsafe.Pointer) (*Instance, error) {
	layers := trimNames(cfg.Layers)
	extensions := trimNames(cfg.Extensions)
	if cfg.DebugMode {
		if !slices.Contains(layers, ValidationLayer) {
			layers = append(layers, ValidationLayer)
		}
		if !slices.Contains(extensions, vk.ExtDebugReportExtensionName) {
			extensions = append(extensions, vk.ExtDebugReportExtensionName)
		}
	}

	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr()")
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "vk.Init()")
	}

	if err := checkLayers(layers); err != nil {
		return nil, err
	}
	if err := checkExtensions(extensions); err != nil {
		return nil, err
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(cfg.ApplicationName),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        safeString(engineName),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         apiVersion,
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}

	initLog.WithField("application", cfg.ApplicationName).Info("Creating vulkan instance")
	var handle vk.Instance
	if err := vkError(vk.CreateInstance(&instanceInfo, nil, &handle), "vk.CreateInstance()"); err != nil {
		initLog.WithError(err).Error("Instance creation failed")
		return nil, err
	}
	if err := vk.InitInstance(handle); err != nil {
		vk.DestroyInstance(handle, nil)
		return nil, errors.Wrap(err, "vk.InitInstance()")
	}

	instance := &Instance{
		handle:     handle,
		layers:     layers,
		extensions: extensions,
	}

	if cfg.DebugMode {
		initLog.Debug("Setting up debug report")
		report, err := newDebugReport(handle)
		if err != nil {
			instance.Destroy()
			return nil, err
		}
		instance.debugReport = report
	}
	return instance, nil
}

// Handle returns the vk.Instance
func (i *Instance) Handle() vk.Instance {
	return i.handle
}

// Layers returns the layers enabled on the instance
func (i *Instance) Layers() []string {
	return i.layers
}

// Extensions returns the extensions enabled on the instance
func (i *Instance) Extensions() []string {
	return i.extensions
}

// LogProperties writes the layers and extensions the loader offers to the log.
func (i *Instance) LogProperties() {
	extensions, err := availableExtensions()
	if err != nil {
		initLog.WithError(err).Warn("Could not enumerate instance extensions")
	}
	layers, err := availableLayers()
	if err != nil {
		initLog.WithError(err).Warn("Could not enumerate instance layers")
	}

	initLog.Info("Available extensions :")
	for _, ext := range extensions {
		initLog.Infof("\t%s %d", vk.ToString(ext.ExtensionName[:]), ext.SpecVersion)
	}
	initLog.Info("Available layers :")
	for _, layer := range layers {
		initLog.Infof("\t%s %d %d %s",
			vk.ToString(layer.LayerName[:]),
			layer.SpecVersion,
			layer.ImplementationVersion,
			vk.ToString(layer.Description[:]))
	}
}

// Destroy destroys the debug report, then the instance
func (i *Instance) Destroy() {
	if i.debugReport != nil {
		i.debugReport.Destroy(i.handle)
		i.debugReport = nil
	}
	vk.DestroyInstance(i.handle, nil)
}

func trimNames(names []string) []string {
	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		trimmed = append(trimmed, strings.TrimRight(name, "\x00"))
	}
	return trimmed
}

func availableExtensions() ([]vk.ExtensionProperties, error) {
	var count uint32
	if err := vkError(vk.EnumerateInstanceExtensionProperties("", &count, nil), "vk.EnumerateInstanceExtensionProperties()"); err != nil {
		return nil, err
	}
	properties := make([]vk.ExtensionProperties, count)
	if err := vkError(vk.EnumerateInstanceExtensionProperties("", &count, properties), "vk.EnumerateInstanceExtensionProperties()"); err != nil {
		return nil, err
	}
	for i := range properties {
		properties[i].Deref()
	}
	return properties[:count], nil
}

func availableLayers() ([]vk.LayerProperties, error) {
	var count uint32
	if err := vkError(vk.EnumerateInstanceLayerProperties(&count, nil), "vk.EnumerateInstanceLayerProperties()"); err != nil {
		return nil, err
	}
	properties := make([]vk.LayerProperties, count)
	if err := vkError(vk.EnumerateInstanceLayerProperties(&count, properties), "vk.EnumerateInstanceLayerProperties()"); err != nil {
		return nil, err
	}
	for i := range properties {
		properties[i].Deref()
	}
	return properties[:count], nil
}

func checkExtensions(required []string) error {
	properties, err := availableExtensions()
	if err != nil {
		return err
	}
	available := make([]string, 0, len(properties))
	for _, ext := range properties {
		available = append(available, vk.ToString(ext.ExtensionName[:]))
	}
	for _, name := range required {
		initLog.Debugf("Checking for extension support for %s", name)
		if !slices.Contains(available, name) {
			return errors.Wrap(ErrExtensionUnavailable, name)
		}
	}
	return nil
}

func checkLayers(required []string) error {
	properties, err := availableLayers()
	if err != nil {
		return err
	}
	available := make([]string, 0, len(properties))
	for _, layer := range properties {
		available = append(available, vk.ToString(layer.LayerName[:]))
	}
	for _, name := range required {
		if !slices.Contains(available, name) {
			return errors.Wrap(ErrLayerUnavailable, name)
		}
	}
	return nil
}
