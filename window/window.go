// Package window opens the platform window the triangle is presented to.
// SDL2 and GLFW are supported, both have to be driven from the locked
// main OS thread.
package window

import (
	"unsafe"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/compound/core"
)

// Backends that New accepts.
const (
	SDL  = "sdl"
	GLFW = "glfw"
)

// ErrUnknownBackend is returned by New for backends it does not know.
var ErrUnknownBackend = errors.New("unknown window backend")

var logger = log.WithField("component", "compound.window")

// Window is a core.Window that also tells what the
// Vulkan instance needs to present to it.
type Window interface {
	core.Window

	// InstanceExtensions lists the instance extensions surfaces need
	InstanceExtensions() []string

	// ProcAddr is the vkGetInstanceProcAddr the library loaded
	ProcAddr() unsafe.Pointer

	// Terminate shuts the windowing library down and unloads the
	// Vulkan loader it opened, after the instance is destroyed
	Terminate()
}

// New opens a width by height window with the configured backend.
func New(cfg core.WindowConfiguration, width, height uint32) (Window, error) {
	logger.WithFields(log.Fields{
		"backend": cfg.Backend,
		"width":   width,
		"height":  height,
	}).Info("Opening window")

	var (
		w   Window
		err error
	)
	switch cfg.Backend {
	case SDL, "":
		w, err = NewSDLWindow(cfg.Title, width, height)
	case GLFW:
		w, err = NewGLFWWindow(cfg.Title, width, height)
	default:
		err = errors.Wrap(ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}
