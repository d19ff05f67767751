package core

import (
	"fmt"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// package errors
var (
	ErrUnsupportedSurfaceFormat = errors.New("core: surface does not offer B8G8R8A8_SRGB with SRGB_NONLINEAR")
	ErrDeviceCreationFailed     = errors.New("core: logical device creation failed")
	ErrSwapchainAcquireFailed   = errors.New("core: swapchain image acquire failed")
	ErrLayerUnavailable         = errors.New("core: instance layer not available")
	ErrExtensionUnavailable     = errors.New("core: instance extension not available")
	ErrShaderMissing            = errors.New("core: shader not found")
)

// vkError returns nil for a successful result, otherwise the result's
// error annotated with the call that produced it.
func vkError(ret vk.Result, call string) error {
	if ret == vk.Success {
		return nil
	}
	if err := vk.Error(ret); err != nil {
		return errors.Wrap(err, call)
	}
	return errors.Errorf("%s: unexpected result %d", call, ret)
}

// kindError joins an error kind with its cause, both stay matchable.
func kindError(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
