package core

import (
	"testing"

	qt "github.com/frankban/quicktest"
	vk "github.com/vulkan-go/vulkan"
)

func TestViewportOf(t *testing.T) {
	c := qt.New(t)
	extent := vk.Extent2D{Width: 1280, Height: 720}

	viewport, scissor := viewportOf(extent)
	c.Assert(viewport.Width, qt.Equals, float32(1280))
	c.Assert(viewport.Height, qt.Equals, float32(720))
	c.Assert(viewport.MinDepth, qt.Equals, float32(0))
	c.Assert(viewport.MaxDepth, qt.Equals, float32(1))
	c.Assert(scissor.Offset, qt.Equals, vk.Offset2D{})
	c.Assert(scissor.Extent, qt.Equals, extent)
}
