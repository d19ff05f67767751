package window_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/compound/core"
	"github.com/devblok/compound/window"
)

func TestNewUnknownBackend(t *testing.T) {
	c := qt.New(t)
	w, err := window.New(core.WindowConfiguration{Backend: "wayland"}, 800, 600)
	c.Assert(err, qt.ErrorIs, window.ErrUnknownBackend)
	c.Assert(w, qt.IsNil)
}

var (
	_ window.Window = (*window.SDLWindow)(nil)
	_ window.Window = (*window.GLFWWindow)(nil)
)
