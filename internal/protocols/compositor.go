package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// Protocol interface names
const (
	CompositorInterface    = "wl_compositor"
	SubcompositorInterface = "wl_subcompositor"
)

// Compositor represents the wl_compositor global
type Compositor struct {
	wl.BaseProxy
}

// Dispatch handles incoming events (wl_compositor has no events)
func (c *Compositor) Dispatch(_ *wl.Event) {}

// CreateSurface creates a new surface
func (c *Compositor) CreateSurface() (*Surface, error) {
	surface := &Surface{}
	surface.SetContext(c.Context())
	surface.SetID(c.Context().AllocateID())
	c.Context().Register(surface)

	// Opcode 0: create_surface
	const opcode = 0
	if err := c.Context().SendRequest(c, opcode, surface); err != nil {
		c.Context().Unregister(surface)
		return nil, err
	}
	return surface, nil
}

// Subcompositor represents the wl_subcompositor global. It is bound so
// decoration layers can be stacked on a window surface.
type Subcompositor struct {
	wl.BaseProxy
}

// Dispatch handles incoming events (wl_subcompositor has no events)
func (s *Subcompositor) Dispatch(_ *wl.Event) {}

// Surface represents a wl_surface
type Surface struct {
	wl.BaseProxy
}

// Dispatch handles wl_surface events (enter/leave are not tracked here)
func (s *Surface) Dispatch(_ *wl.Event) {}

// Attach attaches a buffer to the surface
func (s *Surface) Attach(buffer *Buffer, x, y int32) error {
	// Opcode 1: attach
	const opcode = 1
	if buffer == nil {
		return s.Context().SendRequest(s, opcode, nil, x, y)
	}
	return s.Context().SendRequest(s, opcode, buffer, x, y)
}

// Commit commits pending surface state
func (s *Surface) Commit() error {
	// Opcode 6: commit
	const opcode = 6
	return s.Context().SendRequest(s, opcode)
}

// Destroy destroys the surface
func (s *Surface) Destroy() error {
	// Opcode 0: destroy
	const opcode = 0
	err := s.Context().SendRequest(s, opcode)
	s.Context().Unregister(s)
	return err
}
