package protocols

import (
	"github.com/bnema/wlturbo/wl"

	"github.com/bnema/wayloop/internal/logger"
)

// Protocol interface names
const (
	WlShellInterface   = "wl_shell"
	XdgWmBaseInterface = "xdg_wm_base"
)

// WlShell represents the legacy wl_shell global
type WlShell struct {
	wl.BaseProxy
}

// Dispatch handles incoming events (wl_shell has no events)
func (s *WlShell) Dispatch(_ *wl.Event) {}

// GetShellSurface creates a shell surface role for the given surface
func (s *WlShell) GetShellSurface(surface *Surface) (*WlShellSurface, error) {
	shellSurface := &WlShellSurface{}
	shellSurface.SetContext(s.Context())
	shellSurface.SetID(s.Context().AllocateID())
	s.Context().Register(shellSurface)

	// Opcode 0: get_shell_surface
	const opcode = 0
	if err := s.Context().SendRequest(s, opcode, shellSurface, surface); err != nil {
		s.Context().Unregister(shellSurface)
		return nil, err
	}
	return shellSurface, nil
}

// WlShellSurface represents a wl_shell_surface role object
type WlShellSurface struct {
	wl.BaseProxy

	// Configure carries a size suggestion from the compositor.
	Configure func(edges uint32, width, height int32)
	// PopupDone signals a dismissed popup.
	PopupDone func()
}

// Dispatch decodes wl_shell_surface events
func (s *WlShellSurface) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // ping
		serial := event.Uint32()
		// Answer immediately so the compositor keeps treating us as alive.
		if err := s.Pong(serial); err != nil {
			logger.Warnf("wl_shell_surface pong failed: %v", err)
		}
	case 1: // configure
		edges := event.Uint32()
		width := event.Int32()
		height := event.Int32()
		if s.Configure != nil {
			s.Configure(edges, width, height)
		}
	case 2: // popup_done
		if s.PopupDone != nil {
			s.PopupDone()
		}
	}
}

// Pong responds to a ping event
func (s *WlShellSurface) Pong(serial uint32) error {
	// Opcode 0: pong
	const opcode = 0
	return s.Context().SendRequest(s, opcode, serial)
}

// SetToplevel maps the surface as a toplevel window
func (s *WlShellSurface) SetToplevel() error {
	// Opcode 3: set_toplevel
	const opcode = 3
	return s.Context().SendRequest(s, opcode)
}

// SetTitle sets the window title
func (s *WlShellSurface) SetTitle(title string) error {
	// Opcode 8: set_title
	const opcode = 8
	return s.Context().SendRequest(s, opcode, title)
}

// XdgWmBase represents the xdg_wm_base global
type XdgWmBase struct {
	wl.BaseProxy
}

// Dispatch decodes xdg_wm_base events
func (x *XdgWmBase) Dispatch(event *wl.Event) {
	if event.Opcode == 0 { // ping
		serial := event.Uint32()
		if err := x.Pong(serial); err != nil {
			logger.Warnf("xdg_wm_base pong failed: %v", err)
		}
	}
}

// Pong responds to a ping event
func (x *XdgWmBase) Pong(serial uint32) error {
	// Opcode 3: pong
	const opcode = 3
	return x.Context().SendRequest(x, opcode, serial)
}

// GetXdgSurface creates an xdg_surface for the given surface
func (x *XdgWmBase) GetXdgSurface(surface *Surface) (*XdgSurface, error) {
	xdgSurface := &XdgSurface{}
	xdgSurface.SetContext(x.Context())
	xdgSurface.SetID(x.Context().AllocateID())
	x.Context().Register(xdgSurface)

	// Opcode 2: get_xdg_surface
	const opcode = 2
	if err := x.Context().SendRequest(x, opcode, xdgSurface, surface); err != nil {
		x.Context().Unregister(xdgSurface)
		return nil, err
	}
	return xdgSurface, nil
}

// Destroy destroys the xdg_wm_base object
func (x *XdgWmBase) Destroy() error {
	// Opcode 0: destroy
	const opcode = 0
	err := x.Context().SendRequest(x, opcode)
	x.Context().Unregister(x)
	return err
}

// XdgSurface represents an xdg_surface role object
type XdgSurface struct {
	wl.BaseProxy

	// Configure carries the serial that must be acked before commit.
	Configure func(serial uint32)
}

// Dispatch decodes xdg_surface events
func (s *XdgSurface) Dispatch(event *wl.Event) {
	if event.Opcode == 0 { // configure
		serial := event.Uint32()
		if s.Configure != nil {
			s.Configure(serial)
		}
	}
}

// GetToplevel assigns the toplevel role
func (s *XdgSurface) GetToplevel() (*XdgToplevel, error) {
	toplevel := &XdgToplevel{}
	toplevel.SetContext(s.Context())
	toplevel.SetID(s.Context().AllocateID())
	s.Context().Register(toplevel)

	// Opcode 1: get_toplevel
	const opcode = 1
	if err := s.Context().SendRequest(s, opcode, toplevel); err != nil {
		s.Context().Unregister(toplevel)
		return nil, err
	}
	return toplevel, nil
}

// SetWindowGeometry sets the visible window geometry
func (s *XdgSurface) SetWindowGeometry(x, y, width, height int32) error {
	// Opcode 3: set_window_geometry
	const opcode = 3
	return s.Context().SendRequest(s, opcode, x, y, width, height)
}

// AckConfigure acknowledges a configure event
func (s *XdgSurface) AckConfigure(serial uint32) error {
	// Opcode 4: ack_configure
	const opcode = 4
	return s.Context().SendRequest(s, opcode, serial)
}

// Destroy destroys the xdg_surface
func (s *XdgSurface) Destroy() error {
	// Opcode 0: destroy
	const opcode = 0
	err := s.Context().SendRequest(s, opcode)
	s.Context().Unregister(s)
	return err
}

// XdgToplevel represents an xdg_toplevel window
type XdgToplevel struct {
	wl.BaseProxy

	// Configure carries the compositor's size suggestion; 0x0 means
	// "pick your own size". The trailing states array is not decoded.
	Configure func(width, height int32)
	// Close signals a close request from the compositor.
	Close func()
}

// Dispatch decodes xdg_toplevel events
func (t *XdgToplevel) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // configure
		width := event.Int32()
		height := event.Int32()
		if t.Configure != nil {
			t.Configure(width, height)
		}
	case 1: // close
		if t.Close != nil {
			t.Close()
		}
	}
}

// SetTitle sets the window title
func (t *XdgToplevel) SetTitle(title string) error {
	// Opcode 2: set_title
	const opcode = 2
	return t.Context().SendRequest(t, opcode, title)
}

// SetAppID sets the application id
func (t *XdgToplevel) SetAppID(id string) error {
	// Opcode 3: set_app_id
	const opcode = 3
	return t.Context().SendRequest(t, opcode, id)
}

// Destroy destroys the toplevel
func (t *XdgToplevel) Destroy() error {
	// Opcode 0: destroy
	const opcode = 0
	err := t.Context().SendRequest(t, opcode)
	t.Context().Unregister(t)
	return err
}
