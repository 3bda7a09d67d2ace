package wire

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/bnema/wlturbo/wl"

	"github.com/bnema/wayloop/internal/logger"
)

const (
	displayObjectID    = 1
	displaySyncOpcode  = 0
	registryRemoveEvt  = 1
	callbackDoneOpcode = 0
)

// turboConn adapts a wlturbo display to the Conn interface.
type turboConn struct {
	display *wl.Display

	removeMu sync.Mutex
	removeFn []func(uint32)
}

// Connect opens the Wayland socket. An empty socket name falls back to
// $WAYLAND_DISPLAY, then "wayland-0".
func Connect(socket string) (Conn, error) {
	display, err := wl.Connect(socket)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Wayland display: %w", err)
	}

	c := &turboConn{display: display}

	// wlturbo only tracks removals in its own registry map; tap the raw
	// global_remove event so monitor teardown can observe them.
	display.AddListener(display.Registry().ID(), registryRemoveEvt, c.handleGlobalRemove)

	logger.Debug("connected to Wayland display", "socket", socket)
	return c, nil
}

func (c *turboConn) handleGlobalRemove(data []byte) {
	if len(data) < 4 {
		return
	}
	name := binary.LittleEndian.Uint32(data[0:4])

	c.removeMu.Lock()
	fns := append([]func(uint32){}, c.removeFn...)
	c.removeMu.Unlock()

	for _, fn := range fns {
		fn(name)
	}
}

// Flush is a no-op: wlturbo writes each request eagerly on SendRequest.
// Kept so the loop's flush-before-block ordering holds for any buffering
// transport behind Conn.
func (c *turboConn) Flush() error {
	return nil
}

func (c *turboConn) Dispatch() error {
	if err := c.display.Dispatch(); err != nil {
		return fmt.Errorf("wayland dispatch: %w", err)
	}
	return nil
}

// DispatchPending drains whatever the server has queued by riding a sync
// round-trip. The sync acknowledgement bounds the call, so it never
// suspends the caller indefinitely.
func (c *turboConn) DispatchPending() error {
	return c.Roundtrip()
}

func (c *turboConn) Roundtrip() error {
	if err := c.display.Roundtrip(); err != nil {
		return fmt.Errorf("wayland roundtrip: %w", err)
	}
	return nil
}

func (c *turboConn) Sync() error {
	id := c.display.AllocateID()
	// Swallow the done event; the point of this sync is only to force the
	// server to send something, unblocking a pending Dispatch.
	c.display.AddListener(id, callbackDoneOpcode, func([]byte) {})
	if err := c.display.SendRequest(displayObjectID, displaySyncOpcode, id); err != nil {
		return fmt.Errorf("wayland sync: %w", err)
	}
	return nil
}

func (c *turboConn) OnGlobal(iface string, fn GlobalFunc) {
	c.display.Registry().AddHandler(iface, func(_ *wl.Registry, name, version uint32) {
		fn(name, version)
	})
}

func (c *turboConn) OnGlobalRemove(fn func(name uint32)) {
	c.removeMu.Lock()
	c.removeFn = append(c.removeFn, fn)
	c.removeMu.Unlock()
}

func (c *turboConn) Bind(name uint32, iface string, version uint32, proxy wl.Proxy) error {
	if err := c.display.Registry().Bind(name, iface, version, proxy); err != nil {
		return fmt.Errorf("bind %s: %w", iface, err)
	}
	return nil
}

func (c *turboConn) FindGlobal(iface string) (Global, bool) {
	g, ok := c.display.Registry().FindGlobal(iface)
	if !ok {
		return Global{}, false
	}
	return Global{Name: g.Name, Interface: g.Interface, Version: g.Version}, true
}

func (c *turboConn) Globals() []Global {
	raw := c.display.Registry().GetGlobals()
	out := make([]Global, 0, len(raw))
	for _, g := range raw {
		out = append(out, Global{Name: g.Name, Interface: g.Interface, Version: g.Version})
	}
	return out
}

func (c *turboConn) Close() error {
	return c.display.Close()
}
