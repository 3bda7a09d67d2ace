// Package wire exposes the narrow connection surface the event loop
// consumes. The dispatcher never touches the socket directly; everything
// goes through Conn so the transport stays swappable (and fakeable).
package wire

import (
	"github.com/bnema/wlturbo/wl"
)

// Global describes one object advertised by the compositor at
// connection time.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// GlobalFunc is called when a global matching the subscribed interface
// is announced.
type GlobalFunc func(name, version uint32)

// Conn is the connection to the display server.
//
// All dispatch methods must be called from the single dispatch goroutine.
// Sync is the exception: it is safe to call from any goroutine and is the
// mechanism a waker uses to unblock a pending Dispatch.
type Conn interface {
	// Flush pushes buffered outgoing requests to the server. Must be
	// called before any blocking read so queued requests are visible to
	// the server before we wait on it.
	Flush() error

	// Dispatch blocks until at least one incoming message has been
	// processed, then returns.
	Dispatch() error

	// DispatchPending processes incoming messages without suspending the
	// caller indefinitely. It may perform a bounded sync round-trip but
	// must return once everything currently queued has been dispatched.
	DispatchPending() error

	// Roundtrip blocks until the server has acknowledged all previously
	// sent requests, dispatching everything received in the meantime.
	Roundtrip() error

	// Sync queues a sync request and flushes it without waiting for the
	// acknowledgement. Safe for concurrent use.
	Sync() error

	// OnGlobal subscribes to announcements of one interface. Must be
	// called before the initial roundtrips to observe the opening burst.
	OnGlobal(iface string, fn GlobalFunc)

	// OnGlobalRemove subscribes to global removals. Handlers receive the
	// server-assigned numeric name of the removed global.
	OnGlobalRemove(fn func(name uint32))

	// Bind binds an advertised global to the given proxy object.
	Bind(name uint32, iface string, version uint32, proxy wl.Proxy) error

	// FindGlobal reports an advertised global for the interface, if any.
	FindGlobal(iface string) (Global, bool)

	// Globals snapshots every currently advertised global.
	Globals() []Global

	Close() error
}
