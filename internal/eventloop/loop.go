package eventloop

import (
	"fmt"
	"sync/atomic"

	"github.com/bnema/wayloop/internal/logger"
	"github.com/bnema/wayloop/internal/protocols"
	"github.com/bnema/wayloop/internal/window"
	"github.com/bnema/wayloop/internal/wire"
)

// EventLoop owns the connection and every protocol object bound on it.
// All dispatching happens on the goroutine calling PollEvents or
// RunForever; the sink and the wakeup/cleanup flags are the only state
// shared with other goroutines.
type EventLoop struct {
	conn  wire.Conn
	state *stateContext
	store *window.Store
	sink  *sink

	pendingWakeup atomic.Bool
	cleanupNeeded atomic.Bool

	shared *wakeShared
	seat   *seatHandler
}

// New connects to the display server and fully initializes the loop:
// two sync round-trips to receive the initial global burst, then shell
// negotiation, then seat setup if a seat was advertised.
func New(socket string) (*EventLoop, error) {
	conn, err := wire.Connect(socket)
	if err != nil {
		return nil, fmt.Errorf("no event loop: %w", err)
	}
	loop, err := newWithConn(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return loop, nil
}

// newWithConn builds the loop on an established connection. Split out
// so tests can drive the sequence with a fake transport.
func newWithConn(conn wire.Conn) (*EventLoop, error) {
	l := &EventLoop{
		conn:  conn,
		state: newStateContext(conn),
		store: window.NewStore(),
		sink:  newSink(),
	}
	l.shared = &wakeShared{conn: conn, pending: &l.pendingWakeup}

	l.state.registerGlobals()

	// Two round trips to fully initialize: the first delivers the global
	// announcements, the second the property bursts of what we bound.
	if err := conn.Roundtrip(); err != nil {
		return nil, fmt.Errorf("wayland connection unexpectedly lost: %w", err)
	}
	if err := conn.Roundtrip(); err != nil {
		return nil, fmt.Errorf("wayland connection unexpectedly lost: %w", err)
	}

	if err := l.state.ensureShell(); err != nil {
		return nil, err
	}
	if err := l.initSeat(); err != nil {
		return nil, err
	}
	logger.Debug("event loop ready", "shell", l.state.shell)
	return l, nil
}

// initSeat binds the seat, if advertised, and installs the capability
// state machine with device factories for its sub-handlers.
func (l *EventLoop) initSeat() error {
	return l.state.initSeat(func(seat *protocols.Seat) {
		h := &seatHandler{
			acquirePointer: func() (releaser, error) {
				p, err := seat.GetPointer()
				if err != nil {
					return nil, err
				}
				newPointerTranslator(l.sink, l.store, seat.Version).attach(p)
				return p, nil
			},
			acquireKeyboard: func() (releaser, error) {
				k, err := seat.GetKeyboard()
				if err != nil {
					return nil, err
				}
				newKeyboardTranslator(l.sink, l.store).attach(k)
				return k, nil
			},
		}
		h.attach(seat)
		l.seat = h
	})
}

// Waker returns a handle that can wake this loop from any goroutine.
func (l *EventLoop) Waker() Waker {
	return Waker{shared: l.shared}
}

// Shell reports the negotiated window-management protocol.
func (l *EventLoop) Shell() ShellVariant {
	return l.state.shell
}

// PrimaryMonitor returns the first advertised monitor. An empty
// registry is an invariant violation at the caller's level, surfaced as
// ErrNoMonitor.
func (l *EventLoop) PrimaryMonitor() (Monitor, error) {
	return l.state.monitors.primary()
}

// Monitors returns a handle for every currently advertised monitor.
func (l *EventLoop) Monitors() []Monitor {
	return l.state.monitors.snapshot()
}

// PollEvents delivers everything already translated, dispatches whatever
// the server has queued without blocking indefinitely, and delivers the
// result. Both drains complete before it returns.
func (l *EventLoop) PollEvents(callback func(Event)) error {
	if err := l.conn.Flush(); err != nil {
		return fmt.Errorf("wayland connection lost: %w", err)
	}

	// Dispatch any pre-buffered events.
	l.sink.drain(callback)

	if err := l.conn.DispatchPending(); err != nil {
		return fmt.Errorf("wayland connection lost: %w", err)
	}
	l.postDispatchTriggers()

	l.sink.drain(callback)
	return nil
}

// RunForever blocks dispatching until the callback returns Break or the
// connection fails. Break stops the loop only after the drain pass that
// observed it, so every event already queued in that pass is delivered.
func (l *EventLoop) RunForever(callback func(Event) ControlFlow) error {
	if err := l.conn.Flush(); err != nil {
		return fmt.Errorf("wayland connection lost: %w", err)
	}

	stop := false
	deliver := func(evt Event) {
		if callback(evt) == Break {
			stop = true
		}
	}

	// Dispatch any pre-buffered events before the first block.
	l.postDispatchTriggers()
	l.sink.drain(deliver)

	for !stop {
		if err := l.conn.Dispatch(); err != nil {
			return fmt.Errorf("wayland connection lost: %w", err)
		}
		l.postDispatchTriggers()
		l.sink.drain(deliver)
	}
	return nil
}

// postDispatchTriggers runs after every dispatch pass, in fixed order:
// wakeup flag, store cleanup, then per-window pending state.
func (l *EventLoop) postDispatchTriggers() {
	if l.pendingWakeup.CompareAndSwap(true, false) {
		l.sink.push(Event{Kind: KindAwakened})
	}

	if l.cleanupNeeded.CompareAndSwap(true, false) {
		l.store.Cleanup()
	}

	l.store.ForEach(func(newSize *window.Size, refresh, closed bool, wid window.ID, decorated window.DecoratedSurface) {
		if newSize != nil && decorated != nil {
			// Resize synchronously before announcing the new size.
			decorated.Resize(int32(newSize.Width), int32(newSize.Height))
			l.sink.push(Event{
				Kind:   KindResized,
				Window: wid,
				Width:  newSize.Width,
				Height: newSize.Height,
			})
		}
		if refresh {
			l.sink.push(Event{Kind: KindRefresh, Window: wid})
		}
		if closed {
			l.sink.push(Event{Kind: KindClosed, Window: wid})
		}
	})
}

// Close severs every waker and closes the connection. Wakers used after
// this return ErrClosed.
func (l *EventLoop) Close() error {
	l.shared.sever()
	return l.conn.Close()
}
