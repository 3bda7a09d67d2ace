package eventloop

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/bnema/wayloop/internal/wire"
)

// ErrClosed is returned by a Waker whose event loop has been closed.
var ErrClosed = errors.New("event loop is closed")

// wakeShared is the observer cell a Waker reads through. The loop owns
// it and severs the connection reference on Close; wakers only check
// liveness and never keep the loop alive.
type wakeShared struct {
	mu      sync.Mutex
	conn    wire.Conn // nil once the loop is closed
	pending *atomic.Bool
}

func (s *wakeShared) resolve() (wire.Conn, *atomic.Bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil, nil, false
	}
	return s.conn, s.pending, true
}

func (s *wakeShared) sever() {
	s.mu.Lock()
	s.conn = nil
	s.mu.Unlock()
}

// Waker wakes an event loop blocked in RunForever from another
// goroutine. Wakers are cheap to copy and safe for concurrent use,
// including concurrently with the loop's own dispatching.
type Waker struct {
	shared *wakeShared
}

// Wake flags the loop for one Awakened event and forces a sync request
// so a pending blocking dispatch returns. Returns ErrClosed once the
// loop is gone.
func (w Waker) Wake() error {
	conn, pending, ok := w.shared.resolve()
	if !ok {
		return ErrClosed
	}
	pending.Store(true)
	// The sync gives the server something to answer, which unblocks the
	// dispatch goroutine's read.
	if err := conn.Sync(); err != nil {
		return err
	}
	return conn.Flush()
}
