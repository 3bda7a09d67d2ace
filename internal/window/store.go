// Package window tracks per-window pending state between dispatch passes.
// The event loop drains the flags exactly once per pass; window handles
// may set them from any goroutine.
package window

import (
	"sync"
)

// ID identifies one window for the lifetime of the loop.
type ID uint32

// Size is a pending size change in surface pixels.
type Size struct {
	Width  uint32
	Height uint32
}

// DecoratedSurface is the decoration handle attached to a window. The
// store only needs to forward synchronous resizes to it.
type DecoratedSurface interface {
	Resize(width, height int32)
}

// Window is the per-window record handed back to callers. Flag setters
// are safe from any goroutine.
type Window struct {
	store     *Store
	id        ID
	surfaceID uint32
	decorated DecoratedSurface

	newSize *Size
	refresh bool
	closed  bool
	dead    bool

	// onDead is invoked (outside the store lock) when the window is
	// released, so the loop can schedule a prune.
	onDead func()
}

// ID returns the window identifier.
func (w *Window) ID() ID {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	return w.id
}

// SetNewSize records a pending resize, replacing any earlier one.
func (w *Window) SetNewSize(width, height uint32) {
	w.store.mu.Lock()
	w.newSize = &Size{Width: width, Height: height}
	w.store.mu.Unlock()
}

// RequestRefresh flags the window for a refresh event.
func (w *Window) RequestRefresh() {
	w.store.mu.Lock()
	w.refresh = true
	w.store.mu.Unlock()
}

// RequestClose flags the window as closed by the compositor or the user.
func (w *Window) RequestClose() {
	w.store.mu.Lock()
	w.closed = true
	w.store.mu.Unlock()
}

// Release marks the window dead. The record stays in the store until the
// next prune so a drain in flight keeps a consistent view.
func (w *Window) Release() {
	w.store.mu.Lock()
	already := w.dead
	w.dead = true
	onDead := w.onDead
	w.store.mu.Unlock()

	if !already && onDead != nil {
		onDead()
	}
}

// Store holds every live window record.
type Store struct {
	mu      sync.Mutex
	nextID  ID
	windows []*Window
}

// NewStore returns an empty window store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Add registers a window for the given surface. onDead fires once when
// the window is later released.
func (s *Store) Add(surfaceID uint32, decorated DecoratedSurface, onDead func()) *Window {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := &Window{
		store:     s,
		id:        s.nextID,
		surfaceID: surfaceID,
		decorated: decorated,
		onDead:    onDead,
	}
	s.nextID++
	s.windows = append(s.windows, w)
	return w
}

// FindID resolves a protocol surface to a window id. Dead windows do not
// resolve; events for them are dropped by the caller.
func (s *Store) FindID(surfaceID uint32) (ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.windows {
		if w.surfaceID == surfaceID && !w.dead {
			return w.id, true
		}
	}
	return 0, false
}

// ForEach yields the pending state of every window and clears the flags.
// The decorated handle is passed through so the caller can resize before
// emitting; it is nil when the window carries no decoration.
func (s *Store) ForEach(fn func(newSize *Size, refresh, closed bool, id ID, decorated DecoratedSurface)) {
	s.mu.Lock()
	type pending struct {
		newSize   *Size
		refresh   bool
		closed    bool
		id        ID
		decorated DecoratedSurface
	}
	drained := make([]pending, 0, len(s.windows))
	for _, w := range s.windows {
		drained = append(drained, pending{
			newSize:   w.newSize,
			refresh:   w.refresh,
			closed:    w.closed,
			id:        w.id,
			decorated: w.decorated,
		})
		w.newSize = nil
		w.refresh = false
		w.closed = false
	}
	s.mu.Unlock()

	// Callbacks run unlocked so they may call back into the store.
	for _, p := range drained {
		fn(p.newSize, p.refresh, p.closed, p.id, p.decorated)
	}
}

// Cleanup prunes released windows.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.windows[:0]
	for _, w := range s.windows {
		if !w.dead {
			kept = append(kept, w)
		}
	}
	s.windows = kept
}

// Len reports the number of live records, dead ones included until the
// next Cleanup.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
