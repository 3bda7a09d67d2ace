package eventloop

import (
	"sync"
)

// sink buffers translated events in arrival order. Protocol callbacks
// push from the dispatch goroutine; wakers may push from any goroutine.
// Draining is destructive and single-consumer.
type sink struct {
	mu     sync.Mutex
	buffer []Event
}

func newSink() *sink {
	return &sink{}
}

func (s *sink) push(evt Event) {
	s.mu.Lock()
	s.buffer = append(s.buffer, evt)
	s.mu.Unlock()
}

// drain delivers every buffered event to callback in FIFO order. The
// buffer is detached before the callbacks run so a callback may push new
// events (they land in the next drain) without deadlocking.
func (s *sink) drain(callback func(Event)) {
	s.mu.Lock()
	batch := s.buffer
	s.buffer = nil
	s.mu.Unlock()

	for _, evt := range batch {
		callback(evt)
	}
}
