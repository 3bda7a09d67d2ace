package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// Protocol interface names
const (
	ShmInterface = "wl_shm"
)

// ShmFormatArgb8888 is the mandatory 32-bit pixel format.
const ShmFormatArgb8888 uint32 = 0

// Shm represents the wl_shm global
type Shm struct {
	wl.BaseProxy

	// Format announces one supported pixel format.
	Format func(format uint32)
}

// Dispatch decodes wl_shm events
func (s *Shm) Dispatch(event *wl.Event) {
	if event.Opcode == 0 { // format
		format := event.Uint32()
		if s.Format != nil {
			s.Format(format)
		}
	}
}

// CreatePool creates a shared memory pool backed by fd.
// The fd is passed out of band; the compositor keeps its own duplicate.
func (s *Shm) CreatePool(fd int, size int32) (*ShmPool, error) {
	pool := &ShmPool{}
	pool.SetContext(s.Context())
	pool.SetID(s.Context().AllocateID())
	s.Context().Register(pool)

	// Opcode 0: create_pool
	// The fd argument is passed as uintptr for neurlang/wayland compatibility
	const opcode = 0
	if err := s.Context().SendRequestWithFDs(s, opcode, []int{fd}, pool, uintptr(fd), size); err != nil {
		s.Context().Unregister(pool)
		return nil, err
	}
	return pool, nil
}

// ShmPool represents a wl_shm_pool
type ShmPool struct {
	wl.BaseProxy
}

// Dispatch handles incoming events (wl_shm_pool has no events)
func (p *ShmPool) Dispatch(_ *wl.Event) {}

// CreateBuffer carves a buffer out of the pool
func (p *ShmPool) CreateBuffer(offset, width, height, stride int32, format uint32) (*Buffer, error) {
	buffer := &Buffer{}
	buffer.SetContext(p.Context())
	buffer.SetID(p.Context().AllocateID())
	p.Context().Register(buffer)

	// Opcode 0: create_buffer
	const opcode = 0
	if err := p.Context().SendRequest(p, opcode, buffer, offset, width, height, stride, format); err != nil {
		p.Context().Unregister(buffer)
		return nil, err
	}
	return buffer, nil
}

// Destroy destroys the pool. Buffers created from it stay valid; the
// backing memory lives until they are destroyed too.
func (p *ShmPool) Destroy() error {
	// Opcode 1: destroy
	const opcode = 1
	err := p.Context().SendRequest(p, opcode)
	p.Context().Unregister(p)
	return err
}

// Buffer represents a wl_buffer
type Buffer struct {
	wl.BaseProxy

	// Release fires when the compositor is done reading the buffer.
	Release func()
}

// Dispatch decodes wl_buffer events
func (b *Buffer) Dispatch(event *wl.Event) {
	if event.Opcode == 0 { // release
		if b.Release != nil {
			b.Release()
		}
	}
}

// Destroy destroys the buffer
func (b *Buffer) Destroy() error {
	// Opcode 0: destroy
	const opcode = 0
	err := b.Context().SendRequest(b, opcode)
	b.Context().Unregister(b)
	return err
}
