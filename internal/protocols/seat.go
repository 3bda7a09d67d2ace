package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// Protocol interface names
const (
	SeatInterface = "wl_seat"

	// SeatVersion is the highest wl_seat version we understand.
	SeatVersion = 5
)

// Seat capability bits, as announced by wl_seat.capabilities
const (
	SeatCapabilityPointer  uint32 = 1 << 0
	SeatCapabilityKeyboard uint32 = 1 << 1
	SeatCapabilityTouch    uint32 = 1 << 2
)

// Seat represents a wl_seat global (one logical group of input devices)
type Seat struct {
	wl.BaseProxy

	// Version the seat was bound with; controls pointer frame semantics.
	Version uint32

	// Capabilities is called on every capability announcement.
	Capabilities func(caps uint32)
	// Name carries the seat identifier.
	Name func(name string)
}

// Dispatch decodes wl_seat events
func (s *Seat) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // capabilities
		caps := event.Uint32()
		if s.Capabilities != nil {
			s.Capabilities(caps)
		}
	case 1: // name
		name := event.String()
		if s.Name != nil {
			s.Name(name)
		}
	}
}

// GetPointer requests a pointer object for this seat
func (s *Seat) GetPointer() (*Pointer, error) {
	pointer := &Pointer{Version: s.Version}
	pointer.SetContext(s.Context())
	pointer.SetID(s.Context().AllocateID())
	s.Context().Register(pointer)

	// Opcode 0: get_pointer
	const opcode = 0
	if err := s.Context().SendRequest(s, opcode, pointer); err != nil {
		s.Context().Unregister(pointer)
		return nil, err
	}
	return pointer, nil
}

// GetKeyboard requests a keyboard object for this seat
func (s *Seat) GetKeyboard() (*Keyboard, error) {
	keyboard := &Keyboard{}
	keyboard.SetContext(s.Context())
	keyboard.SetID(s.Context().AllocateID())
	s.Context().Register(keyboard)

	// Opcode 1: get_keyboard
	const opcode = 1
	if err := s.Context().SendRequest(s, opcode, keyboard); err != nil {
		s.Context().Unregister(keyboard)
		return nil, err
	}
	return keyboard, nil
}

// Release releases the seat (since version 5)
func (s *Seat) Release() error {
	// Opcode 3: release
	const opcode = 3
	err := s.Context().SendRequest(s, opcode)
	s.Context().Unregister(s)
	return err
}
