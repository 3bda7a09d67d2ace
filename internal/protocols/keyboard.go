package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// Key state carried by the key event
const (
	KeyStateReleased uint32 = 0
	KeyStatePressed  uint32 = 1
)

// Keyboard represents a wl_keyboard device obtained from a seat.
// Keymap translation is out of scope here; handlers receive raw
// scancodes and modifier masks.
type Keyboard struct {
	wl.BaseProxy

	// Keymap carries the keymap format and size. The backing fd arrives
	// as ancillary data and stays with the transport.
	Keymap    func(format, size uint32)
	Enter     func(serial, surface uint32)
	Leave     func(serial, surface uint32)
	Key       func(serial, time, key, state uint32)
	Modifiers func(serial, depressed, latched, locked, group uint32)
}

// Dispatch decodes wl_keyboard events
func (k *Keyboard) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // keymap
		format := event.Uint32()
		size := event.Uint32()
		if k.Keymap != nil {
			k.Keymap(format, size)
		}
	case 1: // enter
		serial := event.Uint32()
		surface := event.Uint32()
		if k.Enter != nil {
			k.Enter(serial, surface)
		}
	case 2: // leave
		serial := event.Uint32()
		surface := event.Uint32()
		if k.Leave != nil {
			k.Leave(serial, surface)
		}
	case 3: // key
		serial := event.Uint32()
		time := event.Uint32()
		key := event.Uint32()
		state := event.Uint32()
		if k.Key != nil {
			k.Key(serial, time, key, state)
		}
	case 4: // modifiers
		serial := event.Uint32()
		depressed := event.Uint32()
		latched := event.Uint32()
		locked := event.Uint32()
		group := event.Uint32()
		if k.Modifiers != nil {
			k.Modifiers(serial, depressed, latched, locked, group)
		}
	}
}

// Release releases the keyboard device (since version 3)
func (k *Keyboard) Release() error {
	// Opcode 0: release
	const opcode = 0
	err := k.Context().SendRequest(k, opcode)
	k.Context().Unregister(k)
	return err
}
