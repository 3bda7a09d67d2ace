package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// PointerFrameVersion is the wl_pointer version that introduced axis
// frame batching. Older pointers deliver axis events unbatched.
const PointerFrameVersion = 5

// Axis directions carried by axis, axis_stop and axis_discrete
const (
	AxisVertical   uint32 = 0
	AxisHorizontal uint32 = 1
)

// Button state carried by the button event
const (
	ButtonStateReleased uint32 = 0
	ButtonStatePressed  uint32 = 1
)

// Linux evdev codes for the mouse buttons we translate
const (
	BtnLeft   uint32 = 0x110
	BtnRight  uint32 = 0x111
	BtnMiddle uint32 = 0x112
)

// Pointer represents a wl_pointer device obtained from a seat
type Pointer struct {
	wl.BaseProxy

	// Version the parent seat was bound with.
	Version uint32

	Enter        func(serial, surface uint32, x, y float64)
	Leave        func(serial, surface uint32)
	Motion       func(time uint32, x, y float64)
	Button       func(serial, time, button, state uint32)
	Axis         func(time, axis uint32, value float64)
	Frame        func()
	AxisSource   func(source uint32)
	AxisStop     func(time, axis uint32)
	AxisDiscrete func(axis uint32, discrete int32)
}

// Dispatch decodes wl_pointer events
func (p *Pointer) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // enter
		serial := event.Uint32()
		surface := event.Uint32()
		x := wl.Fixed(event.Int32()).Float64()
		y := wl.Fixed(event.Int32()).Float64()
		if p.Enter != nil {
			p.Enter(serial, surface, x, y)
		}
	case 1: // leave
		serial := event.Uint32()
		surface := event.Uint32()
		if p.Leave != nil {
			p.Leave(serial, surface)
		}
	case 2: // motion
		time := event.Uint32()
		x := wl.Fixed(event.Int32()).Float64()
		y := wl.Fixed(event.Int32()).Float64()
		if p.Motion != nil {
			p.Motion(time, x, y)
		}
	case 3: // button
		serial := event.Uint32()
		time := event.Uint32()
		button := event.Uint32()
		state := event.Uint32()
		if p.Button != nil {
			p.Button(serial, time, button, state)
		}
	case 4: // axis
		time := event.Uint32()
		axis := event.Uint32()
		value := wl.Fixed(event.Int32()).Float64()
		if p.Axis != nil {
			p.Axis(time, axis, value)
		}
	case 5: // frame
		if p.Frame != nil {
			p.Frame()
		}
	case 6: // axis_source
		source := event.Uint32()
		if p.AxisSource != nil {
			p.AxisSource(source)
		}
	case 7: // axis_stop
		time := event.Uint32()
		axis := event.Uint32()
		if p.AxisStop != nil {
			p.AxisStop(time, axis)
		}
	case 8: // axis_discrete
		axis := event.Uint32()
		discrete := event.Int32()
		if p.AxisDiscrete != nil {
			p.AxisDiscrete(axis, discrete)
		}
	}
}

// Release releases the pointer device (since version 3)
func (p *Pointer) Release() error {
	// Opcode 1: release
	const opcode = 1
	err := p.Context().SendRequest(p, opcode)
	p.Context().Unregister(p)
	return err
}
