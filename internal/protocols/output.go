// Package protocols contains hand-written proxies for the core Wayland
// interfaces the event loop consumes. Each proxy embeds wl.BaseProxy,
// sends requests through its context and decodes incoming events in
// Dispatch, forwarding them to caller-supplied handler functions.
package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// Protocol interface names
const (
	OutputInterface = "wl_output"

	// OutputVersion is the highest wl_output version we understand.
	OutputVersion = 3
)

// OutputModeCurrent flags the mode currently in use on the output.
const OutputModeCurrent = 0x1

// Output represents a wl_output global (one monitor)
type Output struct {
	wl.BaseProxy

	// Geometry carries the output position and make/model strings.
	Geometry func(x, y int32, physWidth, physHeight, subpixel int32, maker, model string, transform int32)
	// Mode carries one supported mode; flags marks the current one.
	Mode func(flags uint32, width, height, refresh int32)
	// Done signals the end of a property burst.
	Done func()
	// Scale carries the output scale factor.
	Scale func(factor int32)
}

// Dispatch decodes wl_output events
func (o *Output) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // geometry
		x := event.Int32()
		y := event.Int32()
		physW := event.Int32()
		physH := event.Int32()
		subpixel := event.Int32()
		maker := event.String()
		model := event.String()
		transform := event.Int32()
		if o.Geometry != nil {
			o.Geometry(x, y, physW, physH, subpixel, maker, model, transform)
		}
	case 1: // mode
		flags := event.Uint32()
		width := event.Int32()
		height := event.Int32()
		refresh := event.Int32()
		if o.Mode != nil {
			o.Mode(flags, width, height, refresh)
		}
	case 2: // done
		if o.Done != nil {
			o.Done()
		}
	case 3: // scale
		factor := event.Int32()
		if o.Scale != nil {
			o.Scale(factor)
		}
	}
}

// Release releases the output object (since version 3)
func (o *Output) Release() error {
	const opcode = 0
	err := o.Context().SendRequest(o, opcode)
	o.Context().Unregister(o)
	return err
}
