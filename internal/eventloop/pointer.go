package eventloop

import (
	"github.com/bnema/wayloop/internal/protocols"
	"github.com/bnema/wayloop/internal/window"
)

// surfaceResolver maps a protocol surface id to a window. Satisfied by
// *window.Store.
type surfaceResolver interface {
	FindID(surfaceID uint32) (window.ID, bool)
}

// pointerTranslator converts raw wl_pointer callbacks into application
// events. One translator exists per pointer device; all methods run on
// the dispatch goroutine.
type pointerTranslator struct {
	sink    *sink
	windows surfaceResolver
	version uint32

	focus   window.ID
	focused bool

	// Scroll deltas accumulate between frame boundaries. The pending
	// flags double as the "buffer holds data" markers.
	axisX, axisY         float64
	axisPending          bool
	discreteX, discreteY int32
	discretePending      bool
	phase                Phase
}

func newPointerTranslator(s *sink, windows surfaceResolver, version uint32) *pointerTranslator {
	return &pointerTranslator{
		sink:    s,
		windows: windows,
		version: version,
		phase:   PhaseCancelled,
	}
}

// attach registers the translator on a pointer proxy.
func (t *pointerTranslator) attach(p *protocols.Pointer) {
	p.Enter = func(_, surface uint32, x, y float64) { t.enter(surface, x, y) }
	p.Leave = func(_, surface uint32) { t.leave(surface) }
	p.Motion = func(_ uint32, x, y float64) { t.motion(x, y) }
	p.Button = func(_, _, button, state uint32) { t.button(button, state) }
	p.Axis = func(_, axis uint32, value float64) { t.axis(axis, value) }
	p.Frame = func() { t.frame() }
	p.AxisSource = func(uint32) {}
	p.AxisStop = func(_, _ uint32) { t.axisStop() }
	p.AxisDiscrete = func(axis uint32, discrete int32) { t.axisDiscrete(axis, discrete) }
}

func (t *pointerTranslator) enter(surface uint32, x, y float64) {
	wid, ok := t.windows.FindID(surface)
	if !ok {
		return
	}
	t.focus = wid
	t.focused = true
	t.sink.push(Event{Kind: KindMouseEntered, Window: wid, X: x, Y: y})
	t.sink.push(Event{Kind: KindMouseMoved, Window: wid, X: x, Y: y})
}

func (t *pointerTranslator) leave(surface uint32) {
	t.focused = false
	t.focus = 0
	if wid, ok := t.windows.FindID(surface); ok {
		t.sink.push(Event{Kind: KindMouseLeft, Window: wid})
	}
}

func (t *pointerTranslator) motion(x, y float64) {
	if !t.focused {
		return
	}
	t.sink.push(Event{Kind: KindMouseMoved, Window: t.focus, X: x, Y: y})
}

func (t *pointerTranslator) button(code, state uint32) {
	if !t.focused {
		return
	}
	var btn MouseButton
	switch code {
	case protocols.BtnLeft:
		btn = ButtonLeft
	case protocols.BtnRight:
		btn = ButtonRight
	case protocols.BtnMiddle:
		btn = ButtonMiddle
	default:
		// Unmapped codes are dropped, not errors.
		return
	}
	t.sink.push(Event{
		Kind:    KindMouseButton,
		Window:  t.focus,
		Button:  btn,
		Pressed: state == protocols.ButtonStatePressed,
	})
}

func (t *pointerTranslator) axis(axis uint32, value float64) {
	if !t.focused {
		return
	}
	if t.version < protocols.PointerFrameVersion {
		// Old seats have no frame batching; emit per callback.
		var x, y float64
		switch axis {
		case protocols.AxisVertical:
			// Wayland vertical sign convention is the inverse of ours.
			y -= value
		case protocols.AxisHorizontal:
			x += value
		}
		t.sink.push(Event{
			Kind:   KindMouseWheel,
			Window: t.focus,
			Delta:  ScrollDelta{Kind: DeltaPixel, X: x, Y: y},
			Phase:  PhaseMoved,
		})
		return
	}

	switch axis {
	case protocols.AxisVertical:
		t.axisY -= value
	case protocols.AxisHorizontal:
		t.axisX += value
	}
	t.axisPending = true
	t.advancePhase()
}

func (t *pointerTranslator) axisDiscrete(axis uint32, discrete int32) {
	switch axis {
	case protocols.AxisVertical:
		t.discreteY -= discrete
	case protocols.AxisHorizontal:
		t.discreteX += discrete
	}
	t.discretePending = true
	t.advancePhase()
}

func (t *pointerTranslator) advancePhase() {
	switch t.phase {
	case PhaseStarted, PhaseMoved:
		t.phase = PhaseMoved
	default:
		t.phase = PhaseStarted
	}
}

func (t *pointerTranslator) axisStop() {
	t.phase = PhaseEnded
}

// frame flushes the accumulated deltas as one wheel event. Discrete
// steps win over continuous deltas when both are pending. Both buffers
// are cleared whether or not anything was emitted.
func (t *pointerTranslator) frame() {
	axisPending, x, y := t.axisPending, t.axisX, t.axisY
	discretePending, dx, dy := t.discretePending, t.discreteX, t.discreteY
	t.axisPending, t.axisX, t.axisY = false, 0, 0
	t.discretePending, t.discreteX, t.discreteY = false, 0, 0

	if !t.focused {
		return
	}
	switch {
	case discretePending:
		t.sink.push(Event{
			Kind:   KindMouseWheel,
			Window: t.focus,
			Delta:  ScrollDelta{Kind: DeltaLine, X: float64(dx), Y: float64(dy)},
			Phase:  t.phase,
		})
	case axisPending:
		t.sink.push(Event{
			Kind:   KindMouseWheel,
			Window: t.focus,
			Delta:  ScrollDelta{Kind: DeltaPixel, X: x, Y: y},
			Phase:  t.phase,
		})
	}
}
