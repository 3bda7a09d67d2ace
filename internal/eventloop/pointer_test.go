package eventloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wayloop/internal/protocols"
	"github.com/bnema/wayloop/internal/window"
)

func newTestPointer(version uint32) (*pointerTranslator, *sink) {
	s := &sink{}
	windows := fakeResolver{7: window.ID(1), 8: window.ID(2)}
	return newPointerTranslator(s, windows, version), s
}

func TestPointerEnterMotionLeave(t *testing.T) {
	tr, s := newTestPointer(5)

	tr.enter(7, 10, 20)
	tr.motion(11, 21)
	tr.leave(7)
	tr.motion(12, 22)
	tr.button(protocols.BtnLeft, protocols.ButtonStatePressed)

	events := collect(s)
	require.Len(t, events, 4)
	assert.Equal(t, KindMouseEntered, events[0].Kind)
	assert.Equal(t, KindMouseMoved, events[1].Kind)
	assert.Equal(t, 10.0, events[1].X)
	assert.Equal(t, 20.0, events[1].Y)
	assert.Equal(t, KindMouseMoved, events[2].Kind)
	assert.Equal(t, KindMouseLeft, events[3].Kind)
	for _, evt := range events {
		assert.Equal(t, window.ID(1), evt.Window)
	}
}

func TestPointerEnterUnknownSurface(t *testing.T) {
	tr, s := newTestPointer(5)

	tr.enter(99, 0, 0)
	tr.motion(1, 1)

	assert.Empty(t, collect(s))
	assert.False(t, tr.focused)
}

func TestPointerButtons(t *testing.T) {
	tests := []struct {
		name   string
		code   uint32
		state  uint32
		button MouseButton
	}{
		{"left press", protocols.BtnLeft, protocols.ButtonStatePressed, ButtonLeft},
		{"right release", protocols.BtnRight, protocols.ButtonStateReleased, ButtonRight},
		{"middle press", protocols.BtnMiddle, protocols.ButtonStatePressed, ButtonMiddle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, s := newTestPointer(5)
			tr.enter(7, 0, 0)
			collect(s)

			tr.button(tt.code, tt.state)

			events := collect(s)
			require.Len(t, events, 1)
			assert.Equal(t, KindMouseButton, events[0].Kind)
			assert.Equal(t, tt.button, events[0].Button)
			assert.Equal(t, tt.state == protocols.ButtonStatePressed, events[0].Pressed)
		})
	}
}

func TestPointerUnmappedButtonDropped(t *testing.T) {
	tr, s := newTestPointer(5)
	tr.enter(7, 0, 0)
	collect(s)

	tr.button(0x116, protocols.ButtonStatePressed) // BTN_BACK

	assert.Empty(t, collect(s))
}

func TestAxisAccumulation(t *testing.T) {
	tr, s := newTestPointer(5)
	tr.enter(7, 0, 0)
	collect(s)

	tr.axis(protocols.AxisVertical, 3)
	tr.axis(protocols.AxisVertical, 2)
	tr.axis(protocols.AxisHorizontal, 4)
	tr.frame()

	events := collect(s)
	require.Len(t, events, 1)
	assert.Equal(t, KindMouseWheel, events[0].Kind)
	assert.Equal(t, DeltaPixel, events[0].Delta.Kind)
	assert.Equal(t, 4.0, events[0].Delta.X)
	assert.Equal(t, -5.0, events[0].Delta.Y)

	// Buffers were drained; an empty frame emits nothing.
	tr.frame()
	assert.Empty(t, collect(s))
}

func TestDiscreteWinsOverContinuous(t *testing.T) {
	tr, s := newTestPointer(5)
	tr.enter(7, 0, 0)
	collect(s)

	tr.axis(protocols.AxisVertical, 10)
	tr.axisDiscrete(protocols.AxisVertical, 1)
	tr.frame()

	events := collect(s)
	require.Len(t, events, 1)
	assert.Equal(t, DeltaLine, events[0].Delta.Kind)
	assert.Equal(t, -1.0, events[0].Delta.Y)

	// The continuous buffer must not leak into the next frame.
	tr.axis(protocols.AxisVertical, 1)
	tr.frame()
	events = collect(s)
	require.Len(t, events, 1)
	assert.Equal(t, -1.0, events[0].Delta.Y)
	assert.Equal(t, DeltaPixel, events[0].Delta.Kind)
}

func TestScrollPhaseSequencing(t *testing.T) {
	tr, s := newTestPointer(5)
	tr.enter(7, 0, 0)
	collect(s)

	tr.axis(protocols.AxisVertical, 1)
	tr.frame()
	tr.axis(protocols.AxisVertical, 1)
	tr.frame()
	tr.axisStop()
	tr.frame()

	events := collect(s)
	require.Len(t, events, 2)
	assert.Equal(t, PhaseStarted, events[0].Phase)
	assert.Equal(t, PhaseMoved, events[1].Phase)

	// A fresh gesture after a stop starts over.
	tr.axis(protocols.AxisVertical, 1)
	tr.frame()
	events = collect(s)
	require.Len(t, events, 1)
	assert.Equal(t, PhaseStarted, events[0].Phase)
}

func TestAxisStopTagsFinalFrame(t *testing.T) {
	tr, s := newTestPointer(5)
	tr.enter(7, 0, 0)
	collect(s)

	tr.axis(protocols.AxisVertical, 1)
	tr.axisStop()
	tr.frame()

	events := collect(s)
	require.Len(t, events, 1)
	assert.Equal(t, PhaseEnded, events[0].Phase)
}

func TestAxisIgnoredWithoutFocus(t *testing.T) {
	tr, s := newTestPointer(5)

	tr.axis(protocols.AxisVertical, 1)
	tr.frame()

	assert.Empty(t, collect(s))
}

func TestDiscreteAccumulatesWithoutFocus(t *testing.T) {
	tr, s := newTestPointer(5)

	// Discrete steps are not focus gated on accumulation, but the frame
	// only emits while a surface holds focus.
	tr.axisDiscrete(protocols.AxisVertical, 2)
	tr.frame()
	assert.Empty(t, collect(s))

	// The unfocused frame still cleared the buffer.
	tr.enter(7, 0, 0)
	collect(s)
	tr.axisDiscrete(protocols.AxisVertical, 1)
	tr.frame()
	events := collect(s)
	require.Len(t, events, 1)
	assert.Equal(t, -1.0, events[0].Delta.Y)
}

func TestOldSeatEmitsPerAxisEvent(t *testing.T) {
	tr, s := newTestPointer(4)
	tr.enter(7, 0, 0)
	collect(s)

	tr.axis(protocols.AxisVertical, 2)
	tr.axis(protocols.AxisHorizontal, 3)

	events := collect(s)
	require.Len(t, events, 2)
	assert.Equal(t, -2.0, events[0].Delta.Y)
	assert.Equal(t, 3.0, events[1].Delta.X)
	for _, evt := range events {
		assert.Equal(t, DeltaPixel, evt.Delta.Kind)
		assert.Equal(t, PhaseMoved, evt.Phase)
	}
}

func TestPointerRefocus(t *testing.T) {
	tr, s := newTestPointer(5)

	tr.enter(7, 0, 0)
	tr.leave(7)
	tr.enter(8, 5, 5)
	tr.motion(6, 6)

	events := collect(s)
	require.Len(t, events, 6)
	assert.Equal(t, window.ID(2), events[5].Window)
	assert.Equal(t, KindMouseMoved, events[5].Kind)
}
