// Package eventloop turns the asynchronous message stream of a Wayland
// connection into an ordered, single-consumer stream of window and input
// events, while tracking outputs, seat capabilities and shell negotiation
// as they evolve over the connection's lifetime.
package eventloop

import (
	"fmt"

	"github.com/bnema/wayloop/internal/window"
)

// Kind discriminates translated events.
type Kind int

const (
	// KindAwakened is the synthetic event produced by a Waker.
	KindAwakened Kind = iota
	KindMouseEntered
	KindMouseMoved
	KindMouseLeft
	KindMouseButton
	KindMouseWheel
	KindFocused
	KindUnfocused
	KindKey
	KindResized
	KindRefresh
	KindClosed
)

func (k Kind) String() string {
	switch k {
	case KindAwakened:
		return "awakened"
	case KindMouseEntered:
		return "mouse-entered"
	case KindMouseMoved:
		return "mouse-moved"
	case KindMouseLeft:
		return "mouse-left"
	case KindMouseButton:
		return "mouse-button"
	case KindMouseWheel:
		return "mouse-wheel"
	case KindFocused:
		return "focused"
	case KindUnfocused:
		return "unfocused"
	case KindKey:
		return "key"
	case KindResized:
		return "resized"
	case KindRefresh:
		return "refresh"
	case KindClosed:
		return "closed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MouseButton is the closed set of buttons we translate. Codes outside
// this set are dropped at translation time.
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
)

func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// Phase tags a wheel event with its position in a scroll gesture.
type Phase int

const (
	PhaseStarted Phase = iota
	PhaseMoved
	PhaseEnded
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseStarted:
		return "started"
	case PhaseMoved:
		return "moved"
	case PhaseEnded:
		return "ended"
	case PhaseCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// DeltaKind distinguishes continuous pixel deltas from discrete line
// steps in a wheel event.
type DeltaKind int

const (
	DeltaPixel DeltaKind = iota
	DeltaLine
)

// ScrollDelta is the accumulated scroll amount flushed at a frame
// boundary. The vertical sign is already inverted from the raw protocol
// convention: scrolling content up is positive Y.
type ScrollDelta struct {
	Kind DeltaKind
	X    float64
	Y    float64
}

// Event is one fully translated application event. Window is zero for
// events that are not tied to a window (Awakened).
type Event struct {
	Kind   Kind
	Window window.ID

	// Pointer position, for MouseEntered/MouseMoved.
	X, Y float64

	// Button state, for MouseButton.
	Button  MouseButton
	Pressed bool

	// Scroll state, for MouseWheel.
	Delta ScrollDelta
	Phase Phase

	// Raw key state, for Key.
	Keycode    uint32
	KeyPressed bool

	// New size in pixels, for Resized.
	Width, Height uint32
}

// ControlFlow is returned by the RunForever callback.
type ControlFlow int

const (
	// Continue keeps the loop running.
	Continue ControlFlow = iota
	// Break stops the loop once the current drain pass completes. Events
	// already queued in that pass are still delivered.
	Break
)
