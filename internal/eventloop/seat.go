package eventloop

import (
	"github.com/bnema/wayloop/internal/logger"
	"github.com/bnema/wayloop/internal/protocols"
)

// releaser is the teardown surface of an input device proxy.
type releaser interface {
	Release() error
}

// seatHandler tracks which sub-handlers exist for the seat and keeps
// them in sync with capability announcements. Each capability is a
// two-state machine (absent/present) with idempotent transitions: a
// re-announced capability never creates a duplicate handler.
type seatHandler struct {
	acquirePointer  func() (releaser, error)
	acquireKeyboard func() (releaser, error)

	pointer  releaser
	keyboard releaser
}

// attach registers the handler on a seat proxy.
func (h *seatHandler) attach(seat *protocols.Seat) {
	seat.Capabilities = h.applyCapabilities
	seat.Name = func(name string) {
		logger.Debug("seat name", "name", name)
	}
}

func (h *seatHandler) applyCapabilities(caps uint32) {
	if caps&protocols.SeatCapabilityPointer != 0 && h.pointer == nil {
		p, err := h.acquirePointer()
		if err != nil {
			logger.Errorf("failed to acquire pointer: %v", err)
		} else {
			h.pointer = p
		}
	}
	if caps&protocols.SeatCapabilityPointer == 0 && h.pointer != nil {
		if err := h.pointer.Release(); err != nil {
			logger.Warnf("pointer release failed: %v", err)
		}
		h.pointer = nil
	}

	if caps&protocols.SeatCapabilityKeyboard != 0 && h.keyboard == nil {
		k, err := h.acquireKeyboard()
		if err != nil {
			logger.Errorf("failed to acquire keyboard: %v", err)
		} else {
			h.keyboard = k
		}
	}
	if caps&protocols.SeatCapabilityKeyboard == 0 && h.keyboard != nil {
		if err := h.keyboard.Release(); err != nil {
			logger.Warnf("keyboard release failed: %v", err)
		}
		h.keyboard = nil
	}

	if caps&protocols.SeatCapabilityTouch != 0 {
		// Touch is a known gap, ignored on purpose rather than failing.
		logger.Debug("touch capability announced; touch input is not handled")
	}
}
