package eventloop

import (
	"github.com/bnema/wayloop/internal/protocols"
	"github.com/bnema/wayloop/internal/window"
)

// keyboardTranslator forwards raw key events for the focused window.
// Keycode-to-symbol translation is a consumer concern; only focus
// tracking and scancode forwarding happen here.
type keyboardTranslator struct {
	sink    *sink
	windows surfaceResolver

	focus   window.ID
	focused bool
}

func newKeyboardTranslator(s *sink, windows surfaceResolver) *keyboardTranslator {
	return &keyboardTranslator{sink: s, windows: windows}
}

func (t *keyboardTranslator) attach(k *protocols.Keyboard) {
	k.Enter = func(_, surface uint32) { t.enter(surface) }
	k.Leave = func(_, surface uint32) { t.leave(surface) }
	k.Key = func(_, _, key, state uint32) { t.key(key, state) }
}

func (t *keyboardTranslator) enter(surface uint32) {
	wid, ok := t.windows.FindID(surface)
	if !ok {
		return
	}
	t.focus = wid
	t.focused = true
	t.sink.push(Event{Kind: KindFocused, Window: wid})
}

func (t *keyboardTranslator) leave(surface uint32) {
	t.focused = false
	t.focus = 0
	if wid, ok := t.windows.FindID(surface); ok {
		t.sink.push(Event{Kind: KindUnfocused, Window: wid})
	}
}

func (t *keyboardTranslator) key(key, state uint32) {
	if !t.focused {
		return
	}
	t.sink.push(Event{
		Kind:       KindKey,
		Window:     t.focus,
		Keycode:    key,
		KeyPressed: state == protocols.KeyStatePressed,
	})
}
