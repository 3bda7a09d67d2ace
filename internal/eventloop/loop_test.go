package eventloop

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wayloop/internal/protocols"
	"github.com/bnema/wayloop/internal/window"
	"github.com/bnema/wayloop/internal/wire"
)

func defaultGlobals() []wire.Global {
	return []wire.Global{
		{Name: 1, Interface: protocols.CompositorInterface, Version: 4},
		{Name: 2, Interface: protocols.XdgWmBaseInterface, Version: 3},
		{Name: 3, Interface: protocols.OutputInterface, Version: 3},
		{Name: 4, Interface: protocols.SeatInterface, Version: 7},
		{Name: 5, Interface: protocols.ShmInterface, Version: 1},
	}
}

func newTestLoop(t *testing.T, globals ...wire.Global) (*EventLoop, *fakeConn) {
	t.Helper()
	conn := newFakeConn(globals...)
	l, err := newWithConn(conn)
	require.NoError(t, err)
	return l, conn
}

func TestInitRoundtrips(t *testing.T) {
	_, conn := newTestLoop(t, defaultGlobals()...)
	assert.Equal(t, 2, conn.roundtrips)
}

func TestShellNegotiation(t *testing.T) {
	t.Run("extended shell preferred", func(t *testing.T) {
		globals := append(defaultGlobals(), wire.Global{Name: 9, Interface: protocols.WlShellInterface, Version: 1})
		l, _ := newTestLoop(t, globals...)
		assert.Equal(t, ShellXdg, l.Shell())
	})

	t.Run("legacy fallback", func(t *testing.T) {
		l, _ := newTestLoop(t,
			wire.Global{Name: 1, Interface: protocols.CompositorInterface, Version: 4},
			wire.Global{Name: 2, Interface: protocols.WlShellInterface, Version: 1},
		)
		assert.Equal(t, ShellWl, l.Shell())
	})

	t.Run("no shell at all", func(t *testing.T) {
		conn := newFakeConn(wire.Global{Name: 1, Interface: protocols.CompositorInterface, Version: 4})
		_, err := newWithConn(conn)
		assert.ErrorIs(t, err, ErrNoShell)
	})
}

func TestSeatVersionClamped(t *testing.T) {
	l, _ := newTestLoop(t, defaultGlobals()...)
	require.NotNil(t, l.state.seat)
	assert.Equal(t, uint32(protocols.SeatVersion), l.state.seat.Version)
	assert.NotNil(t, l.state.seat.Capabilities)
}

func TestOutputFeedsMonitorRegistry(t *testing.T) {
	l, conn := newTestLoop(t, defaultGlobals()...)

	output, ok := conn.bound[protocols.OutputInterface].(*protocols.Output)
	require.True(t, ok)
	output.Geometry(0, 0, 520, 290, 0, "Acme", "P2715Q", 0)
	output.Mode(protocols.OutputModeCurrent, 2560, 1440, 60000)
	output.Mode(0, 1920, 1080, 60000) // non-current modes are ignored
	output.Scale(2)

	m, err := l.PrimaryMonitor()
	require.NoError(t, err)
	assert.Equal(t, "Acme - P2715Q", m.Name())
	width, height := m.Dimensions()
	assert.Equal(t, uint32(2560), width)
	assert.Equal(t, uint32(1440), height)
	assert.Equal(t, 2.0, m.Scale())

	conn.removeGlobal(3)
	assert.Empty(t, l.Monitors())
	_, err = l.PrimaryMonitor()
	assert.ErrorIs(t, err, ErrNoMonitor)

	// The old handle still answers with the last known state.
	assert.Equal(t, "Acme - P2715Q", m.Name())
}

func TestWakerWakesBlockedLoop(t *testing.T) {
	l, conn := newTestLoop(t, defaultGlobals()...)
	waker := l.Waker()

	events := make(chan Event, 8)
	done := make(chan error, 1)
	go func() {
		done <- l.RunForever(func(evt Event) ControlFlow {
			events <- evt
			if evt.Kind == KindAwakened {
				return Break
			}
			return Continue
		})
	}()

	require.NoError(t, waker.Wake())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not wake")
	}

	evt := <-events
	assert.Equal(t, KindAwakened, evt.Kind)
	assert.Equal(t, 1, conn.syncs)
	assert.False(t, l.pendingWakeup.Load())
}

func TestWakeCoalesces(t *testing.T) {
	l, _ := newTestLoop(t, defaultGlobals()...)
	waker := l.Waker()

	require.NoError(t, waker.Wake())
	require.NoError(t, waker.Wake())

	var kinds []Kind
	require.NoError(t, l.PollEvents(func(evt Event) { kinds = append(kinds, evt.Kind) }))
	assert.Equal(t, []Kind{KindAwakened}, kinds)

	// The flag was consumed; another poll stays quiet.
	kinds = nil
	require.NoError(t, l.PollEvents(func(evt Event) { kinds = append(kinds, evt.Kind) }))
	assert.Empty(t, kinds)
}

func TestWakerAfterClose(t *testing.T) {
	l, conn := newTestLoop(t, defaultGlobals()...)
	waker := l.Waker()

	require.NoError(t, l.Close())
	assert.True(t, conn.closed)
	assert.ErrorIs(t, waker.Wake(), ErrClosed)
}

func TestResizeBeforeRefresh(t *testing.T) {
	l, _ := newTestLoop(t, defaultGlobals()...)
	dec := &fakeDecoration{}
	win := l.store.Add(11, dec, func() { l.cleanupNeeded.Store(true) })

	win.SetNewSize(640, 480)
	win.RequestRefresh()

	var got []Event
	require.NoError(t, l.PollEvents(func(evt Event) { got = append(got, evt) }))

	require.Len(t, got, 2)
	assert.Equal(t, KindResized, got[0].Kind)
	assert.Equal(t, uint32(640), got[0].Width)
	assert.Equal(t, uint32(480), got[0].Height)
	assert.Equal(t, KindRefresh, got[1].Kind)

	// The decoration resized before the event went out.
	require.Len(t, dec.resizes, 1)
	assert.Equal(t, [2]int32{640, 480}, dec.resizes[0])

	// Flags are drained, not sticky.
	got = nil
	require.NoError(t, l.PollEvents(func(evt Event) { got = append(got, evt) }))
	assert.Empty(t, got)
}

func TestCloseRequestEmitsClosed(t *testing.T) {
	l, _ := newTestLoop(t, defaultGlobals()...)
	win := l.store.Add(11, &fakeDecoration{}, nil)

	win.RequestRefresh()
	win.RequestClose()

	var kinds []Kind
	require.NoError(t, l.PollEvents(func(evt Event) { kinds = append(kinds, evt.Kind) }))
	assert.Equal(t, []Kind{KindRefresh, KindClosed}, kinds)
}

func TestTriggerOrderWakeupFirst(t *testing.T) {
	l, _ := newTestLoop(t, defaultGlobals()...)
	win := l.store.Add(11, &fakeDecoration{}, nil)

	win.RequestRefresh()
	require.NoError(t, l.Waker().Wake())

	var kinds []Kind
	require.NoError(t, l.PollEvents(func(evt Event) { kinds = append(kinds, evt.Kind) }))
	assert.Equal(t, []Kind{KindAwakened, KindRefresh}, kinds)
}

func TestReleaseSchedulesCleanup(t *testing.T) {
	l, _ := newTestLoop(t, defaultGlobals()...)
	win := l.store.Add(11, &fakeDecoration{}, func() { l.cleanupNeeded.Store(true) })
	require.Equal(t, 1, l.store.Len())

	win.Release()
	require.True(t, l.cleanupNeeded.Load())

	require.NoError(t, l.PollEvents(func(Event) {}))
	assert.Equal(t, 0, l.store.Len())
	_, found := l.store.FindID(11)
	assert.False(t, found)
}

func TestBreakDeliversWholeBatch(t *testing.T) {
	l, _ := newTestLoop(t, defaultGlobals()...)
	l.sink.push(Event{Kind: KindRefresh, Window: 1})
	l.sink.push(Event{Kind: KindRefresh, Window: 2})
	l.sink.push(Event{Kind: KindRefresh, Window: 3})

	var seen []Event
	err := l.RunForever(func(evt Event) ControlFlow {
		seen = append(seen, evt)
		return Break
	})
	require.NoError(t, err)

	// Break stops the loop after the drain, never inside it.
	require.Len(t, seen, 3)
	for i, evt := range seen {
		assert.Equal(t, window.ID(i+1), evt.Window)
	}
}

func TestRunForeverSurfacesDispatchError(t *testing.T) {
	l, conn := newTestLoop(t, defaultGlobals()...)
	conn.dispatchErr = errors.New("broken pipe")
	conn.dispatchC <- struct{}{}

	err := l.RunForever(func(Event) ControlFlow { return Continue })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wayland connection lost")
	assert.ErrorIs(t, err, conn.dispatchErr)
}

func TestSinkFIFO(t *testing.T) {
	s := newSink()
	for i := uint32(1); i <= 4; i++ {
		s.push(Event{Kind: KindRefresh, Window: window.ID(i)})
	}

	var order []window.ID
	s.drain(func(evt Event) { order = append(order, evt.Window) })
	assert.Equal(t, []window.ID{1, 2, 3, 4}, order)
}

func TestSinkPushDuringDrain(t *testing.T) {
	s := newSink()
	s.push(Event{Kind: KindRefresh, Window: 1})

	var first []window.ID
	s.drain(func(evt Event) {
		first = append(first, evt.Window)
		if evt.Window == 1 {
			s.push(Event{Kind: KindRefresh, Window: 2})
		}
	})
	assert.Equal(t, []window.ID{1}, first)

	var second []window.ID
	s.drain(func(evt Event) { second = append(second, evt.Window) })
	assert.Equal(t, []window.ID{2}, second)
}
