package eventloop

import (
	"sync"

	"github.com/bnema/wlturbo/wl"

	"github.com/bnema/wayloop/internal/window"
	"github.com/bnema/wayloop/internal/wire"
)

// fakeConn drives the loop without a compositor. Globals passed to
// newFakeConn are announced during the first roundtrip, matching the
// real connection's opening burst.
type fakeConn struct {
	mu sync.Mutex

	announced []wire.Global
	handlers  map[string][]wire.GlobalFunc
	removeFns []func(uint32)
	bound     map[string]wl.Proxy

	replayed   bool
	nextID     uint32
	flushes    int
	syncs      int
	roundtrips int
	closed     bool

	// dispatchC feeds blocking Dispatch calls; Sync signals it the way a
	// real sync acknowledgement would.
	dispatchC   chan struct{}
	dispatchErr error
}

func newFakeConn(globals ...wire.Global) *fakeConn {
	return &fakeConn{
		announced: globals,
		handlers:  make(map[string][]wire.GlobalFunc),
		bound:     make(map[string]wl.Proxy),
		nextID:    100,
		dispatchC: make(chan struct{}, 16),
	}
}

func (c *fakeConn) Flush() error {
	c.mu.Lock()
	c.flushes++
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) Dispatch() error {
	<-c.dispatchC
	return c.dispatchErr
}

func (c *fakeConn) DispatchPending() error {
	return nil
}

func (c *fakeConn) Roundtrip() error {
	c.mu.Lock()
	c.roundtrips++
	replay := !c.replayed
	c.replayed = true
	globals := c.announced
	c.mu.Unlock()

	if replay {
		for _, g := range globals {
			for _, fn := range c.handlers[g.Interface] {
				fn(g.Name, g.Version)
			}
		}
	}
	return nil
}

func (c *fakeConn) Sync() error {
	c.mu.Lock()
	c.syncs++
	c.mu.Unlock()
	c.dispatchC <- struct{}{}
	return nil
}

func (c *fakeConn) OnGlobal(iface string, fn wire.GlobalFunc) {
	c.handlers[iface] = append(c.handlers[iface], fn)
}

func (c *fakeConn) OnGlobalRemove(fn func(name uint32)) {
	c.removeFns = append(c.removeFns, fn)
}

func (c *fakeConn) removeGlobal(name uint32) {
	for _, fn := range c.removeFns {
		fn(name)
	}
}

func (c *fakeConn) Bind(name uint32, iface string, version uint32, proxy wl.Proxy) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	proxy.SetID(c.nextID)
	c.bound[iface] = proxy
	return nil
}

func (c *fakeConn) FindGlobal(iface string) (wire.Global, bool) {
	for _, g := range c.announced {
		if g.Interface == iface {
			return g, true
		}
	}
	return wire.Global{}, false
}

func (c *fakeConn) Globals() []wire.Global {
	return append([]wire.Global{}, c.announced...)
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

// fakeResolver maps surface ids to window ids without a store.
type fakeResolver map[uint32]window.ID

func (r fakeResolver) FindID(surfaceID uint32) (window.ID, bool) {
	wid, ok := r[surfaceID]
	return wid, ok
}

// collect gathers drained events for assertions.
func collect(s *sink) []Event {
	var out []Event
	s.drain(func(evt Event) { out = append(out, evt) })
	return out
}

// fakeDecoration records synchronous resizes.
type fakeDecoration struct {
	mu      sync.Mutex
	resizes [][2]int32
}

func (d *fakeDecoration) Resize(width, height int32) {
	d.mu.Lock()
	d.resizes = append(d.resizes, [2]int32{width, height})
	d.mu.Unlock()
}
