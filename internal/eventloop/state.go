package eventloop

import (
	"errors"

	"github.com/bnema/wayloop/internal/logger"
	"github.com/bnema/wayloop/internal/protocols"
	"github.com/bnema/wayloop/internal/wire"
)

// ErrNoShell indicates a non-compliant compositor: every compliant
// server advertises at least the legacy wl_shell.
var ErrNoShell = errors.New("compositor advertised neither xdg_wm_base nor wl_shell")

// ShellVariant identifies the negotiated window-management protocol.
type ShellVariant int

const (
	// ShellNone means negotiation has not completed.
	ShellNone ShellVariant = iota
	// ShellXdg is the extended protocol, bound opportunistically during
	// global enumeration.
	ShellXdg
	// ShellWl is the mandatory legacy fallback.
	ShellWl
)

func (v ShellVariant) String() string {
	switch v {
	case ShellXdg:
		return "xdg_wm_base"
	case ShellWl:
		return "wl_shell"
	default:
		return "none"
	}
}

// stateContext is the per-loop protocol state: the output registry, the
// optional seat and the negotiated shell. Only the dispatch goroutine
// mutates it.
type stateContext struct {
	conn     wire.Conn
	monitors *monitorRegistry

	seat  *protocols.Seat
	shell ShellVariant

	xdgShell      *protocols.XdgWmBase
	wlShell       *protocols.WlShell
	compositor    *protocols.Compositor
	subcompositor *protocols.Subcompositor
	shm           *protocols.Shm
}

func newStateContext(conn wire.Conn) *stateContext {
	return &stateContext{
		conn:     conn,
		monitors: &monitorRegistry{},
	}
}

// registerGlobals subscribes the context to the registry before the
// initial roundtrips so the opening advertisement burst is captured.
func (ctx *stateContext) registerGlobals() {
	ctx.conn.OnGlobal(protocols.OutputInterface, ctx.bindOutput)
	ctx.conn.OnGlobal(protocols.XdgWmBaseInterface, ctx.bindXdgShell)
	ctx.conn.OnGlobal(protocols.CompositorInterface, func(name, version uint32) {
		proxy := &protocols.Compositor{}
		if err := ctx.conn.Bind(name, protocols.CompositorInterface, 1, proxy); err != nil {
			logger.Errorf("failed to bind wl_compositor: %v", err)
			return
		}
		ctx.compositor = proxy
	})
	ctx.conn.OnGlobal(protocols.SubcompositorInterface, func(name, version uint32) {
		proxy := &protocols.Subcompositor{}
		if err := ctx.conn.Bind(name, protocols.SubcompositorInterface, 1, proxy); err != nil {
			logger.Errorf("failed to bind wl_subcompositor: %v", err)
			return
		}
		ctx.subcompositor = proxy
	})
	ctx.conn.OnGlobal(protocols.ShmInterface, func(name, version uint32) {
		proxy := &protocols.Shm{}
		if err := ctx.conn.Bind(name, protocols.ShmInterface, 1, proxy); err != nil {
			logger.Errorf("failed to bind wl_shm: %v", err)
			return
		}
		ctx.shm = proxy
	})
	ctx.conn.OnGlobalRemove(func(name uint32) {
		// Maybe this was a monitor, cleanup.
		ctx.monitors.remove(name)
	})
}

// bindOutput registers a newly advertised output and wires its property
// callbacks to a fresh registry entry.
func (ctx *stateContext) bindOutput(name, version uint32) {
	v := version
	if v > protocols.OutputVersion {
		v = protocols.OutputVersion
	}
	output := &protocols.Output{}
	if err := ctx.conn.Bind(name, protocols.OutputInterface, v, output); err != nil {
		logger.Errorf("failed to bind wl_output %d: %v", name, err)
		return
	}

	info := newOutputInfo(output, name)
	output.Geometry = func(x, y int32, _, _, _ int32, maker, model string, _ int32) {
		info.setGeometry(x, y, maker+" - "+model)
	}
	output.Mode = func(flags uint32, width, height, _ int32) {
		if flags&protocols.OutputModeCurrent != 0 {
			info.setCurrentMode(uint32(width), uint32(height))
		}
	}
	output.Scale = func(factor int32) {
		info.setScale(float64(factor))
	}
	output.Done = func() {}

	ctx.monitors.add(info)
	logger.Debug("output announced", "name", name, "version", v)
}

// bindXdgShell opportunistically binds the extended shell during global
// enumeration. Shell, once bound, is never rebound.
func (ctx *stateContext) bindXdgShell(name, version uint32) {
	if ctx.shell != ShellNone {
		return
	}
	proxy := &protocols.XdgWmBase{}
	if err := ctx.conn.Bind(name, protocols.XdgWmBaseInterface, 1, proxy); err != nil {
		logger.Errorf("failed to bind xdg_wm_base: %v", err)
		return
	}
	ctx.xdgShell = proxy
	ctx.shell = ShellXdg
	logger.Debug("bound extended shell", "name", name)
}

// ensureShell completes shell negotiation. If the extended shell was
// already bound there is nothing to do; otherwise the legacy wl_shell is
// bound as fallback. A compositor advertising neither is non-compliant
// and negotiation fails for good.
func (ctx *stateContext) ensureShell() error {
	if ctx.shell != ShellNone {
		return nil
	}
	if g, ok := ctx.conn.FindGlobal(protocols.WlShellInterface); ok {
		proxy := &protocols.WlShell{}
		if err := ctx.conn.Bind(g.Name, protocols.WlShellInterface, 1, proxy); err != nil {
			return err
		}
		ctx.wlShell = proxy
		ctx.shell = ShellWl
		logger.Debug("bound legacy shell", "name", g.Name)
		return nil
	}
	return ErrNoShell
}

// initSeat binds the seat if one was advertised. Idempotent: a seat,
// once bound, is never rebound.
func (ctx *stateContext) initSeat(wire func(seat *protocols.Seat)) error {
	if ctx.seat != nil {
		return nil
	}
	g, ok := ctx.conn.FindGlobal(protocols.SeatInterface)
	if !ok {
		return nil
	}
	v := g.Version
	if v > protocols.SeatVersion {
		v = protocols.SeatVersion
	}
	seat := &protocols.Seat{Version: v}
	wire(seat)
	if err := ctx.conn.Bind(g.Name, protocols.SeatInterface, v, seat); err != nil {
		return err
	}
	ctx.seat = seat
	logger.Debug("bound seat", "name", g.Name, "version", v)
	return nil
}
