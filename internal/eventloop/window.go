package eventloop

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/bnema/wayloop/internal/logger"
	"github.com/bnema/wayloop/internal/protocols"
	"github.com/bnema/wayloop/internal/window"
)

// xdgDecoration forwards resizes as xdg window geometry.
type xdgDecoration struct {
	xdgSurface *protocols.XdgSurface
}

func (d *xdgDecoration) Resize(width, height int32) {
	if err := d.xdgSurface.SetWindowGeometry(0, 0, width, height); err != nil {
		logger.Warnf("set_window_geometry failed: %v", err)
	}
}

// wlDecoration tracks size for the legacy shell, which has no geometry
// request of its own.
type wlDecoration struct {
	width, height int32
}

func (d *wlDecoration) Resize(width, height int32) {
	d.width, d.height = width, height
}

// CreateWindow creates a toplevel window with the negotiated shell and
// registers it in the loop's window store. The returned bool reports
// whether the extended shell was used.
func (l *EventLoop) CreateWindow(width, height uint32, title string) (*window.Window, bool, error) {
	if l.state.compositor == nil {
		return nil, false, errors.New("compositor global is not bound")
	}

	surface, err := l.state.compositor.CreateSurface()
	if err != nil {
		return nil, false, fmt.Errorf("create surface: %w", err)
	}

	var (
		win *window.Window
		xdg bool
	)
	onDead := func() { l.cleanupNeeded.Store(true) }

	switch l.state.shell {
	case ShellXdg:
		xdgSurface, err := l.state.xdgShell.GetXdgSurface(surface)
		if err != nil {
			return nil, false, fmt.Errorf("get xdg_surface: %w", err)
		}
		toplevel, err := xdgSurface.GetToplevel()
		if err != nil {
			return nil, false, fmt.Errorf("get xdg_toplevel: %w", err)
		}
		if err := toplevel.SetTitle(title); err != nil {
			return nil, false, err
		}

		win = l.store.Add(surface.ID(), &xdgDecoration{xdgSurface: xdgSurface}, onDead)
		w := win
		xdgSurface.Configure = func(serial uint32) {
			if err := xdgSurface.AckConfigure(serial); err != nil {
				logger.Warnf("ack_configure failed: %v", err)
			}
			w.RequestRefresh()
		}
		toplevel.Configure = func(cw, ch int32) {
			if cw > 0 && ch > 0 {
				w.SetNewSize(uint32(cw), uint32(ch))
			}
		}
		toplevel.Close = func() {
			w.RequestClose()
		}

		if err := surface.Commit(); err != nil {
			return nil, false, err
		}
		xdg = true

	case ShellWl:
		shellSurface, err := l.state.wlShell.GetShellSurface(surface)
		if err != nil {
			return nil, false, fmt.Errorf("get wl_shell_surface: %w", err)
		}
		if err := shellSurface.SetToplevel(); err != nil {
			return nil, false, err
		}
		if err := shellSurface.SetTitle(title); err != nil {
			return nil, false, err
		}

		win = l.store.Add(surface.ID(), &wlDecoration{}, onDead)
		w := win
		shellSurface.Configure = func(_ uint32, cw, ch int32) {
			if cw > 0 && ch > 0 {
				w.SetNewSize(uint32(cw), uint32(ch))
			}
		}

		// wl_shell windows only start receiving events once something is
		// committed, so kick the surface off with a blank buffer. xdg
		// windows must not draw before their first configure.
		if err := l.blankSurface(surface, int32(width), int32(height)); err != nil {
			return nil, false, err
		}

	default:
		return nil, false, ErrNoShell
	}

	return win, xdg, nil
}

// blankSurface attaches a white memfd-backed buffer of the given size.
// The backing file stays open until the server's release event for the
// buffer arrives; the release callback owns the teardown.
func (l *EventLoop) blankSurface(surface *protocols.Surface, width, height int32) error {
	if l.state.shm == nil {
		return errors.New("shm global is not bound")
	}

	size := width * height * 4
	fd, err := unix.MemfdCreate("wayloop-blank", unix.MFD_CLOEXEC)
	if err != nil {
		return fmt.Errorf("failed to create a buffer file: %w", err)
	}
	file := os.NewFile(uintptr(fd), "wayloop-blank")

	if _, err := file.Write(bytes.Repeat([]byte{0xff}, int(size))); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to fill the buffer file: %w", err)
	}

	pool, err := l.state.shm.CreatePool(fd, size)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("create shm pool: %w", err)
	}
	buffer, err := pool.CreateBuffer(0, width, height, width*4, protocols.ShmFormatArgb8888)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("create buffer: %w", err)
	}

	if err := surface.Attach(buffer, 0, 0); err != nil {
		return err
	}
	if err := surface.Commit(); err != nil {
		return err
	}

	// The buffer keeps the pool contents alive as needed.
	if err := pool.Destroy(); err != nil {
		logger.Warnf("shm pool destroy failed: %v", err)
	}

	buffer.Release = func() {
		if err := buffer.Destroy(); err != nil {
			logger.Warnf("blank buffer destroy failed: %v", err)
		}
		_ = file.Close()
	}
	return nil
}
