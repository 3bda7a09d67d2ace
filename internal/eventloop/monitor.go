package eventloop

import (
	"errors"
	"sync"

	"github.com/bnema/wayloop/internal/logger"
	"github.com/bnema/wayloop/internal/protocols"
)

// ErrNoMonitor is returned when a primary monitor is requested before
// the compositor advertised any output.
var ErrNoMonitor = errors.New("no monitor is available")

// outputInfo is the mutable record for one advertised output. Each info
// is an independently locked cell so Monitor handles stay readable while
// the registry changes around them.
type outputInfo struct {
	mu sync.Mutex

	output *protocols.Output
	name   uint32 // server-assigned global name, used for removal matching

	scale         float64
	width, height uint32
	x, y          int32
	label         string
}

func newOutputInfo(output *protocols.Output, name uint32) *outputInfo {
	return &outputInfo{
		output: output,
		name:   name,
		scale:  1.0,
	}
}

func (o *outputInfo) setGeometry(x, y int32, label string) {
	o.mu.Lock()
	o.x = x
	o.y = y
	o.label = label
	o.mu.Unlock()
}

func (o *outputInfo) setCurrentMode(width, height uint32) {
	o.mu.Lock()
	o.width = width
	o.height = height
	o.mu.Unlock()
}

func (o *outputInfo) setScale(scale float64) {
	o.mu.Lock()
	o.scale = scale
	o.mu.Unlock()
}

// Monitor is an observer handle for one output. It stays valid after the
// output is removed from the registry: reads keep returning the last
// known values rather than failing. Callers that need liveness should
// re-enumerate through the loop.
type Monitor struct {
	info *outputInfo
}

// Name returns the human-readable make/model label.
func (m Monitor) Name() string {
	m.info.mu.Lock()
	defer m.info.mu.Unlock()
	return m.info.label
}

// NativeID returns the server-assigned numeric identifier.
func (m Monitor) NativeID() uint32 {
	m.info.mu.Lock()
	defer m.info.mu.Unlock()
	return m.info.name
}

// Dimensions returns the current mode size in pixels.
func (m Monitor) Dimensions() (width, height uint32) {
	m.info.mu.Lock()
	defer m.info.mu.Unlock()
	return m.info.width, m.info.height
}

// Position returns the position in the global compositor space.
func (m Monitor) Position() (x, y int32) {
	m.info.mu.Lock()
	defer m.info.mu.Unlock()
	return m.info.x, m.info.y
}

// Scale returns the output scale factor.
func (m Monitor) Scale() float64 {
	m.info.mu.Lock()
	defer m.info.mu.Unlock()
	return m.info.scale
}

// monitorRegistry tracks the currently advertised outputs. The registry
// lock guards the slice only; entry state has its own lock.
type monitorRegistry struct {
	mu       sync.Mutex
	monitors []*outputInfo
}

func (r *monitorRegistry) add(info *outputInfo) {
	r.mu.Lock()
	r.monitors = append(r.monitors, info)
	r.mu.Unlock()
}

// remove drops the entry whose global name matches. Matching by numeric
// name, not object identity: by removal time the protocol object may
// already be unusable.
func (r *monitorRegistry) remove(name uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, info := range r.monitors {
		info.mu.Lock()
		match := info.name == name
		info.mu.Unlock()
		if match {
			r.monitors = append(r.monitors[:i], r.monitors[i+1:]...)
			logger.Debug("output removed", "name", name)
			return true
		}
	}
	return false
}

func (r *monitorRegistry) primary() (Monitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.monitors) == 0 {
		return Monitor{}, ErrNoMonitor
	}
	return Monitor{info: r.monitors[0]}, nil
}

func (r *monitorRegistry) snapshot() []Monitor {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Monitor, len(r.monitors))
	for i, info := range r.monitors {
		out[i] = Monitor{info: info}
	}
	return out
}
