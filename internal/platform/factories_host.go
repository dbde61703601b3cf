//go:build !rp2040 && !rp2350

package platform

import (
	"sync"

	"tinygo.org/x/drivers"

	"sentryhub-go/types"
)

// ----------------------------- I²C (host) ------------------------------------

// HostI2C implements tinygo drivers.I2C for host-side runs. Writes are
// recorded and reads come back zeroed, which is enough for a character
// LCD that is never read from.
type HostI2C struct {
	mu     sync.Mutex
	LastTx struct {
		Addr uint16
		W    []byte
		Rn   int
	}
}

func (h *HostI2C) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastTx.Addr = addr
	h.LastTx.W = append([]byte(nil), w...)
	h.LastTx.Rn = len(r)
	return nil
}

// DefaultI2C returns the bus the display driver attaches to.
func DefaultI2C() drivers.I2C { return &HostI2C{} }

// ----------------------------- GPIO (host) -----------------------------------

// HostPin implements types.GPIOPin for host-side runs. Levels can be
// driven externally through Set, which makes it usable both as an
// output and as a stand-in input.
type HostPin struct {
	mu     sync.RWMutex
	number int
	level  bool
}

func (p *HostPin) ConfigureInput(_ types.Pull) error { return nil }

func (p *HostPin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *HostPin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *HostPin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

func (p *HostPin) Number() int { return p.number }

// HostPinFactory returns stable *HostPin instances per number.
type HostPinFactory struct {
	mu   sync.Mutex
	pins map[int]*HostPin
}

func (f *HostPinFactory) ByNumber(n int) (types.GPIOPin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*HostPin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = &HostPin{number: n}
		f.pins[n] = p
	}
	return p, true
}

// Get exposes the underlying *HostPin so callers can drive levels.
func (f *HostPinFactory) Get(n int) (*HostPin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	return p, ok
}

// DefaultPinFactory provides a host GPIO factory.
func DefaultPinFactory() types.PinFactory {
	return &HostPinFactory{pins: make(map[int]*HostPin)}
}
