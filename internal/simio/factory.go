package simio

import (
	"sync"

	"sentryhub-go/types"
)

// PinFactory hands out simulated pins by number, creating them on demand.
// It implements types.PinFactory for host builds and tests.
type PinFactory struct {
	clk  *Clock
	mu   sync.Mutex
	pins map[int]*Pin
}

func NewPinFactory(clk *Clock) *PinFactory {
	return &PinFactory{clk: clk, pins: map[int]*Pin{}}
}

func (f *PinFactory) ByNumber(n int) (types.GPIOPin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	if !ok {
		p = NewPin(f.clk, n)
		f.pins[n] = p
	}
	return p, true
}

// Pin returns the underlying simulated pin so tests can script it.
func (f *PinFactory) Pin(n int) *Pin {
	p, _ := f.ByNumber(n)
	return p.(*Pin)
}
