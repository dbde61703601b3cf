package simio

import (
	"sync"

	"sentryhub-go/types"
)

// Segment is one step of a scripted waveform: the pin reads Level from
// AtMicros (relative to the script anchor) until the next segment.
type Segment struct {
	AtMicros int64
	Level    bool
}

// Pin is a scriptable GPIO pin implementing types.GPIOPin.
//
// While an anchored script is active, Get returns the scripted level for
// the current simulated time; otherwise it returns the plain stored level.
// Writes are visible through OnSet so a test can react to protocol output
// (e.g. anchor an echo waveform when the trigger pulse ends).
type Pin struct {
	clk *Clock

	mu       sync.Mutex
	n        int
	level    bool
	input    bool
	pull     types.Pull
	script   []Segment
	anchorAt int64
	anchored bool
	pending  []Segment

	// AnchorOnInput anchors the pending script when the pin is switched to
	// input mode (single-wire sensors answer after the host releases the line).
	AnchorOnInput bool

	// OnSet, if set, observes every write with its timestamp.
	OnSet func(level bool, atMicros int64)

	// OnConfigureInput, if set, may supply a fresh pending script each time
	// the pin is released to the sensor.
	OnConfigureInput func(atMicros int64) []Segment
}

func NewPin(clk *Clock, number int) *Pin {
	return &Pin{clk: clk, n: number}
}

func (p *Pin) Number() int { return p.n }

func (p *Pin) ConfigureInput(pull types.Pull) error {
	at := p.clk.Peek()
	p.mu.Lock()
	p.input = true
	p.pull = pull
	if p.OnConfigureInput != nil {
		p.pending = p.OnConfigureInput(at)
	}
	if p.AnchorOnInput && len(p.pending) > 0 {
		p.script = p.pending
		p.pending = nil
		p.anchorAt = at
		p.anchored = true
	}
	p.mu.Unlock()
	return nil
}

func (p *Pin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.input = false
	p.level = initial
	p.anchored = false
	p.mu.Unlock()
	return nil
}

func (p *Pin) Set(level bool) {
	at := p.clk.Peek()
	p.mu.Lock()
	p.level = level
	cb := p.OnSet
	p.mu.Unlock()
	if cb != nil {
		cb(level, at)
	}
}

func (p *Pin) Get() bool {
	now := p.clk.Peek()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.anchored {
		// Past the final segment the script holds its last level; the script
		// stays active until the pin is reconfigured.
		rel := now - p.anchorAt
		lvl := p.level
		for _, seg := range p.script {
			if rel < seg.AtMicros {
				break
			}
			lvl = seg.Level
		}
		return lvl
	}
	return p.level
}

// SetLevel drives the observed input level directly (no script).
func (p *Pin) SetLevel(level bool) {
	p.mu.Lock()
	p.anchored = false
	p.level = level
	p.mu.Unlock()
}

// SetScript stores a pending waveform to be anchored later.
func (p *Pin) SetScript(segments []Segment) {
	p.mu.Lock()
	p.pending = segments
	p.mu.Unlock()
}

// AnchorAt activates the pending script with its time origin at atMicros.
func (p *Pin) AnchorAt(atMicros int64) {
	p.mu.Lock()
	if len(p.pending) > 0 {
		p.script = p.pending
		p.pending = nil
	}
	p.anchorAt = atMicros
	p.anchored = true
	p.mu.Unlock()
}
