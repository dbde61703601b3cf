// Package pir decodes a passive-infrared motion sensor: level sampling
// with rising-edge detection and a minimum-retrigger (debounce) window.
package pir

import (
	"sentryhub-go/errcode"
	"sentryhub-go/types"
)

// DefaultDebounceMS suppresses contact bounce on the sensor output.
const DefaultDebounceMS = 50

// Sensor owns one PIR output pin. Not safe for concurrent use.
type Sensor struct {
	clk types.Clock
	pin types.GPIOPin

	debounceMS    int64
	lastLevel     bool
	lastTriggerMS int64 // -1 until the first accepted trigger
	count         uint32
}

func New(clk types.Clock, pin types.GPIOPin, debounceMS int64) (*Sensor, error) {
	if clk == nil || pin == nil {
		return nil, errcode.InvalidParams
	}
	if debounceMS <= 0 {
		debounceMS = DefaultDebounceMS
	}
	if err := pin.ConfigureInput(types.PullNone); err != nil {
		return nil, &errcode.E{C: errcode.PinInUse, Op: "pir.New", Err: err}
	}
	return &Sensor{clk: clk, pin: pin, debounceMS: debounceMS, lastTriggerMS: -1}, nil
}

// Read samples the pin once. The returned Active flag is the raw level and
// updates on every call; only the event counter is debounce-gated. Edges
// closer together than the window count as bounce, not new events.
func (s *Sensor) Read() types.MotionValue {
	level := s.pin.Get()
	nowMS := s.clk.NowMicros() / 1000

	if level && !s.lastLevel {
		if s.lastTriggerMS < 0 || nowMS-s.lastTriggerMS >= s.debounceMS {
			s.count++
			s.lastTriggerMS = nowMS
		}
	}
	s.lastLevel = level

	return types.MotionValue{Active: level, Count: s.count, TsMs: nowMS}
}

// Count returns the cumulative accepted-event count.
func (s *Sensor) Count() uint32 { return s.count }

// ResetCount zeroes the event counter. The last-trigger timestamp and the
// stored level are preserved so debouncing keeps working across the reset.
func (s *Sensor) ResetCount() { s.count = 0 }
