// Package hcsr04 measures distance with an HC-SR04 ultrasonic module by
// timing the echo pulse produced after a 10 us trigger.
package hcsr04

import (
	"sentryhub-go/errcode"
	"sentryhub-go/sensors/gpiotime"
	"sentryhub-go/types"
)

const (
	// DefaultTimeoutUS bounds both echo edges; 30 ms of flight corresponds
	// to roughly 4 m of range, past which the module reports nothing useful.
	DefaultTimeoutUS = 30000

	triggerSettleUS = 2
	triggerPulseUS  = 10

	// Speed of sound (343 m/s) halved for the round trip: cm per us.
	cmPerMicro = 0.017
)

// Sensor owns one trigger/echo pin pair. Not safe for concurrent use.
type Sensor struct {
	clk  types.Clock
	trig types.GPIOPin
	echo types.GPIOPin

	timeoutUS int64
	last      types.DistanceValue
}

func New(clk types.Clock, trig, echo types.GPIOPin, timeoutUS int64) (*Sensor, error) {
	if clk == nil || trig == nil || echo == nil {
		return nil, errcode.InvalidParams
	}
	if timeoutUS <= 0 {
		timeoutUS = DefaultTimeoutUS
	}
	if err := trig.ConfigureOutput(false); err != nil {
		return nil, &errcode.E{C: errcode.PinInUse, Op: "hcsr04.New", Err: err}
	}
	if err := echo.ConfigureInput(types.PullNone); err != nil {
		return nil, &errcode.E{C: errcode.PinInUse, Op: "hcsr04.New", Err: err}
	}
	return &Sensor{clk: clk, trig: trig, echo: echo, timeoutUS: timeoutUS}, nil
}

// Read fires one trigger pulse and times the echo. A missing echo start is
// a measurement failure, not a fault: nothing reflected within range, and
// the previous reading is retained so consumers keep the last known
// distance instead of a zeroed value.
func (s *Sensor) Read() (types.DistanceValue, error) {
	if s == nil || s.trig == nil {
		return types.DistanceValue{}, errcode.InvalidParams
	}

	// Clean rising edge regardless of prior trigger state.
	s.trig.Set(false)
	s.clk.SleepMicros(triggerSettleUS)
	s.trig.Set(true)
	s.clk.SleepMicros(triggerPulseUS)
	s.trig.Set(false)

	if err := gpiotime.WaitForLevel(s.clk, s.echo, true, s.timeoutUS); err != nil {
		return s.last, &errcode.E{C: errcode.EchoStartTimeout, Op: "hcsr04.Read", Err: err}
	}
	start := s.clk.NowMicros()
	if err := gpiotime.WaitForLevel(s.clk, s.echo, false, s.timeoutUS); err != nil {
		return s.last, &errcode.E{C: errcode.EchoEndTimeout, Op: "hcsr04.Read", Err: err}
	}
	width := s.clk.NowMicros() - start

	s.last = types.DistanceValue{
		Cm:    float32(width) * cmPerMicro,
		Valid: true,
		TsMs:  s.clk.NowMicros() / 1000,
	}
	return s.last, nil
}

// LastValue returns the most recent successful measurement.
func (s *Sensor) LastValue() types.DistanceValue { return s.last }
