// Package dht11 decodes the DHT11 single-wire temperature/humidity
// protocol: a host start signal, a sensor handshake, then 40 pulse-width
// encoded bits with an additive checksum. The sensor offers no resend
// mechanism, so any anomaly anywhere in the frame discards the whole read.
package dht11

import (
	"sentryhub-go/errcode"
	"sentryhub-go/sensors/gpiotime"
	"sentryhub-go/types"
)

const (
	// The part needs 2 s to recover between conversions; reads attempted
	// sooner fail without touching the pin.
	MinReadIntervalMS = 2000

	startSignalLowUS  = 18000
	startSignalHighUS = 30
	responseTimeoutUS = 100
	bitTimeoutUS      = 200
	bitThresholdUS    = 40
)

// Sensor owns one DHT11 data line. Not safe for concurrent use; each
// sensor belongs to exactly one polling task.
type Sensor struct {
	clk types.Clock
	pin types.GPIOPin

	last           types.EnvValue
	lastReadMicros int64
}

// New configures the data pin for bidirectional use and leaves it driven
// high (protocol idle state).
func New(clk types.Clock, pin types.GPIOPin) (*Sensor, error) {
	if clk == nil || pin == nil {
		return nil, errcode.InvalidParams
	}
	if err := pin.ConfigureOutput(true); err != nil {
		return nil, &errcode.E{C: errcode.PinInUse, Op: "dht11.New", Err: err}
	}
	return &Sensor{clk: clk, pin: pin}, nil
}

// Read performs one complete frame exchange. On success the decoded value
// is cached and returned; on any failure the previous value is untouched
// and the last-read timestamp does not advance, so the minimum-interval
// policy cannot be starved by repeated failures.
func (s *Sensor) Read() (types.EnvValue, error) {
	if s == nil || s.pin == nil {
		return types.EnvValue{}, errcode.InvalidParams
	}

	now := s.clk.NowMicros()
	if now-s.lastReadMicros < MinReadIntervalMS*1000 {
		return s.last, errcode.TooSoon
	}

	frame, err := s.exchange()
	if err != nil {
		return s.last, err
	}

	sum := frame[0] + frame[1] + frame[2] + frame[3]
	if sum != frame[4] {
		return s.last, &errcode.E{C: errcode.ChecksumMismatch, Op: "dht11.Read"}
	}

	// The DHT11 reports whole units only; the fractional bytes are read and
	// checksummed but always zero on this part, so only the integer bytes
	// are committed.
	done := s.clk.NowMicros()
	s.last = types.EnvValue{
		HumidityRH: frame[0],
		TempC:      frame[2],
		Valid:      true,
		TsMs:       done / 1000,
	}
	s.lastReadMicros = done
	return s.last, nil
}

// exchange runs start signal, handshake, and the 40-bit transfer.
func (s *Sensor) exchange() ([5]byte, error) {
	var frame [5]byte

	// Start signal: hold low 18 ms, high 30 us, then release the line to
	// the sensor. The pin is restored to driven-high on the way out.
	s.pin.Set(false)
	s.clk.SleepMicros(startSignalLowUS)
	s.pin.Set(true)
	s.clk.SleepMicros(startSignalHighUS)
	if err := s.pin.ConfigureInput(types.PullNone); err != nil {
		return frame, &errcode.E{C: errcode.PinInUse, Op: "dht11.exchange", Err: err}
	}
	defer func() { _ = s.pin.ConfigureOutput(true) }()

	// Sensor acknowledges with low then high.
	if err := gpiotime.WaitForLevel(s.clk, s.pin, false, responseTimeoutUS); err != nil {
		return frame, &errcode.E{C: errcode.NoResponse, Op: "dht11.exchange", Err: err}
	}
	if err := gpiotime.WaitForLevel(s.clk, s.pin, true, responseTimeoutUS); err != nil {
		return frame, &errcode.E{C: errcode.NoResponse, Op: "dht11.exchange", Err: err}
	}

	for i := 0; i < 40; i++ {
		if err := gpiotime.WaitForLevel(s.clk, s.pin, false, bitTimeoutUS); err != nil {
			return frame, &errcode.E{C: errcode.ProtocolTimeout, Op: "dht11.exchange", Err: err}
		}
		if err := gpiotime.WaitForLevel(s.clk, s.pin, true, bitTimeoutUS); err != nil {
			return frame, &errcode.E{C: errcode.ProtocolTimeout, Op: "dht11.exchange", Err: err}
		}
		width := gpiotime.MeasurePulseWidth(s.clk, s.pin, true, bitTimeoutUS)
		if width < 0 {
			return frame, &errcode.E{C: errcode.ProtocolTimeout, Op: "dht11.exchange"}
		}
		if width > bitThresholdUS {
			frame[i/8] |= 1 << (7 - i%8)
		}
	}
	return frame, nil
}

// LastValue returns the most recent successfully decoded reading.
func (s *Sensor) LastValue() types.EnvValue { return s.last }
