package types

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// GPIOPin is the minimal digital pin surface the protocol decoders need.
// The DHT11 data line alternates direction mid-read, so pins must support
// reconfiguration at any time.
type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// PinFactory supplies GPIO pins by the configured number scheme.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

// Clock supplies the monotonic microsecond time base the bit-level
// protocols are timed against. Decoders never call time.Now directly so
// they can be driven by a simulated clock on the host.
type Clock interface {
	// NowMicros returns monotonic microseconds since an arbitrary origin.
	NowMicros() int64
	// SleepMicros blocks the caller for at least n microseconds.
	SleepMicros(n int64)
}
