package gpiotime

import (
	"time"

	"sentryhub-go/types"
	"sentryhub-go/x/timex"
)

// System is the shared monotonic microsecond clock used on hardware and in
// the host simulator.
var System types.Clock = sysClock{}

type sysClock struct{}

func (sysClock) NowMicros() int64 { return timex.MonoMicros() }

// SleepMicros spins for sub-millisecond waits to keep microsecond-scale
// protocol timing; longer waits are delegated to the runtime timer.
func (sysClock) SleepMicros(n int64) {
	if n <= 0 {
		return
	}
	if n >= 1000 {
		time.Sleep(time.Duration(n) * time.Microsecond)
		return
	}
	deadline := timex.MonoMicros() + n
	for timex.MonoMicros() < deadline {
	}
}
