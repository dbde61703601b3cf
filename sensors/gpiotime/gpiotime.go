// Package gpiotime holds the two timed-GPIO primitives every protocol
// decoder is built from: wait-for-level and pulse-width measurement. Both
// busy-poll against an injected microsecond clock; the required resolution
// is well below what a sleeping wait can deliver.
package gpiotime

import (
	"sentryhub-go/errcode"
	"sentryhub-go/types"
)

// TimedOut is the pulse-width sentinel. Zero is a legitimate (if
// implausible) measurement, so timeouts are reported as a negative value.
const TimedOut = int64(-1)

// WaitForLevel busy-polls pin until it reads level, or fails with
// errcode.Timeout once timeoutMicros has elapsed.
func WaitForLevel(clk types.Clock, pin types.GPIOPin, level bool, timeoutMicros int64) error {
	start := clk.NowMicros()
	for pin.Get() != level {
		if clk.NowMicros()-start > timeoutMicros {
			return errcode.Timeout
		}
	}
	return nil
}

// MeasurePulseWidth waits for pin to reach level (bounded by timeoutMicros),
// then measures how long it stays there (same budget, restarted at the point
// the level is reached). Returns TimedOut on either timeout.
func MeasurePulseWidth(clk types.Clock, pin types.GPIOPin, level bool, timeoutMicros int64) int64 {
	start := clk.NowMicros()
	for pin.Get() != level {
		if clk.NowMicros()-start > timeoutMicros {
			return TimedOut
		}
	}

	pulseStart := clk.NowMicros()
	for pin.Get() == level {
		if clk.NowMicros()-pulseStart > timeoutMicros {
			return TimedOut
		}
	}
	return clk.NowMicros() - pulseStart
}
