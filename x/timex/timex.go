package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Monotonic is the process start reference for MonoMicros.
var monoStart = time.Now()

// MonoMicros returns monotonic microseconds since process start.
func MonoMicros() int64 { return time.Since(monoStart).Microseconds() }
