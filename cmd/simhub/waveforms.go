package main

import (
	"context"
	"log/slog"
	"time"

	"sentryhub-go/internal/simio"
)

// Pin assignment mirrors the embedded "sentry" config.
const (
	motionPin = 13
	trigPin   = 12
	echoPin   = 14
	envPin    = 27
	cmPerEcho = 0.017 // one-way cm per microsecond of echo
)

// startWaveforms wires synthetic signals onto the simulated pins: a
// motion presence pattern, an echo pulse answering each trigger, and a
// fresh environment frame served on every bus turnaround.
func startWaveforms(ctx context.Context, logger *slog.Logger, pins *simio.PinFactory) {
	startMotionPattern(ctx, pins.Pin(motionPin))
	wireEchoResponder(pins.Pin(trigPin), pins.Pin(echoPin))
	wireEnvFrames(pins.Pin(envPin))
	logger.Debug("waveform generators attached",
		"motion_pin", motionPin, "trig_pin", trigPin, "echo_pin", echoPin, "env_pin", envPin)
}

// startMotionPattern holds the line high for two seconds out of every
// eight, like someone walking through the detection cone.
func startMotionPattern(ctx context.Context, pin *simio.Pin) {
	go func() {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		var beat int
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				beat++
				pin.SetLevel(beat%8 < 2)
			}
		}
	}()
}

// wireEchoResponder answers each trigger pulse with an echo whose width
// walks between roughly 20 and 120 cm.
func wireEchoResponder(trig, echo *simio.Pin) {
	var sawHigh bool
	var phase int64
	trig.OnSet = func(level bool, at int64) {
		if level {
			sawHigh = true
			return
		}
		if !sawHigh {
			return
		}
		phase++
		cm := 20 + 10*(phase%11)
		widthUS := int64(float64(cm) / cmPerEcho)
		echo.SetScript([]simio.Segment{
			{AtMicros: 0, Level: false},
			{AtMicros: 200, Level: true},
			{AtMicros: 200 + widthUS, Level: false},
		})
		echo.AnchorAt(at)
	}
}

// wireEnvFrames serves a valid sensor frame each time the line is turned
// around to input, with readings that drift slowly.
func wireEnvFrames(env *simio.Pin) {
	env.AnchorOnInput = true
	var reads int
	env.OnConfigureInput = func(_ int64) []simio.Segment {
		reads++
		temp := uint8(22 + reads%4)
		hum := uint8(55 + reads%9)
		return simio.DHTFrame(simio.EnvFrame(hum, temp))
	}
}
