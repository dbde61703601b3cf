package gpiotime

import (
	"testing"

	"sentryhub-go/errcode"
	"sentryhub-go/internal/simio"
)

func TestWaitForLevel_ReachesLevel(t *testing.T) {
	clk := simio.NewClock(1)
	pin := simio.NewPin(clk, 1)
	pin.SetScript([]simio.Segment{
		{AtMicros: 0, Level: false},
		{AtMicros: 50, Level: true},
	})
	pin.AnchorAt(0)

	if err := WaitForLevel(clk, pin, true, 100); err != nil {
		t.Fatalf("WaitForLevel: %v", err)
	}
	if now := clk.Peek(); now < 50 {
		t.Errorf("returned before level was reached, t=%d", now)
	}
}

func TestWaitForLevel_Timeout(t *testing.T) {
	clk := simio.NewClock(1)
	pin := simio.NewPin(clk, 1)
	pin.SetLevel(false)

	err := WaitForLevel(clk, pin, true, 100)
	if errcode.Of(err) != errcode.Timeout {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestMeasurePulseWidth(t *testing.T) {
	clk := simio.NewClock(1)
	pin := simio.NewPin(clk, 1)
	pin.SetScript([]simio.Segment{
		{AtMicros: 0, Level: false},
		{AtMicros: 10, Level: true},
		{AtMicros: 80, Level: false},
	})
	pin.AnchorAt(0)

	w := MeasurePulseWidth(clk, pin, true, 200)
	if w < 65 || w > 75 {
		t.Errorf("expected width ~70us, got %d", w)
	}
}

func TestMeasurePulseWidth_TimeoutWaitingForLevel(t *testing.T) {
	clk := simio.NewClock(1)
	pin := simio.NewPin(clk, 1)
	pin.SetLevel(false)

	if w := MeasurePulseWidth(clk, pin, true, 100); w != TimedOut {
		t.Fatalf("expected sentinel, got %d", w)
	}
}

func TestMeasurePulseWidth_TimeoutDuringPulse(t *testing.T) {
	clk := simio.NewClock(1)
	pin := simio.NewPin(clk, 1)
	pin.SetLevel(true) // never comes back down

	if w := MeasurePulseWidth(clk, pin, true, 100); w != TimedOut {
		t.Fatalf("expected sentinel, got %d", w)
	}
}
