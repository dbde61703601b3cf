package pir

import (
	"testing"

	"sentryhub-go/errcode"
	"sentryhub-go/internal/simio"
)

func newSensor(t *testing.T, debounceMS int64) (*Sensor, *simio.Clock, *simio.Pin) {
	t.Helper()
	clk := simio.NewClock(1)
	pin := simio.NewPin(clk, 13)
	s, err := New(clk, pin, debounceMS)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, clk, pin
}

func TestRead_RisingEdgeCounts(t *testing.T) {
	s, clk, pin := newSensor(t, 50)

	pin.SetLevel(false)
	if v := s.Read(); v.Active || v.Count != 0 {
		t.Fatalf("idle read: %+v", v)
	}

	clk.Advance(100 * 1000)
	pin.SetLevel(true)
	v := s.Read()
	if !v.Active || v.Count != 1 {
		t.Fatalf("rising edge: %+v", v)
	}

	// Still high: no new edge, no new count.
	clk.Advance(100 * 1000)
	if v := s.Read(); v.Count != 1 {
		t.Fatalf("level hold must not recount: %+v", v)
	}
}

func TestRead_DebounceSuppressesFastEdges(t *testing.T) {
	s, clk, pin := newSensor(t, 50)

	// low, high(t=0), low(t=10ms), high(t=30ms): one event only.
	pin.SetLevel(false)
	s.Read()
	pin.SetLevel(true)
	s.Read()
	clk.Advance(10 * 1000)
	pin.SetLevel(false)
	s.Read()
	clk.Advance(20 * 1000)
	pin.SetLevel(true)
	v := s.Read()

	if v.Count != 1 {
		t.Fatalf("expected 1 event, got %d", v.Count)
	}
	if !v.Active {
		t.Error("raw level must still report active")
	}
}

func TestRead_EdgesOutsideWindowEachCount(t *testing.T) {
	s, clk, pin := newSensor(t, 50)

	pin.SetLevel(false)
	s.Read()
	for i := 0; i < 3; i++ {
		pin.SetLevel(true)
		s.Read()
		clk.Advance(60 * 1000)
		pin.SetLevel(false)
		s.Read()
		clk.Advance(60 * 1000)
	}
	if got := s.Count(); got != 3 {
		t.Fatalf("expected 3 events, got %d", got)
	}
}

func TestResetCount_KeepsDebounceState(t *testing.T) {
	s, clk, pin := newSensor(t, 50)

	pin.SetLevel(false)
	s.Read()
	pin.SetLevel(true)
	s.Read()
	if s.Count() != 1 {
		t.Fatalf("setup: count=%d", s.Count())
	}

	s.ResetCount()
	if s.Count() != 0 {
		t.Fatal("reset did not zero counter")
	}

	// A bounce right after the reset must still be suppressed: the
	// last-trigger timestamp survived the reset.
	pin.SetLevel(false)
	s.Read()
	clk.Advance(10 * 1000)
	pin.SetLevel(true)
	s.Read()
	if s.Count() != 0 {
		t.Fatalf("bounce after reset counted: %d", s.Count())
	}

	clk.Advance(60 * 1000)
	pin.SetLevel(false)
	s.Read()
	pin.SetLevel(true)
	s.Read()
	if s.Count() != 1 {
		t.Fatalf("genuine edge after reset not counted: %d", s.Count())
	}
}

func TestRead_FirstEdgeAtTimeZeroCounts(t *testing.T) {
	s, _, pin := newSensor(t, 50)
	pin.SetLevel(true)
	if v := s.Read(); v.Count != 1 {
		t.Fatalf("first edge suppressed: %+v", v)
	}
}

func TestNew_InvalidArgs(t *testing.T) {
	clk := simio.NewClock(1)
	if _, err := New(clk, nil, 50); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("expected invalid_params, got %v", err)
	}
}
