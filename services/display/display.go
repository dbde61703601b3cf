// services/display/display.go
//
// The display service is a pure consumer: every second it takes one store
// snapshot and renders it to a 16x2 character screen. It never writes to
// the store and holds no lock while drawing.
package display

import (
	"context"
	"strconv"
	"time"

	"sentryhub-go/state"
	"sentryhub-go/types"
)

const (
	Columns = 16
	Rows    = 2
)

// Screen is the character display surface. The HD44780 adaptor implements
// it on hardware; tests use an in-memory fake.
type Screen interface {
	ClearDisplay() error
	SetCursor(col, row uint8) error
	Print(data []byte) error
}

type Service struct {
	store    *state.Store
	screen   Screen
	periodMS int
}

func New(store *state.Store, screen Screen, periodMS int) *Service {
	if periodMS <= 0 {
		periodMS = 1000
	}
	return &Service{store: store, screen: screen, periodMS: periodMS}
}

// Start launches the render loop.
func (s *Service) Start(ctx context.Context) {
	go s.loop(ctx)
}

func (s *Service) loop(ctx context.Context) {
	tick := time.NewTicker(time.Duration(s.periodMS) * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			s.render()
		}
	}
}

func (s *Service) render() {
	snap := s.store.Snapshot()
	lines := RenderLines(snap)

	_ = s.screen.ClearDisplay()
	for row := 0; row < Rows; row++ {
		_ = s.screen.SetCursor(0, uint8(row))
		_ = s.screen.Print([]byte(lines[row]))
	}
}

// RenderLines formats a snapshot into the two display lines:
//
//	M:Y D:98cm
//	T:24C H:60%
//
// Lines longer than the panel are cut at 16 columns.
func RenderLines(snap state.Snapshot) [Rows]string {
	line0 := "M:" + yn(snap.Motion.Active) + " D:" + distanceField(snap.Distance)
	line1 := "T:" + envField(snap.Env.TempC, snap.Env.Valid) + "C H:" + envField(snap.Env.HumidityRH, snap.Env.Valid) + "%"
	if snap.Remote.Connected {
		line1 += " R:" + yn(snap.Remote.Motion)
	}
	return [Rows]string{clip(line0), clip(line1)}
}

func yn(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

func distanceField(d types.DistanceValue) string {
	if !d.Valid {
		return "---cm"
	}
	return strconv.Itoa(int(d.Cm+0.5)) + "cm"
}

func envField(v uint8, valid bool) string {
	if !valid {
		return "--"
	}
	return strconv.Itoa(int(v))
}

func clip(s string) string {
	if len(s) > Columns {
		return s[:Columns]
	}
	return s
}
