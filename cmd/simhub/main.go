// Command simhub runs the full acquisition stack on a development host.
// Sensors are replaced by waveform generators, the display renders to the
// log, and snapshots can be forwarded to an MQTT broker for inspection.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"sentryhub-go/bus"
	"sentryhub-go/internal/simio"
	"sentryhub-go/services/config"
	"sentryhub-go/services/display"
	"sentryhub-go/services/hub"
	"sentryhub-go/services/remote"
	"sentryhub-go/state"
)

func main() {
	broker := flag.String("broker", "", "MQTT broker host:port; empty disables forwarding")
	interval := flag.Duration("interval", 5*time.Second, "snapshot forwarding interval")
	level := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := newLogger(*level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = context.WithValue(ctx, config.CtxDeviceKey, "sentry")

	clk := simio.NewClock(1)
	pins := simio.NewPinFactory(clk)
	b := bus.NewBus(32)
	store := state.NewStore()

	// The simulated clock only moves when a decoder reads it. Nudge it
	// along wall time so interval gates (the environment sensor refuses
	// back-to-back reads) open at a realistic pace.
	go func() {
		tick := time.NewTicker(100 * time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				clk.Advance(100 * 1000)
			}
		}
	}()

	startWaveforms(ctx, logger, pins)

	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	go func() {
		if err := hub.Run(ctx, hub.Deps{
			Conn:  b.NewConnection("hub"),
			Store: store,
			Clock: clk,
			Pins:  pins,
		}); err != nil {
			logger.Error("hub stopped", "error", err)
		}
	}()

	display.New(store, &logScreen{logger: logger}, 1000).Start(ctx)

	startRemoteFeed(ctx, store)

	if *broker != "" {
		go forwardSnapshots(ctx, logger, store, *broker, *interval)
	}

	logger.Info("simhub running", "broker", *broker)
	<-ctx.Done()
	logger.Info("shutting down")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	h := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	})
	return slog.New(h).With("app", "simhub")
}

// startRemoteFeed plays the part of the wireless node: a motion payload
// arrives once a second, with the motion flag flipping every few beats.
func startRemoteFeed(ctx context.Context, store *state.Store) {
	svc := remote.New(store, nil, remote.Config{})
	go func() {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		var beats, count uint32
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				beats++
				motion := beats%6 < 2
				if motion {
					count++
				}
				p := remote.EncodeMotionPayload(motion, count)
				svc.Observe(p[:])
			}
		}
	}()
}

// logScreen satisfies display.Screen by logging each rendered row.
type logScreen struct {
	logger *slog.Logger
	row    uint8
}

func (s *logScreen) ClearDisplay() error { return nil }

func (s *logScreen) SetCursor(_, row uint8) error {
	s.row = row
	return nil
}

func (s *logScreen) Print(data []byte) error {
	s.logger.Info("lcd", "row", s.row, "text", string(data))
	return nil
}
