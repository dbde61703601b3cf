package main

import (
	"context"
	"time"

	"tinygo.org/x/bluetooth"

	"sentryhub-go/bus"
	"sentryhub-go/internal/platform"
	"sentryhub-go/services/config"
	"sentryhub-go/services/display"
	"sentryhub-go/services/hub"
	"sentryhub-go/services/remote"
	"sentryhub-go/state"
)

const (
	deviceID        = "sentry"
	lcdI2CAddr      = 0x27
	displayPeriodMS = 1000
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)

	b := bus.NewBus(8)
	store := state.NewStore()

	println("[main] starting hub service")
	hubDeps := hub.Deps{
		Conn:  b.NewConnection("hub"),
		Store: store,
		Pins:  platform.DefaultPinFactory(),
	}
	go hub.Run(ctx, hubDeps)

	println("[main] starting display service")
	lcd, err := display.NewLCD(platform.DefaultI2C(), lcdI2CAddr)
	if err != nil {
		println("[main] lcd init failed:", err.Error())
	} else {
		disp := display.New(store, lcd, displayPeriodMS)
		disp.Start(ctx)
	}

	println("[main] starting remote observer")
	rem := remote.New(store, bluetooth.DefaultAdapter, remote.Config{})
	go func() {
		if err := rem.Run(ctx); err != nil {
			println("[main] remote observer stopped:", err.Error())
		}
	}()

	println("[main] publishing embedded config")
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	// Periodic snapshot over serial for field debugging.
	tick := time.NewTicker(5 * time.Second)
	defer tick.Stop()
	for range tick.C {
		snap := store.Snapshot()
		println(
			"[snap]",
			"motion:", snap.Motion.Active, "count:", snap.Motion.Count,
			"dist_cm:", int(snap.Distance.Cm),
			"temp_c:", snap.Env.TempC, "hum:", snap.Env.HumidityRH,
			"remote:", snap.Remote.Connected,
		)
	}
}
