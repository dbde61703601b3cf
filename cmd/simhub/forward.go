package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/denisbrodbeck/machineid"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"sentryhub-go/internal/telemetry"
	"sentryhub-go/state"
)

// forwardSnapshots publishes the current snapshot to the broker at a
// fixed interval until ctx is cancelled.
func forwardSnapshots(ctx context.Context, logger *slog.Logger, store *state.Store, broker string, interval time.Duration) {
	deviceID := clientID()

	opts := mqtt.NewClientOptions()
	opts.AddBroker("tcp://" + broker)
	opts.SetClientID("simhub-" + deviceID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("mqtt connected", "broker", broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.WaitTimeout(10*time.Second) && token.Error() != nil {
		logger.Error("mqtt connect failed", "error", token.Error())
		return
	}
	defer client.Disconnect(250)

	topic := telemetry.Topic(deviceID)
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			payload, err := telemetry.Encode(deviceID, store.Snapshot())
			if err != nil {
				logger.Error("snapshot encode failed", "error", err)
				continue
			}
			token := client.Publish(topic, 1, false, payload)
			if !token.WaitTimeout(5 * time.Second) {
				logger.Warn("publish timed out", "topic", topic)
				continue
			}
			if err := token.Error(); err != nil {
				logger.Warn("publish failed", "topic", topic, "error", err)
				continue
			}
			logger.Debug("snapshot forwarded", "topic", topic, "bytes", len(payload))
		}
	}
}

// clientID identifies this host on the broker; falls back to a fixed
// name where the machine ID is unavailable (containers, locked-down CI).
func clientID() string {
	id, err := machineid.ID()
	if err != nil || id == "" {
		return "simhub"
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
