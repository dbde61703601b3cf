package config

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"sentryhub-go/bus"
)

func TestConfig_PublishEmbedded_RetainedPerKey(t *testing.T) {
	// Override lookup for this test.
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "sentry" {
			return nil, false
		}
		return []byte(`{
			"hub": {"motion": {"pin": 13}},
			"display": {"period_ms": 1000},
			"remote": {"node_name": "sentry-remote"}
		}`), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "sentry")
	svc.Start(ctx, conn)

	// Subscribe after starting; retained messages should still arrive.
	sub := conn.Subscribe(bus.Topic{configPrefix, bus.Wildcard})

	wantCount := 3 // hub, display, remote
	got := map[string][]byte{}

	deadline := time.Now().Add(600 * time.Millisecond)
	for len(got) < wantCount && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			if len(m.Topic) != 2 {
				t.Fatalf("unexpected topic length: %#v", m.Topic)
			}
			key, ok := m.Topic[1].(string)
			if !ok {
				t.Fatalf("topic[1] type %T, want string", m.Topic[1])
			}
			if !m.Retained {
				t.Fatalf("config/%s not retained", key)
			}
			raw, ok := m.Payload.([]byte)
			if !ok {
				t.Fatalf("payload type %T, want []byte", m.Payload)
			}
			got[key] = raw
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(got) != wantCount {
		t.Fatalf("expected %d retained sections, got %d (%v)", wantCount, len(got), got)
	}

	var hub struct {
		Motion struct {
			Pin int `json:"pin"`
		} `json:"motion"`
	}
	if err := json.Unmarshal(got["hub"], &hub); err != nil {
		t.Fatalf("hub section does not decode: %v", err)
	}
	if hub.Motion.Pin != 13 {
		t.Fatalf("hub.motion.pin = %d, want 13", hub.Motion.Pin)
	}
}

func TestConfig_MissingDevice(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	if err := svc.publishConfig(context.Background(), conn); err == nil {
		t.Fatal("expected error for missing device ID")
	}

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "no-such-device")
	if err := svc.publishConfig(ctx, conn); err == nil {
		t.Fatal("expected error for unknown device")
	}
}
