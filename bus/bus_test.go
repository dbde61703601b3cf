// bus/bus_test.go
package bus

import (
	"testing"
	"time"
)

func recv(t *testing.T, sub *Subscription) *Message {
	t.Helper()
	select {
	case m := <-sub.Channel():
		return m
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
		return nil
	}
}

func expectNone(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case m := <-sub.Channel():
		t.Fatalf("unexpected message on %v: %+v", sub.Topic(), m)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(Topic{"sensor", "motion", "value"})

	conn.Publish(conn.NewMessage(Topic{"sensor", "motion", "value"}, "hello", false))

	got := recv(t, sub)
	if got.Payload.(string) != "hello" {
		t.Errorf("expected payload 'hello', got %v", got.Payload)
	}
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(Topic{"sensor", "env", "state"}, "persist", true))

	sub := conn.Subscribe(Topic{"sensor", "env", "state"})

	got := recv(t, sub)
	if got.Payload.(string) != "persist" {
		t.Errorf("expected retained payload 'persist', got %v", got.Payload)
	}
}

func TestRetainedCleared(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(Topic{"sensor", "env", "state"}, "x", true))
	conn.Publish(conn.NewMessage(Topic{"sensor", "env", "state"}, nil, true))

	sub := conn.Subscribe(Topic{"sensor", "env", "state"})
	expectNone(t, sub)
}

func TestWildcard_SingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	sub := c.Subscribe(Topic{"sensor", Wildcard, "value"})

	c.Publish(c.NewMessage(Topic{"sensor", "motion", "value"}, 1, false))
	c.Publish(c.NewMessage(Topic{"sensor", "distance", "value"}, 2, false))
	c.Publish(c.NewMessage(Topic{"sensor", "distance", "state"}, 3, false))

	first := recv(t, sub)
	second := recv(t, sub)
	if first.Payload.(int) != 1 || second.Payload.(int) != 2 {
		t.Errorf("unexpected payloads: %v %v", first.Payload, second.Payload)
	}
	expectNone(t, sub)
}

func TestWildcard_RetainedDelivery(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(c.NewMessage(Topic{"sensor", "motion", "state"}, "m", true))
	c.Publish(c.NewMessage(Topic{"sensor", "env", "state"}, "e", true))

	sub := c.Subscribe(Topic{"sensor", Wildcard, "state"})

	seen := map[string]bool{}
	seen[recv(t, sub).Payload.(string)] = true
	seen[recv(t, sub).Payload.(string)] = true
	if !seen["m"] || !seen["e"] {
		t.Errorf("expected both retained payloads, got %v", seen)
	}
}

func TestIntTokens(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	sub := c.Subscribe(Topic{"sensor", "motion", 0, "value"})
	c.Publish(c.NewMessage(Topic{"sensor", "motion", 0, "value"}, true, false))
	c.Publish(c.NewMessage(Topic{"sensor", "motion", 1, "value"}, true, false))

	recv(t, sub)
	expectNone(t, sub)
}

func TestReply(t *testing.T) {
	b := NewBus(4)
	svc := b.NewConnection("svc")
	cli := b.NewConnection("cli")

	ctrl := svc.Subscribe(Topic{"sensor", "motion", "control", Wildcard})

	req := cli.NewRequest(Topic{"sensor", "motion", "control", "reset_count"}, nil)
	replySub := cli.Subscribe(req.ReplyTo)
	cli.Publish(req)

	got := recv(t, ctrl)
	svc.Reply(got, map[string]any{"ok": true}, false)

	rep := recv(t, replySub)
	if !rep.Topic.Equal(req.ReplyTo) {
		t.Errorf("reply arrived on %v, want %v", rep.Topic, req.ReplyTo)
	}
	if ok := rep.Payload.(map[string]any)["ok"].(bool); !ok {
		t.Errorf("expected ok reply, got %+v", rep.Payload)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	sub := c.Subscribe(Topic{"a", "b"})
	c.Unsubscribe(sub)

	// Publishing after unsubscribe must not panic or deliver.
	c.Publish(c.NewMessage(Topic{"a", "b"}, "x", false))
	if _, open := <-sub.Channel(); open {
		t.Error("expected closed channel after unsubscribe")
	}
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")

	sub := c.Subscribe(Topic{"q"})
	for i := 0; i < 5; i++ {
		c.Publish(c.NewMessage(Topic{"q"}, i, false))
	}

	// Last two survive.
	if got := recv(t, sub).Payload.(int); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := recv(t, sub).Payload.(int); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
}
