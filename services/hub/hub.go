// services/hub/hub.go
//
// The hub service owns every local sensor decoder and runs one polling
// goroutine per sensor at its configured cadence. Decoded readings go into
// the shared state store and, when they change meaningfully, onto the bus.
// Each decoder is touched only by its own poller; the store is the only
// state shared between tasks.
package hub

import (
	"context"
	"encoding/json"
	"time"

	"sentryhub-go/bus"
	"sentryhub-go/errcode"
	"sentryhub-go/sensors/dht11"
	"sentryhub-go/sensors/gpiotime"
	"sentryhub-go/sensors/hcsr04"
	"sentryhub-go/sensors/pir"
	"sentryhub-go/state"
	"sentryhub-go/types"
	"sentryhub-go/x/mathx"
	"sentryhub-go/x/timex"
)

// Distance readings are only announced on the bus when they moved at least
// this much; the store always gets the fresh value.
const distanceChangeThresholdCM = 1.0

var topicConfigHub = bus.Topic{"config", "hub"}

type Deps struct {
	Conn  *bus.Connection
	Store *state.Store
	Clock types.Clock
	Pins  types.PinFactory
}

type service struct {
	conn  *bus.Connection
	store *state.Store
	clk   types.Clock

	motion   *pir.Sensor
	distance *hcsr04.Sensor
	env      *dht11.Sensor

	motionPeriod   chan int
	distancePeriod chan int
	envPeriod      chan int
	pokeDistance   chan struct{}
	pokeEnv        chan struct{}
	resetCount     chan struct{}

	cfg types.HubConfig
}

// Run blocks until ctx is cancelled. It waits for the retained "config/hub"
// document, wires the decoders, then runs the pollers and the control loop.
func Run(ctx context.Context, d Deps) error {
	s := &service{
		conn:           d.Conn,
		store:          d.Store,
		clk:            d.Clock,
		motionPeriod:   make(chan int, 1),
		distancePeriod: make(chan int, 1),
		envPeriod:      make(chan int, 1),
		pokeDistance:   make(chan struct{}, 1),
		pokeEnv:        make(chan struct{}, 1),
		resetCount:     make(chan struct{}, 1),
	}
	if s.clk == nil {
		s.clk = gpiotime.System
	}

	cfgSub := s.conn.Subscribe(topicConfigHub)
	defer s.conn.Unsubscribe(cfgSub)

	s.publishHubState("idle", "awaiting_config", nil)

	select {
	case <-ctx.Done():
		return nil
	case msg := <-cfgSub.Channel():
		if err := decodeJSON(msg.Payload, &s.cfg); err != nil {
			s.publishHubState("error", "config_decode_failed", err)
			return err
		}
	}

	if err := s.wireSensors(d.Pins); err != nil {
		s.publishHubState("error", "sensor_init_failed", err)
		return err
	}
	s.publishHubState("ready", "configured", nil)

	go s.motionLoop(ctx, orDefault(s.cfg.Motion.PeriodMS, types.DefaultMotionPeriodMS))
	go s.distanceLoop(ctx, orDefault(s.cfg.Distance.PeriodMS, types.DefaultDistancePeriodMS))
	go s.envLoop(ctx, orDefault(s.cfg.Env.PeriodMS, types.DefaultEnvPeriodMS))

	s.controlLoop(ctx)
	s.publishHubState("stopped", "context_cancelled", nil)
	return nil
}

func (s *service) wireSensors(pins types.PinFactory) error {
	motionPin, ok := pins.ByNumber(s.cfg.Motion.Pin)
	if !ok {
		return &errcode.E{C: errcode.UnknownPin, Op: "hub.wire", Msg: "motion"}
	}
	trigPin, ok := pins.ByNumber(s.cfg.Distance.TrigPin)
	if !ok {
		return &errcode.E{C: errcode.UnknownPin, Op: "hub.wire", Msg: "distance trig"}
	}
	echoPin, ok := pins.ByNumber(s.cfg.Distance.EchoPin)
	if !ok {
		return &errcode.E{C: errcode.UnknownPin, Op: "hub.wire", Msg: "distance echo"}
	}
	envPin, ok := pins.ByNumber(s.cfg.Env.Pin)
	if !ok {
		return &errcode.E{C: errcode.UnknownPin, Op: "hub.wire", Msg: "env"}
	}

	var err error
	if s.motion, err = pir.New(s.clk, motionPin, int64(orDefault(s.cfg.Motion.DebounceMS, types.DefaultMotionDebounceMS))); err != nil {
		return err
	}
	if s.distance, err = hcsr04.New(s.clk, trigPin, echoPin, int64(orDefault(s.cfg.Distance.TimeoutUS, types.DefaultDistanceTimeoutUS))); err != nil {
		return err
	}
	if s.env, err = dht11.New(s.clk, envPin); err != nil {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------
// Pollers
// -----------------------------------------------------------------------------

func (s *service) motionLoop(ctx context.Context, periodMS int) {
	var last types.MotionValue
	first := true

	t := time.NewTimer(time.Duration(periodMS) * time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ms := <-s.motionPeriod:
			periodMS = ms
			resetTimer(t, time.Duration(periodMS)*time.Millisecond)
		case <-s.resetCount:
			s.motion.ResetCount()
			v := types.MotionValue{Active: last.Active, Count: 0, TsMs: timex.NowMs()}
			s.store.SetMotion(v)
			s.conn.Publish(s.conn.NewMessage(valueTopic(state.KindMotion), v, false))
			last = v
		case <-t.C:
			v := s.motion.Read()
			s.store.SetMotion(v)
			if first || v.Active != last.Active || v.Count != last.Count {
				s.conn.Publish(s.conn.NewMessage(valueTopic(state.KindMotion), v, false))
				first = false
			}
			last = v
			t.Reset(time.Duration(periodMS) * time.Millisecond)
		}
	}
}

func (s *service) distanceLoop(ctx context.Context, periodMS int) {
	var lastPub float32
	pubbed := false
	link := ""

	t := time.NewTimer(time.Duration(periodMS) * time.Millisecond)
	defer t.Stop()

	poll := func() {
		v, err := s.distance.Read()
		if err != nil {
			link = s.publishLink(state.KindDistance, link, linkFor(err), err)
			return
		}
		s.store.SetDistance(v)
		if !pubbed || mathx.AbsDiff(v.Cm, lastPub) >= distanceChangeThresholdCM {
			s.conn.Publish(s.conn.NewMessage(valueTopic(state.KindDistance), v, false))
			lastPub = v.Cm
			pubbed = true
		}
		link = s.publishLink(state.KindDistance, link, "up", nil)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ms := <-s.distancePeriod:
			periodMS = ms
			resetTimer(t, time.Duration(periodMS)*time.Millisecond)
		case <-s.pokeDistance:
			poll()
			resetTimer(t, time.Duration(periodMS)*time.Millisecond)
		case <-t.C:
			poll()
			t.Reset(time.Duration(periodMS) * time.Millisecond)
		}
	}
}

func (s *service) envLoop(ctx context.Context, periodMS int) {
	link := ""

	t := time.NewTimer(time.Duration(periodMS) * time.Millisecond)
	defer t.Stop()

	poll := func() {
		v, err := s.env.Read()
		switch errcode.Of(err) {
		case errcode.OK:
			s.store.SetEnv(v)
			s.conn.Publish(s.conn.NewMessage(valueTopic(state.KindEnv), v, false))
			link = s.publishLink(state.KindEnv, link, "up", nil)
		case errcode.TooSoon:
			// Self-resolving; the next cycle is outside the window.
		default:
			link = s.publishLink(state.KindEnv, link, linkFor(err), err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ms := <-s.envPeriod:
			periodMS = ms
			resetTimer(t, time.Duration(periodMS)*time.Millisecond)
		case <-s.pokeEnv:
			poll()
			resetTimer(t, time.Duration(periodMS)*time.Millisecond)
		case <-t.C:
			poll()
			t.Reset(time.Duration(periodMS) * time.Millisecond)
		}
	}
}

// -----------------------------------------------------------------------------
// Control
// -----------------------------------------------------------------------------

func (s *service) controlLoop(ctx context.Context) {
	ctrlSub := s.conn.Subscribe(bus.Topic{"sensor", bus.Wildcard, "control", bus.Wildcard})
	defer s.conn.Unsubscribe(ctrlSub)

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ctrlSub.Channel():
			s.handleControl(msg)
		}
	}
}

func (s *service) handleControl(msg *bus.Message) {
	// sensor/<kind>/control/<verb>
	if len(msg.Topic) < 4 {
		return
	}
	kind, _ := msg.Topic[1].(string)
	verb, _ := msg.Topic[3].(string)

	switch verb {
	case "read_now":
		switch state.Kind(kind) {
		case state.KindDistance:
			poke(s.pokeDistance)
			s.replyOK(msg, nil)
		case state.KindEnv:
			poke(s.pokeEnv)
			s.replyOK(msg, nil)
		case state.KindMotion:
			// Motion is already sampled every cycle; nothing to hurry.
			s.replyOK(msg, nil)
		default:
			s.replyErr(msg, errcode.UnknownSensor)
		}

	case "set_rate":
		ms := parsePeriodMS(msg.Payload)
		if ms <= 0 {
			s.replyErr(msg, errcode.InvalidPayload)
			return
		}
		ms = mathx.Clamp(ms, 50, 3_600_000)
		var ch chan int
		switch state.Kind(kind) {
		case state.KindMotion:
			ch = s.motionPeriod
		case state.KindDistance:
			ch = s.distancePeriod
		case state.KindEnv:
			ch = s.envPeriod
		default:
			s.replyErr(msg, errcode.UnknownSensor)
			return
		}
		select {
		case ch <- ms:
		default:
		}
		s.replyOK(msg, map[string]any{"period_ms": ms})

	case "reset_count":
		if state.Kind(kind) != state.KindMotion {
			s.replyErr(msg, errcode.Unsupported)
			return
		}
		poke(s.resetCount)
		s.replyOK(msg, nil)

	default:
		s.replyErr(msg, errcode.Unsupported)
	}
}

// -----------------------------------------------------------------------------
// Publishing helpers
// -----------------------------------------------------------------------------

func valueTopic(kind state.Kind) bus.Topic {
	return bus.Topic{"sensor", string(kind), "value"}
}

func stateTopic(kind state.Kind) bus.Topic {
	return bus.Topic{"sensor", string(kind), "state"}
}

// linkFor maps a read failure to a link state. A failure the next cycle
// can clear on its own is "degraded"; anything else is "down".
func linkFor(err error) string {
	if errcode.Transient(err) {
		return "degraded"
	}
	return "down"
}

// publishLink publishes the retained per-sensor link state on transitions
// and returns the new link value.
func (s *service) publishLink(kind state.Kind, prev, link string, err error) string {
	if link == prev {
		return link
	}
	payload := map[string]any{"link": link, "ts_ms": timex.NowMs()}
	if err != nil {
		payload["error"] = string(errcode.Of(err))
	}
	s.conn.Publish(s.conn.NewMessage(stateTopic(kind), payload, true))
	return link
}

func (s *service) publishHubState(level, status string, err error) {
	payload := map[string]any{"level": level, "status": status, "ts_ms": timex.NowMs()}
	if err != nil {
		payload["error"] = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(bus.Topic{"hub", "state"}, payload, true))
}

func (s *service) replyOK(req *bus.Message, extra map[string]any) {
	if len(req.ReplyTo) == 0 {
		return
	}
	m := map[string]any{"ok": true}
	for k, v := range extra {
		m[k] = v
	}
	s.conn.Reply(req, m, false)
}

func (s *service) replyErr(req *bus.Message, c errcode.Code) {
	if len(req.ReplyTo) == 0 {
		return
	}
	s.conn.Reply(req, map[string]any{"ok": false, "error": string(c)}, false)
}

// -----------------------------------------------------------------------------
// Small helpers
// -----------------------------------------------------------------------------

func poke(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func parsePeriodMS(p any) int {
	if m, ok := p.(map[string]any); ok {
		switch v := m["period_ms"].(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

func decodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		// Accept maps, structs, numbers by marshaling then decoding to T.
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}
