// services/remote/remote.go
//
// The remote service observes the wireless peer: a battery-powered PIR
// node that broadcasts its motion state in non-connectable BLE
// advertisements. Observing instead of connecting keeps the peer's radio
// duty cycle low and leaves no connection state machine to babysit.
package remote

import (
	"context"
	"sync/atomic"
	"time"

	"tinygo.org/x/bluetooth"

	"sentryhub-go/state"
	"sentryhub-go/types"
	"sentryhub-go/x/timex"
)

const (
	// DefaultNodeName is the advertised LocalName of the remote node.
	DefaultNodeName = "sentry-remote"

	// DefaultStaleAfterMS drops the link when no advertisement arrived for
	// this long (the node advertises about once a second).
	DefaultStaleAfterMS = 5000
)

type Config struct {
	NodeName     string
	StaleAfterMS int64
}

type Service struct {
	store   *state.Store
	adapter *bluetooth.Adapter
	cfg     Config

	lastSeenMS atomic.Int64
}

func New(store *state.Store, adapter *bluetooth.Adapter, cfg Config) *Service {
	if cfg.NodeName == "" {
		cfg.NodeName = DefaultNodeName
	}
	if cfg.StaleAfterMS <= 0 {
		cfg.StaleAfterMS = DefaultStaleAfterMS
	}
	return &Service{store: store, adapter: adapter, cfg: cfg}
}

// Run blocks in the scan until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.adapter.Enable(); err != nil {
		return err
	}

	go s.staleWatch(ctx)
	go func() {
		<-ctx.Done()
		_ = s.adapter.StopScan()
	}()

	return s.adapter.Scan(func(_ *bluetooth.Adapter, res bluetooth.ScanResult) {
		if res.LocalName() != s.cfg.NodeName {
			return
		}
		for _, md := range res.ManufacturerData() {
			if md.CompanyID != CompanyID {
				continue
			}
			s.Observe(md.Data)
		}
	})
}

// Observe ingests one advertisement payload. Exposed separately from the
// scan callback so it can be fed without a radio.
func (s *Service) Observe(data []byte) {
	motion, count, ok := DecodeMotionPayload(data)
	if !ok {
		return
	}
	now := timex.NowMs()
	s.lastSeenMS.Store(now)
	s.store.SetRemote(types.RemoteValue{
		Motion:    motion,
		Count:     count,
		Connected: true,
		TsMs:      now,
	})
}

// staleWatch marks the link down when advertisements stop arriving; the
// last payload stays visible so the display keeps its final state.
func (s *Service) staleWatch(ctx context.Context) {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			seen := s.lastSeenMS.Load()
			if seen != 0 && timex.NowMs()-seen > s.cfg.StaleAfterMS {
				s.store.MarkRemoteDown()
			}
		}
	}
}
