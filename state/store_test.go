package state

import (
	"sync"
	"testing"
	"time"

	"sentryhub-go/types"
)

func TestSnapshot_ReflectsWrites(t *testing.T) {
	s := NewStore()

	s.SetMotion(types.MotionValue{Active: true, Count: 3})
	s.SetDistance(types.DistanceValue{Cm: 98.6, Valid: true})
	s.SetEnv(types.EnvValue{TempC: 24, HumidityRH: 60, Valid: true})
	s.SetRemote(types.RemoteValue{Motion: true, Count: 1, Connected: true})

	snap := s.Snapshot()
	if !snap.Motion.Active || snap.Motion.Count != 3 {
		t.Errorf("motion slot: %+v", snap.Motion)
	}
	if snap.Distance.Cm != 98.6 || !snap.Distance.Valid {
		t.Errorf("distance slot: %+v", snap.Distance)
	}
	if snap.Env.TempC != 24 || snap.Env.HumidityRH != 60 {
		t.Errorf("env slot: %+v", snap.Env)
	}
	if !snap.Remote.Connected {
		t.Errorf("remote slot: %+v", snap.Remote)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewStore()
	s.SetEnv(types.EnvValue{TempC: 20, Valid: true})
	snap := s.Snapshot()
	s.SetEnv(types.EnvValue{TempC: 30, Valid: true})
	if snap.Env.TempC != 20 {
		t.Error("snapshot must not alias store contents")
	}
}

func TestMarkRemoteDown_PreservesPayload(t *testing.T) {
	s := NewStore()
	s.SetRemote(types.RemoteValue{Motion: true, Count: 7, Connected: true})
	s.MarkRemoteDown()
	got := s.Snapshot().Remote
	if got.Connected {
		t.Error("link still up")
	}
	if !got.Motion || got.Count != 7 {
		t.Errorf("payload lost on link drop: %+v", got)
	}
}

// Concurrent publishers to different slots interleaved with snapshots must
// never yield a half-written value. The hold hook widens the critical
// section so torn reads would actually surface.
func TestSnapshot_Atomicity(t *testing.T) {
	s := NewStore()
	s.holdForTest = func() { time.Sleep(50 * time.Microsecond) }

	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		var i uint32
		for {
			select {
			case <-stop:
				return
			default:
			}
			i++
			// Count and TsMs move in lockstep; a torn read breaks the pairing.
			s.SetMotion(types.MotionValue{Active: true, Count: i, TsMs: int64(i)})
		}
	}()
	go func() {
		defer wg.Done()
		var i int64
		for {
			select {
			case <-stop:
				return
			default:
			}
			i++
			s.SetDistance(types.DistanceValue{Cm: float32(i), Valid: true, TsMs: i})
		}
	}()

	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		snap := s.Snapshot()
		if int64(snap.Motion.Count) != snap.Motion.TsMs {
			t.Fatalf("torn motion value: %+v", snap.Motion)
		}
		if snap.Distance.Valid && int64(snap.Distance.Cm) != snap.Distance.TsMs {
			t.Fatalf("torn distance value: %+v", snap.Distance)
		}
	}
	close(stop)
	wg.Wait()
}
