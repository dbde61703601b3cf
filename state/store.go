// Package state holds the latest reading from every sensor behind one
// lock. Producers publish fully-formed values; consumers take a snapshot
// of all slots at a single instant. Decoding always happens before the
// lock is taken, so the critical section is only ever a field copy.
package state

import (
	"sync"

	"sentryhub-go/types"
)

// Kind identifies a snapshot slot.
type Kind string

const (
	KindMotion   Kind = "motion"
	KindDistance Kind = "distance"
	KindEnv      Kind = "env"
	KindRemote   Kind = "remote"
)

// Snapshot is a consistent copy of every slot: all values existed together
// at one instant, though each updates on its own cadence.
type Snapshot struct {
	Motion   types.MotionValue
	Distance types.DistanceValue
	Env      types.EnvValue
	Remote   types.RemoteValue
}

// Store is created once at startup and handed to every task; there is no
// package-level instance.
type Store struct {
	mu   sync.Mutex
	snap Snapshot

	// holdForTest, when set, runs while the lock is held. Tests use it to
	// widen the critical section and probe snapshot atomicity.
	holdForTest func()
}

func NewStore() *Store { return &Store{} }

func (s *Store) SetMotion(v types.MotionValue) {
	s.mu.Lock()
	s.snap.Motion = v
	s.hold()
	s.mu.Unlock()
}

func (s *Store) SetDistance(v types.DistanceValue) {
	s.mu.Lock()
	s.snap.Distance = v
	s.hold()
	s.mu.Unlock()
}

func (s *Store) SetEnv(v types.EnvValue) {
	s.mu.Lock()
	s.snap.Env = v
	s.hold()
	s.mu.Unlock()
}

func (s *Store) SetRemote(v types.RemoteValue) {
	s.mu.Lock()
	s.snap.Remote = v
	s.hold()
	s.mu.Unlock()
}

// MarkRemoteDown clears the link flag while preserving the last payload.
func (s *Store) MarkRemoteDown() {
	s.mu.Lock()
	s.snap.Remote.Connected = false
	s.hold()
	s.mu.Unlock()
}

// Snapshot copies every slot under the lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	snap := s.snap
	s.hold()
	s.mu.Unlock()
	return snap
}

func (s *Store) hold() {
	if s.holdForTest != nil {
		s.holdForTest()
	}
}
