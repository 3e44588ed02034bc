package fetch

import (
	"sync"
	"time"
)

// Status is the lifecycle state of one fetch run.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitted
	StatusRunning
	StatusLoaded
	StatusFailed
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusSubmitted:
		return "Submitted"
	case StatusRunning:
		return "Running"
	case StatusLoaded:
		return "Loaded"
	case StatusFailed:
		return "Failed"
	case StatusTimedOut:
		return "TimedOut"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the run has finished.
func (s Status) Terminal() bool {
	return s == StatusLoaded || s == StatusFailed || s == StatusTimedOut
}

// Loading reports whether a run is in flight.
func (s Status) Loading() bool {
	return s == StatusSubmitted || s == StatusRunning
}

// Snapshot is the latest published state of a fetch run.
type Snapshot[T any] struct {
	Status      Status
	Value       T
	Err         error
	LastUpdated time.Time
}

// Store coordinates concurrent access to a fetch run's result.
//
// A single background poller writes; the render loop reads. Published values
// are swapped wholesale and treated as immutable afterward — the poller never
// mutates a value it has already published, so readers may keep the snapshot
// without copying. The lock is only held for the duration of one update or
// one read, never across a network call or a sleep.
type Store[T any] struct {
	mu   sync.RWMutex
	snap Snapshot[T]
}

// Publish replaces the stored snapshot. When err is non-nil the previous
// value is kept but the status and error are recorded for visibility.
func (s *Store[T]) Publish(status Status, value T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Status = status
	s.snap.LastUpdated = time.Now()
	if err != nil {
		s.snap.Err = err
		return
	}
	s.snap.Value = value
	s.snap.Err = nil
}

// Snapshot returns the current snapshot.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
