// Package fetch implements the asynchronous retrieval engine shared by the
// group listing and the log viewer.
//
// # Architecture
//
// Each fetch run pairs a Store with a Poller:
//
//	Producer (Poller goroutine):        Consumer (render loop):
//	┌─────────────────────┐            ┌──────────────────────┐
//	│ submit()            │            │                      │
//	│   ↓                 │            │ <-poller.Done()      │
//	│ sleep, poll()       │            │   ↓                  │
//	│   ↓                 │  (mutex)   │ store.Snapshot()     │
//	│ store.Publish() ────┼───────────→│   ↓                  │
//	│   ↓                 │            │ render               │
//	│ repeat until done   │            │                      │
//	└─────────────────────┘            └──────────────────────┘
//
// # Lifecycle
//
// A run walks Submitted → Running (repeatedly, with partial values) → one of
// Loaded, Failed or TimedOut. Terminal states are sinks; restarting means
// creating a fresh Store and Poller, never rewinding an old one. The owning
// controller cancels the run's context on deselect and drops its reference;
// the abandoned goroutine either observes cancellation and exits silently or
// writes once more into a store nothing reads anymore.
//
// # Ordering guarantees
//
// Polls within a run are strictly sequential. The terminal Publish happens
// before Done is closed, so a consumer woken by Done always observes the
// terminal snapshot.
package fetch
