package fetch

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrTimedOut marks a terminal timeout reported by the remote service.
// Pollers map it to StatusTimedOut instead of StatusFailed.
var ErrTimedOut = errors.New("query timed out")

const (
	defaultInterval    = 250 * time.Millisecond
	defaultMaxInterval = 2 * time.Second
	defaultDeadline    = 2 * time.Minute
)

// PollFunc performs one poll round. It returns the value accumulated so far
// (possibly partial), whether the fetch is complete, and any error. Errors
// are terminal for the run: the remote service already retries internally and
// the user can restart explicitly.
type PollFunc[T any] func(ctx context.Context) (T, bool, error)

// SubmitFunc starts the remote operation and returns the PollFunc bound to
// its handle. A submit failure fails the run without any polling.
type SubmitFunc[T any] func(ctx context.Context) (PollFunc[T], error)

// Options tune a Poller. Zero values fall back to defaults.
type Options struct {
	// Interval is the base delay between poll rounds.
	Interval time.Duration
	// MaxInterval caps the backoff that doubles the delay each round.
	MaxInterval time.Duration
	// Deadline bounds the whole run; exceeding it is a timeout.
	Deadline time.Duration
	// Log receives poll failure diagnostics. Optional.
	Log logrus.FieldLogger
}

// Poller drives a submit-then-poll protocol to completion, publishing every
// observed state into its Store.
//
// The protocol per run: publish Submitted, call submit, then loop: sleep,
// poll once, publish partial values as Running, and stop on the first
// terminal outcome (Loaded, Failed or TimedOut). Polls are strictly
// sequential; there is never more than one in flight per run.
//
// Done is closed after the terminal snapshot is published, so a reader woken
// by Done observing the store is guaranteed to see the terminal state (or
// nothing stale). A run abandoned by context cancellation closes Done without
// publishing a terminal state; the owner has already replaced the store by
// then, making the stale write a no-op by construction.
type Poller[T any] struct {
	store       *Store[T]
	interval    time.Duration
	maxInterval time.Duration
	deadline    time.Duration
	log         logrus.FieldLogger
	done        chan struct{}
}

// NewPoller builds a Poller publishing into store.
func NewPoller[T any](store *Store[T], opts Options) *Poller[T] {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	maxInterval := opts.MaxInterval
	if maxInterval <= 0 {
		maxInterval = defaultMaxInterval
	}
	if maxInterval < interval {
		maxInterval = interval
	}
	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = defaultDeadline
	}
	var log logrus.FieldLogger = opts.Log
	if log == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		log = logger
	}
	return &Poller[T]{
		store:       store,
		interval:    interval,
		maxInterval: maxInterval,
		deadline:    deadline,
		log:         log,
		done:        make(chan struct{}),
	}
}

// Done is closed exactly once, when the run reaches a terminal state or is
// abandoned. The store write always happens before the close.
func (p *Poller[T]) Done() <-chan struct{} {
	return p.done
}

// Run executes one fetch run to completion. It blocks; callers start it with
// go p.Run(...). The context bounds the whole run in addition to the
// configured deadline.
func (p *Poller[T]) Run(ctx context.Context, submit SubmitFunc[T]) {
	defer close(p.done)

	ctx, cancel := context.WithTimeout(ctx, p.deadline)
	defer cancel()

	var zero T
	p.store.Publish(StatusSubmitted, zero, nil)

	poll, err := submit(ctx)
	if err != nil {
		p.finish(err)
		return
	}

	wait := p.interval
	for {
		select {
		case <-ctx.Done():
			p.finish(ctx.Err())
			return
		case <-time.After(wait):
		}

		value, complete, err := poll(ctx)
		if err != nil {
			p.finish(err)
			return
		}
		if complete {
			p.store.Publish(StatusLoaded, value, nil)
			return
		}
		p.store.Publish(StatusRunning, value, nil)

		if wait *= 2; wait > p.maxInterval {
			wait = p.maxInterval
		}
	}
}

// finish maps a run-ending error onto a terminal status. A cancelled run
// publishes nothing: its store is already stale and about to be discarded.
func (p *Poller[T]) finish(err error) {
	var zero T
	switch {
	case errors.Is(err, context.Canceled):
		return
	case errors.Is(err, ErrTimedOut), errors.Is(err, context.DeadlineExceeded):
		p.log.WithError(err).Warn("fetch timed out")
		p.store.Publish(StatusTimedOut, zero, err)
	default:
		p.log.WithError(err).Warn("fetch failed")
		p.store.Publish(StatusFailed, zero, err)
	}
}
