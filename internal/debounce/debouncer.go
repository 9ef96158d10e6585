// Package debounce delays a rapidly changing value until it has been quiet
// for a fixed period.
package debounce

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Production code uses RealScheduler; tests
// drive time by hand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler is backed by time.AfterFunc
var RealScheduler Scheduler = realScheduler{}

// Debouncer emits only the latest pushed value, once quiet has elapsed
// with no newer push. After Stop nothing is ever emitted.
type Debouncer[T any] struct {
	quiet time.Duration
	sched Scheduler
	emit  func(T)

	mu      sync.Mutex
	pending Timer
	gen     uint64
	stopped bool
}

func New[T any](quiet time.Duration, sched Scheduler, emit func(T)) *Debouncer[T] {
	if sched == nil {
		sched = RealScheduler
	}
	return &Debouncer[T]{quiet: quiet, sched: sched, emit: emit}
}

// Push cancels any pending emission and schedules value.
func (d *Debouncer[T]) Push(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.pending != nil {
		d.pending.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = d.sched.AfterFunc(d.quiet, func() { d.fire(gen, value) })
}

// Flush cancels any pending emission and emits value immediately.
func (d *Debouncer[T]) Flush(value T) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.gen++
	d.mu.Unlock()

	d.emit(value)
}

// Pending reports whether an emission is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels the pending emission for good.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}

func (d *Debouncer[T]) fire(gen uint64, value T) {
	d.mu.Lock()
	// a timer that already fired can still race a newer Push or Stop
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.mu.Unlock()

	d.emit(value)
}
