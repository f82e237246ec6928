// MIT License
//
// Copyright (c) 2026 extreg contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package dispatch implements the event dispatcher: a serialized,
// single-worker broadcast queue enforcing an "at most one dispatch job
// runs or is pending" discipline, and the deferred physical-cleanup phase
// that follows every broadcast.
//
// The worker loop is grounded on the idle/busy CAS discipline actor.PID
// uses to guarantee one in-flight processing goroutine per actor; the
// listener snapshot-then-broadcast shape is grounded on eventstream's
// publish-to-topic path.
package dispatch

import (
	"fmt"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/coreforge/extreg/delta"
	xerrors "github.com/coreforge/extreg/errors"
	"github.com/coreforge/extreg/event"
	"github.com/coreforge/extreg/handle"
	"github.com/coreforge/extreg/internal/queue"
	"github.com/coreforge/extreg/log"
)

const (
	idle int32 = iota
	busy
)

// ListenerEntry pairs a registered listener with the filter (possibly nil)
// it was registered under; it is the unit captured into a dispatch job's
// listener snapshot.
type ListenerEntry struct {
	Listener event.Listener
	Filter   *event.Filter
}

// CleanupSet names the rows a dispatch job must physically remove once
// every listener has observed the outgoing deltas. ExtensionIDs are
// removed with disposeDeep=false so Remover expands each extension's
// configuration-element subtree; ExtensionPointUniqueIDs are removed after,
// by unique identifier.
type CleanupSet struct {
	ExtensionIDs            []handle.ID
	ExtensionPointUniqueIDs []string
}

func (c CleanupSet) empty() bool {
	return len(c.ExtensionIDs) == 0 && len(c.ExtensionPointUniqueIDs) == 0
}

// Empty reports whether cs names nothing to remove, for callers deciding
// whether a dummy listener is needed to force scheduling anyway.
func (c CleanupSet) Empty() bool { return c.empty() }

// Remover is the slice of the object manager's mutation interface the
// cleanup phase needs. Implemented by *object.Manager.
type Remover interface {
	Remove(id handle.ID, kind handle.Kind, disposeDeep bool)
	RemoveExtensionPoint(uniqueID string)
}

type job struct {
	listeners []ListenerEntry
	deltas    map[int64]*delta.RegistryDelta
	cleanup   CleanupSet
}

// Option configures a Dispatcher at construction time.
type Option interface {
	apply(*Dispatcher)
}

// OptionFunc implements Option.
type OptionFunc func(*Dispatcher)

func (f OptionFunc) apply(d *Dispatcher) { f(d) }

// WithLogger sets the logger the dispatcher reports listener failures to.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(d *Dispatcher) { d.logger = logger })
}

// WithStatusHandler registers a callback invoked once per completed
// dispatch job with the aggregate ListenerFailure status (nil when every
// listener succeeded). This is the core's only externally observable
// signal about a job's outcome.
func WithStatusHandler(fn func(error)) Option {
	return OptionFunc(func(d *Dispatcher) { d.statusFn = fn })
}

// Dispatcher serializes broadcast jobs behind a single mutual-exclusion
// identity (the processing flag) and a FIFO queue, so that two dispatch
// jobs never execute concurrently and submission order is preserved,
// without the caller ever blocking on completion.
type Dispatcher struct {
	queue      *queue.MpscQueue[*job]
	processing atomic.Int32
	remover    Remover
	logger     log.Logger
	statusFn   func(error)
}

// New returns a Dispatcher whose cleanup phase mutates remover.
func New(remover Remover, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue:   queue.NewMpscQueue[*job](),
		remover: remover,
		logger:  log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.apply(d)
	}
	return d
}

// Schedule enqueues a dispatch job built from a listener snapshot, a delta
// snapshot, and the rows due for physical removal once delivery completes.
// It returns immediately; the mutator holding the write lock never awaits
// the job's completion. A job with no listeners, no deltas, and nothing to
// clean up is not worth a queue slot and is dropped.
func (d *Dispatcher) Schedule(listeners []ListenerEntry, deltas map[int64]*delta.RegistryDelta, cleanup CleanupSet) {
	if len(listeners) == 0 && len(deltas) == 0 && cleanup.empty() {
		return
	}
	d.queue.Push(&job{listeners: listeners, deltas: deltas, cleanup: cleanup})
	d.process()
}

// process starts the single worker loop when transitioning idle -> busy; if
// a loop is already running it exits immediately, relying on that loop to
// drain the queue entry just pushed (mirrors actor.PID.process).
func (d *Dispatcher) process() {
	if !d.processing.CompareAndSwap(idle, busy) {
		return
	}
	go func() {
		for {
			j, ok := d.queue.Pop()
			if !ok {
				d.processing.Store(idle)
				if !d.queue.IsEmpty() && d.processing.CompareAndSwap(idle, busy) {
					continue
				}
				return
			}
			d.run(j)
		}
	}()
}

// run delivers j to every listener in its snapshot, then performs the
// deferred physical-cleanup phase. Listener panics are recovered and
// aggregated rather than allowed to abort delivery or cleanup.
func (d *Dispatcher) run(j *job) {
	var status error
	for i, entry := range j.listeners {
		if !event.HasBundle(j.deltas, entry.Filter) {
			continue
		}
		if err := d.deliverOne(entry, j.deltas); err != nil {
			failure := xerrors.NewListenerFailure(i, err)
			status = multierr.Append(status, failure)
			d.logger.Warn(failure)
		}
	}

	d.cleanup(j.cleanup)

	if d.statusFn != nil {
		d.statusFn(status)
	}
}

func (d *Dispatcher) deliverOne(entry ListenerEntry, deltas map[int64]*delta.RegistryDelta) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()
	entry.Listener.RegistryChanged(event.New(deltas, entry.Filter))
	return nil
}

// cleanup removes every extension named in cs (with its configuration-
// element subtree) and then every extension point named by unique
// identifier, completing the deferred removal phase so that by the time
// this method returns, every id in a removed delta of this job is
// unresolvable.
func (d *Dispatcher) cleanup(cs CleanupSet) {
	for _, id := range cs.ExtensionIDs {
		d.remover.Remove(id, handle.KindExtension, false)
	}
	for _, uniqueID := range cs.ExtensionPointUniqueIDs {
		d.remover.RemoveExtensionPoint(uniqueID)
	}
}
