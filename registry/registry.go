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

// Package registry wires the object manager, cache, delta accumulator, and
// dispatcher into the public facade behind a concurrency envelope: a
// single reader/writer monitor guards the manager, and an independent
// mutex guards the listener list so (de)registration never blocks behind
// a query or a mutation.
package registry

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/coreforge/extreg/cache"
	"github.com/coreforge/extreg/config"
	"github.com/coreforge/extreg/contrib"
	"github.com/coreforge/extreg/delta"
	"github.com/coreforge/extreg/dispatch"
	xerrors "github.com/coreforge/extreg/errors"
	"github.com/coreforge/extreg/event"
	"github.com/coreforge/extreg/log"
	"github.com/coreforge/extreg/object"
)

// Registry is the public extension registry: the object manager, delta
// accumulator, cache, and dispatcher wired together behind the concurrency
// envelope.
type Registry struct {
	mu sync.RWMutex // the monitor guarding manager and acc

	manager     *object.Manager
	acc         *delta.Accumulator
	dispatcher  *dispatch.Dispatcher
	cfg         *config.Config
	cacheReader *cache.Reader
	logger      log.Logger

	listenerMu sync.Mutex // independent of mu
	listeners  map[ListenerHandle]dispatch.ListenerEntry
	nextHandle int64

	started    atomic.Bool
	lastStatus atomic.Error
}

// New constructs a registry. When the cache is enabled (the default) and a
// cache directory is configured, construction attempts init(expectedStamp)
// against it; an I/O or format failure, or a stamp mismatch, is swallowed
// and the registry starts empty — the caller is expected to re-populate it
// with Add.
func New(expectedStamp int64, opts ...config.Option) *Registry {
	cfg := config.New(opts...)

	m := object.NewManager()
	var reader *cache.Reader
	if !cfg.NoRegistryCache && cfg.CacheDir != "" {
		reader = cache.NewReader(cfg.CacheDir)
		if ok, err := cache.Load(m, reader, expectedStamp, cfg.CheckConfig, cfg.NoLazyCacheLoading); err != nil {
			cfg.Logger.Warnf("registry cache init failed, starting from an empty registry: %v", err)
			reader = nil
		} else if !ok {
			cfg.Logger.Debug("registry cache missing or stamp mismatch, starting empty")
			reader = nil
		}
	}

	r := &Registry{
		manager:     m,
		acc:         delta.NewAccumulator(),
		cfg:         cfg,
		cacheReader: reader,
		logger:      cfg.Logger,
		listeners:   make(map[ListenerHandle]dispatch.ListenerEntry),
	}
	r.dispatcher = dispatch.New(m, dispatch.WithLogger(cfg.Logger), dispatch.WithStatusHandler(r.onDispatchStatus))
	r.started.Store(true)

	if cfg.Debug {
		r.AddRegistryChangeListener(event.ListenerFunc(r.debugPrint), nil)
	}
	return r
}

func (r *Registry) onDispatchStatus(err error) {
	r.lastStatus.Store(err)
	if err != nil {
		r.logger.Warn(err)
	}
}

// LastDispatchStatus returns the aggregate ListenerFailure status from the
// most recently completed dispatch job, or nil if every listener in that
// job succeeded (or no job has completed yet).
func (r *Registry) LastDispatchStatus() error {
	return r.lastStatus.Load()
}

func (r *Registry) debugPrint(evt *event.RegistryChangeEvent) {
	for _, bundleID := range evt.BundleIDs() {
		d, ok := evt.DeltaFor(bundleID)
		if !ok {
			continue
		}
		r.logger.Debugf("registry change: bundle=%d extensions=%d removedPoints=%d", bundleID, len(d.Extensions), len(d.RemovedExtensionPoints))
	}
}

func (r *Registry) checkStarted() error {
	if !r.started.Load() {
		return xerrors.ErrNotStarted
	}
	return nil
}

// Add ingests one or more namespaces: each is inserted into the object
// manager and linked against the current extension graph under a single
// write-lock hold, then a dispatch job is scheduled with the resulting
// deltas. Add returning guarantees every subsequent query reflects the new
// state; it does not wait for listeners to run.
func (r *Registry) Add(namespaces ...contrib.Namespace) error {
	if err := r.checkStarted(); err != nil {
		return err
	}
	for _, ns := range namespaces {
		if err := r.addOne(ns); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) addOne(ns contrib.Namespace) error {
	listeners := r.listenerSnapshot()
	hasListeners := len(listeners) > 0

	r.mu.Lock()
	defer r.mu.Unlock()

	pointIDs, extensionIDs, err := r.manager.AddNamespace(ns)
	if err != nil {
		return err
	}
	r.manager.LinkNamespace(ns.BundleID, pointIDs, extensionIDs, r.acc, hasListeners)
	deltas := r.acc.Snapshot()
	r.dispatcher.Schedule(listeners, deltas, dispatch.CleanupSet{})
	return nil
}

// Remove unlinks everything bundleID contributed and removes the namespace
// record itself. Physical removal of the unlinked extensions and extension
// points is deferred to the dispatch job's cleanup phase, so handles
// resolved before that job runs stay valid for its duration.
//
// When no listener is registered but the unlink produced rows that still
// need physical removal, a throwaway no-op listener is scheduled alongside
// them. Dispatcher.Schedule keeps any job whose cleanup set is non-empty,
// and the cleanup phase runs after the listeners whether or not any are
// present.
func (r *Registry) Remove(bundleID int64) error {
	if err := r.checkStarted(); err != nil {
		return err
	}

	listeners := r.listenerSnapshot()
	hasListeners := len(listeners) > 0

	r.mu.Lock()
	defer r.mu.Unlock()

	removedExtensionIDs, removedExtensionPointUniqueIDs := r.manager.UnlinkNamespace(bundleID, r.acc, hasListeners)
	r.manager.RemoveNamespace(bundleID)
	deltas := r.acc.Snapshot()
	cleanup := dispatch.CleanupSet{
		ExtensionIDs:            removedExtensionIDs,
		ExtensionPointUniqueIDs: removedExtensionPointUniqueIDs,
	}

	if !hasListeners && !cleanup.Empty() {
		listeners = []dispatch.ListenerEntry{{Listener: event.ListenerFunc(noop)}}
	}
	r.dispatcher.Schedule(listeners, deltas, cleanup)
	return nil
}

func noop(*event.RegistryChangeEvent) {}

// Stop saves the cache (unless caching is disabled or nothing changed) and
// marks the registry stopped; every subsequent Add/Remove/query returns
// ErrNotStarted. Cache write failures are swallowed.
func (r *Registry) Stop() error {
	if !r.started.CompareAndSwap(true, false) {
		return xerrors.ErrNotStarted
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.cfg.NoRegistryCache && r.cfg.CacheDir != "" && r.manager.IsDirty() {
		w := cache.NewWriter(r.cfg.CacheDir)
		if err := w.SaveCache(r.manager, r.stamp()); err != nil {
			r.logger.Warnf("registry cache save failed: %v", err)
		} else {
			r.manager.ClearDirty()
		}
	}

	if r.cacheReader != nil {
		if err := r.cacheReader.Close(); err != nil {
			r.logger.Warnf("registry cache close failed: %v", err)
		}
	}
	return nil
}

// stamp folds each resident namespace's bundle id into a running XOR, the
// same construction the cache reader validates against on the next init.
// The full stamp is an XOR-fold of (lastModified(manifest) + bundleId); the
// caller side of that fold (manifest modification times) lives outside the
// core, in whatever loads contrib.Namespace values, so here only the
// bundle-id half is available — enough to invalidate the cache whenever
// the resident bundle set changes shape between runs.
func (r *Registry) stamp() int64 {
	var stamp int64
	for _, bundleID := range r.manager.Namespaces() {
		stamp ^= bundleID
	}
	return stamp
}
