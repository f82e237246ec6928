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

package registry

import (
	"github.com/coreforge/extreg/dispatch"
	"github.com/coreforge/extreg/event"
)

// ListenerHandle identifies a registration made through
// AddRegistryChangeListener, for later removal through
// RemoveRegistryChangeListener. A token is used rather than comparing
// listener values directly, since most listeners arrive wrapped in
// event.ListenerFunc closures, which are not comparable.
type ListenerHandle int64

// AddRegistryChangeListener registers listener for future dispatch jobs.
// When filter is non-nil, the listener only receives events carrying a
// delta for filter's bundle id; a nil filter receives every mutation.
func (r *Registry) AddRegistryChangeListener(listener event.Listener, filter *event.Filter) ListenerHandle {
	r.listenerMu.Lock()
	defer r.listenerMu.Unlock()
	r.nextHandle++
	h := ListenerHandle(r.nextHandle)
	r.listeners[h] = dispatch.ListenerEntry{Listener: listener, Filter: filter}
	return h
}

// RemoveRegistryChangeListener deregisters a listener previously added
// through AddRegistryChangeListener. It has no effect on a dispatch job
// already scheduled: that job's listener snapshot was captured at
// scheduling time, independent of subsequent (de)registrations.
func (r *Registry) RemoveRegistryChangeListener(h ListenerHandle) {
	r.listenerMu.Lock()
	defer r.listenerMu.Unlock()
	delete(r.listeners, h)
}

// listenerSnapshot copies the current listener set under listenerMu,
// independent of the mu monitor held by Add/Remove while they build the
// dispatch job the snapshot feeds.
func (r *Registry) listenerSnapshot() []dispatch.ListenerEntry {
	r.listenerMu.Lock()
	defer r.listenerMu.Unlock()
	out := make([]dispatch.ListenerEntry, 0, len(r.listeners))
	for _, entry := range r.listeners {
		out = append(out, entry)
	}
	return out
}
