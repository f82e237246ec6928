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

// Package event defines the registry change notification surface: the
// event object delivered to listeners, the listener contract, and the
// namespace filter a listener may register with.
package event

import "github.com/coreforge/extreg/delta"

// Filter restricts delivery of a RegistryChangeEvent to deltas affecting a
// single bundle. A nil *Filter registered alongside a listener means
// "deliver every mutation".
type Filter struct {
	BundleID int64
}

// ForBundle returns a Filter that matches only bundleID.
func ForBundle(bundleID int64) *Filter {
	return &Filter{BundleID: bundleID}
}

func (f *Filter) matches(bundleID int64) bool {
	return f == nil || f.BundleID == bundleID
}

// RegistryChangeEvent wraps the per-bundle delta snapshot captured at
// dispatch-scheduling time, together with the filter of the listener it is
// being delivered to. Accessors yield only the deltas matching that filter.
type RegistryChangeEvent struct {
	deltas map[int64]*delta.RegistryDelta
	filter *Filter
}

func newEvent(deltas map[int64]*delta.RegistryDelta, filter *Filter) *RegistryChangeEvent {
	return &RegistryChangeEvent{deltas: deltas, filter: filter}
}

// BundleIDs returns the bundle ids carrying a delta in this event, after
// filtering.
func (e *RegistryChangeEvent) BundleIDs() []int64 {
	out := make([]int64, 0, len(e.deltas))
	for bundleID := range e.deltas {
		if e.filter.matches(bundleID) {
			out = append(out, bundleID)
		}
	}
	return out
}

// DeltaFor returns the RegistryDelta recorded for bundleID in this event,
// honoring the listener's filter: a bundle id excluded by the filter is
// reported as absent even if a delta was recorded for it.
func (e *RegistryChangeEvent) DeltaFor(bundleID int64) (*delta.RegistryDelta, bool) {
	if !e.filter.matches(bundleID) {
		return nil, false
	}
	d, ok := e.deltas[bundleID]
	return d, ok
}

// Deltas returns every delta in this event that survives the listener's
// filter, keyed by bundle id. The caller must not mutate the returned map.
func (e *RegistryChangeEvent) Deltas() map[int64]*delta.RegistryDelta {
	if e.filter == nil {
		return e.deltas
	}
	out := make(map[int64]*delta.RegistryDelta, 1)
	if d, ok := e.deltas[e.filter.BundleID]; ok {
		out[e.filter.BundleID] = d
	}
	return out
}

// Listener receives a RegistryChangeEvent once per dispatch job, provided
// its filter (if any) matches at least one delta in that job's snapshot.
type Listener interface {
	RegistryChanged(event *RegistryChangeEvent)
}

// ListenerFunc adapts a plain function to Listener, mirroring how
// OptionFunc adapts a function to Option elsewhere in this module.
type ListenerFunc func(event *RegistryChangeEvent)

// RegistryChanged implements Listener.
func (f ListenerFunc) RegistryChanged(event *RegistryChangeEvent) { f(event) }

var _ Listener = ListenerFunc(nil)

// New builds a RegistryChangeEvent over deltas for delivery to a listener
// registered with filter. Exported so package dispatch can
// construct one per listener without reaching into unexported fields.
func New(deltas map[int64]*delta.RegistryDelta, filter *Filter) *RegistryChangeEvent {
	return newEvent(deltas, filter)
}

// HasBundle reports whether an event constructed from deltas would deliver
// anything to a listener registered with filter. Used by the dispatcher to
// decide whether a no-filter listener with an empty event snapshot is worth
// invoking versus a filtered listener whose bundle never changed.
func HasBundle(deltas map[int64]*delta.RegistryDelta, filter *Filter) bool {
	if filter == nil {
		return len(deltas) > 0
	}
	_, ok := deltas[filter.BundleID]
	return ok
}
