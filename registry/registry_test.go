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
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coreforge/extreg/config"
	xerrors "github.com/coreforge/extreg/errors"
	"github.com/coreforge/extreg/event"
	"github.com/coreforge/extreg/internal/testsupport"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.Fail(t, "condition never became true")
}

// TestAddMakesStateVisibleImmediately confirms a query issued right after
// Add returns reflects the new state without waiting for any dispatch job
// to run.
func TestAddMakesStateVisibleImmediately(t *testing.T) {
	r := New(0, config.WithNoRegistryCache())
	defer r.Stop()

	require.NoError(t, r.Add(testsupport.PointAndExtension(1, "com.example.point")))

	point, err := r.GetExtensionPoint("com.example.point")
	require.NoError(t, err)
	uid, err := point.UniqueID()
	require.NoError(t, err)
	require.Equal(t, "com.example.point", uid)
}

// TestOrphanResolvesOnceItsPointArrives confirms an extension that arrives
// before its extension point parks as an orphan and resolves once the
// point is added.
func TestOrphanResolvesOnceItsPointArrives(t *testing.T) {
	r := New(0, config.WithNoRegistryCache())
	defer r.Stop()

	require.NoError(t, r.Add(testsupport.ExtensionFor(1, "com.example.point")))
	_, err := r.GetExtensionPoint("com.example.point")
	require.Error(t, err)

	require.NoError(t, r.Add(testsupport.Point(2, "com.example.point")))
	point, err := r.GetExtensionPoint("com.example.point")
	require.NoError(t, err)
	children, err := point.Extensions()
	require.NoError(t, err)
	require.Len(t, children, 1)
}

// TestRemoveExtensionPointWithLiveExtensions confirms that removing the
// namespace that owns an extension point parks its extensions back as
// orphans rather than destroying them, and the extension point itself
// becomes unresolvable.
func TestRemoveExtensionPointWithLiveExtensions(t *testing.T) {
	r := New(0, config.WithNoRegistryCache())
	defer r.Stop()

	require.NoError(t, r.Add(testsupport.Point(1, "com.example.point")))
	require.NoError(t, r.Add(testsupport.ExtensionFor(2, "com.example.point")))

	exts, err := r.GetExtensionsFor(2)
	require.NoError(t, err)
	require.Len(t, exts, 1)
	extPointID, err := exts[0].ExtensionPointID()
	require.NoError(t, err)
	require.Equal(t, "com.example.point", extPointID)

	require.NoError(t, r.Remove(1))

	waitFor(t, func() bool {
		_, err := r.GetExtensionPoint("com.example.point")
		return err != nil
	})

	exts, err = r.GetExtensionsFor(2)
	require.NoError(t, err)
	require.Len(t, exts, 1)
}

// TestConfigurationElementTreeRemovalLeavesHandlesStale confirms that
// removing an extension's owning namespace disposes its
// configuration-element tree, and a handle captured before the removal
// reports ErrStaleHandle once the deferred cleanup phase has run.
func TestConfigurationElementTreeRemovalLeavesHandlesStale(t *testing.T) {
	r := New(0, config.WithNoRegistryCache())
	defer r.Stop()

	ns := testsupport.PointAndExtension(1, "com.example.point",
		testsupport.Element("child"))
	require.NoError(t, r.Add(ns))

	exts, err := r.GetExtensionsFor(1)
	require.NoError(t, err)
	require.Len(t, exts, 1)
	children, err := exts[0].ConfigurationElements()
	require.NoError(t, err)
	require.Len(t, children, 1)
	extID := exts[0].ID()

	require.NoError(t, r.Remove(1))

	waitFor(t, func() bool {
		_, err := r.GetConfigurationElementsFor(extID)
		return err != nil
	})
}

// TestListenerFilterIsolation confirms a filtered listener only observes
// events carrying a delta for its own bundle.
func TestListenerFilterIsolation(t *testing.T) {
	r := New(0, config.WithNoRegistryCache())
	defer r.Stop()

	var mu sync.Mutex
	var seenByAll []int64
	var seenByFiltered []int64

	r.AddRegistryChangeListener(event.ListenerFunc(func(e *event.RegistryChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		seenByAll = append(seenByAll, e.BundleIDs()...)
	}), nil)
	r.AddRegistryChangeListener(event.ListenerFunc(func(e *event.RegistryChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		seenByFiltered = append(seenByFiltered, e.BundleIDs()...)
	}), event.ForBundle(1))

	require.NoError(t, r.Add(testsupport.PointAndExtension(2, "com.example.other")))
	require.NoError(t, r.Add(testsupport.PointAndExtension(1, "com.example.point")))

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seenByAll) == 2 && len(seenByFiltered) == 1
	})

	mu.Lock()
	defer mu.Unlock()
	require.ElementsMatch(t, []int64{1, 2}, seenByAll)
	require.Equal(t, []int64{1}, seenByFiltered)
}

// TestRemoveWithoutListenersStillCleansUp exercises the dummy-listener
// device: removing a namespace with no registered listener must still
// physically delete the unlinked extension points and extensions.
func TestRemoveWithoutListenersStillCleansUp(t *testing.T) {
	r := New(0, config.WithNoRegistryCache())
	defer r.Stop()

	require.NoError(t, r.Add(testsupport.PointAndExtension(1, "com.example.point")))
	point, err := r.GetExtensionPoint("com.example.point")
	require.NoError(t, err)
	pointID := point.ID()
	pointKind := point.Kind()

	require.NoError(t, r.Remove(1))

	waitFor(t, func() bool {
		_, err := r.manager.GetObject(pointID, pointKind)
		return err != nil
	})

	_, err = r.GetExtensionPoint("com.example.point")
	require.ErrorIs(t, err, xerrors.ErrStaleHandle)
}

// TestStopIsIdempotentAndRejectsFurtherUse covers Stop's contract: a second
// Stop call fails, and every facade method after Stop returns ErrNotStarted.
func TestStopIsIdempotentAndRejectsFurtherUse(t *testing.T) {
	r := New(0, config.WithNoRegistryCache())
	require.NoError(t, r.Add(testsupport.Point(1, "com.example.point")))

	require.NoError(t, r.Stop())
	require.ErrorIs(t, r.Stop(), xerrors.ErrNotStarted)

	_, err := r.GetExtensionPoint("com.example.point")
	require.ErrorIs(t, err, xerrors.ErrNotStarted)
	require.ErrorIs(t, r.Add(testsupport.Point(2, "com.example.other")), xerrors.ErrNotStarted)
	require.ErrorIs(t, r.Remove(1), xerrors.ErrNotStarted)
}

// TestCacheRoundTripAcrossRestart confirms a registry stopped with caching
// enabled persists its state, and a fresh registry constructed against the
// same stamp and directory resumes without re-ingesting manifests. A
// mismatched stamp instead starts empty.
func TestCacheRoundTripAcrossRestart(t *testing.T) {
	dir := t.TempDir()

	r1 := New(0, config.WithCacheDir(dir))
	require.NoError(t, r1.Add(testsupport.PointAndExtension(1, "com.example.point")))
	stamp := r1.stamp()
	require.NoError(t, r1.Stop())

	r2 := New(stamp, config.WithCacheDir(dir), config.WithCheckConfig())
	defer r2.Stop()
	point, err := r2.GetExtensionPoint("com.example.point")
	require.NoError(t, err)
	uid, err := point.UniqueID()
	require.NoError(t, err)
	require.Equal(t, "com.example.point", uid)

	r3 := New(stamp+1, config.WithCacheDir(dir), config.WithCheckConfig())
	defer r3.Stop()
	_, err = r3.GetExtensionPoint("com.example.point")
	require.Error(t, err)
}

// TestDispatchOrdering confirms dispatch jobs from successive Add calls
// are delivered to listeners in submission order.
func TestDispatchOrdering(t *testing.T) {
	r := New(0, config.WithNoRegistryCache())
	defer r.Stop()

	var mu sync.Mutex
	var order []int64

	r.AddRegistryChangeListener(event.ListenerFunc(func(e *event.RegistryChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, e.BundleIDs()...)
	}), nil)

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, r.Add(testsupport.PointAndExtension(i, fmt.Sprintf("com.example.point%d", i))))
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 5
	})
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int64{1, 2, 3, 4, 5}, order)
}

// TestDebugOptionWiresAPrintingListener covers config.WithDebug: it must
// not error and must not interfere with ordinary dispatch to other
// listeners.
func TestDebugOptionWiresAPrintingListener(t *testing.T) {
	r := New(0, config.WithNoRegistryCache(), config.WithDebug())
	defer r.Stop()

	done := make(chan struct{}, 1)
	r.AddRegistryChangeListener(event.ListenerFunc(func(*event.RegistryChangeEvent) {
		done <- struct{}{}
	}), nil)

	require.NoError(t, r.Add(testsupport.PointAndExtension(1, "com.example.point")))
	<-done
}

// TestRemoveListenerStopsFutureDelivery covers removal through a
// ListenerHandle: once removed, a listener receives nothing further, even
// though it is not compared by value.
func TestRemoveListenerStopsFutureDelivery(t *testing.T) {
	r := New(0, config.WithNoRegistryCache())
	defer r.Stop()

	var mu sync.Mutex
	count := 0
	h := r.AddRegistryChangeListener(event.ListenerFunc(func(*event.RegistryChangeEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	}), nil)

	require.NoError(t, r.Add(testsupport.PointAndExtension(1, "com.example.a")))
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	})

	r.RemoveRegistryChangeListener(h)
	require.NoError(t, r.Add(testsupport.PointAndExtension(2, "com.example.b")))

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, count)
}

// TestDottedIDConvenienceLookups covers the string-keyed facade overloads
// that mirror the Eclipse original's getExtension/getConfigurationElementsFor
// variants: same result reached through the fully dotted id, the
// point-id-plus-simple-id form, and the fully decomposed
// namespace/point/extension form.
func TestDottedIDConvenienceLookups(t *testing.T) {
	r := New(0, config.WithNoRegistryCache())
	defer r.Stop()

	ns := testsupport.PointAndExtension(1, "com.example.point", testsupport.Element("child", "k", "v"))
	require.NoError(t, r.Add(ns))

	byFullID, err := r.GetExtensionByFullID("com.example.point.namespace.ext")
	require.NoError(t, err)
	simpleID, err := byFullID.SimpleID()
	require.NoError(t, err)
	require.Equal(t, "ext", simpleID)

	byPointID, err := r.GetExtensionByPointID("com.example.point", "ext")
	require.NoError(t, err)
	require.True(t, byFullID.Equals(byPointID.Handle))

	byName, err := r.GetExtensionByName("com.example", "point", "ext")
	require.NoError(t, err)
	require.True(t, byFullID.Equals(byName.Handle))

	_, err = r.GetExtensionByFullID("no.such.extension")
	require.Error(t, err)

	elemsByPoint, err := r.GetConfigurationElementsForPoint("com.example.point")
	require.NoError(t, err)
	require.Len(t, elemsByPoint, 1)

	elemsByName, err := r.GetConfigurationElementsForPointByName("com.example", "point")
	require.NoError(t, err)
	require.Len(t, elemsByName, 1)

	elemsForExt, err := r.GetConfigurationElementsForExtension("com.example", "point", "ext")
	require.NoError(t, err)
	require.Len(t, elemsForExt, 1)
	name, err := elemsForExt[0].Name()
	require.NoError(t, err)
	require.Equal(t, "child", name)
}
