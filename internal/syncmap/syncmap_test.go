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

package syncmap

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Run("get on an empty map reports not found", func(t *testing.T) {
		m := New[string, int]()
		_, ok := m.Get("x")
		require.False(t, ok)
	})

	t.Run("set then get roundtrips", func(t *testing.T) {
		m := New[string, int]()
		m.Set("x", 1)
		v, ok := m.Get("x")
		require.True(t, ok)
		require.Equal(t, 1, v)
	})

	t.Run("delete removes an entry", func(t *testing.T) {
		m := New[string, int]()
		m.Set("x", 1)
		m.Delete("x")
		_, ok := m.Get("x")
		require.False(t, ok)
	})

	t.Run("len and range reflect current contents", func(t *testing.T) {
		m := New[string, int]()
		m.Set("a", 1)
		m.Set("b", 2)
		require.Equal(t, 2, m.Len())

		seen := map[string]int{}
		m.Range(func(k string, v int) { seen[k] = v })
		require.Equal(t, map[string]int{"a": 1, "b": 2}, seen)
	})

	t.Run("LoadOrCompute stores the computed value once", func(t *testing.T) {
		m := New[string, int]()
		calls := 0
		compute := func() (int, bool, error) {
			calls++
			return 42, true, nil
		}

		v, found, err := m.LoadOrCompute("x", compute)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, 42, v)

		v, found, err = m.LoadOrCompute("x", compute)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, 42, v)
		require.Equal(t, 1, calls, "compute must not run again once the key is resident")
	})

	t.Run("LoadOrCompute does not cache a not-found result", func(t *testing.T) {
		m := New[string, int]()
		_, found, err := m.LoadOrCompute("x", func() (int, bool, error) { return 0, false, nil })
		require.NoError(t, err)
		require.False(t, found)
		require.Equal(t, 0, m.Len())
	})

	t.Run("LoadOrCompute propagates a compute error without storing", func(t *testing.T) {
		m := New[string, int]()
		wantErr := errors.New("boom")
		_, found, err := m.LoadOrCompute("x", func() (int, bool, error) { return 0, false, wantErr })
		require.ErrorIs(t, err, wantErr)
		require.False(t, found)
		require.Equal(t, 0, m.Len())
	})

	t.Run("concurrent set and get do not race", func(t *testing.T) {
		m := New[int, int]()
		var wg sync.WaitGroup
		for i := 0; i < 64; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				m.Set(i, i)
			}(i)
			go func(i int) {
				defer wg.Done()
				m.Get(i)
			}(i)
		}
		wg.Wait()
	})

	t.Run("concurrent LoadOrCompute for the same key calls compute at most once", func(t *testing.T) {
		m := New[string, int]()
		var count int
		var countMu sync.Mutex

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, _ = m.LoadOrCompute("shared", func() (int, bool, error) {
					countMu.Lock()
					count++
					countMu.Unlock()
					return 1, true, nil
				})
			}()
		}
		wg.Wait()
		require.Equal(t, 1, count)
	})
}
