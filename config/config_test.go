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

package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreforge/extreg/log"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := New()
		require.False(t, cfg.NoRegistryCache)
		require.False(t, cfg.NoLazyCacheLoading)
		require.False(t, cfg.CheckConfig)
		require.False(t, cfg.Debug)
		require.Empty(t, cfg.CacheDir)
		require.Equal(t, log.DiscardLogger, cfg.Logger)
	})

	t.Run("options apply in order", func(t *testing.T) {
		cfg := New(
			WithNoRegistryCache(),
			WithNoLazyCacheLoading(),
			WithCheckConfig(),
			WithDebug(),
			WithCacheDir("/var/lib/extreg"),
			WithLogger(log.DefaultLogger),
		)
		require.True(t, cfg.NoRegistryCache)
		require.True(t, cfg.NoLazyCacheLoading)
		require.True(t, cfg.CheckConfig)
		require.True(t, cfg.Debug)
		require.Equal(t, "/var/lib/extreg", cfg.CacheDir)
		require.Equal(t, log.DefaultLogger, cfg.Logger)
	})
}
