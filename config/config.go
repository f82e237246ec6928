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

// Package config carries the ambient flags a registry is constructed with
// as a functional option set, in the shape of actor.Option/actor.OptionFunc.
package config

import "github.com/coreforge/extreg/log"

// Config holds the ambient flags a registry is constructed with.
type Config struct {
	NoRegistryCache    bool
	NoLazyCacheLoading bool
	CheckConfig        bool
	Debug              bool
	Logger             log.Logger
	CacheDir           string
}

// New returns a Config with the usual defaults applied before opts run:
// caching and lazy loading on, stamp checking off, discard logger.
func New(opts ...Option) *Config {
	cfg := &Config{
		Logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.Apply(cfg)
	}
	return cfg
}

// Option is the interface that applies a configuration option.
type Option interface {
	Apply(cfg *Config)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Config)

func (f OptionFunc) Apply(cfg *Config) { f(cfg) }

// WithNoRegistryCache disables the binary cache entirely: init never
// attempts to read it and stop never writes it.
func WithNoRegistryCache() Option {
	return OptionFunc(func(cfg *Config) { cfg.NoRegistryCache = true })
}

// WithNoLazyCacheLoading forces every cached record to fault in during
// init instead of on first access.
func WithNoLazyCacheLoading() Option {
	return OptionFunc(func(cfg *Config) { cfg.NoLazyCacheLoading = true })
}

// WithCheckConfig enables stamp computation and validation; without it the
// cache's on-disk stamp is accepted unconditionally.
func WithCheckConfig() Option {
	return OptionFunc(func(cfg *Config) { cfg.CheckConfig = true })
}

// WithDebug subscribes a printing listener for the registry's lifetime, in
// addition to whatever effect the caller wires up for CheckConfig/logging.
func WithDebug() Option {
	return OptionFunc(func(cfg *Config) { cfg.Debug = true })
}

// WithLogger sets the registry's logger.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(cfg *Config) { cfg.Logger = logger })
}

// WithCacheDir sets the runtime directory the cache's four files live
// under.
func WithCacheDir(dir string) Option {
	return OptionFunc(func(cfg *Config) { cfg.CacheDir = dir })
}
