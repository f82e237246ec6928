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

// Package log carries the registry facade and dispatcher's shared
// logging surface: one narrow interface with a zap-backed implementation and
// a no-op sentinel, so every component logs through the same abstraction
// regardless of which one a caller wires in via config.WithLogger.
package log

import (
	"io"
	golog "log"
)

// Logger is the logging surface every registry component depends on.
// Nothing outside this package constructs a Zap or discardLogger directly —
// callers get one from NewZap, DefaultLogger, DebugLogger, or DiscardLogger.
type Logger interface {
	Debug(v ...any)
	Debugf(format string, v ...any)
	Info(v ...any)
	Infof(format string, v ...any)
	Warn(v ...any)
	Warnf(format string, v ...any)
	Error(v ...any)
	Errorf(format string, v ...any)

	// Fatal logs then terminates the process via os.Exit(1).
	Fatal(v ...any)
	Fatalf(format string, v ...any)

	// Panic logs then panics, unwinding the calling goroutine.
	Panic(v ...any)
	Panicf(format string, v ...any)

	// LogLevel reports the minimum level this logger emits.
	LogLevel() Level
	// LogOutput reports the writers this logger was constructed with.
	LogOutput() []io.Writer
	// StdLogger adapts this logger to the standard library's *log.Logger,
	// for handing to third-party code that only accepts that type.
	StdLogger() *golog.Logger
}
