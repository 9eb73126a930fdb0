// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"fmt"
	"log/slog"
)

// Logger is the minimal diagnostic logging surface accepted by the
// allocator, source, and sink constructors. Source and sink close-time
// I/O errors log at Warn; buffers the allocator drops on Release (over the
// pooled-size cap or with the pool full) and each source refill log at
// Debug. Nothing else is logged.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Warnf(string, ...interface{})  {}

// SlogLogger adapts a *slog.Logger to the Logger interface, matching the
// structured-logging convention the rest of this corpus uses.
type SlogLogger struct {
	L *slog.Logger
}

func (s SlogLogger) Debugf(format string, args ...interface{}) {
	s.L.Debug(fmt.Sprintf(format, args...))
}

func (s SlogLogger) Warnf(format string, args ...interface{}) {
	s.L.Warn(fmt.Sprintf(format, args...))
}
