package errs

// Logger is the minimal diagnostic seam the decode/rebuild paths use for
// the warnings spec.md §7 calls for (dangling landmark reference, missing
// owning keyframe, a framing error ending a delimited features stream) — short-lived
// warnings, not a logging service with levels or sinks to configure.
type Logger interface {
	Warnf(format string, args ...any)
}

// NopLogger discards every message. The zero value is ready to use and is
// the default when a caller wires no Logger.
type NopLogger struct{}

// Warnf implements Logger.
func (NopLogger) Warnf(string, ...any) {}
