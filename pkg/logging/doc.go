// Package logging configures the process-wide slog logger used by headersd.
//
// Records are JSON on stderr and always carry the "module" and "version"
// attributes. Source location is attached only at debug level.
//
// The level comes from the LOG_LEVEL environment variable (debug, info,
// warn/warning, error; case-insensitive) and falls back to info:
//
//	logging.SetDefaultStructuredLogger("headersd", version)
//	slog.Info("binding resolved", "kind", "camera", "location", "/Camera/0")
//
// The CLI overrides the environment with --log-level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("headersd", version, "debug")
//
// A debug record looks like:
//
//	{"time":"2025-01-15T10:30:00.123Z","level":"DEBUG",
//	 "source":{"function":"metadata.(*Provider).GetMetadata","file":"provider.go","line":230},
//	 "msg":"getting instrument header","module":"headersd","version":"v0.1.0",
//	 "kind":"camera","profile":"headers"}
//
// NewLogLogger adapts slog for APIs that still take a *log.Logger, such as
// http.Server.ErrorLog.
package logging
