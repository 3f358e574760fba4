// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger writing console or JSON lines to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level and format configuration and parsing utilities,
//   - context-aware logging functions (InfoKV, ErrorKV, ...),
//   - WithLevel for derived loggers with their own minimum level.
//
// The persistence service and the CLI accept a context and extract the
// logger from it, so every message carries the scope it was logged from.
package logger
