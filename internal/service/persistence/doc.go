// Package persistence implements the host-facing JSON persistence service.
//
// The Service wraps a flat-file repository with the lifecycle the host
// expects (activate, deactivate), best-effort store semantics where write
// failures are logged and counted rather than interrupting the caller, and
// queries that surface decode failures.
package persistence
