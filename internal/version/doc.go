// Package version exposes build metadata of json-persistence.
//
// Version, Commit and BuildTime are injected with -ldflags "-X" at build time.
// Full is printed by the version subcommand; UserAgent tags gRPC clients.
package version
