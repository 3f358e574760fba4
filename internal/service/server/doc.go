// Package server runs the json-persistence gRPC server.
//
// Run loads settings, builds the item file repository and the persistence
// service, then serves the gRPC API and, when configured, Prometheus metrics
// until its context is canceled.
package server
