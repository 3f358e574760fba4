// Package persistence implements the gRPC transport for the JSON persistence service.
//
// The service is described by a hand-registered grpc.ServiceDesc whose
// messages are protobuf well-known types, so no generated code is needed:
// records travel as google.protobuf.Struct values with the same four fields
// as the on-disk JSON. The package provides both the server adapter and a
// client wrapper with per-call timeouts.
package persistence
