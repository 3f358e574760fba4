// Package metrics records store and query outcomes of the persistence service.
//
// Recorder is the narrow interface the service depends on; PrometheusRecorder
// implements it with client_golang collectors and HTTPHandler exposes them.
package metrics
