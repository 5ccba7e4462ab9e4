// Package server exposes scenario compilation and frame decoding over HTTP.
//
// Routes:
//
//	POST   /v1/compile                      compile a JSON scenario and persist the run
//	GET    /v1/runs                         list stored runs, newest first
//	GET    /v1/runs/{id}                    run metadata and warnings
//	DELETE /v1/runs/{id}                    remove a run
//	GET    /v1/runs/{id}/artifacts/{name}   raw artifact contents
//	POST   /v1/frames/decode                summarize a raw depth grid
//	GET    /healthz                         liveness
//	GET    /metrics                         Prometheus metrics
//
// Errors are returned as JSON objects with a machine-readable code taken from
// [github.com/matzehuels/floodprep/pkg/errors].
package server
