// Package http provides the relay's HTTP surface using the Gin framework.
//
// Endpoints:
//   - Health: / and /health
//   - Relay: POST /relay/connect, POST /relay/message, GET /relay/domains
//   - Bootstrap: GET /page?url=
//   - Metrics: GET /metrics
//
// A relay message answers 200 with the upstream payload when handled, 200
// with null when the upstream call failed, and 204 when no listener knows
// the query.
//
// Example Usage:
//
//	handlers := http.NewHandlers(http.Options{Gateway: gw, Pages: upstreamClient})
//	handlers.Register(router)
package http
