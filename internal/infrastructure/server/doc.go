// Package server wires the relay together: configuration, logging,
// metrics, tracing, the upstream client, the listener registry, and the
// HTTP, WebSocket and NATS surfaces.
package server
