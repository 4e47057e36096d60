// Package main is the entry point for the Bewly relay.
//
// The relay answers page-surface messages by calling the site's public
// APIs with the surface's cookies, and serves the rewritten homepage the
// extension mounts onto.
//
// Architecture:
//
//	Page surface → HTTP / WebSocket / NATS / native messaging → Relay → Site APIs
//
// Commands:
//   - serve: run the HTTP, WebSocket and optional NATS surfaces
//   - native: run as a browser native-messaging host on stdio
//   - query: send one message to a running relay
//   - domains: list a running relay's domains
//   - page: print the bootstrap decision for a URL
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//
// Usage:
//
//	./server serve --port 8000
//	./server query '{"contentScriptQuery":"getUserInfo"}' --cookie "SESSDATA=..."
//	./server page https://www.bilibili.com/ --cookie 2
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
