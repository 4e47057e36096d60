// Package native is the browser native-messaging transport.
//
// The browser starts the host as a child process and exchanges frames over
// stdio: a 4-byte little-endian length followed by that many bytes of JSON.
// Requests and replies use the same shapes as the WebSocket transport.
// Replies larger than MaxOutboundFrame are refused by the browser, so they
// are downgraded to a null reply instead.
//
// Stdout belongs to the framing; diagnostics must go to stderr.
package native
