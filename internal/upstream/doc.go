// Package upstream is the relay's outbound HTTP client.
//
// It wraps resty on a pooled transport with retries disabled. Each relayed
// message becomes exactly one GET; the surface's Cookie header is forwarded
// as is. JSON bodies are decoded with number preservation and handed back
// unvalidated.
package upstream
