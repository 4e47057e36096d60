// Package ws provides the WebSocket transport for page surfaces.
//
// A surface opens one socket and multiplexes messages over it. Each text
// frame is a relay message carrying a requestId; replies echo it back.
//
// Frames (Client → Server):
//   - {"contentScriptQuery": "...", "requestId": "...", ...params}
//
// Frames (Server → Client):
//   - {"requestId": "...", "data": <payload or null>}
//
// Unhandled queries and malformed frames get no reply. The upgrade itself
// is a connection event, so listeners are installed before the first frame
// is read.
//
// Example Usage:
//
//	handler := ws.NewHandler(gw, "bilibili.com", metrics, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
