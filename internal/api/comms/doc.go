// Package comms exposes the relay over NATS request/reply.
//
// Each request on the subject is one relay message. The surface's cookies
// travel in the "Cookie" message header. Handled requests get the payload as
// the reply, failed ones get null, and unhandled ones get no reply so the
// requester times out the same way a page surface sees an absent value.
package comms
