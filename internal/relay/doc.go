/*
Package relay is the message relay between page surfaces and the
privileged network side.

A Registry maps each domain (auth, video, people, ...) to one connection
handler and one message handler. A connection event runs every connection
handler; the standard one, ReplaceOnConnect, puts the domain's message
handler on the shared Channel with replace semantics, so a surface that
reconnects never gets duplicate replies.

Dispatching a Message walks the Channel's listeners in order and returns
the first Result that is not NotHandled. Transports render a Result as
follows:

	Handled(payload)  reply with payload
	Failed(err)       reply with null (the error is logged, never sent)
	NotHandled        no reply at all

# Usage

	registry := relay.NewRegistry(logger)
	registry.Register("people", relay.ReplaceOnConnect("people", handler), handler)
	registry.Connect()

	msg, err := relay.DecodeMessage(body)
	result := registry.Dispatch(ctx, msg)
*/
package relay
