/*
Package tracing provides lightweight request tracing for the relay.

Every HTTP request and every dispatched relay message gets a span. Finished
spans are buffered and written to the zap logger by a single collector
goroutine, so tracing never blocks a request.

# Usage

	tracer := tracing.New("bewly-relay", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "relay.dispatch")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
	span.SetTag("query", "getPeopleInfo")

# Propagation

Trace context travels in the X-Trace-ID and X-Span-ID headers. Extract
reads them from any Carrier, so HTTP requests and NATS messages share one
path. The middleware echoes both back on the response.
*/
package tracing
