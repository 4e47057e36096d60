/*
Package monitoring provides Prometheus metrics for the relay.

Each Metrics value owns a private registry, so several relays (or several
tests) can live in one process without duplicate registration panics.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "http")
	result := channel.Dispatch(ctx, msg)
	timer.Stop(msg.Query, monitoring.OutcomeHandled)
*/
package monitoring
