/*
Package resilience provides a circuit breaker for outbound API calls.

The relay never retries a failed upstream call. When the breaker is enabled
a run of failures opens it, and further calls fail fast with ErrCircuitOpen
until the timeout passes and a probe succeeds. To the surface an open
breaker looks like any other failure: an absent value.

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                       [failure]
	                                           v
	                                          Open

# Usage

	breaker := resilience.New("upstream", resilience.DefaultSettings())

	body, err := resilience.Call(breaker, func() ([]byte, error) {
		return fetch(ctx)
	})
*/
package resilience
