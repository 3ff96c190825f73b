// Package resilience provides fail-fast guards for outgoing calls.
//
//   - CircuitBreaker: stops calling an upstream after repeated failures
//   - Bulkhead: bounds the number of concurrent calls
//
// Both expose split-phase APIs (Allow/Record, Acquire/Release) so they can
// run from separate request and response hooks; Execute wraps a function
// for direct use. Neither retries: a refused call fails immediately.
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("billing"))
//	client.Use(middleware.CircuitBreaker(cb, nil))
package resilience
