// Package middleware holds the echo middleware chain: request ids,
// tracing, request-scoped logging, rate limiting and the global error
// handler that renders every failure as an errs.HTTPError.
package middleware
