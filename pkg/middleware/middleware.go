// Package middleware provides the HTTP middleware shared by API modules:
// request logging and CORS.
package middleware

import "net/http"

// Func wraps a handler with cross-cutting behavior.
type Func func(http.Handler) http.Handler

// Chain is an ordered list of middleware. The first entry runs outermost.
type Chain []Func

// Use appends mw to the chain.
func (c *Chain) Use(mw Func) {
	*c = append(*c, mw)
}

// Then wraps handler with every middleware in the chain.
func (c Chain) Then(handler http.Handler) http.Handler {
	for i := len(c) - 1; i >= 0; i-- {
		handler = c[i](handler)
	}
	return handler
}
