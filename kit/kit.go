// CLAUDE:SUMMARY Endpoint/Middleware abstractions shared by the MCP and HTTP surfaces.
package kit

import "context"

// Endpoint is a transport-agnostic request handler. Every browser command
// is an Endpoint; transports (MCP tools, HTTP routes) decode into a typed
// request and hand it here.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behavior (journaling,
// logging, panic recovery).
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first argument is outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
