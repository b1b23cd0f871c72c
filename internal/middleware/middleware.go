package middleware

import "context"

// HandlerFunc is one REPL command handler. args is the command's argument
// string with the command name already stripped.
type HandlerFunc func(ctx context.Context, args string) error

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain applies middlewares so the first listed runs outermost.
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
