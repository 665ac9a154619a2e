package domain

import "context"

type callerKey struct{}

// Caller carries the verified identity and its normalized group set
// through request context. Group membership is fixed at token
// verification time and never re-queried mid-request.
type Caller struct {
	Identity   string
	LoginID    string
	Groups     []string
	SuperAdmin bool
}

// WithCaller stores a Caller in the context.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFromContext extracts the Caller from the context.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}
