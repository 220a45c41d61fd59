package authz

import (
	"context"

	"github.com/virtmesh/authcore/pkg/identity"
)

type contextKey struct{ name string }

var callerContextKey = contextKey{"authz.caller"}

// Caller is the verified request principal plus the scoping identifiers the
// route extracted.
type Caller struct {
	Identity  *identity.Identity
	Scopes    []string
	OrgID     string
	NetworkID string
	MemberID  string
}

// withCaller returns a context carrying the verified caller.
func withCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// CallerFromContext retrieves the verified caller stored by a secured route.
func CallerFromContext(ctx context.Context) (*Caller, bool) {
	caller, ok := ctx.Value(callerContextKey).(*Caller)
	return caller, ok
}
