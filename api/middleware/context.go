package middleware

import "context"

type contextKey string

const (
	ctxPrincipalID contextKey = "principal_id"
	ctxRole        contextKey = "actor_role"
	ctxVerified    contextKey = "verified"
)

func PrincipalIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxPrincipalID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// VerifiedFromContext reports the verification flag carried by the token.
// Absent means the role has no verification concept.
func VerifiedFromContext(ctx context.Context) (bool, bool) {
	if ctx == nil {
		return false, false
	}
	if v, ok := ctx.Value(ctxVerified).(bool); ok {
		return v, true
	}
	return false, false
}

// WithPrincipalID injects the principal identifier into the context.
func WithPrincipalID(ctx context.Context, principalID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipalID, principalID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}
