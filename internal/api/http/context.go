package http

import (
	"context"

	"bloodlink-backend/internal/domain"
)

// Caller is the authenticated user behind a request.
type Caller struct {
	UserID int32
	Email  string
	Role   domain.UserRole
}

func (c Caller) IsAdmin() bool { return c.Role == domain.UserRoleAdmin }

type callerKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFromContext returns the caller stored by the auth middleware.
func CallerFromContext(ctx context.Context) (Caller, error) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	if !ok || c.UserID <= 0 {
		return Caller{}, unauthorized("authentication required")
	}
	return c, nil
}
