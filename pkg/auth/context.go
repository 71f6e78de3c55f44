package auth

import (
	"context"
	"errors"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// UserContext carries the authenticated caller through a request.
type UserContext struct {
	UserID   string
	Email    string
	Username string
}

// WithUser attaches the authenticated user to the context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the authenticated user from the context.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, errors.New("no authenticated user in context")
	}
	return user, nil
}

// UserIDFromContext returns the caller's user ID, or empty when the
// request is unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	if user, err := GetUserFromContext(ctx); err == nil {
		return user.UserID
	}
	return ""
}
