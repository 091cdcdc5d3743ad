package utils

import (
	"context"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
	RoleKey     contextKey = "role"
)

// SetSessionContext stores the resolved caller identity for one request.
func SetSessionContext(ctx context.Context, userID, username, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, UsernameKey, username)
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}

// GetSessionContext reads the identity back out. ok is false for requests
// that never passed an auth middleware.
func GetSessionContext(ctx context.Context) (userID, username, role string, ok bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return "", "", "", false
	}

	userID, ok = userIDVal.(string)
	if !ok {
		return "", "", "", false
	}

	if v, isStr := ctx.Value(UsernameKey).(string); isStr {
		username = v
	}
	if v, isStr := ctx.Value(RoleKey).(string); isStr {
		role = v
	}

	return userID, username, role, true
}
