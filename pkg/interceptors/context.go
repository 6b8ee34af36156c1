package interceptors

import "context"

type contextKey string

const (
	// RequestIDKey holds the request ID assigned by the request ID interceptor
	// or HTTP middleware.
	RequestIDKey contextKey = "request_id"
	// UserIDKey holds the authenticated subject.
	UserIDKey contextKey = "user_id"
	// RoleKey holds the authenticated role claim.
	RoleKey contextKey = "role"
)

// RequestIDFromContext returns the request ID, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDKey).(string)
	return id, ok
}

// WithRequestID stores a request ID on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetUserIDFromContext returns the authenticated subject, if any.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok
}

// GetRoleFromContext returns the authenticated role, if any.
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}
