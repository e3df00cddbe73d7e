package interceptors

import "context"

type contextKey struct{ name string }

var (
	userIDKey    = contextKey{"user_id"}
	requestIDKey = contextKey{"request_id"}
)

// WithIdentity returns a context with user_id and request_id set.
// Handlers read these via GetUserID and GetRequestID.
func WithIdentity(ctx context.Context, userID, requestID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return ctx
}

// GetUserID returns the user_id from context and true if set; otherwise "", false.
func GetUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok && v != ""
}

// GetRequestID returns the request_id from context and true if set; otherwise "", false.
func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(requestIDKey).(string)
	return v, ok && v != ""
}

// ResolveUserID returns fromRequest when set, else the user_id carried in ctx.
func ResolveUserID(ctx context.Context, fromRequest string) string {
	if fromRequest != "" {
		return fromRequest
	}
	v, _ := GetUserID(ctx)
	return v
}
