package rest

import (
	"context"

	"github.com/dyleth/fraudshield/internal/infrastructure/auth"
)

type contextKey int

const (
	claimsKey contextKey = iota
	requestIDKey
)

func withClaims(ctx context.Context, claims *auth.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the validated caller identity, if any.
func ClaimsFromContext(ctx context.Context) (*auth.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.TokenClaims)
	return claims, ok
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id assigned by the middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
