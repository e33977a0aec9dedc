package rest

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dyleth/fraudshield/internal/domain/errors"
	"github.com/dyleth/fraudshield/internal/infrastructure/auth"
	"github.com/dyleth/fraudshield/internal/infrastructure/cache"
	"github.com/dyleth/fraudshield/internal/infrastructure/config"
)

// AuthMiddleware validates the bearer token and stores the claims in the
// request context. Requests without a token pass through anonymously;
// handlers that need identity use RequirePermission.
func AuthMiddleware(tokens auth.Service, logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				writeError(w, logger, errors.NewUnauthorizedError("malformed authorization header"))
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				writeError(w, logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// RequirePermission rejects requests whose caller lacks the permission.
func RequirePermission(perm auth.Permission, logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, logger, errors.NewUnauthorizedError("authentication required"))
				return
			}
			if !claims.Role.Has(perm) {
				writeError(w, logger, errors.NewForbiddenError("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// QuotaMiddleware enforces the per-role detection quota over the sliding
// window. Anonymous callers share the unauthenticated user tier keyed by
// client address.
func QuotaMiddleware(limiter cache.RateLimiter, sec *config.SecurityConfig, logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientAddr(r)
			limit := sec.UserQuota

			if claims, ok := ClaimsFromContext(r.Context()); ok {
				key = claims.UserID.String()
				limit = claims.Role.Quota(sec.UserQuota, sec.OrgQuota)
			}

			allowed, err := limiter.Allow(r.Context(), key, limit, sec.RateLimitWindow)
			if err != nil {
				// Quota accounting must not take the API down with it
				logger.Warn("quota check failed, allowing request", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				writeError(w, logger, errors.NewRateLimitError("quota exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i > 0 {
		host = host[:i]
	}
	return host
}
