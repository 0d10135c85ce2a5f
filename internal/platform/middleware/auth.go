package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "reggate/pkg/domain-errors"
	"reggate/pkg/platform/httputil"
	"reggate/pkg/requestcontext"
)

// JWTValidator defines the interface for validating JWT tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	UserID  string
	IsAdmin bool
}

type contextKeyUserID struct{}
type contextKeyIsAdmin struct{}

// GetUserID retrieves the authenticated user ID from the context.
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(contextKeyUserID{}).(string)
	if !ok {
		return ""
	}
	return userID
}

// IsAdmin reports whether the authenticated user has the admin role.
func IsAdmin(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(contextKeyIsAdmin{}).(bool)
	return ok && isAdmin
}

// RequireAdmin guards the gatekeeper admin endpoints. Requests without a
// valid bearer token carrying the admin role are rejected.
func RequireAdmin(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "bearer token required"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}
			if !claims.IsAdmin {
				logger.WarnContext(ctx, "forbidden - admin role required",
					"request_id", requestID,
					"user_id", claims.UserID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin role required"))
				return
			}

			ctx = context.WithValue(ctx, contextKeyUserID{}, claims.UserID)
			ctx = context.WithValue(ctx, contextKeyIsAdmin{}, claims.IsAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
