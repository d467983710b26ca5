package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskpad/taskpad/internal/auth"
	"github.com/taskpad/taskpad/internal/model"
)

// RevocationChecker reports whether a token ID has been denylisted by logout.
// Implemented by cache.Cache.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Tokens *auth.Tokens
	// Revocations may be nil, in which case the denylist check is skipped.
	Revocations RevocationChecker
}

// Auth returns a middleware that authenticates requests via bearer tokens.
// It verifies the token, checks the revocation denylist, and injects the
// verified identity into the request context. Every failure mode collapses to
// the same 401 so callers cannot distinguish malformed, expired and revoked
// tokens.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				logAuthFailure(cfg.Logger, r, "missing_token")
				writeAuthError(w)
				return
			}

			claims, err := cfg.Tokens.Verify(token)
			if err != nil {
				logAuthFailure(cfg.Logger, r, "invalid_token")
				writeAuthError(w)
				return
			}

			if cfg.Revocations != nil {
				revoked, err := cfg.Revocations.IsTokenRevoked(r.Context(), claims.ID)
				if err != nil {
					cfg.Logger.Error("revocation check failed",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeAuthError(w)
					return
				}
				if revoked {
					logAuthFailure(cfg.Logger, r, "revoked_token")
					writeAuthError(w)
					return
				}
			}

			identity := &model.Identity{
				UserID:    claims.Subject,
				TokenID:   claims.ID,
				ExpiresAt: claims.ExpiresAt.Time,
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"invalid or missing bearer token","code":"UNAUTHORIZED"}`))
}
