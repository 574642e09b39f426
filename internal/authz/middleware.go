// Package authz guards HTTP routes behind session tokens.
package authz

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/notkisk/policeplus-api/internal/platform/httpx"
	"github.com/notkisk/policeplus-api/internal/shared"
	"github.com/notkisk/policeplus-api/internal/token"
)

// Verifier validates raw bearer tokens.
type Verifier interface {
	Verify(raw string) (*token.Claims, error)
}

type claimsContextKey struct{}

// ContextWithClaims stores verified claims in context.
func ContextWithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext extracts the verified claims from context.
func ClaimsFromContext(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*token.Claims)
	return claims
}

// Gate wires token verification and role checks for HTTP handlers.
type Gate struct {
	Tokens Verifier
	Logger *slog.Logger
	// EnforceRoles enables RequireRole. When false every valid token passes.
	EnforceRoles bool
}

// Authenticate rejects requests without a bearer token (401) or with an invalid one (403).
func (g Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		claims, err := g.Tokens.Verify(raw)
		if err != nil {
			if g.Logger != nil {
				g.Logger.Debug("token rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
			}
			httpx.RespondError(w, shared.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// RequireRole ensures the authenticated caller holds one of roles.
func (g Gate) RequireRole(roles ...token.Role) func(http.Handler) http.Handler {
	allowed := make(map[token.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			if !g.EnforceRoles || len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				if g.Logger != nil {
					g.Logger.Info("role denied",
						slog.String("path", r.URL.Path),
						slog.String("role", string(claims.Role)),
						slog.Int64("user_id", claims.UserID))
				}
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(raw)
}
