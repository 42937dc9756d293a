package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/fhuszti/video-studio-ms-go/internal/api_context"
	"github.com/fhuszti/video-studio-ms-go/internal/handler/api"
)

const (
	tokenIssuer   = "core"
	tokenAudience = "studio"
	clockSkew     = 30 * time.Second
)

// studioClaims are the claims of a delegated short-lived token (DST).
type studioClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Valid tolerates clockSkew on iat and nbf, the core service clock drifts.
func (c studioClaims) Valid() error {
	now := time.Now()
	switch {
	case !c.VerifyExpiresAt(now, true):
		return errors.New("token expired")
	case c.IssuedAt != nil && c.IssuedAt.After(now.Add(clockSkew)):
		return errors.New("invalid iat")
	case c.NotBefore != nil && c.NotBefore.After(now.Add(clockSkew)):
		return errors.New("token not valid yet")
	case !c.VerifyIssuer(tokenIssuer, true):
		return errors.New("bad issuer")
	case !c.VerifyAudience(tokenAudience, true):
		return errors.New("bad audience")
	case c.Subject == "":
		return errors.New("missing sub")
	}
	return nil
}

// WithDSTAuth validates the Bearer DST issued by the core service and puts
// the caller identity into the request context. An empty key disables
// authentication, for local runs.
func WithDSTAuth(jwtPublicKeyPEM string) func(http.Handler) http.Handler {
	if jwtPublicKeyPEM == "" {
		return func(next http.Handler) http.Handler { return next }
	}

	pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(jwtPublicKeyPEM))
	if err != nil {
		panic(fmt.Sprintf("invalid Core RSA public key: %v", err))
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name}))
	keyFunc := func(*jwt.Token) (interface{}, error) { return pubKey, nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				api.WriteError(w, r, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}

			var claims studioClaims
			if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil {
				api.WriteError(w, r, http.StatusUnauthorized, "unauthorized", err)
				return
			}

			ctx := context.WithValue(r.Context(), api_context.AuthUserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, api_context.AuthRolesKey, claims.Roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAnyRole rejects authenticated callers holding none of roles.
// Requests without an identity pass, so it composes with a disabled
// WithDSTAuth.
func RequireAnyRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, authenticated := api_context.AuthUserIDFromContext(r.Context()); !authenticated {
				next.ServeHTTP(w, r)
				return
			}
			held, _ := api_context.AuthRolesFromContext(r.Context())
			for _, role := range roles {
				if slices.Contains(held, role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			api.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
		})
	}
}
