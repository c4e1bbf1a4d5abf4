package middleware

import (
	"context"
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

type contextKey string

const PrincipalContextKey contextKey = "principal"

// Authenticate rejects requests without a valid access token and stores the principal in the context
func (mw *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := mw.principalFromRequest(r)
		if err != nil {
			mw.logger.Debug("Failed to authenticate request", gecho.Field("error", err), gecho.Field("path", r.URL.Path))
			handling.RespondError(w, mw.logger, err)
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthenticate lets anonymous requests through. A request that does carry an
// Authorization header must still present a valid token.
func (mw *Middleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		mw.Authenticate(next).ServeHTTP(w, r)
	})
}

// RequireAdmin checks the stored role of the caller on every request.
// Must be used after Authenticate
func (mw *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := PrincipalFromContext(r.Context())

		if err := mw.gate.Require(r.Context(), principal); err != nil {
			if principal != nil {
				mw.logger.Warn("Non-admin user attempted to access admin route",
					gecho.Field("user_id", principal.UserID),
					gecho.Field("path", r.URL.Path),
				)
			}
			handling.RespondError(w, mw.logger, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (mw *Middleware) principalFromRequest(r *http.Request) (*structs.Principal, error) {
	token, err := lib.ExtractBearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}
	return lib.ParseToken(token, mw.cfg.Auth.AccessTokenSecret, mw.now())
}

// PrincipalFromContext returns the principal stored by Authenticate
func PrincipalFromContext(ctx context.Context) (*structs.Principal, bool) {
	principal, ok := ctx.Value(PrincipalContextKey).(*structs.Principal)
	return principal, ok && principal != nil
}
