package httpserver

import (
	"context"
	"net/http"

	"github.com/goodthings/server/internal/auth"
)

// TokenHeader is the custom request header carrying the bearer token.
// Clients treat the value as opaque: store it on login, replay it verbatim,
// and discard it on any 401.
const TokenHeader = "x-auth-token"

// ctxIdentityKey is the context key type for storing the verified identity.
type ctxIdentityKey struct{}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables CORS for a single configured client origin, allowing the
// custom token header through preflight.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+TokenHeader)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth gates protected endpoints. It extracts the token header,
// delegates to the verifier, and either rejects with 401 or injects the
// resolved identity into the request context. It is a pure gate: no store
// lookups, no side effects beyond the admit/reject decision.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.Header.Get(TokenHeader)
		if tokenStr == "" {
			writeJSON(w, http.StatusUnauthorized, errorRes{Error: "missing authentication token"})
			return
		}
		id, err := s.verifier.Verify(tokenStr)
		if err != nil {
			// Expired, malformed, and bad-signature all look the same here.
			writeJSON(w, http.StatusUnauthorized, errorRes{Error: "invalid authentication token"})
			return
		}
		ctx := context.WithValue(r.Context(), ctxIdentityKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFrom returns the identity attached by requireAuth.
func identityFrom(r *http.Request) (auth.Identity, bool) {
	id, ok := r.Context().Value(ctxIdentityKey{}).(auth.Identity)
	return id, ok
}
