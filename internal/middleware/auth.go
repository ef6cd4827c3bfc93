package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/alnotes/alnotes/internal/ctxkeys"
	"github.com/alnotes/alnotes/internal/service"
)

// AuthMiddleware checks for the session cookie and adds the caller identity
// to the request context if the token verifies. Guests pass through with no
// identity set.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("auth_token")
			if err != nil {
				// No cookie, continue without auth
				next.ServeHTTP(w, r)
				return
			}

			identity, err := authService.VerifyJWT(cookie.Value)
			if err != nil {
				// Invalid or expired token, clear cookie and continue
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the caller is authenticated, answering 401 JSON
// otherwise. Authorization checks beyond "signed in" belong to the
// services, which get the identity explicitly.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := ctxkeys.Identity(r.Context())
		if identity == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "Unauthorized",
			})
			return
		}

		next.ServeHTTP(w, r)
	}
}
