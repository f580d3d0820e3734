package kit

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MetricsAuth guards the scrape endpoint with a bearer token. tokenHash is the
// bcrypt hash of the token so the plaintext never sits in the environment.
// An empty hash refuses every request.
func MetricsAuth(tokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			token := strings.TrimPrefix(authz, "Bearer ")
			if bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)) != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
