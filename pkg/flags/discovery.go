package flags

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// VerifyAccess reports whether authHeader carries "Bearer <secret>".
// An empty secret never grants access.
func VerifyAccess(authHeader, secret string) bool {
	if secret == "" {
		return false
	}
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(secret)) == 1
}

// DiscoveryHandler serves the provider data returned by load as JSON on GET /.
// Requests must be authorized with the shared secret, see VerifyAccess.
func DiscoveryHandler(secret string, load func(ctx context.Context) ProviderData) http.Handler {
	r := chi.NewRouter()
	r.Use(requireSecret(secret))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		data := load(r.Context())
		if data.Definitions == nil {
			data.Definitions = map[string]FlagDefinition{}
		}
		if data.Hints == nil {
			data.Hints = []Hint{}
		}
		writeJSON(w, http.StatusOK, data)
	})
	return r
}

func requireSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !VerifyAccess(r.Header.Get("Authorization"), secret) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
