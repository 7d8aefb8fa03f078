package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	errAuthHeaderRequired = `{"jsonrpc":"2.0","error":{"code":-32001,"message":"Authorization header required"}}`
	errBearerRequired     = `{"jsonrpc":"2.0","error":{"code":-32001,"message":"Bearer token required"}}`
	errInvalidToken       = `{"jsonrpc":"2.0","error":{"code":-32001,"message":"Invalid token"}}`
)

// AuthMiddleware rejects requests without one of the configured Bearer
// tokens. With no tokens configured every request passes.
func AuthMiddleware(validTokens []string, next http.Handler) http.Handler {
	tokens := make([][]byte, 0, len(validTokens))
	for _, token := range validTokens {
		if token != "" {
			tokens = append(tokens, []byte(token))
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(tokens) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Warn().Str("remote_addr", r.RemoteAddr).Msg("Auth failed: missing Authorization header")
			unauthorized(w, errAuthHeaderRequired)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Warn().Str("remote_addr", r.RemoteAddr).Msg("Auth failed: invalid Authorization format")
			unauthorized(w, errBearerRequired)
			return
		}

		presented := []byte(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
		for _, token := range tokens {
			if subtle.ConstantTimeCompare(presented, token) == 1 {
				next.ServeHTTP(w, r)
				return
			}
		}

		log.Warn().Str("remote_addr", r.RemoteAddr).Msg("Auth failed: invalid token")
		unauthorized(w, errInvalidToken)
	})
}

func unauthorized(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(body))
}
