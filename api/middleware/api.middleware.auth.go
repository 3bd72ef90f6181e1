package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/breev/aqhub/internal/errors"
)

// AuthConfig carries the static shared-secret credential.
type AuthConfig struct {
	AdminPassword string
	TokenPrefix   string
}

// SharedSecretMiddleware gates admin writes behind one static bearer token.
// The token is the configured prefix followed by the base64 of the shared
// secret; there is no expiry and no per-user identity.
type SharedSecretMiddleware struct {
	config        AuthConfig
	expectedToken string
}

func NewSharedSecretMiddleware(config AuthConfig) *SharedSecretMiddleware {
	return &SharedSecretMiddleware{
		config:        config,
		expectedToken: Token(config),
	}
}

// Token builds the bearer token for the given credential.
func Token(config AuthConfig) string {
	return config.TokenPrefix + base64.StdEncoding.EncodeToString([]byte(config.AdminPassword))
}

// Authenticate rejects requests that do not present the exact admin token.
func (m *SharedSecretMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("no token provided", nil))
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(m.expectedToken)) != 1 {
			handleError(w, errors.NewAuthError("invalid token", nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// VerifyCredential checks a login attempt against the shared secret.
func (m *SharedSecretMiddleware) VerifyCredential(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(m.config.AdminPassword)) == 1
}

// IssuedToken returns the token handed out on successful login.
func (m *SharedSecretMiddleware) IssuedToken() string {
	return m.expectedToken
}

// Helper functions

func extractToken(r *http.Request) string {
	bearerToken := r.Header.Get("Authorization")
	if len(strings.Split(bearerToken, " ")) == 2 {
		return strings.Split(bearerToken, " ")[1]
	}
	return ""
}

func handleError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
}
