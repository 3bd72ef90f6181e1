// FilePath: api/resources/api.resource.auth.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/breev/aqhub/api/middleware"
	"github.com/breev/aqhub/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// AuthHandlers exchanges the shared admin secret for the bearer token.
type AuthHandlers struct {
	auth *middleware.SharedSecretMiddleware
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	User    loginUser `json:"user"`
}

type loginUser struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// @Summary Admin login
// @Description Exchange the shared secret for the static bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Admin password"
// @Success 200 {object} loginResponse
// @Failure 401 {object} errors.APIError
// @Router /auth/login [post]
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if !h.auth.VerifyCredential(req.Password) {
		respondWithError(w, errors.NewAuthError("invalid credentials", nil).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Token:   h.auth.IssuedToken(),
		User:    loginUser{Name: "Admin", Role: "admin"},
	})
}
