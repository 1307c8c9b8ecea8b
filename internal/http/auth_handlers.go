package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"legacyvoices-backend-go/internal/services"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Login exchanges administrator credentials for a signed bearer token.
// A wrong password and an unknown username get the same answer.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	admin, err := services.GetAdminByUsername(s.DB, username)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !s.Tokens.VerifyPassword(req.Password, admin.PasswordHash) {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, exp, err := s.Tokens.CreateToken(admin.Username)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		Username:  admin.Username,
		ExpiresAt: exp,
	})
}
