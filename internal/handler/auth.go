package handler

import (
	"net/http"

	"veil/internal/auth"
	"veil/internal/model"
)

// AuthHandler serves the identity endpoints.
type AuthHandler struct {
	session *auth.Session
}

// NewAuthHandler creates a new AuthHandler around the auth session.
func NewAuthHandler(session *auth.Session) *AuthHandler {
	return &AuthHandler{session: session}
}

// SignIn handles POST /auth/signin
// @Summary      Sign in
// @Description  Starts a session with the external identity provider
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.AuthResponse
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	user, err := h.session.SignIn(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{
		IsAuthenticated: true,
		User:            user,
	})
}

// SignOut handles POST /auth/signout
// @Summary      Sign out
// @Description  Ends the identity provider session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.AuthResponse
// @Router       /auth/signout [post]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if err := h.session.SignOut(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{IsAuthenticated: false})
}

// Me handles GET /auth/me
// @Summary      Current user
// @Description  Reflects the identity provider's current-user state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.AuthResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	user, err := h.session.CurrentUser(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{
		IsAuthenticated: user != nil,
		User:            user,
	})
}
