package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/oneclickresume/internal/server/middleware"
	"github.com/jonathan/oneclickresume/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.SignUpRequest
	if !decodeAuthRequest(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeAuthError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		writeAuthError(w, HTTPStatus(err), ErrorMessage(err))
		return
	}

	h.issueSession(w, http.StatusCreated, user)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.SignInRequest
	if !decodeAuthRequest(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeAuthError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		writeAuthError(w, HTTPStatus(err), ErrorMessage(err))
		return
	}

	h.issueSession(w, http.StatusOK, user)
}

// ChangePassword handles password updates for the authenticated user.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.ChangePasswordRequest
	if !decodeAuthRequest(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeAuthError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeAuthError(w, HTTPStatus(err), ErrorMessage(err))
		return
	}

	writeAuthJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, status int, user *types.User) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("[auth] Failed to generate token for %s: %v", user.ID, err)
		writeAuthError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	writeAuthJSON(w, status, types.SessionResponse{User: user, Token: token})
}

func decodeAuthRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeAuthError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeAuthJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	writeAuthJSON(w, status, map[string]string{"error": message})
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		// Report the first failure only.
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
