package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"wavebox/core/auth"
	"wavebox/logger"
	"wavebox/model"
	"wavebox/repository"
)

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authPayload struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// RegisterHandler handles user registration requests.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("[Register] Failed to hash password", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error creating user")
		return
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := h.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logger.Warn("[Register] Email already registered", logger.String("email", req.Email))
			respondError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		logger.Error("[Register] Failed to create user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error creating user")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		logger.Error("[Register] Failed to generate token", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error creating user")
		return
	}

	logger.Info("[Register] User registered", logger.Int64("userId", user.ID), logger.String("email", user.Email))
	respondData(w, http.StatusCreated, authPayload{Token: token, User: user})
}

// LoginHandler handles user login requests.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warn("[Login] Unknown email", logger.String("email", req.Email))
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		logger.Error("[Login] Failed to look up user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error logging in")
		return
	}

	if !user.IsActive || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		logger.Warn("[Login] Password verification failed", logger.String("email", req.Email))
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		logger.Error("[Login] Failed to generate token", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error logging in")
		return
	}

	logger.Info("[Login] Login successful", logger.Int64("userId", user.ID))
	respondData(w, http.StatusOK, authPayload{Token: token, User: user})
}

// GetProfileHandler returns the authenticated user's profile.
func (h *APIHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		logger.Error("[Profile] Failed to load user", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving profile")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"user": user})
}

// UpdateProfileHandler applies a partial update to the authenticated user's
// profile. Only provided fields overwrite.
func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}

	if err := h.userRepo.Update(r.Context(), user); err != nil {
		logger.Error("[Profile] Failed to update user", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating profile")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"user": user})
}

// ChangePasswordHandler verifies the current password and stores a new one.
func (h *APIHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "Current and new password are required")
		return
	}
	if len(req.NewPassword) < 6 {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	if !auth.VerifyPassword(req.CurrentPassword, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		logger.Error("[ChangePassword] Failed to hash password", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error changing password")
		return
	}

	user.PasswordHash = hash
	if err := h.userRepo.Update(r.Context(), user); err != nil {
		logger.Error("[ChangePassword] Failed to update user", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error changing password")
		return
	}

	respondMessage(w, http.StatusOK, "Password changed successfully")
}
