package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/smartfit/smartfit-backend/models"
	"github.com/smartfit/smartfit-backend/storage"
	"github.com/smartfit/smartfit-backend/utils"
	"golang.org/x/crypto/bcrypt"
)

// SignupRequest represents the payload for user registration
type SignupRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
}

// LoginRequest represents the payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupHandler handles user registration
func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Signup API]")

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Validation failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Invalid signup payload", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Duplicate check ahead of the write; both backends also enforce
	// uniqueness themselves.
	if _, err := h.store.GetUserByEmail(ctx, req.Email); err == nil {
		utils.RespondError(w, &logMessageBuilder, "User already exists", http.StatusBadRequest)
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error checking user: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Database error checking user", http.StatusInternalServerError)
		return
	}
	if _, err := h.store.GetUserByUsername(ctx, req.Username); err == nil {
		utils.RespondError(w, &logMessageBuilder, "User already exists", http.StatusBadRequest)
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error checking user: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Database error checking user", http.StatusInternalServerError)
		return
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	user, err := h.store.CreateUser(ctx, &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			utils.RespondError(w, &logMessageBuilder, "User already exists", http.StatusBadRequest)
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to create user: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to create user", http.StatusInternalServerError)
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to generate token: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	h.recordHistory(ctx, user.ID, "signup", "Account created", nil)

	if _, err := h.store.CreateNotification(ctx, &models.Notification{
		UserID:  user.ID,
		Title:   "Welcome to SmartFit",
		Message: "Capture your measurements to start getting fit predictions.",
		Type:    "welcome",
	}); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to create welcome notification: %v", err))
	}

	// Welcome email is best-effort; signup never fails on it.
	if emailErr := utils.SendEmail(user.FullName, user.Email, "Welcome to SmartFit",
		"Welcome to SmartFit! Capture your measurements to start getting fit predictions.",
		"<h1>Welcome to SmartFit!</h1><p>Capture your measurements to start getting fit predictions.</p>"); emailErr != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to send welcome email: %v", emailErr))
	}

	utils.AddToLogMessage(&logMessageBuilder, "User registered successfully")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// LoginHandler handles user login
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Login API]")

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Email and Password are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Unknown email and wrong password produce the same response, so callers
	// cannot enumerate accounts.
	user, err := h.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.RespondError(w, &logMessageBuilder, "Invalid email or password", http.StatusUnauthorized)
		} else {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
			utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to generate token: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Login successful")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// MeHandler returns the profile behind the presented token.
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Valid token whose subject no longer exists.
			utils.RespondError(w, nil, "User not found", http.StatusNotFound)
		} else {
			utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"fullName": user.FullName,
	})
}

// recordHistory appends an audit entry; failures are logged, never surfaced.
func (h *Handler) recordHistory(ctx context.Context, userID, action, details string, metadata map[string]any) {
	if _, err := h.store.AddToHistory(ctx, &models.HistoryEntry{
		UserID:   userID,
		Action:   action,
		Details:  details,
		Metadata: metadata,
	}); err != nil {
		fmt.Printf("[History] failed to record %q for user %s: %v\n", action, userID, err)
	}
}
