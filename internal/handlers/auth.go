package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/family-tree-api/internal/auth"
	"github.com/crucial707/family-tree-api/internal/metrics"
	"github.com/crucial707/family-tree-api/internal/middleware"
	"github.com/crucial707/family-tree-api/internal/repo"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	UserRepo *repo.UserRepo
	Issuer   *auth.Issuer
}

var validate = validator.New()

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required,min=3,max=80"`
		Email    string `json:"email" validate:"required,email,max=120"`
		Password string `json:"password" validate:"required,min=6"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	// Emails are unique case-insensitively: fold before validating and storing.
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Register: hash password", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.UserRepo.Create(r.Context(), input.Username, input.Email, string(hash))
	if err != nil {
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			if strings.Contains(e.Constraint, "email") {
				JSONError(w, "email already registered", http.StatusBadRequest)
			} else {
				JSONError(w, "username already exists", http.StatusBadRequest)
			}
			return
		}
		slog.Error("Register: create user", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	access, refresh, err := h.issuePair(user.ID)
	if err != nil {
		slog.Error("Register: issue tokens", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSONResponse(w, map[string]interface{}{
		"access_token":  access,
		"refresh_token": refresh,
		"user":          user,
	}, http.StatusCreated)
}

// ==========================
// Login (identifier is username or email)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		JSONError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByUsernameOrEmail(r.Context(), input.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.IncLogins("failure")
			JSONError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		slog.Error("Login: lookup user", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		metrics.IncLogins("failure")
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	access, refresh, err := h.issuePair(user.ID)
	if err != nil {
		slog.Error("Login: issue tokens", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	metrics.IncLogins("success")

	JSONResponse(w, map[string]interface{}{
		"access_token":  access,
		"refresh_token": refresh,
		"user":          user,
	}, http.StatusOK)
}

// ==========================
// Refresh (requires a refresh token; the refresh token itself is not rotated)
// ==========================
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	tokenStr := middleware.BearerToken(r)
	if tokenStr == "" {
		JSONError(w, "missing authorization header", http.StatusUnauthorized)
		return
	}

	userID, err := h.Issuer.Verify(tokenStr, auth.KindRefresh)
	if err != nil {
		JSONError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if _, err := h.UserRepo.GetByID(r.Context(), userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "user not found", http.StatusNotFound)
			return
		}
		slog.Error("Refresh: lookup user", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	access, err := h.Issuer.IssueAccess(userID)
	if err != nil {
		slog.Error("Refresh: issue token", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSONResponse(w, map[string]string{"access_token": access}, http.StatusOK)
}

// ==========================
// Me (requires access token via middleware)
// ==========================
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "missing authorization header", http.StatusUnauthorized)
		return
	}

	user, err := h.UserRepo.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "user not found", http.StatusNotFound)
			return
		}
		slog.Error("Me: lookup user", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSONResponse(w, map[string]interface{}{"user": user}, http.StatusOK)
}

func (h *AuthHandler) issuePair(userID int) (access, refresh string, err error) {
	access, err = h.Issuer.IssueAccess(userID)
	if err != nil {
		return "", "", err
	}
	refresh, err = h.Issuer.IssueRefresh(userID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// validationFields maps validator errors to per-field messages.
func validationFields(err error) map[string]string {
	fields := make(map[string]string)
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fields
	}
	for _, fe := range errs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = "required"
		case "min":
			fields[name] = "must be at least " + fe.Param() + " characters"
		case "max":
			fields[name] = "must be at most " + fe.Param() + " characters"
		case "email":
			fields[name] = "must be a valid email address"
		default:
			fields[name] = "invalid"
		}
	}
	return fields
}
