package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/crucial707/family-tree-api/internal/metrics"
	"github.com/crucial707/family-tree-api/internal/middleware"
	"github.com/crucial707/family-tree-api/internal/models"
	"github.com/crucial707/family-tree-api/internal/repo"
	"github.com/go-chi/chi/v5"
)

// ==========================
// TreeHandler
// ==========================
type TreeHandler struct {
	Repo     *repo.TreeRepo
	UserRepo *repo.UserRepo
}

// ==========================
// List Trees (authenticated; most recently updated first)
// ==========================
func (h *TreeHandler) ListTrees(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "missing authorization header", http.StatusUnauthorized)
		return
	}

	if _, err := h.UserRepo.GetByID(r.Context(), userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "user not found", http.StatusNotFound)
			return
		}
		slog.Error("ListTrees: lookup user", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	trees, err := h.Repo.ListByUser(r.Context(), userID)
	if err != nil {
		slog.Error("ListTrees", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if trees == nil {
		trees = []models.Tree{}
	}

	JSONResponse(w, map[string]interface{}{"trees": trees}, http.StatusOK)
}

type createTreeInput struct {
	Name            string            `json:"name"`
	Data            models.JSONObject `json:"data"`
	BackgroundImage string            `json:"background_image"`
}

// ==========================
// Create Tree (token optional; owner is the caller when a valid token is present)
// ==========================
func (h *TreeHandler) CreateTree(w http.ResponseWriter, r *http.Request) {
	var owner *int
	if id, ok := middleware.GetUserID(r.Context()); ok {
		owner = &id
	}
	h.createTree(w, r, owner, ownership(owner))
}

// ==========================
// Create Anonymous Tree (owner is always null, even with a valid token)
// ==========================
func (h *TreeHandler) CreateAnonymousTree(w http.ResponseWriter, r *http.Request) {
	h.createTree(w, r, nil, "anonymous")
}

func (h *TreeHandler) createTree(w http.ResponseWriter, r *http.Request, owner *int, owned string) {
	var input createTreeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		JSONError(w, "tree name is required", http.StatusBadRequest)
		return
	}

	data := input.Data
	if data == nil {
		data = models.JSONObject{}
	}
	background := input.BackgroundImage
	if background == "" {
		background = models.DefaultBackground
	}

	tree, err := h.Repo.Create(r.Context(), name, owner, data, background)
	if err != nil {
		slog.Error("CreateTree", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	metrics.IncTreesCreated(owned)

	JSONResponse(w, map[string]interface{}{"tree": tree}, http.StatusCreated)
}

// ==========================
// Get Tree (token optional; owned trees are only visible to their owner)
// ==========================
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, ok := h.fetchTree(w, r)
	if !ok {
		return
	}

	if !canAccess(tree, caller(r)) {
		JSONError(w, "access denied", http.StatusForbidden)
		return
	}

	JSONResponse(w, map[string]interface{}{"tree": tree}, http.StatusOK)
}

// ==========================
// Update Tree (partial; absent fields are left untouched)
// ==========================
func (h *TreeHandler) UpdateTree(w http.ResponseWriter, r *http.Request) {
	tree, ok := h.fetchTree(w, r)
	if !ok {
		return
	}

	if !canAccess(tree, caller(r)) {
		JSONError(w, "access denied", http.StatusForbidden)
		return
	}

	var input struct {
		Name            *string            `json:"name"`
		Data            *models.JSONObject `json:"data"`
		BackgroundImage *string            `json:"background_image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	name := tree.Name
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
		if name == "" {
			JSONError(w, "tree name cannot be empty", http.StatusBadRequest)
			return
		}
	}

	// Payload replacement is wholesale; there is no merge.
	data := tree.Data
	if input.Data != nil {
		data = *input.Data
		if data == nil {
			data = models.JSONObject{}
		}
	}

	background := tree.BackgroundImage
	if input.BackgroundImage != nil {
		background = *input.BackgroundImage
	}

	updated, err := h.Repo.Update(r.Context(), tree.ID, name, data, background)
	if err != nil {
		slog.Error("UpdateTree", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSONResponse(w, map[string]interface{}{"tree": updated}, http.StatusOK)
}

// ==========================
// Delete Tree (authenticated; only the owner may delete)
// ==========================
func (h *TreeHandler) DeleteTree(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "missing authorization header", http.StatusUnauthorized)
		return
	}

	tree, ok := h.fetchTree(w, r)
	if !ok {
		return
	}

	if !canDelete(tree, userID) {
		JSONError(w, "access denied", http.StatusForbidden)
		return
	}

	if err := h.Repo.Delete(r.Context(), tree.ID); err != nil {
		if errors.Is(err, repo.ErrTreeNotFound) {
			JSONError(w, "tree not found", http.StatusNotFound)
			return
		}
		slog.Error("DeleteTree", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSONResponse(w, map[string]string{"message": "tree deleted"}, http.StatusOK)
}

// fetchTree parses the id URL param and loads the tree, writing the error
// response itself when either step fails.
func (h *TreeHandler) fetchTree(w http.ResponseWriter, r *http.Request) (models.Tree, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid tree id", http.StatusBadRequest)
		return models.Tree{}, false
	}

	tree, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "tree not found", http.StatusNotFound)
		} else {
			slog.Error("fetchTree", "error", err)
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		}
		return models.Tree{}, false
	}
	return tree, true
}

// caller returns the optional caller identity resolved by OptionalAuth.
func caller(r *http.Request) *int {
	if id, ok := middleware.GetUserID(r.Context()); ok {
		return &id
	}
	return nil
}

func ownership(owner *int) string {
	if owner != nil {
		return "owned"
	}
	return "anonymous"
}
