package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/family-tree-api/internal/models"
)

// ErrTreeNotFound is returned by Delete when no row matched the id.
var ErrTreeNotFound = errors.New("tree not found")

// ==========================
// TreeRepo
// ==========================
type TreeRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewTreeRepo(db *sql.DB) *TreeRepo {
	return &TreeRepo{DB: db}
}

// ==========================
// Create Tree
// ==========================
// userID nil creates an anonymous tree.
func (r *TreeRepo) Create(ctx context.Context, name string, userID *int, data models.JSONObject, background string) (models.Tree, error) {
	var tree models.Tree
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO trees (name, user_id, data, background_image)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, user_id, data, background_image, created_at, updated_at`,
		name, userID, data, background,
	).Scan(
		&tree.ID,
		&tree.Name,
		&tree.UserID,
		&tree.Data,
		&tree.BackgroundImage,
		&tree.CreatedAt,
		&tree.UpdatedAt,
	)
	return tree, err
}

// ==========================
// Get Tree By ID
// ==========================
func (r *TreeRepo) GetByID(ctx context.Context, id int) (models.Tree, error) {
	var tree models.Tree
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, user_id, data, background_image, created_at, updated_at
		 FROM trees
		 WHERE id = $1`,
		id,
	).Scan(
		&tree.ID,
		&tree.Name,
		&tree.UserID,
		&tree.Data,
		&tree.BackgroundImage,
		&tree.CreatedAt,
		&tree.UpdatedAt,
	)
	return tree, err
}

// ==========================
// List Trees By User
// ==========================
// Most recently updated first.
func (r *TreeRepo) ListByUser(ctx context.Context, userID int) ([]models.Tree, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, user_id, data, background_image, created_at, updated_at
		 FROM trees
		 WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trees []models.Tree
	for rows.Next() {
		var t models.Tree
		if err := rows.Scan(&t.ID, &t.Name, &t.UserID, &t.Data, &t.BackgroundImage, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	return trees, rows.Err()
}

// ==========================
// Update Tree By ID
// ==========================
// Writes the fully resolved fields (partial-update merging happens in the
// handler, which already holds the current row) and refreshes updated_at.
func (r *TreeRepo) Update(ctx context.Context, id int, name string, data models.JSONObject, background string) (models.Tree, error) {
	var tree models.Tree
	err := r.DB.QueryRowContext(ctx,
		`UPDATE trees
		 SET name = $1, data = $2, background_image = $3, updated_at = now()
		 WHERE id = $4
		 RETURNING id, name, user_id, data, background_image, created_at, updated_at`,
		name, data, background, id,
	).Scan(
		&tree.ID,
		&tree.Name,
		&tree.UserID,
		&tree.Data,
		&tree.BackgroundImage,
		&tree.CreatedAt,
		&tree.UpdatedAt,
	)
	return tree, err
}

// ==========================
// Delete Tree By ID
// ==========================
func (r *TreeRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM trees WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTreeNotFound
	}

	return nil
}
