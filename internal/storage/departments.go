package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	boterrors "hr-intake-bot/internal/common/errors"
	"hr-intake-bot/internal/models"
)

// DepartmentRepo implements DepartmentStore over PostgreSQL. Title
// uniqueness is enforced by the unique index on the lower-cased column;
// the repo lower-cases on write so the check is case-insensitive.
type DepartmentRepo struct {
	db *sql.DB
}

func NewDepartmentRepo(db *sql.DB) *DepartmentRepo {
	return &DepartmentRepo{db: db}
}

// List returns the whole catalog ordered ascending by id.
func (r *DepartmentRepo) List(ctx context.Context) ([]models.Department, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT department_id, title, COALESCE(description, ''), COALESCE(image_ref, '')
		FROM departments ORDER BY department_id`)
	if err != nil {
		return nil, fmt.Errorf("department list: %w", err)
	}
	defer rows.Close()

	var out []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Title, &d.Description, &d.ImageRef); err != nil {
			return nil, fmt.Errorf("department scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Get returns one catalog entry or ErrDepartmentNotFound.
func (r *DepartmentRepo) Get(ctx context.Context, id int64) (*models.Department, error) {
	d := &models.Department{ID: id}
	err := r.db.QueryRowContext(ctx, `
		SELECT title, COALESCE(description, ''), COALESCE(image_ref, '')
		FROM departments WHERE department_id = $1`, id).
		Scan(&d.Title, &d.Description, &d.ImageRef)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", boterrors.ErrDepartmentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("department get: %w", err)
	}
	return d, nil
}

// Insert adds a catalog entry, rejecting duplicate titles.
func (r *DepartmentRepo) Insert(ctx context.Context, title, description, imageRef string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO departments (title, description, image_ref)
		VALUES ($1, $2, $3)
		RETURNING department_id`,
		strings.ToLower(strings.TrimSpace(title)), description, imageRef).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, fmt.Errorf("%w: %s", boterrors.ErrDuplicateDepartment, title)
		}
		return 0, fmt.Errorf("department insert: %w", err)
	}
	return id, nil
}

// Delete removes a catalog entry. Deleting a missing entry is a no-op.
func (r *DepartmentRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE department_id = $1`, id); err != nil {
		return fmt.Errorf("department delete: %w", err)
	}
	return nil
}
