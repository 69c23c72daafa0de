// Package storage implements the persistent collaborators over PostgreSQL.
package storage

import (
	"context"

	"hr-intake-bot/internal/models"
)

// ActorStore is the actor registry.
type ActorStore interface {
	GetOrCreate(ctx context.Context, id int64, username, displayName string) (*models.Actor, error)
}

// DepartmentStore is the shared department catalog. Insert rejects
// duplicate titles (case-insensitive) instead of overwriting.
type DepartmentStore interface {
	List(ctx context.Context) ([]models.Department, error)
	Get(ctx context.Context, id int64) (*models.Department, error)
	Insert(ctx context.Context, title, description, imageRef string) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// ApplicationStore persists finished questionnaires. Commit writes the
// primary record and all collection rows in one transaction; a partial
// application is never visible.
type ApplicationStore interface {
	Commit(ctx context.Context, actorID int64, form *models.ApplicationForm, cols *models.Collections) (int64, error)
}
