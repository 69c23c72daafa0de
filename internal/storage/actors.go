package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hr-intake-bot/internal/models"
)

// ActorRepo implements ActorStore over PostgreSQL.
type ActorRepo struct {
	db *sql.DB
}

func NewActorRepo(db *sql.DB) *ActorRepo {
	return &ActorRepo{db: db}
}

// GetOrCreate returns the actor, registering them on first contact.
func (r *ActorRepo) GetOrCreate(ctx context.Context, id int64, username, displayName string) (*models.Actor, error) {
	actor := &models.Actor{ID: id}
	err := r.db.QueryRowContext(ctx, `
		SELECT username, display_name, form_id, is_employee, registered_at
		FROM actors WHERE actor_id = $1`, id).
		Scan(&actor.Username, &actor.DisplayName, &actor.FormID, &actor.IsEmployee, &actor.RegisteredAt)
	if err == nil {
		return actor, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("actor lookup: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO actors (actor_id, username, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (actor_id) DO UPDATE SET username = EXCLUDED.username
		RETURNING username, display_name, form_id, is_employee, registered_at`,
		id, username, displayName).
		Scan(&actor.Username, &actor.DisplayName, &actor.FormID, &actor.IsEmployee, &actor.RegisteredAt)
	if err != nil {
		return nil, fmt.Errorf("actor insert: %w", err)
	}
	return actor, nil
}
