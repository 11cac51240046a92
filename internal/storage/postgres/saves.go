package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/fable/internal/storage"
)

// SaveRepository provides save persistence operations. The full save body
// lives in a JSONB column; the listing metadata is broken out into indexed
// columns so List never decodes bodies.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Save upserts the save by ID.
//
// Precondition: data.ID must be a valid UUID string.
func (r *SaveRepository) Save(ctx context.Context, data storage.SaveData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding save %s: %w", data.ID, err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO saves (id, name, story_title, saved_at, turn_count, data)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name,
		     story_title = EXCLUDED.story_title,
		     saved_at = EXCLUDED.saved_at,
		     turn_count = EXCLUDED.turn_count,
		     data = EXCLUDED.data`,
		data.ID, data.Name, data.StoryTitle, data.SavedAt, data.State.TurnCount, raw,
	)
	if err != nil {
		return fmt.Errorf("inserting save %s: %w", data.ID, err)
	}
	return nil
}

// Load reads one save by ID.
//
// Postcondition: returns storage.ErrSaveNotFound when no row matches.
func (r *SaveRepository) Load(ctx context.Context, id string) (storage.SaveData, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT data FROM saves WHERE id = $1`, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.SaveData{}, storage.ErrSaveNotFound
		}
		return storage.SaveData{}, fmt.Errorf("querying save %s: %w", id, err)
	}
	var data storage.SaveData
	if err := json.Unmarshal(raw, &data); err != nil {
		return storage.SaveData{}, fmt.Errorf("decoding save %s: %w", id, err)
	}
	return data, nil
}

// List returns the metadata of every save, newest first.
func (r *SaveRepository) List(ctx context.Context) ([]storage.Summary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, story_title, saved_at, turn_count
		 FROM saves ORDER BY saved_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying saves: %w", err)
	}
	defer rows.Close()

	var out []storage.Summary
	for rows.Next() {
		var s storage.Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.StoryTitle, &s.SavedAt, &s.TurnCount); err != nil {
			return nil, fmt.Errorf("scanning save row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating save rows: %w", err)
	}
	return out, nil
}

// Latest returns the most recently written save.
func (r *SaveRepository) Latest(ctx context.Context) (storage.SaveData, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT data FROM saves ORDER BY saved_at DESC LIMIT 1`,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.SaveData{}, storage.ErrSaveNotFound
		}
		return storage.SaveData{}, fmt.Errorf("querying latest save: %w", err)
	}
	var data storage.SaveData
	if err := json.Unmarshal(raw, &data); err != nil {
		return storage.SaveData{}, fmt.Errorf("decoding latest save: %w", err)
	}
	return data, nil
}

// Delete removes one save by ID.
//
// Postcondition: returns storage.ErrSaveNotFound when no row matched.
func (r *SaveRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting save %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrSaveNotFound
	}
	return nil
}
