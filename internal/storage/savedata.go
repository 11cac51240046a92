// Package storage persists and restores play sessions. A save captures the
// full mutable surface of a session: the session state snapshot, every
// inventory, where every thing sits, container and vehicle state, and
// backdrop presence. Three backends implement the store: flat files, Redis,
// and PostgreSQL.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/fable/internal/game/state"
)

// ErrSaveNotFound is returned when a save lookup yields no results.
var ErrSaveNotFound = errors.New("save not found")

// Placement records where a thing sits and its mutable surface state.
// ParentID and Location mirror the ownership forest: a thing has either an
// owner or a top-level location tag, never both in effect at once.
type Placement struct {
	ParentID    string `json:"parent_id,omitempty"`
	Location    string `json:"location,omitempty"`
	Open        bool   `json:"open,omitempty"`
	Locked      bool   `json:"locked,omitempty"`
	Operational bool   `json:"operational,omitempty"`
}

// SaveData is one complete serialized session.
type SaveData struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	StoryTitle  string               `json:"story_title"`
	SavedAt     time.Time            `json:"saved_at"`
	State       state.Snapshot       `json:"state"`
	Inventories map[string][]string  `json:"inventories"`
	Placements  map[string]Placement `json:"placements"`
	Presence    map[string][]string  `json:"presence"`
}

// Summarize reduces a save to its listing metadata.
func (d SaveData) Summarize() Summary {
	return Summary{
		ID:         d.ID,
		Name:       d.Name,
		StoryTitle: d.StoryTitle,
		SavedAt:    d.SavedAt,
		TurnCount:  d.State.TurnCount,
	}
}

// Summary is the listing metadata of one save.
type Summary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StoryTitle string    `json:"story_title"`
	SavedAt    time.Time `json:"saved_at"`
	TurnCount  int       `json:"turn_count"`
}

// NewSaveID mints a fresh save identifier.
func NewSaveID() string {
	return uuid.NewString()
}

// SaveStore persists saves. Save upserts by ID; List returns newest first.
type SaveStore interface {
	Save(ctx context.Context, data SaveData) error
	Load(ctx context.Context, id string) (SaveData, error)
	List(ctx context.Context) ([]Summary, error)
	Latest(ctx context.Context) (SaveData, error)
	Delete(ctx context.Context, id string) error
}
