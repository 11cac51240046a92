package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fable/internal/game/ui"
	"github.com/cory-johannsen/fable/internal/storage"
)

// SaveGame captures the session under the given name.
func (e *Engine) SaveGame(ctx context.Context, name string) (storage.Summary, error) {
	if e.store == nil {
		return storage.Summary{}, ErrNoStore
	}
	if name == "" {
		name = fmt.Sprintf("turn %d", e.world.State.TurnCount())
	}
	data := storage.Capture(e.world, name)
	if err := e.store.Save(ctx, data); err != nil {
		return storage.Summary{}, err
	}
	e.logger.Info("session saved",
		zap.String("id", data.ID),
		zap.String("name", name),
	)
	ui.Success(e.emit, fmt.Sprintf("Saved %q.", name))
	return data.Summarize(), nil
}

// LoadGame restores a save into the running session. An empty ID loads the
// most recent save.
func (e *Engine) LoadGame(ctx context.Context, id string) error {
	if e.store == nil {
		return ErrNoStore
	}
	var (
		data storage.SaveData
		err  error
	)
	if id == "" {
		data, err = e.store.Latest(ctx)
	} else {
		data, err = e.store.Load(ctx, id)
	}
	if err != nil {
		return err
	}
	if err := storage.Apply(e.world, data); err != nil {
		return fmt.Errorf("restoring save %s: %w", data.ID, err)
	}
	e.logger.Info("session restored",
		zap.String("id", data.ID),
		zap.String("name", data.Name),
		zap.Int("turn", data.State.TurnCount),
	)
	ui.Success(e.emit, fmt.Sprintf("Restored %q.", data.Name))
	e.proc.ShowLocation()
	return nil
}

// ListSaves returns the metadata of every save, newest first.
func (e *Engine) ListSaves(ctx context.Context) ([]storage.Summary, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	return e.store.List(ctx)
}
