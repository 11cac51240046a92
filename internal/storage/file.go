package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// FileStore persists saves as JSON files in a directory, one file per save,
// named <id>.json.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
//
// Precondition: logger must be non-nil; use zap.NewNop() to discard.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid save ID %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Save writes the save to disk, replacing any previous file with the same ID.
// The write goes through a temp file and rename so a crash cannot leave a
// truncated save behind.
func (s *FileStore) Save(ctx context.Context, data SaveData) error {
	path, err := s.path(data.ID)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding save %s: %w", data.ID, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("writing save %s: %w", data.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("committing save %s: %w", data.ID, err)
	}
	s.logger.Debug("save written",
		zap.String("id", data.ID),
		zap.String("name", data.Name),
	)
	return nil
}

// Load reads one save by ID.
func (s *FileStore) Load(ctx context.Context, id string) (SaveData, error) {
	path, err := s.path(id)
	if err != nil {
		return SaveData{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SaveData{}, ErrSaveNotFound
		}
		return SaveData{}, fmt.Errorf("reading save %s: %w", id, err)
	}
	var data SaveData
	if err := json.Unmarshal(raw, &data); err != nil {
		return SaveData{}, fmt.Errorf("decoding save %s: %w", id, err)
	}
	return data, nil
}

// List returns the metadata of every save, newest first. Unreadable files
// are skipped with a warning rather than failing the whole listing.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading save directory %s: %w", s.dir, err)
	}
	var out []Summary
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		data, err := s.Load(ctx, id)
		if err != nil {
			s.logger.Warn("skipping unreadable save file",
				zap.String("file", e.Name()),
				zap.Error(err),
			)
			continue
		}
		out = append(out, data.Summarize())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}

// Latest returns the most recently written save.
func (s *FileStore) Latest(ctx context.Context) (SaveData, error) {
	summaries, err := s.List(ctx)
	if err != nil {
		return SaveData{}, err
	}
	if len(summaries) == 0 {
		return SaveData{}, ErrSaveNotFound
	}
	return s.Load(ctx, summaries[0].ID)
}

// Delete removes one save by ID.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrSaveNotFound
		}
		return fmt.Errorf("deleting save %s: %w", id, err)
	}
	return nil
}
