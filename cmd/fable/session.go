package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fable/internal/engine"
	"github.com/cory-johannsen/fable/internal/storage"
)

// session reads player input line by line and feeds it to the engine.
// Meta commands (save, load, saves, quit) are handled here so they never
// consume a story turn.
type session struct {
	engine *engine.Engine
	in     io.Reader
	out    io.Writer
	logger *zap.Logger

	done     chan struct{}
	stopOnce sync.Once
}

func newSession(eng *engine.Engine, in io.Reader, out io.Writer, logger *zap.Logger) *session {
	return &session{
		engine: eng,
		in:     in,
		out:    out,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Run blocks until the player quits, the story finishes, input reaches EOF,
// or Stop is called.
func (s *session) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	for {
		select {
		case <-s.done:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if s.handleMeta(ctx, line) {
			return nil
		}
		if s.engine.Finished() {
			fmt.Fprintln(s.out, "Thanks for playing.")
			return nil
		}
	}
}

// Stop unblocks Run before its next prompt.
func (s *session) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// handleMeta dispatches a line of input and reports whether the session
// should end.
func (s *session) handleMeta(ctx context.Context, line string) bool {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "quit":
		fmt.Fprintln(s.out, "Goodbye.")
		return true
	case "save":
		s.saveGame(ctx, rest)
	case "load", "restore":
		s.loadGame(ctx, rest)
	case "saves":
		s.listSaves(ctx)
	default:
		if err := s.engine.HandleInput(ctx, line); err != nil {
			s.logger.Error("handling input", zap.Error(err))
		}
	}
	return false
}

func (s *session) saveGame(ctx context.Context, name string) {
	if _, err := s.engine.SaveGame(ctx, name); err != nil {
		if errors.Is(err, engine.ErrNoStore) {
			fmt.Fprintln(s.out, "Saving is not available.")
			return
		}
		s.logger.Error("saving game", zap.Error(err))
		fmt.Fprintln(s.out, "The save could not be written.")
	}
}

func (s *session) loadGame(ctx context.Context, id string) {
	if id == "latest" {
		id = ""
	}
	if err := s.engine.LoadGame(ctx, id); err != nil {
		switch {
		case errors.Is(err, engine.ErrNoStore):
			fmt.Fprintln(s.out, "Loading is not available.")
		case errors.Is(err, storage.ErrSaveNotFound):
			fmt.Fprintln(s.out, "No such save.")
		default:
			s.logger.Error("restoring game", zap.Error(err))
			fmt.Fprintln(s.out, "The save could not be restored.")
		}
	}
}

func (s *session) listSaves(ctx context.Context) {
	summaries, err := s.engine.ListSaves(ctx)
	if err != nil {
		if errors.Is(err, engine.ErrNoStore) {
			fmt.Fprintln(s.out, "Saving is not available.")
			return
		}
		s.logger.Error("listing saves", zap.Error(err))
		fmt.Fprintln(s.out, "Saved games could not be listed.")
		return
	}
	if len(summaries) == 0 {
		fmt.Fprintln(s.out, "There are no saved games.")
		return
	}
	for _, sum := range summaries {
		fmt.Fprintf(s.out, "%s  %s (turn %d, %s)\n",
			sum.ID, sum.Name, sum.TurnCount, sum.SavedAt.Format("2006-01-02 15:04"))
	}
}
