// Package main provides the interactive fiction runtime binary: it loads a
// story, wires the save backend and the optional model collaborator, and
// runs the player's terminal session.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fable/internal/config"
	"github.com/cory-johannsen/fable/internal/engine"
	"github.com/cory-johannsen/fable/internal/frontend/console"
	"github.com/cory-johannsen/fable/internal/game/ai"
	"github.com/cory-johannsen/fable/internal/game/world"
	"github.com/cory-johannsen/fable/internal/observability"
	"github.com/cory-johannsen/fable/internal/scripting"
	"github.com/cory-johannsen/fable/internal/server"
	"github.com/cory-johannsen/fable/internal/storage"
	"github.com/cory-johannsen/fable/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	storyPath := flag.String("story", "", "story YAML file; overrides the configured story")
	loadSave := flag.String("load", "", `save to restore: an ID, or "latest"`)
	noColor := flag.Bool("no-color", false, "disable ANSI color output")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *storyPath != "" {
		cfg.Engine.StoryPath = *storyPath
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Load and build the story world.
	storyStart := time.Now()
	def, err := world.LoadFromFile(cfg.Engine.StoryPath)
	if err != nil {
		logger.Fatal("loading story", zap.Error(err))
	}
	w, err := world.Build(def, logger)
	if err != nil {
		logger.Fatal("building world", zap.Error(err))
	}
	logger.Info("story loaded",
		zap.String("title", def.Meta.Title),
		zap.Int("rooms", w.Spatial.RoomCount()),
		zap.Int("things", w.Spatial.ThingCount()),
		zap.Duration("elapsed", time.Since(storyStart)),
	)

	store, closeStore := openSaveStore(ctx, cfg, logger)

	// Load story scripts when the story declares them.
	var scripts *scripting.Manager
	if def.Meta.ScriptDir != "" {
		scripts = scripting.NewManager(logger)
		limit := def.Meta.ScriptInstructionLimit
		if limit <= 0 {
			limit = scripting.DefaultInstructionLimit
		}
		if err := scripts.Load(def.Meta.ScriptDir, limit); err != nil {
			logger.Fatal("loading story scripts", zap.Error(err))
		}
		logger.Info("story scripts loaded", zap.String("dir", def.Meta.ScriptDir))
	}

	var collab ai.Collaborator
	if cfg.AI.Enabled() {
		mc, err := ai.NewModelCollaborator(ai.ModelConfig{
			APIKey:         cfg.AI.APIKey,
			Model:          cfg.AI.Model,
			MaxTokens:      cfg.AI.MaxTokens,
			RequestTimeout: cfg.AI.RequestTimeout,
		}, logger)
		if err != nil {
			logger.Fatal("creating model collaborator", zap.Error(err))
		}
		collab = mc
		logger.Info("model collaborator enabled", zap.String("model", cfg.AI.Model))
	} else {
		logger.Info("no API key configured, using deterministic parser")
	}

	renderer := console.NewRenderer(os.Stdout, !*noColor)
	eng := engine.New(w, renderer.Sink(), logger, engine.Options{
		Collaborator: collab,
		Scripts:      scripts,
		Store:        store,
		Narrate:      cfg.AI.Narrate,
	})

	if *loadSave != "" {
		id := *loadSave
		if id == "latest" {
			id = ""
		}
		if err := eng.LoadGame(ctx, id); err != nil {
			logger.Fatal("restoring save", zap.Error(err))
		}
	} else {
		eng.Start()
	}

	logger.Info("session ready", zap.Duration("startup", time.Since(start)))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := newSession(eng, os.Stdin, os.Stdout, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("session", &server.FuncService{
		StartFn: func() error {
			defer cancel()
			return session.Run(ctx)
		},
		StopFn: session.Stop,
	})
	if scripts != nil {
		lifecycle.Add("scripting", &server.FuncService{
			StartFn: func() error { <-ctx.Done(); return nil },
			StopFn:  scripts.Close,
		})
	}
	if closeStore != nil {
		lifecycle.Add("saves", &server.FuncService{
			StartFn: func() error { <-ctx.Done(); return nil },
			StopFn:  closeStore,
		})
	}

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("session error", zap.Error(err))
	}
}

// openSaveStore builds the configured save backend. The second return value
// closes backend resources, nil when there is nothing to close.
func openSaveStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.SaveStore, func()) {
	switch cfg.Saves.Backend {
	case config.SaveBackendFile:
		store, err := storage.NewFileStore(cfg.Saves.Dir, logger)
		if err != nil {
			logger.Fatal("opening save directory", zap.Error(err))
		}
		return store, nil
	case config.SaveBackendRedis:
		client, err := storage.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("connecting to redis", zap.Error(err))
		}
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr()))
		store := storage.NewRedisStore(client)
		return store, func() { _ = store.Close() }
	case config.SaveBackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected", zap.String("host", cfg.Database.Host))
		return postgres.NewSaveRepository(pool.DB()), pool.Close
	default:
		logger.Fatal("unknown save backend", zap.String("backend", cfg.Saves.Backend))
		return nil, nil
	}
}
