// Package engine drives the turn loop. Each turn it builds a scene, parses
// the player's input into an intent, executes it, fires event rules and
// script hooks, and optionally rewrites the mechanical result as prose.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/fable/internal/game/ai"
	"github.com/cory-johannsen/fable/internal/game/command"
	"github.com/cory-johannsen/fable/internal/game/rules"
	"github.com/cory-johannsen/fable/internal/game/state"
	"github.com/cory-johannsen/fable/internal/game/ui"
	"github.com/cory-johannsen/fable/internal/game/world"
	"github.com/cory-johannsen/fable/internal/scripting"
	"github.com/cory-johannsen/fable/internal/storage"
)

// ErrNoStore is returned by save operations when no save store is configured.
var ErrNoStore = errors.New("saving is not configured")

// Options wires the engine's optional collaborators.
type Options struct {
	// Collaborator handles intent parsing, narration, and dialogue. nil
	// falls back to the deterministic StaticCollaborator.
	Collaborator ai.Collaborator
	// Scripts is the story's Lua hook manager. nil disables hooks.
	Scripts *scripting.Manager
	// Store persists sessions. nil disables save and load.
	Store storage.SaveStore
	// Narrate rewrites mechanical results as model prose.
	Narrate bool
}

// Engine owns one play session.
type Engine struct {
	world    *world.World
	proc     *command.Processor
	runner   *rules.Runner
	collab   ai.Collaborator
	fallback *ai.StaticCollaborator
	scripts  *scripting.Manager
	store    storage.SaveStore
	emit     ui.Sink
	logger   *zap.Logger
	narrate  bool

	// buffer collects message events during a narrated turn. nil when not
	// collecting.
	buffer []ui.MessageDisplay
}

// New builds an engine over a built world.
//
// Precondition: w has been produced by world.Build; emit and logger must be
// non-nil.
func New(w *world.World, emit ui.Sink, logger *zap.Logger, opts Options) *Engine {
	e := &Engine{
		world:    w,
		fallback: ai.NewStaticCollaborator(),
		scripts:  opts.Scripts,
		store:    opts.Store,
		emit:     emit,
		logger:   logger,
		narrate:  opts.Narrate,
	}
	e.collab = opts.Collaborator
	if e.collab == nil {
		e.collab = e.fallback
		e.narrate = false
	}
	e.proc = command.NewProcessor(w, e.route, logger)
	e.runner = rules.NewRunner(w.State, w.Inventory, w.Spatial, e.route, logger)
	if e.scripts != nil {
		e.bindScripts()
	}
	return e
}

// route forwards events to the outer sink, detouring message events into the
// narration buffer while one is open.
func (e *Engine) route(ev ui.Event) {
	if e.buffer != nil {
		if msg, ok := ev.(ui.MessageDisplay); ok {
			e.buffer = append(e.buffer, msg)
			return
		}
	}
	e.emit(ev)
}

func (e *Engine) bindScripts() {
	st := e.world.State
	e.scripts.GetFlag = st.Flag
	e.scripts.SetFlag = st.SetFlag
	e.scripts.GetCounter = st.Counter
	e.scripts.SetCounter = st.SetCounter
	e.scripts.AddCounter = st.AddCounter
	e.scripts.CurrentLocation = st.CurrentLocation
	e.scripts.TurnCount = st.TurnCount
	e.scripts.Say = func(text string) { ui.Info(e.route, text) }
}

// Start opens the session: title, opening text, the starting room, and the
// on_start script hook.
func (e *Engine) Start() {
	e.emit(ui.GameStart{
		Title:  e.world.Def.Meta.Title,
		Author: e.world.Def.Meta.Author,
	})
	if text := e.world.Def.Meta.OpeningText; text != "" {
		ui.Info(e.emit, text)
	}
	e.proc.ShowLocation()
	if e.scripts != nil {
		e.scripts.CallHook("on_start")
	}
}

// Finished reports whether the session has ended.
func (e *Engine) Finished() bool {
	return e.world.State.GameOver()
}

// HandleInput runs one full turn from raw player input.
//
// Postcondition: the turn counter advances iff the action took effect;
// event rules and script hooks fire only on effective turns.
func (e *Engine) HandleInput(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	scene := e.BuildScene()
	intent, err := e.collab.ParseIntent(ctx, input, scene)
	if err != nil {
		if e.collab != ai.Collaborator(e.fallback) {
			e.logger.Warn("model intent parse failed, using fallback",
				zap.Error(err))
			intent, err = e.fallback.ParseIntent(ctx, input, scene)
		}
		if err != nil {
			ui.Error(e.emit, "I don't understand that.")
			return nil
		}
	}
	e.logger.Debug("intent parsed",
		zap.String("input", input),
		zap.String("intent", intent.String()))

	if e.narrate {
		e.buffer = []ui.MessageDisplay{}
	}

	res := e.proc.Execute(intent)

	if res.NeedsDialogue {
		res.Succeeded = e.improviseDialogue(ctx, scene, res)
	}

	if res.Succeeded {
		e.world.State.IncrementTurn()
		e.fireEvents(res.LocationChanged)
		e.fireHooks(res.LocationChanged)
	}

	if e.narrate {
		e.flushNarration(ctx, scene, intent, res.Succeeded)
	}
	return nil
}

// improviseDialogue asks the collaborator for an unscripted character reply.
// Reports whether a reply was produced.
func (e *Engine) improviseDialogue(ctx context.Context, scene ai.Scene, res command.Result) bool {
	character, ok := e.world.Spatial.Thing(res.CharacterID)
	if !ok {
		return false
	}
	req := ai.ConversationRequest{
		Scene:         scene,
		CharacterID:   character.ID,
		CharacterName: character.Name,
		Persona:       e.persona(character.ID, character.Description),
		Topic:         res.Topic,
		PlayerLine:    res.PlayerLine,
	}
	for _, entry := range e.world.State.ConversationHistory(character.ID) {
		req.History = append(req.History, ai.ConversationTurn{
			FromPlayer: entry.Speaker == state.SpeakerPlayer,
			Message:    entry.Message,
		})
	}

	reply, err := e.collab.Respond(ctx, req)
	if err != nil || reply == "" {
		e.logger.Debug("no improvised reply", zap.String("character", character.ID), zap.Error(err))
		ui.Info(e.route, fmt.Sprintf("%s has nothing to say about that.", character.Name))
		return false
	}
	e.proc.RecordDialogue(character.ID, res.PlayerLine, reply)
	e.world.State.RecordAction(res.PlayerLine)
	return true
}

// persona folds a character's profile into one description the responder
// can stay in voice with.
func (e *Engine) persona(characterID, description string) string {
	profile := e.world.Profile(characterID)
	parts := []string{description}
	if profile.Personality != "" {
		parts = append(parts, "Personality: "+profile.Personality)
	}
	if len(profile.Knowledge) > 0 {
		parts = append(parts, "Knows: "+strings.Join(profile.Knowledge, "; "))
	}
	if len(profile.Constraints) > 0 {
		parts = append(parts, "Must not: "+strings.Join(profile.Constraints, "; "))
	}
	return strings.Join(parts, "\n")
}

// fireEvents runs the story's event rules for the just-completed turn.
func (e *Engine) fireEvents(locationChanged bool) {
	for i := range e.world.Def.Rules.Events {
		r := &e.world.Def.Rules.Events[i]
		if e.world.State.GameOver() {
			return
		}

		fire := false
		switch r.Trigger.Type {
		case rules.TriggerEveryTurn:
			fire = true
		case rules.TriggerOnEnterLocation:
			fire = locationChanged && r.Trigger.Location() == e.world.State.CurrentLocation()
		case rules.TriggerTimedEvent:
			if turn, ok := r.Trigger.Turn(); ok {
				fire = turn == e.world.State.TurnCount()
			}
		}
		if !fire || !rules.EvalAll(r.Conditions, e.world.State, e.world.Inventory) {
			continue
		}
		e.logger.Debug("event rule fired", zap.String("rule", r.ID))
		e.runner.Apply(r.Effects)
	}
}

func (e *Engine) fireHooks(locationChanged bool) {
	if e.scripts == nil {
		return
	}
	if locationChanged {
		e.scripts.CallHook("on_enter", lua.LString(e.world.State.CurrentLocation()))
	}
	e.scripts.CallHook("every_turn", lua.LNumber(e.world.State.TurnCount()))
}

// flushNarration closes the turn's message buffer. The buffered mechanical
// lines are handed to the narrator; on failure they flush unchanged.
func (e *Engine) flushNarration(ctx context.Context, scene ai.Scene, intent ai.Intent, succeeded bool) {
	buffered := e.buffer
	e.buffer = nil
	if len(buffered) == 0 {
		return
	}

	lines := make([]string, 0, len(buffered))
	for _, msg := range buffered {
		lines = append(lines, msg.Text)
	}
	prose, err := e.collab.Narrate(ctx, ai.NarrationRequest{
		Scene:     scene,
		Action:    intent,
		Outcome:   strings.Join(lines, "\n"),
		Succeeded: succeeded,
	})
	if err != nil || prose == "" {
		e.logger.Warn("narration failed, flushing mechanical result", zap.Error(err))
		for _, msg := range buffered {
			e.emit(msg)
		}
		return
	}
	category := ui.CategoryInfo
	if !succeeded {
		category = ui.CategoryError
	}
	e.emit(ui.MessageDisplay{Text: prose, Category: category})
}

// BuildScene assembles the model-facing view of the current moment.
func (e *Engine) BuildScene() ai.Scene {
	scene := ai.Scene{
		VisibleEntities: make(map[string]string),
		CarriedItems:    make(map[string]string),
		RecentActions:   e.world.State.RecentActions(),
		VerbAliases:     e.world.Def.ParserHints.VerbAliases,
		NounAliases:     e.world.Def.ParserHints.NounAliases,
	}

	roomID := e.world.State.CurrentLocation()
	if room, ok := e.world.Spatial.Room(roomID); ok {
		scene.LocationName = room.Name
		scene.LocationDescription = room.Description
		for _, thing := range e.world.Spatial.ThingsInRoom(roomID) {
			if thing.ID == world.PlayerID {
				continue
			}
			if e.world.Spatial.CanSee(world.PlayerID, thing.ID) {
				scene.VisibleEntities[thing.ID] = thing.Name
			}
		}
		for _, backdropID := range e.world.Spatial.PresentBackdrops(roomID) {
			if backdrop, ok := e.world.Spatial.Thing(backdropID); ok {
				scene.VisibleEntities[backdrop.ID] = backdrop.Name
			}
		}
	}

	for _, itemID := range e.world.Inventory.Items(world.PlayerID) {
		name := itemID
		if thing, ok := e.world.Spatial.Thing(itemID); ok {
			name = thing.Name
		}
		scene.CarriedItems[itemID] = name
	}
	return scene
}
