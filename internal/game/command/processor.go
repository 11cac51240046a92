package command

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fable/internal/game/ai"
	"github.com/cory-johannsen/fable/internal/game/entity"
	"github.com/cory-johannsen/fable/internal/game/rules"
	"github.com/cory-johannsen/fable/internal/game/ui"
	"github.com/cory-johannsen/fable/internal/game/world"
)

// blockedMessage is the generic refusal for actions nothing claims.
const blockedMessage = "Nothing happens."

// Result reports how one intent resolved.
type Result struct {
	// Succeeded is true when the action took effect and the turn advances.
	Succeeded bool
	// LocationChanged is true when the player ended the action in a
	// different room than they started it.
	LocationChanged bool
	// NeedsDialogue is true when the player addressed a character and no
	// canned topic covered it; the caller may improvise a reply.
	NeedsDialogue bool
	// CharacterID and Topic carry the conversation context when
	// NeedsDialogue is set.
	CharacterID string
	Topic       string
	PlayerLine  string
}

// Processor executes intents: story action rules first, then built-in verb
// handlers.
type Processor struct {
	world    *world.World
	registry *Registry
	runner   *rules.Runner
	emit     ui.Sink
	logger   *zap.Logger
	// legacy keeps relocation at the old flat-map behavior: bare location
	// tag updates with no capacity or openness checks.
	legacy bool
}

// NewProcessor builds a processor over a built world.
//
// Precondition: w has been produced by world.Build.
func NewProcessor(w *world.World, emit ui.Sink, logger *zap.Logger) *Processor {
	return &Processor{
		world:    w,
		registry: DefaultRegistry(),
		runner:   rules.NewRunner(w.State, w.Inventory, w.Spatial, emit, logger),
		emit:     emit,
		logger:   logger,
		legacy:   w.Def.Meta.LegacyPlacement,
	}
}

// Execute runs one intent to completion.
//
// Postcondition: Result.Succeeded is true iff the action took effect; the
// recent-action log records only successful actions.
func (p *Processor) Execute(intent ai.Intent) Result {
	if p.world.State.GameOver() {
		ui.Error(p.emit, "The story is over.")
		return Result{}
	}

	before := p.world.State.CurrentLocation()
	res := p.dispatch(intent)
	p.syncPlayerLocation()
	res.LocationChanged = p.world.State.CurrentLocation() != before

	if res.Succeeded {
		p.world.State.RecordAction(intent.String())
	}
	return res
}

func (p *Processor) dispatch(intent ai.Intent) Result {
	// Story rules outrank built-in verbs, so an author can claim any verb
	// and target pair. A matched rule whose conditions fail blocks the
	// action outright; it never falls through to a built-in handler.
	if rule := rules.FirstMatch(p.world.Def.Rules.Actions, intent.Action, intent.Target, intent.Topic); rule != nil {
		if !rules.EvalAll(rule.Conditions, p.world.State, p.world.Inventory) {
			p.logger.Debug("story rule blocked action",
				zap.String("rule", rule.ID),
				zap.String("intent", intent.String()))
			ui.Error(p.emit, blockedMessage)
			return Result{}
		}
		p.logger.Debug("story rule fired",
			zap.String("rule", rule.ID),
			zap.String("intent", intent.String()))
		p.runner.Apply(rule.Effects)
		return Result{Succeeded: true}
	}

	action := intent.Action
	if cmd, ok := p.registry.Resolve(action); ok {
		action = cmd.Name
	}

	switch action {
	case ActionMove:
		return p.handleMove(intent)
	case ActionLook:
		return p.handleLook()
	case ActionExamine:
		return p.handleExamine(intent)
	case ActionRead:
		return p.handleRead(intent)
	case ActionTake:
		return p.handleTake(intent)
	case ActionDrop:
		return p.handleDrop(intent)
	case ActionGive:
		return p.handleGive(intent)
	case ActionPut:
		return p.handlePut(intent)
	case ActionOpen:
		return p.handleOpen(intent)
	case ActionClose:
		return p.handleClose(intent)
	case ActionLock:
		return p.handleLock(intent)
	case ActionUnlock:
		return p.handleUnlock(intent)
	case ActionEnter:
		return p.handleEnter(intent)
	case ActionExit:
		return p.handleExit()
	case ActionClimb:
		return p.handleClimb(intent)
	case ActionBoard:
		return p.handleBoard(intent)
	case ActionStart:
		return p.handleStart(intent)
	case ActionTalk, ActionAsk:
		return p.handleConversation(intent)
	case ActionBye:
		return p.handleFarewell(intent)
	case ActionTrade:
		return p.handleTrade(intent)
	case ActionInventory:
		return p.handleInventory()
	case ActionHelp:
		return p.handleHelp()
	default:
		ui.Error(p.emit, blockedMessage)
		return Result{}
	}
}

// syncPlayerLocation reconciles tracked state with the spatial tree after
// anything that may have moved the player, rule effects included.
func (p *Processor) syncPlayerLocation() {
	room := p.world.Spatial.RoomContaining(world.PlayerID)
	if room != nil && room.ID != p.world.State.CurrentLocation() {
		p.world.State.SetCurrentLocation(room.ID)
	}
}

func (p *Processor) playerRoom() *entity.Thing {
	return p.world.Spatial.RoomContaining(world.PlayerID)
}

// reachable resolves a target the player can currently interact with:
// something visible in the room or something carried.
func (p *Processor) reachable(id string) (*entity.Thing, bool) {
	if id == "" {
		return nil, false
	}
	thing, ok := p.world.Spatial.Thing(id)
	if !ok {
		return nil, false
	}
	if p.world.Inventory.Contains(world.PlayerID, id) {
		return thing, true
	}
	if p.world.Spatial.CanSee(world.PlayerID, id) {
		return thing, true
	}
	return nil, false
}

func (p *Processor) failf(format string, args ...any) Result {
	ui.Error(p.emit, fmt.Sprintf(format, args...))
	return Result{}
}

func (p *Processor) failUnseen(id string) Result {
	name := id
	if thing, ok := p.world.Spatial.Thing(id); ok {
		name = thing.Name
	}
	return p.failf("You don't see %s here.", displayName(name))
}

// displayName turns an unresolved underscored ID back into prose.
func displayName(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

func (p *Processor) handleInventory() Result {
	items := p.world.Inventory.Items(world.PlayerID)
	refs := make([]ui.EntityRef, 0, len(items))
	for _, id := range items {
		name := id
		if thing, ok := p.world.Spatial.Thing(id); ok {
			name = thing.Name
		}
		refs = append(refs, ui.EntityRef{ID: id, Name: name})
	}
	p.emit(ui.InventoryDisplay{Items: refs})
	return Result{Succeeded: true}
}

func (p *Processor) handleHelp() Result {
	var b strings.Builder
	grouped := p.registry.ByCategory()
	categories := make([]string, 0, len(grouped))
	for cat := range grouped {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		fmt.Fprintf(&b, "%s:\n", cat)
		for _, cmd := range grouped[cat] {
			fmt.Fprintf(&b, "  %-10s %s\n", cmd.Name, cmd.Help)
		}
	}
	ui.Info(p.emit, strings.TrimRight(b.String(), "\n"))
	return Result{Succeeded: true}
}
