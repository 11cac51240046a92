package rules

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/fable/internal/game/ui"
)

// StateMutator is the write side of game state that effects need.
// *state.GameState satisfies it.
type StateMutator interface {
	StateView
	SetCurrentLocation(locationID string)
	SetEntityState(entityID, key string, value any)
	SetCounter(name string, value int)
	AddCounter(name string, delta int)
	SetFlag(name string, value bool)
	SetGameOver(over bool)
}

// InventoryMutator is the write side of inventories that effects need.
// *inventory.Store satisfies it.
type InventoryMutator interface {
	InventoryView
	Add(actorID, itemID string)
	Remove(actorID, itemID string) bool
}

// Mover relocates entities for move_entity effects. *spatial.Manager
// satisfies it.
type Mover interface {
	Relocate(thingID, destinationID string) bool
	RoomIDContaining(thingID string) string
}

// Runner applies rule effects to the live game.
type Runner struct {
	state  StateMutator
	inv    InventoryMutator
	mover  Mover
	emit   ui.Sink
	logger *zap.Logger
}

// NewRunner builds an effect runner.
// Precondition: all arguments are non-nil.
func NewRunner(st StateMutator, inv InventoryMutator, mover Mover, emit ui.Sink, logger *zap.Logger) *Runner {
	return &Runner{state: st, inv: inv, mover: mover, emit: emit, logger: logger}
}

// Apply runs effects in declared order, so later effects observe earlier
// effects' changes. Unknown effect types are logged and skipped.
// Postcondition: every recognized effect has been applied even if an
// earlier one was a no-op.
func (r *Runner) Apply(effects []Effect) {
	for _, e := range effects {
		r.applyOne(e)
	}
}

func (r *Runner) applyOne(e Effect) {
	switch e.Type {
	case EffectDisplayText:
		r.emit(ui.MessageDisplay{Text: e.Content, Category: ui.CategoryInfo})
	case EffectMoveEntity:
		if !r.mover.Relocate(e.Target, e.Destination) {
			r.logger.Warn("move_entity effect did not relocate target",
				zap.String("target", e.Target),
				zap.String("destination", e.Destination))
			return
		}
		// Moving the player has to keep the tracked location in step,
		// or events that teleport would leave it pointing at the old room.
		if e.Target == PlayerInventoryID {
			if roomID := r.mover.RoomIDContaining(e.Target); roomID != "" {
				r.state.SetCurrentLocation(roomID)
			}
		}
	case EffectSetState:
		r.state.SetEntityState(e.Target, e.Key, e.Value)
	case EffectAddToInventory:
		r.inv.Add(PlayerInventoryID, r.itemOf(e))
	case EffectRemoveFromInventory:
		if !r.inv.Remove(PlayerInventoryID, r.itemOf(e)) {
			r.logger.Warn("remove_from_inventory effect found no item",
				zap.String("item", r.itemOf(e)))
		}
	case EffectEndGame:
		r.state.SetGameOver(true)
		outcome := ui.Outcome(e.Outcome)
		if outcome != ui.OutcomeVictory && outcome != ui.OutcomeDefeat {
			outcome = ui.OutcomeDefeat
		}
		r.emit(ui.GameOver{Outcome: outcome, Message: e.Message})
	case EffectSetCounter:
		v, _ := toInt(e.Value)
		r.state.SetCounter(e.Key, v)
	case EffectAddCounter:
		v, ok := toInt(e.Value)
		if !ok {
			v = 1
		}
		r.state.AddCounter(e.Key, v)
	case EffectSetFlag:
		v, ok := e.Value.(bool)
		if !ok {
			v = true
		}
		r.state.SetFlag(e.Key, v)
	default:
		r.logger.Warn("unknown effect type", zap.String("type", string(e.Type)))
	}
}

func (r *Runner) itemOf(e Effect) string {
	if e.Item != "" {
		return e.Item
	}
	return e.Target
}
