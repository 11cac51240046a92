package command

import (
	"github.com/cory-johannsen/fable/internal/game/ai"
	"github.com/cory-johannsen/fable/internal/game/entity"
	"github.com/cory-johannsen/fable/internal/game/spatial"
	"github.com/cory-johannsen/fable/internal/game/ui"
	"github.com/cory-johannsen/fable/internal/game/world"
)

func (p *Processor) handleEnter(intent ai.Intent) Result {
	if intent.Target == "" {
		// "enter" with no target tries the room's "in" connection.
		return p.handleMove(ai.Intent{Action: ActionMove, Direction: "in"})
	}
	thing, ok := p.reachable(intent.Target)
	if !ok {
		return p.failUnseen(intent.Target)
	}

	// An enterable that leads somewhere is a doorway, not a compartment.
	if thing.EnterDestination != "" {
		if !p.movePlayerTo(thing.EnterDestination) {
			return p.failf("You can't get through.")
		}
		p.emitLocation(thing.EnterDestination)
		return Result{Succeeded: true}
	}

	if thing.Kind != entity.KindEnterable {
		return p.failf("You can't get inside %s.", thing.Name)
	}
	if !p.world.Spatial.MoveTo(world.PlayerID, thing.ID, spatial.RelationIn) {
		return p.failf("There's no room for you in %s.", thing.Name)
	}
	ui.Success(p.emit, "You climb into "+thing.Name+".")
	return Result{Succeeded: true}
}

func (p *Processor) handleExit() Result {
	player, _ := p.world.Spatial.Thing(world.PlayerID)
	parent := player.Parent()

	// Inside something: exit it. Otherwise try the room's "out" connection.
	if parent != nil && parent.Kind != entity.KindRoom {
		var out bool
		switch parent.Kind {
		case entity.KindEnterable:
			out = parent.Exit(player)
		case entity.KindVehicle:
			out = parent.Disembark(player)
		}
		if !out {
			return p.failf("You can't get out of %s.", parent.Name)
		}
		ui.Success(p.emit, "You get out of "+parent.Name+".")
		return Result{Succeeded: true}
	}

	room := p.playerRoom()
	if room != nil {
		if _, ok := room.Connections["out"]; ok {
			return p.handleMove(ai.Intent{Action: ActionMove, Direction: "out"})
		}
	}
	return p.failf("You aren't inside anything.")
}

func (p *Processor) handleClimb(intent ai.Intent) Result {
	if intent.Target == "" {
		return p.failf("Climb what?")
	}
	thing, ok := p.reachable(intent.Target)
	if !ok {
		return p.failUnseen(intent.Target)
	}
	if thing.ClimbDestination == "" {
		return p.failf("%s doesn't lead anywhere.", thing.Name)
	}
	if !p.movePlayerTo(thing.ClimbDestination) {
		return p.failf("You lose your grip.")
	}
	p.emitLocation(thing.ClimbDestination)
	return Result{Succeeded: true}
}

func (p *Processor) handleBoard(intent ai.Intent) Result {
	if intent.Target == "" {
		return p.failf("Board what?")
	}
	thing, ok := p.reachable(intent.Target)
	if !ok {
		return p.failUnseen(intent.Target)
	}
	if thing.Kind != entity.KindVehicle {
		return p.failf("You can't ride %s.", thing.Name)
	}
	if !thing.Operational {
		return p.failf("%s isn't going anywhere.", thing.Name)
	}
	if !p.world.Spatial.MoveTo(world.PlayerID, thing.ID, spatial.RelationIn) {
		return p.failf("There's no room aboard %s.", thing.Name)
	}
	ui.Success(p.emit, "You board "+thing.Name+".")
	return Result{Succeeded: true}
}

func (p *Processor) handleStart(intent ai.Intent) Result {
	if intent.Target == "" {
		return p.failf("Start what?")
	}
	thing, ok := p.reachable(intent.Target)
	if !ok {
		return p.failUnseen(intent.Target)
	}
	if thing.Kind != entity.KindVehicle {
		return p.failf("%s has no engine to start.", thing.Name)
	}

	key := intent.SecondaryTarget
	if key == "" {
		key = thing.RequiredKey
	}
	if thing.RequiredKey != "" && !p.world.Inventory.Contains(world.PlayerID, key) {
		return p.failf("You need the right key.")
	}
	if !thing.StartVehicle(key) {
		return p.failf("%s won't start.", thing.Name)
	}
	ui.Success(p.emit, thing.Name+" rumbles to life.")
	return Result{Succeeded: true}
}
