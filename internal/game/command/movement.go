package command

import (
	"sort"

	"github.com/cory-johannsen/fable/internal/game/ai"
	"github.com/cory-johannsen/fable/internal/game/entity"
	"github.com/cory-johannsen/fable/internal/game/spatial"
	"github.com/cory-johannsen/fable/internal/game/ui"
	"github.com/cory-johannsen/fable/internal/game/world"
)

func (p *Processor) handleMove(intent ai.Intent) Result {
	room := p.playerRoom()
	if room == nil {
		return p.failf("You are nowhere at all.")
	}

	dir := intent.Direction
	if dir == "" {
		dir = intent.Target
	}
	if dir == "" {
		return p.failf("Which way?")
	}

	dest, ok := room.Connections[dir]
	if !ok {
		return p.failf("You can't go %s from here.", displayName(dir))
	}

	if !p.movePlayerTo(dest) {
		return p.failf("Something blocks the way.")
	}
	p.emitLocation(dest)
	return Result{Succeeded: true}
}

func (p *Processor) handleLook() Result {
	room := p.playerRoom()
	if room == nil {
		return p.failf("You are nowhere at all.")
	}
	p.emitLocation(room.ID)
	return Result{Succeeded: true}
}

// ShowLocation renders the player's current room without consuming a turn.
func (p *Processor) ShowLocation() {
	p.emitLocation(p.world.State.CurrentLocation())
}

// movePlayerTo relocates the player and keeps tracked state in step.
func (p *Processor) movePlayerTo(roomID string) bool {
	var ok bool
	if p.legacy {
		ok = p.world.Spatial.MoveToLocation(world.PlayerID, roomID)
	} else {
		ok = p.world.Spatial.MoveTo(world.PlayerID, roomID, spatial.RelationIn)
	}
	if ok {
		p.world.State.SetCurrentLocation(roomID)
	}
	return ok
}

// emitLocation renders a room: description, visible objects and characters,
// and the exits out.
func (p *Processor) emitLocation(roomID string) {
	room, ok := p.world.Spatial.Room(roomID)
	if !ok {
		return
	}

	desc := room.Description
	if room.Dark {
		desc = "It is pitch dark here."
	}

	var objects, characters []ui.EntityRef
	for _, thing := range p.world.Spatial.ThingsInRoom(roomID) {
		if thing.ID == world.PlayerID {
			continue
		}
		if !p.world.Spatial.CanSee(world.PlayerID, thing.ID) {
			continue
		}
		ref := ui.EntityRef{ID: thing.ID, Name: thing.Name}
		if thing.Kind == entity.KindCharacter {
			characters = append(characters, ref)
		} else {
			objects = append(objects, ref)
		}
	}
	for _, backdropID := range p.world.Spatial.PresentBackdrops(roomID) {
		if backdrop, ok := p.world.Spatial.Thing(backdropID); ok {
			objects = append(objects, ui.EntityRef{ID: backdrop.ID, Name: backdrop.Name})
		}
	}
	sortRefs(objects)
	sortRefs(characters)

	exits := make([]string, 0, len(room.Connections))
	for dir := range room.Connections {
		exits = append(exits, dir)
	}
	sort.Strings(exits)

	p.emit(ui.LocationDisplay{
		Name:        room.Name,
		Description: desc,
		Objects:     objects,
		Characters:  characters,
		Exits:       exits,
	})
}

func sortRefs(refs []ui.EntityRef) {
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
}
