package command

import (
	"github.com/cory-johannsen/fable/internal/game/ai"
	"github.com/cory-johannsen/fable/internal/game/entity"
	"github.com/cory-johannsen/fable/internal/game/spatial"
	"github.com/cory-johannsen/fable/internal/game/ui"
	"github.com/cory-johannsen/fable/internal/game/world"
)

func (p *Processor) handleTake(intent ai.Intent) Result {
	if intent.Target == "" {
		return p.failf("Take what?")
	}
	if p.world.Inventory.Contains(world.PlayerID, intent.Target) {
		return p.failf("You already have that.")
	}
	thing, ok := p.reachable(intent.Target)
	if !ok {
		return p.failUnseen(intent.Target)
	}
	if !p.legacy {
		if !thing.Portable || thing.FixedInPlace {
			return p.failf("You can't take %s.", thing.Name)
		}
	}

	// Taking detaches the thing from the world tree; held items live only
	// in the inventory.
	if parent := thing.Parent(); parent != nil {
		parent.RemoveChild(thing)
	}
	thing.Location = ""
	p.world.Inventory.Add(world.PlayerID, thing.ID)

	ui.Success(p.emit, "You take "+thing.Name+".")
	return Result{Succeeded: true}
}

func (p *Processor) handleDrop(intent ai.Intent) Result {
	if intent.Target == "" {
		return p.failf("Drop what?")
	}
	if !p.world.Inventory.Contains(world.PlayerID, intent.Target) {
		return p.failf("You aren't carrying that.")
	}
	room := p.playerRoom()
	if room == nil {
		return p.failf("There is nowhere to drop it.")
	}
	thing, _ := p.world.Spatial.Thing(intent.Target)

	p.world.Inventory.Remove(world.PlayerID, intent.Target)
	if p.legacy {
		p.world.Spatial.MoveToLocation(intent.Target, room.ID)
	} else if !p.world.Spatial.MoveTo(intent.Target, room.ID, spatial.RelationIn) {
		// Put it back rather than losing it.
		p.world.Inventory.Add(world.PlayerID, intent.Target)
		return p.failf("You can't drop that here.")
	}

	ui.Success(p.emit, "You drop "+thing.Name+".")
	return Result{Succeeded: true}
}

func (p *Processor) handleGive(intent ai.Intent) Result {
	if intent.Target == "" || intent.SecondaryTarget == "" {
		return p.failf("Give what to whom?")
	}
	if !p.world.Inventory.Contains(world.PlayerID, intent.Target) {
		return p.failf("You aren't carrying that.")
	}
	recipient, ok := p.reachable(intent.SecondaryTarget)
	if !ok {
		return p.failUnseen(intent.SecondaryTarget)
	}
	if recipient.Kind != entity.KindCharacter {
		return p.failf("%s can't accept gifts.", recipient.Name)
	}
	if !p.world.Inventory.Transfer(world.PlayerID, recipient.ID, intent.Target) {
		return p.failf("The handover fails.")
	}
	item, _ := p.world.Spatial.Thing(intent.Target)
	ui.Success(p.emit, "You give "+item.Name+" to "+recipient.Name+".")
	return Result{Succeeded: true}
}

func (p *Processor) handlePut(intent ai.Intent) Result {
	if intent.Target == "" || intent.SecondaryTarget == "" {
		return p.failf("Put what where?")
	}
	if !p.world.Inventory.Contains(world.PlayerID, intent.Target) {
		return p.failf("You aren't carrying that.")
	}
	dest, ok := p.reachable(intent.SecondaryTarget)
	if !ok {
		return p.failUnseen(intent.SecondaryTarget)
	}

	relation := spatial.RelationIn
	if intent.Direction == "on" || dest.Kind == entity.KindSupporter {
		relation = spatial.RelationOn
	}

	item, _ := p.world.Spatial.Thing(intent.Target)
	p.world.Inventory.Remove(world.PlayerID, intent.Target)

	var placed bool
	if p.legacy {
		placed = p.world.Spatial.Relocate(intent.Target, dest.ID)
	} else {
		placed = p.world.Spatial.MoveTo(intent.Target, dest.ID, relation)
	}
	if !placed {
		p.world.Inventory.Add(world.PlayerID, intent.Target)
		if dest.Kind == entity.KindContainer && dest.Openable && !dest.Open {
			return p.failf("%s is closed.", dest.Name)
		}
		return p.failf("%s won't go there.", item.Name)
	}

	preposition := "in"
	if relation == spatial.RelationOn {
		preposition = "on"
	}
	ui.Success(p.emit, "You put "+item.Name+" "+preposition+" "+dest.Name+".")
	return Result{Succeeded: true}
}

func (p *Processor) handleTrade(intent ai.Intent) Result {
	if intent.Target == "" || intent.SecondaryTarget == "" {
		return p.failf("Trade what with whom?")
	}
	if !p.world.Inventory.Contains(world.PlayerID, intent.Target) {
		return p.failf("You aren't carrying that.")
	}
	partner, ok := p.reachable(intent.SecondaryTarget)
	if !ok {
		return p.failUnseen(intent.SecondaryTarget)
	}
	if partner.Kind != entity.KindCharacter {
		return p.failf("%s isn't interested in trading.", partner.Name)
	}

	theirs := p.world.Inventory.Items(partner.ID)
	if len(theirs) == 0 {
		return p.failf("%s has nothing to trade.", partner.Name)
	}
	offered := theirs[0]
	if !p.world.Inventory.Exchange(world.PlayerID, intent.Target, partner.ID, offered) {
		return p.failf("The trade falls through.")
	}

	mine, _ := p.world.Spatial.Thing(intent.Target)
	got, _ := p.world.Spatial.Thing(offered)
	gotName := offered
	if got != nil {
		gotName = got.Name
	}
	ui.Success(p.emit, "You trade "+mine.Name+" for "+gotName+".")
	return Result{Succeeded: true}
}
