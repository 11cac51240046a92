package command

import (
	"strings"

	"github.com/cory-johannsen/fable/internal/game/ai"
	"github.com/cory-johannsen/fable/internal/game/entity"
	"github.com/cory-johannsen/fable/internal/game/ui"
	"github.com/cory-johannsen/fable/internal/game/world"
)

func (p *Processor) handleOpen(intent ai.Intent) Result {
	if intent.Target == "" {
		return p.failf("Open what?")
	}
	thing, ok := p.reachable(intent.Target)
	if !ok {
		return p.failUnseen(intent.Target)
	}
	if thing.Kind != entity.KindContainer || !thing.Openable {
		return p.failf("You can't open %s.", thing.Name)
	}
	if thing.Locked {
		return p.failf("%s is locked.", thing.Name)
	}
	if !thing.OpenContainer() {
		return p.failf("%s is already open.", thing.Name)
	}

	msg := "You open " + thing.Name + "."
	if contents := thing.VisibleContents(); len(contents) > 0 {
		names := make([]string, 0, len(contents))
		for _, c := range contents {
			names = append(names, c.Name)
		}
		msg += " Inside: " + strings.Join(names, ", ") + "."
	}
	ui.Success(p.emit, msg)
	return Result{Succeeded: true}
}

func (p *Processor) handleClose(intent ai.Intent) Result {
	if intent.Target == "" {
		return p.failf("Close what?")
	}
	thing, ok := p.reachable(intent.Target)
	if !ok {
		return p.failUnseen(intent.Target)
	}
	if !thing.CloseContainer() {
		return p.failf("You can't close %s.", thing.Name)
	}
	ui.Success(p.emit, "You close "+thing.Name+".")
	return Result{Succeeded: true}
}

func (p *Processor) handleLock(intent ai.Intent) Result {
	if intent.Target == "" {
		return p.failf("Lock what?")
	}
	thing, ok := p.reachable(intent.Target)
	if !ok {
		return p.failUnseen(intent.Target)
	}
	key, res := p.requireKey(thing.UnlocksWith, intent.SecondaryTarget)
	if res != nil {
		return *res
	}
	if !thing.LockContainer(key) {
		return p.failf("You can't lock %s.", thing.Name)
	}
	ui.Success(p.emit, "You lock "+thing.Name+".")
	return Result{Succeeded: true}
}

func (p *Processor) handleUnlock(intent ai.Intent) Result {
	if intent.Target == "" {
		return p.failf("Unlock what?")
	}
	thing, ok := p.reachable(intent.Target)
	if !ok {
		return p.failUnseen(intent.Target)
	}
	if !thing.Locked {
		return p.failf("%s isn't locked.", thing.Name)
	}
	key, res := p.requireKey(thing.UnlocksWith, intent.SecondaryTarget)
	if res != nil {
		return *res
	}
	if !thing.UnlockContainer(key) {
		return p.failf("The key doesn't fit.")
	}
	ui.Success(p.emit, "You unlock "+thing.Name+".")
	return Result{Succeeded: true}
}

// requireKey resolves which key the player is applying. When the lock wants
// a specific key, the player must be carrying it; with no key configured
// any attempt passes through.
func (p *Processor) requireKey(wanted, offered string) (string, *Result) {
	key := offered
	if key == "" {
		key = wanted
	}
	if wanted == "" {
		return key, nil
	}
	if !p.world.Inventory.Contains(world.PlayerID, key) {
		name := key
		if thing, ok := p.world.Spatial.Thing(key); ok {
			name = thing.Name
		}
		res := p.failf("You aren't carrying %s.", displayName(name))
		return "", &res
	}
	return key, nil
}
