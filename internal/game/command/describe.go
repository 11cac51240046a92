package command

import (
	"strings"

	"github.com/cory-johannsen/fable/internal/game/ai"
	"github.com/cory-johannsen/fable/internal/game/entity"
	"github.com/cory-johannsen/fable/internal/game/ui"
)

func (p *Processor) handleExamine(intent ai.Intent) Result {
	if intent.Target == "" {
		return p.handleLook()
	}
	thing, ok := p.reachable(intent.Target)
	if !ok {
		return p.failUnseen(intent.Target)
	}

	desc := thing.Description
	if thing.Kind == entity.KindContainer {
		switch {
		case thing.Locked:
			desc += " It is locked."
		case thing.Openable && !thing.Open:
			desc += " It is closed."
		default:
			if contents := thing.VisibleContents(); len(contents) > 0 {
				names := make([]string, 0, len(contents))
				for _, c := range contents {
					names = append(names, c.Name)
				}
				desc += " Inside: " + strings.Join(names, ", ") + "."
			} else {
				desc += " It is empty."
			}
		}
	}

	class := ui.ClassObject
	if thing.Kind == entity.KindCharacter {
		class = ui.ClassCharacter
	}
	p.emit(ui.EntityDescription{
		ID:          thing.ID,
		Name:        thing.Name,
		Description: desc,
		Class:       class,
	})
	return Result{Succeeded: true}
}

func (p *Processor) handleRead(intent ai.Intent) Result {
	if intent.Target == "" {
		return p.failf("Read what?")
	}
	thing, ok := p.reachable(intent.Target)
	if !ok {
		return p.failUnseen(intent.Target)
	}
	if thing.TextContent == "" {
		return p.failf("There's nothing written on %s.", thing.Name)
	}
	ui.Info(p.emit, thing.TextContent)
	return Result{Succeeded: true}
}
