package command

import (
	"sort"
	"time"

	"github.com/cory-johannsen/fable/internal/game/ai"
	"github.com/cory-johannsen/fable/internal/game/entity"
	"github.com/cory-johannsen/fable/internal/game/state"
	"github.com/cory-johannsen/fable/internal/game/ui"
)

// handleConversation covers both "talk" and "ask". Declared topics answer
// directly; anything uncovered is handed back so the caller can improvise a
// reply.
func (p *Processor) handleConversation(intent ai.Intent) Result {
	if intent.Target == "" {
		return p.failf("Talk to whom?")
	}
	character, ok := p.reachable(intent.Target)
	if !ok {
		return p.failUnseen(intent.Target)
	}
	if character.Kind != entity.KindCharacter {
		return p.failf("%s has nothing to say.", character.Name)
	}

	topics := p.world.Topics(character.ID)

	if intent.Topic != "" {
		if reply, ok := topics[intent.Topic]; ok {
			p.recordExchange(character.ID, "about "+intent.Topic, reply)
			p.emit(ui.Conversation{
				CharacterID:   character.ID,
				CharacterName: character.Name,
				Message:       reply,
			})
			return Result{Succeeded: true}
		}
		if isInventoryQuery(intent.Topic) {
			return p.revealInventory(character)
		}
		return Result{
			NeedsDialogue: true,
			CharacterID:   character.ID,
			Topic:         intent.Topic,
			PlayerLine:    intent.String(),
		}
	}

	// Open-ended talk: greet and offer the declared topics.
	greeting := p.world.Profile(character.ID).Greeting
	if greeting == "" && len(topics) == 0 {
		return Result{
			NeedsDialogue: true,
			CharacterID:   character.ID,
			PlayerLine:    intent.String(),
		}
	}
	if greeting == "" {
		greeting = character.Name + " looks at you expectantly."
	}
	names := make([]string, 0, len(topics))
	for topic := range topics {
		names = append(names, topic)
	}
	sort.Strings(names)
	p.recordExchange(character.ID, "hello", greeting)
	p.emit(ui.Conversation{
		CharacterID:   character.ID,
		CharacterName: character.Name,
		Message:       greeting,
		Topics:        names,
	})
	return Result{Succeeded: true}
}

// handleFarewell ends a conversation. With no target it picks the only
// visible character, refusing when the room is ambiguous or empty.
func (p *Processor) handleFarewell(intent ai.Intent) Result {
	target := intent.Target
	if target == "" {
		room := p.playerRoom()
		if room == nil {
			return p.failf("There is nobody here.")
		}
		var found *entity.Thing
		for _, d := range room.AllDescendants() {
			if d.Kind != entity.KindCharacter || d.ID == p.world.Player.ID {
				continue
			}
			if !p.world.Spatial.CanSee(p.world.Player.ID, d.ID) {
				continue
			}
			if found != nil {
				return p.failf("Say goodbye to whom?")
			}
			found = d
		}
		if found == nil {
			return p.failf("There is nobody here.")
		}
		target = found.ID
	}
	character, ok := p.reachable(target)
	if !ok {
		return p.failUnseen(target)
	}
	if character.Kind != entity.KindCharacter {
		return p.failf("%s has nothing to say.", character.Name)
	}
	farewell := p.world.Profile(character.ID).Farewell
	if farewell == "" {
		farewell = character.Name + " nods."
	}
	p.recordExchange(character.ID, "goodbye", farewell)
	p.emit(ui.Conversation{
		CharacterID:   character.ID,
		CharacterName: character.Name,
		Message:       farewell,
	})
	return Result{Succeeded: true}
}

// isInventoryQuery matches topics that ask what a character is carrying.
func isInventoryQuery(topic string) bool {
	switch topic {
	case "inventory", "bag", "belongings", "possessions", "items":
		return true
	}
	return false
}

// revealInventory answers an inventory query with the character's carried
// items. Declared topics take precedence, so an author can override the
// reply for a character with something to hide.
func (p *Processor) revealInventory(character *entity.Thing) Result {
	items := p.world.Inventory.Items(character.ID)
	var reply string
	if len(items) == 0 {
		reply = "I carry nothing worth mentioning."
	} else {
		names := make([]string, 0, len(items))
		for _, id := range items {
			name := displayName(id)
			if thing, ok := p.world.Spatial.Thing(id); ok {
				name = thing.Name
			}
			names = append(names, name)
		}
		reply = "I have " + joinWithAnd(names) + "."
	}
	p.recordExchange(character.ID, "about their belongings", reply)
	p.emit(ui.Conversation{
		CharacterID:   character.ID,
		CharacterName: character.Name,
		Message:       reply,
	})
	return Result{Succeeded: true}
}

// joinWithAnd renders a list as prose: "a", "a and b", "a, b and c".
func joinWithAnd(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	last := len(names) - 1
	out := names[0]
	for _, n := range names[1:last] {
		out += ", " + n
	}
	return out + " and " + names[last]
}

func (p *Processor) recordExchange(characterID, playerLine, reply string) {
	now := time.Now().UTC()
	p.world.State.RecordConversation(characterID, state.ConversationEntry{
		Speaker: state.SpeakerPlayer, Message: playerLine, Timestamp: now,
	})
	p.world.State.RecordConversation(characterID, state.ConversationEntry{
		Speaker: state.SpeakerCharacter, Message: reply, Timestamp: now,
	})
}

// RecordDialogue stores and emits an improvised character reply produced
// outside the processor.
func (p *Processor) RecordDialogue(characterID, playerLine, reply string) {
	character, ok := p.world.Spatial.Thing(characterID)
	if !ok {
		return
	}
	p.recordExchange(characterID, playerLine, reply)
	p.emit(ui.Conversation{
		CharacterID:   characterID,
		CharacterName: character.Name,
		Message:       reply,
	})
}
