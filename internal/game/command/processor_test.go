package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/fable/internal/game/ai"
	"github.com/cory-johannsen/fable/internal/game/ui"
	"github.com/cory-johannsen/fable/internal/game/world"
)

const testStoryYAML = `
meta:
  title: "Mine Story"
  start_location: cave_mouth
  starting_inventory: [lamp]
locations:
  - id: cave_mouth
    name: "Cave Mouth"
    description: "A dark opening in the rock face."
    connections:
      in: inner_cave
  - id: inner_cave
    name: "Inner Cave"
    description: "Rough-hewn walls drip with moisture."
    connections:
      out: cave_mouth
  - id: ledge
    name: "Ledge"
    description: "A narrow shelf of rock."
objects:
  - id: lamp
    name: "brass lamp"
    description: "A dented brass lamp."
  - id: pebble
    name: "smooth pebble"
    description: "A river-worn pebble."
    location: cave_mouth
  - id: boulder
    name: "huge boulder"
    description: "Far too heavy to lift."
    location: cave_mouth
    fixed: true
  - id: chest
    name: "iron chest"
    description: "A chest banded with iron."
    location: inner_cave
    container: true
    locked: true
    unlocks_with: brass_key
    fixed: true
  - id: gem
    name: "rough gem"
    description: "An uncut gemstone."
    location: chest
  - id: table
    name: "stone table"
    description: "A slab of rock."
    location: inner_cave
    supporter: true
    fixed: true
  - id: basket
    name: "wicker basket"
    description: "Big enough to sit in."
    location: inner_cave
    enterable: true
    fixed: true
  - id: cart
    name: "mine cart"
    description: "A rusty mine cart on narrow rails."
    location: inner_cave
    vehicle: true
    required_key: crank_handle
    fixed: true
  - id: crank_handle
    name: "crank handle"
    description: "An iron crank."
    location: inner_cave
  - id: rope
    name: "knotted rope"
    description: "It dangles from the ledge."
    location: cave_mouth
    climbable: true
    climb_destination: ledge
    fixed: true
  - id: sign
    name: "warning sign"
    description: "A weathered sign."
    location: cave_mouth
    readable: true
    text_content: "DANGER: UNSTABLE TUNNELS"
    scenery: true
  - id: brass_key
    name: "brass key"
    description: "A small brass key."
  - id: golden_idol
    name: "golden idol"
    description: "It gleams with promise."
    location: inner_cave
characters:
  - id: hermit
    name: "the hermit"
    description: "A wiry old man."
    location: inner_cave
    inventory: [brass_key]
    topics:
      cave: "Been living here forty years."
    profile:
      greeting: "Ah, a visitor. It has been a while."
      farewell: "Mind the loose rocks on your way out."
rules:
  actions:
    - id: rub-lamp
      action: rub
      target: lamp
      conditions:
        - type: has_item
          value: lamp
      effects:
        - type: display_text
          content: "The lamp glows faintly."
        - type: set_flag
          key: lamp_rubbed
    - id: tap-chest-win
      action: tap
      target: chest
      conditions:
        - type: flag_is
          key: lamp_rubbed
      effects:
        - type: end_game
          outcome: victory
          message: "The chest sings. You win."
    - id: guard-idol
      action: take
      target: golden_idol
      conditions:
        - type: flag_is
          key: trap_disarmed
          value: true
      effects:
        - type: add_to_inventory
          item: golden_idol
        - type: end_game
          outcome: victory
          message: "The idol is yours."
`

type harness struct {
	w      *world.World
	p      *Processor
	events []ui.Event
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	def, err := world.LoadFromBytes([]byte(testStoryYAML))
	require.NoError(t, err)
	w, err := world.Build(def, zap.NewNop())
	require.NoError(t, err)
	h := &harness{w: w}
	h.p = NewProcessor(w, func(e ui.Event) { h.events = append(h.events, e) }, zap.NewNop())
	return h
}

func (h *harness) exec(intent ai.Intent) Result {
	h.events = nil
	return h.p.Execute(intent)
}

func newLegacyHarness(t *testing.T) *harness {
	t.Helper()
	def, err := world.LoadFromBytes([]byte(testStoryYAML))
	require.NoError(t, err)
	def.Meta.LegacyPlacement = true
	w, err := world.Build(def, zap.NewNop())
	require.NoError(t, err)
	h := &harness{w: w}
	h.p = NewProcessor(w, func(e ui.Event) { h.events = append(h.events, e) }, zap.NewNop())
	return h
}

func (h *harness) lastMessage() string {
	for i := len(h.events) - 1; i >= 0; i-- {
		if m, ok := h.events[i].(ui.MessageDisplay); ok {
			return m.Text
		}
	}
	return ""
}

func TestMove(t *testing.T) {
	h := newHarness(t)

	res := h.exec(ai.Intent{Action: "move", Direction: "in"})
	assert.True(t, res.Succeeded)
	assert.True(t, res.LocationChanged)
	assert.Equal(t, "inner_cave", h.w.State.CurrentLocation())

	loc, ok := h.events[0].(ui.LocationDisplay)
	require.True(t, ok)
	assert.Equal(t, "Inner Cave", loc.Name)

	res = h.exec(ai.Intent{Action: "move", Direction: "north"})
	assert.False(t, res.Succeeded)
	assert.Contains(t, h.lastMessage(), "can't go north")
}

func TestTakeAndDrop(t *testing.T) {
	h := newHarness(t)

	res := h.exec(ai.Intent{Action: "take", Target: "pebble"})
	assert.True(t, res.Succeeded)
	assert.True(t, h.w.Inventory.Contains(world.PlayerID, "pebble"))
	pebble, _ := h.w.Spatial.Thing("pebble")
	assert.Nil(t, pebble.Parent())

	res = h.exec(ai.Intent{Action: "take", Target: "boulder"})
	assert.False(t, res.Succeeded)
	assert.Contains(t, h.lastMessage(), "can't take")

	res = h.exec(ai.Intent{Action: "drop", Target: "pebble"})
	assert.True(t, res.Succeeded)
	assert.False(t, h.w.Inventory.Contains(world.PlayerID, "pebble"))
	room := h.w.Spatial.RoomContaining("pebble")
	require.NotNil(t, room)
	assert.Equal(t, "cave_mouth", room.ID)
}

func TestLegacyPlacementMatchesOrdinaryPlay(t *testing.T) {
	script := []ai.Intent{
		{Action: "take", Target: "pebble"},
		{Action: "move", Direction: "in"},
		{Action: "drop", Target: "pebble"},
		{Action: "move", Direction: "out"},
	}
	run := func(h *harness) []bool {
		outcomes := make([]bool, 0, len(script))
		for _, in := range script {
			outcomes = append(outcomes, h.exec(in).Succeeded)
		}
		return outcomes
	}

	std := newHarness(t)
	leg := newLegacyHarness(t)
	assert.Equal(t, run(std), run(leg))
	assert.Equal(t, std.w.State.CurrentLocation(), leg.w.State.CurrentLocation())

	for _, h := range []*harness{std, leg} {
		assert.False(t, h.w.Inventory.Contains(world.PlayerID, "pebble"))
		room := h.w.Spatial.RoomContaining("pebble")
		require.NotNil(t, room)
		assert.Equal(t, "inner_cave", room.ID)
	}
}

func TestLegacyPlacementSkipsPortabilityChecks(t *testing.T) {
	h := newLegacyHarness(t)

	res := h.exec(ai.Intent{Action: "take", Target: "boulder"})
	assert.True(t, res.Succeeded)
	assert.True(t, h.w.Inventory.Contains(world.PlayerID, "boulder"))
}

func TestLegacyPlacementDropsByLocationTag(t *testing.T) {
	h := newLegacyHarness(t)
	h.exec(ai.Intent{Action: "move", Direction: "in"})

	res := h.exec(ai.Intent{Action: "drop", Target: "lamp"})
	assert.True(t, res.Succeeded)

	lamp, ok := h.w.Spatial.Thing("lamp")
	require.True(t, ok)
	assert.Nil(t, lamp.Parent())
	assert.Equal(t, "inner_cave", lamp.TopLevelLocation())
}

func TestTakeHiddenInsideClosedContainer(t *testing.T) {
	h := newHarness(t)
	h.exec(ai.Intent{Action: "move", Direction: "in"})

	res := h.exec(ai.Intent{Action: "take", Target: "gem"})
	assert.False(t, res.Succeeded)
	assert.Contains(t, h.lastMessage(), "don't see")
}

func TestUnlockOpenTake(t *testing.T) {
	h := newHarness(t)
	h.exec(ai.Intent{Action: "move", Direction: "in"})

	// Locked, and the key is still with the hermit.
	res := h.exec(ai.Intent{Action: "open", Target: "chest"})
	assert.False(t, res.Succeeded)
	assert.Contains(t, h.lastMessage(), "locked")

	res = h.exec(ai.Intent{Action: "unlock", Target: "chest"})
	assert.False(t, res.Succeeded)
	assert.Contains(t, h.lastMessage(), "aren't carrying")

	// Trade the lamp for the hermit's key, then work the chest.
	res = h.exec(ai.Intent{Action: "trade", Target: "lamp", SecondaryTarget: "hermit"})
	assert.True(t, res.Succeeded)
	assert.True(t, h.w.Inventory.Contains(world.PlayerID, "brass_key"))
	assert.True(t, h.w.Inventory.Contains("hermit", "lamp"))

	res = h.exec(ai.Intent{Action: "unlock", Target: "chest", SecondaryTarget: "brass_key"})
	assert.True(t, res.Succeeded)

	res = h.exec(ai.Intent{Action: "open", Target: "chest"})
	assert.True(t, res.Succeeded)
	assert.Contains(t, h.lastMessage(), "rough gem")

	res = h.exec(ai.Intent{Action: "take", Target: "gem"})
	assert.True(t, res.Succeeded)
	assert.True(t, h.w.Inventory.Contains(world.PlayerID, "gem"))
}

func TestLockForcesClosed(t *testing.T) {
	h := newHarness(t)
	h.exec(ai.Intent{Action: "move", Direction: "in"})
	h.exec(ai.Intent{Action: "trade", Target: "lamp", SecondaryTarget: "hermit"})
	h.exec(ai.Intent{Action: "unlock", Target: "chest"})
	h.exec(ai.Intent{Action: "open", Target: "chest"})

	res := h.exec(ai.Intent{Action: "lock", Target: "chest"})
	assert.True(t, res.Succeeded)
	chest, _ := h.w.Spatial.Thing("chest")
	assert.True(t, chest.Locked)
	assert.False(t, chest.Open)
}

func TestPutOnSupporterAndInClosedContainer(t *testing.T) {
	h := newHarness(t)
	h.exec(ai.Intent{Action: "move", Direction: "in"})

	res := h.exec(ai.Intent{Action: "put", Target: "lamp", SecondaryTarget: "table"})
	assert.True(t, res.Succeeded)
	assert.Contains(t, h.lastMessage(), "on stone table")
	lamp, _ := h.w.Spatial.Thing("lamp")
	table, _ := h.w.Spatial.Thing("table")
	assert.Equal(t, table, lamp.Parent())

	h.exec(ai.Intent{Action: "take", Target: "lamp"})
	res = h.exec(ai.Intent{Action: "put", Target: "lamp", SecondaryTarget: "chest"})
	assert.False(t, res.Succeeded)
	assert.True(t, h.w.Inventory.Contains(world.PlayerID, "lamp"))
}

func TestGive(t *testing.T) {
	h := newHarness(t)
	h.exec(ai.Intent{Action: "move", Direction: "in"})

	res := h.exec(ai.Intent{Action: "give", Target: "lamp", SecondaryTarget: "hermit"})
	assert.True(t, res.Succeeded)
	assert.True(t, h.w.Inventory.Contains("hermit", "lamp"))
	assert.False(t, h.w.Inventory.Contains(world.PlayerID, "lamp"))
}

func TestClimb(t *testing.T) {
	h := newHarness(t)

	res := h.exec(ai.Intent{Action: "climb", Target: "rope"})
	assert.True(t, res.Succeeded)
	assert.True(t, res.LocationChanged)
	assert.Equal(t, "ledge", h.w.State.CurrentLocation())
}

func TestRead(t *testing.T) {
	h := newHarness(t)

	res := h.exec(ai.Intent{Action: "read", Target: "sign"})
	assert.True(t, res.Succeeded)
	assert.Equal(t, "DANGER: UNSTABLE TUNNELS", h.lastMessage())

	res = h.exec(ai.Intent{Action: "read", Target: "pebble"})
	assert.False(t, res.Succeeded)
}

func TestEnterAndExit(t *testing.T) {
	h := newHarness(t)
	h.exec(ai.Intent{Action: "move", Direction: "in"})

	res := h.exec(ai.Intent{Action: "enter", Target: "basket"})
	assert.True(t, res.Succeeded)
	player, _ := h.w.Spatial.Thing(world.PlayerID)
	basket, _ := h.w.Spatial.Thing("basket")
	assert.Equal(t, basket, player.Parent())
	// Still in the same room, just inside the basket.
	assert.Equal(t, "inner_cave", h.w.State.CurrentLocation())

	res = h.exec(ai.Intent{Action: "exit"})
	assert.True(t, res.Succeeded)
	room := h.w.Spatial.RoomContaining(world.PlayerID)
	require.NotNil(t, room)
	assert.Equal(t, "inner_cave", room.ID)
	assert.NotEqual(t, basket, player.Parent())
}

func TestBoardAndStart(t *testing.T) {
	h := newHarness(t)
	h.exec(ai.Intent{Action: "move", Direction: "in"})

	res := h.exec(ai.Intent{Action: "board", Target: "cart"})
	assert.True(t, res.Succeeded)

	res = h.exec(ai.Intent{Action: "start", Target: "cart"})
	assert.False(t, res.Succeeded)
	assert.Contains(t, h.lastMessage(), "key")

	h.exec(ai.Intent{Action: "take", Target: "crank_handle"})
	res = h.exec(ai.Intent{Action: "start", Target: "cart"})
	assert.True(t, res.Succeeded)
}

func TestConversation(t *testing.T) {
	h := newHarness(t)
	h.exec(ai.Intent{Action: "move", Direction: "in"})

	res := h.exec(ai.Intent{Action: "ask", Target: "hermit", Topic: "cave"})
	assert.True(t, res.Succeeded)
	conv, ok := h.events[0].(ui.Conversation)
	require.True(t, ok)
	assert.Equal(t, "Been living here forty years.", conv.Message)
	assert.Len(t, h.w.State.ConversationHistory("hermit"), 2)

	res = h.exec(ai.Intent{Action: "ask", Target: "hermit", Topic: "weather"})
	assert.False(t, res.Succeeded)
	assert.True(t, res.NeedsDialogue)
	assert.Equal(t, "hermit", res.CharacterID)
	assert.Equal(t, "weather", res.Topic)

	res = h.exec(ai.Intent{Action: "talk", Target: "hermit"})
	assert.True(t, res.Succeeded)
	conv, ok = h.events[0].(ui.Conversation)
	require.True(t, ok)
	assert.Equal(t, "Ah, a visitor. It has been a while.", conv.Message)
	assert.Equal(t, []string{"cave"}, conv.Topics)
}

func TestFarewell(t *testing.T) {
	h := newHarness(t)

	// Nobody at the cave mouth to say goodbye to.
	res := h.exec(ai.Intent{Action: "bye"})
	assert.False(t, res.Succeeded)

	h.exec(ai.Intent{Action: "move", Direction: "in"})

	// Bare "bye" resolves to the only character present.
	res = h.exec(ai.Intent{Action: "bye"})
	assert.True(t, res.Succeeded)
	conv, ok := h.events[0].(ui.Conversation)
	require.True(t, ok)
	assert.Equal(t, "Mind the loose rocks on your way out.", conv.Message)
}

func TestAskAboutBelongings(t *testing.T) {
	h := newHarness(t)
	h.exec(ai.Intent{Action: "move", Direction: "in"})

	res := h.exec(ai.Intent{Action: "ask", Target: "hermit", Topic: "belongings"})
	assert.True(t, res.Succeeded)
	conv, ok := h.events[0].(ui.Conversation)
	require.True(t, ok)
	assert.Equal(t, "I have brass key.", conv.Message)
}

func TestStoryRules(t *testing.T) {
	h := newHarness(t)

	// Conditions pass: the rule claims the unknown verb.
	res := h.exec(ai.Intent{Action: "rub", Target: "lamp"})
	assert.True(t, res.Succeeded)
	assert.True(t, h.w.State.Flag("lamp_rubbed"))
	assert.Equal(t, "The lamp glows faintly.", h.lastMessage())

	// Unknown verb with no matching rule gets the generic refusal.
	res = h.exec(ai.Intent{Action: "sing"})
	assert.False(t, res.Succeeded)
	assert.Equal(t, blockedMessage, h.lastMessage())
}

func TestRuleConditionsFailBlocksAction(t *testing.T) {
	h := newHarness(t)
	h.exec(ai.Intent{Action: "move", Direction: "in"})

	// lamp_rubbed is unset, so the matched rule blocks with no effects.
	res := h.exec(ai.Intent{Action: "tap", Target: "chest"})
	assert.False(t, res.Succeeded)
	assert.Equal(t, blockedMessage, h.lastMessage())
}

func TestRuleGuardsBuiltinVerb(t *testing.T) {
	h := newHarness(t)
	h.exec(ai.Intent{Action: "move", Direction: "in"})

	// The guard rule matches "take golden_idol" and its conditions fail:
	// the built-in take handler must not run in its place.
	res := h.exec(ai.Intent{Action: "take", Target: "golden_idol"})
	assert.False(t, res.Succeeded)
	assert.Equal(t, blockedMessage, h.lastMessage())
	assert.False(t, h.w.Inventory.Contains(world.PlayerID, "golden_idol"))
	room := h.w.Spatial.RoomContaining("golden_idol")
	require.NotNil(t, room)
	assert.Equal(t, "inner_cave", room.ID)

	h.w.State.SetFlag("trap_disarmed", true)
	res = h.exec(ai.Intent{Action: "take", Target: "golden_idol"})
	assert.True(t, res.Succeeded)
	assert.True(t, h.w.Inventory.Contains(world.PlayerID, "golden_idol"))
	assert.True(t, h.w.State.GameOver())
}

func TestEndGameStopsPlay(t *testing.T) {
	h := newHarness(t)
	h.exec(ai.Intent{Action: "move", Direction: "in"})
	h.exec(ai.Intent{Action: "rub", Target: "lamp"})

	res := h.exec(ai.Intent{Action: "tap", Target: "chest"})
	assert.True(t, res.Succeeded)
	assert.True(t, h.w.State.GameOver())

	res = h.exec(ai.Intent{Action: "look"})
	assert.False(t, res.Succeeded)
	assert.Contains(t, h.lastMessage(), "over")
}

func TestRecentActionsRecordOnlySuccesses(t *testing.T) {
	h := newHarness(t)

	h.exec(ai.Intent{Action: "take", Target: "pebble"})
	h.exec(ai.Intent{Action: "take", Target: "boulder"})

	actions := h.w.State.RecentActions()
	require.Len(t, actions, 1)
	assert.Contains(t, actions[0], "pebble")
}

func TestInventoryDisplay(t *testing.T) {
	h := newHarness(t)

	res := h.exec(ai.Intent{Action: "inventory"})
	assert.True(t, res.Succeeded)
	inv, ok := h.events[0].(ui.InventoryDisplay)
	require.True(t, ok)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "brass lamp", inv.Items[0].Name)
}
