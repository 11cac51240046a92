package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/fable/internal/game/ui"
)

func render(ev ui.Event, color bool) string {
	var buf bytes.Buffer
	NewRenderer(&buf, color).Render(ev)
	return buf.String()
}

func TestRenderLocation(t *testing.T) {
	out := render(ui.LocationDisplay{
		Name:        "Dock",
		Description: "Weathered planks over black water.",
		Objects:     []ui.EntityRef{{ID: "lantern", Name: "oil lantern"}},
		Characters:  []ui.EntityRef{{ID: "ferryman", Name: "the ferryman"}},
		Exits:       []string{"north", "south"},
	}, false)

	assert.Contains(t, out, "Dock")
	assert.Contains(t, out, "You can see: oil lantern")
	assert.Contains(t, out, "Also here: the ferryman")
	assert.Contains(t, out, "Exits: north, south")
}

func TestRenderMessageCategories(t *testing.T) {
	errOut := render(ui.MessageDisplay{Text: "no", Category: ui.CategoryError}, true)
	assert.True(t, strings.HasPrefix(errOut, Red))
	okOut := render(ui.MessageDisplay{Text: "yes", Category: ui.CategorySuccess}, true)
	assert.True(t, strings.HasPrefix(okOut, Green))
}

func TestRenderColorDisabled(t *testing.T) {
	out := render(ui.MessageDisplay{Text: "plain", Category: ui.CategoryInfo}, false)
	assert.Equal(t, "plain\n", out)
}

func TestRenderInventory(t *testing.T) {
	empty := render(ui.InventoryDisplay{}, false)
	assert.Contains(t, empty, "carrying nothing")

	full := render(ui.InventoryDisplay{
		Items: []ui.EntityRef{{ID: "lantern", Name: "oil lantern"}},
	}, false)
	assert.Contains(t, full, "You are carrying:")
	assert.Contains(t, full, "oil lantern")
}

func TestRenderConversation(t *testing.T) {
	out := render(ui.Conversation{
		CharacterName: "the ferryman",
		Message:       "Two coins.",
		Topics:        []string{"fare", "tide"},
	}, false)
	assert.Contains(t, out, `the ferryman says: "Two coins."`)
	assert.Contains(t, out, "ask about: fare, tide")
}

func TestRenderGameOver(t *testing.T) {
	win := render(ui.GameOver{Outcome: ui.OutcomeVictory, Message: "The gem is yours."}, false)
	assert.Contains(t, win, "prevailed")
	assert.Contains(t, win, "The gem is yours.")

	loss := render(ui.GameOver{Outcome: ui.OutcomeDefeat}, false)
	assert.Contains(t, loss, "story ends")
}

func TestStripANSI(t *testing.T) {
	styled := Colorize(BrightYellow, "Dock") + " " + Colorf(Dim, "by %s", "nobody")
	assert.Equal(t, "Dock by nobody", StripANSI(styled))
}
