package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/cory-johannsen/fable/internal/game/ui"
)

// Renderer writes engine events as terminal text. Color can be disabled for
// pipes and tests.
type Renderer struct {
	out   io.Writer
	color bool
}

// NewRenderer creates a Renderer writing to out.
//
// Precondition: out must be non-nil.
func NewRenderer(out io.Writer, color bool) *Renderer {
	return &Renderer{out: out, color: color}
}

// Sink adapts the renderer to the engine's event sink.
func (r *Renderer) Sink() ui.Sink {
	return func(ev ui.Event) { r.Render(ev) }
}

// Render writes one event.
func (r *Renderer) Render(ev ui.Event) {
	switch e := ev.(type) {
	case ui.GameStart:
		fmt.Fprintln(r.out, r.wrap(BrightYellow, e.Title))
		if e.Author != "" {
			fmt.Fprintln(r.out, r.wrap(Dim, "by "+e.Author))
		}
		fmt.Fprintln(r.out)
	case ui.MessageDisplay:
		fmt.Fprintln(r.out, r.wrap(messageColor(e.Category), e.Text))
	case ui.LocationDisplay:
		r.renderLocation(e)
	case ui.InventoryDisplay:
		r.renderInventory(e)
	case ui.EntityDescription:
		fmt.Fprintln(r.out, r.wrap(BrightWhite, e.Name))
		fmt.Fprintln(r.out, r.wrap(White, e.Description))
	case ui.Conversation:
		fmt.Fprintln(r.out, r.wrapf(BrightWhite, "%s says: %q", e.CharacterName, e.Message))
		if len(e.Topics) > 0 {
			fmt.Fprintln(r.out, r.wrap(Dim, "You could ask about: "+strings.Join(e.Topics, ", ")))
		}
	case ui.GameOver:
		banner := "*** The story ends. ***"
		color := Red
		if e.Outcome == ui.OutcomeVictory {
			banner = "*** You have prevailed. ***"
			color = BrightYellow
		}
		fmt.Fprintln(r.out, r.wrap(color, banner))
		if e.Message != "" {
			fmt.Fprintln(r.out, r.wrap(White, e.Message))
		}
	case ui.DebugLog:
		fmt.Fprintln(r.out, r.wrapf(Dim, "[%s] %s", e.Level, e.Message))
	default:
		fmt.Fprintf(r.out, "%+v\n", ev)
	}
}

func (r *Renderer) renderLocation(e ui.LocationDisplay) {
	fmt.Fprintln(r.out, r.wrap(BrightYellow, e.Name))
	fmt.Fprintln(r.out, r.wrap(White, e.Description))
	if len(e.Objects) > 0 {
		fmt.Fprintln(r.out, r.wrap(Cyan, "You can see: "+joinNames(e.Objects)))
	}
	if len(e.Characters) > 0 {
		fmt.Fprintln(r.out, r.wrap(Green, "Also here: "+joinNames(e.Characters)))
	}
	if len(e.Exits) > 0 {
		fmt.Fprintln(r.out, r.wrap(Cyan, "Exits: "+strings.Join(e.Exits, ", ")))
	}
}

func (r *Renderer) renderInventory(e ui.InventoryDisplay) {
	if len(e.Items) == 0 {
		fmt.Fprintln(r.out, r.wrap(Dim, "You are carrying nothing."))
		return
	}
	fmt.Fprintln(r.out, r.wrap(BrightWhite, "You are carrying:"))
	for _, item := range e.Items {
		fmt.Fprintln(r.out, r.wrap(White, "  "+item.Name))
	}
}

func (r *Renderer) wrap(color, text string) string {
	if !r.color {
		return text
	}
	return Colorize(color, text)
}

func (r *Renderer) wrapf(color, format string, args ...any) string {
	return r.wrap(color, fmt.Sprintf(format, args...))
}

func messageColor(cat ui.Category) string {
	switch cat {
	case ui.CategoryError:
		return Red
	case ui.CategorySuccess:
		return Green
	case ui.CategoryWarning:
		return Yellow
	default:
		return White
	}
}

func joinNames(refs []ui.EntityRef) string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return strings.Join(names, ", ")
}
