package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// Defaults for the model client.
const (
	DefaultModel          = "claude-sonnet-4-20250514"
	DefaultMaxTokens      = 1024
	DefaultRequestTimeout = 30 * time.Second
)

// ModelConfig configures the Anthropic-backed collaborator.
type ModelConfig struct {
	APIKey         string
	Model          string
	MaxTokens      int64
	RequestTimeout time.Duration
}

func (c ModelConfig) withDefaults() ModelConfig {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	return c
}

// ModelCollaborator implements Collaborator against the Anthropic API.
type ModelCollaborator struct {
	client anthropic.Client
	cfg    ModelConfig
	logger *zap.Logger
}

// NewModelCollaborator builds a model-backed collaborator.
//
// Precondition: cfg.APIKey must not be empty.
func NewModelCollaborator(cfg ModelConfig, logger *zap.Logger) (*ModelCollaborator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("model collaborator requires an API key")
	}
	return &ModelCollaborator{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:    cfg.withDefaults(),
		logger: logger,
	}, nil
}

// ParseIntent asks the model to read the input as one JSON intent.
func (m *ModelCollaborator) ParseIntent(ctx context.Context, input string, scene Scene) (Intent, error) {
	reply, err := m.complete(ctx, intentSystemPrompt(scene), input)
	if err != nil {
		return Intent{}, fmt.Errorf("parsing intent: %w", err)
	}
	intent, err := DecodeIntent(reply)
	if err != nil {
		return Intent{}, err
	}
	m.logger.Debug("model parsed intent",
		zap.String("input", input),
		zap.String("intent", intent.String()))
	return intent, nil
}

// Narrate renders the outcome as a short piece of second-person prose.
func (m *ModelCollaborator) Narrate(ctx context.Context, req NarrationRequest) (string, error) {
	user := fmt.Sprintf("Action: %s\nMechanical result: %s\nSucceeded: %t",
		req.Action.String(), req.Outcome, req.Succeeded)
	reply, err := m.complete(ctx, narratorSystemPrompt(req.Scene), user)
	if err != nil {
		return "", fmt.Errorf("narrating outcome: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

// Respond produces one in-voice line of character dialogue.
func (m *ModelCollaborator) Respond(ctx context.Context, req ConversationRequest) (string, error) {
	var b strings.Builder
	for _, turn := range req.History {
		speaker := req.CharacterName
		if turn.FromPlayer {
			speaker = "Player"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, turn.Message)
	}
	if req.Topic != "" {
		fmt.Fprintf(&b, "Player asks about: %s\n", req.Topic)
	}
	fmt.Fprintf(&b, "Player: %s", req.PlayerLine)

	reply, err := m.complete(ctx, responderSystemPrompt(req), b.String())
	if err != nil {
		return "", fmt.Errorf("character response: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

func (m *ModelCollaborator) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.RequestTimeout)
	defer cancel()

	msg, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(m.cfg.Model),
		MaxTokens: m.cfg.MaxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("model returned no text content")
	}
	return text.String(), nil
}

func intentSystemPrompt(scene Scene) string {
	var b strings.Builder
	b.WriteString("You convert one line of interactive-fiction player input into a single JSON object ")
	b.WriteString(`with keys "action", "target", "secondary_target", "topic", and "direction". `)
	b.WriteString("Use canonical actions: move, look, examine, take, drop, give, put, open, close, lock, unlock, ")
	b.WriteString("enter, exit, climb, board, start, read, talk, ask, trade, inventory. ")
	b.WriteString("Targets must be entity IDs from the scene. Reply with the JSON object only.\n\n")
	writeScene(&b, scene)
	if len(scene.VerbAliases) > 0 {
		b.WriteString("\nStory verb aliases:\n")
		writeSortedMap(&b, scene.VerbAliases)
	}
	if len(scene.NounAliases) > 0 {
		b.WriteString("\nStory noun aliases:\n")
		writeSortedMap(&b, scene.NounAliases)
	}
	return b.String()
}

func narratorSystemPrompt(scene Scene) string {
	var b strings.Builder
	b.WriteString("You narrate an interactive fiction story in second person, present tense. ")
	b.WriteString("Rephrase the mechanical result as one or two sentences of atmospheric prose. ")
	b.WriteString("Never invent objects, exits, or state changes beyond the mechanical result.\n\n")
	writeScene(&b, scene)
	return b.String()
}

func responderSystemPrompt(req ConversationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You speak as %s in an interactive fiction story. ", req.CharacterName)
	if req.Persona != "" {
		fmt.Fprintf(&b, "Character: %s ", req.Persona)
	}
	b.WriteString("Reply with one or two lines of dialogue, in voice, no quotation marks, no stage directions.\n\n")
	writeScene(&b, req.Scene)
	return b.String()
}

func writeScene(b *strings.Builder, scene Scene) {
	fmt.Fprintf(b, "Location: %s. %s\n", scene.LocationName, scene.LocationDescription)
	if len(scene.VisibleEntities) > 0 {
		b.WriteString("Visible entities:\n")
		writeSortedMap(b, scene.VisibleEntities)
	}
	if len(scene.CarriedItems) > 0 {
		b.WriteString("Player inventory:\n")
		writeSortedMap(b, scene.CarriedItems)
	}
	if len(scene.RecentActions) > 0 {
		fmt.Fprintf(b, "Recent actions: %s\n", strings.Join(scene.RecentActions, "; "))
	}
}

// writeSortedMap keeps prompts deterministic across runs.
func writeSortedMap(b *strings.Builder, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "  %s: %s\n", k, m[k])
	}
}
