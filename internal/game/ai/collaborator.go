package ai

import "context"

// Scene is the world context handed to the model with each request.
type Scene struct {
	// LocationName and LocationDescription describe the player's room.
	LocationName        string
	LocationDescription string
	// VisibleEntities maps entity IDs to display names for everything the
	// player can currently see.
	VisibleEntities map[string]string
	// CarriedItems maps item IDs to display names for the player's inventory.
	CarriedItems map[string]string
	// RecentActions lists the last few successful player actions, oldest
	// first.
	RecentActions []string
	// VerbAliases and NounAliases carry the story's parser hints.
	VerbAliases map[string]string
	NounAliases map[string]string
}

// ConversationTurn is one prior exchange with a character.
type ConversationTurn struct {
	// FromPlayer is true when the player spoke.
	FromPlayer bool
	Message    string
}

// ConversationRequest asks for a character's reply to the player.
type ConversationRequest struct {
	Scene         Scene
	CharacterID   string
	CharacterName string
	// Persona is the character's description, used to stay in voice.
	Persona string
	// Topic is what the player asked about; empty for open-ended talk.
	Topic string
	// PlayerLine is the raw player input.
	PlayerLine string
	History    []ConversationTurn
}

// NarrationRequest asks for prose describing an action's outcome.
type NarrationRequest struct {
	Scene Scene
	// Action is the intent that just resolved.
	Action Intent
	// Outcome is the mechanical result text to be embellished.
	Outcome string
	// Succeeded is false when the action was blocked.
	Succeeded bool
}

// IntentParser extracts a structured intent from raw player input.
type IntentParser interface {
	ParseIntent(ctx context.Context, input string, scene Scene) (Intent, error)
}

// Narrator renders an action outcome as story prose.
type Narrator interface {
	Narrate(ctx context.Context, req NarrationRequest) (string, error)
}

// Responder produces character dialogue.
type Responder interface {
	Respond(ctx context.Context, req ConversationRequest) (string, error)
}

// Collaborator is the full model-facing surface the engine consumes.
type Collaborator interface {
	IntentParser
	Narrator
	Responder
}
