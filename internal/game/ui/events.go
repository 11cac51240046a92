// Package ui defines the typed outbound events the engine emits for a
// rendering collaborator. Payload shapes are a stable contract.
package ui

// EventKind discriminates event payloads.
type EventKind string

// All event kinds.
const (
	KindGameStart         EventKind = "game_start"
	KindLocationDisplay   EventKind = "location_display"
	KindMessageDisplay    EventKind = "message_display"
	KindInventoryDisplay  EventKind = "inventory_display"
	KindEntityDescription EventKind = "entity_description"
	KindGameOver          EventKind = "game_over"
	KindConversation      EventKind = "conversation"
	KindDebugLog          EventKind = "debug_log"
)

// Event is implemented by every outbound event payload.
type Event interface {
	Kind() EventKind
}

// Sink receives engine events. Delivery is synchronous and in order.
type Sink func(Event)

// Category classifies a displayed message.
type Category string

// Message categories.
const (
	CategoryInfo    Category = "info"
	CategoryError   Category = "error"
	CategorySuccess Category = "success"
	CategoryWarning Category = "warning"
)

// Outcome is the terminal result of a session.
type Outcome string

// Game outcomes.
const (
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
)

// EntityRef names an entity in a display listing.
type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameStart announces a new session.
type GameStart struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

func (GameStart) Kind() EventKind { return KindGameStart }

// LocationDisplay describes the player's current room.
type LocationDisplay struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Objects     []EntityRef `json:"objects"`
	Characters  []EntityRef `json:"characters"`
	Exits       []string    `json:"exits"`
}

func (LocationDisplay) Kind() EventKind { return KindLocationDisplay }

// MessageDisplay carries one line of narration or feedback.
type MessageDisplay struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

func (MessageDisplay) Kind() EventKind { return KindMessageDisplay }

// InventoryDisplay lists an inventory's contents.
type InventoryDisplay struct {
	Items []EntityRef `json:"items"`
}

func (InventoryDisplay) Kind() EventKind { return KindInventoryDisplay }

// EntityClass tells a renderer whether a described entity is an object or a
// character.
type EntityClass string

// Entity classes.
const (
	ClassObject    EntityClass = "object"
	ClassCharacter EntityClass = "character"
)

// EntityDescription describes one examined entity.
type EntityDescription struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Class       EntityClass `json:"class"`
}

func (EntityDescription) Kind() EventKind { return KindEntityDescription }

// GameOver reports the session's terminal outcome.
type GameOver struct {
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
}

func (GameOver) Kind() EventKind { return KindGameOver }

// Conversation carries one character reply, with optional topic suggestions.
type Conversation struct {
	CharacterID   string   `json:"character_id"`
	CharacterName string   `json:"character_name"`
	Message       string   `json:"message"`
	Topics        []string `json:"topics,omitempty"`
}

func (Conversation) Kind() EventKind { return KindConversation }

// DebugLog is diagnostic output for a debug channel.
type DebugLog struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}

func (DebugLog) Kind() EventKind { return KindDebugLog }

// Info emits an informational message to the sink.
func Info(sink Sink, text string) {
	sink(MessageDisplay{Text: text, Category: CategoryInfo})
}

// Error emits an error message to the sink.
func Error(sink Sink, text string) {
	sink(MessageDisplay{Text: text, Category: CategoryError})
}

// Success emits a success message to the sink.
func Success(sink Sink, text string) {
	sink(MessageDisplay{Text: text, Category: CategorySuccess})
}
