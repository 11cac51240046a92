// Package state holds the mutable session state: current location, turn
// counter, per-entity key/value state, counters, flags, the recent-action
// log, and per-character conversation history.
package state

import "time"

// ConversationHistoryLimit caps per-character conversation history. The
// oldest entries are trimmed first.
const ConversationHistoryLimit = 20

// DefaultRecentActionCap is the recent-action log bound used when the
// configuration does not override it.
const DefaultRecentActionCap = 10

// Speaker identifies who said a conversation entry.
type Speaker string

// Conversation speakers.
const (
	SpeakerPlayer    Speaker = "player"
	SpeakerCharacter Speaker = "character"
)

// ConversationEntry is one line of recorded dialogue with a character.
type ConversationEntry struct {
	Speaker   Speaker   `json:"speaker"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// GameState is the session's mutable state. It is exclusively owned by the
// command-processing loop.
type GameState struct {
	currentLocation string
	turnCount       int
	gameOver        bool
	entityStates    map[string]map[string]any
	counters        map[string]int
	flags           map[string]bool
	recentActions   []string
	recentActionCap int
	conversations   map[string][]ConversationEntry
}

// New creates a GameState positioned at the given starting location.
//
// Precondition: recentActionCap > 0; use DefaultRecentActionCap.
func New(startLocation string, recentActionCap int) *GameState {
	if recentActionCap <= 0 {
		recentActionCap = DefaultRecentActionCap
	}
	return &GameState{
		currentLocation: startLocation,
		entityStates:    make(map[string]map[string]any),
		counters:        make(map[string]int),
		flags:           make(map[string]bool),
		recentActionCap: recentActionCap,
		conversations:   make(map[string][]ConversationEntry),
	}
}

// CurrentLocation returns the player's current room ID.
func (g *GameState) CurrentLocation() string {
	return g.currentLocation
}

// SetCurrentLocation moves the player to the given room ID.
func (g *GameState) SetCurrentLocation(locationID string) {
	g.currentLocation = locationID
}

// TurnCount returns the number of successfully completed turns.
func (g *GameState) TurnCount() int {
	return g.turnCount
}

// IncrementTurn advances the turn counter. Call only after a successful
// command.
func (g *GameState) IncrementTurn() {
	g.turnCount++
}

// GameOver reports whether an end_game effect has fired.
func (g *GameState) GameOver() bool {
	return g.gameOver
}

// SetGameOver sets the game-over flag.
func (g *GameState) SetGameOver(over bool) {
	g.gameOver = over
}

// EntityState looks up one key of an entity's state table.
func (g *GameState) EntityState(entityID, key string) (any, bool) {
	states, ok := g.entityStates[entityID]
	if !ok {
		return nil, false
	}
	v, ok := states[key]
	return v, ok
}

// SetEntityState writes one key of an entity's state table, creating the
// table on first write.
func (g *GameState) SetEntityState(entityID, key string, value any) {
	if g.entityStates[entityID] == nil {
		g.entityStates[entityID] = make(map[string]any)
	}
	g.entityStates[entityID][key] = value
}

// Counter returns a named counter, zero when unset.
func (g *GameState) Counter(name string) int {
	return g.counters[name]
}

// SetCounter sets a named counter.
func (g *GameState) SetCounter(name string, value int) {
	g.counters[name] = value
}

// AddCounter adds delta to a named counter.
func (g *GameState) AddCounter(name string, delta int) {
	g.counters[name] += delta
}

// Flag returns a named flag, false when unset.
func (g *GameState) Flag(name string) bool {
	return g.flags[name]
}

// SetFlag sets a named flag.
func (g *GameState) SetFlag(name string, value bool) {
	g.flags[name] = value
}

// RecordAction appends to the recent-action log, dropping the oldest entry
// past the cap.
func (g *GameState) RecordAction(action string) {
	g.recentActions = append(g.recentActions, action)
	if len(g.recentActions) > g.recentActionCap {
		g.recentActions = g.recentActions[len(g.recentActions)-g.recentActionCap:]
	}
}

// RecentActions returns a copy of the recent-action log, oldest first.
func (g *GameState) RecentActions() []string {
	out := make([]string, len(g.recentActions))
	copy(out, g.recentActions)
	return out
}

// RecordConversation appends dialogue to a character's history, trimming
// the oldest entries past ConversationHistoryLimit.
func (g *GameState) RecordConversation(characterID string, entry ConversationEntry) {
	history := append(g.conversations[characterID], entry)
	if len(history) > ConversationHistoryLimit {
		history = history[len(history)-ConversationHistoryLimit:]
	}
	g.conversations[characterID] = history
}

// ConversationHistory returns a copy of a character's dialogue history,
// oldest first.
func (g *GameState) ConversationHistory(characterID string) []ConversationEntry {
	history := g.conversations[characterID]
	out := make([]ConversationEntry, len(history))
	copy(out, history)
	return out
}
