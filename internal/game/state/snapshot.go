package state

// Snapshot is a flat copy of the full session state, suitable for
// serialization. Restoring a snapshot fully replaces in-memory state; there
// is no partial merge.
type Snapshot struct {
	CurrentLocation string                         `json:"current_location"`
	TurnCount       int                            `json:"turn_count"`
	GameOver        bool                           `json:"game_over"`
	EntityStates    map[string]map[string]any      `json:"entity_states"`
	Counters        map[string]int                 `json:"counters"`
	Flags           map[string]bool                `json:"flags"`
	RecentActions   []string                       `json:"recent_actions"`
	Conversations   map[string][]ConversationEntry `json:"conversations"`
}

// Snapshot copies the full state.
func (g *GameState) Snapshot() Snapshot {
	snap := Snapshot{
		CurrentLocation: g.currentLocation,
		TurnCount:       g.turnCount,
		GameOver:        g.gameOver,
		EntityStates:    make(map[string]map[string]any, len(g.entityStates)),
		Counters:        make(map[string]int, len(g.counters)),
		Flags:           make(map[string]bool, len(g.flags)),
		RecentActions:   g.RecentActions(),
		Conversations:   make(map[string][]ConversationEntry, len(g.conversations)),
	}
	for entityID, states := range g.entityStates {
		copied := make(map[string]any, len(states))
		for k, v := range states {
			copied[k] = v
		}
		snap.EntityStates[entityID] = copied
	}
	for k, v := range g.counters {
		snap.Counters[k] = v
	}
	for k, v := range g.flags {
		snap.Flags[k] = v
	}
	for characterID := range g.conversations {
		snap.Conversations[characterID] = g.ConversationHistory(characterID)
	}
	return snap
}

// Restore replaces all state with the snapshot's contents.
func (g *GameState) Restore(snap Snapshot) {
	g.currentLocation = snap.CurrentLocation
	g.turnCount = snap.TurnCount
	g.gameOver = snap.GameOver

	g.entityStates = make(map[string]map[string]any, len(snap.EntityStates))
	for entityID, states := range snap.EntityStates {
		copied := make(map[string]any, len(states))
		for k, v := range states {
			copied[k] = v
		}
		g.entityStates[entityID] = copied
	}

	g.counters = make(map[string]int, len(snap.Counters))
	for k, v := range snap.Counters {
		g.counters[k] = v
	}

	g.flags = make(map[string]bool, len(snap.Flags))
	for k, v := range snap.Flags {
		g.flags[k] = v
	}

	g.recentActions = append([]string(nil), snap.RecentActions...)
	if len(g.recentActions) > g.recentActionCap {
		g.recentActions = g.recentActions[len(g.recentActions)-g.recentActionCap:]
	}

	g.conversations = make(map[string][]ConversationEntry, len(snap.Conversations))
	for characterID, history := range snap.Conversations {
		g.conversations[characterID] = append([]ConversationEntry(nil), history...)
	}
}
