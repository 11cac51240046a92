// Package ai turns free-form player input into structured intents and
// renders narration, via a language model when one is configured and via
// deterministic fallbacks when not.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Intent is the structured reading of one player input.
//
// There is no confidence score: a parse either yields an action or it
// doesn't, and the caller falls back to the static parser (and then to an
// "I don't understand" reply) when decoding fails. Likewise nothing here
// marks conversational input; whether an action opens dialogue is decided
// downstream and surfaces as Result.NeedsDialogue.
type Intent struct {
	// Action is the canonical verb: "move", "take", "open", "ask", ...
	Action string `json:"action"`
	// Target is the entity ID the action applies to, when it has one.
	Target string `json:"target,omitempty"`
	// SecondaryTarget is the indirect object: the surface for "put X on Y",
	// the recipient for "give X to Y".
	SecondaryTarget string `json:"secondary_target,omitempty"`
	// Topic is the conversation subject for "ask" and "talk".
	Topic string `json:"topic,omitempty"`
	// Direction is the travel direction for "move".
	Direction string `json:"direction,omitempty"`
}

// IsZero reports whether no action was extracted.
func (i Intent) IsZero() bool {
	return i.Action == ""
}

func (i Intent) String() string {
	parts := []string{i.Action}
	if i.Direction != "" {
		parts = append(parts, i.Direction)
	}
	if i.Target != "" {
		parts = append(parts, i.Target)
	}
	if i.SecondaryTarget != "" {
		parts = append(parts, i.SecondaryTarget)
	}
	if i.Topic != "" {
		parts = append(parts, "about "+i.Topic)
	}
	return strings.Join(parts, " ")
}

// DecodeIntent parses a model reply into an Intent. The reply may wrap the
// JSON object in prose or a fenced code block; everything outside the
// outermost braces is ignored.
func DecodeIntent(reply string) (Intent, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return Intent{}, fmt.Errorf("no JSON object in model reply %q", truncate(reply, 80))
	}
	var intent Intent
	if err := json.Unmarshal([]byte(reply[start:end+1]), &intent); err != nil {
		return Intent{}, fmt.Errorf("decoding intent: %w", err)
	}
	if intent.IsZero() {
		return Intent{}, fmt.Errorf("model reply carried no action")
	}
	intent.Action = strings.ToLower(strings.TrimSpace(intent.Action))
	return intent, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
