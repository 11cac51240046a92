package ai

import (
	"context"
	"fmt"
	"strings"
)

// StaticCollaborator is the deterministic fallback used when no model is
// configured. Intent parsing is a small grammar over canonical verbs plus
// the story's parser hints; narration passes mechanical results through
// unchanged.
type StaticCollaborator struct{}

// NewStaticCollaborator builds the fallback collaborator.
func NewStaticCollaborator() *StaticCollaborator {
	return &StaticCollaborator{}
}

var canonicalVerbs = map[string]string{
	"go":        "move",
	"walk":      "move",
	"move":      "move",
	"look":      "look",
	"l":         "look",
	"examine":   "examine",
	"x":         "examine",
	"inspect":   "examine",
	"take":      "take",
	"get":       "take",
	"grab":      "take",
	"pick":      "take",
	"drop":      "drop",
	"give":      "give",
	"put":       "put",
	"place":     "put",
	"open":      "open",
	"close":     "close",
	"shut":      "close",
	"lock":      "lock",
	"unlock":    "unlock",
	"enter":     "enter",
	"exit":      "exit",
	"leave":     "exit",
	"out":       "exit",
	"climb":     "climb",
	"board":     "board",
	"ride":      "board",
	"start":     "start",
	"drive":     "start",
	"read":      "read",
	"talk":      "talk",
	"speak":     "talk",
	"ask":       "ask",
	"bye":       "bye",
	"goodbye":   "bye",
	"farewell":  "bye",
	"trade":     "trade",
	"swap":      "trade",
	"inventory": "inventory",
	"i":         "inventory",
	"inv":       "inventory",
}

var directions = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
	"up": true, "down": true, "in": true, "out": true,
}

var articles = map[string]bool{
	"a": true, "an": true, "the": true, "at": true, "up": true,
	"to": true, "with": true, "into": true, "onto": true,
}

// ParseIntent reads the input with a fixed grammar. It never calls out and
// never fails on empty input with anything but an error.
func (s *StaticCollaborator) ParseIntent(_ context.Context, input string, scene Scene) (Intent, error) {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(words) == 0 {
		return Intent{}, fmt.Errorf("empty input")
	}

	// A bare direction is shorthand for movement.
	if len(words) == 1 && directions[words[0]] {
		return Intent{Action: "move", Direction: words[0]}, nil
	}

	verb := words[0]
	if alias, ok := scene.VerbAliases[verb]; ok {
		verb = alias
	}
	action, ok := canonicalVerbs[verb]
	if !ok {
		// Unrecognized verbs pass through so story rules can claim them.
		action = verb
	}
	rest := words[1:]

	// "pick up" and "check inventory" style two-word verbs.
	if len(rest) > 0 && articles[rest[0]] {
		rest = rest[1:]
	}
	if action == "check" && len(rest) > 0 && rest[0] == "your" {
		rest = rest[1:]
	}
	if len(rest) > 0 && rest[0] == "inventory" && (action == "check" || action == "look") {
		return Intent{Action: "inventory"}, nil
	}

	intent := Intent{Action: action}

	switch action {
	case "move":
		if len(rest) > 0 && directions[rest[len(rest)-1]] {
			intent.Direction = rest[len(rest)-1]
		}
		return intent, nil
	case "inventory", "exit":
		return intent, nil
	case "ask":
		// ask <character> about <topic>
		if i := indexOf(rest, "about"); i >= 0 {
			intent.Target = s.resolveNoun(rest[:i], scene)
			intent.Topic = strings.Join(stripArticles(rest[i+1:]), " ")
		} else {
			intent.Target = s.resolveNoun(rest, scene)
		}
		return intent, nil
	case "give", "put", "trade":
		// give <item> to <character>, put <item> on/in <surface>
		for _, sep := range []string{"to", "on", "in", "for"} {
			if i := indexOf(rest, sep); i > 0 {
				intent.Target = s.resolveNoun(rest[:i], scene)
				intent.SecondaryTarget = s.resolveNoun(rest[i+1:], scene)
				if sep == "on" {
					intent.Direction = "on"
				}
				return intent, nil
			}
		}
		intent.Target = s.resolveNoun(rest, scene)
		return intent, nil
	case "unlock", "lock", "start":
		// unlock <thing> with <key>
		if i := indexOf(rest, "with"); i > 0 {
			intent.Target = s.resolveNoun(rest[:i], scene)
			intent.SecondaryTarget = s.resolveNoun(rest[i+1:], scene)
			return intent, nil
		}
	}

	if len(rest) > 0 {
		intent.Target = s.resolveNoun(rest, scene)
	}
	return intent, nil
}

// Narrate returns the mechanical result unchanged.
func (s *StaticCollaborator) Narrate(_ context.Context, req NarrationRequest) (string, error) {
	return req.Outcome, nil
}

// Respond produces no improvised dialogue; callers fall back to the
// character's declared topics.
func (s *StaticCollaborator) Respond(_ context.Context, req ConversationRequest) (string, error) {
	return "", fmt.Errorf("%s has nothing to say about that", req.CharacterName)
}

// resolveNoun maps a noun phrase to an entity ID using the story's noun
// aliases, exact IDs, and display-name matching against the scene.
func (s *StaticCollaborator) resolveNoun(words []string, scene Scene) string {
	words = stripArticles(words)
	if len(words) == 0 {
		return ""
	}
	phrase := strings.Join(words, " ")

	if id, ok := scene.NounAliases[phrase]; ok {
		return id
	}
	underscored := strings.Join(words, "_")
	if _, ok := scene.VisibleEntities[underscored]; ok {
		return underscored
	}
	if _, ok := scene.CarriedItems[underscored]; ok {
		return underscored
	}

	for id, name := range scene.VisibleEntities {
		if nameMatches(name, phrase) {
			return id
		}
	}
	for id, name := range scene.CarriedItems {
		if nameMatches(name, phrase) {
			return id
		}
	}

	// Unresolved phrases pass through underscored so story rules can still
	// match them.
	return underscored
}

func nameMatches(name, phrase string) bool {
	name = strings.ToLower(name)
	if name == phrase {
		return true
	}
	// "lamp" matches "brass lamp": every word of the phrase appears in the
	// display name.
	nameWords := map[string]bool{}
	for _, w := range strings.Fields(name) {
		nameWords[w] = true
	}
	for _, w := range strings.Fields(phrase) {
		if !nameWords[w] {
			return false
		}
	}
	return true
}

func stripArticles(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			out = append(out, w)
		}
	}
	return out
}

func indexOf(words []string, word string) int {
	for i, w := range words {
		if w == word {
			return i
		}
	}
	return -1
}
