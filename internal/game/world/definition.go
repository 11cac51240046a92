// Package world provides the story definition schema, its YAML loader, and
// the builder that turns a definition into a live spatial world.
package world

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/fable/internal/game/rules"
)

// Meta holds story-wide settings.
type Meta struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Version     string `yaml:"version"`
	OpeningText string `yaml:"opening_text"`
	// StartLocation is the room the player begins in.
	StartLocation string `yaml:"start_location"`
	// StartingInventory lists object IDs the player begins holding.
	StartingInventory []string `yaml:"starting_inventory"`
	// LegacyPlacement keeps relocation at the flat-map behavior older
	// stories were written against: every move is a top-level tag update
	// with no capacity or openness checks.
	LegacyPlacement bool `yaml:"legacy_placement"`
	// RecentActionCap bounds the recent-action log. 0 = default.
	RecentActionCap int `yaml:"recent_action_cap"`
	// ScriptDir is the path to Lua hook scripts. Empty = no scripting.
	ScriptDir string `yaml:"script_dir"`
	// ScriptInstructionLimit overrides the default per-call instruction
	// budget for story scripts. 0 = default.
	ScriptInstructionLimit int `yaml:"script_instruction_limit"`
}

// LocationDef describes one room.
type LocationDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Connections maps direction labels to destination room IDs.
	Connections map[string]string `yaml:"connections"`
	Dark        bool              `yaml:"dark"`
	Outdoors    bool              `yaml:"outdoors"`
}

// ObjectDef describes one object. At most one of the kind flags
// (container, supporter, enterable, vehicle, backdrop, scenery) may be set;
// none of them means a plain portable thing.
type ObjectDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Location is where the object starts: a room ID, another object's ID,
	// a character's ID (the object starts in their inventory), or a legacy
	// "<character>_bag" tag.
	Location string `yaml:"location"`
	// Relation is "on" to start on top of a supporter named by Location;
	// anything else means inside.
	Relation string `yaml:"relation"`

	Portable *bool `yaml:"portable"`
	Fixed    bool  `yaml:"fixed"`

	Container   bool   `yaml:"container"`
	Openable    *bool  `yaml:"openable"`
	Open        bool   `yaml:"open"`
	Locked      bool   `yaml:"locked"`
	UnlocksWith string `yaml:"unlocks_with"`
	Capacity    int    `yaml:"capacity"`

	Supporter bool `yaml:"supporter"`

	Enterable        bool   `yaml:"enterable"`
	EnterDestination string `yaml:"enter_destination"`

	Vehicle     bool   `yaml:"vehicle"`
	Operational *bool  `yaml:"operational"`
	RequiredKey string `yaml:"required_key"`

	Backdrop  bool     `yaml:"backdrop"`
	PresentIn []string `yaml:"present_in"`

	Scenery bool `yaml:"scenery"`

	Readable    bool   `yaml:"readable"`
	TextContent string `yaml:"text_content"`

	Climbable        bool   `yaml:"climbable"`
	ClimbDestination string `yaml:"climb_destination"`
}

// CharacterDef describes one non-player character.
type CharacterDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Location is the room the character starts in.
	Location string `yaml:"location"`
	// Inventory lists object IDs the character starts holding.
	Inventory []string `yaml:"inventory"`
	// Topics maps conversation topics to canned replies.
	Topics map[string]string `yaml:"topics"`
	// Profile shapes greetings, farewells, and improvised dialogue.
	Profile ProfileDef `yaml:"profile"`
}

// ProfileDef steers a character's conversational voice. Every field is
// optional; empty fields fall back to generic phrasing.
type ProfileDef struct {
	// Greeting is spoken when the player opens conversation.
	Greeting string `yaml:"greeting"`
	// Farewell is spoken when the player says goodbye.
	Farewell string `yaml:"farewell"`
	// Personality is free text describing manner and mood.
	Personality string `yaml:"personality"`
	// Knowledge lists facts the character can draw on.
	Knowledge []string `yaml:"knowledge"`
	// Constraints lists things the character must not reveal or do.
	Constraints []string `yaml:"constraints"`
}

// ParserHints steer intent extraction toward the story's vocabulary.
type ParserHints struct {
	// VerbAliases maps story-specific verbs to canonical actions.
	VerbAliases map[string]string `yaml:"verb_aliases"`
	// NounAliases maps alternate object names to entity IDs.
	NounAliases map[string]string `yaml:"noun_aliases"`
}

// RuleSet groups a story's declarative rules.
type RuleSet struct {
	Actions []rules.ActionRule `yaml:"actions"`
	Events  []rules.EventRule  `yaml:"events"`
}

// Definition is a complete story file.
type Definition struct {
	Meta        Meta           `yaml:"meta"`
	Locations   []LocationDef  `yaml:"locations"`
	Objects     []ObjectDef    `yaml:"objects"`
	Characters  []CharacterDef `yaml:"characters"`
	Rules       RuleSet        `yaml:"rules"`
	ParserHints ParserHints    `yaml:"parser_hints"`
}

// LegacyBagSuffix is the old flat-map convention for inventory placement:
// an object whose location is "<character>_bag" starts in that character's
// inventory.
const LegacyBagSuffix = "_bag"

// Validate checks definition invariants: non-empty IDs, unique IDs across
// every entity section, and referential integrity for placements,
// connections, keys, destinations, and rules.
//
// Postcondition: returns nil if valid, or an error naming the first
// violation.
func (d *Definition) Validate() error {
	if d.Meta.Title == "" {
		return fmt.Errorf("meta: title must not be empty")
	}
	if d.Meta.StartLocation == "" {
		return fmt.Errorf("meta: start_location must not be empty")
	}
	if len(d.Locations) == 0 {
		return fmt.Errorf("definition must contain at least one location")
	}

	ids := make(map[string]string)
	locations := make(map[string]bool)
	objects := make(map[string]bool)
	characters := make(map[string]bool)

	claim := func(id, section string) error {
		if id == "" {
			return fmt.Errorf("%s: entity ID must not be empty", section)
		}
		if prev, taken := ids[id]; taken {
			return fmt.Errorf("%s: ID %q already used by %s", section, id, prev)
		}
		ids[id] = section
		return nil
	}

	for _, l := range d.Locations {
		if err := claim(l.ID, "locations"); err != nil {
			return err
		}
		locations[l.ID] = true
	}
	for _, o := range d.Objects {
		if err := claim(o.ID, "objects"); err != nil {
			return err
		}
		objects[o.ID] = true
	}
	for _, c := range d.Characters {
		if err := claim(c.ID, "characters"); err != nil {
			return err
		}
		characters[c.ID] = true
	}

	if !locations[d.Meta.StartLocation] {
		return fmt.Errorf("meta: start_location %q is not a defined location", d.Meta.StartLocation)
	}
	for _, item := range d.Meta.StartingInventory {
		if !objects[item] {
			return fmt.Errorf("meta: starting_inventory item %q is not a defined object", item)
		}
	}

	for _, l := range d.Locations {
		if l.Name == "" {
			return fmt.Errorf("location %q: name must not be empty", l.ID)
		}
		for dir, target := range l.Connections {
			if !locations[target] {
				return fmt.Errorf("location %q: connection %q targets unknown location %q", l.ID, dir, target)
			}
		}
	}

	for _, o := range d.Objects {
		if err := validateObject(o, locations, objects, characters); err != nil {
			return err
		}
	}

	for _, c := range d.Characters {
		if c.Name == "" {
			return fmt.Errorf("character %q: name must not be empty", c.ID)
		}
		if c.Location != "" && !locations[c.Location] {
			return fmt.Errorf("character %q: location %q is not a defined location", c.ID, c.Location)
		}
		for _, item := range c.Inventory {
			if !objects[item] {
				return fmt.Errorf("character %q: inventory item %q is not a defined object", c.ID, item)
			}
		}
	}

	if err := d.validateRules(locations, objects, characters); err != nil {
		return err
	}

	for alias, id := range d.ParserHints.NounAliases {
		if !objects[id] && !characters[id] && !locations[id] {
			return fmt.Errorf("parser_hints: noun alias %q maps to unknown entity %q", alias, id)
		}
	}

	return nil
}

func validateObject(o ObjectDef, locations, objects, characters map[string]bool) error {
	if o.Name == "" {
		return fmt.Errorf("object %q: name must not be empty", o.ID)
	}

	kinds := 0
	for _, set := range []bool{o.Container, o.Supporter, o.Enterable, o.Vehicle, o.Backdrop, o.Scenery} {
		if set {
			kinds++
		}
	}
	if kinds > 1 {
		return fmt.Errorf("object %q: at most one kind flag may be set", o.ID)
	}

	if o.Location != "" {
		owner := strings.TrimSuffix(o.Location, LegacyBagSuffix)
		switch {
		case locations[o.Location], objects[o.Location], characters[o.Location]:
		case characters[owner]:
		default:
			return fmt.Errorf("object %q: location %q is not a defined location, object, or character", o.ID, o.Location)
		}
	}
	if o.UnlocksWith != "" && !objects[o.UnlocksWith] {
		return fmt.Errorf("object %q: unlocks_with %q is not a defined object", o.ID, o.UnlocksWith)
	}
	if o.RequiredKey != "" && !objects[o.RequiredKey] {
		return fmt.Errorf("object %q: required_key %q is not a defined object", o.ID, o.RequiredKey)
	}
	if o.ClimbDestination != "" && !locations[o.ClimbDestination] {
		return fmt.Errorf("object %q: climb_destination %q is not a defined location", o.ID, o.ClimbDestination)
	}
	if o.EnterDestination != "" && !locations[o.EnterDestination] {
		return fmt.Errorf("object %q: enter_destination %q is not a defined location", o.ID, o.EnterDestination)
	}
	if o.Climbable && o.ClimbDestination == "" {
		return fmt.Errorf("object %q: climbable requires climb_destination", o.ID)
	}
	if o.Backdrop && len(o.PresentIn) == 0 {
		return fmt.Errorf("object %q: backdrop requires present_in rooms", o.ID)
	}
	for _, room := range o.PresentIn {
		if !locations[room] {
			return fmt.Errorf("object %q: present_in room %q is not a defined location", o.ID, room)
		}
	}
	return nil
}

func (d *Definition) validateRules(locations, objects, characters map[string]bool) error {
	// The player is addressable by rules even though no section declares it.
	entity := func(id string) bool {
		return id == PlayerID || objects[id] || characters[id] || locations[id]
	}

	checkConditions := func(ruleID string, conds []rules.Condition) error {
		for _, c := range conds {
			switch c.Type {
			case rules.CondLocationIs:
				loc, _ := c.Value.(string)
				if loc == "" {
					loc = c.Target
				}
				if !locations[loc] {
					return fmt.Errorf("rule %q: location_is references unknown location %q", ruleID, loc)
				}
			case rules.CondHasItem:
				item, _ := c.Value.(string)
				if item == "" {
					item = c.Target
				}
				if !objects[item] {
					return fmt.Errorf("rule %q: has_item references unknown object %q", ruleID, item)
				}
			case rules.CondStateEquals, rules.CondStateNotEquals:
				if !entity(c.Target) {
					return fmt.Errorf("rule %q: state condition references unknown entity %q", ruleID, c.Target)
				}
			}
		}
		return nil
	}

	checkEffects := func(ruleID string, effects []rules.Effect) error {
		if len(effects) == 0 {
			return fmt.Errorf("rule %q: must declare at least one effect", ruleID)
		}
		for _, e := range effects {
			switch e.Type {
			case rules.EffectMoveEntity:
				if !entity(e.Target) {
					return fmt.Errorf("rule %q: move_entity references unknown entity %q", ruleID, e.Target)
				}
			case rules.EffectAddToInventory, rules.EffectRemoveFromInventory:
				item := e.Item
				if item == "" {
					item = e.Target
				}
				if !objects[item] {
					return fmt.Errorf("rule %q: inventory effect references unknown object %q", ruleID, item)
				}
			case rules.EffectSetState:
				if !entity(e.Target) {
					return fmt.Errorf("rule %q: set_state references unknown entity %q", ruleID, e.Target)
				}
			}
		}
		return nil
	}

	seen := make(map[string]bool)
	for _, r := range d.Rules.Actions {
		if r.ID == "" {
			return fmt.Errorf("action rule: ID must not be empty")
		}
		if seen[r.ID] {
			return fmt.Errorf("rule %q: duplicate rule ID", r.ID)
		}
		seen[r.ID] = true
		if r.Action == "" {
			return fmt.Errorf("rule %q: action must not be empty", r.ID)
		}
		if err := checkConditions(r.ID, r.Conditions); err != nil {
			return err
		}
		if err := checkEffects(r.ID, r.Effects); err != nil {
			return err
		}
	}
	for _, r := range d.Rules.Events {
		if r.ID == "" {
			return fmt.Errorf("event rule: ID must not be empty")
		}
		if seen[r.ID] {
			return fmt.Errorf("rule %q: duplicate rule ID", r.ID)
		}
		seen[r.ID] = true
		switch r.Trigger.Type {
		case rules.TriggerEveryTurn:
		case rules.TriggerOnEnterLocation:
			if !locations[r.Trigger.Location()] {
				return fmt.Errorf("rule %q: on_enter_location trigger references unknown location %q", r.ID, r.Trigger.Location())
			}
		case rules.TriggerTimedEvent:
			if turn, ok := r.Trigger.Turn(); !ok || turn < 1 {
				return fmt.Errorf("rule %q: timed_event trigger needs a positive turn number", r.ID)
			}
		default:
			return fmt.Errorf("rule %q: unknown trigger type %q", r.ID, r.Trigger.Type)
		}
		if err := checkConditions(r.ID, r.Conditions); err != nil {
			return err
		}
		if err := checkEffects(r.ID, r.Effects); err != nil {
			return err
		}
	}

	return nil
}
