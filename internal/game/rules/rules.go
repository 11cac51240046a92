// Package rules implements the declarative condition/effect engine: action
// rules matched by verb/target/topic and event rules fired by triggers.
package rules

// ConditionType enumerates the closed condition set.
type ConditionType string

// All condition types.
const (
	CondLocationIs     ConditionType = "location_is"
	CondHasItem        ConditionType = "has_item"
	CondStateEquals    ConditionType = "state_equals"
	CondStateNotEquals ConditionType = "state_not_equals"
	CondCounterEquals  ConditionType = "counter_equals"
	CondCounterGreater ConditionType = "counter_greater"
	CondCounterLess    ConditionType = "counter_less"
	CondFlagIs         ConditionType = "flag_is"
)

// Condition is one predicate in a rule. Which fields are meaningful depends
// on Type: location_is and has_item use Target/Value, state conditions use
// Target/Key/Value, counter and flag conditions use Key/Value.
type Condition struct {
	Type   ConditionType `yaml:"type" json:"type"`
	Target string        `yaml:"target,omitempty" json:"target,omitempty"`
	Key    string        `yaml:"key,omitempty" json:"key,omitempty"`
	Value  any           `yaml:"value,omitempty" json:"value,omitempty"`
}

// EffectType enumerates the closed effect set.
type EffectType string

// All effect types.
const (
	EffectDisplayText         EffectType = "display_text"
	EffectMoveEntity          EffectType = "move_entity"
	EffectSetState            EffectType = "set_state"
	EffectAddToInventory      EffectType = "add_to_inventory"
	EffectRemoveFromInventory EffectType = "remove_from_inventory"
	EffectEndGame             EffectType = "end_game"
	EffectSetCounter          EffectType = "set_counter"
	EffectAddCounter          EffectType = "add_counter"
	EffectSetFlag             EffectType = "set_flag"
)

// Effect is one mutation in a rule. Effects run in declared order; later
// effects observe earlier effects' changes.
type Effect struct {
	Type        EffectType `yaml:"type" json:"type"`
	Content     string     `yaml:"content,omitempty" json:"content,omitempty"`
	Target      string     `yaml:"target,omitempty" json:"target,omitempty"`
	Destination string     `yaml:"destination,omitempty" json:"destination,omitempty"`
	Item        string     `yaml:"item,omitempty" json:"item,omitempty"`
	Key         string     `yaml:"key,omitempty" json:"key,omitempty"`
	Value       any        `yaml:"value,omitempty" json:"value,omitempty"`
	Outcome     string     `yaml:"outcome,omitempty" json:"outcome,omitempty"`
	Message     string     `yaml:"message,omitempty" json:"message,omitempty"`
}

// ActionRule fires when a player intent matches its action, target, and
// topic. An unset target or topic matches anything.
type ActionRule struct {
	ID              string      `yaml:"id" json:"id"`
	Action          string      `yaml:"action" json:"action"`
	Target          string      `yaml:"target,omitempty" json:"target,omitempty"`
	SecondaryTarget string      `yaml:"secondary_target,omitempty" json:"secondary_target,omitempty"`
	Topic           string      `yaml:"topic,omitempty" json:"topic,omitempty"`
	Conditions      []Condition `yaml:"conditions,omitempty" json:"conditions,omitempty"`
	Effects         []Effect    `yaml:"effects" json:"effects"`
}

// TriggerType enumerates event rule triggers.
type TriggerType string

// All trigger types.
const (
	TriggerEveryTurn       TriggerType = "every_turn"
	TriggerOnEnterLocation TriggerType = "on_enter_location"
	TriggerTimedEvent      TriggerType = "timed_event"
)

// Trigger fires an event rule. Value is a room ID for on_enter_location and
// a turn number for timed_event.
type Trigger struct {
	Type  TriggerType `yaml:"type" json:"type"`
	Value any         `yaml:"value,omitempty" json:"value,omitempty"`
}

// Location returns the trigger's room ID value, if it is one.
func (t Trigger) Location() string {
	s, _ := t.Value.(string)
	return s
}

// Turn returns the trigger's turn-number value, if it is one.
func (t Trigger) Turn() (int, bool) {
	return toInt(t.Value)
}

// EventRule fires on its trigger rather than on a player intent.
type EventRule struct {
	ID         string      `yaml:"id" json:"id"`
	Trigger    Trigger     `yaml:"trigger" json:"trigger"`
	Conditions []Condition `yaml:"conditions,omitempty" json:"conditions,omitempty"`
	Effects    []Effect    `yaml:"effects" json:"effects"`
}

// FirstMatch returns the first declared action rule matching the intent, or
// nil. Matching is order-deterministic: given two rules with the same
// action and target, the first declared one wins.
func FirstMatch(ruleSet []ActionRule, action, target, topic string) *ActionRule {
	for i := range ruleSet {
		r := &ruleSet[i]
		if r.Action != action {
			continue
		}
		if r.Target != "" && r.Target != target {
			continue
		}
		if r.Topic != "" && r.Topic != topic {
			continue
		}
		return r
	}
	return nil
}
