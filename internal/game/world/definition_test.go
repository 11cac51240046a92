package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/fable/internal/game/rules"
)

func minimalDefinition() *Definition {
	return &Definition{
		Meta: Meta{Title: "Test", StartLocation: "start"},
		Locations: []LocationDef{
			{ID: "start", Name: "Start"},
		},
	}
}

func TestValidate_Minimal(t *testing.T) {
	require.NoError(t, minimalDefinition().Validate())
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Definition)
		wantErr string
	}{
		{
			"missing title",
			func(d *Definition) { d.Meta.Title = "" },
			"title must not be empty",
		},
		{
			"missing start location",
			func(d *Definition) { d.Meta.StartLocation = "" },
			"start_location must not be empty",
		},
		{
			"unknown start location",
			func(d *Definition) { d.Meta.StartLocation = "void" },
			"not a defined location",
		},
		{
			"duplicate ID across sections",
			func(d *Definition) {
				d.Objects = append(d.Objects, ObjectDef{ID: "start", Name: "Start"})
			},
			"already used",
		},
		{
			"dangling connection",
			func(d *Definition) {
				d.Locations[0].Connections = map[string]string{"north": "void"}
			},
			"unknown location",
		},
		{
			"two kind flags",
			func(d *Definition) {
				d.Objects = append(d.Objects, ObjectDef{
					ID: "x", Name: "X", Container: true, Supporter: true,
				})
			},
			"at most one kind flag",
		},
		{
			"unknown object location",
			func(d *Definition) {
				d.Objects = append(d.Objects, ObjectDef{ID: "x", Name: "X", Location: "void"})
			},
			"is not a defined location, object, or character",
		},
		{
			"dangling unlocks_with",
			func(d *Definition) {
				d.Objects = append(d.Objects, ObjectDef{
					ID: "x", Name: "X", Container: true, UnlocksWith: "ghost_key",
				})
			},
			"unlocks_with",
		},
		{
			"climbable without destination",
			func(d *Definition) {
				d.Objects = append(d.Objects, ObjectDef{ID: "x", Name: "X", Climbable: true})
			},
			"requires climb_destination",
		},
		{
			"backdrop without rooms",
			func(d *Definition) {
				d.Objects = append(d.Objects, ObjectDef{ID: "x", Name: "X", Backdrop: true})
			},
			"requires present_in",
		},
		{
			"character inventory references unknown object",
			func(d *Definition) {
				d.Characters = append(d.Characters, CharacterDef{
					ID: "c", Name: "C", Location: "start", Inventory: []string{"ghost"},
				})
			},
			"is not a defined object",
		},
		{
			"rule without effects",
			func(d *Definition) {
				d.Rules.Actions = append(d.Rules.Actions, rules.ActionRule{ID: "r", Action: "wave"})
			},
			"at least one effect",
		},
		{
			"duplicate rule ID",
			func(d *Definition) {
				e := []rules.Effect{{Type: rules.EffectDisplayText, Content: "hi"}}
				d.Rules.Actions = append(d.Rules.Actions,
					rules.ActionRule{ID: "r", Action: "wave", Effects: e},
					rules.ActionRule{ID: "r", Action: "bow", Effects: e},
				)
			},
			"duplicate rule ID",
		},
		{
			"has_item condition references unknown object",
			func(d *Definition) {
				d.Rules.Actions = append(d.Rules.Actions, rules.ActionRule{
					ID: "r", Action: "wave",
					Conditions: []rules.Condition{{Type: rules.CondHasItem, Value: "ghost"}},
					Effects:    []rules.Effect{{Type: rules.EffectDisplayText, Content: "hi"}},
				})
			},
			"has_item references unknown object",
		},
		{
			"move_entity references unknown entity",
			func(d *Definition) {
				d.Rules.Actions = append(d.Rules.Actions, rules.ActionRule{
					ID: "r", Action: "wave",
					Effects: []rules.Effect{{Type: rules.EffectMoveEntity, Target: "ghost", Destination: "start"}},
				})
			},
			"move_entity references unknown entity",
		},
		{
			"on_enter trigger references unknown location",
			func(d *Definition) {
				d.Rules.Events = append(d.Rules.Events, rules.EventRule{
					ID:      "r",
					Trigger: rules.Trigger{Type: rules.TriggerOnEnterLocation, Value: "void"},
					Effects: []rules.Effect{{Type: rules.EffectDisplayText, Content: "hi"}},
				})
			},
			"unknown location",
		},
		{
			"timed_event trigger needs a turn",
			func(d *Definition) {
				d.Rules.Events = append(d.Rules.Events, rules.EventRule{
					ID:      "r",
					Trigger: rules.Trigger{Type: rules.TriggerTimedEvent},
					Effects: []rules.Effect{{Type: rules.EffectDisplayText, Content: "hi"}},
				})
			},
			"positive turn number",
		},
		{
			"noun alias to unknown entity",
			func(d *Definition) {
				d.ParserHints.NounAliases = map[string]string{"thingy": "ghost"}
			},
			"unknown entity",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := minimalDefinition()
			tc.mutate(d)
			err := d.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidate_MoveEntityMayTargetPlayer(t *testing.T) {
	d := minimalDefinition()
	d.Locations = append(d.Locations, LocationDef{ID: "vault", Name: "Vault", Description: "A sealed vault."})
	d.Rules.Events = append(d.Rules.Events, rules.EventRule{
		ID:      "sinkhole",
		Trigger: rules.Trigger{Type: rules.TriggerTimedEvent, Value: 3},
		Effects: []rules.Effect{{Type: rules.EffectMoveEntity, Target: PlayerID, Destination: "vault"}},
	})
	require.NoError(t, d.Validate())
}

func TestValidate_LegacyBagLocation(t *testing.T) {
	d := minimalDefinition()
	d.Characters = []CharacterDef{{ID: "hermit", Name: "Hermit", Location: "start"}}
	d.Objects = []ObjectDef{{ID: "coin", Name: "Coin", Location: "hermit_bag"}}
	require.NoError(t, d.Validate())
}
