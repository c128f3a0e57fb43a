package validation

import (
	"testing"

	"github.com/protofab/protofab/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDefinition() *types.CustomComponentDefinition {
	return &types.CustomComponentDefinition{
		Name:        "product-card",
		DisplayName: "Product Card",
		Template: &types.TemplateElement{
			Type: types.ElementContainer,
			Children: []*types.TemplateElement{
				{Type: types.ElementHeading, Prop: "title"},
			},
		},
		DefaultProps: map[string]any{"title": "Product"},
		Settings: []types.SettingDefinition{
			{Key: "title", Label: "Title", Type: types.SettingText},
		},
	}
}

func TestValidateDefinition_Valid(t *testing.T) {
	assert.Empty(t, ValidateDefinition(validDefinition()))
}

func TestValidateDefinition_RequiredFields(t *testing.T) {
	def := &types.CustomComponentDefinition{}

	errs := ValidateDefinition(def)

	assert.Contains(t, errs, `missing required field "name"`)
	assert.Contains(t, errs, `missing required field "template"`)
	assert.Contains(t, errs, `missing required field "defaultProps"`)
	assert.Contains(t, errs, `missing required field "settings"`)
}

func TestValidateDefinition_DisplayNameSuggestion(t *testing.T) {
	def := validDefinition()
	def.DisplayName = ""

	errs := ValidateDefinition(def)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `"Product Card"`)
}

func TestValidateDefinition_SettingsKeysMustExist(t *testing.T) {
	def := validDefinition()
	def.Settings = append(def.Settings, types.SettingDefinition{Key: "subtitle", Type: types.SettingText})

	errs := ValidateDefinition(def)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `setting "subtitle" not found in defaultProps`)
}

func TestValidateDefinition_UnknownElementType(t *testing.T) {
	def := validDefinition()
	def.Template.Children = append(def.Template.Children, &types.TemplateElement{Type: "hologram"})

	errs := ValidateDefinition(def)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `unknown element type "hologram"`)
	assert.Contains(t, errs[0], "template.children[1]")
}

func TestValidateDefinition_DanglingTransitionTarget(t *testing.T) {
	def := validDefinition()
	def.Behavior = &types.StateMachineBehavior{
		Type:    "state-machine",
		Initial: "closed",
		States: map[string]types.StateDefinition{
			"closed": {
				On: map[string]types.TransitionList{
					"TAP": {{Target: "wide-open"}},
				},
			},
		},
	}

	errs := ValidateDefinition(def)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `target state "wide-open" does not exist`)
}

func TestValidateDefinition_InitialMustExist(t *testing.T) {
	def := validDefinition()
	def.Behavior = &types.StateMachineBehavior{
		Type:    "state-machine",
		Initial: "missing",
		States:  map[string]types.StateDefinition{"idle": {}},
	}

	errs := ValidateDefinition(def)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `initial state "missing" does not exist`)
}

func TestValidateDefinition_UnknownActionType(t *testing.T) {
	def := validDefinition()
	def.Behavior = &types.StateMachineBehavior{
		Type:    "state-machine",
		Initial: "idle",
		States: map[string]types.StateDefinition{
			"idle": {
				Entry: []types.ActionDefinition{{Type: "teleport"}},
			},
		},
	}

	errs := ValidateDefinition(def)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `unknown action type "teleport"`)
}

func TestParseDefinition_JSONRoundTrip(t *testing.T) {
	data := []byte(`{
		"name": "counter",
		"displayName": "Counter",
		"template": {
			"type": "container",
			"children": [
				{"type": "text", "prop": "context:count"},
				{"type": "button", "prop": "label", "gestures": ["TAP"]}
			]
		},
		"defaultProps": {"label": "Add"},
		"settings": [{"key": "label", "label": "Label", "type": "text"}],
		"behavior": {
			"type": "state-machine",
			"initial": "idle",
			"context": {"count": 0},
			"states": {
				"idle": {
					"on": {"TAP": {"target": "idle", "actions": [{"type": "increment", "key": "count"}]}}
				}
			}
		}
	}`)

	def, errs := ParseDefinition(data)

	require.Empty(t, errs)
	require.NotNil(t, def)
	assert.Equal(t, "counter", def.Name)
	// A single transition object decodes as a one-element list.
	require.Len(t, def.Behavior.States["idle"].On["TAP"], 1)
	assert.Equal(t, "idle", def.Behavior.States["idle"].On["TAP"][0].Target)
}

func TestParseDefinition_TransitionArrayAndStringCondition(t *testing.T) {
	data := []byte(`{
		"name": "guarded",
		"displayName": "Guarded",
		"template": {"type": "container"},
		"defaultProps": {},
		"settings": [],
		"behavior": {
			"type": "state-machine",
			"initial": "a",
			"states": {
				"a": {"on": {"TAP": [
					{"target": "b", "condition": "context:ready == true"},
					{"target": "a", "condition": {"type": "isEmpty", "key": "context:queue"}}
				]}},
				"b": {}
			}
		}
	}`)

	def, errs := ParseDefinition(data)

	require.Empty(t, errs)
	transitions := def.Behavior.States["a"].On["TAP"]
	require.Len(t, transitions, 2)
	assert.Equal(t, "context:ready == true", transitions[0].Condition.Expr)
	assert.Equal(t, types.CondIsEmpty, transitions[1].Condition.Kind)
}

func TestParseDefinition_InvalidJSON(t *testing.T) {
	def, errs := ParseDefinition([]byte(`{not json`))

	assert.Nil(t, def)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "not valid JSON")
}
