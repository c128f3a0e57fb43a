package engine

import (
	"testing"
	"time"

	"github.com/protofab/protofab/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// traceDefinition wires exit/transition/entry actions that each append a
// marker to a context list so tests can assert the literal effect order.
func traceDefinition() *types.CustomComponentDefinition {
	return &types.CustomComponentDefinition{
		Name:         "traced",
		DisplayName:  "Traced",
		Template:     &types.TemplateElement{Type: types.ElementContainer},
		DefaultProps: map[string]any{},
		Behavior: &types.StateMachineBehavior{
			Type:    "state-machine",
			Initial: "closed",
			States: map[string]types.StateDefinition{
				"closed": {
					Exit: []types.ActionDefinition{
						{Type: types.ActionAddToList, Key: "trace", Value: "exit"},
					},
					On: map[string]types.TransitionList{
						"TAP": {{
							Target: "open",
							Actions: []types.ActionDefinition{
								{Type: types.ActionAddToList, Key: "trace", Value: "transition"},
							},
						}},
					},
				},
				"open": {
					Entry: []types.ActionDefinition{
						{Type: types.ActionAddToList, Key: "trace", Value: "entry"},
					},
				},
			},
		},
	}
}

func TestDispatch_EffectOrder(t *testing.T) {
	in := NewInstance(traceDefinition(), nil, Hooks{})

	in.Dispatch("TAP", EventData{})

	assert.Equal(t, "open", in.State())
	assert.Equal(t, []any{"exit", "transition", "entry"}, in.Context()["trace"])
}

func TestDispatch_ScenarioTapSetsLabel(t *testing.T) {
	def := &types.CustomComponentDefinition{
		Name:         "toggle",
		DisplayName:  "Toggle",
		Template:     &types.TemplateElement{Type: types.ElementContainer},
		DefaultProps: map[string]any{},
		Behavior: &types.StateMachineBehavior{
			Type:    "state-machine",
			Initial: "closed",
			States: map[string]types.StateDefinition{
				"closed": {
					On: map[string]types.TransitionList{
						"TAP": {{
							Target: "open",
							Actions: []types.ActionDefinition{
								{Type: types.ActionSetValue, Key: "label", Value: "Open"},
							},
						}},
					},
				},
				"open": {},
			},
		},
	}
	in := NewInstance(def, nil, Hooks{})

	in.Dispatch("TAP", EventData{})

	assert.Equal(t, "open", in.State())
	assert.Equal(t, "Open", in.Context()["label"])
}

func TestDispatch_UnmatchedEventIsNoop(t *testing.T) {
	in := NewInstance(traceDefinition(), nil, Hooks{})

	in.Dispatch("SWIPE_LEFT", EventData{})

	assert.Equal(t, "closed", in.State())
	assert.Nil(t, in.Context()["trace"])
}

func TestDispatch_NoBehaviorIgnoresEvents(t *testing.T) {
	def := &types.CustomComponentDefinition{
		Name:         "static",
		DisplayName:  "Static",
		Template:     &types.TemplateElement{Type: types.ElementText, Prop: "title"},
		DefaultProps: map[string]any{"title": "Hi"},
	}
	in := NewInstance(def, nil, Hooks{})

	in.Dispatch("TAP", EventData{})

	assert.Equal(t, DefaultState, in.State())
	assert.Empty(t, in.Context())
}

func TestDispatch_GuardedTransitions(t *testing.T) {
	def := &types.CustomComponentDefinition{
		Name:         "guarded",
		DisplayName:  "Guarded",
		Template:     &types.TemplateElement{Type: types.ElementContainer},
		DefaultProps: map[string]any{},
		Behavior: &types.StateMachineBehavior{
			Type:    "state-machine",
			Initial: "idle",
			Context: map[string]any{"count": float64(0)},
			States: map[string]types.StateDefinition{
				"idle": {
					On: map[string]types.TransitionList{
						"TAP": {
							{
								Target:    "done",
								Condition: &types.Condition{Kind: types.CondGreaterThan, Key: "context:count", Value: float64(2)},
							},
							{
								Target: "idle",
								Actions: []types.ActionDefinition{
									{Type: types.ActionIncrement, Key: "count"},
								},
							},
						},
					},
				},
				"done": {},
			},
		},
	}
	in := NewInstance(def, nil, Hooks{})

	// The guard fails until count exceeds 2; the unguarded alternative
	// increments.
	for i := 0; i < 3; i++ {
		in.Dispatch("TAP", EventData{})
		assert.Equal(t, "idle", in.State())
	}
	in.Dispatch("TAP", EventData{})
	assert.Equal(t, "done", in.State())
}

func TestDispatch_StringCondition(t *testing.T) {
	def := traceDefinition()
	def.Behavior.States["closed"] = types.StateDefinition{
		On: map[string]types.TransitionList{
			"TAP": {{
				Target:    "open",
				Condition: &types.Condition{Expr: "context:armed == true"},
			}},
		},
	}
	in := NewInstance(def, nil, Hooks{})

	in.Dispatch("TAP", EventData{})
	assert.Equal(t, "closed", in.State())

	in.Context()["armed"] = true
	in.Dispatch("TAP", EventData{})
	assert.Equal(t, "open", in.State())
}

func TestSetDefinition_ResetsRuntimeState(t *testing.T) {
	in := NewInstance(traceDefinition(), nil, Hooks{})
	in.Dispatch("TAP", EventData{})
	require.Equal(t, "open", in.State())

	replacement := &types.CustomComponentDefinition{
		Name:         "fresh",
		DisplayName:  "Fresh",
		Template:     &types.TemplateElement{Type: types.ElementContainer},
		DefaultProps: map[string]any{},
		Behavior: &types.StateMachineBehavior{
			Type:    "state-machine",
			Initial: "start",
			Context: map[string]any{"step": float64(1)},
			States:  map[string]types.StateDefinition{"start": {}},
		},
	}
	in.SetDefinition(replacement, nil)

	assert.Equal(t, "start", in.State())
	assert.Equal(t, map[string]any{"step": float64(1)}, in.Context())
	assert.False(t, in.Sheet().Open)
}

func TestSetDefinition_NoBehaviorFallsBackToIdle(t *testing.T) {
	in := NewInstance(traceDefinition(), nil, Hooks{})
	in.Dispatch("TAP", EventData{})

	in.SetDefinition(&types.CustomComponentDefinition{
		Name:         "plain",
		DisplayName:  "Plain",
		Template:     &types.TemplateElement{Type: types.ElementContainer},
		DefaultProps: map[string]any{},
	}, nil)

	assert.Equal(t, DefaultState, in.State())
	assert.Empty(t, in.Context())
}

func TestInstance_MergesDefaultProps(t *testing.T) {
	def := counterDefinition()
	def.DefaultProps["title"] = "Default"
	in := NewInstance(def, map[string]any{"title": "Override"}, Hooks{})

	assert.Equal(t, "Override", in.Props()["title"])
	assert.NotNil(t, in.Props()["cards"])
}

func TestPendingAfter(t *testing.T) {
	def := traceDefinition()
	def.Behavior.States["open"] = types.StateDefinition{
		After: map[string]types.TransitionList{
			"1500":    {{Target: "closed"}},
			"not-a-#": {{Target: "closed"}},
		},
	}
	in := NewInstance(def, nil, Hooks{})
	in.Dispatch("TAP", EventData{})
	require.Equal(t, "open", in.State())

	entries := in.PendingAfter()
	require.Len(t, entries, 1)
	assert.Equal(t, 1500*time.Millisecond, entries[0].Delay)
	assert.Equal(t, "1500", entries[0].Event)
}

func TestFireAfter(t *testing.T) {
	def := traceDefinition()
	def.Behavior.States["open"] = types.StateDefinition{
		After: map[string]types.TransitionList{"100": {{Target: "closed"}}},
	}
	in := NewInstance(def, nil, Hooks{})
	in.Dispatch("TAP", EventData{})
	gen := in.Generation()

	in.FireAfter("100", gen)
	assert.Equal(t, "closed", in.State())

	// A stale generation is silently dropped.
	in.Dispatch("TAP", EventData{})
	in.FireAfter("100", gen)
	assert.Equal(t, "open", in.State())
}
