//go:build property

package engine

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/protofab/protofab/internal/types"
)

// TestActionInterpreterProperties validates the arithmetic and clamping laws
// of the action interpreter.
func TestActionInterpreterProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("increment then decrement by equal step is identity", prop.ForAll(
		func(start int, step int) bool {
			in := NewInstance(counterDefinition(), nil, Hooks{})
			in.Context()["count"] = float64(start)
			by := float64(step)

			in.Execute([]types.ActionDefinition{
				{Type: types.ActionIncrement, Key: "count", By: &by},
				{Type: types.ActionDecrement, Key: "count", By: &by},
			}, EventData{})

			return in.Context()["count"] == float64(start)
		},
		gen.IntRange(-1_000_000, 1_000_000),
		gen.IntRange(0, 1000),
	))

	properties.Property("nextItem index never exceeds list bounds", prop.ForAll(
		func(listLen int, presses int) bool {
			if listLen < 1 || listLen > 50 || presses < 0 || presses > 200 {
				return true
			}
			def := counterDefinition()
			list := make([]any, listLen)
			def.DefaultProps["cards"] = list
			in := NewInstance(def, nil, Hooks{})

			action := []types.ActionDefinition{{Type: types.ActionNextItem, Key: "idx", ListKey: "cards"}}
			for i := 0; i < presses; i++ {
				in.Execute(action, EventData{})
			}

			idx := ToFloat(in.Context()["idx"])
			return idx >= 0 && idx <= float64(listLen-1)
		},
		gen.IntRange(1, 50),
		gen.IntRange(0, 200),
	))

	properties.Property("prevItem index never goes negative", prop.ForAll(
		func(start float64, presses int) bool {
			if presses < 0 || presses > 100 {
				return true
			}
			in := NewInstance(counterDefinition(), nil, Hooks{})
			in.Context()["idx"] = start

			action := []types.ActionDefinition{{Type: types.ActionPrevItem, Key: "idx"}}
			for i := 0; i < presses; i++ {
				in.Execute(action, EventData{})
			}

			return ToFloat(in.Context()["idx"]) >= 0
		},
		gen.Float64Range(-100, 100),
		gen.IntRange(0, 100),
	))

	properties.Property("unmatched events leave machine state and context unchanged", prop.ForAll(
		func(event string) bool {
			if event == "TAP" {
				return true
			}
			in := NewInstance(traceDefinition(), nil, Hooks{})

			in.Dispatch(event, EventData{})

			return in.State() == "closed" && len(in.Context()) == 0
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// TestResolverProperties validates the addressing-scheme laws of the value
// resolver.
func TestResolverProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(2468)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("context-prefixed paths read exactly the context store", prop.ForAll(
		func(key string, value string) bool {
			ctx := &RenderContext{
				Props:   map[string]any{key: "shadowed"},
				Context: map[string]any{key: value},
			}
			return Resolve("context:"+key, ctx) == value
		},
		gen.AlphaString(),
		gen.AnyString(),
	))

	properties.Property("bare item returns the iteration item unchanged", prop.ForAll(
		func(value string, index int) bool {
			ctx := (&RenderContext{
				Props:   map[string]any{},
				Context: map[string]any{},
			}).WithItem(value, index)
			return Resolve("item", ctx) == value
		},
		gen.AnyString(),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
