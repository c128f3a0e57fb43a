package engine

import (
	"math"

	"github.com/protofab/protofab/internal/types"
)

// Hooks are the host callbacks an instance may invoke while executing
// actions. Every field is optional; a missing hook turns the corresponding
// action into a no-op. All hooks are treated as synchronous fire-and-forget
// calls: the engine never waits for or reacts to their outcome.
type Hooks struct {
	// Navigate receives the resolved screen id of a navigate action.
	Navigate func(screenID string)
	// Haptic receives a vibration pulse pattern in milliseconds.
	Haptic func(pattern []int)
}

// EventData carries the per-event payload into dispatch: the item index when
// the gesture originated inside a list/stack iteration, and the screen
// coordinates of the triggering element for dropdown anchoring.
type EventData struct {
	ItemIndex int
	HasIndex  bool
	X, Y      float64
}

// hapticPatterns maps symbolic haptic types to vibration pulse patterns.
var hapticPatterns = map[string][]int{
	"light":   {10},
	"medium":  {20},
	"heavy":   {30},
	"success": {10, 50, 10},
	"error":   {50, 50, 50},
	"warning": {30, 50, 30},
}

// Execute runs an action list strictly in order against the instance. Each
// action is independent: one with unmet preconditions is a no-op and
// execution continues with the next. Side effects are limited to the
// instance's own context and overlay state plus the host hooks.
func (in *Instance) Execute(actions []types.ActionDefinition, data EventData) {
	for i := range actions {
		in.execute(&actions[i], data)
	}
}

func (in *Instance) execute(action *types.ActionDefinition, data EventData) {
	switch action.Type {
	case types.ActionNavigate:
		if action.Screen == "" || in.hooks.Navigate == nil {
			return
		}
		if screen := ResolveProp(action.Screen, in.props); screen != "" {
			in.hooks.Navigate(screen)
		}

	case types.ActionHaptic:
		if in.hooks.Haptic == nil {
			return
		}
		pattern, ok := hapticPatterns[action.HapticType]
		if !ok {
			pattern = hapticPatterns["light"]
		}
		in.hooks.Haptic(pattern)

	case types.ActionSetValue:
		if action.Key != "" {
			in.context[action.Key] = action.Value
		}

	case types.ActionIncrement:
		if action.Key != "" {
			in.context[action.Key] = ToFloat(in.context[action.Key]) + step(action)
		}

	case types.ActionDecrement:
		if action.Key != "" {
			in.context[action.Key] = ToFloat(in.context[action.Key]) - step(action)
		}

	case types.ActionAddToList:
		if action.Key != "" {
			list := AsSlice(in.context[action.Key])
			in.context[action.Key] = append(list, action.Value)
		}

	case types.ActionRemoveFromList:
		if action.Key == "" || action.Index == nil {
			return
		}
		list := AsSlice(in.context[action.Key])
		i := *action.Index
		if list == nil || i < 0 || i >= len(list) {
			return
		}
		in.context[action.Key] = append(list[:i:i], list[i+1:]...)

	case types.ActionNextItem:
		if action.Key == "" || action.ListKey == "" {
			return
		}
		list := AsSlice(in.props[action.ListKey])
		if list == nil {
			return
		}
		next := ToFloat(in.context[action.Key]) + 1
		in.context[action.Key] = math.Min(next, float64(len(list)-1))

	case types.ActionPrevItem:
		if action.Key != "" {
			in.context[action.Key] = math.Max(ToFloat(in.context[action.Key])-1, 0)
		}

	case types.ActionOpenSheet:
		// Opening replaces any currently open sheet; sheets never stack.
		in.sheet = SheetState{
			Open:    true,
			Title:   action.SheetTitle,
			Content: action.SheetContent,
		}

	case types.ActionCloseSheet:
		in.sheet = SheetState{}

	case types.ActionOpenDropdown:
		if len(action.DropdownItems) == 0 {
			return
		}
		in.dropdown = DropdownState{
			Open:  true,
			Items: action.DropdownItems,
			X:     data.X,
			Y:     data.Y,
		}

	case types.ActionCloseDropdown:
		in.dropdown = DropdownState{}

	case types.ActionAnimate, types.ActionSound:
		// Declared in the authoring model, presentation concerns of the
		// host; the engine ignores them.
	}
}

func step(action *types.ActionDefinition) float64 {
	if action.By == nil {
		return 1
	}
	return *action.By
}
