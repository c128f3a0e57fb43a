package engine

import (
	"strconv"
	"time"

	"github.com/protofab/protofab/internal/types"
)

// DefaultState is the machine state of an instance whose definition carries
// no behavior.
const DefaultState = "idle"

// SheetState is the instance-local bottom-sheet overlay. Content is a
// template subtree rendered with the host's own render context.
type SheetState struct {
	Open    bool
	Title   string
	Content *types.TemplateElement
}

// DropdownState is the instance-local positioned menu, anchored to the
// triggering element's screen rectangle at open time. The position is a
// point, not persisted layout; it is not re-measured afterwards.
type DropdownState struct {
	Open  bool
	Items []types.DropdownItem
	X, Y  float64
}

// AfterEntry is one pending timer transition of the current state.
type AfterEntry struct {
	Delay time.Duration
	Event string // the raw millisecond key, used to address the transition
}

// Instance is the runtime state of one rendered occurrence of a definition:
// the current machine state, the mutable context, and the overlay state.
// Instances are never shared; two occurrences of the same definition each own
// their own Instance.
type Instance struct {
	def   *types.CustomComponentDefinition
	props map[string]any
	hooks Hooks

	state    string
	context  map[string]any
	sheet    SheetState
	dropdown DropdownState

	// generation increments on every state commit and reset so that
	// scheduled timer dispatches can detect they are stale.
	generation uint64
}

// NewInstance builds an instance for a definition, merging defaultProps under
// the supplied instance props and initializing machine state and context from
// the behavior (or the idle/empty defaults when there is none).
func NewInstance(def *types.CustomComponentDefinition, props map[string]any, hooks Hooks) *Instance {
	in := &Instance{hooks: hooks}
	in.reset(def, props)
	return in
}

// SetDefinition replaces the running definition. Machine state and context
// are reinitialized from the new behavior; runtime state never survives a
// definition edit, even when the new definition has no behavior.
func (in *Instance) SetDefinition(def *types.CustomComponentDefinition, props map[string]any) {
	in.reset(def, props)
}

func (in *Instance) reset(def *types.CustomComponentDefinition, props map[string]any) {
	merged := make(map[string]any, len(def.DefaultProps)+len(props))
	for k, v := range def.DefaultProps {
		merged[k] = v
	}
	for k, v := range props {
		merged[k] = v
	}

	in.def = def
	in.props = merged
	in.state = DefaultState
	in.context = make(map[string]any)
	in.sheet = SheetState{}
	in.dropdown = DropdownState{}
	in.generation++

	if b := def.Behavior; b != nil {
		in.state = b.Initial
		for k, v := range b.Context {
			in.context[k] = v
		}
	}
}

// Definition returns the running definition.
func (in *Instance) Definition() *types.CustomComponentDefinition { return in.def }

// Props returns the merged props of this instance.
func (in *Instance) Props() map[string]any { return in.props }

// State returns the current machine state.
func (in *Instance) State() string { return in.state }

// Context returns the mutable context store. Callers must treat it as owned
// by the instance.
func (in *Instance) Context() map[string]any { return in.context }

// Sheet returns the current sheet overlay state.
func (in *Instance) Sheet() SheetState { return in.sheet }

// Dropdown returns the current dropdown overlay state.
func (in *Instance) Dropdown() DropdownState { return in.dropdown }

// Generation identifies the current state epoch; it changes on every state
// commit and reset.
func (in *Instance) Generation() uint64 { return in.generation }

// RenderContext builds the scope for one render pass over this instance.
func (in *Instance) RenderContext() *RenderContext {
	return &RenderContext{
		Props:        in.props,
		Context:      in.context,
		CurrentState: in.state,
	}
}

// Dispatch feeds a semantic event (TAP, SWIPE_LEFT, TIMER, ...) into the
// state machine. Events are silently dropped when the definition has no
// behavior, the current state is unknown, or the state has no transition for
// the event. Among listed transitions the first whose condition passes is
// taken; a transition without a condition always passes.
//
// The effect order is a fixed contract: the source state's exit actions, then
// the transition's actions, then the state commit, then the target state's
// entry actions.
func (in *Instance) Dispatch(event string, data EventData) {
	b := in.def.Behavior
	if b == nil {
		return
	}
	current, ok := b.States[in.state]
	if !ok {
		return
	}
	in.takeTransition(b, current, current.On[event], data)
}

// FireAfter runs the timer transition registered under the given millisecond
// key, provided the instance is still in the state epoch the timer was
// scheduled in. Stale timers are silently dropped.
func (in *Instance) FireAfter(key string, generation uint64) {
	if in.generation != generation {
		return
	}
	b := in.def.Behavior
	if b == nil {
		return
	}
	current, ok := b.States[in.state]
	if !ok {
		return
	}
	in.takeTransition(b, current, current.After[key], EventData{})
}

// PendingAfter lists the timer transitions of the current state so the host
// can schedule TIMER dispatches. Keys that do not parse as a positive number
// of milliseconds are skipped.
func (in *Instance) PendingAfter() []AfterEntry {
	b := in.def.Behavior
	if b == nil {
		return nil
	}
	current, ok := b.States[in.state]
	if !ok {
		return nil
	}
	var entries []AfterEntry
	for key := range current.After {
		ms, err := strconv.ParseFloat(key, 64)
		if err != nil || ms <= 0 {
			continue
		}
		entries = append(entries, AfterEntry{
			Delay: time.Duration(ms * float64(time.Millisecond)),
			Event: key,
		})
	}
	return entries
}

func (in *Instance) takeTransition(b *types.StateMachineBehavior, current types.StateDefinition, candidates types.TransitionList, data EventData) {
	for i := range candidates {
		t := &candidates[i]
		if !EvalCondition(t.Condition, in.conditionContext(data), data) {
			continue
		}
		in.Execute(current.Exit, data)
		in.Execute(t.Actions, data)
		in.state = t.Target
		in.generation++
		if target, ok := b.States[t.Target]; ok {
			in.Execute(target.Entry, data)
		}
		return
	}
}

func (in *Instance) conditionContext(data EventData) *RenderContext {
	ctx := in.RenderContext()
	if data.HasIndex {
		ctx.ItemIndex = data.ItemIndex
		ctx.HasItem = true
	}
	return ctx
}

// CloseSheet handles host-level backdrop dismissal of the sheet overlay.
func (in *Instance) CloseSheet() { in.sheet = SheetState{} }

// CloseDropdown handles host-level outside-click dismissal of the dropdown.
func (in *Instance) CloseDropdown() { in.dropdown = DropdownState{} }

// SelectDropdownItem executes the chosen item's action and closes the
// dropdown. Selecting any item closes the menu, action or not.
func (in *Instance) SelectDropdownItem(id string) {
	for i := range in.dropdown.Items {
		item := &in.dropdown.Items[i]
		if item.ID == id {
			if item.Action != nil {
				in.Execute([]types.ActionDefinition{*item.Action}, EventData{})
			}
			break
		}
	}
	in.dropdown = DropdownState{}
}
