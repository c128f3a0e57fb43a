// Package types provides the data model for custom component definitions:
// the template tree, the settings metadata, and the optional state-machine
// behavior. This package contains shared types to avoid circular dependencies
// between the engine, renderer, registry, and validation packages.
//
// Everything in this package is data only. Definitions are decoded once from
// JSON, validated, and then treated as immutable by every consumer.
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ElementType identifies the kind of a template node. The set is closed:
// renderers dispatch over it exhaustively and new kinds are added here first.
type ElementType string

const (
	ElementContainer ElementType = "container"
	ElementHeading   ElementType = "heading"
	ElementText      ElementType = "text"
	ElementImage     ElementType = "image"
	ElementButton    ElementType = "button"
	ElementInput     ElementType = "input"
	ElementCell      ElementType = "cell"
	ElementSpacer    ElementType = "spacer"
	ElementList      ElementType = "list"
	ElementStack     ElementType = "stack"
	ElementIcon      ElementType = "icon"
)

// ElementTypes lists every valid element type, used by validation.
var ElementTypes = []ElementType{
	ElementContainer, ElementHeading, ElementText, ElementImage,
	ElementButton, ElementInput, ElementCell, ElementSpacer,
	ElementList, ElementStack, ElementIcon,
}

// Style is an open mapping of style-attribute name to value. Unknown keys are
// passed through verbatim to the output; the template language deliberately
// does not validate visual properties.
type Style map[string]any

// SizeValue carries a button size label ("s", "m", "l") or a pixel size for
// icons. JSON accepts either a string or a number.
type SizeValue struct {
	Label string
	Px    float64
}

// UnmarshalJSON accepts `"m"` or `24`.
func (s *SizeValue) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		s.Label = label
		return nil
	}
	var px float64
	if err := json.Unmarshal(data, &px); err != nil {
		return fmt.Errorf("size must be a string or a number")
	}
	s.Px = px
	return nil
}

// MarshalJSON writes back whichever form was set.
func (s SizeValue) MarshalJSON() ([]byte, error) {
	if s.Label != "" {
		return json.Marshal(s.Label)
	}
	return json.Marshal(s.Px)
}

// ValidationRule describes the optional input validation block on input
// elements. It is forwarded to the input widget untouched.
type ValidationRule struct {
	Enabled        bool     `json:"enabled"`
	Type           string   `json:"type"` // "exact" or "range"
	ExactValue     string   `json:"exactValue,omitempty"`
	Min            *float64 `json:"min,omitempty"`
	Max            *float64 `json:"max,omitempty"`
	ErrorMessage   string   `json:"errorMessage,omitempty"`
	SuccessMessage string   `json:"successMessage,omitempty"`
}

// DropdownOption is one selectable option of a dropdown-variant input.
type DropdownOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// TemplateElement is one node of the template tree. Each element type uses a
// different subset of the optional fields; unused fields are simply absent in
// the JSON form.
type TemplateElement struct {
	// Type selects the rendering rule for this node.
	Type ElementType `json:"type"`
	// Prop is an optional value-binding path resolved at render time, e.g.
	// "title", "item.name", or "context:count".
	Prop string `json:"prop,omitempty"`
	// Style is passed through verbatim to the rendered node.
	Style Style `json:"style,omitempty"`
	// Children is the ordered child list (container only).
	Children []*TemplateElement `json:"children,omitempty"`

	// Button fields.
	Variant           string     `json:"variant,omitempty"` // primary, secondary, destructive
	Size              *SizeValue `json:"size,omitempty"`    // "s"|"m"|"l" for buttons, px for icons
	Action            string     `json:"action,omitempty"`  // navigate, back, none
	Target            string     `json:"target,omitempty"`  // screen id or "prop:<name>"
	RequireValidation bool       `json:"requireValidation,omitempty"`

	// Input fields.
	Placeholder     string           `json:"placeholder,omitempty"`
	Label           string           `json:"label,omitempty"`
	ShowLabel       bool             `json:"showLabel,omitempty"`
	InputVariant    string           `json:"inputVariant,omitempty"` // default, search, dropdown, password
	InputType       string           `json:"inputType,omitempty"`    // text, numeric
	Descriptor      string           `json:"descriptor,omitempty"`
	DropdownOptions []DropdownOption `json:"dropdownOptions,omitempty"`
	Validation      *ValidationRule  `json:"validation,omitempty"`

	// Cell fields.
	CellType         string `json:"cellType,omitempty"` // basic, navigation, toggle, checkbox, radio, info, icon
	Title            string `json:"title,omitempty"`
	Subtitle         string `json:"subtitle,omitempty"`
	ShowSubtitle     bool   `json:"showSubtitle,omitempty"`
	SubtitlePosition string `json:"subtitlePosition,omitempty"` // top, bottom
	ShowIcon         bool   `json:"showIcon,omitempty"`
	Icon             string `json:"icon,omitempty"`
	RightIcon        string `json:"rightIcon,omitempty"`
	InfoValue        string `json:"infoValue,omitempty"`
	RadioGroup       string `json:"radioGroup,omitempty"`

	// Spacer height in pixels; zero means the default of 16.
	Height int `json:"height,omitempty"`

	// List/stack fields. DataKey names the props entry holding the item
	// sequence; IndexKey names the context entry holding the stack cursor.
	DataKey      string           `json:"dataKey,omitempty"`
	IndexKey     string           `json:"indexKey,omitempty"`
	ItemTemplate *TemplateElement `json:"itemTemplate,omitempty"`

	// Icon fields. Name and Rotation may be "context:"-prefixed expressions.
	Name     string `json:"name,omitempty"`
	Rotation string `json:"rotation,omitempty"`

	// Gestures lists recognized gesture kinds (TAP, LONG_PRESS, SWIPE_*).
	Gestures []string `json:"gestures,omitempty"`
	// Visible is an optional expression; a falsy result hides the element.
	Visible string `json:"visible,omitempty"`
}

// SettingType identifies the editing control for one definition setting.
type SettingType string

const (
	SettingText     SettingType = "text"
	SettingTextarea SettingType = "textarea"
	SettingNumber   SettingType = "number"
	SettingSelect   SettingType = "select"
	SettingToggle   SettingType = "toggle"
	SettingColor    SettingType = "color"
	SettingImage    SettingType = "image"
	SettingScreen   SettingType = "screen"
	SettingItems    SettingType = "items"
)

// SettingOption is one choice of a select setting.
type SettingOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SettingItemField describes one field of an items setting row.
type SettingItemField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// SettingDefinition describes one entry of the settings panel for a
// definition. Every setting key must exist in the definition's defaultProps;
// the import validator enforces this before a definition reaches the engine.
type SettingDefinition struct {
	Key         string             `json:"key"`
	Label       string             `json:"label"`
	Type        SettingType        `json:"type"`
	Placeholder string             `json:"placeholder,omitempty"`
	Options     []SettingOption    `json:"options,omitempty"`
	ItemFields  []SettingItemField `json:"itemFields,omitempty"`
	Min         *float64           `json:"min,omitempty"`
	Max         *float64           `json:"max,omitempty"`
	Step        *float64           `json:"step,omitempty"`
}

// ActionType identifies one declared side effect kind.
type ActionType string

const (
	ActionNavigate       ActionType = "navigate"
	ActionAnimate        ActionType = "animate"
	ActionHaptic         ActionType = "haptic"
	ActionSound          ActionType = "sound"
	ActionSetValue       ActionType = "setValue"
	ActionIncrement      ActionType = "increment"
	ActionDecrement      ActionType = "decrement"
	ActionAddToList      ActionType = "addToList"
	ActionRemoveFromList ActionType = "removeFromList"
	ActionNextItem       ActionType = "nextItem"
	ActionPrevItem       ActionType = "prevItem"
	ActionOpenSheet      ActionType = "openSheet"
	ActionCloseSheet     ActionType = "closeSheet"
	ActionOpenDropdown   ActionType = "openDropdown"
	ActionCloseDropdown  ActionType = "closeDropdown"
)

// ActionTypes lists every valid action type, used by validation.
var ActionTypes = []ActionType{
	ActionNavigate, ActionAnimate, ActionHaptic, ActionSound,
	ActionSetValue, ActionIncrement, ActionDecrement,
	ActionAddToList, ActionRemoveFromList, ActionNextItem, ActionPrevItem,
	ActionOpenSheet, ActionCloseSheet, ActionOpenDropdown, ActionCloseDropdown,
}

// ActionDefinition is one declared side effect executed by the interpreter.
// Like TemplateElement, each action type uses its own field subset.
type ActionDefinition struct {
	Type ActionType `json:"type"`

	// Screen is the navigate target: a screen id or "prop:<name>".
	Screen string `json:"screen,omitempty"`
	// Animation and Sound are declared for authoring compatibility; the
	// engine treats them as no-ops (presentation concerns of the host).
	Animation string `json:"animation,omitempty"`
	Sound     string `json:"sound,omitempty"`
	// HapticType is one of light, medium, heavy, success, error, warning.
	HapticType string `json:"hapticType,omitempty"`

	// Key/Value address the context store for setValue, increment,
	// decrement, addToList, removeFromList, nextItem, and prevItem.
	Key   string `json:"key,omitempty"`
	Value any    `json:"value,omitempty"`
	// By is the increment/decrement step; nil means 1.
	By *float64 `json:"by,omitempty"`
	// Index addresses a list position for removeFromList.
	Index *int `json:"index,omitempty"`
	// ListKey names the props entry bounding nextItem.
	ListKey string `json:"listKey,omitempty"`

	// Sheet fields.
	SheetID      string           `json:"sheetId,omitempty"`
	SheetTitle   string           `json:"sheetTitle,omitempty"`
	SheetContent *TemplateElement `json:"sheetContent,omitempty"`

	// Dropdown fields.
	DropdownID    string         `json:"dropdownId,omitempty"`
	DropdownItems []DropdownItem `json:"dropdownItems,omitempty"`
}

// DropdownItem is one entry of an action-opened dropdown menu.
type DropdownItem struct {
	ID     string            `json:"id"`
	Label  string            `json:"label"`
	Icon   string            `json:"icon,omitempty"`
	Action *ActionDefinition `json:"action,omitempty"`
}

// ConditionKind names the typed transition guard kinds.
type ConditionKind string

const (
	CondIsFirst     ConditionKind = "isFirst"
	CondIsLast      ConditionKind = "isLast"
	CondIsEmpty     ConditionKind = "isEmpty"
	CondIsNotEmpty  ConditionKind = "isNotEmpty"
	CondEquals      ConditionKind = "equals"
	CondNotEquals   ConditionKind = "notEquals"
	CondGreaterThan ConditionKind = "greaterThan"
	CondLessThan    ConditionKind = "lessThan"
)

// Condition guards a transition. The JSON form is either a typed object
// ({"type": "equals", "key": "context:mode", "value": "open"}) or a bare
// expression string evaluated by the engine's expression grammar.
type Condition struct {
	Kind  ConditionKind `json:"type,omitempty"`
	Key   string        `json:"key,omitempty"`
	Value any           `json:"value,omitempty"`
	// Expr holds the string form; when set, Kind/Key/Value are unused.
	Expr string `json:"-"`
}

// UnmarshalJSON accepts either the object or the string form.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var expr string
	if err := json.Unmarshal(data, &expr); err == nil {
		c.Expr = expr
		return nil
	}
	type alias Condition
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("condition must be a string or an object: %w", err)
	}
	*c = Condition(a)
	return nil
}

// MarshalJSON writes back whichever form was decoded.
func (c Condition) MarshalJSON() ([]byte, error) {
	if c.Expr != "" {
		return json.Marshal(c.Expr)
	}
	type alias Condition
	return json.Marshal(alias(c))
}

// TransitionDefinition is one outgoing edge of a state.
type TransitionDefinition struct {
	// Target must name an existing state; validated eagerly at import.
	Target string `json:"target"`
	// Actions run between the source state's exit actions and the state
	// commit.
	Actions []ActionDefinition `json:"actions,omitempty"`
	// Condition guards this transition among listed alternatives.
	Condition *Condition `json:"condition,omitempty"`
}

// TransitionList holds the guarded alternatives for one event. The JSON form
// is either a single transition object or an array of them.
type TransitionList []TransitionDefinition

// UnmarshalJSON accepts an object or an array.
func (t *TransitionList) UnmarshalJSON(data []byte) error {
	var one TransitionDefinition
	if err := json.Unmarshal(data, &one); err == nil {
		*t = TransitionList{one}
		return nil
	}
	var many []TransitionDefinition
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("transition must be an object or an array: %w", err)
	}
	*t = many
	return nil
}

// MarshalJSON keeps the compact form for single transitions.
func (t TransitionList) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]TransitionDefinition(t))
}

// StateDefinition describes one named state of a behavior.
type StateDefinition struct {
	// On maps event types (TAP, SWIPE_LEFT, TIMER, ...) to transitions.
	On map[string]TransitionList `json:"on,omitempty"`
	// Entry and Exit actions run on state change in the fixed order
	// exit -> transition actions -> commit -> entry.
	Entry []ActionDefinition `json:"entry,omitempty"`
	Exit  []ActionDefinition `json:"exit,omitempty"`
	// After maps a millisecond delay (as a decimal string key) to timer
	// transitions taken after that long in the state.
	After map[string]TransitionList `json:"after,omitempty"`
}

// StateMachineBehavior is the optional behavior attached to a definition.
type StateMachineBehavior struct {
	Type    string                     `json:"type"` // always "state-machine"
	Initial string                     `json:"initial"`
	Context map[string]any             `json:"context,omitempty"`
	States  map[string]StateDefinition `json:"states"`
}

// CustomComponentDefinition is the full authoring unit: template, default
// props, settings metadata, and optional behavior. Once imported it is
// immutable; all mutable runtime state lives in engine instances.
type CustomComponentDefinition struct {
	// Name is the unique registry key.
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Category    string `json:"category,omitempty"` // always "custom"
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`

	// Template is the root of the template tree.
	Template *TemplateElement `json:"template"`
	// DefaultProps are merged under instance-supplied props.
	DefaultProps map[string]any `json:"defaultProps"`
	// Settings describe the editing UI for defaultProps-keyed values.
	Settings []SettingDefinition `json:"settings"`
	// Behavior is the optional state machine.
	Behavior *StateMachineBehavior `json:"behavior,omitempty"`
}

// DefinitionEventType represents the kind of registry change.
type DefinitionEventType string

const (
	DefinitionAdded   DefinitionEventType = "added"
	DefinitionUpdated DefinitionEventType = "updated"
	DefinitionRemoved DefinitionEventType = "removed"
)

// DefinitionEvent represents a change in the definition registry, used for
// real-time notifications to watchers like the preview server.
type DefinitionEvent struct {
	// Type indicates the kind of change.
	Type DefinitionEventType
	// Definition holds the definition (nil for removed events).
	Definition *CustomComponentDefinition
	// Timestamp records when the event occurred.
	Timestamp time.Time
}
