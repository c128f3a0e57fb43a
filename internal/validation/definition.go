// Package validation implements the import-time contract for custom
// component definitions. A definition that fails validation is never handed
// to the engine; the engine may therefore assume settings keys exist in
// defaultProps and every transition target names a real state.
//
// Validation reports every problem it finds as a human-readable message
// rather than stopping at the first, so authors can fix a definition in one
// pass.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/protofab/protofab/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// ParseDefinition decodes and validates a JSON definition. The definition is
// safe to register only when the error list is empty; on validation failure
// the decoded definition is still returned so callers can attribute the
// problems to its name.
func ParseDefinition(data []byte) (*types.CustomComponentDefinition, []string) {
	var def types.CustomComponentDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, []string{fmt.Sprintf("definition is not valid JSON: %v", err)}
	}
	return &def, ValidateDefinition(&def)
}

// ValidateDefinition checks a decoded definition against the import
// contract: required fields, settings keys backed by defaultProps, closed
// element and action type sets, and an eagerly validated state machine.
func ValidateDefinition(def *types.CustomComponentDefinition) []string {
	var errs []string

	if def.Name == "" {
		errs = append(errs, `missing required field "name"`)
	}
	if def.DisplayName == "" {
		msg := `missing required field "displayName"`
		if def.Name != "" {
			msg += fmt.Sprintf(" (e.g. %q)", suggestDisplayName(def.Name))
		}
		errs = append(errs, msg)
	}
	if def.Template == nil {
		errs = append(errs, `missing required field "template"`)
	}
	if def.DefaultProps == nil {
		errs = append(errs, `missing required field "defaultProps"`)
	}
	if def.Settings == nil {
		errs = append(errs, `missing required field "settings"`)
	}

	for _, setting := range def.Settings {
		if setting.Key == "" {
			errs = append(errs, "setting with empty key")
			continue
		}
		if def.DefaultProps != nil {
			if _, ok := def.DefaultProps[setting.Key]; !ok {
				errs = append(errs, fmt.Sprintf("setting %q not found in defaultProps", setting.Key))
			}
		}
	}

	if def.Template != nil {
		errs = append(errs, validateElement(def.Template, "template")...)
	}
	if def.Behavior != nil {
		errs = append(errs, validateBehavior(def.Behavior)...)
	}
	return errs
}

func validateElement(el *types.TemplateElement, path string) []string {
	var errs []string

	if !validElementType(el.Type) {
		errs = append(errs, fmt.Sprintf("%s: unknown element type %q", path, el.Type))
	}
	for i, child := range el.Children {
		if child == nil {
			errs = append(errs, fmt.Sprintf("%s.children[%d]: null element", path, i))
			continue
		}
		errs = append(errs, validateElement(child, fmt.Sprintf("%s.children[%d]", path, i))...)
	}
	if el.ItemTemplate != nil {
		errs = append(errs, validateElement(el.ItemTemplate, path+".itemTemplate")...)
	}
	return errs
}

// validateBehavior eagerly checks the state machine so dangling targets fail
// at import instead of silently mis-dispatching at runtime.
func validateBehavior(b *types.StateMachineBehavior) []string {
	var errs []string

	if b.Type != "" && b.Type != "state-machine" {
		errs = append(errs, fmt.Sprintf("behavior: unknown type %q", b.Type))
	}
	if len(b.States) == 0 {
		errs = append(errs, "behavior: no states defined")
		return errs
	}
	if b.Initial == "" {
		errs = append(errs, `behavior: missing "initial" state`)
	} else if _, ok := b.States[b.Initial]; !ok {
		errs = append(errs, fmt.Sprintf("behavior: initial state %q does not exist", b.Initial))
	}

	for name, state := range b.States {
		for event, transitions := range state.On {
			errs = append(errs, validateTransitions(b, transitions, fmt.Sprintf("state %q on %q", name, event))...)
		}
		for delay, transitions := range state.After {
			errs = append(errs, validateTransitions(b, transitions, fmt.Sprintf("state %q after %q", name, delay))...)
		}
		errs = append(errs, validateActions(state.Entry, fmt.Sprintf("state %q entry", name))...)
		errs = append(errs, validateActions(state.Exit, fmt.Sprintf("state %q exit", name))...)
	}
	return errs
}

func validateTransitions(b *types.StateMachineBehavior, transitions types.TransitionList, where string) []string {
	var errs []string
	for _, t := range transitions {
		if t.Target == "" {
			errs = append(errs, fmt.Sprintf("%s: transition without target", where))
		} else if _, ok := b.States[t.Target]; !ok {
			errs = append(errs, fmt.Sprintf("%s: target state %q does not exist", where, t.Target))
		}
		errs = append(errs, validateActions(t.Actions, where)...)
	}
	return errs
}

func validateActions(actions []types.ActionDefinition, where string) []string {
	var errs []string
	for _, a := range actions {
		if !validActionType(a.Type) {
			errs = append(errs, fmt.Sprintf("%s: unknown action type %q", where, a.Type))
		}
	}
	return errs
}

func validElementType(t types.ElementType) bool {
	for _, valid := range types.ElementTypes {
		if t == valid {
			return true
		}
	}
	return false
}

func validActionType(t types.ActionType) bool {
	for _, valid := range types.ActionTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// suggestDisplayName derives a readable display name from a definition name
// like "product-card".
func suggestDisplayName(name string) string {
	return titleCaser.String(strings.ReplaceAll(strings.ReplaceAll(name, "-", " "), "_", " "))
}
