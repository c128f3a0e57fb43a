// Package engine implements the runtime for custom component definitions:
// value resolution, the expression grammar, the action interpreter, and the
// state-machine dispatch loop.
//
// The engine is single-threaded by design. All mutation happens synchronously
// inside the handler invoked by a gesture or host event; callers that share an
// Instance across goroutines (like the preview server) must serialize access
// themselves.
package engine

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const (
	contextPrefix = "context:"
	itemPrefix    = "item."
	propPrefix    = "prop:"
)

// RenderContext is the ephemeral scope of one render pass: merged props, the
// instance's mutable context, the current machine state, and the item/index
// pair while iterating inside a list or stack.
type RenderContext struct {
	Props        map[string]any
	Context      map[string]any
	CurrentState string

	// Item and ItemIndex are only populated during list/stack iteration.
	// HasItem distinguishes "no item" from a nil item value.
	Item      any
	ItemIndex int
	HasItem   bool
}

// WithItem derives an iteration scope carrying one list item. The parent
// context is not modified.
func (ctx *RenderContext) WithItem(item any, index int) *RenderContext {
	derived := *ctx
	derived.Item = item
	derived.ItemIndex = index
	derived.HasItem = true
	return &derived
}

// Resolve looks up a value-binding path against the context. The addressing
// scheme is deliberately minimal:
//
//	"context:key"  ->  ctx.Context["key"]
//	"item.field"   ->  field of the current iteration item
//	"item"         ->  the current iteration item itself
//	anything else  ->  ctx.Props[path]
//
// A missing key at any stage yields nil, never an error. Nested dotted paths
// beyond the single "item." prefix are not supported.
func Resolve(path string, ctx *RenderContext) any {
	switch {
	case strings.HasPrefix(path, contextPrefix):
		return ctx.Context[path[len(contextPrefix):]]
	case strings.HasPrefix(path, itemPrefix) && ctx.HasItem:
		if m, ok := ctx.Item.(map[string]any); ok {
			return m[path[len(itemPrefix):]]
		}
		return nil
	case path == "item" && ctx.HasItem:
		return ctx.Item
	default:
		return ctx.Props[path]
	}
}

// ResolveProp resolves a "prop:<name>" indirection against props, or returns
// the literal string unchanged. Used by navigate targets and widget fields.
func ResolveProp(value string, props map[string]any) string {
	if !strings.HasPrefix(value, propPrefix) {
		return value
	}
	return ToString(props[value[len(propPrefix):]])
}

// ToFloat coerces a context or props value to a number. Non-numeric values
// coerce to 0; this default-to-zero policy matches the engine's never-crash
// stance on bad author input.
func ToFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return 0
}

// ToString coerces a resolved value to its text rendering. nil yields "".
func ToString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map {
			return ""
		}
		return fmt.Sprintf("%v", v)
	}
}

// Truthy reports whether a resolved value counts as true: non-nil, non-zero,
// non-empty.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Map, reflect.Array:
			return rv.Len() > 0
		}
		return true
	}
}

// AsSlice returns the value as an item sequence, or nil when the value is not
// a sequence. list/stack rendering treats nil as "render nothing".
func AsSlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []map[string]any:
		out := make([]any, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out
	case []string:
		out := make([]any, len(s))
		for i, str := range s {
			out[i] = str
		}
		return out
	default:
		return nil
	}
}

// looseEqual compares two values the way the expression grammar does: numbers
// compare numerically even across representations, everything else compares
// by string form.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if isNumeric(a) && isNumeric(b) {
		return ToFloat(a) == ToFloat(b)
	}
	return ToString(a) == ToString(b)
}

func isNumeric(v any) bool {
	switch n := v.(type) {
	case float64, float32, int, int64:
		return true
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return err == nil
	}
	return false
}
