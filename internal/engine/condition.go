package engine

import (
	"github.com/protofab/protofab/internal/types"
)

// EvalCondition decides whether a guarded transition applies. A nil condition
// always passes. String conditions go through the expression grammar; typed
// conditions resolve their key through the same addressing scheme as prop
// bindings.
//
// The positional kinds read the event's item index against the sequence the
// key resolves to: isFirst passes at index 0, isLast at the final index.
// Evaluation never fails; anything unresolvable simply does not pass.
func EvalCondition(cond *types.Condition, ctx *RenderContext, data EventData) bool {
	if cond == nil {
		return true
	}
	if cond.Expr != "" {
		expr, err := ParseExpr(cond.Expr)
		if err != nil {
			return false
		}
		return expr.EvalBool(ctx)
	}

	value := Resolve(cond.Key, ctx)
	switch cond.Kind {
	case types.CondIsFirst:
		return data.HasIndex && data.ItemIndex == 0
	case types.CondIsLast:
		seq := AsSlice(value)
		return data.HasIndex && seq != nil && data.ItemIndex == len(seq)-1
	case types.CondIsEmpty:
		return !Truthy(value)
	case types.CondIsNotEmpty:
		return Truthy(value)
	case types.CondEquals:
		return looseEqual(value, cond.Value)
	case types.CondNotEquals:
		return !looseEqual(value, cond.Value)
	case types.CondGreaterThan:
		return ToFloat(value) > ToFloat(cond.Value)
	case types.CondLessThan:
		return ToFloat(value) < ToFloat(cond.Value)
	}
	return false
}
