package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpr_Literals(t *testing.T) {
	ctx := testContext()

	tests := []struct {
		input string
		want  any
	}{
		{"42", float64(42)},
		{"-3", float64(-3)},
		{"'hello'", "hello"},
		{`"hello"`, "hello"},
		{"true", true},
		{"false", false},
		{"null", nil},
	}
	for _, tt := range tests {
		expr, err := ParseExpr(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, expr.Eval(ctx), tt.input)
	}
}

func TestParseExpr_Lookups(t *testing.T) {
	ctx := testContext().WithItem(map[string]any{"index": float64(1)}, 1)

	expr, err := ParseExpr("context:mode")
	require.NoError(t, err)
	assert.Equal(t, "open", expr.Eval(ctx))

	expr, err = ParseExpr("title")
	require.NoError(t, err)
	assert.Equal(t, "Hello", expr.Eval(ctx))

	expr, err = ParseExpr("item.index")
	require.NoError(t, err)
	assert.Equal(t, float64(1), expr.Eval(ctx))
}

func TestParseExpr_Comparison(t *testing.T) {
	ctx := testContext().WithItem(map[string]any{"index": float64(1)}, 1)

	tests := []struct {
		input string
		want  bool
	}{
		{"context:mode == 'open'", true},
		{"context:mode === 'open'", true}, // JS-style operator accepted
		{"context:mode != 'open'", false},
		{"context:idx == item.index", true},
		{"context:idx == 2", false},
		{"count > 2", true},
		{"count < 2", false},
		{"context:missing == null", true},
	}
	for _, tt := range tests {
		expr, err := ParseExpr(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, expr.EvalBool(ctx), tt.input)
	}
}

func TestParseExpr_Ternary(t *testing.T) {
	ctx := testContext()

	expr, err := ParseExpr("context:mode == 'open' ? 'chevron-up' : 'chevron-down'")
	require.NoError(t, err)
	assert.Equal(t, "chevron-up", expr.EvalString(ctx))

	ctx.Context["mode"] = "closed"
	assert.Equal(t, "chevron-down", expr.EvalString(ctx))
}

func TestParseExpr_Malformed(t *testing.T) {
	for _, input := range []string{"", "== 3", "a ? b", "a >", "(a)"} {
		_, err := ParseExpr(input)
		assert.Error(t, err, input)
	}
}

func TestEvalDynamic(t *testing.T) {
	ctx := testContext()

	// Plain strings pass through literally.
	assert.Equal(t, "chevron-down", EvalDynamic("chevron-down", ctx))
	// "context:"-prefixed strings are evaluated.
	assert.Equal(t, "open", EvalDynamic("context:mode", ctx))
	assert.Equal(t, float64(90), EvalDynamic("context:idx == 1 ? 90 : 0", ctx))
	// Missing keys degrade to nil, never an error.
	assert.Nil(t, EvalDynamic("context:missing", ctx))
}
