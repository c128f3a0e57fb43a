package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// The expression grammar replaces ad hoc evaluation of author-supplied
// strings with a small parsed AST: literals, scope lookups, equality and
// ordering comparisons, and a ternary. It covers the authoring ergonomics of
// conditional icon swapping and element visibility without a general-purpose
// interpreter.
//
// Grammar (loosest binding first):
//
//	expr    = compare [ "?" expr ":" expr ]
//	compare = primary [ ("==" | "===" | "!=" | "!==" | ">" | "<") primary ]
//	primary = number | quoted string | true | false | null | lookup
//	lookup  = "context:" ident | "item." ident | "item" | ident
//
// Lookups resolve through Resolve, so the addressing scheme is identical to
// prop bindings. Evaluation never fails: a malformed input parses to an
// always-nil expression and lookups of missing keys yield nil.

// Expr is a parsed expression, safe for reuse across render passes.
type Expr struct {
	root exprNode
}

type exprNode interface {
	eval(ctx *RenderContext) any
}

type litNode struct{ value any }

func (n litNode) eval(*RenderContext) any { return n.value }

type refNode struct{ path string }

func (n refNode) eval(ctx *RenderContext) any { return Resolve(n.path, ctx) }

type binNode struct {
	op          string
	left, right exprNode
}

func (n binNode) eval(ctx *RenderContext) any {
	l, r := n.left.eval(ctx), n.right.eval(ctx)
	switch n.op {
	case "==":
		return looseEqual(l, r)
	case "!=":
		return !looseEqual(l, r)
	case ">":
		return ToFloat(l) > ToFloat(r)
	case "<":
		return ToFloat(l) < ToFloat(r)
	}
	return nil
}

type ternaryNode struct {
	cond, then, alt exprNode
}

func (n ternaryNode) eval(ctx *RenderContext) any {
	if Truthy(n.cond.eval(ctx)) {
		return n.then.eval(ctx)
	}
	return n.alt.eval(ctx)
}

type nilNode struct{}

func (nilNode) eval(*RenderContext) any { return nil }

// ParseExpr parses an expression once for repeated evaluation.
func ParseExpr(input string) (*Expr, error) {
	p := &exprParser{tokens: lexExpr(input)}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("unexpected %q", p.peek())
	}
	return &Expr{root: node}, nil
}

// Eval evaluates against a render context. A nil or malformed expression
// yields nil.
func (e *Expr) Eval(ctx *RenderContext) any {
	if e == nil || e.root == nil {
		return nil
	}
	return e.root.eval(ctx)
}

// EvalBool evaluates and coerces to truthiness.
func (e *Expr) EvalBool(ctx *RenderContext) bool { return Truthy(e.Eval(ctx)) }

// EvalString evaluates and coerces to text.
func (e *Expr) EvalString(ctx *RenderContext) string { return ToString(e.Eval(ctx)) }

// EvalFloat evaluates and coerces to a number (0 on failure).
func (e *Expr) EvalFloat(ctx *RenderContext) float64 { return ToFloat(e.Eval(ctx)) }

// EvalDynamic evaluates a possibly-dynamic author string: "context:"-prefixed
// strings go through the expression grammar, everything else is returned
// literally. Parse failures fall back to the zero value, never an error.
func EvalDynamic(input string, ctx *RenderContext) any {
	if !strings.HasPrefix(input, contextPrefix) {
		return input
	}
	expr, err := ParseExpr(input)
	if err != nil {
		return nil
	}
	return expr.Eval(ctx)
}

// --- lexer ---

func lexExpr(input string) []string {
	var tokens []string
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '=' || c == '!':
			// ==, ===, !=, !== all collapse to two-char operators.
			j := i + 1
			for j < len(input) && input[j] == '=' {
				j++
			}
			tokens = append(tokens, string(c)+"=")
			i = j
		case c == '>' || c == '<' || c == '?':
			tokens = append(tokens, string(c))
			i++
		case c == '\'' || c == '"':
			j := i + 1
			for j < len(input) && input[j] != c {
				j++
			}
			if j < len(input) {
				tokens = append(tokens, "'"+input[i+1:j])
				i = j + 1
			} else {
				tokens = append(tokens, "'"+input[i+1:])
				i = len(input)
			}
		case isIdentByte(c) || c == '-':
			j := i
			for j < len(input) && (isIdentByte(input[j]) || input[j] == '.' || input[j] == '-') {
				j++
			}
			// "context:" glues the scope prefix onto the identifier; a
			// bare ":" is the ternary separator.
			if j < len(input) && input[j] == ':' && input[i:j] == "context" {
				j++
				for j < len(input) && (isIdentByte(input[j]) || input[j] == '.' || input[j] == '-') {
					j++
				}
			}
			tokens = append(tokens, input[i:j])
			i = j
		case c == ':':
			tokens = append(tokens, ":")
			i++
		default:
			tokens = append(tokens, string(c))
			i++
		}
	}
	return tokens
}

func isIdentByte(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

// --- parser ---

type exprParser struct {
	tokens []string
	pos    int
}

func (p *exprParser) done() bool { return p.pos >= len(p.tokens) }

func (p *exprParser) peek() string {
	if p.done() {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *exprParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *exprParser) parseExpr() (exprNode, error) {
	cond, err := p.parseCompare()
	if err != nil {
		return nil, err
	}
	if p.peek() != "?" {
		return cond, nil
	}
	p.next()
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.next() != ":" {
		return nil, fmt.Errorf("expected ':' in ternary")
	}
	alt, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ternaryNode{cond: cond, then: then, alt: alt}, nil
}

func (p *exprParser) parseCompare() (exprNode, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	switch p.peek() {
	case "==", "!=", ">", "<":
		op := p.next()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return binNode{op: op, left: left, right: right}, nil
	}
	return left, nil
}

func (p *exprParser) parsePrimary() (exprNode, error) {
	tok := p.next()
	switch {
	case tok == "":
		return nil, fmt.Errorf("unexpected end of expression")
	case strings.HasPrefix(tok, "'"):
		return litNode{value: tok[1:]}, nil
	case tok == "true":
		return litNode{value: true}, nil
	case tok == "false":
		return litNode{value: false}, nil
	case tok == "null" || tok == "undefined":
		return nilNode{}, nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return litNode{value: f}, nil
	}
	if !isIdentByte(tok[0]) {
		return nil, fmt.Errorf("unexpected %q", tok)
	}
	return refNode{path: tok}, nil
}
