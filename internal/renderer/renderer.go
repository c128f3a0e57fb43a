// Package renderer walks a component definition's template tree and produces
// HTML for the preview surface. Rendering is a pure function of the element
// tree and the render context; interactivity is expressed as data attributes
// that the preview shell script translates into engine events.
//
// Missing data never fails a render: unresolved bindings degrade to empty
// text, missing images to a placeholder, non-sequence list sources to
// nothing. Broken templates render partially rather than crashing the
// component tree.
package renderer

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/protofab/protofab/internal/engine"
	"github.com/protofab/protofab/internal/icons"
	"github.com/protofab/protofab/internal/types"
)

// stackWindow is the number of cards visible at once in a stack element.
const stackWindow = 3

// Options control one render pass.
type Options struct {
	// Preview enables gesture wiring and editable inputs. Outside preview
	// the output is a static mock.
	Preview bool
}

// Renderer renders template trees against an immutable icon registry.
type Renderer struct {
	icons *icons.Registry
}

// New creates a renderer backed by the given icon registry.
func New(reg *icons.Registry) *Renderer {
	return &Renderer{icons: reg}
}

// RenderInstance renders an instance's full surface: the template tree plus
// any open sheet or dropdown overlay.
func (r *Renderer) RenderInstance(in *engine.Instance, opts Options) string {
	ctx := in.RenderContext()
	var b strings.Builder

	b.WriteString(`<div class="pf-component">`)
	r.renderElement(&b, in.Definition().Template, ctx, "root", opts)
	b.WriteString(`</div>`)

	if sheet := in.Sheet(); sheet.Open {
		r.renderSheet(&b, sheet, ctx, opts)
	}
	if dd := in.Dropdown(); dd.Open {
		r.renderDropdown(&b, dd)
	}
	return b.String()
}

// RenderElement renders a single subtree. Exposed for static rendering and
// tests; RenderInstance is the usual entry point.
func (r *Renderer) RenderElement(el *types.TemplateElement, ctx *engine.RenderContext, opts Options) string {
	var b strings.Builder
	r.renderElement(&b, el, ctx, "root", opts)
	return b.String()
}

func (r *Renderer) renderElement(b *strings.Builder, el *types.TemplateElement, ctx *engine.RenderContext, key string, opts Options) {
	if el == nil {
		return
	}
	if el.Visible != "" {
		expr, err := engine.ParseExpr(el.Visible)
		// Malformed visibility expressions fail open: the element shows.
		if err == nil && !expr.EvalBool(ctx) {
			return
		}
	}

	propValue := any(nil)
	if el.Prop != "" {
		propValue = engine.Resolve(el.Prop, ctx)
	}
	gestures := r.gestureAttrs(el, ctx, opts)

	switch el.Type {
	case types.ElementContainer:
		base := map[string]any{"display": "flex", "flexDirection": "column"}
		fmt.Fprintf(b, `<div data-key="%s"%s%s>`, attr(key), styleAttr(base, el.Style), gestures)
		for i, child := range el.Children {
			r.renderElement(b, child, ctx, fmt.Sprintf("%s-%d", key, i), opts)
		}
		b.WriteString(`</div>`)

	case types.ElementHeading:
		base := map[string]any{"margin": "0", "fontSize": 20, "fontWeight": 600}
		fmt.Fprintf(b, `<h2 data-key="%s"%s%s>%s</h2>`,
			attr(key), styleAttr(base, el.Style), gestures, html.EscapeString(engine.ToString(propValue)))

	case types.ElementText:
		base := map[string]any{"margin": "0", "fontSize": 14, "color": "#666"}
		fmt.Fprintf(b, `<p data-key="%s"%s%s>%s</p>`,
			attr(key), styleAttr(base, el.Style), gestures, html.EscapeString(engine.ToString(propValue)))

	case types.ElementImage:
		src := engine.ToString(propValue)
		if src != "" {
			base := map[string]any{"width": "100%", "objectFit": "cover"}
			fmt.Fprintf(b, `<img data-key="%s" src="%s" alt=""%s%s>`,
				attr(key), attr(src), styleAttr(base, el.Style), gestures)
		} else {
			base := map[string]any{
				"width": "100%", "height": 120, "background": "#f0f0f0",
				"display": "flex", "alignItems": "center", "justifyContent": "center",
				"color": "#999", "fontSize": 12,
			}
			fmt.Fprintf(b, `<div data-key="%s" class="pf-image-placeholder"%s%s>No image</div>`,
				attr(key), styleAttr(base, el.Style), gestures)
		}

	case types.ElementButton:
		r.renderButton(b, el, ctx, propValue, key, opts)

	case types.ElementInput:
		r.renderInput(b, el, propValue, key, opts)

	case types.ElementCell:
		r.renderCell(b, el, ctx, key, opts)

	case types.ElementSpacer:
		height := el.Height
		if height <= 0 {
			height = 16
		}
		fmt.Fprintf(b, `<div data-key="%s" style="height: %dpx"></div>`, attr(key), height)

	case types.ElementList:
		r.renderList(b, el, ctx, key, opts)

	case types.ElementStack:
		r.renderStack(b, el, ctx, key, opts)

	case types.ElementIcon:
		r.renderIcon(b, el, ctx, key, gestures)
	}
}

func (r *Renderer) renderList(b *strings.Builder, el *types.TemplateElement, ctx *engine.RenderContext, key string, opts Options) {
	items := engine.AsSlice(ctx.Props[el.DataKey])
	if items == nil || el.ItemTemplate == nil {
		return
	}
	base := map[string]any{"display": "flex", "flexDirection": "column"}
	fmt.Fprintf(b, `<div data-key="%s"%s>`, attr(key), styleAttr(base, el.Style))
	for i, item := range items {
		r.renderElement(b, el.ItemTemplate, ctx.WithItem(item, i), fmt.Sprintf("%s-item-%d", key, i), opts)
	}
	b.WriteString(`</div>`)
}

func (r *Renderer) renderStack(b *strings.Builder, el *types.TemplateElement, ctx *engine.RenderContext, key string, opts Options) {
	items := engine.AsSlice(ctx.Props[el.DataKey])
	if items == nil || el.ItemTemplate == nil {
		return
	}
	cursor := 0
	if el.IndexKey != "" {
		cursor = int(engine.ToFloat(ctx.Context[el.IndexKey]))
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(items) {
		cursor = len(items)
	}
	window := items[cursor:min(cursor+stackWindow, len(items))]

	base := map[string]any{"position": "relative"}
	fmt.Fprintf(b, `<div data-key="%s"%s>`, attr(key), styleAttr(base, el.Style))
	for i, item := range window {
		// Cards behind the front one are offset and scaled down to
		// suggest physical depth; only the front card is interactive.
		position := "absolute"
		if i == 0 {
			position = "relative"
		}
		card := map[string]any{
			"position":   position,
			"top":        i * 4,
			"left":       0,
			"right":      0,
			"transform":  fmt.Sprintf("scale(%g)", 1-float64(i)*0.02),
			"zIndex":     len(window) - i,
			"transition": "all 0.3s ease",
		}
		fmt.Fprintf(b, `<div data-key="%s-stack-%d"%s>`, attr(key), cursor+i, styleAttr(card, nil))
		r.renderElement(b, el.ItemTemplate, ctx.WithItem(item, cursor+i), fmt.Sprintf("%s-stack-item-%d", key, cursor+i), opts)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
}

func (r *Renderer) renderIcon(b *strings.Builder, el *types.TemplateElement, ctx *engine.RenderContext, key string, gestures string) {
	name := engine.ToString(engine.EvalDynamic(el.Name, ctx))
	rotation := dynamicFloat(el.Rotation, ctx)
	size := 24.0
	if el.Size != nil && el.Size.Px > 0 {
		size = el.Size.Px
	}

	icon, ok := r.icons.Lookup(name)
	if !ok {
		fmt.Fprintf(b, `<span data-key="%s" class="pf-icon-fallback"%s>%s</span>`,
			attr(key), gestures, icons.FallbackGlyph)
		return
	}
	fmt.Fprintf(b, `<span data-key="%s" class="pf-icon"%s%s>%s</span>`,
		attr(key), styleAttr(nil, el.Style), gestures, icon.SVG(size, rotation))
}

// gestureAttrs wires declared gestures into data attributes the preview
// shell turns into dispatched events. Only TAP is wired; other declared
// gesture kinds are accepted but not dispatched.
func (r *Renderer) gestureAttrs(el *types.TemplateElement, ctx *engine.RenderContext, opts Options) string {
	if !opts.Preview {
		return ""
	}
	for _, g := range el.Gestures {
		if g == "TAP" {
			if ctx.HasItem {
				return fmt.Sprintf(` data-gesture="tap" data-item-index="%d"`, ctx.ItemIndex)
			}
			return ` data-gesture="tap"`
		}
	}
	return ""
}

// dynamicFloat evaluates a rotation value that is a plain number or a
// "context:"-prefixed expression. Failures fall back to zero.
func dynamicFloat(value string, ctx *engine.RenderContext) float64 {
	if value == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return engine.ToFloat(engine.EvalDynamic(value, ctx))
}

// attr escapes a value for use inside a double-quoted HTML attribute.
func attr(s string) string {
	return html.EscapeString(s)
}
