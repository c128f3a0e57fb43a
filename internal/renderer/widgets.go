package renderer

import (
	"fmt"
	"html"
	"strings"

	"github.com/protofab/protofab/internal/engine"
	"github.com/protofab/protofab/internal/types"
)

// The widget renderers mirror the shared base components hand-placed
// instances use, so templated buttons, inputs, and cells look and behave the
// same as their palette counterparts.

var buttonVariants = map[string]bool{"primary": true, "secondary": true, "destructive": true}
var buttonSizes = map[string]bool{"s": true, "m": true, "l": true}

func (r *Renderer) renderButton(b *strings.Builder, el *types.TemplateElement, ctx *engine.RenderContext, propValue any, key string, opts Options) {
	variant := el.Variant
	if !buttonVariants[variant] {
		variant = "primary"
	}
	size := "m"
	if el.Size != nil && buttonSizes[el.Size.Label] {
		size = el.Size.Label
	}
	label := engine.ToString(propValue)
	if label == "" {
		label = "Button"
	}

	var attrs strings.Builder
	if opts.Preview {
		// A templated button always dispatches TAP; navigate/back fire
		// alongside when declared.
		attrs.WriteString(` data-gesture="tap"`)
		if ctx.HasItem {
			fmt.Fprintf(&attrs, ` data-item-index="%d"`, ctx.ItemIndex)
		}
		writeNavigation(&attrs, el.Action, el.Target, ctx)
	}
	if el.RequireValidation {
		attrs.WriteString(` data-require-validation="true"`)
	}

	fmt.Fprintf(b, `<button type="button" data-key="%s" class="pf-btn pf-btn-%s pf-btn-%s"%s%s>%s</button>`,
		attr(key), variant, size, styleAttr(nil, el.Style), attrs.String(), html.EscapeString(label))
}

func (r *Renderer) renderInput(b *strings.Builder, el *types.TemplateElement, propValue any, key string, opts Options) {
	variant := el.InputVariant
	if variant == "" {
		variant = "default"
	}
	placeholder := el.Placeholder
	if placeholder == "" {
		placeholder = engine.ToString(propValue)
	}
	inputType := "text"
	if el.InputVariant == "password" {
		inputType = "password"
	}

	var attrs strings.Builder
	if el.InputType == "numeric" {
		attrs.WriteString(` inputmode="numeric"`)
	}
	if !opts.Preview {
		attrs.WriteString(` readonly`)
	}
	// The validation block is forwarded untouched; enforcement is the
	// preview shell's concern.
	if v := el.Validation; v != nil && v.Enabled {
		fmt.Fprintf(&attrs, ` data-validation-type="%s"`, attr(v.Type))
		if v.ExactValue != "" {
			fmt.Fprintf(&attrs, ` data-validation-exact="%s"`, attr(v.ExactValue))
		}
		if v.Min != nil {
			fmt.Fprintf(&attrs, ` data-validation-min="%g"`, *v.Min)
		}
		if v.Max != nil {
			fmt.Fprintf(&attrs, ` data-validation-max="%g"`, *v.Max)
		}
		if v.ErrorMessage != "" {
			fmt.Fprintf(&attrs, ` data-validation-error="%s"`, attr(v.ErrorMessage))
		}
	}

	if el.ShowLabel && el.Label != "" {
		fmt.Fprintf(b, `<label class="pf-input-label">%s`, html.EscapeString(el.Label))
		defer b.WriteString(`</label>`)
	}
	fmt.Fprintf(b, `<input type="%s" data-key="%s" class="pf-input pf-input-%s" placeholder="%s"%s%s>`,
		inputType, attr(key), variant, attr(placeholder), styleAttr(nil, el.Style), attrs.String())
}

func (r *Renderer) renderCell(b *strings.Builder, el *types.TemplateElement, ctx *engine.RenderContext, key string, opts Options) {
	// Cell fields resolve through the same "prop:" indirection buttons use
	// for navigation targets.
	title := engine.ResolveProp(el.Title, ctx.Props)
	subtitle := engine.ResolveProp(el.Subtitle, ctx.Props)
	icon := engine.ResolveProp(el.Icon, ctx.Props)
	rightIcon := engine.ResolveProp(el.RightIcon, ctx.Props)

	var attrs strings.Builder
	if opts.Preview {
		attrs.WriteString(` data-gesture="tap"`)
		if ctx.HasItem {
			fmt.Fprintf(&attrs, ` data-item-index="%d"`, ctx.ItemIndex)
		}
		writeNavigation(&attrs, el.Action, el.Target, ctx)
	}

	fmt.Fprintf(b, `<div data-key="%s" class="pf-cell pf-cell-%s"%s%s>`,
		attr(key), cellType(el), styleAttr(nil, el.Style), attrs.String())

	if el.ShowIcon {
		if icon != "" {
			fmt.Fprintf(b, `<img class="pf-cell-icon" src="%s" alt="">`, attr(icon))
		} else {
			b.WriteString(`<span class="pf-cell-icon pf-cell-icon-empty"></span>`)
		}
	}

	b.WriteString(`<span class="pf-cell-body">`)
	if el.SubtitlePosition == "top" && el.ShowSubtitle {
		fmt.Fprintf(b, `<span class="pf-cell-subtitle">%s</span>`, html.EscapeString(subtitle))
		fmt.Fprintf(b, `<span class="pf-cell-title">%s</span>`, html.EscapeString(title))
	} else {
		fmt.Fprintf(b, `<span class="pf-cell-title">%s</span>`, html.EscapeString(title))
		if el.ShowSubtitle {
			fmt.Fprintf(b, `<span class="pf-cell-subtitle">%s</span>`, html.EscapeString(subtitle))
		}
	}
	b.WriteString(`</span>`)

	r.renderCellControl(b, el, rightIcon)
	b.WriteString(`</div>`)
}

func cellType(el *types.TemplateElement) string {
	if el.CellType == "" {
		return "basic"
	}
	return el.CellType
}

// renderCellControl renders the right-hand control per cell type. Toggle,
// checkbox, and radio are visual state only; the shell flips their classes
// locally in preview mode.
func (r *Renderer) renderCellControl(b *strings.Builder, el *types.TemplateElement, rightIcon string) {
	switch el.CellType {
	case "navigation":
		if chevron, ok := r.icons.Lookup("chevron-right"); ok {
			fmt.Fprintf(b, `<span class="pf-cell-chevron">%s</span>`, chevron.SVG(20, 0))
		}
	case "toggle":
		b.WriteString(`<button type="button" class="pf-toggle" data-cell-control="toggle"><span class="pf-toggle-knob"></span></button>`)
	case "checkbox":
		b.WriteString(`<button type="button" class="pf-checkbox" data-cell-control="checkbox"></button>`)
	case "radio":
		group := el.RadioGroup
		if group == "" {
			group = "default"
		}
		fmt.Fprintf(b, `<input type="radio" class="pf-radio" name="%s">`, attr(group))
	case "info":
		fmt.Fprintf(b, `<span class="pf-cell-info">%s</span>`, html.EscapeString(el.InfoValue))
	case "icon":
		if rightIcon != "" {
			fmt.Fprintf(b, `<img class="pf-cell-right-icon" src="%s" alt="">`, attr(rightIcon))
		}
	}
}

// writeNavigation emits the navigation data attributes for button and cell
// actions. Targets resolve "prop:" indirection at render time; an empty
// resolved target emits nothing.
func writeNavigation(attrs *strings.Builder, action, target string, ctx *engine.RenderContext) {
	switch action {
	case "navigate":
		if screen := engine.ResolveProp(target, ctx.Props); screen != "" {
			fmt.Fprintf(attrs, ` data-navigate="%s"`, attr(screen))
		}
	case "back":
		attrs.WriteString(` data-back="true"`)
	}
}
