package renderer

import (
	"fmt"
	"html"
	"strings"

	"github.com/protofab/protofab/internal/engine"
)

// renderSheet renders the bottom-sheet overlay. Content is a template
// subtree rendered with the host's render context, so sheet content can
// reference the same props and context as the component that opened it.
func (r *Renderer) renderSheet(b *strings.Builder, sheet engine.SheetState, ctx *engine.RenderContext, opts Options) {
	b.WriteString(`<div class="pf-sheet-overlay">`)
	b.WriteString(`<div class="pf-sheet-backdrop" data-overlay-dismiss="sheet"></div>`)
	b.WriteString(`<div class="pf-sheet"><div class="pf-sheet-handle"></div>`)
	if sheet.Title != "" {
		fmt.Fprintf(b, `<div class="pf-sheet-header"><h3>%s</h3></div>`, html.EscapeString(sheet.Title))
	}
	b.WriteString(`<div class="pf-sheet-content">`)
	if sheet.Content != nil {
		r.renderElement(b, sheet.Content, ctx, "sheet-content", opts)
	}
	b.WriteString(`</div></div></div>`)
}

// renderDropdown renders the positioned menu anchored at the point captured
// when the dropdown opened.
func (r *Renderer) renderDropdown(b *strings.Builder, dd engine.DropdownState) {
	b.WriteString(`<div class="pf-dropdown-backdrop" data-overlay-dismiss="dropdown"></div>`)
	fmt.Fprintf(b, `<div class="pf-dropdown" style="left: %gpx; top: %gpx">`, dd.X, dd.Y)
	for _, item := range dd.Items {
		fmt.Fprintf(b, `<button type="button" class="pf-dropdown-item" data-dropdown-item="%s">`, attr(item.ID))
		if item.Icon != "" {
			fmt.Fprintf(b, `<span class="pf-dropdown-icon">%s</span>`, html.EscapeString(item.Icon))
		}
		fmt.Fprintf(b, `<span>%s</span></button>`, html.EscapeString(item.Label))
	}
	b.WriteString(`</div>`)
}
