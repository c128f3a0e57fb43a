package renderer

import (
	"strings"
	"testing"

	"github.com/protofab/protofab/internal/engine"
	"github.com/protofab/protofab/internal/icons"
	"github.com/protofab/protofab/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func newTestRenderer() *Renderer {
	return New(icons.NewRegistry())
}

func renderCtx(props, context map[string]any) *engine.RenderContext {
	if props == nil {
		props = map[string]any{}
	}
	if context == nil {
		context = map[string]any{}
	}
	return &engine.RenderContext{Props: props, Context: context, CurrentState: "idle"}
}

// parseFragment parses rendered output so tests can assert structure instead
// of exact markup.
func parseFragment(t *testing.T, fragment string) []*html.Node {
	t.Helper()
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	require.NoError(t, err)
	return nodes
}

func findAll(nodes []*html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

func attrVal(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(name, value string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		v, ok := attrVal(n, name)
		return ok && (value == "" || v == value)
	}
}

func TestRender_ContainerChildrenInOrder(t *testing.T) {
	r := newTestRenderer()
	el := &types.TemplateElement{
		Type: types.ElementContainer,
		Children: []*types.TemplateElement{
			{Type: types.ElementHeading, Prop: "title"},
			{Type: types.ElementText, Prop: "body"},
		},
	}
	ctx := renderCtx(map[string]any{"title": "Hi", "body": "There"}, nil)

	out := r.RenderElement(el, ctx, Options{})

	assert.Less(t, strings.Index(out, "Hi"), strings.Index(out, "There"))
	assert.Contains(t, out, "flex-direction: column")
}

func TestRender_TextCoercion(t *testing.T) {
	r := newTestRenderer()
	ctx := renderCtx(map[string]any{"n": float64(42)}, nil)

	assert.Contains(t, r.RenderElement(&types.TemplateElement{Type: types.ElementText, Prop: "n"}, ctx, Options{}), ">42<")
	// An unresolved binding renders empty text, not an error.
	assert.Contains(t, r.RenderElement(&types.TemplateElement{Type: types.ElementText, Prop: "missing"}, ctx, Options{}), "></p>")
}

func TestRender_TextEscapesHTML(t *testing.T) {
	r := newTestRenderer()
	ctx := renderCtx(map[string]any{"x": "<script>alert(1)</script>"}, nil)

	out := r.RenderElement(&types.TemplateElement{Type: types.ElementText, Prop: "x"}, ctx, Options{})

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRender_ImagePlaceholder(t *testing.T) {
	r := newTestRenderer()
	el := &types.TemplateElement{Type: types.ElementImage, Prop: "photo"}

	withSrc := r.RenderElement(el, renderCtx(map[string]any{"photo": "https://example.com/a.png"}, nil), Options{})
	assert.Contains(t, withSrc, `<img`)
	assert.Contains(t, withSrc, `src="https://example.com/a.png"`)

	without := r.RenderElement(el, renderCtx(nil, nil), Options{})
	assert.NotContains(t, without, `<img`)
	assert.Contains(t, without, "No image")
}

func TestRender_ButtonDefaults(t *testing.T) {
	r := newTestRenderer()
	out := r.RenderElement(&types.TemplateElement{Type: types.ElementButton}, renderCtx(nil, nil), Options{})

	assert.Contains(t, out, "pf-btn-primary")
	assert.Contains(t, out, "pf-btn-m")
	assert.Contains(t, out, ">Button<")
}

func TestRender_ButtonNavigateIndirection(t *testing.T) {
	r := newTestRenderer()
	el := &types.TemplateElement{
		Type:   types.ElementButton,
		Prop:   "label",
		Action: "navigate",
		Target: "prop:targetField",
	}
	ctx := renderCtx(map[string]any{"label": "Go", "targetField": "screen-42"}, nil)

	preview := r.RenderElement(el, ctx, Options{Preview: true})
	nodes := parseFragment(t, preview)
	buttons := findAll(nodes, hasAttr("data-navigate", "screen-42"))
	require.Len(t, buttons, 1)
	_, tapped := attrVal(buttons[0], "data-gesture")
	assert.True(t, tapped, "preview buttons always dispatch TAP")

	// Outside preview there is no interactivity wiring.
	static := r.RenderElement(el, ctx, Options{})
	assert.NotContains(t, static, "data-navigate")
	assert.NotContains(t, static, "data-gesture")
}

func TestRender_ButtonUnresolvedTargetOmitsNavigation(t *testing.T) {
	r := newTestRenderer()
	el := &types.TemplateElement{Type: types.ElementButton, Action: "navigate", Target: "prop:missing"}

	out := r.RenderElement(el, renderCtx(nil, nil), Options{Preview: true})

	assert.NotContains(t, out, "data-navigate")
}

func TestRender_InputReadOnlyOutsidePreview(t *testing.T) {
	r := newTestRenderer()
	el := &types.TemplateElement{Type: types.ElementInput, Placeholder: "Your name"}

	static := r.RenderElement(el, renderCtx(nil, nil), Options{})
	assert.Contains(t, static, "readonly")
	assert.Contains(t, static, `placeholder="Your name"`)

	preview := r.RenderElement(el, renderCtx(nil, nil), Options{Preview: true})
	assert.NotContains(t, preview, "readonly")
}

func TestRender_InputValidationForwarded(t *testing.T) {
	r := newTestRenderer()
	minVal := 1.0
	el := &types.TemplateElement{
		Type: types.ElementInput,
		Validation: &types.ValidationRule{
			Enabled: true, Type: "range", Min: &minVal, ErrorMessage: "too small",
		},
	}

	out := r.RenderElement(el, renderCtx(nil, nil), Options{Preview: true})

	assert.Contains(t, out, `data-validation-type="range"`)
	assert.Contains(t, out, `data-validation-min="1"`)
	assert.Contains(t, out, `data-validation-error="too small"`)
}

func TestRender_CellIndirection(t *testing.T) {
	r := newTestRenderer()
	el := &types.TemplateElement{
		Type:     types.ElementCell,
		CellType: "navigation",
		Title:    "prop:cellTitle",
		Subtitle: "Literal subtitle",
		ShowSubtitle: true,
		Action:   "navigate",
		Target:   "settings-screen",
	}
	ctx := renderCtx(map[string]any{"cellTitle": "Profile"}, nil)

	out := r.RenderElement(el, ctx, Options{Preview: true})

	assert.Contains(t, out, "Profile")
	assert.Contains(t, out, "Literal subtitle")
	assert.Contains(t, out, `data-navigate="settings-screen"`)
	assert.Contains(t, out, "pf-cell-chevron")
}

func TestRender_CellControls(t *testing.T) {
	r := newTestRenderer()
	for cellType, marker := range map[string]string{
		"toggle":   "pf-toggle",
		"checkbox": "pf-checkbox",
		"radio":    "pf-radio",
		"info":     "pf-cell-info",
	} {
		el := &types.TemplateElement{Type: types.ElementCell, CellType: cellType, Title: "Row", InfoValue: "v1"}
		out := r.RenderElement(el, renderCtx(nil, nil), Options{Preview: true})
		assert.Contains(t, out, marker, cellType)
	}
}

func TestRender_SpacerDefaultHeight(t *testing.T) {
	r := newTestRenderer()

	assert.Contains(t,
		r.RenderElement(&types.TemplateElement{Type: types.ElementSpacer}, renderCtx(nil, nil), Options{}),
		"height: 16px")
	assert.Contains(t,
		r.RenderElement(&types.TemplateElement{Type: types.ElementSpacer, Height: 32}, renderCtx(nil, nil), Options{}),
		"height: 32px")
}

func TestRender_ListIteration(t *testing.T) {
	r := newTestRenderer()
	el := &types.TemplateElement{
		Type:         types.ElementList,
		DataKey:      "rows",
		ItemTemplate: &types.TemplateElement{Type: types.ElementText, Prop: "item.name"},
	}
	ctx := renderCtx(map[string]any{"rows": []any{
		map[string]any{"name": "First"},
		map[string]any{"name": "Second"},
	}}, nil)

	out := r.RenderElement(el, ctx, Options{})

	assert.Contains(t, out, "First")
	assert.Contains(t, out, "Second")
	assert.Less(t, strings.Index(out, "First"), strings.Index(out, "Second"))
}

func TestRender_ListNonSequenceRendersNothing(t *testing.T) {
	r := newTestRenderer()
	el := &types.TemplateElement{
		Type:         types.ElementList,
		DataKey:      "rows",
		ItemTemplate: &types.TemplateElement{Type: types.ElementText, Prop: "item.name"},
	}

	assert.Empty(t, r.RenderElement(el, renderCtx(map[string]any{"rows": "not a list"}, nil), Options{}))
	assert.Empty(t, r.RenderElement(el, renderCtx(nil, nil), Options{}))
}

func TestRender_StackWindowClamped(t *testing.T) {
	r := newTestRenderer()
	el := &types.TemplateElement{
		Type:         types.ElementStack,
		DataKey:      "cards",
		IndexKey:     "idx",
		ItemTemplate: &types.TemplateElement{Type: types.ElementText, Prop: "item.name"},
	}
	cards := []any{
		map[string]any{"name": "c0"}, map[string]any{"name": "c1"},
		map[string]any{"name": "c2"}, map[string]any{"name": "c3"},
		map[string]any{"name": "c4"},
	}

	// Cursor at 3 of 5: exactly two visible cards, the window clamps to
	// what remains.
	out := r.RenderElement(el, renderCtx(map[string]any{"cards": cards}, map[string]any{"idx": float64(3)}), Options{})
	assert.NotContains(t, out, "c2")
	assert.Contains(t, out, "c3")
	assert.Contains(t, out, "c4")

	nodes := parseFragment(t, out)
	assert.Len(t, findAll(nodes, hasAttr("data-key", "root-stack-3")), 1)
	assert.Len(t, findAll(nodes, hasAttr("data-key", "root-stack-4")), 1)

	// Cursor at 0 shows the full three-card window.
	out = r.RenderElement(el, renderCtx(map[string]any{"cards": cards}, map[string]any{"idx": float64(0)}), Options{})
	assert.Contains(t, out, "c2")
	assert.NotContains(t, out, "c3")
}

func TestRender_IconRegistryAndFallback(t *testing.T) {
	r := newTestRenderer()

	known := r.RenderElement(&types.TemplateElement{Type: types.ElementIcon, Name: "close"}, renderCtx(nil, nil), Options{})
	assert.Contains(t, known, "<svg")

	unknown := r.RenderElement(&types.TemplateElement{Type: types.ElementIcon, Name: "no-such"}, renderCtx(nil, nil), Options{})
	assert.NotContains(t, unknown, "<svg")
	assert.Contains(t, unknown, icons.FallbackGlyph)
}

func TestRender_IconDynamicNameAndRotation(t *testing.T) {
	r := newTestRenderer()
	el := &types.TemplateElement{
		Type:     types.ElementIcon,
		Name:     "context:open == true ? 'chevron-up' : 'chevron-down'",
		Rotation: "context:angle",
	}

	out := r.RenderElement(el, renderCtx(nil, map[string]any{"open": true, "angle": float64(45)}), Options{})
	assert.Contains(t, out, "M5 15l7-7 7 7") // chevron-up path
	assert.Contains(t, out, "rotate(45deg)")

	out = r.RenderElement(el, renderCtx(nil, map[string]any{"open": false}), Options{})
	assert.Contains(t, out, "M19 9l-7 7-7-7") // chevron-down path
	assert.NotContains(t, out, "rotate")
}

func TestRender_VisibleCondition(t *testing.T) {
	r := newTestRenderer()
	el := &types.TemplateElement{Type: types.ElementText, Prop: "title", Visible: "context:show == true"}
	props := map[string]any{"title": "Secret"}

	assert.Empty(t, r.RenderElement(el, renderCtx(props, map[string]any{"show": false}), Options{}))
	assert.Contains(t, r.RenderElement(el, renderCtx(props, map[string]any{"show": true}), Options{}), "Secret")
}

func TestRender_StylePassthrough(t *testing.T) {
	r := newTestRenderer()
	el := &types.TemplateElement{
		Type: types.ElementText,
		Prop: "title",
		Style: types.Style{
			"backgroundColor": "#fff",
			"padding":         float64(12),
			"madeUpProperty":  "kept",
			"opacity":         0.5,
		},
	}

	out := r.RenderElement(el, renderCtx(map[string]any{"title": "x"}, nil), Options{})

	assert.Contains(t, out, "background-color: #fff")
	assert.Contains(t, out, "padding: 12px")
	assert.Contains(t, out, "made-up-property: kept") // unknown keys pass through
	assert.Contains(t, out, "opacity: 0.5")           // unitless stays unitless
}

func TestRender_GestureWiringCarriesItemIndex(t *testing.T) {
	r := newTestRenderer()
	el := &types.TemplateElement{
		Type:         types.ElementList,
		DataKey:      "rows",
		ItemTemplate: &types.TemplateElement{Type: types.ElementText, Prop: "item.name", Gestures: []string{"TAP"}},
	}
	ctx := renderCtx(map[string]any{"rows": []any{
		map[string]any{"name": "a"},
		map[string]any{"name": "b"},
	}}, nil)

	out := r.RenderElement(el, ctx, Options{Preview: true})
	nodes := parseFragment(t, out)

	tappable := findAll(nodes, hasAttr("data-gesture", "tap"))
	require.Len(t, tappable, 2)
	idx, _ := attrVal(tappable[1], "data-item-index")
	assert.Equal(t, "1", idx)
}

func TestRenderInstance_SheetOverlay(t *testing.T) {
	r := newTestRenderer()
	def := &types.CustomComponentDefinition{
		Name:         "sheeted",
		DisplayName:  "Sheeted",
		Template:     &types.TemplateElement{Type: types.ElementContainer},
		DefaultProps: map[string]any{"title": "From props"},
	}
	in := engine.NewInstance(def, nil, engine.Hooks{})
	in.Execute([]types.ActionDefinition{{
		Type:         types.ActionOpenSheet,
		SheetTitle:   "Details",
		SheetContent: &types.TemplateElement{Type: types.ElementText, Prop: "title"},
	}}, engine.EventData{})

	out := r.RenderInstance(in, Options{Preview: true})

	assert.Contains(t, out, "pf-sheet")
	assert.Contains(t, out, "Details")
	// Sheet content renders with the host context.
	assert.Contains(t, out, "From props")
	assert.Contains(t, out, `data-overlay-dismiss="sheet"`)
}

func TestRenderInstance_DropdownOverlay(t *testing.T) {
	r := newTestRenderer()
	def := &types.CustomComponentDefinition{
		Name:         "menu",
		DisplayName:  "Menu",
		Template:     &types.TemplateElement{Type: types.ElementContainer},
		DefaultProps: map[string]any{},
	}
	in := engine.NewInstance(def, nil, engine.Hooks{})
	in.Execute([]types.ActionDefinition{{
		Type: types.ActionOpenDropdown,
		DropdownItems: []types.DropdownItem{
			{ID: "edit", Label: "Edit", Icon: "✏️"},
			{ID: "delete", Label: "Delete"},
		},
	}}, engine.EventData{X: 10, Y: 50})

	out := r.RenderInstance(in, Options{Preview: true})

	assert.Contains(t, out, "left: 10px")
	assert.Contains(t, out, "top: 50px")
	assert.Contains(t, out, `data-dropdown-item="edit"`)
	assert.Contains(t, out, "Delete")
}

func TestRender_UnknownElementTypeRendersNothing(t *testing.T) {
	r := newTestRenderer()

	out := r.RenderElement(&types.TemplateElement{Type: "bogus"}, renderCtx(nil, nil), Options{})

	assert.Empty(t, out)
}
