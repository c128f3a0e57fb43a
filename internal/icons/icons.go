// Package icons provides the fixed icon lookup table used by templated icon
// elements. The registry is constructed once and never mutated; renderers
// hold it by reference.
package icons

import "fmt"

// Icon is one named glyph, stored as SVG path data on a 24x24 viewbox.
type Icon struct {
	Name string
	Path string
	// Fill marks glyphs drawn with a filled path instead of strokes.
	Fill bool
}

// Registry is an immutable name -> icon lookup table.
type Registry struct {
	icons map[string]Icon
}

// FallbackGlyph is rendered for unknown icon names.
const FallbackGlyph = "?"

// builtin is the icon set shipped with the engine. The names mirror the ones
// component authors use in templates.
var builtin = []Icon{
	{Name: "more", Path: "M12 5.5a1.5 1.5 0 110-3 1.5 1.5 0 010 3zm0 8a1.5 1.5 0 110-3 1.5 1.5 0 010 3zm0 8a1.5 1.5 0 110-3 1.5 1.5 0 010 3z", Fill: true},
	{Name: "close", Path: "M6 18L18 6M6 6l12 12"},
	{Name: "check", Path: "M5 13l4 4L19 7"},
	{Name: "plus", Path: "M12 4v16m8-8H4"},
	{Name: "minus", Path: "M20 12H4"},
	{Name: "chevron-down", Path: "M19 9l-7 7-7-7"},
	{Name: "chevron-up", Path: "M5 15l7-7 7 7"},
	{Name: "chevron-left", Path: "M15 19l-7-7 7-7"},
	{Name: "chevron-right", Path: "M9 5l7 7-7 7"},
	{Name: "arrow-left", Path: "M10 19l-7-7m0 0l7-7m-7 7h18"},
	{Name: "arrow-right", Path: "M14 5l7 7m0 0l-7 7m7-7H3"},
	{Name: "search", Path: "M21 21l-6-6m2-5a7 7 0 11-14 0 7 7 0 0114 0z"},
	{Name: "heart", Path: "M4.318 6.318a4.5 4.5 0 000 6.364L12 20.364l7.682-7.682a4.5 4.5 0 00-6.364-6.364L12 7.636l-1.318-1.318a4.5 4.5 0 00-6.364 0z"},
	{Name: "star", Path: "M11.049 2.927c.3-.921 1.603-.921 1.902 0l1.519 4.674a1 1 0 00.95.69h4.915c.969 0 1.371 1.24.588 1.81l-3.976 2.888a1 1 0 00-.363 1.118l1.518 4.674c.3.922-.755 1.688-1.538 1.118l-3.976-2.888a1 1 0 00-1.176 0l-3.976 2.888c-.783.57-1.838-.196-1.538-1.118l1.518-4.674a1 1 0 00-.363-1.118l-3.976-2.888c-.783-.57-.38-1.81.588-1.81h4.914a1 1 0 00.951-.69l1.519-4.674z"},
	{Name: "menu", Path: "M4 6h16M4 12h16M4 18h16"},
	{Name: "trash", Path: "M19 7l-.867 12.142A2 2 0 0116.138 21H7.862a2 2 0 01-1.995-1.858L5 7m5 4v6m4-6v6m1-10V4a1 1 0 00-1-1h-4a1 1 0 00-1 1v3M4 7h16"},
	{Name: "edit", Path: "M11 5H6a2 2 0 00-2 2v11a2 2 0 002 2h11a2 2 0 002-2v-5m-1.414-9.414a2 2 0 112.828 2.828L11.828 15H9v-2.828l8.586-8.586z"},
	{Name: "share", Path: "M8.684 13.342C8.886 12.938 9 12.482 9 12c0-.482-.114-.938-.316-1.342m0 2.684a3 3 0 110-2.684m0 2.684l6.632 3.316m-6.632-6l6.632-3.316m0 0a3 3 0 105.367-2.684 3 3 0 00-5.367 2.684zm0 9.316a3 3 0 105.368 2.684 3 3 0 00-5.368-2.684z"},
	{Name: "home", Path: "M3 12l2-2m0 0l7-7 7 7M5 10v10a1 1 0 001 1h3m10-11l2 2m-2-2v10a1 1 0 01-1 1h-3m-6 0a1 1 0 001-1v-4a1 1 0 011-1h2a1 1 0 011 1v4a1 1 0 001 1m-6 0h6"},
	{Name: "user", Path: "M16 7a4 4 0 11-8 0 4 4 0 018 0zM12 14a7 7 0 00-7 7h14a7 7 0 00-7-7z"},
	{Name: "bell", Path: "M15 17h5l-1.405-1.405A2.032 2.032 0 0118 14.158V11a6.002 6.002 0 00-4-5.659V5a2 2 0 10-4 0v.341C7.67 6.165 6 8.388 6 11v3.159c0 .538-.214 1.055-.595 1.436L4 17h5m6 0v1a3 3 0 11-6 0v-1m6 0H9"},
}

// NewRegistry builds the builtin icon registry.
func NewRegistry() *Registry {
	icons := make(map[string]Icon, len(builtin))
	for _, icon := range builtin {
		icons[icon.Name] = icon
	}
	return &Registry{icons: icons}
}

// Lookup returns the icon for a name.
func (r *Registry) Lookup(name string) (Icon, bool) {
	icon, ok := r.icons[name]
	return icon, ok
}

// Names returns the registered icon names (unordered).
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.icons))
	for name := range r.icons {
		names = append(names, name)
	}
	return names
}

// SVG renders the icon as an inline SVG element. Size is the square pixel
// size; rotation is in degrees.
func (i Icon) SVG(size float64, rotation float64) string {
	if size <= 0 {
		size = 24
	}
	transform := ""
	if rotation != 0 {
		transform = fmt.Sprintf(` style="transform: rotate(%gdeg)"`, rotation)
	}
	if i.Fill {
		return fmt.Sprintf(
			`<svg width="%g" height="%g" viewBox="0 0 24 24" fill="currentColor"%s><path d="%s"/></svg>`,
			size, size, transform, i.Path)
	}
	return fmt.Sprintf(
		`<svg width="%g" height="%g" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"%s><path d="%s"/></svg>`,
		size, size, transform, i.Path)
}
