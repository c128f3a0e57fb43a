package renderer

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode"
)

// unitless lists CSS properties whose numeric values are emitted without a
// px suffix. Everything else gets px appended, matching what template authors
// coming from the editor expect (they write {"padding": 16}).
var unitless = map[string]bool{
	"opacity":      true,
	"z-index":      true,
	"flex-grow":    true,
	"flex-shrink":  true,
	"font-weight":  true,
	"line-height":  true,
	"flex":         true,
	"order":        true,
	"aspect-ratio": true,
}

// styleAttr builds an inline style attribute from base styles and the
// element's style map. Element styles override base styles key by key; every
// key is passed through verbatim apart from camelCase-to-kebab-case
// conversion, with no validation.
func styleAttr(base map[string]any, overrides map[string]any) string {
	if len(base) == 0 && len(overrides) == 0 {
		return ""
	}
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[camelToKebab(k)] = styleValue(camelToKebab(k), v)
	}
	for k, v := range overrides {
		if v == nil {
			continue
		}
		merged[camelToKebab(k)] = styleValue(camelToKebab(k), v)
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(merged[k])
	}
	return fmt.Sprintf(` style="%s"`, html.EscapeString(b.String()))
}

func styleValue(key string, v any) string {
	switch n := v.(type) {
	case float64:
		if unitless[key] {
			return fmt.Sprintf("%g", n)
		}
		return fmt.Sprintf("%gpx", n)
	case int:
		if unitless[key] {
			return fmt.Sprintf("%d", n)
		}
		return fmt.Sprintf("%dpx", n)
	case string:
		return n
	case bool:
		return fmt.Sprintf("%t", n)
	default:
		return fmt.Sprintf("%v", n)
	}
}

// camelToKebab converts style keys like "backgroundColor" to
// "background-color". Keys already containing dashes pass through.
func camelToKebab(key string) string {
	var b strings.Builder
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
