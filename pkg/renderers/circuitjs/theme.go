package circuitjs

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

type themeContext struct {
	Name    string
	Variant string
	CSS     string
}

// buildThemeContext scopes the theme's CSS custom properties to one circuit
// container. Tokens without an explicit CSS var are exposed as --<token>.
func buildThemeContext(cfg *theme.RendererConfig, uid string) themeContext {
	if cfg == nil {
		return themeContext{}
	}
	vars := make(map[string]string, len(cfg.CSSVars)+len(cfg.Tokens))
	for key, value := range cfg.Tokens {
		vars["--"+strings.TrimPrefix(key, "--")] = value
	}
	for key, value := range cfg.CSSVars {
		vars[key] = value
	}
	selector := fmt.Sprintf(`.circuitview[data-circuitview-uid="%s"]`, uid)
	return themeContext{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		CSS:     cssVarsStyle(selector, vars),
	}
}

func cssVarsStyle(selector string, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for key, value := range vars {
		if !safeCSSToken(key) || !safeCSSToken(value) || !strings.HasPrefix(key, "--") {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(vars[key]))
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// safeCSSToken rejects anything that could close the declaration or the
// surrounding style element.
func safeCSSToken(s string) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed != "" && !strings.ContainsAny(trimmed, "<>{};\\")
}
