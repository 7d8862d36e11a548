package circuitjs

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	captionPolicyOnce sync.Once
	captionPolicy     *bluemonday.Policy
	captionMarkdown   = goldmark.New()
)

// renderCaption turns Markdown into sanitised HTML. goldmark already drops raw
// HTML; the policy also strips scripts, handlers and unsafe URLs that survive
// as links.
func renderCaption(markdown string) (string, error) {
	trimmed := strings.TrimSpace(markdown)
	if trimmed == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := captionMarkdown.Convert([]byte(trimmed), &buf); err != nil {
		return "", fmt.Errorf("convert caption markdown: %w", err)
	}
	return strings.TrimSpace(captionSanitizer().Sanitize(buf.String())), nil
}

func captionSanitizer() *bluemonday.Policy {
	captionPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		captionPolicy = policy
	})
	return captionPolicy
}
