package docx

import (
	"regexp"
	"strings"
)

// PlaceholderPattern matches a {{name}} token. Names cannot contain braces,
// so "{{ a {{ b }}" matches only "{{ b }}".
var PlaceholderPattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// PlaceholderName returns the field name held by a captured token body:
// embedded markup and surrounding whitespace are removed. Any other text is
// kept verbatim, so "client-name", "Client Name" and "client.name" are all
// names. It returns "" when nothing is left.
func PlaceholderName(body string) string {
	return strings.TrimSpace(StripTags(body))
}
