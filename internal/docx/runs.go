package docx

import (
	"bytes"
	"html"
	"regexp"
	"strings"
)

var (
	paragraphPattern = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	textRunPattern   = regexp.MustCompile(`(?s)(<w:t(?:\s[^>]*)?>)(.*?)(</w:t>)`)
	markupPattern    = regexp.MustCompile(`<[^>]*>`)
)

const preserveOpen = `<w:t xml:space="preserve">`

// MergeSplitTokens rewrites every paragraph of a part so that placeholders
// split across adjacent text runs end up inside a single run. Authoring tools
// split a typed "{{name}}" into several runs when formatting or spell-check
// state changes mid-token. Runs outside a split placeholder are left untouched.
func MergeSplitTokens(part []byte) []byte {
	return paragraphPattern.ReplaceAllFunc(part, mergeParagraph)
}

func mergeParagraph(para []byte) []byte {
	locs := textRunPattern.FindAllSubmatchIndex(para, -1)
	if len(locs) < 2 {
		return para
	}

	texts := make([]string, len(locs))
	offsets := make([]int, len(locs))
	var joined strings.Builder
	for i, loc := range locs {
		offsets[i] = joined.Len()
		texts[i] = string(para[loc[4]:loc[5]])
		joined.WriteString(texts[i])
	}

	matches := PlaceholderPattern.FindAllStringIndex(joined.String(), -1)
	if len(matches) == 0 {
		return para
	}

	changed := make([]bool, len(locs))
	runAt := func(pos int) int {
		idx := 0
		for i := range offsets {
			if offsets[i] <= pos {
				idx = i
			}
		}
		return idx
	}

	// Walk backwards: a merge only appends to the first run of a token, so the
	// offsets of earlier tokens stay valid.
	for m := len(matches) - 1; m >= 0; m-- {
		start, end := matches[m][0], matches[m][1]
		first, last := runAt(start), runAt(end-1)
		if first == last {
			continue
		}
		cut := end - offsets[last]
		var sb strings.Builder
		sb.WriteString(texts[first])
		for k := first + 1; k < last; k++ {
			sb.WriteString(texts[k])
			texts[k] = ""
			changed[k] = true
		}
		sb.WriteString(texts[last][:cut])
		texts[first] = sb.String()
		texts[last] = texts[last][cut:]
		changed[first], changed[last] = true, true
	}

	var out bytes.Buffer
	prev := 0
	for i, loc := range locs {
		if !changed[i] {
			continue
		}
		out.Write(para[prev:loc[0]])
		out.WriteString(preserveOpen)
		out.WriteString(texts[i])
		out.WriteString("</w:t>")
		prev = loc[1]
	}
	out.Write(para[prev:])
	return out.Bytes()
}

// ParagraphTexts returns the unescaped text of every paragraph of a part,
// joining the paragraph's runs.
func ParagraphTexts(part []byte) []string {
	paras := paragraphPattern.FindAll(part, -1)
	out := make([]string, 0, len(paras))
	for _, para := range paras {
		var sb strings.Builder
		for _, m := range textRunPattern.FindAllSubmatch(para, -1) {
			sb.Write(m[2])
		}
		out = append(out, html.UnescapeString(sb.String()))
	}
	return out
}

// StripMarkup drops every tag from a part, keeping paragraph and break
// boundaries as newlines, and unescapes entities.
func StripMarkup(part []byte) string {
	s := string(part)
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = markupPattern.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}

// StripTags removes anything that looks like markup from s.
func StripTags(s string) string {
	return markupPattern.ReplaceAllString(s, "")
}
