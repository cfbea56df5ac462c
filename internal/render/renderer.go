// Package render substitutes field values into docx templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"

	"docgen/internal/docx"
	"docgen/internal/domain"
)

const (
	// MaxValueLength caps a single substituted value, in characters.
	MaxValueLength = 10000
	// TruncationMarker is appended to values cut at MaxValueLength.
	TruncationMarker = "… [truncated]"
)

// bannedTags would let an uploaded template read files from the server.
var bannedTags = []string{"include", "import", "extends", "ssi"}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n", `\r\n`, "\n", `\n`, "\n")

// openBrace writes a literal "{" without letting the engine see a tag opener.
const openBrace = "{% templatetag openbrace %}"

// no template is ever loaded by name
var emptyFS embed.FS

// Renderer renders {{field}} placeholders in the text parts of a package
// using a sandboxed pongo2 template set.
type Renderer struct {
	set *pongo2.TemplateSet
}

// New creates a Renderer.
func New() (*Renderer, error) {
	set := pongo2.NewSet("docgen", pongo2.NewFSLoader(emptyFS))
	for _, tag := range bannedTags {
		if err := set.BanTag(tag); err != nil {
			return nil, fmt.Errorf("render: ban tag %q: %w", tag, err)
		}
	}
	return &Renderer{set: set}, nil
}

// Render returns a copy of the template package with every placeholder
// replaced by its value. The trimmed text between the braces is the field
// name, whatever characters it holds. Missing values render as empty
// strings; keys with no matching placeholder are ignored. Failures are *domain.RenderError.
func (r *Renderer) Render(tpl []byte, values domain.FieldValues) ([]byte, error) {
	p, err := r.prepare(tpl)
	if err != nil {
		return nil, err
	}
	return p.execute(values)
}

// Check compiles every text part of the template without executing it.
func (r *Renderer) Check(tpl []byte) error {
	_, err := r.prepare(tpl)
	return err
}

type prepared struct {
	pkg   *docx.Package
	order []string
	parts map[string]*compiledPart
}

// compiledPart is one text part in engine form. Placeholder i of the part
// is bound to the variable slotName(i) and reads the value of slots[i].
type compiledPart struct {
	tpl   *pongo2.Template
	slots []string
}

func (r *Renderer) prepare(tpl []byte) (*prepared, error) {
	pkg, err := docx.Open(tpl)
	if err != nil {
		return nil, &domain.RenderError{Err: err}
	}
	names := pkg.TextParts()
	if len(names) == 0 {
		return nil, &domain.RenderError{Err: fmt.Errorf("%w: %s", docx.ErrPartNotFound, docx.DocumentPart)}
	}

	p := &prepared{pkg: pkg, parts: make(map[string]*compiledPart, len(names))}
	for _, name := range names {
		data, err := pkg.Read(name)
		if err != nil {
			return nil, &domain.RenderError{Part: name, Err: err}
		}
		if !bytes.Contains(data, []byte("{{")) {
			continue
		}
		src, slots := engineSource(docx.MergeSplitTokens(data))
		if len(slots) == 0 {
			continue
		}
		t, err := r.set.FromBytes(src)
		if err != nil {
			return nil, &domain.RenderError{Part: name, Err: err}
		}
		p.order = append(p.order, name)
		p.parts[name] = &compiledPart{tpl: t, slots: slots}
	}
	return p, nil
}

// engineSource rewrites a part for the engine. Each placeholder becomes a
// generated variable, so names are never parsed as expressions. Every other
// "{" that could open a tag, variable or comment is written out literally.
// Values are escaped for XML before they reach the engine, so the engine's
// own HTML escaping is switched off for the whole part.
func engineSource(data []byte) ([]byte, []string) {
	var out bytes.Buffer
	out.Grow(len(data) + 64)
	out.WriteString("{% autoescape off %}")

	var slots []string
	index := make(map[string]int)
	prev := 0
	for _, loc := range docx.PlaceholderPattern.FindAllSubmatchIndex(data, -1) {
		body := data[loc[2]:loc[3]]
		// a token spanning markup was not merged into one run
		if bytes.IndexByte(body, '<') >= 0 {
			continue
		}
		name := docx.PlaceholderName(html.UnescapeString(string(body)))
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(slots)
			index[name] = i
			slots = append(slots, name)
		}
		writeLiteral(&out, data[prev:loc[0]])
		out.WriteString("{{ ")
		out.WriteString(slotName(i))
		out.WriteString(" }}")
		prev = loc[1]
	}
	writeLiteral(&out, data[prev:])

	out.WriteString("{% endautoescape %}")
	return out.Bytes(), slots
}

// writeLiteral copies text, replacing each "{" that precedes "{", "%" or "#"
// or ends the text. Whatever is written next always starts with "{".
func writeLiteral(out *bytes.Buffer, text []byte) {
	for i, c := range text {
		if c == '{' && (i == len(text)-1 || strings.IndexByte("{%#", text[i+1]) >= 0) {
			out.WriteString(openBrace)
			continue
		}
		out.WriteByte(c)
	}
}

func slotName(i int) string {
	return "field" + strconv.Itoa(i)
}

func (p *prepared) execute(values domain.FieldValues) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = &domain.RenderError{Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	content := make(map[string]string)
	replace := make(map[string][]byte, len(p.order))
	for _, name := range p.order {
		part := p.parts[name]
		ctx := make(pongo2.Context, len(part.slots))
		for i, field := range part.slots {
			v, ok := content[field]
			if !ok {
				v = RunContent(values.ValueOf(field))
				content[field] = v
			}
			ctx[slotName(i)] = pongo2.AsSafeValue(v)
		}
		rendered, err := part.tpl.ExecuteBytes(ctx)
		if err != nil {
			return nil, &domain.RenderError{Part: name, Err: err}
		}
		replace[name] = rendered
	}
	data, err := p.pkg.Bytes(replace)
	if err != nil {
		return nil, &domain.RenderError{Err: err}
	}
	return data, nil
}

// RunContent turns a value into run content: normalized, capped, XML-escaped
// and with its newlines turned into run breaks.
func RunContent(v string) string {
	return docx.TextToRunContent(PrepareValue(v))
}

// PrepareValue normalizes every line-break variant (CRLF, CR and the escaped
// "\n" sequence) to a newline and truncates values longer than
// MaxValueLength characters.
func PrepareValue(v string) string {
	v = lineBreaks.Replace(v)
	runes := []rune(v)
	if len(runes) > MaxValueLength {
		return string(runes[:MaxValueLength]) + TruncationMarker
	}
	return v
}
