// Package preview produces an HTML preview of a filled template. The
// pipeline tries progressively simpler strategies and always returns
// something displayable.
package preview

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"docgen/internal/docx"
	"docgen/internal/domain"
	"docgen/internal/port"
)

// Stage names a preview strategy.
type Stage string

const (
	StageRendered    Stage = "rendered"
	StageHighlighted Stage = "highlighted"
	StageFieldList   Stage = "field-list"
)

// StageFailure records why a strategy was skipped.
type StageFailure struct {
	Stage Stage  `json:"stage"`
	Error string `json:"error"`
}

// Result is the outcome of a preview. HTML is never empty.
type Result struct {
	HTML     string         `json:"html"`
	Stage    Stage          `json:"stage"`
	Failures []StageFailure `json:"failures,omitempty"`
}

// Outcome is what a single strategy produced: HTML on success, Err otherwise.
type Outcome struct {
	HTML string
	Err  error
}

// Input carries everything a strategy may need.
type Input struct {
	Template []byte
	Fields   []domain.FieldDefinition
	Values   domain.FieldValues
}

// Strategy is one way of producing a preview.
type Strategy struct {
	Stage Stage
	Run   func(in Input) Outcome
}

// Pipeline runs strategies in order and falls back to a field list.
type Pipeline struct {
	strategies []Strategy
	policy     *bluemonday.Policy
}

// NewPipeline creates the standard pipeline: rendered, then highlighted,
// then the field list.
func NewPipeline(renderer port.Renderer) *Pipeline {
	p := &Pipeline{policy: newPolicy()}
	p.strategies = []Strategy{
		{Stage: StageRendered, Run: renderedStrategy(renderer)},
		{Stage: StageHighlighted, Run: highlightedStrategy},
	}
	return p
}

// NewPipelineWith creates a pipeline from explicit strategies. The field
// list is always appended as the final stage.
func NewPipelineWith(strategies ...Strategy) *Pipeline {
	return &Pipeline{strategies: strategies, policy: newPolicy()}
}

// Preview never fails: when every strategy fails the field list is returned
// with a banner.
func (p *Pipeline) Preview(tpl []byte, fields []domain.FieldDefinition, values domain.FieldValues) Result {
	in := Input{Template: tpl, Fields: fields, Values: values}
	var failures []StageFailure
	for _, s := range p.strategies {
		out := run(s, in)
		if out.Err == nil && strings.TrimSpace(out.HTML) == "" {
			out.Err = fmt.Errorf("empty output")
		}
		if out.Err != nil {
			logrus.Debugf("preview.Preview: stage %s failed: %v", s.Stage, out.Err)
			failures = append(failures, StageFailure{Stage: s.Stage, Error: out.Err.Error()})
			continue
		}
		return Result{HTML: p.policy.Sanitize(out.HTML), Stage: s.Stage, Failures: failures}
	}
	return Result{HTML: FieldList(fields, values), Stage: StageFieldList, Failures: failures}
}

func run(s Strategy, in Input) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out = Outcome{Err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	return s.Run(in)
}

func renderedStrategy(renderer port.Renderer) func(Input) Outcome {
	return func(in Input) Outcome {
		filled, err := renderer.Render(in.Template, in.Values)
		if err != nil {
			return Outcome{Err: err}
		}
		out, err := docx.ToHTML(filled)
		if err != nil {
			return Outcome{Err: &domain.ConversionError{Err: err}}
		}
		return Outcome{HTML: out}
	}
}

func highlightedStrategy(in Input) Outcome {
	out, err := docx.ToHTML(in.Template)
	if err != nil {
		return Outcome{Err: &domain.ConversionError{Err: err}}
	}
	return Outcome{HTML: Highlight(out, in.Values)}
}

// Highlight replaces each placeholder in an HTML fragment with a span:
// field-filled holding the value when one is set, field-empty showing the
// raw token otherwise.
func Highlight(fragment string, values domain.FieldValues) string {
	return docx.PlaceholderPattern.ReplaceAllStringFunc(fragment, func(tok string) string {
		// braces survive HTML escaping, but a token may carry run markup
		text := html.UnescapeString(docx.StripTags(tok))
		name := docx.PlaceholderName(text[2 : len(text)-2])
		if name == "" {
			return tok
		}
		if v := values.ValueOf(name); strings.TrimSpace(v) != "" {
			return `<span class="field-filled">` + escapeMultiline(v) + `</span>`
		}
		return `<span class="field-empty">` + html.EscapeString(text) + `</span>`
	})
}

// FieldList renders every field and value as a definition list under an
// unavailable banner. Catalog fields come first, then any extra value keys.
func FieldList(fields []domain.FieldDefinition, values domain.FieldValues) string {
	var b strings.Builder
	b.WriteString(`<div class="preview-unavailable"><p><strong>Preview unavailable</strong></p>`)
	b.WriteString(`<p>The document could not be rendered. Field values are listed below.</p></div>`)
	b.WriteString("<dl>")

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		seen[f.Name] = true
		label := f.DisplayName
		if label == "" {
			label = f.Name
		}
		writeEntry(&b, label, values.ValueOf(f.Name))
	}
	for _, k := range values.Keys() {
		if seen[k] {
			continue
		}
		writeEntry(&b, k, values.ValueOf(k))
	}
	b.WriteString("</dl>")
	return b.String()
}

func writeEntry(b *strings.Builder, label, value string) {
	b.WriteString("<dt>")
	b.WriteString(html.EscapeString(label))
	b.WriteString("</dt><dd>")
	if value == "" {
		b.WriteString("<em>(empty)</em>")
	} else {
		b.WriteString(escapeMultiline(value))
	}
	b.WriteString("</dd>")
}

func escapeMultiline(v string) string {
	v = strings.ReplaceAll(strings.ReplaceAll(v, "\r\n", "\n"), "\r", "\n")
	return strings.ReplaceAll(html.EscapeString(v), "\n", "<br/>")
}

var spanClassPattern = regexp.MustCompile(`^field-(filled|empty)$`)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(spanClassPattern).OnElements("span")
	return p
}
