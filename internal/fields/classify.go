package fields

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"docgen/internal/domain"
)

//go:embed options.yaml
var optionsYAML []byte

type optionTable struct {
	Order   []string            `yaml:"order"`
	Options map[string][]string `yaml:"options"`
	Generic []string            `yaml:"generic"`
}

var selectOptions = mustLoadOptions(optionsYAML)

func mustLoadOptions(data []byte) optionTable {
	var t optionTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		panic(fmt.Sprintf("fields: invalid options table: %v", err))
	}
	return t
}

// keyword rules, first match wins.
var (
	dateKeywords     = []string{"date", "time"}
	numberKeywords   = []string{"amount", "price", "number"}
	textareaKeywords = []string{"description", "content", "notes"}
	selectKeywords   = []string{"status", "type", "category"}
	requiredKeywords = []string{"name", "title", "id", "number"}
)

// Classify infers a field definition from a placeholder name. It is a pure
// function: the same name always yields the same definition.
func Classify(name string) domain.FieldDefinition {
	lower := strings.ToLower(name)
	def := domain.FieldDefinition{
		Name:        name,
		DisplayName: DisplayName(name),
		Type:        domain.FieldTypeText,
		Required:    containsAny(lower, requiredKeywords),
	}

	switch {
	case containsAny(lower, dateKeywords):
		def.Type = domain.FieldTypeDate
	case containsAny(lower, numberKeywords):
		def.Type = domain.FieldTypeNumber
	case containsAny(lower, textareaKeywords):
		def.Type = domain.FieldTypeTextarea
	case containsAny(lower, selectKeywords):
		def.Type = domain.FieldTypeSelect
		def.Options = optionsFor(lower)
	}
	return def
}

func optionsFor(lower string) []string {
	for _, kw := range selectOptions.Order {
		if strings.Contains(lower, kw) {
			if opts, ok := selectOptions.Options[kw]; ok {
				return append([]string(nil), opts...)
			}
		}
	}
	return append([]string(nil), selectOptions.Generic...)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// DisplayName turns a placeholder name into a label: camel-case boundaries,
// underscores, hyphens and dots become spaces and the first letter is
// capitalized.
// "clientName" → "Client Name", "HTTPStatus" → "HTTP Status".
func DisplayName(name string) string {
	runes := []rune(strings.TrimSpace(name))
	var sb strings.Builder
	for i, r := range runes {
		if r == '_' || r == '-' || r == '.' {
			sb.WriteRune(' ')
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune(r)
	}
	label := strings.Join(strings.Fields(sb.String()), " ")
	if label == "" {
		return label
	}
	first := []rune(label)
	first[0] = unicode.ToUpper(first[0])
	return string(first)
}
