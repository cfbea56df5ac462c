package preview

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// Markdown converts a preview HTML fragment to Markdown.
func Markdown(fragment string) (string, error) {
	md, err := mdConverter.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("preview.Markdown: %w", err)
	}
	return md, nil
}
