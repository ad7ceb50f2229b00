// CLAUDE:SUMMARY HTML-to-markdown conversion with sanitization for extracted content.
package extract

import (
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

var (
	mdOnce      sync.Once
	mdConverter *converter.Converter
	mdSanitizer *bluemonday.Policy
)

func mdInit() {
	mdConverter = converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	mdSanitizer = bluemonday.UGCPolicy()
}

// ToMarkdown converts an extracted HTML fragment to markdown. The fragment
// is sanitized first so scripts and event handlers never reach the
// converter. If conversion fails or produces empty output, the fallback
// plain text is returned instead.
func ToMarkdown(htmlFragment, sourceURL, fallback string) string {
	if htmlFragment == "" {
		return fallback
	}
	mdOnce.Do(mdInit)

	clean := mdSanitizer.Sanitize(htmlFragment)
	result, err := mdConverter.ConvertString(clean, converter.WithDomain(sourceURL))
	if err != nil || strings.TrimSpace(result) == "" {
		return fallback
	}
	return strings.TrimSpace(result)
}
