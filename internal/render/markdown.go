// Package render turns stored record descriptions into terminal output
package render

import (
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"

	"github.com/KirkDiggler/lorelegacy/internal/errors"
)

// Renderer sanitizes description HTML and converts it to Markdown.
// Only the elements the formatter emits survive sanitizing.
type Renderer struct {
	policy    *bluemonday.Policy
	converter *converter.Converter
}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("section", "p", "strong", "em", "br", "ul", "ol", "li")

	return &Renderer{
		policy: policy,
		converter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// Sanitize strips every element and attribute a description should not carry
func (r *Renderer) Sanitize(description string) string {
	return r.policy.Sanitize(description)
}

// Markdown converts a description to Markdown for a terminal. The converter
// keeps "<" and ">" as entities; they are decoded since the output is never
// parsed as HTML again.
func (r *Renderer) Markdown(description string) (string, error) {
	md, err := r.converter.ConvertString(r.Sanitize(description))
	if err != nil {
		return "", errors.Wrap(err, "failed to convert description to markdown")
	}
	return html.UnescapeString(strings.TrimSpace(md)), nil
}
