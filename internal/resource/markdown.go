package resource

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// DescriptionKey is the markdown description field of a resource.
const DescriptionKey = "description"

// DescriptionHTMLKey holds the pre-rendered description.
const DescriptionHTMLKey = "descriptionHtml"

// NewMarkdown returns the markdown converter used for resource descriptions:
// GitHub tables, autolinks, and raw HTML passthrough, matching what the site
// renders for exported workspaces.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Linkify,
			extension.Strikethrough,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)
}

// WithDescriptionHTML returns a copy of r carrying descriptionHtml rendered
// from its markdown description. Resources without a non-empty string
// description are returned unchanged.
func (r Resource) WithDescriptionHTML(md goldmark.Markdown) (Resource, error) {
	v, ok := r.Get(DescriptionKey)
	if !ok {
		return r, nil
	}
	src, ok := v.(string)
	if !ok || src == "" {
		return r, nil
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return r, fmt.Errorf("rendering description: %w", err)
	}
	return r.With(DescriptionHTMLKey, buf.String()), nil
}
