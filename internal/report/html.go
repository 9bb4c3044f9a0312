package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// newEngine renders GFM tables and task lists. Raw HTML is never passed
// through, so values from the environment cannot inject markup.
func newEngine() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
}

// HTML renders the markdown report to an HTML fragment.
func (r Report) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := newEngine().Convert([]byte(r.Markdown()), &buf); err != nil {
		return nil, fmt.Errorf("report html: %w", err)
	}
	return buf.Bytes(), nil
}
