package notify

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// RenderMarkdown converts markdown to HTML. Raw HTML in the source is
// omitted by goldmark's default renderer.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
