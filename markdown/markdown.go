// Package markdown loads content trees from Markdown using goldmark.
package markdown

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chrisuehlinger/selectron/dom"
	"github.com/chrisuehlinger/selectron/html"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Parse renders Markdown source and returns a DIV holding the resulting
// blocks. Paragraphs, headings and list items become section elements, and
// hard line breaks become BR elements.
func Parse(src []byte) (*dom.Node, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Strikethrough))

	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return html.ParseFragmentReader(&buf, html.ParseOptions{StripFormatting: true})
}

// ParseReader reads all Markdown from r and parses it. See Parse.
func ParseReader(r io.Reader) (*dom.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(src)
}
