// Package html loads content trees from HTML using golang.org/x/net/html as
// the underlying parser implementation.
package html

import (
	"fmt"
	"io"
	"strings"

	"github.com/chrisuehlinger/selectron/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseOptions controls how parsed markup is converted into a content tree.
type ParseOptions struct {
	// StripFormatting drops whitespace-only text nodes that contain a line
	// break. Source indentation between block elements would otherwise count
	// as content when offsets are computed.
	StripFormatting bool
}

// Parse parses an HTML document and returns its document node.
func Parse(htmlContent string) (*dom.Node, error) {
	return ParseReader(strings.NewReader(htmlContent), ParseOptions{})
}

// ParseReader parses an HTML document from an io.Reader.
func ParseReader(r io.Reader, opts ParseOptions) (*dom.Node, error) {
	netNode, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := dom.NewDocument()
	convertChildren(doc, netNode, opts)
	return doc, nil
}

// ParseFragment parses an HTML fragment in the context of a body DIV and
// returns that DIV holding the parsed nodes.
func ParseFragment(fragment string) (*dom.Node, error) {
	return ParseFragmentReader(strings.NewReader(fragment), ParseOptions{})
}

// ParseFragmentReader parses an HTML fragment from a reader. See ParseFragment.
func ParseFragmentReader(r io.Reader, opts ParseOptions) (*dom.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("parse html fragment: %w", err)
	}
	root := dom.NewElement("div")
	for _, n := range nodes {
		if c := convertNode(n, opts); c != nil {
			root.AppendChild(c)
		}
	}
	return root, nil
}

// Body returns the BODY element of a parsed document, or nil.
func Body(doc *dom.Node) *dom.Node {
	for _, n := range doc.Descendants() {
		if n.Is("body") {
			return n
		}
	}
	return nil
}

// convertNode converts a golang.org/x/net/html node into a content node.
// Comments, doctypes and formatting whitespace (when stripped) yield nil.
func convertNode(n *html.Node, opts ParseOptions) *dom.Node {
	switch n.Type {
	case html.TextNode:
		if opts.StripFormatting && isFormattingWhitespace(n.Data) {
			return nil
		}
		return dom.NewText(n.Data)
	case html.ElementNode:
		el := dom.NewElement(n.Data)
		for _, a := range n.Attr {
			el.SetAttribute(a.Key, a.Val)
		}
		convertChildren(el, n, opts)
		return el
	default:
		return nil
	}
}

func convertChildren(parent *dom.Node, n *html.Node, opts ParseOptions) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := convertNode(c, opts); child != nil {
			parent.AppendChild(child)
		}
	}
}

func isFormattingWhitespace(s string) bool {
	return strings.TrimSpace(s) == "" && strings.ContainsAny(s, "\n\r")
}
