// Package word loads content trees from Word (.docx) documents.
package word

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/chrisuehlinger/selectron/dom"
	"github.com/fumiama/go-docx"
)

// Parse reads a .docx file and returns a DIV holding its blocks. Heading
// styles become H1-H6, numbered paragraphs become LI inside a UL and every
// other paragraph becomes a P. Paragraph justification is carried as an
// align attribute so it takes part in style detection.
func Parse(src []byte) (*dom.Node, error) {
	doc, err := docx.Parse(bytes.NewReader(src), int64(len(src)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	root := dom.NewElement("div")
	var list *dom.Node
	for _, item := range doc.Document.Body.Items {
		switch item := item.(type) {
		case *docx.Paragraph:
			block := paragraph(item)
			if !block.Is("li") {
				list = nil
				root.AppendChild(block)
				continue
			}
			if list == nil {
				list = dom.NewElement("ul")
				root.AppendChild(list)
			}
			list.AppendChild(block)
		case *docx.Table:
			list = nil
			root.AppendChild(table(item))
		}
	}
	return root, nil
}

// ParseReader reads all of r and parses it. See Parse.
func ParseReader(r io.Reader) (*dom.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(src)
}

func paragraph(p *docx.Paragraph) *dom.Node {
	tag := "p"
	if p.Properties != nil {
		switch {
		case headingLevel(p.Properties.Style) > 0:
			tag = fmt.Sprintf("h%d", headingLevel(p.Properties.Style))
		case p.Properties.NumProperties != nil:
			tag = "li"
		}
	}

	el := dom.NewElement(tag)
	if p.Properties != nil && p.Properties.Justification != nil {
		if align := textAlign(p.Properties.Justification.Val); align != "" {
			el.SetAttribute("align", align)
		}
	}
	for _, child := range p.Children {
		switch child := child.(type) {
		case *docx.Run:
			appendRun(el, child)
		case *docx.Hyperlink:
			a := dom.NewElement("a")
			appendRun(a, &child.Run)
			if a.HasChildNodes() {
				el.AppendChild(a)
			}
		}
	}
	return el
}

func table(t *docx.Table) *dom.Node {
	el := dom.NewElement("table")
	for _, row := range t.TableRows {
		tr := el.AppendChild(dom.NewElement("tr"))
		for _, cell := range row.TableCells {
			td := tr.AppendChild(dom.NewElement("td"))
			for _, p := range cell.Paragraphs {
				td.AppendChild(paragraph(p))
			}
			for _, nested := range cell.Tables {
				td.AppendChild(table(nested))
			}
		}
	}
	return el
}

// appendRun adds the content of a run to parent, wrapped in one element per
// character format the run carries.
func appendRun(parent *dom.Node, r *docx.Run) {
	target := parent
	if rp := r.RunProperties; rp != nil {
		if rp.Bold != nil {
			target = target.AppendChild(dom.NewElement("strong"))
		}
		if rp.Italic != nil {
			target = target.AppendChild(dom.NewElement("em"))
		}
		if rp.Strike != nil && rp.Strike.Val != "false" && rp.Strike.Val != "0" {
			target = target.AppendChild(dom.NewElement("del"))
		}
	}

	for _, c := range r.Children {
		switch c := c.(type) {
		case *docx.Text:
			appendText(target, c.Text)
		case *docx.Tab:
			appendText(target, "\t")
		case *docx.BarterRabbet:
			// page breaks separate pages, not lines
			if c.Type != "page" {
				target.AppendChild(dom.NewElement("br"))
			}
		}
	}

	// drop wrappers of runs that held no content
	for target != parent && !target.HasChildNodes() {
		up := target.ParentNode()
		up.RemoveChild(target)
		target = up
	}
}

func appendText(parent *dom.Node, s string) {
	if s == "" {
		return
	}
	if last := parent.LastChild(); last != nil && last.IsText() {
		last.SetData(last.Data() + s)
		return
	}
	parent.AppendChild(dom.NewText(s))
}

// headingLevel maps Word's built-in heading styles to levels 1-6, or 0.
func headingLevel(style *docx.Style) int {
	if style == nil {
		return 0
	}
	name := strings.ToLower(strings.ReplaceAll(style.Val, " ", ""))
	if len(name) != len("heading1") || !strings.HasPrefix(name, "heading") {
		return 0
	}
	if d := name[len(name)-1]; d >= '1' && d <= '6' {
		return int(d - '0')
	}
	return 0
}

func textAlign(justification string) string {
	switch justification {
	case "left", "start":
		return "left"
	case "right", "end":
		return "right"
	case "center":
		return "center"
	case "both", "distribute":
		return "justify"
	}
	return ""
}
