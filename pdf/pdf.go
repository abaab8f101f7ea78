// Package pdf loads content trees from the text layer of PDF files.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chrisuehlinger/selectron/dom"
	pdflib "github.com/ledongthuc/pdf"
)

// Parse extracts the text of a PDF and returns a DIV holding one DIV per
// page. Each page holds a P for every row of text, top to bottom. Pages
// without text are kept empty so page numbers stay aligned with the file.
func Parse(src []byte) (root *dom.Node, err error) {
	// the reader panics on some malformed input
	defer func() {
		if r := recover(); r != nil {
			root, err = nil, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(src), int64(len(src)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	root = dom.NewElement("div")
	for i := 1; i <= reader.NumPage(); i++ {
		page := root.AppendChild(dom.NewElement("div"))
		page.SetAttribute("data-page", strconv.Itoa(i))

		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("parse pdf: page %d: %w", i, err)
		}
		for _, row := range rows {
			var line strings.Builder
			for _, text := range row.Content {
				line.WriteString(text.S)
			}
			if s := strings.TrimSpace(line.String()); s != "" {
				page.AppendChild(dom.NewElement("p", dom.NewText(s)))
			}
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
