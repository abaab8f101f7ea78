package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// buildPDF writes a minimal PDF with one page per entry of pages, drawing
// each line at its own vertical position.
func buildPDF(pages ...[]string) []byte {
	var objects []string
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	var kids []string
	for _, lines := range pages {
		pageID := len(objects) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageID))
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			pageID+1))

		var content strings.Builder
		content.WriteString("BT /F1 12 Tf\n")
		for i, line := range lines {
			fmt.Fprintf(&content, "1 0 0 1 72 %d Tm (%s) Tj\n", 720-20*i, line)
		}
		content.WriteString("ET")
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()))
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestParsePages(t *testing.T) {
	src := buildPDF([]string{"Hello world", "Second line"}, nil, []string{"Last"})
	root, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !root.Is("div") || root.ChildCount() != 3 {
		t.Fatalf("root = %v with %d pages, want DIV with 3", root, root.ChildCount())
	}

	tests := []struct {
		page  int
		lines []string
	}{
		{0, []string{"Hello world", "Second line"}},
		{1, nil},
		{2, []string{"Last"}},
	}
	for _, tt := range tests {
		page := root.ChildAt(tt.page)
		if got, want := page.GetAttribute("data-page"), fmt.Sprint(tt.page+1); got != want {
			t.Errorf("page %d: data-page = %q, want %q", tt.page, got, want)
		}
		var lines []string
		for _, p := range page.ChildNodes() {
			if !p.Is("p") || !p.IsSection() {
				t.Errorf("page %d: child %v, want P", tt.page, p)
			}
			lines = append(lines, p.TextContent())
		}
		if strings.Join(lines, "|") != strings.Join(tt.lines, "|") {
			t.Errorf("page %d: lines = %q, want %q", tt.page, lines, tt.lines)
		}
	}
}

func TestParseReader(t *testing.T) {
	root, err := ParseReader(bytes.NewReader(buildPDF([]string{"only"})))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	if got := root.TextContent(); got != "only" {
		t.Errorf("text = %q, want only", got)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
	}{
		{"not a pdf", []byte("plain text")},
		{"no trailer", []byte("%PDF-1.4\n" + strings.Repeat(" ", 120) + "\n%%EOF\n")},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.src); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
