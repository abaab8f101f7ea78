package network

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/chrisuehlinger/selectron/html"
	"github.com/fumiama/go-docx"
)

func TestDocumentLoaderHTMLScripts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/docs/page.html":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<!DOCTYPE html><html><head><script src="setup.js"></script></head>` +
				`<body><p>Hello</p><script>var inline = 1;</script><script type="text/template">skip</script></body></html>`))
		case "/docs/setup.js":
			w.Header().Set("Content-Type", "application/javascript")
			w.Write([]byte("var external = 1;"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	dl := NewDocumentLoader(newTestLoader(t), html.ParseOptions{})
	doc, err := dl.Load(context.Background(), server.URL+"/docs/page.html")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(doc.Scripts) != 2 {
		t.Fatalf("got %d scripts, want 2", len(doc.Scripts))
	}
	if doc.Scripts[0].URL != server.URL+"/docs/setup.js" || doc.Scripts[0].Content != "var external = 1;" {
		t.Errorf("external script = %+v", doc.Scripts[0])
	}
	if !doc.Scripts[1].Inline || doc.Scripts[1].Content != "var inline = 1;" {
		t.Errorf("inline script = %+v", doc.Scripts[1])
	}

	if !doc.Body.Is("body") {
		t.Fatalf("Body = %v, want BODY", doc.Body)
	}
	// scripts are removed from the content tree, other SCRIPT types stay
	if got := doc.Body.TextContent(); got != "Helloskip" {
		t.Errorf("body text = %q, want %q", got, "Helloskip")
	}
}

func TestDocumentLoaderMarkdown(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "notes.md")
	if err := os.WriteFile(path, []byte("# Title\n\nSome *text*.\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	dl := NewDocumentLoader(newTestLoader(t), html.ParseOptions{})
	doc, err := dl.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Root != doc.Body {
		t.Error("markdown Body should be the root")
	}
	if n := doc.Root.ChildCount(); n != 2 {
		t.Errorf("root has %d children, want 2", n)
	}
	if h1 := doc.Root.FirstChild(); h1 == nil || !h1.Is("h1") {
		t.Errorf("first block = %v, want H1", h1)
	}
}

func TestDocumentLoaderWord(t *testing.T) {
	f := docx.New().WithDefaultTheme()
	f.AddParagraph().Style("Heading1").AddText("Report")
	f.AddParagraph().AddText("Body text")
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	dl := NewDocumentLoader(newTestLoader(t), html.ParseOptions{})
	doc, err := dl.Load(context.Background(), server.URL+"/report.docx")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Root != doc.Body {
		t.Error("word Body should be the root")
	}
	if h1 := doc.Root.FirstChild(); h1 == nil || !h1.Is("h1") || h1.TextContent() != "Report" {
		t.Errorf("first block = %v, want H1 Report", h1)
	}
	if got := doc.Root.TextContent(); got != "ReportBody text" {
		t.Errorf("text = %q", got)
	}
}

func TestDocumentLoaderRelativeScript(t *testing.T) {
	tmpDir := t.TempDir()
	files := map[string]string{
		"page.html":       `<p>x</p><script src="checks/a.js"></script>`,
		"checks/a.js":     "var a = 1;",
		"unsupported.bin": "x",
	}
	for name, content := range files {
		p := filepath.Join(tmpDir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	dl := NewDocumentLoader(newTestLoader(t), html.ParseOptions{})
	doc, err := dl.Load(context.Background(), filepath.Join(tmpDir, "page.html"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Scripts) != 1 || doc.Scripts[0].Content != "var a = 1;" {
		t.Errorf("scripts = %+v", doc.Scripts)
	}

	if _, err := dl.Load(context.Background(), filepath.Join(tmpDir, "unsupported.bin")); err == nil {
		t.Error("expected error for unsupported content type")
	}
}
