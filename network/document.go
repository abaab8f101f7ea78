package network

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/chrisuehlinger/selectron/dom"
	"github.com/chrisuehlinger/selectron/html"
	"github.com/chrisuehlinger/selectron/markdown"
	"github.com/chrisuehlinger/selectron/pdf"
	"github.com/chrisuehlinger/selectron/word"
)

// DocumentLoader loads a content tree together with the scripts it embeds.
type DocumentLoader struct {
	loader *Loader
	opts   html.ParseOptions
}

// NewDocumentLoader creates a new document loader. opts apply to HTML
// documents; Markdown, Word and PDF documents never carry formatting
// whitespace.
func NewDocumentLoader(loader *Loader, opts html.ParseOptions) *DocumentLoader {
	return &DocumentLoader{
		loader: loader,
		opts:   opts,
	}
}

// LoadedDocument is a parsed document with its scripts taken out of the tree.
type LoadedDocument struct {
	URL string
	// Root is the document node for HTML and a wrapping DIV otherwise.
	Root *dom.Node
	// Body is the BODY element for HTML and Root otherwise.
	Body    *dom.Node
	Scripts []*LoadedScript
}

// LoadedScript is an inline or external script in document order.
type LoadedScript struct {
	URL     string // empty for inline scripts
	Content string
	Inline  bool
}

// Load loads and parses the document at ref. SCRIPT elements are removed
// from the tree so their source does not count as content.
func (dl *DocumentLoader) Load(ctx context.Context, ref string) (*LoadedDocument, error) {
	res, err := dl.loader.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	result := &LoadedDocument{URL: ref}
	switch FormatOf(res.ContentType) {
	case FormatHTML:
		if result.Root, err = html.ParseReader(bytes.NewReader(res.Content), dl.opts); err != nil {
			return nil, err
		}
		result.Body = html.Body(result.Root)
		if result.Body == nil {
			result.Body = result.Root
		}
	case FormatMarkdown:
		if result.Root, err = markdown.Parse(res.Content); err != nil {
			return nil, err
		}
		result.Body = result.Root
	case FormatWord:
		if result.Root, err = word.Parse(res.Content); err != nil {
			return nil, err
		}
		result.Body = result.Root
	case FormatPDF:
		if result.Root, err = pdf.Parse(res.Content); err != nil {
			return nil, err
		}
		result.Body = result.Root
	default:
		return nil, fmt.Errorf("load %s: unsupported content type %q", ref, res.ContentType)
	}

	if err := dl.loadScripts(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (dl *DocumentLoader) loadScripts(ctx context.Context, result *LoadedDocument) error {
	for _, el := range result.Root.Descendants() {
		if !el.Is("script") {
			continue
		}
		if t := el.GetAttribute("type"); t != "" && FormatOf(t) != FormatScript && t != "module" {
			continue
		}
		if parent := el.ParentNode(); parent != nil {
			parent.RemoveChild(el)
		}

		src := el.GetAttribute("src")
		if src == "" {
			result.Scripts = append(result.Scripts, &LoadedScript{
				Content: el.TextContent(),
				Inline:  true,
			})
			continue
		}

		scriptURL, err := resolveAgainst(result.URL, src)
		if err != nil {
			return err
		}
		res, err := dl.loader.Load(ctx, scriptURL)
		if err != nil {
			return fmt.Errorf("failed to load script %s: %w", src, err)
		}
		result.Scripts = append(result.Scripts, &LoadedScript{
			URL:     scriptURL,
			Content: res.AsString(),
		})
	}
	return nil
}

// resolveAgainst resolves src relative to the document reference, which may
// be a URL or a local path.
func resolveAgainst(docRef, src string) (string, error) {
	if IsAbsoluteURL(docRef) && !IsDataURL(docRef) {
		return ResolveURL(docRef, src)
	}
	if IsAbsoluteURL(src) || filepath.IsAbs(src) {
		return src, nil
	}
	return filepath.Join(filepath.Dir(docRef), src), nil
}

// LoadScript loads a standalone script, such as a check file passed next to
// a document.
func (dl *DocumentLoader) LoadScript(ctx context.Context, ref string) (*LoadedScript, error) {
	res, err := dl.loader.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &LoadedScript{URL: ref, Content: res.AsString()}, nil
}
