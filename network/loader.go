package network

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Resource is a loaded document or script.
type Resource struct {
	URL         string
	Content     []byte
	ContentType string // media type without parameters
	Charset     string
	StatusCode  int
	Cached      bool
}

// AsString returns the resource content as a string.
func (r *Resource) AsString() string {
	return string(r.Content)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLocalPath sets the directory relative paths are read from.
func WithLocalPath(path string) LoaderOption {
	return func(l *Loader) {
		l.localPath = path
	}
}

// WithCache replaces the loader's response cache.
func WithCache(cache *Cache) LoaderOption {
	return func(l *Loader) {
		l.cache = cache
	}
}

// WithLogger sets the logger for load events.
func WithLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.log = log
	}
}

// Loader loads resources from data URLs, the local filesystem or HTTP.
type Loader struct {
	client    *Client
	cache     *Cache
	localPath string
	log       *slog.Logger
}

// NewLoader creates a new resource loader.
func NewLoader(client *Client, opts ...LoaderOption) *Loader {
	l := &Loader{
		client: client,
		cache:  NewCache(100),
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads ref, which is a data URL, an http(s) or file URL, or a local
// path. Relative paths resolve against the loader's local path.
func (l *Loader) Load(ctx context.Context, ref string) (*Resource, error) {
	if IsDataURL(ref) {
		return l.loadDataURL(ref)
	}

	u, err := url.Parse(ref)
	if err != nil || !u.IsAbs() || len(u.Scheme) == 1 {
		// not a URL, or a Windows drive letter
		return l.loadFromLocal(ref, ref)
	}
	switch u.Scheme {
	case "file":
		return l.loadFromLocal(ref, u.Path)
	case "http", "https":
		return l.loadFromHTTP(ctx, ref)
	default:
		return nil, fmt.Errorf("load %s: unsupported scheme %q", ref, u.Scheme)
	}
}

func (l *Loader) loadDataURL(ref string) (*Resource, error) {
	dataURL, err := ParseDataURL(ref)
	if err != nil {
		return nil, err
	}
	return &Resource{
		URL:         ref,
		Content:     dataURL.Data,
		ContentType: dataURL.MediaType,
		Charset:     strings.ToLower(dataURL.Charset),
		StatusCode:  200,
	}, nil
}

func (l *Loader) loadFromLocal(ref, path string) (*Resource, error) {
	if !filepath.IsAbs(path) && l.localPath != "" {
		path = filepath.Join(l.localPath, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}
	l.log.Debug("loaded local resource", "path", path, "bytes", len(content))
	return &Resource{
		URL:         ref,
		Content:     content,
		ContentType: GuessContentType(path),
		StatusCode:  200,
	}, nil
}

func (l *Loader) loadFromHTTP(ctx context.Context, ref string) (*Resource, error) {
	key, err := NormalizeURL(ref)
	if err != nil {
		key = ref
	}
	if cached, ok := l.cache.Get(key); ok {
		l.log.Debug("serving cached resource", "url", ref)
		return l.resource(ref, cached, true), nil
	}

	resp, err := l.client.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, fmt.Errorf("load %s: HTTP %s", ref, resp.Status)
	}
	l.cache.Put(key, resp)
	l.log.Debug("fetched resource", "url", ref, "status", resp.StatusCode, "bytes", len(resp.Body))
	return l.resource(ref, resp, false), nil
}

func (l *Loader) resource(ref string, resp *Response, cached bool) *Resource {
	mediaType, charset := ParseContentType(resp.ContentType)
	if mediaType == "application/octet-stream" || mediaType == "text/plain" {
		// servers often mislabel markdown and scripts
		if guessed := GuessContentType(ref); guessed != "application/octet-stream" {
			mediaType = guessed
		}
	}
	return &Resource{
		URL:         ref,
		Content:     resp.Body,
		ContentType: mediaType,
		Charset:     charset,
		StatusCode:  resp.StatusCode,
		Cached:      cached,
	}
}

// ClearCache clears the loader's cache.
func (l *Loader) ClearCache() {
	l.cache.Clear()
}
