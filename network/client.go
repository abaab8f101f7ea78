// Package network fetches documents and check scripts over HTTP or from the
// local filesystem.
package network

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Client is an HTTP client with cookie support.
type Client struct {
	httpClient   *http.Client
	cookieJar    http.CookieJar
	timeout      time.Duration
	maxRedirects int
	maxBodySize  int64
	userAgent    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxRedirects sets the maximum number of redirects to follow.
func WithMaxRedirects(n int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = n
	}
}

// WithMaxBodySize limits how many bytes of a response body are read.
func WithMaxBodySize(n int64) ClientOption {
	return func(c *Client) {
		c.maxBodySize = n
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTransport replaces the HTTP transport, mainly for tests.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts ...ClientOption) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{
		PublicSuffixList: publicsuffix.List,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		httpClient:   &http.Client{Jar: jar},
		cookieJar:    jar,
		timeout:      30 * time.Second,
		maxRedirects: 10,
		maxBodySize:  32 << 20,
		userAgent:    "selectron/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient.Timeout = c.timeout
	c.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= c.maxRedirects {
			return fmt.Errorf("stopped after %d redirects", c.maxRedirects)
		}
		return nil
	}
	return c, nil
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode  int
	Status      string
	Headers     http.Header
	Body        []byte
	ContentType string
	URL         *url.URL // final URL after redirects
}

const acceptHeader = "text/html, text/markdown, " + WordContentType + ", application/pdf, " +
	"text/javascript;q=0.9, */*;q=0.8"

// Get performs an HTTP GET request and reads the whole body.
func (c *Client) Get(ctx context.Context, urlStr string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	body, err := io.ReadAll(io.LimitReader(reader, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("response body exceeds %d bytes", c.maxBodySize)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		Headers:     resp.Header,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         resp.Request.URL,
	}, nil
}

// Cookies returns the cookies the client would send to u.
func (c *Client) Cookies(u *url.URL) []*http.Cookie {
	return c.cookieJar.Cookies(u)
}

// ParseContentType parses a Content-Type header and returns the lower-cased
// media type and charset. An empty header is application/octet-stream.
func ParseContentType(contentType string) (mediaType string, charset string) {
	if strings.TrimSpace(contentType) == "" {
		return "application/octet-stream", ""
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// keep what precedes the parameters of a malformed header
		mediaType, _, _ = strings.Cut(contentType, ";")
		return strings.ToLower(strings.TrimSpace(mediaType)), ""
	}
	return mediaType, strings.ToLower(params["charset"])
}

// WordContentType is the media type of .docx documents.
const WordContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Format is the kind of content a resource holds.
type Format int

const (
	FormatUnknown Format = iota
	FormatHTML
	FormatMarkdown
	FormatWord
	FormatPDF
	FormatScript
)

var formats = map[string]Format{
	"text/html":                FormatHTML,
	"application/xhtml+xml":    FormatHTML,
	"text/markdown":            FormatMarkdown,
	"text/x-markdown":          FormatMarkdown,
	WordContentType:            FormatWord,
	"application/pdf":          FormatPDF,
	"text/javascript":          FormatScript,
	"application/javascript":   FormatScript,
	"application/x-javascript": FormatScript,
}

// FormatOf classifies a Content-Type header.
func FormatOf(contentType string) Format {
	mediaType, _ := ParseContentType(contentType)
	return formats[mediaType]
}

func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatMarkdown:
		return "markdown"
	case FormatWord:
		return "word"
	case FormatPDF:
		return "pdf"
	case FormatScript:
		return "script"
	default:
		return "unknown"
	}
}
