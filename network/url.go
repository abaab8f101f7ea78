package network

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ResolveURL resolves ref against base. Absolute and data URLs are returned
// unchanged, and an empty ref resolves to base.
func ResolveURL(base, ref string) (string, error) {
	if ref == "" {
		return base, nil
	}
	if IsDataURL(ref) {
		return ref, nil
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference URL: %w", err)
	}
	if refURL.IsAbs() {
		return refURL.String(), nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

var defaultPorts = map[string]string{"http": "80", "https": "443"}

// NormalizeURL returns the cache key of a URL: scheme and host lower-cased,
// default port and fragment dropped, query parameters sorted.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port := u.Port(); port != "" && port != defaultPorts[u.Scheme] {
		host += ":" + port
	}
	u.Host = host
	u.Fragment = ""
	if u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
	}
	return u.String(), nil
}

// IsAbsoluteURL returns true if the URL has a scheme.
func IsAbsoluteURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && u.IsAbs()
}

// IsDataURL returns true if the URL is a data URL.
func IsDataURL(rawURL string) bool {
	return len(rawURL) >= 5 && strings.EqualFold(rawURL[:5], "data:")
}

// DataURL is a decoded data URL.
type DataURL struct {
	MediaType string
	Charset   string
	Base64    bool
	Data      []byte
}

// ParseDataURL decodes a URL of the form data:[<mediatype>][;base64],<data>.
// The media type defaults to text/plain and the charset to US-ASCII.
func ParseDataURL(rawURL string) (*DataURL, error) {
	if !IsDataURL(rawURL) {
		return nil, errors.New("not a data URL")
	}
	meta, data, found := strings.Cut(rawURL[5:], ",")
	if !found {
		return nil, errors.New("invalid data URL: missing comma")
	}

	result := &DataURL{MediaType: "text/plain", Charset: "US-ASCII"}
	meta, result.Base64 = strings.CutSuffix(meta, ";base64")
	params := strings.Split(meta, ";")
	if mt := params[0]; mt != "" && !strings.Contains(mt, "=") {
		result.MediaType = strings.ToLower(mt)
	}
	for _, p := range params[1:] {
		if k, v, ok := strings.Cut(p, "="); ok && strings.EqualFold(k, "charset") {
			result.Charset = v
		}
	}

	var err error
	if result.Base64 {
		result.Data, err = base64.StdEncoding.DecodeString(data)
	} else {
		var s string
		s, err = url.PathUnescape(data)
		result.Data = []byte(s)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid data URL payload: %w", err)
	}
	return result, nil
}

// contentTypes maps lower-cased file extensions to media types.
var contentTypes = map[string]string{
	".html":     "text/html",
	".htm":      "text/html",
	".xhtml":    "text/html",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".docx":     WordContentType,
	".pdf":      "application/pdf",
	".js":       "text/javascript",
	".mjs":      "text/javascript",
	".txt":      "text/plain",
}

// GuessContentType guesses the media type of a URL or local path from its
// extension, falling back to application/octet-stream.
func GuessContentType(ref string) string {
	p := ref
	if u, err := url.Parse(ref); err == nil && u.IsAbs() && len(u.Scheme) > 1 {
		p = u.Path
	}
	if ct, ok := contentTypes[strings.ToLower(path.Ext(p))]; ok {
		return ct
	}
	return "application/octet-stream"
}
