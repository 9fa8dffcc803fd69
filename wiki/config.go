package wiki

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds how long a fetch waits for a terminal outcome.
	DefaultTimeout = 5 * time.Second

	// DefaultRedirects is the redirect budget of one logical fetch: the
	// maximum number of GETs issued before the fetch fails with
	// ErrTooManyRedirects.
	DefaultRedirects = 2

	// DefaultUserAgent identifies the client to Wikimedia servers.
	DefaultUserAgent = "wikigraph-mcp-server/1.0 (https://github.com/olgasafonova/wikigraph-mcp-server)"
)

// Config holds the settings a Client is built from. Build it once, validate
// headers through AddHeader, then hand it to NewClient; the client copies
// what it needs and the config is not consulted again.
type Config struct {
	// Language selects the Wikipedia edition requests go to.
	Language Language

	// Timeout bounds one logical fetch. Zero means wait indefinitely.
	Timeout time.Duration

	// Kind is the default request kind used by Get and fetch helpers.
	Kind RequestKind

	// Redirects is the redirect budget per logical fetch.
	Redirects int

	// UserAgent is sent on every request unless overridden via AddHeader.
	UserAgent string

	// BaseURL overrides the per-language Wikipedia host. Tests and private
	// MediaWiki mirrors point this at their own server; empty means the
	// real per-language wikipedia.org domains.
	BaseURL string

	headers []Header
}

// Header is one validated request header.
type Header struct {
	Name  string
	Value string
}

// NewConfig returns a config with conservative defaults for the given
// language edition.
func NewConfig(lang Language) *Config {
	return &Config{
		Language:  lang,
		Timeout:   DefaultTimeout,
		Kind:      LinksAPI,
		Redirects: DefaultRedirects,
		UserAgent: DefaultUserAgent,
	}
}

// AddHeader validates and records a request header. Duplicate names are
// rejected, as are names or values that are not legal HTTP tokens. Returns
// a HeaderError before any request is sent.
func (c *Config) AddHeader(name, value string) error {
	if !validHeaderName(name) {
		return &HeaderError{Name: name, Reason: "name is not a valid HTTP header token"}
	}
	if !validHeaderValue(value) {
		return &HeaderError{Name: name, Reason: "value contains control characters"}
	}
	for _, h := range c.headers {
		if strings.EqualFold(h.Name, name) {
			return &HeaderError{Name: name, Reason: "duplicate header name"}
		}
	}
	c.headers = append(c.headers, Header{Name: name, Value: value})
	return nil
}

// Headers returns the validated header set, including the User-Agent default
// when no explicit User-Agent was added.
func (c *Config) Headers() []Header {
	headers := make([]Header, len(c.headers), len(c.headers)+1)
	copy(headers, c.headers)
	for _, h := range headers {
		if strings.EqualFold(h.Name, "User-Agent") {
			return headers
		}
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return append(headers, Header{Name: "User-Agent", Value: ua})
}

// LoadConfig builds a Config from environment variables:
//
//	WIKIGRAPH_LANGUAGE     language code (default "en")
//	WIKIGRAPH_TIMEOUT      fetch timeout as a Go duration, "0" waits forever (default "5s")
//	WIKIGRAPH_REQUEST_KIND "links", "wikitext" or "page" (default "links")
//	WIKIGRAPH_USER_AGENT   User-Agent override
//	WIKIGRAPH_BASE_URL     host override for private mirrors
func LoadConfig() (*Config, error) {
	code := os.Getenv("WIKIGRAPH_LANGUAGE")
	if code == "" {
		code = "en"
	}
	lang, err := LanguageFromCode(code)
	if err != nil {
		return nil, fmt.Errorf("WIKIGRAPH_LANGUAGE: %w", err)
	}

	config := NewConfig(lang)

	if t := os.Getenv("WIKIGRAPH_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("WIKIGRAPH_TIMEOUT: invalid duration %q", t)
		}
		config.Timeout = d
	}

	if k := os.Getenv("WIKIGRAPH_REQUEST_KIND"); k != "" {
		kind, err := ParseRequestKind(k)
		if err != nil {
			return nil, fmt.Errorf("WIKIGRAPH_REQUEST_KIND: %w", err)
		}
		config.Kind = kind
	}

	if ua := os.Getenv("WIKIGRAPH_USER_AGENT"); ua != "" {
		config.UserAgent = ua
	}

	config.BaseURL = os.Getenv("WIKIGRAPH_BASE_URL")

	return config, nil
}

// validHeaderName reports whether s is a legal HTTP header field name
// (RFC 7230 token).
func validHeaderName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return false
		}
	}
	return true
}

// validHeaderValue rejects control characters; everything else is legal in a
// field value.
func validHeaderValue(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 && s[i] != '\t' || s[i] == 0x7f {
			return false
		}
	}
	return true
}

func isTokenChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	}
	switch b {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}
