package wiki

import (
	"fmt"
	"iter"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Page is one Wikipedia article, identified by its pathinfo: the URL path
// segment after /wiki/, percent-escapes and all. Two pages are the same
// article exactly when their pathinfos are equal. A page may additionally
// carry a fetched body; identity never depends on it.
type Page struct {
	pathinfo string
	body     Body
}

// FromTitle builds an unloaded page from a human-readable title. Spaces
// become underscores the way Wikipedia's own URLs write them.
func FromTitle(title string) *Page {
	return &Page{pathinfo: strings.ReplaceAll(title, " ", "_")}
}

// FromPathinfo builds an unloaded page from a raw pathinfo segment.
func FromPathinfo(pathinfo string) *Page {
	return &Page{pathinfo: pathinfo}
}

// FromURL builds an unloaded page from a full article URL. The URL must be
// an http or https wikipedia.org address with a /wiki/ path; the pathinfo
// is taken from the escaped path so percent-encoded identities survive
// round trips.
func FromURL(rawurl string) (*Page, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, &PageURLError{Input: rawurl, Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &PageURLError{Input: rawurl, Reason: fmt.Sprintf("scheme %q is not http or https", u.Scheme)}
	}
	host := u.Hostname()
	if host != "wikipedia.org" && !strings.HasSuffix(host, ".wikipedia.org") {
		return nil, &PageURLError{Input: rawurl, Reason: fmt.Sprintf("host %q is not a wikipedia.org domain", host)}
	}
	const prefix = "/wiki/"
	escaped := u.EscapedPath()
	if !strings.HasPrefix(escaped, prefix) || len(escaped) == len(prefix) {
		return nil, &PageURLError{Input: rawurl, Reason: "path does not name an article under /wiki/"}
	}
	return &Page{pathinfo: escaped[len(prefix):]}, nil
}

// Pathinfo returns the page's identity segment.
func (p *Page) Pathinfo() string {
	return p.pathinfo
}

// Loaded reports whether the page carries a fetched body.
func (p *Page) Loaded() bool {
	return p.body != nil
}

// Body returns the fetched body, or nil for an unloaded page.
func (p *Page) Body() Body {
	return p.body
}

// SetBody attaches a fetched body and adopts the canonical identity the
// wiki reported in it, so a page reached through a redirect or alternate
// capitalization converges on one pathinfo. When the body carries no
// parseable identity the body is kept, the old pathinfo stands, and the
// parse error is returned for the caller to log.
func (p *Page) SetBody(body Body) error {
	p.body = body
	canonical, err := body.Pathinfo()
	if err != nil {
		return err
	}
	p.pathinfo = strings.ReplaceAll(canonical, " ", "_")
	return nil
}

// Unload drops the body, keeping the identity. Large wikitext payloads are
// released this way once their links have been consumed.
func (p *Page) Unload() {
	p.body = nil
}

// Links yields the body's link titles. An unloaded page yields nothing.
func (p *Page) Links() iter.Seq[string] {
	if p.body == nil {
		return func(yield func(string) bool) {}
	}
	return p.body.Links()
}

// Title renders the pathinfo for humans: percent-escapes decoded,
// underscores to spaces, runs of whitespace collapsed, and every word
// capitalized.
func (p *Page) Title() string {
	decoded, err := url.PathUnescape(p.pathinfo)
	if err != nil {
		decoded = p.pathinfo
	}
	words := strings.Fields(strings.ReplaceAll(decoded, "_", " "))
	for i, word := range words {
		words[i] = upperFirst(word)
	}
	return strings.Join(words, " ")
}

// URL renders the canonical article address in the given language edition.
func (p *Page) URL(lang Language) (string, error) {
	return Resolve(lang, BasicPage, p.pathinfo)
}

func (p *Page) String() string {
	return p.Title()
}

func upperFirst(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
