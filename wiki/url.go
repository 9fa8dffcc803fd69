package wiki

import (
	"fmt"
	"strings"
)

// RequestKind selects the URL shape of a request and the payload variant a
// successful response parses into.
type RequestKind int

const (
	// BasicPage fetches the rendered article page. Responses carry no
	// structured payload and cannot be parsed into a Body.
	BasicPage RequestKind = iota

	// WikitextAPI fetches raw wikitext through action=parse.
	WikitextAPI

	// LinksAPI fetches the outbound link list through action=query&prop=links.
	LinksAPI
)

func (k RequestKind) String() string {
	switch k {
	case BasicPage:
		return "page"
	case WikitextAPI:
		return "wikitext"
	case LinksAPI:
		return "links"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseRequestKind converts a configuration string into a RequestKind.
func ParseRequestKind(s string) (RequestKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "page":
		return BasicPage, nil
	case "wikitext", "raw":
		return WikitextAPI, nil
	case "links", "":
		return LinksAPI, nil
	default:
		return LinksAPI, fmt.Errorf("unknown request kind %q", s)
	}
}

// Resolve builds the absolute URL for one request. The pathinfo is inserted
// verbatim so percent-encoded identifiers survive the join. Pure function:
// no randomness, no side effects.
//
// The literal pathinfo "Special:Random" needs no special URL shape; the
// server answers it with a redirect to a concrete article, which the fetch
// engine follows like any other redirect.
func Resolve(lang Language, kind RequestKind, pathinfo string) (string, error) {
	if !lang.valid() {
		return "", &LanguageUnsupportedError{Code: lang.Code}
	}

	switch kind {
	case BasicPage:
		return fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", lang.Domain, pathinfo), nil
	case WikitextAPI:
		return fmt.Sprintf("%s?origin=*&action=parse&prop=wikitext&format=json&page=%s", apiBase(lang), pathinfo), nil
	case LinksAPI:
		return fmt.Sprintf("%s?action=query&format=json&prop=links&pllimit=500&origin=*&titles=%s", apiBase(lang), pathinfo), nil
	default:
		return "", fmt.Errorf("unknown request kind %q", kind)
	}
}

// apiBase returns the api.php endpoint for a language edition. The caller
// guarantees the language is valid.
func apiBase(lang Language) string {
	return fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang.Domain)
}
