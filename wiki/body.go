package wiki

import (
	"encoding/json"
	"iter"
	"regexp"
	"strings"
)

// Body is one parsed API response for a page. Pathinfo reports the
// canonical identity the wiki itself uses for the page; Links yields the
// outgoing article links in first-occurrence order, deduplicated and with
// service pages filtered out.
//
// Links sequences are lazy and single use: iterate once and keep what you
// need.
type Body interface {
	Kind() RequestKind
	Pathinfo() (string, error)
	Links() iter.Seq[string]
}

// filteredPages never appear in a link sequence. Wayback Machine citations
// show up on nearly every article and say nothing about its topic.
var filteredPages = []string{
	"Wayback Machine",
}

// wikitextLink matches internal article links in raw wikitext. The target
// is the first group; a display label after | is matched but discarded.
// Targets with characters outside the plain title alphabet (files,
// categories, anchors, templates) are deliberately not matched.
var wikitextLink = regexp.MustCompile(`\[\[([a-zA-Z0-9 ()]+)(?:[|][a-zA-Z0-9 ()]+)?\]\]`)

// ParseBody decodes one raw API response of the given kind. BasicPage
// responses are HTML and carry no parseable structure, so they always fail.
func ParseBody(kind RequestKind, text string) (Body, error) {
	switch kind {
	case LinksAPI:
		payload, err := decodeObject(text)
		if err != nil {
			return nil, &DeserializationError{Kind: kind.String(), Reason: err.Error()}
		}
		return &LinksBody{payload: payload}, nil
	case WikitextAPI:
		payload, err := decodeObject(text)
		if err != nil {
			return nil, &DeserializationError{Kind: kind.String(), Reason: err.Error()}
		}
		return &WikitextBody{payload: payload}, nil
	default:
		return nil, &DeserializationError{Kind: kind.String(), Reason: "response is not a structured API payload"}
	}
}

// LinksBody wraps a response from the links API
// (action=query&prop=links).
type LinksBody struct {
	payload  map[string]interface{}
	consumed bool
}

func (b *LinksBody) Kind() RequestKind {
	return LinksAPI
}

// Pathinfo returns the canonical title reported under query.pages.
func (b *LinksBody) Pathinfo() (string, error) {
	pages := getObject(getObject(b.payload, "query"), "pages")
	if len(pages) == 0 {
		return "", &PathinfoParseError{Kind: LinksAPI.String(), Reason: "no query.pages in response"}
	}
	for _, page := range pages {
		entry, ok := page.(map[string]interface{})
		if !ok {
			continue
		}
		if title := getString(entry, "title"); title != "" {
			return title, nil
		}
	}
	return "", &PathinfoParseError{Kind: LinksAPI.String(), Reason: "page entry has no title"}
}

// Links yields the titles under query.pages.<id>.links, deduplicated in
// first-occurrence order. A page with no links container yields an empty
// sequence.
func (b *LinksBody) Links() iter.Seq[string] {
	return onceSequence(&b.consumed, func(yield func(string) bool) {
		seen := make(map[string]bool)
		pages := getObject(getObject(b.payload, "query"), "pages")
		for _, page := range pages {
			entry, ok := page.(map[string]interface{})
			if !ok {
				continue
			}
			links, ok := getSlice(entry, "links")
			if !ok {
				continue
			}
			for _, link := range links {
				l, ok := link.(map[string]interface{})
				if !ok {
					continue
				}
				title := getString(l, "title")
				if title == "" || seen[title] || isFiltered(title) {
					continue
				}
				seen[title] = true
				if !yield(title) {
					return
				}
			}
		}
	})
}

// WikitextBody wraps a response from the wikitext API
// (action=parse&prop=wikitext).
type WikitextBody struct {
	payload  map[string]interface{}
	consumed bool
}

func (b *WikitextBody) Kind() RequestKind {
	return WikitextAPI
}

// Pathinfo returns the canonical title reported under parse.title.
func (b *WikitextBody) Pathinfo() (string, error) {
	parse := getObject(b.payload, "parse")
	if parse == nil {
		return "", &PathinfoParseError{Kind: WikitextAPI.String(), Reason: "no parse object in response"}
	}
	title := getString(parse, "title")
	if title == "" {
		return "", &PathinfoParseError{Kind: WikitextAPI.String(), Reason: "parse object has no title"}
	}
	return title, nil
}

// Links scans the raw wikitext for internal links, yielding the targets
// deduplicated in first-occurrence order. Missing wikitext yields an empty
// sequence.
func (b *WikitextBody) Links() iter.Seq[string] {
	return onceSequence(&b.consumed, func(yield func(string) bool) {
		text := b.wikitext()
		seen := make(map[string]bool)
		for _, match := range wikitextLink.FindAllStringSubmatchIndex(text, -1) {
			target := text[match[2]:match[3]]
			if seen[target] || isFiltered(target) {
				continue
			}
			seen[target] = true
			if !yield(target) {
				return
			}
		}
	})
}

// wikitext digs out the raw markup. The parse API nests it one level deep
// under a content-model key, usually "*".
func (b *WikitextBody) wikitext() string {
	parse := getObject(b.payload, "parse")
	inner := getObject(parse, "wikitext")
	if inner == nil {
		return ""
	}
	if star := getString(inner, "*"); star != "" {
		return star
	}
	for _, v := range inner {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// onceSequence enforces the single-use contract. The flag lives on the
// body, so once any iteration starts, every later sequence from the same
// body yields nothing.
func onceSequence(consumed *bool, seq iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		if *consumed {
			return
		}
		*consumed = true
		seq(yield)
	}
}

func isFiltered(title string) bool {
	for _, filtered := range filteredPages {
		if title == filtered {
			return true
		}
	}
	return false
}

// decodeObject parses text as a JSON object.
func decodeObject(text string) (map[string]interface{}, error) {
	var payload map[string]interface{}
	decoder := json.NewDecoder(strings.NewReader(text))
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func getObject(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	obj, _ := m[key].(map[string]interface{})
	return obj
}

func getSlice(m map[string]interface{}, key string) ([]interface{}, bool) {
	if m == nil {
		return nil, false
	}
	s, ok := m[key].([]interface{})
	return s, ok
}

func getString(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
