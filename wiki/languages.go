package wiki

import "sort"

// Language identifies one Wikipedia language edition. Every Language obtained
// from this package resolves to a usable domain prefix; codes without a
// Wikipedia project are excluded when the table is generated, not discovered
// at request time.
type Language struct {
	// Code is the short language code, e.g. "en".
	Code string

	// Name is the English display name, e.g. "English".
	Name string

	// Domain is the subdomain of wikipedia.org serving this edition.
	// Usually identical to Code.
	Domain string
}

// valid reports whether the language carries a usable domain mapping.
// Zero-value Languages (not obtained via LanguageFromCode) are invalid.
func (l Language) valid() bool {
	return l.Domain != ""
}

// LanguageFromCode looks up a language edition by its short code.
func LanguageFromCode(code string) (Language, error) {
	lang, ok := wikiLanguages[code]
	if !ok {
		return Language{}, &LanguageUnsupportedError{Code: code}
	}
	return lang, nil
}

// Languages returns all supported language editions sorted by code.
func Languages() []Language {
	langs := make([]Language, 0, len(wikiLanguages))
	for _, lang := range wikiLanguages {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i].Code < langs[j].Code })
	return langs
}
