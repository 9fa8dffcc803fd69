package wiki

import (
	"strings"
	"testing"
)

func TestLanguageFromCode(t *testing.T) {
	codes := []string{
		"ar", "da", "de", "el", "en", "eo", "es", "fr", "he", "hi",
		"is", "it", "ko", "la", "nv", "pt", "ru", "sv", "to", "zh",
	}

	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			lang, err := LanguageFromCode(code)
			if err != nil {
				t.Fatalf("LanguageFromCode(%q) error: %v", code, err)
			}
			if lang.Code != code {
				t.Errorf("Code = %q, want %q", lang.Code, code)
			}
			if lang.Name == "" {
				t.Error("Name is empty")
			}
			if lang.Domain == "" {
				t.Error("Domain is empty")
			}

			url, err := Resolve(lang, BasicPage, "Waffle")
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			want := "https://" + lang.Domain + ".wikipedia.org/wiki/Waffle"
			if url != want {
				t.Errorf("URL = %q, want %q", url, want)
			}
		})
	}
}

func TestLanguageFromCodeUnknown(t *testing.T) {
	for _, code := range []string{"", "xx", "EN", "en-US", "klingon"} {
		if _, err := LanguageFromCode(code); err == nil {
			t.Errorf("LanguageFromCode(%q) should fail", code)
		}
	}
}

func TestLanguagesSorted(t *testing.T) {
	languages := Languages()
	if len(languages) < 20 {
		t.Fatalf("expected at least 20 languages, got %d", len(languages))
	}
	for i := 1; i < len(languages); i++ {
		if languages[i-1].Code >= languages[i].Code {
			t.Fatalf("languages not sorted at %d: %q >= %q", i, languages[i-1].Code, languages[i].Code)
		}
	}
	for _, lang := range languages {
		if strings.Contains(lang.Domain, ".") {
			t.Errorf("Domain %q should be a bare subdomain", lang.Domain)
		}
	}
}
