// Langgen regenerates wiki/languages_table.go from the Wikimedia sitematrix
// API. Run it by hand when the supported-edition table goes stale:
//
//	go run ./cmd/langgen > wiki/languages_table.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"
)

const sitematrixURL = "https://commons.wikimedia.org/w/api.php?action=sitematrix&format=json&smtype=language&smlangprop=code|name|site&origin=*"

type site struct {
	URL  string `json:"url"`
	Code string `json:"code"`
}

type entry struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Sites []site `json:"site"`
}

func main() {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(sitematrixURL)
	if err != nil {
		log.Fatalf("sitematrix request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("sitematrix request: status %d", resp.StatusCode)
	}

	var payload struct {
		Sitematrix map[string]json.RawMessage `json:"sitematrix"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Fatalf("decode sitematrix: %v", err)
	}

	languages := make(map[string]entry)
	for key, raw := range payload.Sitematrix {
		// Numeric keys hold language entries; "count" and "specials"
		// do not.
		if key == "count" || key == "specials" {
			continue
		}
		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		for _, s := range e.Sites {
			// Only wikipedias; the matrix also lists wiktionaries,
			// wikibooks and friends under the same language.
			if s.Code != "wiki" {
				continue
			}
			host := strings.TrimPrefix(s.URL, "https://")
			if !strings.HasSuffix(host, ".wikipedia.org") {
				continue
			}
			subdomain := strings.TrimSuffix(host, ".wikipedia.org")
			languages[e.Code] = entry{Code: e.Code, Name: e.Name, Sites: []site{{URL: subdomain}}}
		}
	}

	codes := make([]string, 0, len(languages))
	for code := range languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	fmt.Println("// Code generated by cmd/langgen from the Wikimedia sitematrix API; DO NOT EDIT.")
	fmt.Println()
	fmt.Println("package wiki")
	fmt.Println()
	fmt.Println("var wikiLanguages = map[string]Language{")
	for _, code := range codes {
		e := languages[code]
		fmt.Printf("\t%q: {Code: %q, Name: %q, Domain: %q},\n", code, e.Code, e.Name, e.Sites[0].URL)
	}
	fmt.Println("}")
}
