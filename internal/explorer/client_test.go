package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/olgasafonova/wikigraph-mcp-server/graph"
	"github.com/olgasafonova/wikigraph-mcp-server/internal/infra"
	"github.com/olgasafonova/wikigraph-mcp-server/wiki"
)

// wikiFixture maps canonical titles to their outgoing links
type wikiFixture map[string][]string

// mockWikiServer serves links API responses from a fixture. Unknown titles
// get a 404.
func mockWikiServer(t *testing.T, fixture wikiFixture) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title := r.URL.Query().Get("titles")
		links, ok := fixture[title]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		linkObjs := make([]map[string]interface{}, 0, len(links))
		for _, l := range links {
			linkObjs = append(linkObjs, map[string]interface{}{"ns": 0, "title": l})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"query": map[string]interface{}{
				"pages": map[string]interface{}{
					"1": map[string]interface{}{
						"pageid": 1,
						"title":  title,
						"links":  linkObjs,
					},
				},
			},
		})
	}))
}

func createTestSession(t *testing.T, server *httptest.Server) *Session {
	t.Helper()
	lang, err := wiki.LanguageFromCode("en")
	if err != nil {
		t.Fatalf("LanguageFromCode: %v", err)
	}
	config := wiki.NewConfig(lang)
	config.BaseURL = server.URL
	config.Timeout = 2 * time.Second
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	session := NewSession(wiki.NewClient(config, logger), logger)
	t.Cleanup(session.Close)
	return session
}

func TestFetchPageLoadsBody(t *testing.T) {
	server := mockWikiServer(t, wikiFixture{
		"Waffle": {"Belgium", "Syrup"},
	})
	defer server.Close()

	session := createTestSession(t, server)
	page, created, err := session.FetchPage(context.Background(), "Waffle", "", false)
	if err != nil {
		t.Fatalf("FetchPage error: %v", err)
	}
	if !created {
		t.Error("page should be newly created")
	}
	if !page.Loaded() {
		t.Error("page should be loaded")
	}

	stats := session.Stats(false)
	if stats.Nodes != 1 || stats.Loaded != 1 {
		t.Errorf("stats = %+v, want 1 node, 1 loaded", stats)
	}
}

func TestFetchPageUnloaded(t *testing.T) {
	server := mockWikiServer(t, wikiFixture{})
	defer server.Close()

	session := createTestSession(t, server)
	page, created, err := session.FetchPage(context.Background(), "Waffle", "", true)
	if err != nil {
		t.Fatalf("FetchPage error: %v", err)
	}
	if !created || page.Loaded() {
		t.Errorf("created = %v, loaded = %v; want created and unloaded", created, page.Loaded())
	}
}

func TestFetchPageNotFound(t *testing.T) {
	server := mockWikiServer(t, wikiFixture{})
	defer server.Close()

	session := createTestSession(t, server)
	if _, _, err := session.FetchPage(context.Background(), "Nowhere", "", false); !errors.Is(err, wiki.ErrNotFound) {
		t.Fatalf("FetchPage error = %v, want ErrNotFound", err)
	}
	if stats := session.Stats(false); stats.Nodes != 0 {
		t.Errorf("failed fetch should not create nodes, got %d", stats.Nodes)
	}
}

func TestFetchPageAcceptsURL(t *testing.T) {
	server := mockWikiServer(t, wikiFixture{
		"Waffle": nil,
	})
	defer server.Close()

	session := createTestSession(t, server)
	page, _, err := session.FetchPage(context.Background(), "https://en.wikipedia.org/wiki/Waffle", "", false)
	if err != nil {
		t.Fatalf("FetchPage error: %v", err)
	}
	if page.Pathinfo() != "Waffle" {
		t.Errorf("Pathinfo = %q, want Waffle", page.Pathinfo())
	}
}

func TestExpandNodeFetchesUnloadedBody(t *testing.T) {
	server := mockWikiServer(t, wikiFixture{
		"Waffle": {"Belgium", "Syrup"},
	})
	defer server.Close()

	session := createTestSession(t, server)
	if _, _, err := session.FetchPage(context.Background(), "Waffle", "", true); err != nil {
		t.Fatalf("FetchPage error: %v", err)
	}

	created, err := session.ExpandNode(context.Background(), "Waffle", "")
	if err != nil {
		t.Fatalf("ExpandNode error: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created %d nodes, want 2", len(created))
	}

	stats := session.Stats(false)
	if stats.Nodes != 3 || stats.Edges != 2 {
		t.Errorf("stats = %+v, want 3 nodes, 2 edges", stats)
	}
}

func TestExpandNodeTwiceIsNoOp(t *testing.T) {
	server := mockWikiServer(t, wikiFixture{
		"Waffle": {"Belgium"},
	})
	defer server.Close()

	session := createTestSession(t, server)
	if _, _, err := session.FetchPage(context.Background(), "Waffle", "", false); err != nil {
		t.Fatalf("FetchPage error: %v", err)
	}
	if _, err := session.ExpandNode(context.Background(), "Waffle", ""); err != nil {
		t.Fatalf("first ExpandNode error: %v", err)
	}

	created, err := session.ExpandNode(context.Background(), "Waffle", "")
	if err != nil {
		t.Fatalf("second ExpandNode error: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("second expansion created %d nodes, want 0", len(created))
	}
}

func TestExpandNodeUnknown(t *testing.T) {
	server := mockWikiServer(t, wikiFixture{})
	defer server.Close()

	session := createTestSession(t, server)
	if _, err := session.ExpandNode(context.Background(), "Nowhere", ""); !errors.Is(err, graph.ErrNodeNotFound) {
		t.Fatalf("ExpandNode error = %v, want ErrNodeNotFound", err)
	}
}

func TestExpandBatch(t *testing.T) {
	server := mockWikiServer(t, wikiFixture{
		"Waffle":  {"Belgium", "Syrup"},
		"Belgium": {"Waffle", "Brussels"},
		"Syrup":   {"Sugar"},
	})
	defer server.Close()

	session := createTestSession(t, server)
	ctx := context.Background()
	if _, _, err := session.FetchPage(ctx, "Waffle", "", false); err != nil {
		t.Fatalf("FetchPage error: %v", err)
	}
	if _, err := session.ExpandNode(ctx, "Waffle", ""); err != nil {
		t.Fatalf("ExpandNode error: %v", err)
	}

	created, errs, err := session.ExpandBatch(ctx, []string{"Belgium", "Syrup"}, "")
	if err != nil {
		t.Fatalf("ExpandBatch error: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("errs = %v, want none", errs)
	}
	// Waffle already exists, so Belgium only creates Brussels.
	if got := created["Belgium"]; len(got) != 1 || got[0] != "Brussels" {
		t.Errorf("Belgium created %v, want [Brussels]", got)
	}
	if got := created["Syrup"]; len(got) != 1 || got[0] != "Sugar" {
		t.Errorf("Syrup created %v, want [Sugar]", got)
	}

	stats := session.Stats(false)
	if stats.Nodes != 5 {
		t.Errorf("nodes = %d, want 5", stats.Nodes)
	}
}

func TestExpandBatchReportsPerNodeFailures(t *testing.T) {
	server := mockWikiServer(t, wikiFixture{
		"Waffle":  {"Belgium", "Ghost"},
		"Belgium": nil,
	})
	defer server.Close()

	session := createTestSession(t, server)
	ctx := context.Background()
	if _, _, err := session.FetchPage(ctx, "Waffle", "", false); err != nil {
		t.Fatalf("FetchPage error: %v", err)
	}
	if _, err := session.ExpandNode(ctx, "Waffle", ""); err != nil {
		t.Fatalf("ExpandNode error: %v", err)
	}

	created, errs, err := session.ExpandBatch(ctx, []string{"Belgium", "Ghost", "Unregistered"}, "")
	if err != nil {
		t.Fatalf("ExpandBatch error: %v", err)
	}
	if _, ok := created["Belgium"]; !ok {
		t.Error("Belgium should expand despite sibling failures")
	}
	if !errors.Is(errs["Ghost"], wiki.ErrNotFound) {
		t.Errorf("Ghost error = %v, want ErrNotFound", errs["Ghost"])
	}
	if !errors.Is(errs["Unregistered"], graph.ErrNodeNotFound) {
		t.Errorf("Unregistered error = %v, want ErrNodeNotFound", errs["Unregistered"])
	}
}

func TestLinksDoesNotTouchGraph(t *testing.T) {
	server := mockWikiServer(t, wikiFixture{
		"Waffle": {"Belgium", "Syrup"},
	})
	defer server.Close()

	session := createTestSession(t, server)
	page, links, err := session.Links(context.Background(), "Waffle", "")
	if err != nil {
		t.Fatalf("Links error: %v", err)
	}
	if page.Pathinfo() != "Waffle" {
		t.Errorf("Pathinfo = %q", page.Pathinfo())
	}
	if len(links) != 2 {
		t.Errorf("links = %v, want 2 entries", links)
	}
	if stats := session.Stats(false); stats.Nodes != 0 {
		t.Errorf("Links should not create nodes, got %d", stats.Nodes)
	}
}

func TestRandomPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"query": map[string]interface{}{
				"random": []map[string]interface{}{
					{"id": 7, "ns": 0, "title": "Multekrem"},
				},
			},
		})
	}))
	defer server.Close()

	session := createTestSession(t, server)
	page, err := session.RandomPage(context.Background(), false)
	if err != nil {
		t.Fatalf("RandomPage error: %v", err)
	}
	if page.Pathinfo() != "Multekrem" {
		t.Errorf("Pathinfo = %q, want Multekrem", page.Pathinfo())
	}
	if page.Loaded() {
		t.Error("page should not be loaded without fetch")
	}
}

func TestResolvePage(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "Waffle", want: "Waffle"},
		{input: "Norwegian cuisine", want: "Norwegian_cuisine"},
		{input: "https://en.wikipedia.org/wiki/Waffle", want: "Waffle"},
		{input: "https://example.com/wiki/Waffle", wantErr: true},
		{input: "   ", wantErr: true},
	}
	for _, tt := range tests {
		page, err := resolvePage(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("resolvePage(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("resolvePage(%q) error: %v", tt.input, err)
			continue
		}
		if page.Pathinfo() != tt.want {
			t.Errorf("resolvePage(%q) = %q, want %q", tt.input, page.Pathinfo(), tt.want)
		}
	}
}

func TestSession_RepeatFetchServedFromCache(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"query": map[string]interface{}{
				"pages": map[string]interface{}{
					"1": map[string]interface{}{
						"pageid": 1,
						"title":  "Waffle",
						"links": []map[string]interface{}{
							{"ns": 0, "title": "Batter"},
							{"ns": 0, "title": "Belgium"},
						},
					},
				},
			},
		})
	}))
	defer server.Close()
	session := createTestSession(t, server)

	// Every pass must yield the full link set: cache hits re-parse the raw
	// payload, so the single-use sequence starts fresh each time.
	for i := 0; i < 2; i++ {
		_, links, err := session.Links(context.Background(), "Waffle", "links")
		if err != nil {
			t.Fatalf("Links attempt %d: %v", i+1, err)
		}
		if len(links) != 2 {
			t.Fatalf("Attempt %d: expected 2 links, got %d", i+1, len(links))
		}
	}
	if requests != 1 {
		t.Errorf("Expected 1 upstream request, got %d", requests)
	}
}

func TestSession_CircuitOpenRejectsFetches(t *testing.T) {
	server := mockWikiServer(t, wikiFixture{"Waffle": {"Belgium"}})
	defer server.Close()
	session := createTestSession(t, server)
	session.breaker = infra.NewCircuitBreakerWithConfig(1, time.Minute, 1)
	session.breaker.RecordFailure()

	_, _, err := session.Links(context.Background(), "Waffle", "links")
	var open infra.ErrCircuitOpen
	if !errors.As(err, &open) {
		t.Fatalf("Expected circuit open error, got %v", err)
	}
}

// canonicalizingWikiServer answers like MediaWiki's title normalization:
// the reported title may differ from the one requested.
func canonicalizingWikiServer(t *testing.T, canonical map[string]string, fixture wikiFixture) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title, ok := canonical[r.URL.Query().Get("titles")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		links := fixture[title]
		linkObjs := make([]map[string]interface{}, 0, len(links))
		for _, l := range links {
			linkObjs = append(linkObjs, map[string]interface{}{"ns": 0, "title": l})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"query": map[string]interface{}{
				"pages": map[string]interface{}{
					"1": map[string]interface{}{
						"pageid": 1,
						"title":  title,
						"links":  linkObjs,
					},
				},
			},
		})
	}))
}

func TestSession_ExpandAdoptsCanonicalIdentity(t *testing.T) {
	server := canonicalizingWikiServer(t,
		map[string]string{"waffle": "Waffle", "Waffle": "Waffle"},
		wikiFixture{"Waffle": {"Belgium", "Batter"}},
	)
	defer server.Close()
	session := createTestSession(t, server)
	ctx := context.Background()

	if _, _, err := session.FetchPage(ctx, "waffle", "", true); err != nil {
		t.Fatalf("FetchPage: %v", err)
	}

	created, err := session.ExpandNode(ctx, "waffle", "")
	if err != nil {
		t.Fatalf("ExpandNode after canonical rename: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Expected 2 new nodes, got %d", len(created))
	}

	stats := session.Stats(true)
	if stats.Nodes != 3 {
		t.Errorf("Expected 3 nodes, got %d (keys %v)", stats.Nodes, stats.Keys)
	}
	for _, key := range stats.Keys {
		if key == "waffle" {
			t.Error("Stale lowercase node survived the rename")
		}
	}

	// Fetching the canonical title must land on the existing node.
	node, createdNew, err := session.FetchPage(ctx, "Waffle", "", false)
	if err != nil {
		t.Fatalf("FetchPage canonical: %v", err)
	}
	if createdNew {
		t.Error("Canonical fetch created a second node for the same identity")
	}
	if node.Pathinfo() != "Waffle" {
		t.Errorf("Expected canonical pathinfo Waffle, got %q", node.Pathinfo())
	}
	if got := session.Stats(false).Nodes; got != 3 {
		t.Errorf("Expected node count to stay 3, got %d", got)
	}
}

func TestSession_FetchPageMergesRenamedNode(t *testing.T) {
	server := canonicalizingWikiServer(t,
		map[string]string{"waffle": "Waffle", "Waffle": "Waffle"},
		wikiFixture{"Waffle": {"Belgium"}},
	)
	defer server.Close()
	session := createTestSession(t, server)
	ctx := context.Background()

	// Both spellings get registered before either body arrives.
	if _, _, err := session.FetchPage(ctx, "waffle", "", true); err != nil {
		t.Fatalf("FetchPage waffle: %v", err)
	}
	if _, _, err := session.FetchPage(ctx, "Waffle", "", true); err != nil {
		t.Fatalf("FetchPage Waffle: %v", err)
	}
	if got := session.Stats(false).Nodes; got != 2 {
		t.Fatalf("Expected 2 provisional nodes, got %d", got)
	}

	node, created, err := session.FetchPage(ctx, "waffle", "", false)
	if err != nil {
		t.Fatalf("FetchPage load: %v", err)
	}
	if created {
		t.Error("Loading a registered node should not report a creation")
	}
	if node.Pathinfo() != "Waffle" {
		t.Errorf("Expected canonical pathinfo Waffle, got %q", node.Pathinfo())
	}
	if !node.Loaded() {
		t.Error("Surviving node should carry the fetched body")
	}
	if got := session.Stats(false).Nodes; got != 1 {
		t.Errorf("Expected the two spellings to merge into 1 node, got %d", got)
	}
}

func TestSession_ExpandBatchAdoptsCanonicalIdentity(t *testing.T) {
	server := canonicalizingWikiServer(t,
		map[string]string{"waffle": "Waffle", "Waffle": "Waffle", "Belgium": "Belgium"},
		wikiFixture{"Waffle": {"Batter"}, "Belgium": {"Brussels"}},
	)
	defer server.Close()
	session := createTestSession(t, server)
	ctx := context.Background()

	if _, _, err := session.FetchPage(ctx, "waffle", "", true); err != nil {
		t.Fatalf("FetchPage waffle: %v", err)
	}
	if _, _, err := session.FetchPage(ctx, "Belgium", "", true); err != nil {
		t.Fatalf("FetchPage Belgium: %v", err)
	}

	created, errs, err := session.ExpandBatch(ctx, []string{"waffle", "Belgium"}, "")
	if err != nil {
		t.Fatalf("ExpandBatch: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("Unexpected per-node errors: %v", errs)
	}
	if got := created["waffle"]; len(got) != 1 || got[0] != "Batter" {
		t.Errorf("waffle expansion = %v, want [Batter]", got)
	}
	if got := created["Belgium"]; len(got) != 1 || got[0] != "Brussels" {
		t.Errorf("Belgium expansion = %v, want [Brussels]", got)
	}

	stats := session.Stats(true)
	if stats.Nodes != 4 {
		t.Errorf("Expected 4 nodes, got %d (keys %v)", stats.Nodes, stats.Keys)
	}
	for _, key := range stats.Keys {
		if key == "waffle" {
			t.Error("Stale lowercase node survived the batch rename")
		}
	}
}
