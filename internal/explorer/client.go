// Package explorer coordinates the wiki client and the exploration graph.
// The graph itself never fetches; the session fetches bodies, applies them
// to pages, and expands nodes, serializing all graph mutation behind one
// mutex.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olgasafonova/wikigraph-mcp-server/graph"
	"github.com/olgasafonova/wikigraph-mcp-server/internal/infra"
	"github.com/olgasafonova/wikigraph-mcp-server/metrics"
	"github.com/olgasafonova/wikigraph-mcp-server/wiki"
)

// maxBatchFetches bounds how many transport goroutines one batch expansion
// may run at a time.
const maxBatchFetches = 4

// payloadTTL is how long raw API payloads stay cached. The cache holds
// unparsed text, so a hit still produces a fresh single-use body.
const payloadTTL = 10 * time.Minute

// Session owns one exploration: a client bound to a language edition and
// the graph grown from it.
type Session struct {
	mu      sync.Mutex
	client  *wiki.Client
	graph   *graph.Graph
	queue   *graph.Queue
	cache   *infra.PayloadCache
	group   *infra.FetchGroup
	breaker *infra.CircuitBreaker
	logger  *slog.Logger
}

// NewSession builds a session around an empty graph.
func NewSession(client *wiki.Client, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		client:  client,
		graph:   graph.New(),
		queue:   &graph.Queue{},
		cache:   infra.NewPayloadCache(infra.DefaultMaxPayloads),
		group:   infra.NewFetchGroup(),
		breaker: infra.NewCircuitBreaker(),
		logger:  logger,
	}
}

// Close releases session resources.
func (s *Session) Close() {
	s.cache.Close()
}

// resolvePage turns user input into a page: a full URL, a raw pathinfo, or
// a human title all name the same node.
func resolvePage(input string) (*wiki.Page, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty page reference")
	}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return wiki.FromURL(input)
	}
	return wiki.FromTitle(input), nil
}

func (s *Session) requestKind(raw string) (wiki.RequestKind, error) {
	if raw == "" {
		return s.client.Config().Kind, nil
	}
	return wiki.ParseRequestKind(raw)
}

// FetchPage registers a page in the graph and, unless unloaded is set,
// fetches and attaches its body. The page's identity converges on the
// canonical pathinfo the wiki reports.
func (s *Session) FetchPage(ctx context.Context, input string, kindName string, unloaded bool) (*wiki.Page, bool, error) {
	page, err := resolvePage(input)
	if err != nil {
		return nil, false, err
	}
	kind, err := s.requestKind(kindName)
	if err != nil {
		return nil, false, err
	}

	if unloaded {
		s.mu.Lock()
		defer s.mu.Unlock()
		node, created, err := s.graph.Add(page)
		s.syncGraphGauges()
		return node, created, err
	}

	body, err := s.fetchBody(ctx, kind, page.Pathinfo())
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The requested identity may already be a node, registered unloaded or
	// discovered as a neighbor. Load it in place and let it converge on the
	// canonical identity instead of adding a parallel node.
	if existing, err := s.graph.Page(page.Pathinfo()); err == nil {
		if !existing.Loaded() {
			if err := existing.SetBody(body); err != nil {
				// The body is attached; only the canonical identity is lost.
				s.logger.Warn("page identity not in response", "pathinfo", page.Pathinfo(), "error", err)
			}
			existing, err = s.adoptIdentity(existing, page.Pathinfo())
			if err != nil {
				return nil, false, err
			}
		}
		s.syncGraphGauges()
		return existing, false, nil
	}

	if err := page.SetBody(body); err != nil {
		s.logger.Warn("page identity not in response", "pathinfo", page.Pathinfo(), "error", err)
	}
	node, created, err := s.graph.Add(page)
	if err != nil {
		return nil, false, err
	}
	if !created && !node.Loaded() {
		if err := node.SetBody(body); err != nil {
			s.logger.Warn("page identity not in response", "pathinfo", node.Pathinfo(), "error", err)
		}
	}
	s.syncGraphGauges()
	return node, created, nil
}

// adoptIdentity re-keys node when attaching a body moved its pathinfo away
// from the key it is stored under. Callers hold s.mu.
func (s *Session) adoptIdentity(node *wiki.Page, storedKey string) (*wiki.Page, error) {
	if node.Pathinfo() == storedKey {
		return node, nil
	}
	merged, err := s.graph.Rekey(storedKey)
	if err != nil {
		return nil, err
	}
	s.logger.Info("node adopted canonical identity", "requested", storedKey, "canonical", merged.Pathinfo())
	return merged, nil
}

// ExpandNode expands one graph node, fetching its body first when it has
// none. It returns the newly created neighbor nodes.
func (s *Session) ExpandNode(ctx context.Context, pathinfo string, kindName string) ([]*wiki.Page, error) {
	kind, err := s.requestKind(kindName)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	node, err := s.graph.Page(pathinfo)
	loaded := err == nil && node.Loaded()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if !loaded {
		body, err := s.fetchBody(ctx, kind, pathinfo)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if err := node.SetBody(body); err != nil {
			s.logger.Warn("page identity not in response", "pathinfo", pathinfo, "error", err)
		}
		node, err = s.adoptIdentity(node, pathinfo)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	created, err := s.graph.Expand(node.Pathinfo())
	if err != nil {
		return nil, err
	}
	pages := make([]*wiki.Page, 0, len(created))
	for _, key := range created {
		page, err := s.graph.Page(key)
		if err != nil {
			return pages, err
		}
		pages = append(pages, page)
	}
	s.syncGraphGauges()
	s.logger.Info("node expanded", "origin", node.Pathinfo(), "created", len(created))
	return pages, nil
}

// ExpandBatch expands several nodes, overlapping their fetches. Bodies are
// fetched concurrently, parked on the outcome queue, then applied to the
// graph in one drain so graph mutation stays single threaded. Nodes whose
// fetch fails are reported in errs by origin; the rest still expand.
func (s *Session) ExpandBatch(ctx context.Context, pathinfos []string, kindName string) (map[string][]string, map[string]error, error) {
	kind, err := s.requestKind(kindName)
	if err != nil {
		return nil, nil, err
	}

	needFetch := make([]string, 0, len(pathinfos))
	errs := make(map[string]error)
	s.mu.Lock()
	for _, pathinfo := range pathinfos {
		node, err := s.graph.Page(pathinfo)
		if err != nil {
			errs[pathinfo] = err
			continue
		}
		if !node.Loaded() {
			needFetch = append(needFetch, pathinfo)
		}
	}
	s.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxBatchFetches)
	for _, pathinfo := range needFetch {
		g.Go(func() error {
			body, err := s.fetchBody(ctx, kind, pathinfo)
			s.queue.Push(graph.Outcome{Origin: pathinfo, Body: body, Err: err})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errs, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	renamed := make(map[string]string)
	for _, outcome := range s.queue.Drain() {
		if outcome.Err != nil {
			errs[outcome.Origin] = outcome.Err
			continue
		}
		node, err := s.graph.Page(outcome.Origin)
		if err != nil {
			errs[outcome.Origin] = err
			continue
		}
		if err := node.SetBody(outcome.Body); err != nil {
			s.logger.Warn("page identity not in response", "pathinfo", outcome.Origin, "error", err)
		}
		merged, err := s.adoptIdentity(node, outcome.Origin)
		if err != nil {
			errs[outcome.Origin] = err
			continue
		}
		if merged.Pathinfo() != outcome.Origin {
			renamed[outcome.Origin] = merged.Pathinfo()
		}
	}

	created := make(map[string][]string, len(pathinfos))
	for _, pathinfo := range pathinfos {
		if _, failed := errs[pathinfo]; failed {
			continue
		}
		key := pathinfo
		if canonical, ok := renamed[pathinfo]; ok {
			key = canonical
		}
		keys, err := s.graph.Expand(key)
		if err != nil {
			errs[pathinfo] = err
			continue
		}
		created[pathinfo] = keys
	}
	s.syncGraphGauges()
	return created, errs, nil
}

// Links fetches a page and returns its outgoing links without touching the
// graph.
func (s *Session) Links(ctx context.Context, input string, kindName string) (*wiki.Page, []string, error) {
	page, err := resolvePage(input)
	if err != nil {
		return nil, nil, err
	}
	kind, err := s.requestKind(kindName)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.fetchBody(ctx, kind, page.Pathinfo())
	if err != nil {
		return nil, nil, err
	}
	if err := page.SetBody(body); err != nil {
		s.logger.Warn("page identity not in response", "pathinfo", page.Pathinfo(), "error", err)
	}
	var links []string
	for title := range page.Links() {
		links = append(links, title)
	}
	return page, links, nil
}

// RandomPage draws one random main-namespace article, optionally fetching
// it into the graph.
func (s *Session) RandomPage(ctx context.Context, fetch bool) (*wiki.Page, error) {
	title, err := s.client.RandomTitle()
	if err != nil {
		return nil, err
	}
	if !fetch {
		return wiki.FromTitle(title), nil
	}
	page, _, err := s.FetchPage(ctx, title, "", false)
	return page, err
}

// Languages returns the supported editions together with the active one.
func (s *Session) Languages() ([]wiki.Language, wiki.Language) {
	return wiki.Languages(), s.client.Config().Language
}

// Stats reports the current exploration state.
func (s *Session) Stats(includeKeys bool) GraphStatsResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := GraphStatsResult{
		Nodes:  s.graph.Order(),
		Edges:  s.graph.Size(),
		Loaded: s.graph.LoadedCount(),
	}
	if includeKeys {
		result.Keys = s.graph.Keys()
	}
	return result
}

// Graph exposes the underlying graph for tests and the benchmark harness.
func (s *Session) Graph() *graph.Graph {
	return s.graph
}

// fetchBody resolves one body, serving from the payload cache when it can.
// Cached payloads are re-parsed on every hit so link sequences stay single
// use, and concurrent fetches for the same payload are coalesced.
func (s *Session) fetchBody(ctx context.Context, kind wiki.RequestKind, pathinfo string) (wiki.Body, error) {
	key := kind.String() + ":" + pathinfo
	if raw, ok := s.cache.Get(key); ok {
		body, err := wiki.ParseBody(kind, raw)
		if err == nil {
			metrics.RecordFetch(kind.String(), "cache_hit", 0)
			return body, nil
		}
		s.cache.Delete(key)
	}

	if !s.breaker.Allow() {
		metrics.RecordFetch(kind.String(), "circuit_open", 0)
		return nil, s.breaker.OpenError()
	}

	raw, shared, err := s.group.Do(ctx, key, func() (string, error) {
		return s.fetchRaw(ctx, kind, pathinfo)
	})
	if err != nil {
		if wiki.Retryable(err) {
			s.breaker.RecordFailure()
		}
		return nil, err
	}
	s.breaker.RecordSuccess()
	if !shared {
		s.cache.Set(key, raw, payloadTTL)
	}

	body, err := wiki.ParseBody(kind, raw)
	if err != nil {
		metrics.RecordFetch(kind.String(), "parse_error", 0)
		return nil, err
	}
	return body, nil
}

// fetchRaw performs one network fetch and records its metrics.
func (s *Session) fetchRaw(ctx context.Context, kind wiki.RequestKind, pathinfo string) (string, error) {
	start := time.Now()
	pending, err := s.client.Fetch(kind, pathinfo)
	if err != nil {
		metrics.RecordFetch(kind.String(), "error", time.Since(start))
		return "", err
	}

	result := pending.WaitContext(ctx)
	if result.Err != nil {
		metrics.RecordFetch(kind.String(), fetchStatus(result.Err), pending.Elapsed())
		return "", result.Err
	}
	metrics.RecordFetch(kind.String(), "ok", pending.Elapsed())
	return result.Body, nil
}

func fetchStatus(err error) string {
	switch {
	case errors.Is(err, wiki.ErrNotFound):
		return "not_found"
	case errors.Is(err, wiki.ErrTimeout):
		return "timeout"
	case errors.Is(err, wiki.ErrTooManyRedirects):
		return "too_many_redirects"
	case errors.Is(err, wiki.ErrNoBody):
		return "no_body"
	default:
		return "error"
	}
}

func (s *Session) syncGraphGauges() {
	metrics.SetGraphState(s.graph.Order(), s.graph.Size(), s.graph.LoadedCount())
}
