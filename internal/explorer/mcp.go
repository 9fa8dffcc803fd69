package explorer

import (
	"context"
)

// MCP Tool wrapper methods
// These methods wrap the session methods with Args/Result types for MCP integration.

// FetchPageMCP is the MCP wrapper for FetchPage
func (s *Session) FetchPageMCP(ctx context.Context, args FetchPageArgs) (FetchPageResult, error) {
	page, created, err := s.FetchPage(ctx, args.Page, args.Kind, args.Unloaded)
	if err != nil {
		return FetchPageResult{}, err
	}

	result := FetchPageResult{
		Pathinfo: page.Pathinfo(),
		Title:    page.Title(),
		Loaded:   page.Loaded(),
		Created:  created,
	}
	if url, err := page.URL(s.client.Config().Language); err == nil {
		result.URL = url
	}
	return result, nil
}

// ExpandNodeMCP is the MCP wrapper for ExpandNode
func (s *Session) ExpandNodeMCP(ctx context.Context, args ExpandNodeArgs) (ExpandNodeResult, error) {
	created, err := s.ExpandNode(ctx, args.Pathinfo, args.Kind)
	if err != nil {
		return ExpandNodeResult{}, err
	}

	summaries := make([]NodeSummary, 0, len(created))
	for _, page := range created {
		summaries = append(summaries, NodeSummary{
			Pathinfo: page.Pathinfo(),
			Title:    page.Title(),
			Loaded:   page.Loaded(),
		})
	}

	stats := s.Stats(false)
	return ExpandNodeResult{
		Origin:  args.Pathinfo,
		Created: summaries,
		Nodes:   stats.Nodes,
		Edges:   stats.Edges,
	}, nil
}

// GetLinksMCP is the MCP wrapper for Links
func (s *Session) GetLinksMCP(ctx context.Context, args GetLinksArgs) (GetLinksResult, error) {
	page, links, err := s.Links(ctx, args.Page, args.Kind)
	if err != nil {
		return GetLinksResult{}, err
	}
	if links == nil {
		links = []string{}
	}
	return GetLinksResult{
		Pathinfo: page.Pathinfo(),
		Title:    page.Title(),
		Links:    links,
	}, nil
}

// RandomPageMCP is the MCP wrapper for RandomPage
func (s *Session) RandomPageMCP(ctx context.Context, args RandomPageArgs) (RandomPageResult, error) {
	page, err := s.RandomPage(ctx, args.Fetch)
	if err != nil {
		return RandomPageResult{}, err
	}

	result := RandomPageResult{
		Pathinfo: page.Pathinfo(),
		Title:    page.Title(),
		Loaded:   page.Loaded(),
	}
	if url, err := page.URL(s.client.Config().Language); err == nil {
		result.URL = url
	}
	return result, nil
}

// ListLanguagesMCP is the MCP wrapper for Languages
func (s *Session) ListLanguagesMCP(ctx context.Context, args ListLanguagesArgs) (ListLanguagesResult, error) {
	languages, active := s.Languages()

	infos := make([]LanguageInfo, 0, len(languages))
	for _, lang := range languages {
		infos = append(infos, LanguageInfo{
			Code:   lang.Code,
			Name:   lang.Name,
			Domain: lang.Domain,
		})
	}
	return ListLanguagesResult{
		Languages: infos,
		Active:    active.Code,
	}, nil
}

// GraphStatsMCP is the MCP wrapper for Stats
func (s *Session) GraphStatsMCP(ctx context.Context, args GraphStatsArgs) (GraphStatsResult, error) {
	return s.Stats(args.Keys), nil
}
