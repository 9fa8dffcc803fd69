package explorer

// FetchPageArgs contains parameters for fetching one page into the graph
type FetchPageArgs struct {
	Page     string `json:"page" jsonschema:"required" jsonschema_description:"Article title, pathinfo, or full wikipedia.org URL"`
	Kind     string `json:"kind,omitempty" jsonschema_description:"Request kind: links (default) or wikitext"`
	Unloaded bool   `json:"unloaded,omitempty" jsonschema_description:"Register the page without fetching its body"`
}

// FetchPageResult is the result of fetching a page
type FetchPageResult struct {
	Pathinfo string `json:"pathinfo"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Loaded   bool   `json:"loaded"`
	Created  bool   `json:"created"`
}

// ExpandNodeArgs contains parameters for expanding one graph node
type ExpandNodeArgs struct {
	Pathinfo string `json:"pathinfo" jsonschema:"required" jsonschema_description:"Pathinfo of a node already in the graph"`
	Kind     string `json:"kind,omitempty" jsonschema_description:"Request kind used if the node's body must be fetched first"`
}

// ExpandNodeResult is the result of expanding a node
type ExpandNodeResult struct {
	Origin  string        `json:"origin"`
	Created []NodeSummary `json:"created"`
	Nodes   int           `json:"nodes"`
	Edges   int           `json:"edges"`
}

// NodeSummary is a compact node representation
type NodeSummary struct {
	Pathinfo string `json:"pathinfo"`
	Title    string `json:"title"`
	Loaded   bool   `json:"loaded"`
}

// GetLinksArgs contains parameters for listing a page's outgoing links
type GetLinksArgs struct {
	Page string `json:"page" jsonschema:"required" jsonschema_description:"Article title, pathinfo, or full wikipedia.org URL"`
	Kind string `json:"kind,omitempty" jsonschema_description:"Request kind: links (default) or wikitext"`
}

// GetLinksResult is the result of listing outgoing links
type GetLinksResult struct {
	Pathinfo string   `json:"pathinfo"`
	Title    string   `json:"title"`
	Links    []string `json:"links"`
}

// RandomPageArgs contains parameters for drawing a random article
type RandomPageArgs struct {
	Fetch bool `json:"fetch,omitempty" jsonschema_description:"Also fetch the article's body into the graph"`
}

// RandomPageResult is the result of drawing a random article
type RandomPageResult struct {
	Pathinfo string `json:"pathinfo"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Loaded   bool   `json:"loaded"`
}

// ListLanguagesArgs contains parameters for listing supported editions
type ListLanguagesArgs struct {
	// No parameters
}

// ListLanguagesResult is the result of listing supported editions
type ListLanguagesResult struct {
	Languages []LanguageInfo `json:"languages"`
	Active    string         `json:"active"`
}

// LanguageInfo describes one supported Wikipedia edition
type LanguageInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// GraphStatsArgs contains parameters for reading exploration statistics
type GraphStatsArgs struct {
	Keys bool `json:"keys,omitempty" jsonschema_description:"Include the sorted list of node pathinfos"`
}

// GraphStatsResult is the result of reading exploration statistics
type GraphStatsResult struct {
	Nodes  int      `json:"nodes"`
	Edges  int      `json:"edges"`
	Loaded int      `json:"loaded"`
	Keys   []string `json:"keys,omitempty"`
}
