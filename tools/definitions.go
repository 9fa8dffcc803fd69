package tools

// AllTools defines every MCP tool exposed by the server. Tools are
// registered in this order.
var AllTools = []ToolSpec{
	{
		Name:        "wikigraph_fetch_page",
		Method:      "FetchPage",
		Title:       "Fetch Wikipedia Page",
		Description: "Fetch a Wikipedia article into the exploration graph. Accepts a title, a pathinfo, or a full wikipedia.org URL; the node adopts the canonical identity the wiki reports. Set unloaded=true to register the page without fetching.",
		Category:    "fetch",
		OpenWorld:   true,
		Idempotent:  true,
	},
	{
		Name:        "wikigraph_expand_node",
		Method:      "ExpandNode",
		Title:       "Expand Graph Node",
		Description: "Expand a node already in the graph: its outgoing article links become neighbor nodes and edges. Returns only the nodes newly created by this call; expanding the same node again is a no-op. Fetches the node's body first if it has none.",
		Category:    "graph",
		OpenWorld:   true,
		Idempotent:  true,
	},
	{
		Name:        "wikigraph_get_links",
		Method:      "GetLinks",
		Title:       "Get Article Links",
		Description: "Fetch an article and list its outgoing links, deduplicated in first-occurrence order, without touching the exploration graph. Use kind=wikitext to extract links from raw markup instead of the links API.",
		Category:    "fetch",
		ReadOnly:    true,
		OpenWorld:   true,
	},
	{
		Name:        "wikigraph_random_page",
		Method:      "RandomPage",
		Title:       "Random Article",
		Description: "Draw one random main-namespace article from the active Wikipedia edition. Set fetch=true to also load it into the graph.",
		Category:    "fetch",
		OpenWorld:   true,
	},
	{
		Name:        "wikigraph_list_languages",
		Method:      "ListLanguages",
		Title:       "List Language Editions",
		Description: "List the supported Wikipedia language editions and the edition this server is bound to.",
		Category:    "meta",
		ReadOnly:    true,
		Idempotent:  true,
	},
	{
		Name:        "wikigraph_graph_stats",
		Method:      "GraphStats",
		Title:       "Graph Statistics",
		Description: "Report the exploration graph's node count, edge count, and how many nodes hold a fetched body. Set keys=true to include the sorted node list.",
		Category:    "graph",
		ReadOnly:    true,
		Idempotent:  true,
	},
}

// ToolsByCategory returns the tools in one category.
func ToolsByCategory(category string) []ToolSpec {
	var matched []ToolSpec
	for _, spec := range AllTools {
		if spec.Category == category {
			matched = append(matched, spec)
		}
	}
	return matched
}
