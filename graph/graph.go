// Package graph maintains the explored portion of a wiki as a directed
// graph of pages. Nodes are keyed by pathinfo, so every article occupies
// exactly one node no matter how many times its links are encountered.
package graph

import (
	"errors"
	"fmt"
	"sort"

	graphlib "github.com/dominikbraun/graph"

	"github.com/olgasafonova/wikigraph-mcp-server/wiki"
)

var (
	// ErrNodeNotFound reports an expansion of a pathinfo the graph has
	// never seen.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrPageNotLoaded reports an expansion of a node whose page carries
	// no body. The graph never fetches; callers load first.
	ErrPageNotLoaded = errors.New("graph: page body not loaded")
)

// Graph is the exploration state. Not safe for concurrent use; callers
// serialize access.
type Graph struct {
	g graphlib.Graph[string, *wiki.Page]
}

// New returns an empty directed graph.
func New() *Graph {
	return &Graph{
		g: graphlib.New(func(p *wiki.Page) string {
			return p.Pathinfo()
		}, graphlib.Directed()),
	}
}

// Add inserts a page as a node. Adding a page whose pathinfo is already
// present is a no-op that keeps the existing node, so identities stay
// stable across repeated discovery.
func (gr *Graph) Add(page *wiki.Page) (*wiki.Page, bool, error) {
	err := gr.g.AddVertex(page)
	if errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		existing, verr := gr.g.Vertex(page.Pathinfo())
		if verr != nil {
			return nil, false, fmt.Errorf("graph: lookup after duplicate add: %w", verr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("graph: add node: %w", err)
	}
	return page, true, nil
}

// Rekey moves the node stored under stale to the pathinfo its page now
// reports. Attaching a body adopts the canonical identity the wiki sent
// back, which may differ from the key the node was stored under after a
// redirect or capitalization rename; the backing library requires stable
// vertex hashes, so the node is re-inserted under the new key and every
// edge re-pointed. When a node with the canonical identity already exists
// the two merge: the existing node survives, adopting the moved page's
// body if it has none of its own. The surviving node is returned.
func (gr *Graph) Rekey(stale string) (*wiki.Page, error) {
	page, err := gr.Page(stale)
	if err != nil {
		return nil, err
	}
	if page.Pathinfo() == stale {
		return page, nil
	}

	adjacency, err := gr.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("graph: adjacency: %w", err)
	}
	predecessors, err := gr.g.PredecessorMap()
	if err != nil {
		return nil, fmt.Errorf("graph: predecessors: %w", err)
	}
	var outgoing, incoming []string
	for target := range adjacency[stale] {
		outgoing = append(outgoing, target)
	}
	for source := range predecessors[stale] {
		incoming = append(incoming, source)
	}

	for _, target := range outgoing {
		if err := gr.g.RemoveEdge(stale, target); err != nil {
			return nil, fmt.Errorf("graph: unhook edge %s -> %s: %w", stale, target, err)
		}
	}
	for _, source := range incoming {
		if err := gr.g.RemoveEdge(source, stale); err != nil {
			return nil, fmt.Errorf("graph: unhook edge %s -> %s: %w", source, stale, err)
		}
	}
	if err := gr.g.RemoveVertex(stale); err != nil {
		return nil, fmt.Errorf("graph: remove stale node %s: %w", stale, err)
	}

	node, _, err := gr.Add(page)
	if err != nil {
		return nil, err
	}
	if node != page && !node.Loaded() && page.Loaded() {
		if err := node.SetBody(page.Body()); err != nil {
			return nil, fmt.Errorf("graph: merge body into %s: %w", node.Pathinfo(), err)
		}
	}
	for _, target := range outgoing {
		if target == node.Pathinfo() {
			continue
		}
		if err := gr.addEdge(node.Pathinfo(), target); err != nil {
			return node, err
		}
	}
	for _, source := range incoming {
		if source == node.Pathinfo() {
			continue
		}
		if err := gr.addEdge(source, node.Pathinfo()); err != nil {
			return node, err
		}
	}
	return node, nil
}

// Page returns the node for pathinfo.
func (gr *Graph) Page(pathinfo string) (*wiki.Page, error) {
	page, err := gr.g.Vertex(pathinfo)
	if errors.Is(err, graphlib.ErrVertexNotFound) {
		return nil, ErrNodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("graph: lookup node: %w", err)
	}
	return page, nil
}

// Expand materializes the outgoing links of an already loaded node as
// neighbor nodes and edges. It returns the pathinfos of the nodes that
// were newly created by this call, in link order; links to pages already
// in the graph only gain an edge. Self links are skipped. Expanding the
// same node twice is a no-op the second time, because a body's link
// sequence is single use.
func (gr *Graph) Expand(pathinfo string) ([]string, error) {
	origin, err := gr.Page(pathinfo)
	if err != nil {
		return nil, err
	}
	if !origin.Loaded() {
		return nil, ErrPageNotLoaded
	}

	var created []string
	for title := range origin.Links() {
		neighbor := wiki.FromTitle(title)
		if neighbor.Pathinfo() == origin.Pathinfo() {
			continue
		}
		_, isNew, err := gr.Add(neighbor)
		if err != nil {
			return created, err
		}
		if isNew {
			created = append(created, neighbor.Pathinfo())
		}
		if err := gr.addEdge(origin.Pathinfo(), neighbor.Pathinfo()); err != nil {
			return created, err
		}
	}
	return created, nil
}

// addEdge inserts origin -> target, tolerating edges that already exist.
func (gr *Graph) addEdge(origin, target string) error {
	err := gr.g.AddEdge(origin, target)
	if err == nil || errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
		return nil
	}
	return fmt.Errorf("graph: add edge %s -> %s: %w", origin, target, err)
}

// HasEdge reports whether origin links to target in the explored graph.
func (gr *Graph) HasEdge(origin, target string) bool {
	_, err := gr.g.Edge(origin, target)
	return err == nil
}

// Order returns the node count.
func (gr *Graph) Order() int {
	n, err := gr.g.Order()
	if err != nil {
		return 0
	}
	return n
}

// Size returns the edge count.
func (gr *Graph) Size() int {
	n, err := gr.g.Size()
	if err != nil {
		return 0
	}
	return n
}

// Keys returns every node pathinfo in sorted order.
func (gr *Graph) Keys() []string {
	adjacency, err := gr.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(adjacency))
	for key := range adjacency {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Neighbors returns the pathinfos origin links to, in sorted order.
func (gr *Graph) Neighbors(origin string) ([]string, error) {
	if _, err := gr.Page(origin); err != nil {
		return nil, err
	}
	adjacency, err := gr.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("graph: adjacency: %w", err)
	}
	edges := adjacency[origin]
	neighbors := make([]string, 0, len(edges))
	for target := range edges {
		neighbors = append(neighbors, target)
	}
	sort.Strings(neighbors)
	return neighbors, nil
}

// LoadedCount returns how many nodes currently hold a fetched body.
func (gr *Graph) LoadedCount() int {
	count := 0
	for _, key := range gr.Keys() {
		if page, err := gr.Page(key); err == nil && page.Loaded() {
			count++
		}
	}
	return count
}
