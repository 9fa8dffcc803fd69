// Benchmark harness for fetch and expansion performance. Fetches a seed
// article, expands it, then expands a handful of neighbors in a batch, and
// prints timings for each stage.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/olgasafonova/wikigraph-mcp-server/internal/explorer"
	"github.com/olgasafonova/wikigraph-mcp-server/wiki"
)

func measureFetchPerformance(seed string) {
	config, err := wiki.LoadConfig()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		return
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	client := wiki.NewClient(config, logger)

	start := time.Now()
	if err := client.Ping(); err != nil {
		fmt.Printf("API unreachable: %v\n", err)
		return
	}
	fmt.Printf("API reachable in %v\n", time.Since(start))
	fmt.Println()

	fmt.Println("=== Fetch Performance ===")
	fmt.Println()

	for _, kind := range []wiki.RequestKind{wiki.LinksAPI, wiki.WikitextAPI} {
		start := time.Now()
		body, err := client.GetKind(kind, seed)
		if err != nil {
			fmt.Printf("   %s fetch error: %v\n", kind, err)
			continue
		}
		elapsed := time.Since(start)

		links := 0
		for range body.Links() {
			links++
		}
		fmt.Printf("   %-8s %v (%d links)\n", kind, elapsed, links)
	}
	fmt.Println()
}

func measureExpandPerformance(seed string) {
	config, err := wiki.LoadConfig()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		return
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	client := wiki.NewClient(config, logger)
	session := explorer.NewSession(client, logger)
	defer session.Close()
	ctx := context.Background()

	fmt.Println("=== Expansion Performance ===")
	fmt.Println()

	start := time.Now()
	page, _, err := session.FetchPage(ctx, seed, "", false)
	if err != nil {
		fmt.Printf("   Seed fetch error: %v\n", err)
		return
	}
	fmt.Printf("   Seed fetch:       %v\n", time.Since(start))

	start = time.Now()
	created, err := session.ExpandNode(ctx, page.Pathinfo(), "")
	if err != nil {
		fmt.Printf("   Expand error: %v\n", err)
		return
	}
	fmt.Printf("   First expansion:  %v (%d new nodes)\n", time.Since(start), len(created))

	// Batch-expand the first few neighbors, overlapping their fetches.
	batch := make([]string, 0, 4)
	for _, neighbor := range created {
		batch = append(batch, neighbor.Pathinfo())
		if len(batch) == cap(batch) {
			break
		}
	}
	start = time.Now()
	expanded, errs, err := session.ExpandBatch(ctx, batch, "")
	if err != nil {
		fmt.Printf("   Batch error: %v\n", err)
		return
	}
	fmt.Printf("   Batch of %d:       %v (%d expanded, %d failed)\n",
		len(batch), time.Since(start), len(expanded), len(errs))

	stats := session.Stats(false)
	fmt.Printf("   Graph: %d nodes, %d edges, %d loaded\n", stats.Nodes, stats.Edges, stats.Loaded)
	fmt.Println()
}

func main() {
	seed := "Waffle"
	if len(os.Args) > 1 {
		seed = os.Args[1]
	}

	fmt.Printf("Wikigraph Performance Benchmark (seed: %s)\n", seed)
	fmt.Println("==========================================")
	fmt.Println()

	measureFetchPerformance(seed)
	measureExpandPerformance(seed)
}
