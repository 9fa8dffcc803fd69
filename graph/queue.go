package graph

import (
	"sync"

	"github.com/olgasafonova/wikigraph-mcp-server/wiki"
)

// Outcome is one finished fetch waiting to be applied to the graph: the
// origin node it was fetched for, and either its parsed body or the error
// that stopped it.
type Outcome struct {
	Origin string
	Body   wiki.Body
	Err    error
}

// Queue buffers fetch outcomes produced by transport goroutines until a
// single consumer drains them into the graph. Safe for concurrent pushes.
type Queue struct {
	mu      sync.Mutex
	pending []Outcome
}

// Push appends one outcome.
func (q *Queue) Push(o Outcome) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, o)
}

// Drain removes and returns every buffered outcome in push order.
func (q *Queue) Drain() []Outcome {
	q.mu.Lock()
	defer q.mu.Unlock()
	drained := q.pending
	q.pending = nil
	return drained
}

// Len reports the number of buffered outcomes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
