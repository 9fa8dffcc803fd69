package wiki

import (
	"context"
	"sync"
	"time"
)

// FetchResult is the terminal outcome of one logical fetch: either the raw
// response body or the error that ended the attempt.
type FetchResult struct {
	Body string
	Err  error
}

// completionCell is a one-shot mailbox. The transport goroutine deposits
// exactly one result; the first deposit wins and later ones are dropped.
// Withdrawals are destructive so a result is observed at most once through
// the cell.
type completionCell struct {
	mu     sync.Mutex
	result *FetchResult
}

func (c *completionCell) deposit(r FetchResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result != nil {
		return false
	}
	c.result = &r
	return true
}

func (c *completionCell) withdraw() (FetchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return FetchResult{}, false
	}
	r := *c.result
	c.result = nil
	return r, true
}

// Pending is an in-flight fetch. Wait parks the caller until the transport
// finishes or the timeout fires; Poll is for callers that must keep
// servicing their own loop and check in periodically. Once a Pending has
// reported a terminal outcome it keeps reporting that same outcome, even if
// the transport finishes late after a timeout.
type Pending struct {
	cell    completionCell
	ch      chan FetchResult
	started time.Time
	timeout time.Duration

	mu       sync.Mutex
	done     bool
	terminal FetchResult
	took     time.Duration
}

func newPending(timeout time.Duration) *Pending {
	return &Pending{
		ch:      make(chan FetchResult, 1),
		started: time.Now(),
		timeout: timeout,
	}
}

// complete records the fetch outcome. Only the first call per Pending has
// any effect; the transport may lose a timeout race and complete late, in
// which case the result lands unread.
func (p *Pending) complete(r FetchResult) {
	if !p.cell.deposit(r) {
		return
	}
	p.ch <- r
}

// Wait blocks until the fetch finishes or the configured timeout elapses.
// A zero timeout waits indefinitely.
func (p *Pending) Wait() FetchResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return p.terminal
	}

	if p.timeout <= 0 {
		p.finishLocked(<-p.ch)
		return p.terminal
	}

	remaining := p.timeout - time.Since(p.started)
	if remaining <= 0 {
		p.finishLocked(FetchResult{Err: ErrTimeout})
		return p.terminal
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case r := <-p.ch:
		p.finishLocked(r)
	case <-timer.C:
		p.finishLocked(FetchResult{Err: ErrTimeout})
	}
	return p.terminal
}

// WaitContext behaves like Wait but also gives up when ctx is cancelled.
// Cancellation is not a terminal outcome: the transport keeps running and a
// later Wait or Poll can still collect its result.
func (p *Pending) WaitContext(ctx context.Context) FetchResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return p.terminal
	}

	var expired <-chan time.Time
	if p.timeout > 0 {
		remaining := p.timeout - time.Since(p.started)
		if remaining <= 0 {
			p.finishLocked(FetchResult{Err: ErrTimeout})
			return p.terminal
		}
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case r := <-p.ch:
		p.finishLocked(r)
		return p.terminal
	case <-expired:
		p.finishLocked(FetchResult{Err: ErrTimeout})
		return p.terminal
	case <-ctx.Done():
		return FetchResult{Err: ctx.Err()}
	}
}

// Poll is the cooperative counterpart to Wait. It never blocks: it returns
// the outcome and true once the fetch has finished or its deadline passed,
// and false while the fetch is still in flight. Callers loop, doing their
// own work between polls.
func (p *Pending) Poll() (FetchResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return p.terminal, true
	}

	if r, ok := p.cell.withdraw(); ok {
		// Drain the channel copy so the buffered duplicate cannot
		// leak to a later Wait.
		select {
		case <-p.ch:
		default:
		}
		p.finishLocked(r)
		return p.terminal, true
	}

	if p.timeout > 0 && time.Since(p.started) >= p.timeout {
		p.finishLocked(FetchResult{Err: ErrTimeout})
		return p.terminal, true
	}

	return FetchResult{}, false
}

// Elapsed reports how long the fetch has been running, or took to finish.
func (p *Pending) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return p.took
	}
	return time.Since(p.started)
}

func (p *Pending) finishLocked(r FetchResult) {
	p.done = true
	p.terminal = r
	p.took = time.Since(p.started)
}
