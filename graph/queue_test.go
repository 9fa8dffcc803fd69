package graph

import (
	"sync"
	"testing"
)

func TestQueuePushDrain(t *testing.T) {
	q := &Queue{}
	q.Push(Outcome{Origin: "Waffle"})
	q.Push(Outcome{Origin: "Belgium"})

	if q.Len() != 2 {
		t.Errorf("Len = %d, want 2", q.Len())
	}

	drained := q.Drain()
	if len(drained) != 2 || drained[0].Origin != "Waffle" || drained[1].Origin != "Belgium" {
		t.Errorf("Drain = %v", drained)
	}
	if q.Len() != 0 {
		t.Errorf("Len after drain = %d, want 0", q.Len())
	}
	if again := q.Drain(); len(again) != 0 {
		t.Errorf("second Drain = %v, want empty", again)
	}
}

func TestQueueConcurrentPush(t *testing.T) {
	q := &Queue{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Push(Outcome{Origin: "page"})
		}()
	}
	wg.Wait()

	if got := len(q.Drain()); got != 50 {
		t.Errorf("drained %d outcomes, want 50", got)
	}
}
