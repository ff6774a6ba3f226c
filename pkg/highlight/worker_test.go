package highlight

import "testing"

func TestWorkerComputesLatestOnly(t *testing.T) {
	// Buffered so all three requests are queued before Run starts
	// draining, making the drain deterministic instead of a race against
	// the test goroutine's sends.
	w := &Worker{In: make(chan Request, 3), Out: make(chan Result, 1), done: make(chan struct{})}
	w.In <- Request{Lines: []string{"# v1"}, Version: 1}
	w.In <- Request{Lines: []string{"# v2"}, Version: 2}
	w.In <- Request{Lines: []string{"# v3"}, Version: 3}
	close(w.In)

	w.Run()

	result := <-w.Out
	if result.Version != 3 {
		t.Fatalf("expected latest-wins version 3, got %d", result.Version)
	}
}

func TestCallerDiscardsStaleVersions(t *testing.T) {
	var c Caller
	v1 := c.NextVersion()
	v2 := c.NextVersion()

	if c.Apply(Result{Version: v1}) {
		t.Fatal("expected stale v1 result discarded")
	}
	if !c.Apply(Result{Version: v2}) {
		t.Fatal("expected current v2 result applied")
	}
}

func TestWorkerSequentialRequestsAllAnswered(t *testing.T) {
	w := NewWorker()
	go w.Run()
	defer w.Stop()

	w.In <- Request{Lines: []string{"# a"}, Version: 1}
	r1 := <-w.Out
	if r1.Version != 1 {
		t.Fatalf("expected version 1, got %d", r1.Version)
	}

	w.In <- Request{Lines: []string{"# b"}, Version: 2}
	r2 := <-w.Out
	if r2.Version != 2 {
		t.Fatalf("expected version 2, got %d", r2.Version)
	}
}
