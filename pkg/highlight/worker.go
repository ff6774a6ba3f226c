package highlight

import (
	"log"
)

// Request asks the worker to highlight one snapshot of buffer content,
// tagged with the version the caller had when it was sent.
type Request struct {
	Lines   []string
	Version uint64
}

// Result is the worker's reply: the highlight ranges for the snapshot
// tagged Version, or an empty slice if the worker recovered from a
// panic while computing it.
type Result struct {
	Version uint64
	Lines   []LineResult
}

// Worker is the single long-lived highlight goroutine. The caller sends
// Requests on In and receives Results on Out; Worker.Run drains In for
// the newest pending request before computing, so older requests never
// get a reply (latest-wins).
type Worker struct {
	In     chan Request
	Out    chan Result
	logger *log.Logger
	done   chan struct{}
}

// NewWorker returns a Worker with buffered request/result channels: the
// main thread must never block sending a request, and since the worker
// drains In to the newest entry before computing, queued stale requests
// cost nothing.
func NewWorker() *Worker {
	return &Worker{
		In:   make(chan Request, 64),
		Out:  make(chan Result, 8),
		done: make(chan struct{}),
	}
}

// SetLogger overrides the default logger used to report recovered panics.
func (w *Worker) SetLogger(l *log.Logger) { w.logger = l }

// Run blocks receiving requests until In is closed. Each iteration
// blocks for at least one request, then drains any further queued
// requests keeping only the most recent, computes highlights for it,
// and sends the result. A panic during computation is recovered and
// converted into an empty result for the request's version so the
// caller's receive doesn't hang.
func (w *Worker) Run() {
	defer close(w.done)
	for req, ok := <-w.In; ok; req, ok = <-w.In {
		req = w.drainToLatest(req)
		result := w.computeSafely(req)
		w.deliver(result)
	}
}

// deliver sends result without ever blocking: if the caller hasn't
// polled Out and the buffer is full, the oldest queued result is
// discarded — it's stale by definition, a newer one is being delivered.
func (w *Worker) deliver(result Result) {
	for {
		select {
		case w.Out <- result:
			return
		default:
		}
		select {
		case <-w.Out:
		default:
		}
	}
}

// Stop closes the input channel, letting Run drain and exit.
func (w *Worker) Stop() {
	close(w.In)
	<-w.done
}

func (w *Worker) drainToLatest(req Request) Request {
	for {
		select {
		case next, ok := <-w.In:
			if !ok {
				return req
			}
			req = next
		default:
			return req
		}
	}
}

func (w *Worker) computeSafely(req Request) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			if w.logger != nil {
				w.logger.Printf("highlight worker: recovered panic for version %d: %v", req.Version, r)
			}
			result = Result{Version: req.Version, Lines: []LineResult{}}
		}
	}()
	return Result{Version: req.Version, Lines: Highlight(req.Lines)}
}

// Caller tracks the current edit version on the main thread and decides
// whether an incoming Result should be applied.
type Caller struct {
	version uint64
}

// NextVersion increments and returns the caller's version counter; call
// this once per edit, then send a Request tagged with the new version.
func (c *Caller) NextVersion() uint64 {
	c.version++
	return c.version
}

// CurrentVersion returns the caller's current version without advancing it.
func (c *Caller) CurrentVersion() uint64 { return c.version }

// Apply reports whether result should be applied: only if its version
// matches the caller's current version. Stale results (from edits that
// have since been superseded) are discarded.
func (c *Caller) Apply(result Result) bool {
	return result.Version == c.version
}
