// Package deletequeue accepts certified-deletion requests from
// possibly many callers, tags each accepted batch with a request ID,
// rate-limits how fast batches are drained, and serializes them onto
// the single goroutine that owns a *tree.Tree -- the tree package
// itself is documented as unsafe for concurrent Delete calls, so any
// caller fronting it with multiple goroutines needs exactly this.
package deletequeue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/wlattner/dart/tree"
)

// Result is delivered once a batch has been drained into the tree.
type Result struct {
	RequestID string
	Keys      []int
	Trace     []string
	Err       error
}

type request struct {
	id     string
	keys   []int
	result chan Result
}

// Queue serializes Delete calls onto a single tree, admitting new
// batches no faster than the configured rate.
type Queue struct {
	tr      *tree.Tree
	limiter *rate.Limiter
	reqs    chan request
	done    chan struct{}
}

// New returns a queue that drains into tr at up to burst batches,
// refilled at r batches/sec. Draining starts once Run is called in its
// own goroutine; call it before Submit.
func New(tr *tree.Tree, r rate.Limit, burst int) *Queue {
	return &Queue{
		tr:      tr,
		limiter: rate.NewLimiter(r, burst),
		reqs:    make(chan request),
		done:    make(chan struct{}),
	}
}

// Run drains submitted batches until ctx is done.
// It owns tr for the duration of the call: nothing else may touch tr
// concurrently.
func (q *Queue) Run(ctx context.Context) {
	defer close(q.done)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-q.reqs:
			if err := q.limiter.Wait(ctx); err != nil {
				req.result <- Result{RequestID: req.id, Keys: req.keys, Err: err}
				continue
			}
			trace, err := q.tr.Delete(req.keys)
			req.result <- Result{RequestID: req.id, Keys: req.keys, Trace: trace, Err: err}
		}
	}
}

// Submit enqueues a delete batch and blocks until Run has drained it,
// returning the request ID stamped on the batch and the tree's trace.
func (q *Queue) Submit(ctx context.Context, keys []int) (string, []string, error) {
	id := uuid.New().String()
	result := make(chan Result, 1)
	select {
	case q.reqs <- request{id: id, keys: keys, result: result}:
	case <-ctx.Done():
		return id, nil, ctx.Err()
	}

	select {
	case res := <-result:
		if res.Err != nil {
			return id, nil, fmt.Errorf("deletequeue: request %s: %w", id, res.Err)
		}
		return id, res.Trace, nil
	case <-ctx.Done():
		return id, nil, ctx.Err()
	}
}

// Wait blocks until Run has returned.
func (q *Queue) Wait() {
	<-q.done
}
