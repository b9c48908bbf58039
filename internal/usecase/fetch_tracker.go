package usecase

import (
	"context"
	"sync"
)

// fetchTracker remembers the in-flight lookup per line slot so that a newer
// request cancels the one it supersedes.
type fetchTracker struct {
	mu       sync.Mutex
	inflight map[string]inflightFetch
}

type inflightFetch struct {
	seq    uint64
	cancel context.CancelFunc
}

func newFetchTracker() *fetchTracker {
	return &fetchTracker{inflight: make(map[string]inflightFetch)}
}

// begin registers a fetch for key and returns its context plus a release func.
// An older fetch for the same key is cancelled. If a newer one is already
// registered the returned context is cancelled immediately.
func (t *fetchTracker) begin(ctx context.Context, key string, seq uint64) (context.Context, func()) {
	fctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	prev, ok := t.inflight[key]
	switch {
	case ok && prev.seq > seq:
		cancel()
	default:
		if ok {
			prev.cancel()
		}
		t.inflight[key] = inflightFetch{seq: seq, cancel: cancel}
	}
	t.mu.Unlock()

	release := func() {
		t.mu.Lock()
		if cur, ok := t.inflight[key]; ok && cur.seq == seq {
			delete(t.inflight, key)
		}
		t.mu.Unlock()
		cancel()
	}

	return fctx, release
}

func (t *fetchTracker) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.inflight)
}

func fetchKey(draftID, lineID string) string {
	return draftID + "/" + lineID
}
