package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iho/mmconsole/internal/domain"
)

// DraftStore keeps drafts in process memory. It is used for single-node
// deployments and tests.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[string]entry
	ttl    time.Duration
	now    func() time.Time
}

type entry struct {
	draft     domain.Draft
	expiresAt time.Time
}

// NewDraftStore creates a store. A zero ttl keeps drafts until deleted.
func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{
		drafts: make(map[string]entry),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *DraftStore) Create(ctx context.Context, draft domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[draft.ID] = s.entryFor(draft)

	return nil
}

func (s *DraftStore) Get(ctx context.Context, id string) (domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id)
	if !ok {
		return domain.Draft{}, domain.ErrDraftNotFound
	}

	return copyDraft(e.draft), nil
}

// Update serializes writers on the store lock, so fn runs exactly once.
func (s *DraftStore) Update(ctx context.Context, id string, fn func(domain.Draft) (domain.Draft, error)) (domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id)
	if !ok {
		return domain.Draft{}, domain.ErrDraftNotFound
	}

	current := copyDraft(e.draft)

	next, err := fn(current)
	if err != nil {
		return current, err
	}

	next.ID = current.ID
	next.Version = current.Version + 1
	s.drafts[id] = s.entryFor(next)

	return copyDraft(next), nil
}

func (s *DraftStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(id); !ok {
		return domain.ErrDraftNotFound
	}

	delete(s.drafts, id)

	return nil
}

// lookup returns a live entry, evicting it when expired. Callers hold mu.
func (s *DraftStore) lookup(id string) (entry, bool) {
	e, ok := s.drafts[id]
	if !ok {
		return entry{}, false
	}

	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.drafts, id)
		return entry{}, false
	}

	return e, true
}

func (s *DraftStore) entryFor(d domain.Draft) entry {
	e := entry{draft: copyDraft(d)}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	return e
}

func copyDraft(d domain.Draft) domain.Draft {
	lines := make([]domain.TransactionLine, len(d.Lines))
	copy(lines, d.Lines)
	d.Lines = lines

	return d
}
