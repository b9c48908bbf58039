package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iho/mmconsole/internal/domain"
)

// DraftStore implements usecase.DraftStore using Redis. Each draft is one JSON
// value; concurrent writers are detected with WATCH and retried.
type DraftStore struct {
	client     *redis.Client
	prefix     string
	ttl        time.Duration
	maxRetries uint64
}

// NewDraftStore creates a new DraftStore. Drafts untouched for ttl expire.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{
		client:     client,
		prefix:     "draft:",
		ttl:        ttl,
		maxRetries: 5,
	}
}

// Create stores a new draft.
func (s *DraftStore) Create(ctx context.Context, draft domain.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", draft.ID, err)
	}

	return s.client.Set(ctx, s.prefix+draft.ID, data, s.ttl).Err()
}

// Get loads a draft.
func (s *DraftStore) Get(ctx context.Context, id string) (domain.Draft, error) {
	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	if err != nil {
		return domain.Draft{}, err
	}

	return decodeDraft(id, data)
}

// Update applies fn under WATCH. A concurrent write makes the transaction
// fail and the whole read-modify-write is retried; after maxRetries the
// caller gets ErrDraftConflict.
func (s *DraftStore) Update(ctx context.Context, id string, fn func(domain.Draft) (domain.Draft, error)) (domain.Draft, error) {
	key := s.prefix + id

	var out domain.Draft

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrDraftNotFound
		}
		if err != nil {
			return err
		}

		current, err := decodeDraft(id, data)
		if err != nil {
			return err
		}

		out = current

		next, err := fn(current)
		if err != nil {
			return err
		}

		next.ID = current.ID
		next.Version = current.Version + 1

		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode draft %s: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		out = next

		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 100 * time.Millisecond

	err := backoff.Retry(func() error {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}

		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(b, s.maxRetries), ctx))

	if errors.Is(err, redis.TxFailedErr) {
		return out, domain.ErrDraftConflict
	}

	return out, err
}

// Delete removes a draft.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.prefix+id).Result()
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrDraftNotFound
	}

	return nil
}

func decodeDraft(id string, data []byte) (domain.Draft, error) {
	var d domain.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return domain.Draft{}, fmt.Errorf("decode draft %s: %w", id, err)
	}

	return d, nil
}
