package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/mmconsole/internal/domain"
)

func testDraft(id string) domain.Draft {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	return domain.NewDraft(id, [domain.MinLines]string{id + "-1", id + "-2"}, now, "placement", "BDT", now)
}

func TestDraftStore_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewDraftStore(0)

	if err := s.Create(ctx, testDraft("d1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got.Lines))
	}

	if err := s.Delete(ctx, "d1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Get(ctx, "d1"); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "d1"); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound on second delete, got %v", err)
	}
}

func TestDraftStore_UpdateBumpsVersion(t *testing.T) {
	ctx := context.Background()
	s := NewDraftStore(0)
	_ = s.Create(ctx, testDraft("d1"))

	out, err := s.Update(ctx, "d1", func(d domain.Draft) (domain.Draft, error) {
		return d.WithHeader(d.ValueDate, "changed"), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Version != 1 || out.Narration != "changed" {
		t.Fatalf("unexpected draft after update: %+v", out)
	}

	_, err = s.Update(ctx, "d1", func(d domain.Draft) (domain.Draft, error) {
		return d, domain.ErrMinimumLines
	})
	if !errors.Is(err, domain.ErrMinimumLines) {
		t.Fatalf("expected fn error, got %v", err)
	}

	got, _ := s.Get(ctx, "d1")
	if got.Version != 1 {
		t.Fatalf("failed update must not persist, version %d", got.Version)
	}
}

func TestDraftStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewDraftStore(0)
	_ = s.Create(ctx, testDraft("d1"))

	got, _ := s.Get(ctx, "d1")
	got.Lines[0].AccountNo = "tampered"

	again, _ := s.Get(ctx, "d1")
	if again.Lines[0].AccountNo != "" {
		t.Fatalf("store shares line storage with callers")
	}
}

func TestDraftStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	s := NewDraftStore(time.Hour)
	s.now = func() time.Time { return now }
	_ = s.Create(ctx, testDraft("d1"))

	now = now.Add(59 * time.Minute)
	if _, err := s.Get(ctx, "d1"); err != nil {
		t.Fatalf("draft expired early: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := s.Get(ctx, "d1"); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Fatalf("expected expired draft to be gone, got %v", err)
	}
}
