package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/qfactory/mes-helper/internal/core/domain"
)

type recordingRepo struct {
	mu      sync.Mutex
	entries []*domain.QueryAudit
	err     error
}

func (r *recordingRepo) InsertQuery(_ context.Context, e *domain.QueryAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return r.err
}

func TestAuditWriter_WritesEverythingBeforeClose(t *testing.T) {
	repo := &recordingRepo{}
	w := NewAuditWriter(3, repo, zerolog.Nop())
	w.Start()

	for i := 0; i < 30; i++ {
		entry := &domain.QueryAudit{UserKey: fmt.Sprintf("u%d", i%4), Matched: i}
		if err := w.InsertQuery(context.Background(), entry); err != nil {
			t.Fatalf("InsertQuery: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(repo.entries) != 30 {
		t.Fatalf("expected 30 entries written, got %d", len(repo.entries))
	}

	// Per-user order is preserved.
	last := map[string]int{}
	for _, e := range repo.entries {
		if prev, ok := last[e.UserKey]; ok && e.Matched < prev {
			t.Fatalf("entries of %s written out of order", e.UserKey)
		}
		last[e.UserKey] = e.Matched
	}
}

func TestAuditWriter_DropsWhenFull(t *testing.T) {
	w := newAuditWriter(1, 1, &recordingRepo{}, zerolog.Nop())

	if err := w.InsertQuery(context.Background(), &domain.QueryAudit{UserKey: "u1"}); err != nil {
		t.Fatalf("first entry: %v", err)
	}
	if err := w.InsertQuery(context.Background(), &domain.QueryAudit{UserKey: "u1"}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestAuditWriter_RejectsAfterClose(t *testing.T) {
	w := NewAuditWriter(1, &recordingRepo{}, zerolog.Nop())
	w.Start()
	if err := w.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.InsertQuery(context.Background(), &domain.QueryAudit{}); err == nil {
		t.Fatal("expected error after close")
	}
	if err := w.Close(context.Background()); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestAuditWriter_RepositoryErrorsAreSwallowed(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo down")}
	w := NewAuditWriter(1, repo, zerolog.Nop())
	w.Start()
	if err := w.InsertQuery(context.Background(), &domain.QueryAudit{UserKey: "u1"}); err != nil {
		t.Fatalf("InsertQuery: %v", err)
	}
	if err := w.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatal("write should have been attempted")
	}
}
