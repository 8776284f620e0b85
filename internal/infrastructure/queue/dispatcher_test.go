package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ngcore/auth-api/internal/core/domain"
)

type collectingRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	done   chan struct{}
	want   int
}

func newCollectingRepo(want int) *collectingRepo {
	return &collectingRepo{done: make(chan struct{}), want: want}
}

func (r *collectingRepo) Insert(_ context.Context, event *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	if len(r.events) == r.want {
		close(r.done)
	}
	return nil
}

func (r *collectingRepo) wait(t *testing.T) []domain.AuditEvent {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %d events", r.want)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEvent, len(r.events))
	copy(out, r.events)
	return out
}

func TestAuditDispatcher_PerUserOrdering(t *testing.T) {
	const n = 20
	repo := newCollectingRepo(n)
	d := NewAuditDispatcher(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	actions := []domain.AuditAction{
		domain.AuditLoginFailed, domain.AuditLoginFailed,
		domain.AuditLoginSucceeded, domain.AuditLoginFailed,
	}
	for i := 0; i < n; i++ {
		d.Record(domain.AuditEvent{
			Username:  "bob",
			Action:    actions[i%len(actions)],
			Detail:    string(rune('a' + i)),
			Timestamp: time.Now().UTC(),
		})
	}

	events := repo.wait(t)
	for i, ev := range events {
		if ev.Username != "bob" {
			t.Fatalf("unexpected username %q", ev.Username)
		}
		if ev.Detail != string(rune('a'+i)) {
			t.Fatalf("event %d out of order: got detail %q", i, ev.Detail)
		}
	}
}

func TestAuditDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewAuditDispatcher(4, newCollectingRepo(0), zerolog.Nop())
	first := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("alice"); got != first {
			t.Fatalf("shard index changed: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= len(d.workers) {
		t.Fatalf("shard index %d out of range", first)
	}
}

func TestAuditDispatcher_FullQueueDropsWithoutBlocking(t *testing.T) {
	// No workers running, so the buffer fills and further records must drop
	// instead of blocking the caller.
	d := NewAuditDispatcher(1, newCollectingRepo(0), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < channelBuffer+10; i++ {
			d.Record(domain.AuditEvent{Username: "bob", Action: domain.AuditLoginFailed})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full queue")
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected a full buffer of %d, got %d", channelBuffer, got)
	}
}

func TestAuditDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewAuditDispatcher(0, newCollectingRepo(0), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
