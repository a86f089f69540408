package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

type memAudit struct {
	mu     sync.Mutex
	events []domain.LoginEvent
	err    error
	block  chan struct{}
}

func (m *memAudit) InsertLoginEvent(_ context.Context, e *domain.LoginEvent) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, *e)
	return nil
}

func (m *memAudit) snapshot() []domain.LoginEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.LoginEvent, len(m.events))
	copy(out, m.events)
	return out
}

func TestDispatcher_WritesEvents(t *testing.T) {
	repo := &memAudit{}
	d := NewDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for _, email := range []string{"a@iset.tn", "b@iset.tn", "c@iset.tn"} {
		d.Record(domain.LoginEvent{Email: email, Outcome: domain.LoginFailed})
	}

	require.Eventually(t, func() bool { return len(repo.snapshot()) == 3 }, time.Second, 5*time.Millisecond)

	cancel()
	d.Wait()
}

func TestDispatcher_PerEmailOrder(t *testing.T) {
	repo := &memAudit{}
	d := NewDispatcher(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	outcomes := []domain.LoginOutcome{domain.LoginFailed, domain.LoginFailed, domain.LoginThrottled, domain.LoginSucceeded}
	for _, o := range outcomes {
		d.Record(domain.LoginEvent{Email: "admin@iset.tn", Outcome: o})
	}

	require.Eventually(t, func() bool { return len(repo.snapshot()) == len(outcomes) }, time.Second, 5*time.Millisecond)
	for i, e := range repo.snapshot() {
		require.Equal(t, outcomes[i], e.Outcome)
	}
}

func TestDispatcher_DrainsOnStop(t *testing.T) {
	repo := &memAudit{}
	d := NewDispatcher(1, repo, zerolog.Nop())

	// Queue before starting so the events are buffered when ctx is cancelled.
	for i := 0; i < 5; i++ {
		d.Record(domain.LoginEvent{Email: "x@iset.tn"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	require.Len(t, repo.snapshot(), 5)
}

func TestDispatcher_RecordNeverBlocks(t *testing.T) {
	repo := &memAudit{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer*2; i++ {
			d.Record(domain.LoginEvent{Email: "flood@iset.tn"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full queue")
	}

	close(repo.block)
	cancel()
	d.Wait()
}

func TestDispatcher_WriteFailureIsNotFatal(t *testing.T) {
	repo := &memAudit{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	d.Record(domain.LoginEvent{Email: "a@iset.tn"})

	cancel()
	d.Wait()
	require.Empty(t, repo.snapshot())
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(8, &memAudit{}, zerolog.Nop())

	first := d.shardIndex("admin@iset.tn")
	for i := 0; i < 10; i++ {
		require.Equal(t, first, d.shardIndex("admin@iset.tn"))
	}
	require.GreaterOrEqual(t, first, 0)
	require.Less(t, first, 8)
}
