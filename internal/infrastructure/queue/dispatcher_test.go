package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ideawall/ideawall/internal/core/domain"
	"github.com/ideawall/ideawall/internal/core/ports"
)

type recordingService struct {
	mu     sync.Mutex
	events map[string][]ports.RelationEventInput
}

func newRecordingService() *recordingService {
	return &recordingService{events: make(map[string][]ports.RelationEventInput)}
}

func (s *recordingService) Process(_ context.Context, event ports.RelationEventInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Actor] = append(s.events[event.Actor], event)
	return nil
}

func (s *recordingService) countFor(actor string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events[actor])
}

func (s *recordingService) actionsFor(actor string) []domain.RelationAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]domain.RelationAction, 0, len(s.events[actor]))
	for _, e := range s.events[actor] {
		actions = append(actions, e.Action)
	}
	return actions
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcher_ProcessesEnqueuedEvents(t *testing.T) {
	svc := newRecordingService()
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.RelationEventInput{Actor: "alice", Target: "bob", Action: domain.ActionRequestCreated})
	d.Enqueue(ports.RelationEventInput{Actor: "bob", Target: "alice", Action: domain.ActionRequestAccepted})

	waitFor(t, func() bool {
		return svc.countFor("alice") == 1 && svc.countFor("bob") == 1
	})
}

func TestDispatcher_PreservesPerActorOrder(t *testing.T) {
	svc := newRecordingService()
	d := NewDispatcher(8, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	sequence := []domain.RelationAction{
		domain.ActionRequestCreated,
		domain.ActionRequestAccepted,
		domain.ActionFollowerRemoved,
	}
	for _, action := range sequence {
		d.Enqueue(ports.RelationEventInput{Actor: "alice", Target: "bob", Action: action})
	}

	waitFor(t, func() bool { return svc.countFor("alice") == len(sequence) })

	got := svc.actionsFor("alice")
	for i, want := range sequence {
		if got[i] != want {
			t.Fatalf("event %d: got action %q, want %q", i, got[i], want)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, newRecordingService(), zerolog.Nop())

	for _, actor := range []string{"alice", "bob", "carol"} {
		first := d.shardIndex(actor)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(actor); got != first {
				t.Fatalf("shardIndex(%q) not stable: got %d, want %d", actor, got, first)
			}
		}
	}
}

func TestDispatcher_DefaultsWorkerCount(t *testing.T) {
	d := NewDispatcher(0, newRecordingService(), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("got %d workers, want %d", len(d.workers), defaultWorkers)
	}
}
