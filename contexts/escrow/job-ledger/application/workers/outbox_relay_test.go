package workers

import (
	"context"
	"errors"
	"testing"

	"jobescrow/contexts/escrow/job-ledger/adapters/memory"
	"jobescrow/contexts/escrow/job-ledger/application/commands"
	"jobescrow/contexts/escrow/job-ledger/ports"
)

type recordingPublisher struct {
	topics []string
	events []ports.EventEnvelope
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func seedPostedJob(t *testing.T, store *memory.Store) {
	t.Helper()
	_, err := commands.PostJobUseCase{
		Repository: store,
		Clock:      store,
		IDGen:      store,
	}.Execute(context.Background(), commands.PostJobCommand{
		ClientAddress: "0xclient",
		Brief:         "brief",
		Budget:        10,
		Deadline:      "soon",
	})
	if err != nil {
		t.Fatalf("post job failed: %v", err)
	}
}

func TestOutboxRelayPublishesAndMarks(t *testing.T) {
	store := memory.NewStore(nil)
	seedPostedJob(t, store)
	publisher := &recordingPublisher{}

	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}
	published, err := relay.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if published != 1 {
		t.Fatalf("expected 1 published, got %d", published)
	}
	if publisher.topics[0] != commands.EventJobPosted {
		t.Fatalf("expected topic %s, got %s", commands.EventJobPosted, publisher.topics[0])
	}
	if publisher.events[0].PartitionKey != "1" {
		t.Fatalf("expected partition key 1, got %q", publisher.events[0].PartitionKey)
	}

	published, err = relay.RunOnce(context.Background())
	if err != nil || published != 0 {
		t.Fatalf("expected idle second cycle, got %d err=%v", published, err)
	}
}

func TestOutboxRelayLeavesRowsPendingOnPublishError(t *testing.T) {
	store := memory.NewStore(nil)
	seedPostedJob(t, store)
	broker := errors.New("broker down")

	relay := OutboxRelay{Outbox: store, Publisher: &recordingPublisher{err: broker}, Clock: store}
	if _, err := relay.RunOnce(context.Background()); !errors.Is(err, broker) {
		t.Fatalf("expected broker error, got %v", err)
	}
	pending, _ := store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 1 {
		t.Fatalf("expected row to stay pending, got %d", len(pending))
	}
}
