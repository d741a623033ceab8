package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobescrow/contexts/escrow/job-ledger/domain/entities"
	domainerrors "jobescrow/contexts/escrow/job-ledger/domain/errors"
	"jobescrow/contexts/escrow/job-ledger/ports"
	"jobescrow/internal/shared/outbox"
)

func testEvent(eventType string) ports.EventBuilder {
	return func(job entities.Job) (ports.EventEnvelope, error) {
		return ports.EventEnvelope{
			EventID:    eventType + "-evt",
			EventType:  eventType,
			OccurredAt: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			Data:       []byte(`{}`),
		}, nil
	}
}

func TestCreateJobAssignsSequentialIDs(t *testing.T) {
	store := NewStore(nil)
	now := time.Now().UTC()

	for want := uint64(1); want <= 3; want++ {
		created, err := store.CreateJob(context.Background(), entities.NewJob("brief", 1, "soon", "0xc", now), nil)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.JobID != want {
			t.Fatalf("expected job id %d, got %d", want, created.JobID)
		}
	}
	next, _ := store.NextJobID(context.Background())
	if next != 4 {
		t.Fatalf("expected next id 4, got %d", next)
	}
}

func TestNewStoreSeedAdvancesCounter(t *testing.T) {
	store := NewStore([]entities.Job{{JobID: 7, Status: entities.JobStatusOpen}})
	next, _ := store.NextJobID(context.Background())
	if next != 8 {
		t.Fatalf("expected next id 8, got %d", next)
	}
}

func TestMutateJobAbortLeavesJobUntouched(t *testing.T) {
	store := NewStore(nil)
	created, _ := store.CreateJob(context.Background(), entities.NewJob("brief", 1, "soon", "0xc", time.Now().UTC()), nil)

	abort := errors.New("abort")
	_, err := store.MutateJob(context.Background(), created.JobID, func(job *entities.Job) error {
		job.Status = entities.JobStatusApproved
		job.Feedback = "should not stick"
		return abort
	}, testEvent("job.judged"))
	if !errors.Is(err, abort) {
		t.Fatalf("expected abort error, got %v", err)
	}

	stored, _ := store.GetJob(context.Background(), created.JobID)
	if stored.Status != entities.JobStatusOpen || stored.Feedback != "" {
		t.Fatalf("expected untouched job, got %+v", stored)
	}
	pending, _ := store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("expected no outbox rows after abort, got %d", len(pending))
	}
}

func TestMutateJobUnknownID(t *testing.T) {
	store := NewStore(nil)
	_, err := store.MutateJob(context.Background(), 42, func(*entities.Job) error { return nil }, nil)
	if !errors.Is(err, domainerrors.ErrJobNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOutboxRowsWrittenWithJob(t *testing.T) {
	store := NewStore(nil)
	if _, err := store.CreateJob(context.Background(), entities.NewJob("brief", 1, "soon", "0xc", time.Now().UTC()), testEvent("job.posted")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "job.posted" || pending[0].Status != outbox.StatusPending {
		t.Fatalf("unexpected outbox rows: %+v", pending)
	}

	if err := store.MarkOutboxPublished(context.Background(), pending[0].OutboxID, time.Now()); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, _ = store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("expected empty pending outbox, got %d", len(pending))
	}
	if err := store.MarkOutboxPublished(context.Background(), "missing", time.Now()); err == nil {
		t.Fatal("expected error for unknown outbox id")
	}
}

func TestListJobsFiltersAndOrders(t *testing.T) {
	store := NewStore([]entities.Job{
		{JobID: 3, ClientAddress: "0xa", Status: entities.JobStatusOpen},
		{JobID: 1, ClientAddress: "0xa", Status: entities.JobStatusSubmitted, FreelancerAddress: "0xf"},
		{JobID: 2, ClientAddress: "0xb", Status: entities.JobStatusOpen},
	})

	items, _ := store.ListJobs(context.Background(), ports.JobFilter{ClientAddress: "0xa"})
	if len(items) != 2 || items[0].JobID != 1 || items[1].JobID != 3 {
		t.Fatalf("unexpected client filter result: %+v", items)
	}
	items, _ = store.ListJobs(context.Background(), ports.JobFilter{Status: entities.JobStatusOpen})
	if len(items) != 2 || items[0].JobID != 2 {
		t.Fatalf("unexpected status filter result: %+v", items)
	}
	items, _ = store.ListJobs(context.Background(), ports.JobFilter{FreelancerAddress: "0xf"})
	if len(items) != 1 || items[0].JobID != 1 {
		t.Fatalf("unexpected freelancer filter result: %+v", items)
	}
}
