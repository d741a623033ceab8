package ports

import (
	"context"
	"time"

	"jobescrow/contexts/escrow/job-ledger/domain/entities"
	"jobescrow/internal/shared/events"
	"jobescrow/internal/shared/outbox"
)

type JobFilter struct {
	ClientAddress     string
	FreelancerAddress string
	Status            entities.JobStatus
}

// EventEnvelope reuses the shared envelope contract.
type EventEnvelope = events.Envelope

// OutboxMessage is a pending outbox row ready to relay.
type OutboxMessage = outbox.Message

// EventBuilder derives the outbox event for a job write. Repositories persist
// the returned envelope in the same transaction as the job row; a nil builder
// writes no event.
type EventBuilder func(job entities.Job) (EventEnvelope, error)

// Repository owns job persistence and the job handle sequence. Every method
// that writes is all-or-nothing.
type Repository interface {
	// CreateJob assigns the next handle and persists the job and its event.
	CreateJob(ctx context.Context, job entities.Job, event EventBuilder) (entities.Job, error)
	// MutateJob loads the job under a write lock and applies mutate. A mutate
	// error aborts the write and is returned unchanged.
	MutateJob(ctx context.Context, jobID uint64, mutate func(job *entities.Job) error, event EventBuilder) (entities.Job, error)
	GetJob(ctx context.Context, jobID uint64) (entities.Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]entities.Job, error)
	NextJobID(ctx context.Context) (uint64, error)
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher publishes envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
