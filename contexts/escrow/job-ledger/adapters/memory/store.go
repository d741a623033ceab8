package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"jobescrow/contexts/escrow/job-ledger/domain/entities"
	domainerrors "jobescrow/contexts/escrow/job-ledger/domain/errors"
	"jobescrow/contexts/escrow/job-ledger/ports"
	"jobescrow/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store is the in-process ledger. A single mutex serialises every write, which
// gives each operation the same all-or-nothing visibility as a database
// transaction.
type Store struct {
	mu sync.RWMutex

	nextJobID uint64
	jobs      map[uint64]entities.Job
	outbox    []ports.OutboxMessage
}

func NewStore(seed []entities.Job) *Store {
	jobs := make(map[uint64]entities.Job, len(seed))
	next := uint64(1)
	for _, item := range seed {
		jobs[item.JobID] = item
		if item.JobID >= next {
			next = item.JobID + 1
		}
	}
	return &Store{
		nextJobID: next,
		jobs:      jobs,
	}
}

func (s *Store) CreateJob(_ context.Context, job entities.Job, event ports.EventBuilder) (entities.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job.JobID = s.nextJobID
	row, err := buildOutbox(job, event)
	if err != nil {
		return entities.Job{}, err
	}

	s.jobs[job.JobID] = job
	s.nextJobID++
	s.appendOutbox(row)
	return job, nil
}

func (s *Store) MutateJob(
	_ context.Context,
	jobID uint64,
	mutate func(job *entities.Job) error,
	event ports.EventBuilder,
) (entities.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.jobs[jobID]
	if !exists {
		return entities.Job{}, domainerrors.ErrJobNotFound
	}
	// Mutate a copy so an aborted write leaves the stored job untouched.
	next := current
	if err := mutate(&next); err != nil {
		return entities.Job{}, err
	}
	row, err := buildOutbox(next, event)
	if err != nil {
		return entities.Job{}, err
	}

	s.jobs[jobID] = next
	s.appendOutbox(row)
	return next, nil
}

func (s *Store) GetJob(_ context.Context, jobID uint64) (entities.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.jobs[jobID]
	if !exists {
		return entities.Job{}, domainerrors.ErrJobNotFound
	}
	return item, nil
}

func (s *Store) ListJobs(_ context.Context, filter ports.JobFilter) ([]entities.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Job, 0, len(s.jobs))
	for _, item := range s.jobs {
		if strings.TrimSpace(filter.ClientAddress) != "" && item.ClientAddress != strings.TrimSpace(filter.ClientAddress) {
			continue
		}
		if strings.TrimSpace(filter.FreelancerAddress) != "" && item.FreelancerAddress != strings.TrimSpace(filter.FreelancerAddress) {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].JobID < items[j].JobID
	})
	return items, nil
}

func (s *Store) NextJobID(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.nextJobID, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.outbox {
		if row.Status != outbox.StatusPending {
			continue
		}
		items = append(items, row)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].OutboxID == strings.TrimSpace(outboxID) {
			s.outbox[i].Status = outbox.StatusPublished
			return nil
		}
	}
	return domainerrors.ErrInvalidJobInput
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) appendOutbox(row *ports.OutboxMessage) {
	if row != nil {
		s.outbox = append(s.outbox, *row)
	}
}

func buildOutbox(job entities.Job, event ports.EventBuilder) (*ports.OutboxMessage, error) {
	if event == nil {
		return nil, nil
	}
	envelope, err := event(job)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, err
	}
	return &ports.OutboxMessage{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}, nil
}
