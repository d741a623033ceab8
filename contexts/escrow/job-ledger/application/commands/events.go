package commands

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"jobescrow/contexts/escrow/job-ledger/domain/entities"
	"jobescrow/contexts/escrow/job-ledger/ports"
)

const (
	EventJobPosted            = "job.posted"
	EventJobDeliverySubmitted = "job.delivery_submitted"
	EventJobJudged            = "job.judged"
)

func newJobEnvelope(
	eventID string,
	eventType string,
	jobID uint64,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "job-ledger",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "job_id",
		PartitionKey:     strconv.FormatUint(jobID, 10),
		Data:             payload,
	}, nil
}

// jobEvent returns a builder that snapshots the written job into an envelope
// of the given type. The event id is drawn when the builder runs, inside the
// repository transaction.
func jobEvent(ctx context.Context, idGen ports.IDGenerator, eventType string, now time.Time) ports.EventBuilder {
	if idGen == nil {
		return nil
	}
	return func(job entities.Job) (ports.EventEnvelope, error) {
		eventID, err := idGen.NewID(ctx)
		if err != nil {
			return ports.EventEnvelope{}, err
		}
		return newJobEnvelope(eventID, eventType, job.JobID, now, map[string]any{
			"job_id":             job.JobID,
			"status":             string(job.Status),
			"client_address":     job.ClientAddress,
			"freelancer_address": job.FreelancerAddress,
			"budget":             job.Budget,
			"feedback":           job.Feedback,
		})
	}
}
