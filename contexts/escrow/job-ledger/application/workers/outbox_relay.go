package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "jobescrow/contexts/escrow/job-ledger/application"
	"jobescrow/contexts/escrow/job-ledger/ports"
)

// OutboxRelay publishes pending ledger events to the broker, oldest first.
// A failed publish stops the cycle so ordering per job is preserved.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("ledger outbox list failed",
			"event", "job_outbox_list_failed",
			"module", "escrow/job-ledger",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}

	published := 0
	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("ledger outbox decode failed",
				"event", "job_outbox_decode_failed",
				"module", "escrow/job-ledger",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return published, err
		}

		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("ledger outbox publish failed",
				"event", "job_outbox_publish_failed",
				"module", "escrow/job-ledger",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", event.EventType,
				"topic", topic,
				"error", err.Error(),
			)
			return published, err
		}

		now := time.Now().UTC()
		if r.Clock != nil {
			now = r.Clock.Now().UTC()
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("ledger outbox mark published failed",
				"event", "job_outbox_mark_published_failed",
				"module", "escrow/job-ledger",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return published, err
		}
		published++
	}

	if published > 0 {
		logger.Info("ledger outbox relay cycle completed",
			"event", "job_outbox_relay_completed",
			"module", "escrow/job-ledger",
			"layer", "worker",
			"published_count", published,
		)
	}
	return published, nil
}
