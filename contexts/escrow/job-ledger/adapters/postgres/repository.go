package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"jobescrow/contexts/escrow/job-ledger/domain/entities"
	domainerrors "jobescrow/contexts/escrow/job-ledger/domain/errors"
	"jobescrow/contexts/escrow/job-ledger/ports"
	"jobescrow/internal/shared/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ledgerSequenceID keys the single row holding next_job_id.
const ledgerSequenceID = 1

var errSequenceMissing = errors.New("job sequence row missing; run Migrate")

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the ledger tables and seeds the handle sequence at 1.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&jobModel{}, &jobSequenceModel{}, &outboxModel{}); err != nil {
		return fmt.Errorf("migrate job ledger: %w", err)
	}
	seed := jobSequenceModel{SequenceID: ledgerSequenceID, NextJobID: 1}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sequence_id"}},
			DoNothing: true,
		}).
		Create(&seed).
		Error; err != nil {
		return fmt.Errorf("seed job sequence: %w", err)
	}
	r.logger.Info("job ledger schema ready",
		"event", "job_ledger_migrated",
		"module", "escrow/job-ledger",
		"layer", "adapter",
	)
	return nil
}

func (r *Repository) CreateJob(ctx context.Context, job entities.Job, event ports.EventBuilder) (entities.Job, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq jobSequenceModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("sequence_id = ?", ledgerSequenceID).
			First(&seq).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errSequenceMissing
			}
			return err
		}

		job.JobID = seq.NextJobID
		row := jobModelFromEntity(job)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("job handle %d already allocated: %w", job.JobID, err)
			}
			return err
		}
		if err := tx.Model(&jobSequenceModel{}).
			Where("sequence_id = ?", ledgerSequenceID).
			Update("next_job_id", seq.NextJobID+1).
			Error; err != nil {
			return err
		}
		return r.appendOutbox(tx, job, event)
	})
	if err != nil {
		return entities.Job{}, err
	}
	return job, nil
}

func (r *Repository) MutateJob(
	ctx context.Context,
	jobID uint64,
	mutate func(job *entities.Job) error,
	event ports.EventBuilder,
) (entities.Job, error) {
	var result entities.Job
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row jobModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("job_id = ?", jobID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrJobNotFound
			}
			return err
		}

		job := row.toEntity()
		if err := mutate(&job); err != nil {
			return err
		}
		if err := tx.Model(&jobModel{}).
			Where("job_id = ?", jobID).
			Updates(jobUpdatesFromEntity(job)).
			Error; err != nil {
			return err
		}
		if err := r.appendOutbox(tx, job, event); err != nil {
			return err
		}
		result = job
		return nil
	})
	if err != nil {
		return entities.Job{}, err
	}
	return result, nil
}

func (r *Repository) GetJob(ctx context.Context, jobID uint64) (entities.Job, error) {
	var row jobModel
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Job{}, domainerrors.ErrJobNotFound
		}
		return entities.Job{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListJobs(ctx context.Context, filter ports.JobFilter) ([]entities.Job, error) {
	tx := r.db.WithContext(ctx).Model(&jobModel{})
	if strings.TrimSpace(filter.ClientAddress) != "" {
		tx = tx.Where("client_address = ?", strings.TrimSpace(filter.ClientAddress))
	}
	if strings.TrimSpace(filter.FreelancerAddress) != "" {
		tx = tx.Where("freelancer_address = ?", strings.TrimSpace(filter.FreelancerAddress))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []jobModel
	if err := tx.Order("job_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Job, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) NextJobID(ctx context.Context) (uint64, error) {
	var seq jobSequenceModel
	err := r.db.WithContext(ctx).
		Where("sequence_id = ?", ledgerSequenceID).
		First(&seq).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errSequenceMissing
		}
		return 0, err
	}
	return seq.NextJobID, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			Status:       row.Status,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidJobInput
	}
	return nil
}

func (r *Repository) appendOutbox(tx *gorm.DB, job entities.Job, event ports.EventBuilder) error {
	if event == nil {
		return nil
	}
	envelope, err := event(job)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := tx.
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).
		Error; err != nil {
		return err
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return nil
}

type jobModel struct {
	JobID                 uint64    `gorm:"column:job_id;primaryKey;autoIncrement:false"`
	Brief                 string    `gorm:"column:brief;type:text;not null"`
	Budget                uint64    `gorm:"column:budget;type:numeric(20,0);not null"`
	Deadline              string    `gorm:"column:deadline;type:text;not null"`
	ClientAddress         string    `gorm:"column:client_address;index"`
	FreelancerAddress     string    `gorm:"column:freelancer_address;index"`
	SubmissionURL         string    `gorm:"column:submission_url;type:text"`
	SubmissionDescription string    `gorm:"column:submission_description;type:text"`
	Status                string    `gorm:"column:status;index"`
	Feedback              string    `gorm:"column:feedback;type:text"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (jobModel) TableName() string {
	return "escrow_jobs"
}

func jobModelFromEntity(item entities.Job) jobModel {
	return jobModel{
		JobID:                 item.JobID,
		Brief:                 item.Brief,
		Budget:                item.Budget,
		Deadline:              item.Deadline,
		ClientAddress:         item.ClientAddress,
		FreelancerAddress:     item.FreelancerAddress,
		SubmissionURL:         item.SubmissionURL,
		SubmissionDescription: item.SubmissionDescription,
		Status:                string(item.Status),
		Feedback:              item.Feedback,
		CreatedAt:             item.CreatedAt.UTC(),
		UpdatedAt:             item.UpdatedAt.UTC(),
	}
}

// jobUpdatesFromEntity lists the mutable columns only; brief, budget,
// deadline and client are write-once.
func jobUpdatesFromEntity(item entities.Job) map[string]any {
	row := jobModelFromEntity(item)
	return map[string]any{
		"freelancer_address":     row.FreelancerAddress,
		"submission_url":         row.SubmissionURL,
		"submission_description": row.SubmissionDescription,
		"status":                 row.Status,
		"feedback":               row.Feedback,
		"updated_at":             row.UpdatedAt,
	}
}

func (m jobModel) toEntity() entities.Job {
	return entities.Job{
		JobID:                 m.JobID,
		Brief:                 m.Brief,
		Budget:                m.Budget,
		Deadline:              m.Deadline,
		ClientAddress:         m.ClientAddress,
		FreelancerAddress:     m.FreelancerAddress,
		SubmissionURL:         m.SubmissionURL,
		SubmissionDescription: m.SubmissionDescription,
		Status:                entities.JobStatus(m.Status),
		Feedback:              m.Feedback,
		CreatedAt:             m.CreatedAt.UTC(),
		UpdatedAt:             m.UpdatedAt.UTC(),
	}
}

type jobSequenceModel struct {
	SequenceID int    `gorm:"column:sequence_id;primaryKey;autoIncrement:false"`
	NextJobID  uint64 `gorm:"column:next_job_id;not null"`
}

func (jobSequenceModel) TableName() string {
	return "escrow_job_sequence"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "escrow_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
