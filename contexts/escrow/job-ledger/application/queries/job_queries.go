package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "jobescrow/contexts/escrow/job-ledger/application"
	"jobescrow/contexts/escrow/job-ledger/domain/entities"
	domainerrors "jobescrow/contexts/escrow/job-ledger/domain/errors"
	"jobescrow/contexts/escrow/job-ledger/ports"
)

type ListJobsQuery struct {
	ClientAddress     string
	FreelancerAddress string
	Status            string
}

// QueryUseCase serves side-effect-free reads. Field accessors never report an
// unknown handle as an error: they return "" or 0 so callers can probe for
// existence cheaply. The only error they surface is a storage failure.
type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc QueryUseCase) GetJob(ctx context.Context, jobID uint64) (entities.Job, error) {
	return uc.Repository.GetJob(ctx, jobID)
}

func (uc QueryUseCase) ListJobs(ctx context.Context, query ListJobsQuery) ([]entities.Job, error) {
	filter := ports.JobFilter{
		ClientAddress:     strings.TrimSpace(query.ClientAddress),
		FreelancerAddress: strings.TrimSpace(query.FreelancerAddress),
	}
	if status := strings.ToUpper(strings.TrimSpace(query.Status)); status != "" {
		filter.Status = entities.JobStatus(status)
		if !filter.Status.Valid() {
			return nil, domainerrors.ErrInvalidJobInput
		}
	}
	return uc.Repository.ListJobs(ctx, filter)
}

func (uc QueryUseCase) NextJobID(ctx context.Context) (uint64, error) {
	return uc.Repository.NextJobID(ctx)
}

func (uc QueryUseCase) Status(ctx context.Context, jobID uint64) (string, error) {
	job, err := uc.probe(ctx, jobID)
	return string(job.Status), err
}

func (uc QueryUseCase) Feedback(ctx context.Context, jobID uint64) (string, error) {
	job, err := uc.probe(ctx, jobID)
	return job.Feedback, err
}

func (uc QueryUseCase) SubmissionURL(ctx context.Context, jobID uint64) (string, error) {
	job, err := uc.probe(ctx, jobID)
	return job.SubmissionURL, err
}

func (uc QueryUseCase) SubmissionDescription(ctx context.Context, jobID uint64) (string, error) {
	job, err := uc.probe(ctx, jobID)
	return job.SubmissionDescription, err
}

func (uc QueryUseCase) Brief(ctx context.Context, jobID uint64) (string, error) {
	job, err := uc.probe(ctx, jobID)
	return job.Brief, err
}

func (uc QueryUseCase) Budget(ctx context.Context, jobID uint64) (uint64, error) {
	job, err := uc.probe(ctx, jobID)
	return job.Budget, err
}

func (uc QueryUseCase) Deadline(ctx context.Context, jobID uint64) (string, error) {
	job, err := uc.probe(ctx, jobID)
	return job.Deadline, err
}

func (uc QueryUseCase) Client(ctx context.Context, jobID uint64) (string, error) {
	job, err := uc.probe(ctx, jobID)
	return job.ClientAddress, err
}

func (uc QueryUseCase) Freelancer(ctx context.Context, jobID uint64) (string, error) {
	job, err := uc.probe(ctx, jobID)
	return job.FreelancerAddress, err
}

// probe returns the zero Job for unknown handles.
func (uc QueryUseCase) probe(ctx context.Context, jobID uint64) (entities.Job, error) {
	job, err := uc.Repository.GetJob(ctx, jobID)
	if err == nil {
		return job, nil
	}
	if errors.Is(err, domainerrors.ErrJobNotFound) {
		return entities.Job{}, nil
	}
	application.ResolveLogger(uc.Logger).Error("job read failed",
		"event", "job_read_failed",
		"module", "escrow/job-ledger",
		"layer", "application",
		"job_id", jobID,
		"error", err.Error(),
	)
	return entities.Job{}, err
}
