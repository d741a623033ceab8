package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "jobescrow/contexts/escrow/job-ledger/application"
	"jobescrow/contexts/escrow/job-ledger/domain/entities"
	domainerrors "jobescrow/contexts/escrow/job-ledger/domain/errors"
	"jobescrow/contexts/escrow/job-ledger/ports"
)

type PostJobCommand struct {
	ClientAddress string
	Brief         string
	Budget        uint64
	Deadline      string
}

type PostJobUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc PostJobUseCase) Execute(ctx context.Context, cmd PostJobCommand) (entities.Job, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now().UTC()
	job := entities.NewJob(
		cmd.Brief,
		cmd.Budget,
		cmd.Deadline,
		cmd.ClientAddress,
		now,
	)
	if err := validatePost(job); err != nil {
		return entities.Job{}, err
	}

	created, err := uc.Repository.CreateJob(ctx, job, jobEvent(ctx, uc.IDGen, EventJobPosted, now))
	if err != nil {
		return entities.Job{}, err
	}
	logger.Info("job posted",
		"event", "job_posted",
		"module", "escrow/job-ledger",
		"layer", "application",
		"job_id", created.JobID,
		"client_address", created.ClientAddress,
		"budget", created.Budget,
	)
	return created, nil
}

func validatePost(job entities.Job) error {
	if job.ValidateCreate() {
		return nil
	}
	switch {
	case strings.TrimSpace(job.Brief) == "":
		return fmt.Errorf("%w: brief is required", domainerrors.ErrInvalidJobInput)
	case strings.TrimSpace(job.Deadline) == "":
		return fmt.Errorf("%w: deadline is required", domainerrors.ErrInvalidJobInput)
	default:
		return fmt.Errorf("%w: budget must be positive", domainerrors.ErrInvalidJobInput)
	}
}
