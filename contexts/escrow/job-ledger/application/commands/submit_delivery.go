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

type SubmitDeliveryCommand struct {
	JobID             uint64
	FreelancerAddress string
	URL               string
	Description       string
}

type SubmitDeliveryUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc SubmitDeliveryUseCase) Execute(ctx context.Context, cmd SubmitDeliveryCommand) (entities.Job, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now().UTC()

	job, err := uc.Repository.MutateJob(ctx, cmd.JobID, func(job *entities.Job) error {
		if !entities.CanTransition(job.Status, entities.JobStatusSubmitted) {
			return fmt.Errorf("%w: job %d is %s", domainerrors.ErrInvalidStatusTransition, job.JobID, job.Status)
		}
		if strings.TrimSpace(cmd.URL) == "" {
			return fmt.Errorf("%w: submission url is required", domainerrors.ErrInvalidJobInput)
		}
		if strings.TrimSpace(cmd.Description) == "" {
			return fmt.Errorf("%w: submission description is required", domainerrors.ErrInvalidJobInput)
		}
		job.Submit(cmd.FreelancerAddress, cmd.URL, cmd.Description, now)
		return nil
	}, jobEvent(ctx, uc.IDGen, EventJobDeliverySubmitted, now))
	if err != nil {
		return entities.Job{}, err
	}

	logger.Info("delivery submitted",
		"event", "job_delivery_submitted",
		"module", "escrow/job-ledger",
		"layer", "application",
		"job_id", job.JobID,
		"freelancer_address", job.FreelancerAddress,
	)
	return job, nil
}
