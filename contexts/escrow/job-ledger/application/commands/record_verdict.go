package commands

import (
	"context"
	"fmt"
	"log/slog"

	application "jobescrow/contexts/escrow/job-ledger/application"
	"jobescrow/contexts/escrow/job-ledger/domain/entities"
	domainerrors "jobescrow/contexts/escrow/job-ledger/domain/errors"
	"jobescrow/contexts/escrow/job-ledger/ports"
)

type RecordVerdictCommand struct {
	JobID    uint64
	Outcome  entities.JobStatus
	Feedback string
}

// RecordVerdictUseCase is the single write path of the judging engine. The
// SUBMITTED check runs inside the repository transaction, so of two racing
// judgments only the first commits.
type RecordVerdictUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc RecordVerdictUseCase) Execute(ctx context.Context, cmd RecordVerdictCommand) (entities.Job, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.Outcome.IsVerdict() {
		return entities.Job{}, fmt.Errorf("%w: unknown verdict %q", domainerrors.ErrInvalidJobInput, cmd.Outcome)
	}
	now := uc.Clock.Now().UTC()

	job, err := uc.Repository.MutateJob(ctx, cmd.JobID, func(job *entities.Job) error {
		if !entities.CanTransition(job.Status, cmd.Outcome) {
			return fmt.Errorf("%w: job %d is %s", domainerrors.ErrInvalidStatusTransition, job.JobID, job.Status)
		}
		job.ApplyVerdict(cmd.Outcome, cmd.Feedback, now)
		return nil
	}, jobEvent(ctx, uc.IDGen, EventJobJudged, now))
	if err != nil {
		return entities.Job{}, err
	}

	logger.Info("verdict recorded",
		"event", "job_verdict_recorded",
		"module", "escrow/job-ledger",
		"layer", "application",
		"job_id", job.JobID,
		"status", string(job.Status),
	)
	return job, nil
}
