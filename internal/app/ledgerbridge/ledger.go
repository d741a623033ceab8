// Package ledgerbridge adapts the job ledger to the judging engine's Ledger
// port so neither context imports the other.
package ledgerbridge

import (
	"context"
	"errors"
	"fmt"

	ledgerhttp "jobescrow/contexts/escrow/job-ledger/adapters/http"
	ledgererrors "jobescrow/contexts/escrow/job-ledger/domain/errors"
	judgeerrors "jobescrow/contexts/escrow/judging-engine/domain/errors"
	"jobescrow/contexts/escrow/judging-engine/domain/verdict"
	judgeports "jobescrow/contexts/escrow/judging-engine/ports"
)

type Ledger struct {
	Jobs ledgerhttp.Handler
}

func New(jobs ledgerhttp.Handler) Ledger {
	return Ledger{Jobs: jobs}
}

func (l Ledger) GetJob(ctx context.Context, jobID uint64) (judgeports.JobSnapshot, error) {
	job, err := l.Jobs.Queries.GetJob(ctx, jobID)
	if err != nil {
		return judgeports.JobSnapshot{}, translate(err)
	}
	return judgeports.JobSnapshot{
		JobID:                 job.JobID,
		Status:                string(job.Status),
		Brief:                 job.Brief,
		SubmissionURL:         job.SubmissionURL,
		SubmissionDescription: job.SubmissionDescription,
	}, nil
}

func (l Ledger) RecordVerdict(ctx context.Context, jobID uint64, outcome verdict.Outcome, feedback string) error {
	return translate(l.Jobs.RecordVerdictHandler(ctx, jobID, string(outcome), feedback))
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledgererrors.ErrJobNotFound):
		return fmt.Errorf("%w: %v", judgeerrors.ErrJobNotFound, err)
	case errors.Is(err, ledgererrors.ErrInvalidStatusTransition):
		return fmt.Errorf("%w: %v", judgeerrors.ErrInvalidStatusTransition, err)
	default:
		return err
	}
}
