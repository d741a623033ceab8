package ports

import (
	"context"

	"jobescrow/contexts/escrow/judging-engine/domain/verdict"
)

// StatusSubmitted is the only ledger status a job may be judged from.
const StatusSubmitted = "SUBMITTED"

// JobSnapshot is the part of a ledger job the engine reads.
type JobSnapshot struct {
	JobID                 uint64
	Status                string
	Brief                 string
	SubmissionURL         string
	SubmissionDescription string
}

// Ledger is the engine's view of the job ledger. GetJob returns
// ErrJobNotFound for unknown handles; RecordVerdict returns
// ErrInvalidStatusTransition when the job is no longer SUBMITTED.
type Ledger interface {
	GetJob(ctx context.Context, jobID uint64) (JobSnapshot, error)
	RecordVerdict(ctx context.Context, jobID uint64, outcome verdict.Outcome, feedback string) error
}

// Fetcher returns the rendered text of a web resource.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Evaluation is a self-contained scoring run returning the wire verdict.
type Evaluation func(ctx context.Context) (string, error)

// Consensus runs eval in independent contexts and returns the single result
// they agree on byte for byte, or an error when they do not.
type Consensus interface {
	StrictEquivalence(ctx context.Context, eval Evaluation) (string, error)
}

// JobLocker serialises judgments of one job across processes. Lock returns
// ErrJudgeInProgress when another holder owns key.
type JobLocker interface {
	Lock(ctx context.Context, key string) (unlock func(context.Context) error, err error)
}
