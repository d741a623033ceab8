package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	application "jobescrow/contexts/escrow/judging-engine/application"
	"jobescrow/contexts/escrow/judging-engine/application/scoring"
	domainerrors "jobescrow/contexts/escrow/judging-engine/domain/errors"
	"jobescrow/contexts/escrow/judging-engine/domain/verdict"
	"jobescrow/contexts/escrow/judging-engine/ports"
)

type JudgeCommand struct {
	JobID uint64
}

type JudgeResult struct {
	JobID     uint64
	Verdict   verdict.Verdict
	Consensus bool
}

// JudgeUseCase evaluates a SUBMITTED job and commits one verdict. Fetcher,
// Consensus and Locker are optional; nil selects the documented fallback.
type JudgeUseCase struct {
	Ledger    ports.Ledger
	Fetcher   ports.Fetcher
	Consensus ports.Consensus
	Locker    ports.JobLocker
	// StrictVerdicts rejects consensus results without a recognised outcome
	// prefix instead of reading them as REVISION.
	StrictVerdicts bool
	Logger         *slog.Logger
}

func (uc JudgeUseCase) Execute(ctx context.Context, cmd JudgeCommand) (JudgeResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	if uc.Locker != nil {
		unlock, err := uc.Locker.Lock(ctx, "judge:"+strconv.FormatUint(cmd.JobID, 10))
		if err != nil {
			return JudgeResult{}, err
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("judge lock release failed",
					"event", "judge_lock_release_failed",
					"module", "escrow/judging-engine",
					"layer", "application",
					"job_id", cmd.JobID,
					"error", err.Error(),
				)
			}
		}()
	}

	job, err := uc.Ledger.GetJob(ctx, cmd.JobID)
	if err != nil {
		return JudgeResult{}, err
	}
	if job.Status != ports.StatusSubmitted {
		return JudgeResult{}, fmt.Errorf("%w: job %d is %s", domainerrors.ErrInvalidStatusTransition, job.JobID, job.Status)
	}

	eval := scoring.Evaluation(scoring.Input{
		Brief:         job.Brief,
		SubmissionURL: job.SubmissionURL,
		Description:   job.SubmissionDescription,
	}, uc.Fetcher)

	raw, err := uc.evaluate(ctx, logger, job.JobID, eval)
	if err != nil {
		logger.Error("judge evaluation failed",
			"event", "judge_evaluation_failed",
			"module", "escrow/judging-engine",
			"layer", "application",
			"job_id", job.JobID,
			"error", err.Error(),
		)
		return JudgeResult{}, err
	}

	result, ok := verdict.Decode(raw)
	if !ok {
		if uc.StrictVerdicts {
			return JudgeResult{}, fmt.Errorf("%w: %q", domainerrors.ErrMalformedVerdict, raw)
		}
		logger.Warn("malformed verdict read as revision",
			"event", "judge_verdict_malformed",
			"module", "escrow/judging-engine",
			"layer", "application",
			"job_id", job.JobID,
		)
	}

	if err := uc.Ledger.RecordVerdict(ctx, job.JobID, result.Outcome(), result.Detail()); err != nil {
		return JudgeResult{}, err
	}

	logger.Info("job judged",
		"event", "job_judged",
		"module", "escrow/judging-engine",
		"layer", "application",
		"job_id", job.JobID,
		"verdict", string(result.Outcome()),
		"consensus", uc.Consensus != nil,
	)
	return JudgeResult{
		JobID:     job.JobID,
		Verdict:   result,
		Consensus: uc.Consensus != nil,
	}, nil
}

func (uc JudgeUseCase) evaluate(ctx context.Context, logger *slog.Logger, jobID uint64, eval ports.Evaluation) (string, error) {
	if uc.Consensus != nil {
		return uc.Consensus.StrictEquivalence(ctx, eval)
	}
	logger.Warn("consensus unavailable; evaluating once in-process",
		"event", "judge_consensus_unavailable",
		"module", "escrow/judging-engine",
		"layer", "application",
		"job_id", jobID,
	)
	return eval(ctx)
}
