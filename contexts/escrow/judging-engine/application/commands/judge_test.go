package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domainerrors "jobescrow/contexts/escrow/judging-engine/domain/errors"
	"jobescrow/contexts/escrow/judging-engine/domain/verdict"
	"jobescrow/contexts/escrow/judging-engine/ports"
)

type fakeLedger struct {
	jobs     map[uint64]ports.JobSnapshot
	feedback map[uint64]string
	recorded []string
}

func newFakeLedger(jobs ...ports.JobSnapshot) *fakeLedger {
	ledger := &fakeLedger{
		jobs:     make(map[uint64]ports.JobSnapshot),
		feedback: make(map[uint64]string),
	}
	for _, job := range jobs {
		ledger.jobs[job.JobID] = job
	}
	return ledger
}

func (l *fakeLedger) GetJob(_ context.Context, jobID uint64) (ports.JobSnapshot, error) {
	job, ok := l.jobs[jobID]
	if !ok {
		return ports.JobSnapshot{}, domainerrors.ErrJobNotFound
	}
	return job, nil
}

func (l *fakeLedger) RecordVerdict(_ context.Context, jobID uint64, outcome verdict.Outcome, feedback string) error {
	job := l.jobs[jobID]
	if job.Status != ports.StatusSubmitted {
		return domainerrors.ErrInvalidStatusTransition
	}
	job.Status = string(outcome)
	l.jobs[jobID] = job
	l.feedback[jobID] = feedback
	l.recorded = append(l.recorded, fmt.Sprintf("%d:%s|%s", jobID, outcome, feedback))
	return nil
}

type fixedConsensus struct {
	result string
	err    error
	calls  int
}

func (c *fixedConsensus) StrictEquivalence(ctx context.Context, eval ports.Evaluation) (string, error) {
	c.calls++
	if c.err != nil || c.result != "" {
		return c.result, c.err
	}
	return eval(ctx)
}

type busyLocker struct{}

func (busyLocker) Lock(context.Context, string) (func(context.Context) error, error) {
	return nil, domainerrors.ErrJudgeInProgress
}

func submittedJob(id uint64) ports.JobSnapshot {
	return ports.JobSnapshot{
		JobID:                 id,
		Status:                ports.StatusSubmitted,
		Brief:                 "Build a responsive landing page",
		SubmissionURL:         "https://example.com/site",
		SubmissionDescription: "Responsive landing page deployed",
	}
}

func TestJudgeApprovesThroughConsensus(t *testing.T) {
	ledger := newFakeLedger(submittedJob(1))
	consensus := &fixedConsensus{}

	result, err := JudgeUseCase{Ledger: ledger, Consensus: consensus}.Execute(context.Background(), JudgeCommand{JobID: 1})
	if err != nil {
		t.Fatalf("judge failed: %v", err)
	}
	if result.Verdict.Outcome() != verdict.OutcomeApproved || !result.Consensus {
		t.Fatalf("unexpected result %+v", result)
	}
	if consensus.calls != 1 {
		t.Fatalf("expected one consensus call, got %d", consensus.calls)
	}
	if len(ledger.recorded) != 1 {
		t.Fatalf("expected one recorded verdict, got %v", ledger.recorded)
	}
}

func TestJudgeWithoutConsensusRunsOnce(t *testing.T) {
	ledger := newFakeLedger(submittedJob(1))

	result, err := JudgeUseCase{Ledger: ledger}.Execute(context.Background(), JudgeCommand{JobID: 1})
	if err != nil {
		t.Fatalf("judge failed: %v", err)
	}
	if result.Consensus {
		t.Fatal("expected single-run mode")
	}
	if ledger.jobs[1].Status != string(verdict.OutcomeApproved) {
		t.Fatalf("expected APPROVED, got %s", ledger.jobs[1].Status)
	}
}

func TestJudgeRejectsNonSubmittedJob(t *testing.T) {
	job := submittedJob(1)
	job.Status = "OPEN"
	ledger := newFakeLedger(job, submittedJob(2))
	consensus := &fixedConsensus{}

	_, err := JudgeUseCase{Ledger: ledger, Consensus: consensus}.Execute(context.Background(), JudgeCommand{JobID: 1})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if consensus.calls != 0 || len(ledger.recorded) != 0 {
		t.Fatalf("expected no evaluation and no write, got calls=%d recorded=%v", consensus.calls, ledger.recorded)
	}

	uc := JudgeUseCase{Ledger: ledger}
	if _, err := uc.Execute(context.Background(), JudgeCommand{JobID: 2}); err != nil {
		t.Fatalf("first judge failed: %v", err)
	}
	status, feedback := ledger.jobs[2].Status, ledger.feedback[2]
	if _, err := uc.Execute(context.Background(), JudgeCommand{JobID: 2}); !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected re-judge to be rejected, got %v", err)
	}
	if ledger.jobs[2].Status != status || ledger.feedback[2] != feedback {
		t.Fatalf("expected verdict untouched, got %s %q", ledger.jobs[2].Status, ledger.feedback[2])
	}
}

func TestJudgeUnknownJob(t *testing.T) {
	_, err := JudgeUseCase{Ledger: newFakeLedger()}.Execute(context.Background(), JudgeCommand{JobID: 9})
	if !errors.Is(err, domainerrors.ErrJobNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestJudgeConsensusFailureLeavesJobSubmitted(t *testing.T) {
	ledger := newFakeLedger(submittedJob(1))
	consensus := &fixedConsensus{err: domainerrors.ErrNoConsensus}

	_, err := JudgeUseCase{Ledger: ledger, Consensus: consensus}.Execute(context.Background(), JudgeCommand{JobID: 1})
	if !errors.Is(err, domainerrors.ErrNoConsensus) {
		t.Fatalf("expected no consensus, got %v", err)
	}
	if ledger.jobs[1].Status != ports.StatusSubmitted || len(ledger.recorded) != 0 {
		t.Fatalf("expected job untouched, got %+v", ledger.jobs[1])
	}
}

func TestJudgeMalformedVerdictLenientAndStrict(t *testing.T) {
	ledger := newFakeLedger(submittedJob(1), submittedJob(2))
	consensus := &fixedConsensus{result: "looks fine to me"}

	result, err := JudgeUseCase{Ledger: ledger, Consensus: consensus}.Execute(context.Background(), JudgeCommand{JobID: 1})
	if err != nil {
		t.Fatalf("lenient judge failed: %v", err)
	}
	if result.Verdict.Outcome() != verdict.OutcomeRevision || result.Verdict.Detail() != "looks fine to me" {
		t.Fatalf("expected revision carrying raw text, got %#v", result.Verdict)
	}

	_, err = JudgeUseCase{Ledger: ledger, Consensus: consensus, StrictVerdicts: true}.Execute(context.Background(), JudgeCommand{JobID: 2})
	if !errors.Is(err, domainerrors.ErrMalformedVerdict) {
		t.Fatalf("expected malformed verdict, got %v", err)
	}
	if ledger.jobs[2].Status != ports.StatusSubmitted {
		t.Fatalf("expected strict mode to leave job SUBMITTED, got %s", ledger.jobs[2].Status)
	}
}

func TestJudgeHonoursLocker(t *testing.T) {
	ledger := newFakeLedger(submittedJob(1))
	_, err := JudgeUseCase{Ledger: ledger, Locker: busyLocker{}}.Execute(context.Background(), JudgeCommand{JobID: 1})
	if !errors.Is(err, domainerrors.ErrJudgeInProgress) {
		t.Fatalf("expected judge in progress, got %v", err)
	}
	if len(ledger.recorded) != 0 {
		t.Fatalf("expected no write while locked, got %v", ledger.recorded)
	}
}

func TestJudgeThinDeliveryFails(t *testing.T) {
	job := submittedJob(1)
	job.SubmissionURL = "a"
	job.SubmissionDescription = "b"
	ledger := newFakeLedger(job)

	result, err := JudgeUseCase{Ledger: ledger}.Execute(context.Background(), JudgeCommand{JobID: 1})
	if err != nil {
		t.Fatalf("judge failed: %v", err)
	}
	if result.Verdict.Outcome() != verdict.OutcomeFailed {
		t.Fatalf("expected FAILED, got %s", result.Verdict.Outcome())
	}
}
