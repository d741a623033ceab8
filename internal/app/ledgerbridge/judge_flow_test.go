package ledgerbridge

import (
	"context"
	"errors"
	"strings"
	"testing"

	jobledger "jobescrow/contexts/escrow/job-ledger"
	ledgerhttpadapter "jobescrow/contexts/escrow/job-ledger/adapters/http"
	ledgerhttp "jobescrow/contexts/escrow/job-ledger/transport/http"
	"jobescrow/contexts/escrow/judging-engine/application/commands"
	judgeerrors "jobescrow/contexts/escrow/judging-engine/domain/errors"
	"jobescrow/contexts/escrow/judging-engine/domain/verdict"
)

func readField(t *testing.T, jobs jobledger.Module, jobID uint64, name string) string {
	t.Helper()
	resp, err := jobs.Handler.FieldHandler(context.Background(), jobID, name)
	if err != nil {
		t.Fatalf("read %s failed: %v", name, err)
	}
	return resp.Value
}

func submit(t *testing.T, jobs jobledger.Module, jobID uint64, url string, description string) {
	t.Helper()
	_, err := jobs.Handler.SubmitDeliveryHandler(context.Background(), "0xfree", jobID, ledgerhttp.SubmitDeliveryRequest{
		URL:         url,
		Description: description,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
}

func TestJudgeRevisionResubmitApproveThroughLedger(t *testing.T) {
	ctx := context.Background()
	jobs := jobledger.NewInMemoryModule(nil, nil)
	judge := commands.JudgeUseCase{Ledger: New(jobs.Handler)}

	posted, err := jobs.Handler.PostJobHandler(ctx, "0xclient", ledgerhttp.PostJobRequest{
		Brief:    "Build a responsive landing page",
		Budget:   "500",
		Deadline: "2026-12-31",
	})
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	jobID := posted.JobID

	_, err = judge.Execute(ctx, commands.JudgeCommand{JobID: jobID})
	if !errors.Is(err, judgeerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected OPEN job to be rejected, got %v", err)
	}
	if got := readField(t, jobs, jobID, ledgerhttpadapter.FieldStatus); got != "OPEN" {
		t.Fatalf("expected OPEN, got %q", got)
	}
	if got := readField(t, jobs, jobID, ledgerhttpadapter.FieldFeedback); got != "" {
		t.Fatalf("expected empty feedback, got %q", got)
	}

	submit(t, jobs, jobID, "https://example.com/x", "done here today")
	result, err := judge.Execute(ctx, commands.JudgeCommand{JobID: jobID})
	if err != nil {
		t.Fatalf("first judge failed: %v", err)
	}
	if result.Verdict.Outcome() != verdict.OutcomeRevision {
		t.Fatalf("expected REVISION, got %s", result.Verdict.Outcome())
	}
	if got := readField(t, jobs, jobID, ledgerhttpadapter.FieldStatus); got != "REVISION" {
		t.Fatalf("expected REVISION status, got %q", got)
	}

	submit(t, jobs, jobID, "https://example.com/site", "Responsive landing page deployed")
	if got := readField(t, jobs, jobID, ledgerhttpadapter.FieldStatus); got != "SUBMITTED" {
		t.Fatalf("expected resubmission to reach SUBMITTED, got %q", got)
	}

	result, err = judge.Execute(ctx, commands.JudgeCommand{JobID: jobID})
	if err != nil {
		t.Fatalf("second judge failed: %v", err)
	}
	if result.Verdict.Outcome() != verdict.OutcomeApproved {
		t.Fatalf("expected APPROVED, got %s", result.Verdict.Outcome())
	}
	status := readField(t, jobs, jobID, ledgerhttpadapter.FieldStatus)
	feedback := readField(t, jobs, jobID, ledgerhttpadapter.FieldFeedback)
	if status != "APPROVED" {
		t.Fatalf("expected APPROVED status, got %q", status)
	}
	if feedback == "" || strings.Contains(feedback, "APPROVED|") || feedback != result.Verdict.Detail() {
		t.Fatalf("expected plain feedback, got %q", feedback)
	}

	_, err = judge.Execute(ctx, commands.JudgeCommand{JobID: jobID})
	if !errors.Is(err, judgeerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected re-judge of APPROVED job to be rejected, got %v", err)
	}
	if got := readField(t, jobs, jobID, ledgerhttpadapter.FieldStatus); got != status {
		t.Fatalf("expected status %q unchanged, got %q", status, got)
	}
	if got := readField(t, jobs, jobID, ledgerhttpadapter.FieldFeedback); got != feedback {
		t.Fatalf("expected feedback %q unchanged, got %q", feedback, got)
	}
}
