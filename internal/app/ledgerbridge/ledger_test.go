package ledgerbridge

import (
	"context"
	"errors"
	"testing"

	jobledger "jobescrow/contexts/escrow/job-ledger"
	ledgerhttp "jobescrow/contexts/escrow/job-ledger/transport/http"
	judgeerrors "jobescrow/contexts/escrow/judging-engine/domain/errors"
	"jobescrow/contexts/escrow/judging-engine/domain/verdict"
	judgeports "jobescrow/contexts/escrow/judging-engine/ports"
)

func TestBridgeReadsAndRecords(t *testing.T) {
	jobs := jobledger.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	posted, err := jobs.Handler.PostJobHandler(ctx, "0xclient", ledgerhttp.PostJobRequest{Brief: "brief text", Budget: "5", Deadline: "soon"})
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if _, err := jobs.Handler.SubmitDeliveryHandler(ctx, "0xfree", posted.JobID, ledgerhttp.SubmitDeliveryRequest{URL: "https://example.com", Description: "done"}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	bridge := New(jobs.Handler)
	snapshot, err := bridge.GetJob(ctx, posted.JobID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if snapshot.Status != judgeports.StatusSubmitted || snapshot.SubmissionURL != "https://example.com" {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}

	if err := bridge.RecordVerdict(ctx, posted.JobID, verdict.OutcomeApproved, "ok"); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	err = bridge.RecordVerdict(ctx, posted.JobID, verdict.OutcomeFailed, "again")
	if !errors.Is(err, judgeerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected engine invalid-status error, got %v", err)
	}
}

func TestBridgeTranslatesNotFound(t *testing.T) {
	bridge := New(jobledger.NewInMemoryModule(nil, nil).Handler)
	if _, err := bridge.GetJob(context.Background(), 77); !errors.Is(err, judgeerrors.ErrJobNotFound) {
		t.Fatalf("expected engine not-found error, got %v", err)
	}
	if err := bridge.RecordVerdict(context.Background(), 77, verdict.OutcomeApproved, ""); !errors.Is(err, judgeerrors.ErrJobNotFound) {
		t.Fatalf("expected engine not-found error, got %v", err)
	}
}
