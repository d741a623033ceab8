package entities

import (
	"testing"
	"time"
)

func TestCanTransitionTable(t *testing.T) {
	all := []JobStatus{JobStatusOpen, JobStatusSubmitted, JobStatusApproved, JobStatusFailed, JobStatusRevision}
	allowed := map[JobStatus]map[JobStatus]bool{
		JobStatusOpen:      {JobStatusSubmitted: true},
		JobStatusRevision:  {JobStatusSubmitted: true},
		JobStatusSubmitted: {JobStatusApproved: true, JobStatusFailed: true, JobStatusRevision: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s, %s): expected %v, got %v", from, to, want, got)
			}
		}
	}
}

func TestTerminalStatusesAcceptNothing(t *testing.T) {
	for _, status := range []JobStatus{JobStatusApproved, JobStatusFailed} {
		if !status.IsTerminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
		if status.AcceptsDelivery() {
			t.Fatalf("expected %s to reject delivery", status)
		}
	}
	if JobStatusRevision.IsTerminal() {
		t.Fatal("expected REVISION to be non-terminal")
	}
}

func TestNewJobDefaults(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	job := NewJob("Build a landing page", 500, "2026-04-01", "0xclient", now)

	if job.Status != JobStatusOpen {
		t.Fatalf("expected OPEN, got %s", job.Status)
	}
	if job.FreelancerAddress != UnassignedAddress {
		t.Fatalf("expected unassigned freelancer, got %q", job.FreelancerAddress)
	}
	if job.SubmissionURL != "" || job.SubmissionDescription != "" || job.Feedback != "" {
		t.Fatalf("expected empty submission and feedback, got %+v", job)
	}
	if !job.ValidateCreate() {
		t.Fatal("expected job to validate")
	}
}

func TestValidateCreateRejectsMissingFields(t *testing.T) {
	now := time.Now().UTC()
	cases := []Job{
		NewJob("", 1, "2026-04-01", "0xclient", now),
		NewJob("brief", 0, "2026-04-01", "0xclient", now),
		NewJob("brief", 1, "   ", "0xclient", now),
	}
	for i, job := range cases {
		if job.ValidateCreate() {
			t.Fatalf("case %d: expected validation failure for %+v", i, job)
		}
	}
}

func TestRevisionVerdictClearsSubmission(t *testing.T) {
	now := time.Now().UTC()
	job := NewJob("brief", 1, "tomorrow", "0xclient", now)
	job.Submit("0xfreelancer", "https://example.com", "done", now)

	job.ApplyVerdict(JobStatusRevision, "needs work", now)
	if job.SubmissionURL != "" || job.SubmissionDescription != "" {
		t.Fatalf("expected submission cleared, got url=%q description=%q", job.SubmissionURL, job.SubmissionDescription)
	}
	if job.FreelancerAddress != "0xfreelancer" {
		t.Fatalf("expected freelancer retained, got %q", job.FreelancerAddress)
	}

	job.Submit("0xfreelancer", "https://example.com/v2", "second try", now)
	if job.Feedback != "" {
		t.Fatalf("expected feedback cleared on resubmission, got %q", job.Feedback)
	}
}
