package entities

import (
	"strings"
	"time"
)

type JobStatus string

const (
	JobStatusOpen      JobStatus = "OPEN"
	JobStatusSubmitted JobStatus = "SUBMITTED"
	JobStatusApproved  JobStatus = "APPROVED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusRevision  JobStatus = "REVISION"
)

// UnassignedAddress marks a job nobody has delivered against yet.
const UnassignedAddress = "0x0000000000000000000000000000000000000000"

// IsTerminal reports whether no further lifecycle transition exists.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusApproved || s == JobStatusFailed
}

// AcceptsDelivery reports whether submit_delivery is legal from s.
func (s JobStatus) AcceptsDelivery() bool {
	return s == JobStatusOpen || s == JobStatusRevision
}

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusOpen, JobStatusSubmitted, JobStatusApproved, JobStatusFailed, JobStatusRevision:
		return true
	default:
		return false
	}
}

// IsVerdict reports whether s is one of the statuses a judgment may produce.
func (s JobStatus) IsVerdict() bool {
	return s == JobStatusApproved || s == JobStatusFailed || s == JobStatusRevision
}

// CanTransition encodes the lifecycle table. Creation (none -> OPEN) is not a
// transition and is handled by NewJob.
func CanTransition(from, to JobStatus) bool {
	switch from {
	case JobStatusOpen, JobStatusRevision:
		return to == JobStatusSubmitted
	case JobStatusSubmitted:
		return to.IsVerdict()
	default:
		return false
	}
}

type Job struct {
	JobID                 uint64
	Brief                 string
	Budget                uint64
	Deadline              string
	ClientAddress         string
	FreelancerAddress     string
	SubmissionURL         string
	SubmissionDescription string
	Status                JobStatus
	Feedback              string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewJob builds an OPEN job without a handle; storage assigns JobID.
func NewJob(brief string, budget uint64, deadline string, client string, now time.Time) Job {
	return Job{
		Brief:             brief,
		Budget:            budget,
		Deadline:          deadline,
		ClientAddress:     client,
		FreelancerAddress: UnassignedAddress,
		Status:            JobStatusOpen,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (j Job) ValidateCreate() bool {
	return strings.TrimSpace(j.Brief) != "" &&
		strings.TrimSpace(j.Deadline) != "" &&
		j.Budget > 0
}

// Submit records a delivery. The caller has already checked the transition.
func (j *Job) Submit(freelancer string, url string, description string, now time.Time) {
	j.FreelancerAddress = freelancer
	j.SubmissionURL = url
	j.SubmissionDescription = description
	j.Status = JobStatusSubmitted
	j.Feedback = ""
	j.UpdatedAt = now
}

// ApplyVerdict moves a SUBMITTED job to its judged status. A REVISION verdict
// re-opens the job for delivery, so the previous payload is cleared.
func (j *Job) ApplyVerdict(outcome JobStatus, feedback string, now time.Time) {
	j.Status = outcome
	j.Feedback = feedback
	if outcome == JobStatusRevision {
		j.SubmissionURL = ""
		j.SubmissionDescription = ""
	}
	j.UpdatedAt = now
}
