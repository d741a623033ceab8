package http

import "encoding/json"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PostJobRequest keeps Budget as a raw number so the whole uint64 range
// decodes without float rounding.
type PostJobRequest struct {
	Brief    string      `json:"brief"`
	Budget   json.Number `json:"budget" swaggertype:"integer"`
	Deadline string      `json:"deadline"`
}

type PostJobResponse struct {
	JobID uint64 `json:"job_id"`
	Job   JobDTO `json:"job"`
}

type SubmitDeliveryRequest struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type SubmitDeliveryResponse struct {
	Job JobDTO `json:"job"`
}

type JobDTO struct {
	JobID                 uint64 `json:"job_id"`
	Brief                 string `json:"brief"`
	Budget                uint64 `json:"budget"`
	Deadline              string `json:"deadline"`
	ClientAddress         string `json:"client_address"`
	FreelancerAddress     string `json:"freelancer_address"`
	SubmissionURL         string `json:"submission_url"`
	SubmissionDescription string `json:"submission_description"`
	Status                string `json:"status"`
	Feedback              string `json:"feedback"`
	CreatedAt             string `json:"created_at"`
	UpdatedAt             string `json:"updated_at"`
}

type GetJobResponse struct {
	Job JobDTO `json:"job"`
}

type ListJobsResponse struct {
	Items []JobDTO `json:"items"`
}

type NextJobIDResponse struct {
	NextJobID uint64 `json:"next_job_id"`
}

// FieldResponse carries a single text accessor; Value is "" for unknown jobs.
type FieldResponse struct {
	JobID uint64 `json:"job_id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// BudgetResponse carries the budget accessor; Budget is 0 for unknown jobs.
type BudgetResponse struct {
	JobID  uint64 `json:"job_id"`
	Budget uint64 `json:"budget"`
}
