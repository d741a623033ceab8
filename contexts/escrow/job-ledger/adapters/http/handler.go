package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"jobescrow/contexts/escrow/job-ledger/application/commands"
	"jobescrow/contexts/escrow/job-ledger/application/queries"
	"jobescrow/contexts/escrow/job-ledger/domain/entities"
	domainerrors "jobescrow/contexts/escrow/job-ledger/domain/errors"
	httptransport "jobescrow/contexts/escrow/job-ledger/transport/http"
)

// Text accessor names accepted by FieldHandler.
const (
	FieldStatus                = "status"
	FieldFeedback              = "feedback"
	FieldSubmissionURL         = "submission-url"
	FieldSubmissionDescription = "submission-description"
	FieldBrief                 = "brief"
	FieldDeadline              = "deadline"
	FieldClient                = "client"
	FieldFreelancer            = "freelancer"
)

type Handler struct {
	PostJob        commands.PostJobUseCase
	SubmitDelivery commands.SubmitDeliveryUseCase
	RecordVerdict  commands.RecordVerdictUseCase
	Queries        queries.QueryUseCase
	Logger         *slog.Logger
}

// PostJobHandler godoc
// @Summary Post a job
// @Description Opens an escrow job owned by the sender. The job id is assigned by the ledger.
// @Tags job-ledger
// @Accept json
// @Produce json
// @Param X-Sender-Address header string true "Caller address"
// @Param request body httptransport.PostJobRequest true "Job"
// @Success 201 {object} httptransport.PostJobResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /v1/jobs [post]
func (h Handler) PostJobHandler(
	ctx context.Context,
	senderAddress string,
	req httptransport.PostJobRequest,
) (httptransport.PostJobResponse, error) {
	budget, err := strconv.ParseUint(req.Budget.String(), 10, 64)
	if err != nil || budget == 0 {
		return httptransport.PostJobResponse{}, fmt.Errorf("%w: budget must be a positive integer", domainerrors.ErrInvalidJobInput)
	}
	job, err := h.PostJob.Execute(ctx, commands.PostJobCommand{
		ClientAddress: senderAddress,
		Brief:         req.Brief,
		Budget:        budget,
		Deadline:      req.Deadline,
	})
	if err != nil {
		return httptransport.PostJobResponse{}, err
	}
	return httptransport.PostJobResponse{
		JobID: job.JobID,
		Job:   mapJob(job),
	}, nil
}

// SubmitDeliveryHandler godoc
// @Summary Submit a delivery
// @Description Records the sender as freelancer and moves the job to SUBMITTED.
// @Tags job-ledger
// @Accept json
// @Produce json
// @Param X-Sender-Address header string true "Caller address"
// @Param job_id path int true "Job id"
// @Param request body httptransport.SubmitDeliveryRequest true "Delivery"
// @Success 200 {object} httptransport.SubmitDeliveryResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/jobs/{job_id}/delivery [post]
func (h Handler) SubmitDeliveryHandler(
	ctx context.Context,
	senderAddress string,
	jobID uint64,
	req httptransport.SubmitDeliveryRequest,
) (httptransport.SubmitDeliveryResponse, error) {
	job, err := h.SubmitDelivery.Execute(ctx, commands.SubmitDeliveryCommand{
		JobID:             jobID,
		FreelancerAddress: senderAddress,
		URL:               req.URL,
		Description:       req.Description,
	})
	if err != nil {
		return httptransport.SubmitDeliveryResponse{}, err
	}
	return httptransport.SubmitDeliveryResponse{Job: mapJob(job)}, nil
}

// RecordVerdictHandler is the in-process entry used by the judging engine.
func (h Handler) RecordVerdictHandler(ctx context.Context, jobID uint64, outcome string, feedback string) error {
	_, err := h.RecordVerdict.Execute(ctx, commands.RecordVerdictCommand{
		JobID:    jobID,
		Outcome:  entities.JobStatus(outcome),
		Feedback: feedback,
	})
	return err
}

// GetJobHandler godoc
// @Summary Get a job
// @Tags job-ledger
// @Produce json
// @Param job_id path int true "Job id"
// @Success 200 {object} httptransport.GetJobResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/jobs/{job_id} [get]
func (h Handler) GetJobHandler(ctx context.Context, jobID uint64) (httptransport.GetJobResponse, error) {
	job, err := h.Queries.GetJob(ctx, jobID)
	if err != nil {
		return httptransport.GetJobResponse{}, err
	}
	return httptransport.GetJobResponse{Job: mapJob(job)}, nil
}

// ListJobsHandler godoc
// @Summary List jobs
// @Tags job-ledger
// @Produce json
// @Param client query string false "Client address"
// @Param freelancer query string false "Freelancer address"
// @Param status query string false "Job status"
// @Success 200 {object} httptransport.ListJobsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/jobs [get]
func (h Handler) ListJobsHandler(
	ctx context.Context,
	clientAddress string,
	freelancerAddress string,
	status string,
) (httptransport.ListJobsResponse, error) {
	items, err := h.Queries.ListJobs(ctx, queries.ListJobsQuery{
		ClientAddress:     clientAddress,
		FreelancerAddress: freelancerAddress,
		Status:            status,
	})
	if err != nil {
		return httptransport.ListJobsResponse{}, err
	}
	result := make([]httptransport.JobDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapJob(item))
	}
	return httptransport.ListJobsResponse{Items: result}, nil
}

// NextJobIDHandler godoc
// @Summary Next job id
// @Description Returns the id the next successful post will receive.
// @Tags job-ledger
// @Produce json
// @Success 200 {object} httptransport.NextJobIDResponse
// @Router /v1/jobs/next-id [get]
func (h Handler) NextJobIDHandler(ctx context.Context) (httptransport.NextJobIDResponse, error) {
	next, err := h.Queries.NextJobID(ctx)
	if err != nil {
		return httptransport.NextJobIDResponse{}, err
	}
	return httptransport.NextJobIDResponse{NextJobID: next}, nil
}

// FieldHandler godoc
// @Summary Job text field
// @Description Reads one text field. Unknown jobs yield an empty value.
// @Tags job-ledger
// @Produce json
// @Param job_id path int true "Job id"
// @Param field path string true "status, feedback, submission-url, submission-description, brief, deadline, client or freelancer"
// @Success 200 {object} httptransport.FieldResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/jobs/{job_id}/{field} [get]
func (h Handler) FieldHandler(ctx context.Context, jobID uint64, field string) (httptransport.FieldResponse, error) {
	var (
		value string
		err   error
	)
	switch field {
	case FieldStatus:
		value, err = h.Queries.Status(ctx, jobID)
	case FieldFeedback:
		value, err = h.Queries.Feedback(ctx, jobID)
	case FieldSubmissionURL:
		value, err = h.Queries.SubmissionURL(ctx, jobID)
	case FieldSubmissionDescription:
		value, err = h.Queries.SubmissionDescription(ctx, jobID)
	case FieldBrief:
		value, err = h.Queries.Brief(ctx, jobID)
	case FieldDeadline:
		value, err = h.Queries.Deadline(ctx, jobID)
	case FieldClient:
		value, err = h.Queries.Client(ctx, jobID)
	case FieldFreelancer:
		value, err = h.Queries.Freelancer(ctx, jobID)
	default:
		return httptransport.FieldResponse{}, fmt.Errorf("%w: unknown field %q", domainerrors.ErrInvalidJobInput, field)
	}
	if err != nil {
		return httptransport.FieldResponse{}, err
	}
	return httptransport.FieldResponse{JobID: jobID, Field: field, Value: value}, nil
}

// BudgetHandler godoc
// @Summary Job budget
// @Tags job-ledger
// @Produce json
// @Param job_id path int true "Job id"
// @Success 200 {object} httptransport.BudgetResponse
// @Router /v1/jobs/{job_id}/budget [get]
func (h Handler) BudgetHandler(ctx context.Context, jobID uint64) (httptransport.BudgetResponse, error) {
	budget, err := h.Queries.Budget(ctx, jobID)
	if err != nil {
		return httptransport.BudgetResponse{}, err
	}
	return httptransport.BudgetResponse{JobID: jobID, Budget: budget}, nil
}

func mapJob(item entities.Job) httptransport.JobDTO {
	return httptransport.JobDTO{
		JobID:                 item.JobID,
		Brief:                 item.Brief,
		Budget:                item.Budget,
		Deadline:              item.Deadline,
		ClientAddress:         item.ClientAddress,
		FreelancerAddress:     item.FreelancerAddress,
		SubmissionURL:         item.SubmissionURL,
		SubmissionDescription: item.SubmissionDescription,
		Status:                string(item.Status),
		Feedback:              item.Feedback,
		CreatedAt:             item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             item.UpdatedAt.Format(time.RFC3339),
	}
}
