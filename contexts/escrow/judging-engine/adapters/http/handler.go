package httpadapter

import (
	"context"
	"log/slog"

	application "jobescrow/contexts/escrow/judging-engine/application"
	"jobescrow/contexts/escrow/judging-engine/application/commands"
	httptransport "jobescrow/contexts/escrow/judging-engine/transport/http"
)

const (
	ModeConsensus = "consensus"
	ModeSingle    = "single"
)

type Handler struct {
	Judge  commands.JudgeUseCase
	Logger *slog.Logger
}

// JudgeHandler godoc
// @Summary Judge a submitted job
// @Description Scores the delivery against the brief and commits APPROVED, FAILED or REVISION.
// @Tags judging-engine
// @Produce json
// @Param job_id path int true "Job id"
// @Success 200 {object} httptransport.JudgeResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /v1/jobs/{job_id}/judge [post]
func (h Handler) JudgeHandler(ctx context.Context, jobID uint64) (httptransport.JudgeResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("judge request received",
		"event", "http_judge_received",
		"module", "escrow/judging-engine",
		"layer", "transport",
		"job_id", jobID,
	)

	result, err := h.Judge.Execute(ctx, commands.JudgeCommand{JobID: jobID})
	if err != nil {
		logger.Error("judge request failed",
			"event", "http_judge_failed",
			"module", "escrow/judging-engine",
			"layer", "transport",
			"job_id", jobID,
			"error", err.Error(),
		)
		return httptransport.JudgeResponse{}, err
	}
	mode := ModeSingle
	if result.Consensus {
		mode = ModeConsensus
	}
	return httptransport.JudgeResponse{
		JobID:    result.JobID,
		Verdict:  string(result.Verdict.Outcome()),
		Feedback: result.Verdict.Detail(),
		Mode:     mode,
	}, nil
}
