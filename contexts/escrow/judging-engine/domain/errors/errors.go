package errors

import "errors"

var (
	ErrJobNotFound             = errors.New("job not found")
	ErrInvalidStatusTransition = errors.New("job is not awaiting judgment")
	ErrJudgeInProgress         = errors.New("job is already being judged")
	ErrEvaluationFailed        = errors.New("evaluation failed")
	ErrFetchFailed             = errors.New("submission fetch failed")
	ErrNoConsensus             = errors.New("replicas did not reach strict agreement")
	ErrMalformedVerdict        = errors.New("malformed verdict from consensus")
)
