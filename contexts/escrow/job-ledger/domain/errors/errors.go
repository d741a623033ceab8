package errors

import "errors"

var (
	ErrJobNotFound             = errors.New("job not found")
	ErrInvalidJobInput         = errors.New("invalid job input")
	ErrInvalidStatusTransition = errors.New("invalid job status transition")
	ErrIdempotencyKeyConflict  = errors.New("idempotency key conflict")
)
