package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when trying to submit a job to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrUnknownJobKind is returned for a kind without a registered executor
	ErrUnknownJobKind = errors.New("unknown job kind")

	// ErrInvalidInterval is returned when a trigger interval is not positive
	ErrInvalidInterval = errors.New("trigger interval must be positive")
)
