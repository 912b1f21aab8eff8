// Package async feeds documents discovered at runtime (watch mode) to background workers.
package async

import (
	"context"
	"time"
)

// Job is the smallest useful unit: one document path to process.
type Job struct {
	Path        string
	SubmittedAt time.Time
	TraceID     string
}

// Queue accepts jobs until Shutdown, which drains what was already accepted.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// Handler processes one job. Errors are logged by the queue and do not stop the workers.
type Handler func(ctx context.Context, job Job) error
