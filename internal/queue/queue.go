package queue

import (
	"context"
	"encoding/json"
)

// Job is the document generation task payload. The invoiceId field is the
// only externally observable wire format the pipeline defines; attempts is
// broker bookkeeping for the delivery budget.
type Job struct {
	InvoiceID string `json:"invoiceId"`
	Attempts  int    `json:"attempts,omitempty"`
}

// Enqueuer accepts document generation jobs. Enqueue returns once the
// broker has durably accepted the job, not once it is processed. The
// orchestrator and worker receive it as an injected dependency so tests
// can substitute an in-memory queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, invoiceID string) error
}

// Handler processes a single delivered job. A non-nil error hands the job
// back to the broker for redelivery.
type Handler func(ctx context.Context, job Job) error

func marshalJob(job Job) ([]byte, error) {
	return json.Marshal(job)
}

func unmarshalJob(data []byte) (Job, error) {
	var job Job
	err := json.Unmarshal(data, &job)
	return job, err
}
