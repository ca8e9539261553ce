// Package jobs wires background processing for the dashboard: the reprocess
// task that re-derives reconciliation classifications, and the nightly sweep
// over unclassified documents.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDocumentReprocess re-derives the reconciliation classification of
	// specific documents from the payer master list.
	TaskDocumentReprocess = "document:reprocess"
	// TaskReconSweep reprocesses every document still left unclassified.
	TaskReconSweep = "document:sweep"
)

// ReprocessPayload names the documents to reclassify and who asked for it.
type ReprocessPayload struct {
	DocumentIDs []string `json:"document_ids"`
	RequestedBy string   `json:"requested_by,omitempty"`
}

// NewReprocessTask constructs an Asynq task for the given documents.
func NewReprocessTask(payload ReprocessPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDocumentReprocess, data), nil
}

// NewSweepTask constructs the nightly sweep task.
func NewSweepTask() *asynq.Task {
	return asynq.NewTask(TaskReconSweep, nil)
}
