package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/recondash/recondash/internal/documents"
	jobmetrics "github.com/recondash/recondash/internal/jobs"
	"github.com/recondash/recondash/internal/payers"
)

// ReasonClassificationNotFound is recorded on documents whose payer has no
// entry in the payer master list.
const ReasonClassificationNotFound = "Recon classification not found"

// Classifier resolves a payer name to a reconciliation class.
type Classifier interface {
	Classify(ctx context.Context, payerName string) (string, error)
}

// ReprocessJob re-derives document reconciliation classifications from the
// payer master list.
type ReprocessJob struct {
	Repo    documents.Repository
	Payers  Classifier
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewReprocessJob initialises the reprocess handler.
func NewReprocessJob(repo documents.Repository, classifier Classifier, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReprocessJob {
	return &ReprocessJob{Repo: repo, Payers: classifier, Logger: logger, Metrics: metrics}
}

// Handle executes TaskDocumentReprocess for an explicit id list. Documents
// that have disappeared since enqueueing are skipped, not failed.
func (j *ReprocessJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("reprocess: handler not configured")
	}
	var payload ReprocessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := time.Now()
	tracker := j.metrics().Track(TaskDocumentReprocess)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger(TaskDocumentReprocess).With(
		slog.Int("documents", len(payload.DocumentIDs)),
		slog.String("requested_by", payload.RequestedBy),
	)
	logger.Info("starting reprocess")

	done, skipped, err := j.reclassify(ctx, payload.DocumentIDs)
	if err != nil {
		resultErr = err
		logger.Error("reprocess failed", slog.Any("error", err))
		return resultErr
	}

	logger.Info("completed reprocess",
		slog.Int("reclassified", done),
		slog.Int("skipped", skipped),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

// HandleSweep executes TaskReconSweep: every document still unclassified is
// run through the classifier again.
func (j *ReprocessJob) HandleSweep(ctx context.Context, _ *asynq.Task) error {
	if j == nil {
		return errors.New("sweep: handler not configured")
	}
	start := time.Now()
	tracker := j.metrics().Track(TaskReconSweep)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger(TaskReconSweep)
	logger.Info("starting sweep")

	docs, err := j.Repo.ListAll(ctx)
	if err != nil {
		resultErr = err
		return resultErr
	}
	var ids []string
	for _, doc := range docs {
		if doc.Recon == documents.ReconNotReconciled {
			ids = append(ids, doc.ID)
		}
	}

	done, skipped, err := j.reclassify(ctx, ids)
	if err != nil {
		resultErr = err
		logger.Error("sweep failed", slog.Any("error", err))
		return resultErr
	}

	logger.Info("completed sweep",
		slog.Int("candidates", len(ids)),
		slog.Int("reclassified", done),
		slog.Int("skipped", skipped),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *ReprocessJob) reclassify(ctx context.Context, ids []string) (done, skipped int, err error) {
	for _, id := range ids {
		doc, err := j.Repo.Get(ctx, id)
		if errors.Is(err, documents.ErrNotFound) {
			skipped++
			continue
		}
		if err != nil {
			return done, skipped, err
		}

		recon, reason := j.classify(ctx, doc.Payer)
		if err := j.Repo.UpdateReconciliation(ctx, id, recon, reason, doc.CreditNote, doc.Comments); err != nil {
			if errors.Is(err, documents.ErrNotFound) {
				skipped++
				continue
			}
			return done, skipped, err
		}
		j.metrics().AddReprocessed(string(recon), 1)
		done++
	}
	return done, skipped, nil
}

// classify maps the payer master list class onto a document classification.
// Unknown payers land back on "Not reconciled" with an explanatory reason.
func (j *ReprocessJob) classify(ctx context.Context, payerName string) (documents.ReconStatus, string) {
	class, err := j.Payers.Classify(ctx, payerName)
	if err != nil {
		return documents.ReconNotReconciled, ReasonClassificationNotFound
	}
	switch class {
	case payers.ClassStamp:
		return documents.ReconStamp, ""
	case payers.ClassGRN:
		return documents.ReconGRN, ""
	case payers.ClassManual:
		return documents.ReconManual, ""
	}
	return documents.ReconNotReconciled, ReasonClassificationNotFound
}

func (j *ReprocessJob) logger(task string) *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", task))
	}
	return slog.Default().With(slog.String("job", task))
}

func (j *ReprocessJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}
