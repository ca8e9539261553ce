package jobs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/recondash/recondash/internal/documents"
	"github.com/recondash/recondash/internal/documents/lineitems"
	"github.com/recondash/recondash/internal/payers"
)

type fakeRepo struct {
	docs map[string]documents.Document
}

func newFakeRepo(docs ...documents.Document) *fakeRepo {
	r := &fakeRepo{docs: make(map[string]documents.Document)}
	for _, d := range docs {
		r.docs[d.ID] = d
	}
	return r
}

func (r *fakeRepo) ListAll(_ context.Context) ([]documents.Document, error) {
	out := make([]documents.Document, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeRepo) ListIDs(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(r.docs))
	for id := range r.docs {
		out = append(out, id)
	}
	return out, nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (documents.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return documents.Document{}, documents.ErrNotFound
	}
	return d, nil
}

func (r *fakeRepo) GetLines(_ context.Context, _ string) ([]lineitems.LineItem, error) {
	return nil, nil
}

func (r *fakeRepo) Insert(_ context.Context, d documents.Document, _ []lineitems.LineItem) error {
	r.docs[d.ID] = d
	return nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, status documents.Status) error {
	d, ok := r.docs[id]
	if !ok {
		return documents.ErrNotFound
	}
	d.Status = status
	r.docs[id] = d
	return nil
}

func (r *fakeRepo) UpdateReconciliation(_ context.Context, id string, recon documents.ReconStatus, reason, creditNote, comments string) error {
	d, ok := r.docs[id]
	if !ok {
		return documents.ErrNotFound
	}
	d.Recon = recon
	d.ReasonCode = reason
	d.CreditNote = creditNote
	d.Comments = comments
	r.docs[id] = d
	return nil
}

func (r *fakeRepo) ReplaceLines(_ context.Context, _ string, _ []lineitems.LineItem) error {
	return nil
}

func (r *fakeRepo) DeleteLine(_ context.Context, _, _ string) error { return nil }

func (r *fakeRepo) CountByStatus(_ context.Context) (map[documents.Status]int, error) {
	return nil, nil
}

func (r *fakeRepo) CountByRecon(_ context.Context) (map[documents.ReconStatus]int, error) {
	return nil, nil
}

func (r *fakeRepo) Recent(_ context.Context, _ int) ([]documents.Document, error) {
	return nil, nil
}

type fakeClassifier struct {
	classes map[string]string
}

func (c *fakeClassifier) Classify(_ context.Context, payerName string) (string, error) {
	class, ok := c.classes[payerName]
	if !ok {
		return "", payers.ErrNotFound
	}
	return class, nil
}

func reprocessTask(t *testing.T, ids ...string) *asynq.Task {
	t.Helper()
	task, err := NewReprocessTask(ReprocessPayload{DocumentIDs: ids, RequestedBy: "ops"})
	require.NoError(t, err)
	return task
}

func TestReprocessMapsPayerClassToClassification(t *testing.T) {
	repo := newFakeRepo(
		documents.Document{ID: "doc-1", Payer: "OTHAIM MARKETS", Recon: documents.ReconNotReconciled},
		documents.Document{ID: "doc-2", Payer: "CARREFOUR", Recon: documents.ReconNotReconciled},
		documents.Document{ID: "doc-3", Payer: "NESTO", Recon: documents.ReconNotReconciled},
	)
	classifier := &fakeClassifier{classes: map[string]string{
		"OTHAIM MARKETS": payers.ClassStamp,
		"CARREFOUR":      payers.ClassGRN,
		"NESTO":          payers.ClassManual,
	}}
	job := NewReprocessJob(repo, classifier, nil, nil)

	err := job.Handle(context.Background(), reprocessTask(t, "doc-1", "doc-2", "doc-3"))
	require.NoError(t, err)

	require.Equal(t, documents.ReconStamp, repo.docs["doc-1"].Recon)
	require.Equal(t, documents.ReconGRN, repo.docs["doc-2"].Recon)
	require.Equal(t, documents.ReconManual, repo.docs["doc-3"].Recon)
	require.Empty(t, repo.docs["doc-1"].ReasonCode)
}

func TestReprocessUnknownPayerRecordsReason(t *testing.T) {
	repo := newFakeRepo(documents.Document{ID: "doc-1", Payer: "UNKNOWN TRADER", Recon: documents.ReconGRN})
	job := NewReprocessJob(repo, &fakeClassifier{}, nil, nil)

	err := job.Handle(context.Background(), reprocessTask(t, "doc-1"))
	require.NoError(t, err)

	require.Equal(t, documents.ReconNotReconciled, repo.docs["doc-1"].Recon)
	require.Equal(t, ReasonClassificationNotFound, repo.docs["doc-1"].ReasonCode)
}

func TestReprocessSkipsMissingDocuments(t *testing.T) {
	repo := newFakeRepo(documents.Document{ID: "doc-1", Payer: "OTHAIM", Recon: documents.ReconNotReconciled})
	classifier := &fakeClassifier{classes: map[string]string{"OTHAIM": payers.ClassStamp}}
	job := NewReprocessJob(repo, classifier, nil, nil)

	err := job.Handle(context.Background(), reprocessTask(t, "doc-gone", "doc-1"))
	require.NoError(t, err)

	require.Equal(t, documents.ReconStamp, repo.docs["doc-1"].Recon)
}

func TestReprocessMalformedPayloadSkipsRetry(t *testing.T) {
	job := NewReprocessJob(newFakeRepo(), &fakeClassifier{}, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskDocumentReprocess, []byte("{broken")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestSweepReprocessesOnlyUnclassified(t *testing.T) {
	repo := newFakeRepo(
		documents.Document{ID: "doc-1", Payer: "OTHAIM", Recon: documents.ReconNotReconciled},
		documents.Document{ID: "doc-2", Payer: "OTHAIM", Recon: documents.ReconStamp, CreditNote: "CN-1"},
	)
	classifier := &fakeClassifier{classes: map[string]string{"OTHAIM": payers.ClassGRN}}
	job := NewReprocessJob(repo, classifier, nil, nil)

	err := job.HandleSweep(context.Background(), NewSweepTask())
	require.NoError(t, err)

	require.Equal(t, documents.ReconGRN, repo.docs["doc-1"].Recon)
	require.Equal(t, documents.ReconStamp, repo.docs["doc-2"].Recon)
	require.Equal(t, "CN-1", repo.docs["doc-2"].CreditNote)
}

func TestReprocessPayloadRoundTrip(t *testing.T) {
	task := reprocessTask(t, "doc-1", "doc-2")

	var payload ReprocessPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, []string{"doc-1", "doc-2"}, payload.DocumentIDs)
	require.Equal(t, "ops", payload.RequestedBy)
}
