package documents

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/recondash/recondash/internal/documents/lineitems"
)

func newTestRouter(t *testing.T) (*chi.Mux, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	repo.add(
		Document{ID: "doc-1", InvoiceNumber: "INV-1001", Payer: "OTHAIM MARKETS", Status: StatusPending, Recon: ReconNotReconciled, IssueDate: day(2026, time.August, 20)},
		lineitems.LineItem{ID: "li-1", Seq: 1, Quantity: 12, UnitPrice: 15.60, Total: 187.20},
		lineitems.LineItem{ID: "li-2", Seq: 2, Quantity: 3, UnitPrice: 9.99, Total: 29.97},
		lineitems.LineItem{ID: "li-3", Seq: 3, Quantity: 1, UnitPrice: 250, Total: 250},
	)
	repo.add(Document{ID: "doc-2", InvoiceNumber: "INV-1002", Payer: "CARREFOUR", Status: StatusApproved, Recon: ReconStamp, IssueDate: day(2026, time.August, 1)})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	handler := NewHandler(HandlerConfig{
		Service:     NewService(repo, nil),
		Selections:  NewSelectionStore(rdb, time.Hour),
		PageSize:    10,
		MaxPageSize: 100,
	})

	r := chi.NewRouter()
	r.Route("/documents", handler.MountRoutes)
	r.Route("/dashboard", handler.MountDashboard)
	return r, repo
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerListAppliesQueryFilters(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/documents?status=pending&q=othaim", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var window PageWindow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &window))
	require.Equal(t, 1, window.Total)
	require.Equal(t, "doc-1", window.Items[0].ID)
	require.Equal(t, 10, window.PageSize)
}

func TestHandlerGetUnknownDocument(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/documents/doc-99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerApprove(t *testing.T) {
	router, repo := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/documents/doc-1/approve", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, StatusApproved, repo.docs["doc-1"].Status)
}

func TestHandlerReorderLines(t *testing.T) {
	router, repo := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/documents/doc-1/lines/reorder", `{"from":0,"to":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	lines := repo.lines["doc-1"]
	require.Equal(t, "li-2", lines[0].ID)
	require.Equal(t, "li-1", lines[2].ID)
	require.Equal(t, 3, lines[2].Seq)
}

func TestHandlerEditLineRequiresAField(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPatch, "/documents/doc-1/lines/li-1", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/documents/doc-1/lines/li-1", `{"quantity":10}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerDeleteLine(t *testing.T) {
	router, repo := newTestRouter(t)

	rec := doJSON(t, router, http.MethodDelete, "/documents/doc-1/lines/li-2", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, repo.lines["doc-1"], 2)

	rec = doJSON(t, router, http.MethodDelete, "/documents/doc-1/lines/li-99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerReprocessWithoutQueue(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/documents/reprocess", `{"ids":["doc-1"]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandlerSelectionFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/documents/selection/view-1/toggle", `{"id":"doc-1","selected":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/documents/selection/view-1?ids=doc-1&ids=doc-2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		IDs         []string `json:"ids"`
		Count       int      `json:"count"`
		AllSelected bool     `json:"all_selected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"doc-1"}, resp.IDs)
	require.False(t, resp.AllSelected)

	rec = doJSON(t, router, http.MethodPost, "/documents/selection/view-1/select-all", `{"ids":["doc-1","doc-2"],"selected":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/documents/selection/view-1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

type captureExporter struct {
	rows []Document
}

func (c *captureExporter) WriteCSV(docs []Document) ([]byte, error) {
	c.rows = docs
	return []byte("id\r\n"), nil
}

func (c *captureExporter) RenderPDF(_ Document, _ []lineitems.LineItem) ([]byte, error) {
	return []byte("%PDF-1.3"), nil
}

func TestHandlerExportCoversFullFilterResult(t *testing.T) {
	repo := newMemoryRepo()
	for i := 0; i < 150; i++ {
		repo.add(Document{
			ID:            fmt.Sprintf("doc-%03d", i),
			InvoiceNumber: fmt.Sprintf("INV-%03d", i),
			Status:        StatusPending,
			IssueDate:     day(2026, time.August, 20),
		})
	}
	exporter := &captureExporter{}
	handler := NewHandler(HandlerConfig{
		Service:     NewService(repo, nil),
		Exporter:    exporter,
		PageSize:    10,
		MaxPageSize: 100,
	})
	r := chi.NewRouter()
	r.Route("/documents", handler.MountRoutes)

	rec := doJSON(t, r, http.MethodGet, "/documents/export?status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Len(t, exporter.rows, 150)
}

func TestHandlerSummary(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/dashboard/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, 1, summary.ByStatus[StatusPending])
	require.Equal(t, 1, summary.ByRecon[ReconStamp])
}
