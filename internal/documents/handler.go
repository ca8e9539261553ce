package documents

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/recondash/recondash/internal/documents/lineitems"
	"github.com/recondash/recondash/internal/platform/httpx"
)

// Exporter renders listing and detail exports.
type Exporter interface {
	WriteCSV(docs []Document) ([]byte, error)
	RenderPDF(doc Document, lines []lineitems.LineItem) ([]byte, error)
}

// Handler serves the documents API.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	selections  *SelectionStore
	exporter    Exporter
	validator   *validator.Validate
	pageSize    int
	maxPageSize int
}

// HandlerConfig groups Handler dependencies.
type HandlerConfig struct {
	Logger      *slog.Logger
	Service     *Service
	Selections  *SelectionStore
	Exporter    Exporter
	PageSize    int
	MaxPageSize int
}

// NewHandler builds a Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	maxPageSize := cfg.MaxPageSize
	if maxPageSize < pageSize {
		maxPageSize = pageSize
	}
	return &Handler{
		logger:      logger,
		service:     cfg.Service,
		selections:  cfg.Selections,
		exporter:    cfg.Exporter,
		validator:   validator.New(),
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
	}
}

// MountRoutes registers document routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/export", h.exportCSV)
	r.Post("/reprocess", h.reprocess)

	r.Route("/selection/{viewID}", func(r chi.Router) {
		r.Get("/", h.getSelection)
		r.Post("/toggle", h.toggleSelection)
		r.Post("/select-all", h.selectAll)
		r.Delete("/", h.clearSelection)
	})

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Get("/export", h.exportPDF)
		r.Post("/approve", h.approve)
		r.Post("/reject", h.reject)
		r.Post("/reconcile", h.reconcile)
		r.Put("/lines/reorder", h.reorderLines)
		r.Patch("/lines/{lineID}", h.editLine)
		r.Delete("/lines/{lineID}", h.deleteLine)
	})
}

// MountDashboard registers the dashboard summary route.
func (h *Handler) MountDashboard(r chi.Router) {
	r.Get("/summary", h.summary)
}

// parseCriteria maps listing query parameters onto FilterCriteria. Unknown
// option values normalise to "no constraint" inside the engine; malformed
// dates are ignored the same way.
func parseCriteria(r *http.Request) FilterCriteria {
	q := r.URL.Query()
	criteria := FilterCriteria{
		FreeText:   q.Get("q"),
		Status:     Status(strings.ToLower(strings.TrimSpace(q.Get("status")))),
		City:       q.Get("city"),
		Region:     q.Get("region"),
		Recon:      ReconStatus(strings.TrimSpace(q.Get("recon"))),
		ReasonCode: strings.TrimSpace(q.Get("reason")),
		Route:      q.Get("route"),
		Range:      DateRange(strings.ToLower(strings.TrimSpace(q.Get("range")))),
	}
	if from, err := time.Parse("2006-01-02", q.Get("from")); err == nil {
		criteria.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", q.Get("to")); err == nil {
		criteria.DateTo = &to
	}
	return criteria
}

func (h *Handler) parsePaging(r *http.Request) (page, pageSize int) {
	page = 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page = v
	}
	pageSize = h.pageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 {
		pageSize = v
	}
	if pageSize > h.maxPageSize {
		pageSize = h.maxPageSize
	}
	return page, pageSize
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.parsePaging(r)
	window, err := h.service.List(r.Context(), parseCriteria(r), page, pageSize)
	if err != nil {
		h.serverError(w, "list documents", err)
		return
	}
	httpx.JSON(w, http.StatusOK, window)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	doc, lines, err := h.service.GetWithLines(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"document": doc,
		"lines":    lines,
	})
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.service.Approve)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.service.Reject)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id string) error) {
	id := chi.URLParam(r, "id")
	if err := apply(r.Context(), id); err != nil {
		h.respondError(w, "update status", err)
		return
	}
	doc, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "reload document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

type reconcileRequest struct {
	Recon      string `json:"recon" validate:"required"`
	ReasonCode string `json:"reason_code"`
	CreditNote string `json:"credit_note"`
	Comments   string `json:"comments"`
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	doc, err := h.service.Reconcile(r.Context(), chi.URLParam(r, "id"), ReconcileInput{
		Recon:      ReconStatus(req.Recon),
		ReasonCode: req.ReasonCode,
		CreditNote: req.CreditNote,
		Comments:   req.Comments,
	})
	if err != nil {
		h.respondError(w, "reconcile document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

type reprocessRequest struct {
	IDs         []string `json:"ids" validate:"required,min=1"`
	RequestedBy string   `json:"requested_by"`
}

func (h *Handler) reprocess(w http.ResponseWriter, r *http.Request) {
	var req reprocessRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.Reprocess(r.Context(), req.IDs, req.RequestedBy); err != nil {
		h.serverError(w, "enqueue reprocess", err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]any{"queued": len(req.IDs)})
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (h *Handler) reorderLines(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	lines, err := h.service.ReorderLines(r.Context(), chi.URLParam(r, "id"), req.From, req.To)
	if err != nil {
		h.respondError(w, "reorder lines", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"lines": lines})
}

type lineEditRequest struct {
	Quantity  *int     `json:"quantity" validate:"omitempty,min=0"`
	UnitPrice *float64 `json:"unit_price" validate:"omitempty,min=0"`
}

func (h *Handler) editLine(w http.ResponseWriter, r *http.Request) {
	var req lineEditRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if req.Quantity == nil && req.UnitPrice == nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "quantity or unit_price required")
		return
	}
	lines, err := h.service.EditLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"), LineEditInput{
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		h.respondError(w, "edit line", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"lines": lines})
}

func (h *Handler) deleteLine(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"))
	if err != nil {
		h.respondError(w, "delete line", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) getSelection(w http.ResponseWriter, r *http.Request) {
	set, err := h.loadSelection(r)
	if err != nil {
		h.serverError(w, "load selection", err)
		return
	}
	resp := map[string]any{
		"ids":   set.IDs(),
		"count": set.Count(),
	}
	if visible := r.URL.Query()["ids"]; len(visible) > 0 {
		resp["all_selected"] = set.IsAllSelected(visible)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

type toggleRequest struct {
	ID       string `json:"id" validate:"required"`
	Selected bool   `json:"selected"`
}

func (h *Handler) toggleSelection(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.selections.Toggle(r.Context(), chi.URLParam(r, "viewID"), req.ID, req.Selected); err != nil {
		h.serverError(w, "toggle selection", err)
		return
	}
	h.getSelection(w, r)
}

// selectAllRequest carries the visible page's ids. An empty list is a valid
// no-op, matching the engine's select-all semantics.
type selectAllRequest struct {
	IDs      []string `json:"ids"`
	Selected bool     `json:"selected"`
}

func (h *Handler) selectAll(w http.ResponseWriter, r *http.Request) {
	var req selectAllRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.selections.SelectAll(r.Context(), chi.URLParam(r, "viewID"), req.IDs, req.Selected); err != nil {
		h.serverError(w, "select all", err)
		return
	}
	h.getSelection(w, r)
}

func (h *Handler) clearSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.selections.Clear(r.Context(), chi.URLParam(r, "viewID")); err != nil {
		h.serverError(w, "clear selection", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) loadSelection(r *http.Request) (SelectionSet, error) {
	existing, err := h.service.repo.ListIDs(r.Context())
	if err != nil {
		return SelectionSet{}, err
	}
	return h.selections.Load(r.Context(), chi.URLParam(r, "viewID"), existing)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
		return
	}
	docs, err := h.service.ListFiltered(r.Context(), parseCriteria(r))
	if err != nil {
		h.serverError(w, "export documents", err)
		return
	}
	data, err := h.exporter.WriteCSV(docs)
	if err != nil {
		h.serverError(w, "encode csv", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="documents.csv"`)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("write csv", slog.Any("error", err))
	}
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
		return
	}
	doc, lines, err := h.service.GetWithLines(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "load document for export", err)
		return
	}
	data, err := h.exporter.RenderPDF(doc, lines)
	if err != nil {
		h.serverError(w, "render pdf", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="invoice-`+doc.InvoiceNumber+`.pdf"`)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("write pdf", slog.Any("error", err))
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.serverError(w, "dashboard summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) respondError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrLineNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.serverError(w, message, err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
