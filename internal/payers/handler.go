package payers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/recondash/recondash/internal/platform/httpx"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Handler serves the payer master list API.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers payer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.update)
		r.Delete("/", h.delete)
	})
}

type payerRequest struct {
	Code       string `json:"code" validate:"required"`
	Name       string `json:"name" validate:"required"`
	ShortName  string `json:"short_name"`
	ReconClass string `json:"recon_class" validate:"required"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.serverError(w, "list payers", err)
		return
	}

	page := parsePositive(r.URL.Query().Get("page"), 1)
	size := parsePositive(r.URL.Query().Get("page_size"), defaultPageSize)
	if size > maxPageSize {
		size = maxPageSize
	}
	totalPages := (len(out) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * size
	end := start + size
	if start > len(out) {
		start = len(out)
	}
	if end > len(out) {
		end = len(out)
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"payers":      out[start:end],
		"page":        page,
		"total_pages": totalPages,
		"total":       len(out),
	})
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid payer id")
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get payer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	p, err := h.service.Create(r.Context(), Payer{
		Code:       req.Code,
		Name:       req.Name,
		ShortName:  req.ShortName,
		ReconClass: req.ReconClass,
	})
	if err != nil {
		h.respondError(w, "create payer", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid payer id")
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	p, err := h.service.Update(r.Context(), Payer{
		ID:         id,
		Code:       req.Code,
		Name:       req.Name,
		ShortName:  req.ShortName,
		ReconClass: req.ReconClass,
	})
	if err != nil {
		h.respondError(w, "update payer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid payer id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "delete payer", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (payerRequest, bool) {
	var req payerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return req, false
	}
	return req, true
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) respondError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrCodeExists):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrUnknownClass):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.serverError(w, message, err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
