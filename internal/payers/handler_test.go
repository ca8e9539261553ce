package payers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, seed ...Payer) *chi.Mux {
	t.Helper()
	svc := NewService(newMemoryRepo())
	for _, p := range seed {
		_, err := svc.Create(context.Background(), p)
		require.NoError(t, err)
	}
	r := chi.NewRouter()
	r.Route("/payers", NewHandler(nil, svc).MountRoutes)
	return r
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

type listResponse struct {
	Payers     []Payer `json:"payers"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	Total      int     `json:"total"`
}

func TestHandlerListSearchAndPaging(t *testing.T) {
	seed := make([]Payer, 0, 12)
	for i := 1; i <= 12; i++ {
		seed = append(seed, Payer{
			Code:       fmt.Sprintf("P%02d", i),
			Name:       fmt.Sprintf("Payer %02d", i),
			ReconClass: ClassStamp,
		})
	}
	router := newTestRouter(t, seed...)

	rec := doJSON(t, router, http.MethodGet, "/payers?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 12, resp.Total)
	require.Equal(t, 2, resp.TotalPages)
	require.Equal(t, 2, resp.Page)
	require.Len(t, resp.Payers, 2)

	rec = doJSON(t, router, http.MethodGet, "/payers?page=9", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Page)

	rec = doJSON(t, router, http.MethodGet, "/payers?q=P03", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	require.Equal(t, "P03", resp.Payers[0].Code)
}

func TestHandlerCreateConflict(t *testing.T) {
	router := newTestRouter(t, Payer{Code: "OTHAIM", Name: "Othaim Markets", ReconClass: ClassStamp})

	body := `{"code":"othaim","name":"Othaim again","recon_class":"GRN"}`
	rec := doJSON(t, router, http.MethodPost, "/payers", body)
	require.Equal(t, http.StatusConflict, rec.Code)
}
