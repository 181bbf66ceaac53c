package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/hotscan/internal/api"
	"github.com/user/hotscan/internal/config"
	"github.com/user/hotscan/internal/extract"
	"github.com/user/hotscan/internal/monitoring"
)

const apiCardClasses = "hot-col-xl-3 hot-col-lg-4 hot-col-md-6 hot-col-sm-12 _py-3"

func apiCard(slug string) string {
	return `<div class="` + apiCardClasses + `">` +
		`<a href="/market/product/` + slug + `">` +
		`<img src="https://static.example.net/` + slug + `.jpg"/>` +
		`<span class="product-name">` + slug + `</span></a>` +
		`<p class="_mb-0 _text-3 _text-md-4 _text-green _font-weight-light">R$ 12,34</p>` +
		`<p class="_mb-0 _text-1 _text-gray-500">R$ 20,00</p>` +
		`<span class="_mr-1 _text-1 _text-gray-800">4.5</span>` +
		`<span class="_mr-1 _text-1 _text-gray-800">70°</span>` +
		`<span class="_ml-1 _text-1 _text-gray-500 _font-weight _d-none _d-md-inline">(15)</span>` +
		`</div>`
}

func snapshot(cards ...string) string {
	return "<html><body>" + strings.Join(cards, "\n") + "</body></html>"
}

func newTestServer(t *testing.T) *api.Server {
	t.Helper()
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	ex, err := extract.NewExtractor(extract.DefaultLocators(), metrics, zap.NewNop())
	require.NoError(t, err)
	scanner := extract.NewScanner(ex, 1, metrics, zap.NewNop())
	cfg := &config.Config{Dedup: true, ServerPort: "0"}
	return api.NewServer(cfg, scanner, metrics, zap.NewNop())
}

func doRequest(t *testing.T, srv *api.Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestExtractEndpointReturnsAssembledRecords(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	body := snapshot(apiCard("curso-a"), apiCard("curso-b"), apiCard("curso-a"))

	rec := doRequest(t, srv, http.MethodPost, "/api/extract", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Count   int `json:"count"`
		Records []struct {
			ProductName string  `json:"product_name"`
			ProductURL  string  `json:"product_url"`
			Currency    string  `json:"currency"`
			Commission  float64 `json:"commission"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	assert.Equal(t, 2, payload.Count, "the repeated product url dedups by default")
	require.Len(t, payload.Records, 2)
	assert.Equal(t, "curso-a", payload.Records[0].ProductName)
	assert.Equal(t, "R$", payload.Records[0].Currency)
	assert.Equal(t, 12.34, payload.Records[0].Commission)
	assert.Equal(t, "https://app.hotmart.com/market/product/curso-b", payload.Records[1].ProductURL)
}

func TestExtractEndpointDedupParameter(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	body := snapshot(apiCard("curso-a"), apiCard("curso-b"), apiCard("curso-a"))

	rec := doRequest(t, srv, http.MethodPost, "/api/extract?dedup=false", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 3, payload.Count)
}

func TestExtractEndpointRejectsEmptyBody(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestServer(t), http.MethodPost, "/api/extract", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty")
}

func TestExtractEndpointWithoutCardsIsUnprocessable(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestServer(t), http.MethodPost, "/api/extract",
		"<html><body><p>nenhum resultado</p></body></html>")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "product_name")
}

func TestExtractCSVEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := doRequest(t, srv, http.MethodPost, "/api/extract.csv", snapshot(apiCard("curso-a")))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "hotmart_search_")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")

	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, rec.Body.String(), "product_name,currency,commission")
	assert.Contains(t, rec.Body.String(), "curso-a")
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestServer(t), http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestServer(t), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
