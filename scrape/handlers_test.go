package scrape

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yahooscraper/cache"
	"yahooscraper/fetch"
	"yahooscraper/fund"
)

func newTestRouter(fetcher fetch.Fetcher) *mux.Router {
	router := mux.NewRouter()
	NewHandler(fetcher, cache.New(""), testLogger(), "", 0).Register(router)
	return router
}

func get(t *testing.T, router *mux.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSummaryEndpoint(t *testing.T) {
	rec := get(t, newTestRouter(arkqFetcher()), "/fund/ARKQ/summary")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[["Previous Close","32.85"],["Open","32.88"]]`, rec.Body.String())
}

func TestSummaryEndpointLowercaseTicker(t *testing.T) {
	rec := get(t, newTestRouter(arkqFetcher()), "/fund/arkq/summary")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[["Previous Close","32.85"],["Open","32.88"]]`, rec.Body.String())
}

func TestHoldingsEndpoint(t *testing.T) {
	rec := get(t, newTestRouter(arkqFetcher()), "/fund/ARKQ/holdings")

	require.Equal(t, http.StatusOK, rec.Code)

	var rows [][]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)

	assert.Equal(t, "Stocks", rows[0][0])
	assert.InDelta(t, 0.9994, rows[0][1].(float64), 1e-9)
	assert.Equal(t, "Bonds", rows[1][0])
	assert.InDelta(t, 0, rows[1][1].(float64), 1e-9)
}

func TestPerformanceEndpoint(t *testing.T) {
	rec := get(t, newTestRouter(arkqFetcher()), "/fund/ARKQ/performance")

	require.Equal(t, http.StatusOK, rec.Code)

	var perf map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &perf))
	assert.Contains(t, perf, "overview")
	assert.Contains(t, perf, "trailing")
	assert.Contains(t, perf, "annual")
}

func TestLinksEndpoint(t *testing.T) {
	rec := get(t, newTestRouter(arkqFetcher()), "/fund/ARKQ/links")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Ticker string     `json:"ticker"`
		Pages  []string   `json:"pages"`
		Links  fund.Links `json:"links"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "ARKQ", resp.Ticker)
	assert.Equal(t, []string{"Holdings", "Performance", "Profile", "Risk", "Summary"}, resp.Pages)
	assert.Equal(t, fund.BaseURL+"/quote/ARKQ/risk?p=ARKQ", resp.Links["Risk"])
}

func TestReportEndpoint(t *testing.T) {
	rec := get(t, newTestRouter(arkqFetcher()), "/fund/ARKQ/report")

	require.Equal(t, http.StatusOK, rec.Code)

	var report map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.JSONEq(t, `"ARKQ"`, string(report["ticker"]))
	assert.Contains(t, report, "summary")
	assert.Contains(t, report, "performance")
}

func TestBadTickerIs400(t *testing.T) {
	rec := get(t, newTestRouter(arkqFetcher()), "/fund/ARK-Q/summary")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownTickerIs404(t *testing.T) {
	fetcher := &mapFetcher{pages: map[string]string{
		fund.BaseURL + "/quote/ZZZZ?p=ZZZZ": lookupPage,
	}}

	rec := get(t, newTestRouter(fetcher), "/fund/ZZZZ/summary")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNetworkFailureIs502(t *testing.T) {
	rec := get(t, newTestRouter(&mapFetcher{pages: map[string]string{}}), "/fund/ARKQ/summary")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestFormatErrorIs422(t *testing.T) {
	fetcher := arkqFetcher()
	fetcher.pages[fund.BaseURL+"/quote/ARKQ/holdings?p=ARKQ"] = `<html><body>
	<div><span class="Fl(start)">Stocks</span><span class="Fl(end)">ninety%</span></div>
	</body></html>`

	rec := get(t, newTestRouter(fetcher), "/fund/ARKQ/holdings")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestRouter(arkqFetcher()), "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
