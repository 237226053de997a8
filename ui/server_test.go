package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loandash/domain/loan"
	"loandash/internal"
	"loandash/internal/dashboard"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newServerFor(t, testDataset(), dashboard.DefaultOptions())
}

func testDataset() *loan.Dataset {
	date := func(day int) time.Time { return time.Date(2017, time.May, day, 0, 0, 0, 0, time.UTC) }
	return loan.NewDataset("test", []loan.Record{
		{ID: 1, LoanAmount: 1000, InterestRate: 11, IssueDate: date(1), IssueWeekday: time.Monday, Purpose: "car", Term: "36 months", Condition: loan.ConditionGood, Grade: "A"},
		{ID: 2, LoanAmount: 2000, InterestRate: 19, IssueDate: date(2), IssueWeekday: time.Tuesday, Purpose: "credit card", Term: "60 months", Condition: loan.ConditionBad, Grade: "D"},
		{ID: 3, LoanAmount: 4000, InterestRate: 13, IssueDate: date(2), IssueWeekday: time.Tuesday, Purpose: "car", Term: "60 months", Condition: loan.ConditionGood, Grade: "B"},
	})
}

func newServerFor(t *testing.T, ds *loan.Dataset, opts dashboard.Options) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	builder, err := dashboard.NewBuilder(ds, opts)
	require.NoError(t, err)

	server, err := NewServer(builder, internal.NewLogger(internal.LogLevelError))
	require.NoError(t, err)
	return server
}

func get(t *testing.T, s *Server, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestIndexRendersDashboard(t *testing.T) {
	s := newTestServer(t)
	w := get(t, s, "/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Financial Insights Dashboard: Loan Performance &amp; Trends")
	assert.Contains(t, body, "Dashboard Filters and Features")
	assert.Contains(t, body, "<strong>Overview</strong>")
	assert.Contains(t, body, "Total Loans Amount")
	assert.Contains(t, body, "$7,000")
	assert.Contains(t, body, "Click Here to Expand Visualization")
	assert.Contains(t, body, `<option value="Good Loan" selected>`)
	assert.Contains(t, body, `id="dashboard-data"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(body), "</html>"))
}

func TestIndexSelectsCondition(t *testing.T) {
	s := newTestServer(t)
	w := get(t, s, "/?condition=Bad+Loan")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<option value="Bad Loan" selected>`)
}

func TestIndexRejectsUnknownCondition(t *testing.T) {
	s := newTestServer(t)
	w := get(t, s, "/?condition=Maybe")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
}

func TestOverviewEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := get(t, s, "/api/overview")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Metrics []dashboard.MetricTile `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Metrics, 4)
	assert.Equal(t, "3", resp.Metrics[0].Value)
	assert.Equal(t, "14%", resp.Metrics[2].Value)
	assert.Equal(t, "$2,333", resp.Metrics[3].Value)
}

func TestTrendAndPerformanceEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/api/charts/trends")
	require.Equal(t, http.StatusOK, w.Code)
	var trends struct {
		Tabs []dashboard.Tab `json:"tabs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trends))
	require.Len(t, trends.Tabs, 3)
	assert.Equal(t, "Issue Date Analysis", trends.Tabs[2].Label)
	assert.Len(t, trends.Tabs[2].Chart.Series[0].Data, 7)

	w = get(t, s, "/api/charts/performance")
	require.Equal(t, http.StatusOK, w.Code)
	var perf struct {
		Charts []dashboard.ChartConfig `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &perf))
	require.Len(t, perf.Charts, 2)
	assert.Equal(t, dashboard.ChartPie, perf.Charts[0].ChartType)
}

func TestConditionEndpointRoundTrip(t *testing.T) {
	s := newTestServer(t)

	decode := func(w *httptest.ResponseRecorder) dashboard.ConditionView {
		require.Equal(t, http.StatusOK, w.Code)
		var v dashboard.ConditionView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
		return v
	}

	good := decode(get(t, s, "/api/charts/condition?condition=Good+Loan"))
	bad := decode(get(t, s, "/api/charts/condition?condition=Bad+Loan"))
	goodAgain := decode(get(t, s, "/api/charts/condition?condition=Good+Loan"))

	assert.Equal(t, 2, good.Loans)
	assert.Equal(t, 1, bad.Loans)
	assert.Equal(t, good, goodAgain)
	require.Len(t, good.Tabs, 2)
	assert.Equal(t, "Loan Amount Distribution by Purpose", good.Tabs[1].Label)
}

func TestConditionEndpointETag(t *testing.T) {
	s := newTestServer(t)

	first := get(t, s, "/api/charts/condition?condition=good")
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	second := get(t, s, "/api/charts/condition?condition=good", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, second.Code)

	other := get(t, s, "/api/charts/condition?condition=bad", "If-None-Match", etag)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestConditionEndpointBadInput(t *testing.T) {
	s := newTestServer(t)
	w := get(t, s, "/api/charts/condition?condition=Neutral")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndStatic(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, float64(3), health["records"])

	w = get(t, s, "/static/dashboard.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "b.outliers", "box plots draw the points beyond the whiskers")
}

func TestConditionETagChangesWithTableAndBins(t *testing.T) {
	etagOf := func(s *Server) string {
		w := get(t, s, "/api/charts/condition?condition=Good+Loan")
		require.Equal(t, http.StatusOK, w.Code)
		return w.Header().Get("ETag")
	}

	original := testDataset()
	base := etagOf(newServerFor(t, original, dashboard.Options{HistogramBins: 20}))

	fewerBins := get(t, newServerFor(t, original, dashboard.Options{HistogramBins: 5}),
		"/api/charts/condition?condition=Good+Loan", "If-None-Match", base)
	assert.Equal(t, http.StatusOK, fewerBins.Code)
	assert.NotEqual(t, base, fewerBins.Header().Get("ETag"))

	corrected := original.Records()
	corrected[0].LoanAmount = 50000
	reloaded := get(t, newServerFor(t, loan.NewDataset("test", corrected), dashboard.Options{HistogramBins: 20}),
		"/api/charts/condition?condition=Good+Loan", "If-None-Match", base)
	assert.Equal(t, http.StatusOK, reloaded.Code)
	assert.NotEqual(t, base, reloaded.Header().Get("ETag"))
}

func TestUnknownRouteIsJSONNotFound(t *testing.T) {
	s := newTestServer(t)
	w := get(t, s, "/api/charts/missing")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)
}

func TestHandlerPanicIsInternalError(t *testing.T) {
	s := newTestServer(t)
	s.router.GET("/panic", func(c *gin.Context) { panic("chart exploded") })

	w := get(t, s, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.NotContains(t, w.Body.String(), "chart exploded")
}

func TestRenderMarkdown(t *testing.T) {
	out := string(renderMarkdown(SidebarFeaturesMD))
	assert.Contains(t, out, "<ul>")
	assert.Contains(t, out, "<strong>Financial Analysis</strong>")
}
