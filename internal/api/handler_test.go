package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/api"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logbook"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logger"
)

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	svc := logbook.New(logbook.Options{
		Base:     t.TempDir(),
		Location: time.UTC,
		Now:      func() time.Time { return now },
		Logger:   logger.Nop(),
	})
	return api.NewServer(":0", api.NewHandler(svc, logger.Nop()), logger.Nop()).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestCreateEvent(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/v1/events",
		`{"status":"DRIVING","timestamp":"2026-03-10T06:00:00Z","city":"Boise","state":"ID"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var ev map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ev))
	assert.Equal(t, "DRIVING", ev["status"])
	assert.Equal(t, "api", ev["source"])
	assert.Equal(t, "Boise", ev["city"])
	assert.NotEmpty(t, ev["id"])

	rec = do(t, h, http.MethodGet, "/v1/events?from=2026-03-10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var events []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Len(t, events, 1)
}

func TestCreateEventRejectsBadInput(t *testing.T) {
	h := newServer(t)

	for name, body := range map[string]string{
		"status":  `{"status":"NAPPING"}`,
		"json":    `{"status":`,
		"unknown": `{"status":"OFF","driver":"x"}`,
		"city":    `{"status":"OFF","city":"` + strings.Repeat("c", 129) + `"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/events", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestHOSSummary(t *testing.T) {
	h := newServer(t)
	for _, body := range []string{
		`{"status":"DRIVING","timestamp":"2026-03-09T00:00:00Z"}`,
		`{"status":"OFF","timestamp":"2026-03-09T12:00:00Z"}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/v1/events", body).Code)
	}

	rec := do(t, h, http.MethodGet, "/v1/hos?from=2026-03-09&to=2026-03-10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"daily": [
			{"day": "2026-03-09", "totals": {"OFF": 12.00, "SLEEPER": 0.00, "DRIVING": 12.00, "ON_DUTY": 0.00}}
		],
		"violations": [
			{"code": "11H", "message": "Driving exceeds 11 hours (12.0h)", "day": "2026-03-09"},
			{"code": "30M", "message": "30-min break required within 8 hours of driving", "day": "2026-03-09"}
		]
	}`, rec.Body.String())
}

func TestHOSSummaryBadRange(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/v1/hos?from=2026-03-09&to=2026-03-01", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRangeSpanIsCapped(t *testing.T) {
	h := newServer(t)
	for _, target := range []string{
		"/v1/hos?from=1000-01-01&to=2026-03-10",
		"/v1/events?from=0001-01-01&to=9999-12-31",
		"/v1/daily-logs?from=2025-01-01&to=2026-03-10",
		"/v1/inspections?from=2024-03-10&to=2026-03-10",
	} {
		rec := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "spans more than 366 days", target)
	}

	rec := do(t, h, http.MethodGet, "/v1/hos?from=2025-03-11&to=2026-03-10", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestInspections(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/v1/inspections", `{
		"kind": "pre-trip",
		"performed_at": "2026-03-10T05:30:00Z",
		"defects": [{"item": "left mirror", "severity": "minor", "note": "cracked"}],
		"signature_driver": "J. Doe"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "PRE_TRIP", created["kind"])
	assert.NotEmpty(t, created["id"])

	rec = do(t, h, http.MethodPost, "/v1/inspections",
		`{"kind":"POST_TRIP","performed_at":"2026-03-10T19:00:00Z","signature_driver":"J. Doe","signature_mechanic":"B. Smith"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/inspections?from=2026-03-10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "POST_TRIP", list[0]["kind"])
	assert.Equal(t, "PRE_TRIP", list[1]["kind"])
	assert.Len(t, list[1]["defects"], 1)

	for name, body := range map[string]string{
		"kind":      `{"kind":"annual","signature_driver":"J. Doe"}`,
		"signature": `{"kind":"PRE_TRIP"}`,
		"defect":    `{"kind":"PRE_TRIP","signature_driver":"J. Doe","defects":[{"severity":"major"}]}`,
		"unknown":   `{"kind":"PRE_TRIP","signature_driver":"J. Doe","trip_id":4}`,
	} {
		rec := do(t, h, http.MethodPost, "/v1/inspections", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestSubmitAndListDailyLogs(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/v1/daily-logs/2026-03-09/submit", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var log map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &log))
	assert.Equal(t, "2026-03-09", log["day"])
	assert.Equal(t, true, log["submitted"])

	rec = do(t, h, http.MethodGet, "/v1/daily-logs?from=2026-03-01&to=2026-03-10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var logs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
	assert.Len(t, logs, 1)

	rec = do(t, h, http.MethodPost, "/v1/daily-logs/yesterday/submit", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
