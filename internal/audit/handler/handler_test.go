package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealaudit/internal/audit"
	"dealaudit/pkg/domain"
	dErrors "dealaudit/pkg/domain-errors"
	"dealaudit/pkg/testutil"
)

type fakeService struct {
	result *audit.SessionResult
	err    error
	ran    audit.Session
}

func (f *fakeService) Run(_ context.Context, session audit.Session) (*audit.SessionResult, error) {
	f.ran = session
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeReportLog struct {
	reports map[domain.ReportID]*audit.AuditReport
	recent  []audit.AuditReport
	err     error
}

func (f *fakeReportLog) GetByID(_ context.Context, id domain.ReportID) (*audit.AuditReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	report, ok := f.reports[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "audit report not found")
	}
	return report, nil
}

func (f *fakeReportLog) ListRecent(_ context.Context, limit int) ([]audit.AuditReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.recent) {
		limit = len(f.recent)
	}
	return f.recent[:limit], nil
}

func newRouter(service *fakeService, reports *fakeReportLog) chi.Router {
	r := chi.NewRouter()
	New(service, reports, slog.New(slog.DiscardHandler)).Register(r)
	return r
}

func passingResult() *audit.SessionResult {
	return &audit.SessionResult{
		Report: &audit.AuditReport{
			ID:           domain.NewReportID(),
			SessionID:    domain.NewSessionID(),
			OverallScore: 88,
			Pass:         true,
			Alerts:       []audit.Alert{},
			CreatedAt:    time.Now().UTC(),
		},
	}
}

func validRequest() RunSessionRequest {
	return RunSessionRequest{
		SessionID: domain.NewSessionID().String(),
		Listings: []ScrapedListingPayload{{
			Title:        "3/2 ranch",
			Address:      "412 S Quebec Ave, Tulsa, OK",
			PropertyType: "Single Family",
			DealType:     "wholesale",
			Condition:    "fair",
			Price:        150000,
		}},
	}
}

func TestHandleRunSession(t *testing.T) {
	t.Run("audits a session and returns the result", func(t *testing.T) {
		service := &fakeService{result: passingResult()}
		router := newRouter(service, &fakeReportLog{})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/audit/sessions", validRequest())
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		result := testutil.UnmarshalResponse[audit.SessionResult](t, rr)
		assert.Equal(t, 88, result.Report.OverallScore)
		assert.True(t, result.Report.Pass)

		// enum labels are normalized before the service sees them
		require.Len(t, service.ran.Listings, 1)
		assert.Equal(t, "single_family", string(service.ran.Listings[0].PropertyType))
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		router := newRouter(&fakeService{}, &fakeReportLog{})

		req := testutil.NewRequestWithBody(t, http.MethodPost, "/audit/sessions", "{not json")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	t.Run("rejects an invalid session id", func(t *testing.T) {
		router := newRouter(&fakeService{}, &fakeReportLog{})

		body := validRequest()
		body.SessionID = "not-a-uuid"
		req := testutil.NewJSONRequest(t, http.MethodPost, "/audit/sessions", body)
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	})

	t.Run("maps an invalid session to 400", func(t *testing.T) {
		service := &fakeService{err: &audit.InvalidSessionError{Reason: "missing session id"}}
		router := newRouter(service, &fakeReportLog{})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/audit/sessions", validRequest())
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	})

	t.Run("hides internal failures", func(t *testing.T) {
		service := &fakeService{err: errors.New("pg: connection refused")}
		router := newRouter(service, &fakeReportLog{})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/audit/sessions", validRequest())
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusInternalServerError)
		errResp := testutil.UnmarshalErrorResponse(t, rr)
		assert.NotContains(t, errResp, "error_description")
	})
}

func TestHandleGetReport(t *testing.T) {
	report := passingResult().Report
	reports := &fakeReportLog{reports: map[domain.ReportID]*audit.AuditReport{report.ID: report}}
	router := newRouter(&fakeService{}, reports)

	t.Run("returns the report", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/admin/audit/reports/"+report.ID.String())
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[audit.AuditReport](t, rr)
		assert.Equal(t, report.ID, got.ID)
	})

	t.Run("unknown report is 404", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/admin/audit/reports/"+domain.NewReportID().String())
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/admin/audit/reports/xyz")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	})
}

func TestHandleListReports(t *testing.T) {
	recent := []audit.AuditReport{
		*passingResult().Report,
		*passingResult().Report,
		*passingResult().Report,
	}
	router := newRouter(&fakeService{}, &fakeReportLog{recent: recent})

	t.Run("respects the limit parameter", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/admin/audit/reports?limit=2")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[[]audit.AuditReport](t, rr)
		assert.Len(t, *got, 2)
	})

	t.Run("rejects an out-of-range limit", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/admin/audit/reports?limit=500")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	})

	t.Run("empty log returns an empty array", func(t *testing.T) {
		emptyRouter := newRouter(&fakeService{}, &fakeReportLog{})
		req := testutil.NewRequest(t, http.MethodGet, "/admin/audit/reports")
		rr := testutil.DoRequest(emptyRouter, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.JSONEq(t, "[]", rr.Body.String())
	})
}

func TestHandleSummary(t *testing.T) {
	r1 := *passingResult().Report
	r1.OverallScore, r1.Pass, r1.AlertsCount = 90, true, 0
	r2 := *passingResult().Report
	r2.OverallScore, r2.Pass, r2.AlertsCount = 40, false, 3

	router := newRouter(&fakeService{}, &fakeReportLog{recent: []audit.AuditReport{r1, r2}})

	req := testutil.NewRequest(t, http.MethodGet, "/admin/audit/summary")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	got := testutil.UnmarshalResponse[SummaryResponse](t, rr)
	assert.Equal(t, 65, got.AverageScore)
	assert.Equal(t, 50, got.PassRate)
	assert.Equal(t, 3, got.TotalAlerts)
	assert.Len(t, got.Reports, 2)
}
