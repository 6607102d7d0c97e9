package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQCService struct {
	mock.Mock
}

func (m *MockQCService) Products(ctx context.Context) []domain.Product {
	return m.Called().Get(0).([]domain.Product)
}

func (m *MockQCService) Inspectors(ctx context.Context) []domain.Inspector {
	return m.Called().Get(0).([]domain.Inspector)
}

func (m *MockQCService) Logs(ctx context.Context) []domain.InspectionLog {
	return m.Called().Get(0).([]domain.InspectionLog)
}

func (m *MockQCService) SaveQCLog(
	ctx context.Context, d domain.InspectionDraft,
) (domain.InspectionLog, error) {
	args := m.Called(d)
	return args.Get(0).(domain.InspectionLog), args.Error(1)
}

func (m *MockQCService) ClearLocalLogs(ctx context.Context) error {
	return m.Called().Error(0)
}

func (m *MockQCService) Settings(ctx context.Context) (domain.ConnectionSettings, error) {
	args := m.Called()
	return args.Get(0).(domain.ConnectionSettings), args.Error(1)
}

func (m *MockQCService) SaveSettings(ctx context.Context, s domain.ConnectionSettings) error {
	return m.Called(s).Error(0)
}

func (m *MockQCService) Annotate(
	ctx context.Context, notes, productName string,
) (domain.Annotation, bool) {
	args := m.Called(notes, productName)
	return args.Get(0).(domain.Annotation), args.Bool(1)
}

func do(
	t *testing.T, h http.Handler, method, target, contentType, body string,
) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestQCHandler_GetProducts(t *testing.T) {
	svc := new(MockQCService)
	svc.On("Products").Return([]domain.Product{
		{ID: "P-1", Name: "Bracket", Category: "Hardware", Price: decimal.RequireFromString("12.5")},
	})

	rec := do(t, NewMux(svc), http.MethodGet, "/v1/products", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, []Product{
		{ID: "P-1", Name: "Bracket", Category: "Hardware", Price: "12.50"},
	}, got)
}

func TestQCHandler_GetLogsEmpty(t *testing.T) {
	svc := new(MockQCService)
	svc.On("Logs").Return([]domain.InspectionLog{})

	rec := do(t, NewMux(svc), http.MethodGet, "/v1/logs", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestQCHandler_PostLog(t *testing.T) {
	const validBody = `{"productId":"P-1","productName":"Bracket",` +
		`"checkDate":"2024-04-01","inspector":"Ana","notes":"ok","status":"fail"}`

	t.Run("Created", func(t *testing.T) {
		draft := domain.InspectionDraft{
			ProductID:   "P-1",
			ProductName: "Bracket",
			CheckDate:   "2024-04-01",
			Inspector:   "Ana",
			Notes:       "ok",
			Status:      domain.StatusFail,
		}
		svc := new(MockQCService)
		svc.On("SaveQCLog", draft).Return(draft.ToLog("L-1", 42), nil)

		rec := do(t, NewMux(svc), http.MethodPost, "/v1/logs", "application/json", validBody)
		require.Equal(t, http.StatusCreated, rec.Code)

		var got InspectionLog
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "L-1", got.ID)
		assert.Equal(t, "FAIL", got.Status)
		assert.EqualValues(t, 42, got.CreatedAt)
		svc.AssertExpectations(t)
	})

	t.Run("EmptyStatusIsPass", func(t *testing.T) {
		svc := new(MockQCService)
		svc.On("SaveQCLog", mock.MatchedBy(func(d domain.InspectionDraft) bool {
			return d.Status == domain.StatusPass
		})).Return(domain.InspectionLog{ID: "L-2", Status: domain.StatusPass}, nil)

		body := `{"productId":"P-1","checkDate":"2024-04-01"}`
		rec := do(t, NewMux(svc), http.MethodPost, "/v1/logs", "application/json", body)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	tests := []struct {
		name        string
		contentType string
		body        string
		wantCode    int
	}{
		{"InvalidJSON", "application/json", `{`, http.StatusBadRequest},
		{"MissingProduct", "application/json", `{"checkDate":"2024-04-01"}`, http.StatusBadRequest},
		{"BadDate", "application/json", `{"productId":"P-1","checkDate":"04/01/2024"}`, http.StatusBadRequest},
		{"BadStatus", "application/json", `{"productId":"P-1","checkDate":"2024-04-01","status":"MAYBE"}`, http.StatusBadRequest},
		{"WrongMediaType", "text/plain", validBody, http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockQCService)
			rec := do(t, NewMux(svc), http.MethodPost, "/v1/logs", tt.contentType, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			svc.AssertNotCalled(t, "SaveQCLog", mock.Anything)
		})
	}

	t.Run("CacheFailure", func(t *testing.T) {
		svc := new(MockQCService)
		svc.On("SaveQCLog", mock.Anything).
			Return(domain.InspectionLog{}, errors.New("disk full"))

		rec := do(t, NewMux(svc), http.MethodPost, "/v1/logs", "application/json", validBody)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestQCHandler_DeleteLogs(t *testing.T) {
	svc := new(MockQCService)
	svc.On("ClearLocalLogs").Return(nil)

	rec := do(t, NewMux(svc), http.MethodDelete, "/v1/logs", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestQCHandler_ExportLogs(t *testing.T) {
	logs := []domain.InspectionLog{{
		ID:          "L-1",
		ProductID:   "P-1",
		ProductName: "Bracket",
		CheckDate:   "2024-04-01",
		Inspector:   "Ana",
		Status:      domain.StatusPass,
	}}

	t.Run("CSV", func(t *testing.T) {
		svc := new(MockQCService)
		svc.On("Logs").Return(logs)

		rec := do(t, NewMux(svc), http.MethodGet, "/v1/logs/export?format=csv", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "qc_logs.csv")

		lines := strings.Split(strings.TrimSuffix(rec.Body.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t,
			"ID,Check Date,Shipping Order No,Product ID,Product Name,Inspector,Status,Notes,AI Analysis",
			lines[0],
		)
		assert.True(t, strings.HasPrefix(lines[1], `"L-1","2024-04-01",`))
	})

	t.Run("XLSX", func(t *testing.T) {
		svc := new(MockQCService)
		svc.On("Logs").Return(logs)

		rec := do(t, NewMux(svc), http.MethodGet, "/v1/logs/export?format=xlsx", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
		assert.NotZero(t, rec.Body.Len())
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		svc := new(MockQCService)
		rec := do(t, NewMux(svc), http.MethodGet, "/v1/logs/export?format=pdf", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Logs")
	})
}

func TestQCHandler_Settings(t *testing.T) {
	t.Run("GetHidesToken", func(t *testing.T) {
		svc := new(MockQCService)
		svc.On("Settings").Return(domain.ConnectionSettings{
			SheetID:           "sheet-1",
			GoogleAccessToken: "secret",
		}, nil)

		rec := do(t, NewMux(svc), http.MethodGet, "/v1/settings", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret")
		assert.JSONEq(t, `{"sheetId":"sheet-1","hasToken":true}`, rec.Body.String())
	})

	t.Run("Put", func(t *testing.T) {
		want := domain.ConnectionSettings{SheetID: "sheet-2", GoogleAccessToken: "tok"}
		svc := new(MockQCService)
		svc.On("SaveSettings", want).Return(nil)

		body := `{"sheetId":"sheet-2","googleAccessToken":"tok"}`
		rec := do(t, NewMux(svc), http.MethodPut, "/v1/settings", "application/json", body)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestQCHandler_PostAnnotation(t *testing.T) {
	body := `{"notes":"box dented","productName":"Bracket"}`

	t.Run("Regular", func(t *testing.T) {
		svc := new(MockQCService)
		svc.On("Annotate", "box dented", "Bracket").Return(domain.Annotation{
			SuggestedStatus: domain.StatusWarning,
			Summary:         "Cosmetic damage",
			Category:        "Packaging",
		}, true)

		rec := do(t, NewMux(svc), http.MethodPost, "/v1/annotations", "application/json", body)
		require.Equal(t, http.StatusOK, rec.Code)

		var got Annotation
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "WARNING", got.SuggestedStatus)
		assert.Equal(t, "[Packaging] Cosmetic damage", got.Analysis)
	})

	t.Run("Unavailable", func(t *testing.T) {
		svc := new(MockQCService)
		svc.On("Annotate", "box dented", "Bracket").Return(domain.Annotation{}, false)

		rec := do(t, NewMux(svc), http.MethodPost, "/v1/annotations", "application/json", body)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("EmptyNotes", func(t *testing.T) {
		svc := new(MockQCService)
		rec := do(t, NewMux(svc), http.MethodPost, "/v1/annotations", "application/json", `{"notes":" "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	svc := new(MockQCService)
	svc.On("Inspectors").Return([]domain.Inspector{})
	h := NewMux(svc)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/v1/inspectors", "", "").Code)

	rec := do(t, h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "qclog_http_requests_total")
}
