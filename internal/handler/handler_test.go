package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taxreturn/internal/calc"
	"taxreturn/internal/middleware"
	"taxreturn/internal/model"
	"taxreturn/internal/service"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("handler-test")

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	middleware.InitJWT(testSecret)
	m.Run()
}

func bearer(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(), "role": role, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)
	return "Bearer " + s
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
}

func do(t *testing.T, r http.Handler, method, path, auth string, body []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

const employmentJSON = `{
	"personal_info": {"rodne_cislo": "850101/1234"},
	"employment": {"enabled": true, "gross_income": "15000", "insurance_deduction": "1500", "prepayments": "2000"}
}`

func TestTaxHandler_Compute(t *testing.T) {
	r := gin.New()
	NewTaxHandler(service.NewTaxService(calc.DefaultParams())).RegisterRoutes(r.Group(""))

	w, env := do(t, r, http.MethodPost, "/api/tax/compute", "", []byte(employmentJSON))
	require.Equal(t, http.StatusOK, w.Code)
	var got service.ComputeResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "568.68", got.Result.TaxToRefund)
	assert.Equal(t, 100, got.Summary.ReadinessScore)

	w, env = do(t, r, http.MethodPost, "/api/tax/compute", "", []byte("{"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "invalid declaration")
}

func TestTaxHandler_ComputeRejectsOversizedBody(t *testing.T) {
	r := gin.New()
	NewTaxHandler(service.NewTaxService(calc.DefaultParams())).RegisterRoutes(r.Group(""))

	padding := strings.Repeat(" ", maxDeclarationSize)
	w, env := do(t, r, http.MethodPost, "/api/tax/compute", "", []byte(employmentJSON+padding))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, env.Error, "too large")

	// Just under the bound still computes.
	fits := employmentJSON + strings.Repeat(" ", maxDeclarationSize-len(employmentJSON))
	w, _ = do(t, r, http.MethodPost, "/api/tax/compute", "", []byte(fits))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTaxHandler_NewDividendEntry(t *testing.T) {
	r := gin.New()
	NewTaxHandler(service.NewTaxService(calc.DefaultParams())).RegisterRoutes(r.Group(""))

	w, env := do(t, r, http.MethodPost, "/api/tax/dividend-entries", "",
		[]byte(`{"ticker":"MSFT","country":"US","currency":"USD","amount_original":"100","exchange_rate":"1.0823"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var entry model.DividendEntry
	require.NoError(t, json.Unmarshal(env.Data, &entry))
	assert.Equal(t, "92.40", entry.AmountEur)

	w, _ = do(t, r, http.MethodPost, "/api/tax/dividend-entries", "",
		[]byte(`{"ticker":"MSFT","country":"US","currency":"USD","amount_original":"100","exchange_rate":"0"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/tax/dividend-entries", "", []byte(`{"ticker":"MSFT"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// stubFilings records the actor and returns a canned error.
type stubFilings struct {
	service.FilingService
	err   error
	actor service.Actor
}

func (s *stubFilings) Get(_ context.Context, a service.Actor, id string) (service.FilingResponse, error) {
	s.actor = a
	return service.FilingResponse{ID: id}, s.err
}

func (s *stubFilings) Update(_ context.Context, a service.Actor, id string, _ service.UpdateFilingRequest) (service.FilingResponse, error) {
	s.actor = a
	return service.FilingResponse{ID: id}, s.err
}

func (s *stubFilings) ExportXML(_ context.Context, a service.Actor, _ string) ([]byte, error) {
	s.actor = a
	return []byte("<dokument/>"), s.err
}

func TestFilingHandler_ErrorMapping(t *testing.T) {
	owner := uuid.New()
	auth := bearer(t, owner, model.RoleTaxpayer)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"not found", service.ErrFilingNotFound, http.StatusNotFound},
		{"wrapped conflict", errors.Join(errors.New("ctx"), service.ErrFilingInReview), http.StatusConflict},
		{"bad declaration", service.ErrInvalidDeclaration, http.StatusBadRequest},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubFilings{err: tt.err}
			r := gin.New()
			NewFilingHandler(stub).RegisterRoutes(r.Group(""))

			w, env := do(t, r, http.MethodPut, "/api/filings/f-1", auth, []byte(`{"declaration": {}}`))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, owner, stub.actor.ID)
			assert.Equal(t, model.RoleTaxpayer, stub.actor.Role)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", env.Error)
			}
		})
	}
}

func TestFilingHandler_RequiresToken(t *testing.T) {
	r := gin.New()
	NewFilingHandler(&stubFilings{}).RegisterRoutes(r.Group(""))

	w, _ := do(t, r, http.MethodGet, "/api/filings/f-1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, http.MethodPut, "/api/filings/f-1", bearer(t, uuid.New(), model.RoleTaxpayer), []byte(`{"title": "x"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFilingHandler_Export(t *testing.T) {
	r := gin.New()
	NewFilingHandler(&stubFilings{}).RegisterRoutes(r.Group(""))

	w, _ := do(t, r, http.MethodGet, "/api/filings/f-1/export.xml", bearer(t, uuid.New(), model.RoleAccountant), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "dpfo-f-1.xml")
	assert.Equal(t, "<dokument/>", w.Body.String())
}

type stubReviews struct {
	service.ReviewService
	comment string
}

func (s *stubReviews) RejectReview(_ context.Context, _ service.Actor, id string, reason string) (service.ReviewResponse, error) {
	s.comment = reason
	return service.ReviewResponse{ID: id, Status: model.ReviewRejected}, nil
}

func TestReviewHandler_Roles(t *testing.T) {
	stub := &stubReviews{}
	r := gin.New()
	NewReviewHandler(stub).RegisterRoutes(r.Group(""))

	w, _ := do(t, r, http.MethodPost, "/api/reviews/r-1/reject", bearer(t, uuid.New(), model.RoleTaxpayer), []byte(`{"reason":"x"}`))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/reviews/r-1/reject", bearer(t, uuid.New(), model.RoleAccountant), []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := do(t, r, http.MethodPost, "/api/reviews/r-1/reject", bearer(t, uuid.New(), model.RoleAccountant), []byte(`{"reason":"missing statement"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "missing statement", stub.comment)
	assert.Contains(t, string(env.Data), model.ReviewRejected)
}

type stubUsers struct {
	service.UserService
}

func (stubUsers) Login(_ context.Context, req service.LoginUserRequest) (*service.TokenResponse, error) {
	if req.Password != "secret1" {
		return nil, service.ErrInvalidCredentials
	}
	return &service.TokenResponse{Token: "tok"}, nil
}

func TestUserHandler_Login(t *testing.T) {
	r := gin.New()
	NewUserHandler(stubUsers{}).RegisterRoutes(r.Group(""))

	w, _ := do(t, r, http.MethodPost, "/login", "", []byte(`{"email":"jan@example.sk","password":"nope"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, http.MethodPost, "/login", "", []byte(`{"email":"jan@example.sk","password":"secret1"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "access_token=tok")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")
}

type stubStatistics struct {
	taxYear    int
	start, end time.Time
}

func (s *stubStatistics) GetStatistics(_ context.Context, taxYear int, start, end time.Time) (model.StatisticsResponse, error) {
	if end.Before(start) {
		return model.StatisticsResponse{}, service.ErrInvalidTimeRange
	}
	s.taxYear, s.start, s.end = taxYear, start, end
	return model.StatisticsResponse{TaxYear: taxYear, TotalFilings: 3}, nil
}

func TestStatisticsHandler(t *testing.T) {
	stub := &stubStatistics{}
	r := gin.New()
	NewStatisticsHandler(stub).RegisterRoutes(r.Group(""))
	staff := bearer(t, uuid.New(), model.RoleAccountant)

	w, _ := do(t, r, http.MethodGet, "/api/statistics", bearer(t, uuid.New(), model.RoleTaxpayer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := do(t, r, http.MethodGet, "/api/statistics?tax_year=2025&start_date=2026-01-01T00:00:00Z&end_date=2026-04-30T00:00:00Z", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2025, stub.taxYear)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), stub.start.UTC())
	assert.Contains(t, string(env.Data), `"total_filings":3`)

	w, _ = do(t, r, http.MethodGet, "/api/statistics", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, stub.start.Day())
	assert.Equal(t, 0, stub.taxYear)

	for _, query := range []string{"?start_date=yesterday", "?end_date=2026-01-01", "?tax_year=last", "?start_date=2026-02-01T00:00:00Z&end_date=2026-01-01T00:00:00Z"} {
		w, _ = do(t, r, http.MethodGet, "/api/statistics"+query, staff, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}
