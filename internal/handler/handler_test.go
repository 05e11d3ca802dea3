package handler

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/bhavanapatidar/goalsaver/internal/advisor"
	"github.com/bhavanapatidar/goalsaver/internal/models"
	"github.com/bhavanapatidar/goalsaver/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{
	"age": 30,
	"monthly_income": 5000,
	"monthly_expenses": 3000,
	"current_savings": 10000,
	"risk_tolerance": 3,
	"financial_goals": {"emergency_fund": true, "retirement": true, "major_purchase": false},
	"spending_pattern": {"discretionary": 0.3, "essential": 0.6, "investment": 0.1}
}`

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newRouter(opts RouterOptions) *mux.Router {
	log := quietLogger()
	opts.Logger = log
	h := NewHandler(service.NewService(advisor.New(), nil, log), log)
	return NewRouter(h, opts)
}

func do(t *testing.T, r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newRouter(RouterOptions{}), http.MethodGet, "/api/v1/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestSavingsPlan_JSON(t *testing.T) {
	rec := do(t, newRouter(RouterOptions{}), http.MethodPost, "/api/v1/savings-plan", sampleBody, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var plan models.SavingsPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, models.RiskAggressive, plan.RiskProfile.RiskCategory)
	assert.InDelta(t, 750.0, plan.SavingsTargets.MonthlyTarget, 1e-9)
	assert.Len(t, plan.WeeklyPlan, 4)
	assert.InDelta(t, 24.0, plan.GoalTimelines[models.GoalEmergencyFund].MonthsToCompletion, 1e-9)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	factors := raw["risk_profile"].(map[string]any)["risk_factors"].(map[string]any)
	assert.Contains(t, factors, "income_stability")
	assert.Contains(t, factors, "emergency_fund")
	goals := raw["goal_timelines"].(map[string]any)
	assert.NotContains(t, goals, "major_purchase")
}

func TestSavingsPlan_EmptyRecommendationsEncodeAsArray(t *testing.T) {
	body := strings.Replace(sampleBody, `"emergency_fund": true`, `"emergency_fund": false`, 1)
	rec := do(t, newRouter(RouterOptions{}), http.MethodPost, "/api/v1/savings-plan", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		WeeklyPlan []struct {
			Recommendations json.RawMessage `json:"recommendations"`
		} `json:"weekly_plan"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw.WeeklyPlan, 4)
	assert.Equal(t, "[]", string(raw.WeeklyPlan[0].Recommendations))
}

func TestSavingsPlan_XML(t *testing.T) {
	rec := do(t, newRouter(RouterOptions{}), http.MethodPost, "/api/v1/savings-plan", sampleBody,
		map[string]string{"Accept": "application/xml"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(rec.Body.Bytes()))
	assert.Equal(t, "750.00", doc.FindElement("/SavingsPlan/SavingsTargets/MonthlyTarget").Text())
}

func TestSavingsPlan_OverflowingInput(t *testing.T) {
	body := strings.Replace(sampleBody, `"monthly_income": 5000`, `"monthly_income": 1e307`, 1)
	body = strings.Replace(body, `"monthly_expenses": 3000`, `"monthly_expenses": 1e306`, 1)

	for _, accept := range []string{"application/json", "application/xml"} {
		t.Run(accept, func(t *testing.T) {
			rec := do(t, newRouter(RouterOptions{}), http.MethodPost, "/api/v1/savings-plan", body,
				map[string]string{"Accept": accept})
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, advisor.ErrNonPositiveDivisor.Error(), resp.Error)
		})
	}
}

func TestRespond_UnencodableValueIsNotSentAsOK(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	h := NewHandler(nil, log)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)

	h.respond(rec, req, map[string]float64{"target": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "encoding response")
}

func TestRecoveredPanicIsLoggedAndCounted(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	h := NewHandler(service.NewService(advisor.New(), nil, log), log)
	r := NewRouter(h, RouterOptions{Logger: log})
	r.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := do(t, r, http.MethodGet, "/boom", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var access *logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Request handled" {
			access = entry
		}
	}
	require.NotNil(t, access)
	assert.Equal(t, http.StatusInternalServerError, access.Data["status"])

	metrics := do(t, r, http.MethodGet, "/metrics", "", nil)
	assert.Contains(t, metrics.Body.String(), `http_requests_total{method="GET",path="/boom",status="500"}`)
}

func TestRiskProfile(t *testing.T) {
	rec := do(t, newRouter(RouterOptions{}), http.MethodPost, "/api/v1/risk-profile", sampleBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile models.RiskProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.InDelta(t, 0.36, profile.RiskScore, 1e-9)
	assert.Equal(t, models.RiskAggressive, profile.RiskCategory)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		error  string
	}{
		{
			name:   "malformed json",
			path:   "/api/v1/savings-plan",
			body:   `{"age": `,
			status: http.StatusBadRequest,
			error:  "malformed request body",
		},
		{
			name:   "missing fields",
			path:   "/api/v1/savings-plan",
			body:   `{"age": 30}`,
			status: http.StatusUnprocessableEntity,
			error:  "validation failed",
		},
		{
			name:   "wrong type",
			path:   "/api/v1/risk-profile",
			body:   strings.Replace(sampleBody, `"age": 30`, `"age": "thirty"`, 1),
			status: http.StatusUnprocessableEntity,
			error:  "validation failed",
		},
		{
			name:   "risk tolerance out of range",
			path:   "/api/v1/risk-profile",
			body:   strings.Replace(sampleBody, `"risk_tolerance": 3`, `"risk_tolerance": 9`, 1),
			status: http.StatusUnprocessableEntity,
			error:  "validation failed",
		},
		{
			name:   "zero income",
			path:   "/api/v1/savings-plan",
			body:   strings.Replace(sampleBody, `"monthly_income": 5000`, `"monthly_income": 0`, 1),
			status: http.StatusBadRequest,
			error:  "invalid input: non-positive divisor",
		},
		{
			name:   "zero expenses",
			path:   "/api/v1/risk-profile",
			body:   strings.Replace(sampleBody, `"monthly_expenses": 3000`, `"monthly_expenses": 0`, 1),
			status: http.StatusBadRequest,
			error:  "invalid input: non-positive divisor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newRouter(RouterOptions{}), http.MethodPost, tt.path, tt.body, nil)
			assert.Equal(t, tt.status, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.error, resp.Error)
		})
	}
}

func TestErrorResponses_ValidationDetail(t *testing.T) {
	rec := do(t, newRouter(RouterOptions{}), http.MethodPost, "/api/v1/savings-plan", `{"age": 30}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Detail, "monthly_income: field required")
	assert.Contains(t, resp.Detail, "spending_pattern: field required")
	assert.NotContains(t, resp.Detail, "monthly_debt_payments: field required")
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newRouter(RouterOptions{}), http.MethodGet, "/api/v1/savings-plan", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAuthProtectsAdviceRoutesOnly(t *testing.T) {
	const secret = "router-secret"
	r := newRouter(RouterOptions{JWTSecret: secret})

	rec := do(t, r, http.MethodPost, "/api/v1/savings-plan", sampleBody, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	rec = do(t, r, http.MethodPost, "/api/v1/savings-plan", sampleBody,
		map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, rec.Code)
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) (bool, error) { return false, nil }

func TestRateLimitedRoutes(t *testing.T) {
	r := newRouter(RouterOptions{Limiter: denyLimiter{}})

	rec := do(t, r, http.MethodPost, "/api/v1/risk-profile", sampleBody, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWantsXML(t *testing.T) {
	tests := []struct {
		accept   string
		expected bool
	}{
		{"", false},
		{"application/json", false},
		{"*/*", false},
		{"application/xml", true},
		{"text/xml; charset=utf-8", true},
		{"application/json, application/xml", false},
		{"application/xml;q=0.9, */*", true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Accept", tt.accept)
		assert.Equal(t, tt.expected, wantsXML(req), tt.accept)
	}
}
