package httpapp_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapp "tkphotos/internal/app/http"
	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/jwt"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/services/maintenance"
	httprouters "tkphotos/internal/transport/http"
	"tkphotos/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testSecret = "route-test-secret"

type MockAuthService struct {
	mock.Mock
	httprouters.AuthService
}

func (m *MockAuthService) Operator(ctx context.Context, userID uuid.UUID) (models.Operator, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Operator), args.Error(1)
}

type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) Run(ctx context.Context, opts maintenance.Options) (maintenance.Summary, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(maintenance.Summary), args.Error(1)
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Submit(ctx context.Context, req dto.ContactRequest) (models.ContactMessage, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.ContactMessage), args.Error(1)
}

type RoutesSuite struct {
	suite.Suite
	auth        *MockAuthService
	maintenance *MockMaintenanceService
	contact     *MockContactService
	handler     http.Handler

	admin    models.User
	operator models.User
}

func (s *RoutesSuite) SetupTest() {
	s.auth = new(MockAuthService)
	s.maintenance = new(MockMaintenanceService)
	s.contact = new(MockContactService)

	s.admin = models.User{ID: uuid.New(), Email: "admin@example.com"}
	s.operator = models.User{ID: uuid.New(), Email: "editor@example.com"}

	s.auth.On("Operator", mock.Anything, s.admin.ID).
		Return(models.Operator{UserID: s.admin.ID, Email: s.admin.Email, IsAdmin: true}, nil).Maybe()
	s.auth.On("Operator", mock.Anything, s.operator.ID).
		Return(models.Operator{UserID: s.operator.ID, Email: s.operator.Email}, nil).Maybe()

	log := sl.NewDiscardLogger()
	routers := httprouters.NewRouter(log, httprouters.Services{
		Auth:        s.auth,
		Maintenance: s.maintenance,
		Contact:     s.contact,
	})

	server := httpapp.New(log, httpapp.Options{
		Port:                 "0",
		TokenSecret:          testSecret,
		SessionSecret:        "session-secret",
		SessionMaxAge:        3600,
		ContactRatePerMinute: 1,
		ContactBurst:         2,
		HealthChecks: map[string]httprouters.HealthCheck{
			"postgres": func(context.Context) error { return nil },
		},
	}, routers)
	server.BuildRouters()
	s.handler = server.Handler()
}

func (s *RoutesSuite) token(u models.User) string {
	tok, err := jwt.NewToken(u, testSecret, time.Minute)
	s.Require().NoError(err)
	return tok
}

func (s *RoutesSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *RoutesSuite) TestHealth() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"postgres":"up"`)
}

func (s *RoutesSuite) TestMetricsEndpoint() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "go_goroutines")
}

func (s *RoutesSuite) TestDashboardRequiresToken() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	s.Equal(http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec = s.do(req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RoutesSuite) TestMe() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(s.operator))

	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), s.operator.Email)
}

func (s *RoutesSuite) TestAdminGuard() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/photos/update-metadata", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(s.operator))

	rec := s.do(req)

	s.Equal(http.StatusForbidden, rec.Code)
	s.JSONEq(`{"status":"error","error":"Forbidden"}`, rec.Body.String())
	s.maintenance.AssertNotCalled(s.T(), "Run", mock.Anything, mock.Anything)
}

func (s *RoutesSuite) TestAdminRunsBackfill() {
	s.maintenance.On("Run", mock.Anything, maintenance.Options{Force: true}).
		Return(maintenance.Summary{Total: 1, Processed: 1, Updated: 1}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/photos/update-metadata", strings.NewReader(`{"force":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(s.admin))

	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"ok":true`)
	s.maintenance.AssertExpectations(s.T())
}

func (s *RoutesSuite) TestUnknownOperator() {
	ghost := models.User{ID: uuid.New(), Email: "ghost@example.com"}
	s.auth.On("Operator", mock.Anything, ghost.ID).Return(models.Operator{}, errors.New("db down")).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(ghost))

	rec := s.do(req)

	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *RoutesSuite) TestContactRateLimited() {
	s.contact.On("Submit", mock.Anything, mock.Anything).Return(models.ContactMessage{}, nil)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(
			`{"name":"Ann","email":"ann@example.com","service":"studio","message":"Please quote a shoot"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.RemoteAddr = "203.0.113.7:5000"
		return s.do(req).Code
	}

	s.Equal(http.StatusCreated, send())
	s.Equal(http.StatusCreated, send())
	s.Equal(http.StatusTooManyRequests, send())
}

func TestRoutesSuite(t *testing.T) {
	suite.Run(t, new(RoutesSuite))
}

func TestServerStopWithoutStart(t *testing.T) {
	server := httpapp.New(sl.NewDiscardLogger(), httpapp.Options{Port: "0", TokenSecret: testSecret, SessionSecret: "x"}, httprouters.NewRouter(sl.NewDiscardLogger(), httprouters.Services{}))

	require.NoError(t, server.Stop())
	assert.NotNil(t, server.Handler())
}
