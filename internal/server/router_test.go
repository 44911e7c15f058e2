package server_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/auth"
	"github.com/diewo77/bizadmin/internal/chat"
	"github.com/diewo77/bizadmin/internal/db"
	"github.com/diewo77/bizadmin/internal/models"
	srv "github.com/diewo77/bizadmin/internal/server"
)

func setupFullTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(conn))
	return conn
}

func sessionCookie(t *testing.T, uid uint) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	auth.CreateSession(rr, uid)
	for _, c := range rr.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatal("missing session cookie")
	return nil
}

type echoCompleter struct{}

func (echoCompleter) Complete(_ context.Context, _ string, h []chat.Message) (string, error) {
	return "echo " + h[len(h)-1].Content, nil
}

func TestHealthAndMetrics(t *testing.T) {
	root := srv.New(srv.Options{DB: setupFullTestDB(t)})

	for _, path := range []string{"/health", "/healthz"} {
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	}

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "bizadmin_http_requests_total")
}

func TestHealthzReportsDatabaseDown(t *testing.T) {
	conn := setupFullTestDB(t)
	root := srv.New(srv.Options{DB: conn})
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestRequestIDAndLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	root := srv.New(srv.Options{DB: setupFullTestDB(t), Log: log})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	root.ServeHTTP(rr, req)
	assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)

	rr = httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, rr.Header().Get("X-Request-ID"), 36)
}

func TestRoutesEnforceSessionAndMethod(t *testing.T) {
	root := srv.New(srv.Options{DB: setupFullTestDB(t)})

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/invoices/1/mark-as-partially-paid", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/templates/1/set-default", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST", rr.Header().Get("Allow"))

	rr = httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/assistant/conversations/x/messages", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code, "assistant route is not mounted without a backend")
}

func TestSeededFlowThroughRouter(t *testing.T) {
	conn := setupFullTestDB(t)
	require.NoError(t, db.Seed(conn))
	root := srv.New(srv.Options{DB: conn, Assistant: chat.NewService(chat.NewMemoryStore(), echoCompleter{})})

	var user models.User
	require.NoError(t, conn.Where("email = ?", db.DemoEmail).First(&user).Error)
	var inv models.Document
	require.NoError(t, conn.Where("number = ?", "INV-0001").First(&inv).Error)
	cookie := sessionCookie(t, user.ID)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/invoices/%d/mark-as-partially-paid", inv.ID), nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"status":"PARTIALLY_PAID"`)
	assert.Contains(t, rr.Body.String(), `"customer":`)

	req = httptest.NewRequest(http.MethodPost, "/assistant/conversations/6f1c1f2e-8f3b-4c55-9d43-3b7a4c0d9a11/messages", strings.NewReader(`{"message":"hello"}`))
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	root.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"reply":"echo hello"`)

	require.NoError(t, conn.Delete(&user).Error)
	req = httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	root.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDatabaseFailureAnswersGenericMessage(t *testing.T) {
	conn := setupFullTestDB(t)
	root := srv.New(srv.Options{DB: conn})
	var user models.User
	require.NoError(t, db.Seed(conn))
	require.NoError(t, conn.Where("email = ?", db.DemoEmail).First(&user).Error)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	req := httptest.NewRequest(http.MethodGet, "/settings/user", nil)
	req.AddCookie(sessionCookie(t, user.ID))
	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rr.Body.String())
}
