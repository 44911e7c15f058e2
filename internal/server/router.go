// Package server wires handlers, middleware, health checks and metrics into
// the root http.Handler.
package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/auth"
	"github.com/diewo77/bizadmin/httpx"
	"github.com/diewo77/bizadmin/internal/db"
	"github.com/diewo77/bizadmin/internal/handlers"
	"github.com/diewo77/bizadmin/internal/models"
)

// Options configures New. Only DB is required.
type Options struct {
	DB              *gorm.DB
	Log             *logrus.Logger
	RequestIDHeader string
	// Assistant mounts the assistant route when non-nil.
	Assistant handlers.Sender
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(opts Options) http.Handler {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.RequestIDHeader == "" {
		opts.RequestIDHeader = "X-Request-ID"
	}
	conn := opts.DB

	// RequireAuth drops sessions of users that no longer exist.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		if err := conn.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	mux := http.NewServeMux()

	// --- Health & metrics ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Ping(conn); err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// --- Session ---
	ah := handlers.NewAuthHandler(conn)
	mux.HandleFunc("/auth/login", ah.Login)
	mux.HandleFunc("/auth/signup", ah.Signup)
	mux.HandleFunc("/auth/logout", ah.Logout)

	// --- Settings ---
	// Handlers check the method before the session, so these routes are not
	// wrapped in RequireAuth.
	mux.HandleFunc("/settings/user", handlers.NewUserSettingsHandler(conn).Handle)
	mux.HandleFunc("/settings/company", handlers.NewCompanyHandler(conn).Handle)
	mux.HandleFunc("/settings/company/translations", handlers.NewTranslationHandler(conn).Handle)

	// --- Documents ---
	ih := handlers.NewInvoiceHandler(conn)
	mux.HandleFunc("/invoices/{id}", ih.Get)
	mux.HandleFunc("/invoices/{id}/mark-as-partially-paid", ih.MarkPartiallyPaid)

	// --- Templates ---
	th := handlers.NewTemplateHandler(conn)
	mux.HandleFunc("/templates", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			th.List(w, r)
		case http.MethodPost:
			th.Create(w, r)
		default:
			httpx.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})
	mux.HandleFunc("/templates/{id}", th.Get)
	mux.HandleFunc("/templates/{id}/duplicate", th.Duplicate)
	mux.HandleFunc("/templates/{id}/set-default", th.SetDefault)

	// --- Customers ---
	ch := handlers.NewCustomerHandler(conn)
	mux.Handle("/customers", auth.RequireAuth(http.HandlerFunc(ch.Handle)))
	mux.Handle("/customers/{id}", auth.RequireAuth(http.HandlerFunc(ch.Get)))

	// --- Assistant ---
	if opts.Assistant != nil {
		as := handlers.NewAssistantHandler(opts.Assistant)
		mux.Handle("POST /assistant/conversations/{id}/messages", auth.RequireAuth(http.HandlerFunc(as.Send)))
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		httpx.Error(w, http.StatusNotFound, "Not found")
	})

	return auth.Middleware(withMetrics(mux, withLogging(opts.Log, opts.RequestIDHeader, withRecover(mux))))
}
