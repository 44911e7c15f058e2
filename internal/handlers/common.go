package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/bizadmin/httpx"
	"github.com/diewo77/bizadmin/internal/authz"
	"github.com/diewo77/bizadmin/internal/logging"
	"gorm.io/gorm"
)

// scoped gives handlers the shared authentication and ownership checks.
type scoped struct {
	checker *authz.Checker
}

// principal resolves the caller and writes the 401/403 response when they may
// not act on company data.
func (s scoped) principal(w http.ResponseWriter, r *http.Request) (authz.Principal, bool) {
	p, err := s.checker.Authenticate(r.Context())
	if err != nil {
		serverError(w, r, err, "resolve principal")
		return p, false
	}
	if !p.Allowed() {
		deny(w, p.Result, "")
		return p, false
	}
	return p, true
}

// load fetches a company-scoped record by id, writing 404 when it is missing
// or owned by another company.
func (s scoped) load(w http.ResponseWriter, r *http.Request, p authz.Principal, dst authz.CompanyScoped, id uint, notFound string, scopes ...func(*gorm.DB) *gorm.DB) bool {
	res, err := s.checker.Load(r.Context(), p, dst, id, scopes...)
	if err != nil {
		serverError(w, r, err, "load scoped record")
		return false
	}
	if res != authz.Authenticated {
		deny(w, res, notFound)
		return false
	}
	return true
}

// deny writes the error response for a non-authenticated result.
func deny(w http.ResponseWriter, res authz.Result, notFound string) {
	switch res {
	case authz.NoCompany:
		httpx.Error(w, res.StatusCode(), httpx.MsgNoCompany)
	case authz.Forbidden:
		if notFound == "" {
			notFound = "Not found"
		}
		httpx.Error(w, res.StatusCode(), notFound)
	default:
		httpx.Error(w, http.StatusUnauthorized, httpx.MsgUnauthorized)
	}
}

// serverError logs err with the request's fields and answers a generic 500.
func serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logging.FromContext(r.Context()).WithError(err).Error(msg)
	httpx.Error(w, http.StatusInternalServerError, httpx.MsgInternal)
}

// pathID parses the {id} path segment as a positive integer.
func pathID(r *http.Request) (uint, bool) {
	raw := strings.TrimSpace(r.PathValue("id"))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
