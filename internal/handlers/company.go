package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/httpx"
	"github.com/diewo77/bizadmin/internal/authz"
	"github.com/diewo77/bizadmin/internal/logging"
	"github.com/diewo77/bizadmin/internal/models"
	"github.com/diewo77/bizadmin/internal/services"
	"github.com/diewo77/bizadmin/validation"
)

const (
	msgCompanyNotFound = "Company not found"
	msgValidation      = "Validation failed"
)

type CompanyHandler struct {
	scoped
	svc *services.CompanyService
}

func NewCompanyHandler(db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{
		scoped: scoped{checker: authz.NewChecker(db)},
		svc:    services.NewCompanyService(db),
	}
}

type companyRequest struct {
	Name               string `json:"name"`
	LegalName          string `json:"legalName"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Website            string `json:"website"`
	Address            string `json:"address"`
	City               string `json:"city"`
	PostalCode         string `json:"postalCode"`
	Country            string `json:"country"`
	VATID              string `json:"vatId"`
	RegistrationNumber string `json:"registrationNumber"`
	LogoURL            string `json:"logoUrl"`
	DefaultCurrency    string `json:"defaultCurrency"`
	DefaultLanguage    string `json:"defaultLanguage"`
}

func (req *companyRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Website = strings.TrimSpace(req.Website)
	req.LogoURL = strings.TrimSpace(req.LogoURL)
	req.VATID = strings.ToUpper(strings.TrimSpace(req.VATID))
	req.DefaultCurrency = strings.ToUpper(strings.TrimSpace(req.DefaultCurrency))
	req.DefaultLanguage = strings.TrimSpace(req.DefaultLanguage)
}

func (req *companyRequest) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.Email("email", req.Email, v)
	validation.URL("website", req.Website, v)
	validation.URL("logoUrl", req.LogoURL, v)
	validation.Phone("phone", req.Phone, v)
	validation.VATID("vatId", req.VATID, v)
	if req.DefaultCurrency != "" && money.GetCurrency(req.DefaultCurrency) == nil {
		v["defaultCurrency"] = "invalid_currency"
	}
	if req.DefaultLanguage != "" {
		validation.LanguageCode("defaultLanguage", req.DefaultLanguage, v)
	}
	return v
}

func (req *companyRequest) apply(c *models.Company) {
	c.Name = req.Name
	c.LegalName = strings.TrimSpace(req.LegalName)
	c.Email = req.Email
	c.Phone = req.Phone
	c.Website = req.Website
	c.Address = strings.TrimSpace(req.Address)
	c.City = strings.TrimSpace(req.City)
	c.PostalCode = strings.TrimSpace(req.PostalCode)
	c.Country = strings.TrimSpace(req.Country)
	c.VATID = req.VATID
	c.RegistrationNumber = strings.TrimSpace(req.RegistrationNumber)
	c.LogoURL = req.LogoURL
	if req.DefaultCurrency != "" {
		c.DefaultCurrency = req.DefaultCurrency
	} else if c.DefaultCurrency == "" {
		c.DefaultCurrency = "EUR"
	}
	if lang, ok := validation.CanonicalLanguage(req.DefaultLanguage); ok {
		c.DefaultLanguage = lang
	} else if c.DefaultLanguage == "" {
		c.DefaultLanguage = "en"
	}
}

// Handle dispatches /settings/company by method.
func (h *CompanyHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.Get(w, r)
	case http.MethodPost:
		h.Save(w, r)
	default:
		httpx.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// Get returns the caller's company, or 404 when they have none yet.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.checker.Authenticate(r.Context())
	if err != nil {
		serverError(w, r, err, "resolve principal")
		return
	}
	switch p.Result {
	case authz.Unauthenticated:
		httpx.Error(w, http.StatusUnauthorized, httpx.MsgUnauthorized)
		return
	case authz.NoCompany:
		httpx.Error(w, http.StatusNotFound, msgCompanyNotFound)
		return
	}
	c, err := h.svc.Get(r.Context(), p.CompanyID)
	if errors.Is(err, services.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, msgCompanyNotFound)
		return
	}
	if err != nil {
		serverError(w, r, err, "load company")
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Save creates the caller's company (201) or updates the existing one (200).
func (h *CompanyHandler) Save(w http.ResponseWriter, r *http.Request) {
	p, err := h.checker.Authenticate(r.Context())
	if err != nil {
		serverError(w, r, err, "resolve principal")
		return
	}
	if p.Result == authz.Unauthenticated {
		httpx.Error(w, http.StatusUnauthorized, httpx.MsgUnauthorized)
		return
	}
	var req companyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.MsgInvalidJSON)
		return
	}
	req.normalize()
	if v := req.validate(); !v.Empty() {
		httpx.ValidationError(w, msgValidation, v)
		return
	}
	log := logging.FromContext(r.Context()).WithField("user_id", p.UserID)

	if p.Result == authz.NoCompany {
		var c models.Company
		req.apply(&c)
		if err := h.svc.CreateForUser(r.Context(), p.UserID, &c); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				// attached to a company by a concurrent request
				httpx.Error(w, http.StatusConflict, "Company already exists")
				return
			}
			serverError(w, r, err, "create company")
			return
		}
		log.WithField("company_id", c.ID).Info("company created")
		httpx.JSON(w, http.StatusCreated, c)
		return
	}

	c, err := h.svc.Get(r.Context(), p.CompanyID)
	if errors.Is(err, services.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, msgCompanyNotFound)
		return
	}
	if err != nil {
		serverError(w, r, err, "load company")
		return
	}
	req.apply(&c)
	if err := h.svc.Update(r.Context(), &c); err != nil {
		serverError(w, r, err, "update company")
		return
	}
	log.WithFields(logrus.Fields{"company_id": c.ID}).Info("company updated")
	httpx.JSON(w, http.StatusOK, c)
}
