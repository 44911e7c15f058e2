package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/httpx"
	"github.com/diewo77/bizadmin/internal/authz"
	"github.com/diewo77/bizadmin/internal/models"
	"github.com/diewo77/bizadmin/internal/services"
	"github.com/diewo77/bizadmin/validation"
)

type TranslationHandler struct {
	scoped
	svc *services.CompanyService
}

func NewTranslationHandler(db *gorm.DB) *TranslationHandler {
	return &TranslationHandler{
		scoped: scoped{checker: authz.NewChecker(db)},
		svc:    services.NewCompanyService(db),
	}
}

type translationRequest struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	LegalNotice  string `json:"legalNotice"`
	PaymentTerms string `json:"paymentTerms"`
}

// Handle dispatches /settings/company/translations by method.
func (h *TranslationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.List(w, r)
	case http.MethodPost:
		h.Save(w, r)
	default:
		httpx.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *TranslationHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	items, err := h.svc.ListTranslations(r.Context(), p.CompanyID)
	if err != nil {
		serverError(w, r, err, "list translations")
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// Save upserts the translation for the posted language code.
func (h *TranslationHandler) Save(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req translationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.MsgInvalidJSON)
		return
	}
	v := validation.Violations{}
	validation.LanguageCode("languageCode", req.LanguageCode, v)
	if !v.Empty() {
		httpx.ValidationError(w, msgValidation, v)
		return
	}
	lang, _ := validation.CanonicalLanguage(req.LanguageCode)
	tr, created, err := h.svc.SaveTranslation(r.Context(), models.CompanyTranslation{
		CompanyID:    p.CompanyID,
		LanguageCode: lang,
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		Address:      strings.TrimSpace(req.Address),
		LegalNotice:  strings.TrimSpace(req.LegalNotice),
		PaymentTerms: strings.TrimSpace(req.PaymentTerms),
	})
	if err != nil {
		serverError(w, r, err, "save translation")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, tr)
}
