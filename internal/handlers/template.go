package handlers

import (
	"errors"
	"net/http"
	"strings"

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
	msgTemplateNotFound   = "Template not found"
	msgInvalidTemplateID  = "Invalid template ID"
	msgAlreadyDefault     = "Template is already the default"
	msgSetAsDefault       = "Template set as default"
	msgConcurrentDefault  = "Another template was set as default concurrently"
	msgTemplateValidation = "Invalid template"
)

type TemplateHandler struct {
	scoped
	svc *services.TemplateService
}

func NewTemplateHandler(db *gorm.DB) *TemplateHandler {
	return &TemplateHandler{
		scoped: scoped{checker: authz.NewChecker(db)},
		svc:    services.NewTemplateService(db),
	}
}

type templateRequest struct {
	Type         string `json:"type"`
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Content      string `json:"content"`
	IsDefault    bool   `json:"isDefault"`
}

type setDefaultResponse struct {
	Message  string          `json:"message"`
	Template models.Template `json:"template"`
}

// List: GET /templates?type=&language=
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	f := services.TemplateFilter{Type: strings.TrimSpace(r.URL.Query().Get("type"))}
	if lang := r.URL.Query().Get("language"); lang != "" {
		canonical, ok := validation.CanonicalLanguage(lang)
		if !ok {
			httpx.ValidationError(w, msgTemplateValidation, validation.Violations{"language": "invalid_language_code"})
			return
		}
		f.LanguageCode = canonical
	}
	items, err := h.svc.List(r.Context(), p.CompanyID, f)
	if err != nil {
		serverError(w, r, err, "list templates")
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// Create: POST /templates
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req templateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.MsgInvalidJSON)
		return
	}
	v := validation.Violations{}
	validation.Required("type", req.Type, v)
	validation.Required("name", req.Name, v)
	validation.Required("content", req.Content, v)
	validation.LanguageCode("languageCode", req.LanguageCode, v)
	if !v.Empty() {
		httpx.ValidationError(w, msgTemplateValidation, v)
		return
	}
	lang, _ := validation.CanonicalLanguage(req.LanguageCode)
	tpl := models.Template{
		CompanyID:    p.CompanyID,
		Type:         strings.TrimSpace(req.Type),
		LanguageCode: lang,
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		Content:      req.Content,
		IsDefault:    req.IsDefault,
	}
	if err := h.svc.Create(r.Context(), &tpl); err != nil {
		if errors.Is(err, services.ErrDefaultConflict) {
			httpx.Error(w, http.StatusConflict, msgConcurrentDefault)
			return
		}
		serverError(w, r, err, "create template")
		return
	}
	httpx.JSON(w, http.StatusCreated, tpl)
}

// Get: GET /templates/{id}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, msgInvalidTemplateID)
		return
	}
	var tpl models.Template
	if !h.load(w, r, p, &tpl, id, msgTemplateNotFound) {
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

// Duplicate: POST /templates/{id}/duplicate with optional {"name": "..."}
func (h *TemplateHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, msgInvalidTemplateID)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.MsgInvalidJSON)
		return
	}
	var src models.Template
	if !h.load(w, r, p, &src, id, msgTemplateNotFound) {
		return
	}
	cp, err := h.svc.Duplicate(r.Context(), &src, req.Name)
	if err != nil {
		serverError(w, r, err, "duplicate template")
		return
	}
	httpx.JSON(w, http.StatusCreated, cp)
}

// SetDefault: POST /templates/{id}/set-default
func (h *TemplateHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, msgInvalidTemplateID)
		return
	}
	tpl, changed, err := h.svc.SetDefault(r.Context(), p.CompanyID, id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, msgTemplateNotFound)
		return
	case errors.Is(err, services.ErrDefaultConflict):
		httpx.Error(w, http.StatusConflict, msgConcurrentDefault)
		return
	case err != nil:
		serverError(w, r, err, "set default template")
		return
	}
	if !changed {
		httpx.JSON(w, http.StatusOK, setDefaultResponse{Message: msgAlreadyDefault, Template: tpl})
		return
	}
	logging.FromContext(r.Context()).WithFields(logrus.Fields{
		"template_id":   tpl.ID,
		"company_id":    p.CompanyID,
		"type":          tpl.Type,
		"language_code": tpl.LanguageCode,
	}).Info("template set as default")
	httpx.JSON(w, http.StatusOK, setDefaultResponse{Message: msgSetAsDefault, Template: tpl})
}
