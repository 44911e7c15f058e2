package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/httpx"
	"github.com/diewo77/bizadmin/internal/authz"
	"github.com/diewo77/bizadmin/internal/models"
	"github.com/diewo77/bizadmin/validation"
)

const customersPageSize = 20

type CustomerHandler struct {
	scoped
	db *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{scoped: scoped{checker: authz.NewChecker(db)}, db: db}
}

type customerPage struct {
	Items []models.Customer `json:"items"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
}

// Handle dispatches /customers by method.
func (h *CustomerHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.List(w, r)
	case http.MethodPost:
		h.Create(w, r)
	default:
		httpx.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// List: GET /customers?q=&page=
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	db := h.db.WithContext(r.Context()).Model(&models.Customer{}).Scopes(p.Scope)
	if query != "" {
		like := "%" + query + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	db = db.Session(&gorm.Session{})
	out := customerPage{Items: []models.Customer{}, Page: page, Limit: customersPageSize}
	if err := db.Count(&out.Total).Error; err != nil {
		serverError(w, r, err, "count customers")
		return
	}
	if err := db.Order("name").Limit(customersPageSize).Offset((page - 1) * customersPageSize).Find(&out.Items).Error; err != nil {
		serverError(w, r, err, "list customers")
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create: POST /customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var in struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
		VATID   string `json:"vatId"`
	}
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.MsgInvalidJSON)
		return
	}
	c := models.Customer{
		CompanyID: p.CompanyID,
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		VATID:     strings.ToUpper(strings.TrimSpace(in.VATID)),
	}
	v := validation.Violations{}
	validation.Required("name", c.Name, v)
	validation.Email("email", c.Email, v)
	validation.Phone("phone", c.Phone, v)
	validation.VATID("vatId", c.VATID, v)
	if !v.Empty() {
		httpx.ValidationError(w, msgValidation, v)
		return
	}
	if err := h.db.WithContext(r.Context()).Create(&c).Error; err != nil {
		serverError(w, r, err, "create customer")
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

// Get: GET /customers/{id}
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}
	var c models.Customer
	if !h.load(w, r, p, &c, id, "Customer not found") {
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
