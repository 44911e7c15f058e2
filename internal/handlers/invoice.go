package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/httpx"
	"github.com/diewo77/bizadmin/internal/authz"
	"github.com/diewo77/bizadmin/internal/logging"
	"github.com/diewo77/bizadmin/internal/models"
	"github.com/diewo77/bizadmin/internal/services"
)

const (
	msgInvoiceNotFound    = "Invoice not found"
	msgInvalidInvoiceID   = "Invalid invoice ID"
	msgInvoiceAlreadyPaid = "Invoice is already paid"
)

type InvoiceHandler struct {
	scoped
	svc *services.DocumentService
}

func NewInvoiceHandler(db *gorm.DB) *InvoiceHandler {
	return &InvoiceHandler{
		scoped: scoped{checker: authz.NewChecker(db)},
		svc:    services.NewDocumentService(db),
	}
}

// Get: GET /invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, msgInvalidInvoiceID)
		return
	}
	var inv models.Document
	if !h.load(w, r, p, &inv, id, msgInvoiceNotFound, services.InvoiceScope) {
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// MarkPartiallyPaid: POST /invoices/{id}/mark-as-partially-paid
func (h *InvoiceHandler) MarkPartiallyPaid(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, msgInvalidInvoiceID)
		return
	}
	var inv models.Document
	if !h.load(w, r, p, &inv, id, msgInvoiceNotFound, services.InvoiceScope) {
		return
	}
	if err := h.svc.MarkPartiallyPaid(r.Context(), &inv); err != nil {
		if errors.Is(err, services.ErrAlreadyPaid) {
			httpx.Error(w, http.StatusBadRequest, msgInvoiceAlreadyPaid)
			return
		}
		serverError(w, r, err, "mark invoice as partially paid")
		return
	}
	logging.FromContext(r.Context()).WithFields(logrus.Fields{
		"invoice_id": inv.ID,
		"company_id": p.CompanyID,
	}).Info("invoice marked as partially paid")
	httpx.JSON(w, http.StatusOK, inv)
}
