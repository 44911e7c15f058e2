package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/bizadmin/internal/models"
)

func TestMarkPartiallyPaidHandler(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db, "Acme")
	inv := seedInvoice(t, db, f, "INV-1", models.DocumentStatusSent)
	h := NewInvoiceHandler(db)

	w := httptest.NewRecorder()
	h.MarkPartiallyPaid(w, newRequest(http.MethodPost, "/invoices/x/mark-as-partially-paid", "", f.user.ID, fmt.Sprint(inv.ID)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Document
	decodeBody(t, w, &got)
	assert.Equal(t, models.DocumentStatusPartiallyPaid, got.Status)
	require.NotNil(t, got.Customer)
	assert.Equal(t, f.customer.Name, got.Customer.Name)

	var stored models.Document
	require.NoError(t, db.First(&stored, inv.ID).Error)
	assert.Equal(t, models.DocumentStatusPartiallyPaid, stored.Status)
}

func TestMarkPartiallyPaidHandlerFailures(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db, "Acme")
	other := seedFixture(t, db, "Other")
	orphan := createUser(t, db, "orphan@test.local", "secret123", nil)

	paid := seedInvoice(t, db, f, "INV-PAID", models.DocumentStatusPaid)
	foreign := seedInvoice(t, db, other, "INV-X", models.DocumentStatusSent)
	quote := models.Document{CompanyID: f.company.ID, Type: models.DocumentTypeQuote, Number: "Q-1", CustomerID: f.customer.ID, Status: models.DocumentStatusSent, IssueDate: paid.IssueDate, Currency: "EUR"}
	require.NoError(t, db.Create(&quote).Error)

	h := NewInvoiceHandler(db)
	cases := []struct {
		name   string
		method string
		uid    uint
		id     string
		status int
		msg    string
	}{
		{"wrong method", http.MethodGet, f.user.ID, fmt.Sprint(paid.ID), http.StatusMethodNotAllowed, ""},
		{"anonymous", http.MethodPost, 0, fmt.Sprint(paid.ID), http.StatusUnauthorized, "Unauthorized"},
		{"unknown user", http.MethodPost, 9999, fmt.Sprint(paid.ID), http.StatusUnauthorized, "Unauthorized"},
		{"no company", http.MethodPost, orphan.ID, fmt.Sprint(paid.ID), http.StatusForbidden, "No company associated with this user"},
		{"bad id", http.MethodPost, f.user.ID, "abc", http.StatusBadRequest, "Invalid invoice ID"},
		{"zero id", http.MethodPost, f.user.ID, "0", http.StatusBadRequest, "Invalid invoice ID"},
		{"missing", http.MethodPost, f.user.ID, "424242", http.StatusNotFound, "Invoice not found"},
		{"other company", http.MethodPost, f.user.ID, fmt.Sprint(foreign.ID), http.StatusNotFound, "Invoice not found"},
		{"not an invoice", http.MethodPost, f.user.ID, fmt.Sprint(quote.ID), http.StatusNotFound, "Invoice not found"},
		{"already paid", http.MethodPost, f.user.ID, fmt.Sprint(paid.ID), http.StatusBadRequest, "Invoice is already paid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.MarkPartiallyPaid(w, newRequest(tc.method, "/invoices/x/mark-as-partially-paid", "", tc.uid, tc.id))
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.msg != "" {
				assert.Equal(t, tc.msg, messageOf(t, w))
			}
		})
	}

	var stored models.Document
	require.NoError(t, db.First(&stored, foreign.ID).Error)
	assert.Equal(t, models.DocumentStatusSent, stored.Status)
	require.NoError(t, db.First(&stored, paid.ID).Error)
	assert.Equal(t, models.DocumentStatusPaid, stored.Status)
}

func TestMarkPartiallyPaidAllowHeader(t *testing.T) {
	db := setupTestDB(t)
	h := NewInvoiceHandler(db)
	w := httptest.NewRecorder()
	h.MarkPartiallyPaid(w, newRequest(http.MethodDelete, "/invoices/1/mark-as-partially-paid", "", 0, "1"))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
}

func TestGetInvoice(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db, "Acme")
	other := seedFixture(t, db, "Other")
	inv := seedInvoice(t, db, f, "INV-1", models.DocumentStatusDraft)
	h := NewInvoiceHandler(db)

	w := httptest.NewRecorder()
	h.Get(w, newRequest(http.MethodGet, "/invoices/x", "", f.user.ID, fmt.Sprint(inv.ID)))
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Document
	decodeBody(t, w, &got)
	assert.Equal(t, "INV-1", got.Number)

	w = httptest.NewRecorder()
	h.Get(w, newRequest(http.MethodGet, "/invoices/x", "", other.user.ID, fmt.Sprint(inv.ID)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
