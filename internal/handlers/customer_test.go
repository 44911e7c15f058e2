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

func TestCustomers(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db, "Acme")
	other := seedFixture(t, db, "Other")
	h := NewCustomerHandler(db)

	w := httptest.NewRecorder()
	h.Handle(w, newRequest(http.MethodPost, "/customers", `{"name":"Globex","email":"ap@globex.test","vatId":"de123456789"}`, f.user.ID, ""))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var c models.Customer
	decodeBody(t, w, &c)
	assert.Equal(t, f.company.ID, c.CompanyID)
	assert.Equal(t, "DE123456789", c.VATID)

	w = httptest.NewRecorder()
	h.Handle(w, newRequest(http.MethodPost, "/customers", `{"name":""}`, f.user.ID, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.Handle(w, newRequest(http.MethodGet, "/customers?q=GLOB", "", f.user.ID, ""))
	require.Equal(t, http.StatusOK, w.Code)
	var page customerPage
	decodeBody(t, w, &page)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Globex", page.Items[0].Name)

	w = httptest.NewRecorder()
	h.Handle(w, newRequest(http.MethodGet, "/customers", "", f.user.ID, ""))
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &page)
	assert.EqualValues(t, 2, page.Total)

	w = httptest.NewRecorder()
	h.Get(w, newRequest(http.MethodGet, "/customers/x", "", other.user.ID, fmt.Sprint(c.ID)))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.Get(w, newRequest(http.MethodGet, "/customers/x", "", f.user.ID, fmt.Sprint(c.ID)))
	assert.Equal(t, http.StatusOK, w.Code)
}
