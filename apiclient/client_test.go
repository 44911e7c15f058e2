package apiclient_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/apiclient"
	"github.com/diewo77/bizadmin/internal/db"
	"github.com/diewo77/bizadmin/internal/models"
	"github.com/diewo77/bizadmin/internal/server"
)

func newTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(conn))
	require.NoError(t, db.Seed(conn))

	ts := httptest.NewServer(server.New(server.Options{DB: conn}))
	t.Cleanup(ts.Close)
	return ts, conn
}

func TestClientAgainstServer(t *testing.T) {
	ts, conn := newTestServer(t)
	ctx := context.Background()
	c := apiclient.New(ts.URL)

	_, err := c.GetUserProfile(ctx)
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Unauthorized", apiErr.Message)

	_, err = c.Login(ctx, db.DemoEmail, "wrong")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Message)

	me, err := c.Login(ctx, db.DemoEmail, db.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, db.DemoEmail, me.Email)

	img := "https://cdn.test/me.png"
	me, err = c.UpdateUserProfile(ctx, "Demo Person", &img)
	require.NoError(t, err)
	assert.Equal(t, "Demo Person", me.Name)
	require.NotNil(t, me.Image)

	_, err = c.UpdateUserProfile(ctx, " ", nil)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Name is required", apiErr.Message)

	company, err := c.GetCompany(ctx)
	require.NoError(t, err)
	require.NotNil(t, company)
	company.City = "Lyon"
	company, err = c.SaveCompany(ctx, company)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", company.City)

	tr, err := c.SaveCompanyTranslation(ctx, &apiclient.CompanyTranslation{LanguageCode: "fr", Name: "Démo"})
	require.NoError(t, err)
	assert.Equal(t, "fr", tr.LanguageCode)
	trs, err := c.ListCompanyTranslations(ctx)
	require.NoError(t, err)
	assert.Len(t, trs, 1)

	var inv models.Document
	require.NoError(t, conn.Where("number = ?", "INV-0001").First(&inv).Error)
	doc, err := c.MarkInvoicePartiallyPaid(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, apiclient.StatusPartiallyPaid, doc.Status)
	assert.Equal(t, string(models.DocumentStatusPartiallyPaid), doc.Status)
	require.NotNil(t, doc.Customer)
	assert.Equal(t, inv.CustomerID, doc.Customer.ID)
	assert.True(t, doc.Total.Equal(inv.Total))

	templates, err := c.ListTemplates(ctx, "", "")
	require.NoError(t, err)
	require.NotEmpty(t, templates)

	var target apiclient.Template
	for _, tpl := range templates {
		if !tpl.IsDefault {
			target = tpl
			break
		}
	}
	if target.ID == 0 {
		target = templates[0]
	}
	cp, err := c.DuplicateTemplate(ctx, target.ID, "")
	require.NoError(t, err)
	assert.Equal(t, target.Name+" (Copy)", cp.Name)
	assert.False(t, cp.IsDefault)

	res, err := c.SetDefaultTemplate(ctx, cp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Template set as default", res.Message)
	res, err = c.SetDefaultTemplate(ctx, cp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Template is already the default", res.Message)

	_, err = c.SetDefaultTemplate(ctx, 999999)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	require.NoError(t, c.Logout(ctx))
	_, err = c.GetCompany(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestGetCompanyReturnsNilWhenMissing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Company not found"}`))
	}))
	defer ts.Close()

	company, err := apiclient.New(ts.URL).GetCompany(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, company)
}

func TestErrorWithoutMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer ts.Close()

	_, err := apiclient.New(ts.URL).GetUserProfile(context.Background())
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "request failed with status 502", apiErr.Message)
}
