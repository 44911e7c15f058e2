package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/auth"
	"github.com/diewo77/bizadmin/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Company{}, &models.CompanyTranslation{}, &models.User{},
		&models.Customer{}, &models.Document{}, &models.Template{},
	))
	return db
}

type fixture struct {
	company  models.Company
	user     models.User
	customer models.Customer
}

// seedFixture creates a company with one attached user and one customer.
func seedFixture(t *testing.T, db *gorm.DB, name string) fixture {
	t.Helper()
	var f fixture
	f.company = models.Company{Name: name}
	require.NoError(t, db.Create(&f.company).Error)
	f.user = createUser(t, db, strings.ToLower(name)+"@test.local", "secret123", &f.company.ID)
	f.customer = models.Customer{CompanyID: f.company.ID, Name: name + " customer"}
	require.NoError(t, db.Create(&f.customer).Error)
	return f
}

func createUser(t *testing.T, db *gorm.DB, email, password string, companyID *uint) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{Email: email, Name: "User " + email, Password: string(hash), CompanyID: companyID}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedInvoice(t *testing.T, db *gorm.DB, f fixture, number string, status models.DocumentStatus) models.Document {
	t.Helper()
	d := models.Document{
		CompanyID:  f.company.ID,
		Type:       models.DocumentTypeInvoice,
		Number:     number,
		CustomerID: f.customer.ID,
		Status:     status,
		IssueDate:  time.Now(),
		Currency:   "EUR",
		Total:      decimal.NewFromInt(100),
	}
	require.NoError(t, db.Create(&d).Error)
	return d
}

func seedTemplate(t *testing.T, db *gorm.DB, companyID uint, name string, isDefault bool) models.Template {
	t.Helper()
	tpl := models.Template{CompanyID: companyID, Type: "invoice", LanguageCode: "en", Name: name, Content: "body", IsDefault: isDefault}
	require.NoError(t, db.Create(&tpl).Error)
	return tpl
}

// newRequest builds a request authenticated as uid (0 means anonymous) with an
// optional {id} path value.
func newRequest(method, target, body string, uid uint, id string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if uid != 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), uid))
	}
	if id != "" {
		req.SetPathValue("id", id)
	}
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), "body=%s", w.Body.String())
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, w, &body)
	return body.Message
}
