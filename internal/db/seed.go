package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/internal/models"
)

// Demo account created by Seed.
const (
	DemoEmail    = "demo@bizadmin.local"
	DemoPassword = "demo1234"
)

// Seed initializes the database with a demo company, user, customer, invoice
// and default templates. Running it twice leaves the data unchanged.
func Seed(conn *gorm.DB) error {
	return conn.Transaction(func(tx *gorm.DB) error {
		company := models.Company{Name: "Demo Company", Email: "contact@demo.example", Country: "FR", DefaultCurrency: "EUR", DefaultLanguage: "en"}
		if err := tx.Where("name = ?", company.Name).FirstOrCreate(&company).Error; err != nil {
			return fmt.Errorf("seed company: %w", err)
		}

		var user models.User
		err := tx.Where("email = ?", DemoEmail).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			hash, herr := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
			if herr != nil {
				return fmt.Errorf("hash demo password: %w", herr)
			}
			user = models.User{Email: DemoEmail, Name: "Demo User", Password: string(hash), CompanyID: &company.ID}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("seed user: %w", err)
			}
		case err != nil:
			return fmt.Errorf("lookup demo user: %w", err)
		}

		customer := models.Customer{CompanyID: company.ID, Name: "ACME Corp", Email: "billing@acme.example"}
		if err := tx.Where("company_id = ? AND name = ?", company.ID, customer.Name).FirstOrCreate(&customer).Error; err != nil {
			return fmt.Errorf("seed customer: %w", err)
		}

		invoice := models.Document{
			CompanyID:  company.ID,
			Type:       models.DocumentTypeInvoice,
			Number:     "INV-0001",
			CustomerID: customer.ID,
			Status:     models.DocumentStatusSent,
			IssueDate:  time.Now().UTC().Truncate(24 * time.Hour),
			Currency:   "EUR",
			Total:      decimal.NewFromInt(1200),
		}
		if err := tx.Where("company_id = ? AND number = ?", company.ID, invoice.Number).FirstOrCreate(&invoice).Error; err != nil {
			return fmt.Errorf("seed invoice: %w", err)
		}

		for _, tpl := range []models.Template{
			{Type: "invoice", LanguageCode: "en", Name: "Standard invoice", Content: "Invoice {{.Number}} for {{.Customer.Name}}"},
			{Type: "invoice", LanguageCode: "fr", Name: "Facture standard", Content: "Facture {{.Number}} pour {{.Customer.Name}}"},
			{Type: "quote", LanguageCode: "en", Name: "Standard quote", Content: "Quote {{.Number}} for {{.Customer.Name}}"},
		} {
			tpl.CompanyID = company.ID
			var defaults int64
			if err := tx.Model(&models.Template{}).
				Where("company_id = ? AND type = ? AND language_code = ? AND is_default = ?", company.ID, tpl.Type, tpl.LanguageCode, true).
				Count(&defaults).Error; err != nil {
				return fmt.Errorf("count default templates: %w", err)
			}
			tpl.IsDefault = defaults == 0
			if err := tx.Where("company_id = ? AND type = ? AND language_code = ? AND name = ?", company.ID, tpl.Type, tpl.LanguageCode, tpl.Name).
				FirstOrCreate(&tpl).Error; err != nil {
				return fmt.Errorf("seed template %q: %w", tpl.Name, err)
			}
		}
		return nil
	})
}
