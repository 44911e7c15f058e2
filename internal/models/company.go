package models

import (
	"time"

	"gorm.io/gorm"
)

// Company is the organization owning documents, templates, customers and
// translations. Every tenant-scoped table references it through company_id.
type Company struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string `gorm:"size:255;not null" json:"name"`
	LegalName string `gorm:"size:255" json:"legalName,omitempty"`
	Email     string `gorm:"size:255" json:"email,omitempty"`
	Phone     string `gorm:"size:50" json:"phone,omitempty"`
	Website   string `gorm:"size:255" json:"website,omitempty"`

	// Address
	Address    string `gorm:"size:500" json:"address,omitempty"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	PostalCode string `gorm:"size:20" json:"postalCode,omitempty"`
	Country    string `gorm:"size:100" json:"country,omitempty"`

	// Tax & legal information
	VATID              string `gorm:"column:vat_id;size:32" json:"vatId,omitempty"`
	RegistrationNumber string `gorm:"size:100" json:"registrationNumber,omitempty"`

	// Branding and defaults
	LogoURL         string `gorm:"size:500" json:"logoUrl,omitempty"`
	DefaultCurrency string `gorm:"size:3;default:'EUR'" json:"defaultCurrency"`
	DefaultLanguage string `gorm:"size:35;default:'en'" json:"defaultLanguage"`

	Translations []CompanyTranslation `gorm:"foreignKey:CompanyID" json:"translations,omitempty"`
}

// CompanyTranslation holds the language-specific texts of a company, keyed by
// a canonical BCP 47 language code.
type CompanyTranslation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CompanyID    uint   `gorm:"not null;uniqueIndex:idx_company_translations_lang,priority:1" json:"companyId"`
	LanguageCode string `gorm:"size:35;not null;uniqueIndex:idx_company_translations_lang,priority:2" json:"languageCode"`

	Name         string `gorm:"size:255" json:"name,omitempty"`
	Description  string `gorm:"type:text" json:"description,omitempty"`
	Address      string `gorm:"size:500" json:"address,omitempty"`
	LegalNotice  string `gorm:"type:text" json:"legalNotice,omitempty"`
	PaymentTerms string `gorm:"size:500" json:"paymentTerms,omitempty"`
}

// GetCompanyID implements the company-scoped resource contract.
func (t *CompanyTranslation) GetCompanyID() uint {
	return t.CompanyID
}
