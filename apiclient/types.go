package apiclient

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserProfile is the public projection of the logged in user.
type UserProfile struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Company is the profile of the caller's organization. Zero-valued optional
// fields are omitted when saving.
type Company struct {
	ID        uint      `json:"id,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name      string `json:"name"`
	LegalName string `json:"legalName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Website   string `json:"website,omitempty"`

	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`

	VATID              string `json:"vatId,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`

	LogoURL         string `json:"logoUrl,omitempty"`
	DefaultCurrency string `json:"defaultCurrency,omitempty"`
	DefaultLanguage string `json:"defaultLanguage,omitempty"`
}

// CompanyTranslation holds the company texts for one language code.
type CompanyTranslation struct {
	ID           uint   `json:"id,omitempty"`
	CompanyID    uint   `json:"companyId,omitempty"`
	LanguageCode string `json:"languageCode"`

	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	Address      string `json:"address,omitempty"`
	LegalNotice  string `json:"legalNotice,omitempty"`
	PaymentTerms string `json:"paymentTerms,omitempty"`
}

type Customer struct {
	ID        uint   `json:"id"`
	CompanyID uint   `json:"companyId"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	VATID     string `json:"vatId,omitempty"`
}

// Document statuses reported by the API.
const (
	StatusDraft         = "DRAFT"
	StatusSent          = "SENT"
	StatusPartiallyPaid = "PARTIALLY_PAID"
	StatusPaid          = "PAID"
	StatusOverdue       = "OVERDUE"
	StatusCancelled     = "CANCELLED"
)

// Document is an invoice with its customer.
type Document struct {
	ID         uint            `json:"id"`
	CompanyID  uint            `json:"companyId"`
	Type       string          `json:"type"`
	Number     string          `json:"number"`
	CustomerID uint            `json:"customerId"`
	Customer   *Customer       `json:"customer,omitempty"`
	Status     string          `json:"status"`
	IssueDate  time.Time       `json:"issueDate"`
	DueDate    *time.Time      `json:"dueDate,omitempty"`
	Currency   string          `json:"currency"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type Template struct {
	ID           uint      `json:"id"`
	CompanyID    uint      `json:"companyId"`
	Type         string    `json:"type"`
	LanguageCode string    `json:"languageCode"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Content      string    `json:"content"`
	IsDefault    bool      `json:"isDefault"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
