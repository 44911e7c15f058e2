package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DocumentType distinguishes the kinds of billing documents a company issues.
type DocumentType string

const (
	DocumentTypeInvoice    DocumentType = "INVOICE"
	DocumentTypeQuote      DocumentType = "QUOTE"
	DocumentTypeCreditNote DocumentType = "CREDIT_NOTE"
)

// DocumentStatus represents the lifecycle status of a document.
type DocumentStatus string

const (
	DocumentStatusDraft         DocumentStatus = "DRAFT"
	DocumentStatusSent          DocumentStatus = "SENT"
	DocumentStatusPartiallyPaid DocumentStatus = "PARTIALLY_PAID"
	DocumentStatusPaid          DocumentStatus = "PAID"
	DocumentStatusOverdue       DocumentStatus = "OVERDUE"
	DocumentStatusCancelled     DocumentStatus = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusSent, DocumentStatusPartiallyPaid,
		DocumentStatusPaid, DocumentStatusOverdue, DocumentStatusCancelled:
		return true
	}
	return false
}

// Document is an invoice-like record with a lifecycle status.
// Implements the company-scoped resource contract used by authorization.
type Document struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CompanyID uint         `gorm:"not null;index;uniqueIndex:idx_documents_number,priority:1" json:"companyId"`
	Type      DocumentType `gorm:"size:20;not null;index" json:"type"`
	Number    string       `gorm:"size:50;not null;uniqueIndex:idx_documents_number,priority:2" json:"number"`

	CustomerID uint      `gorm:"index;not null" json:"customerId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	Status    DocumentStatus  `gorm:"size:20;not null;default:'DRAFT'" json:"status"`
	IssueDate time.Time       `gorm:"not null" json:"issueDate"`
	DueDate   *time.Time      `json:"dueDate,omitempty"`
	Currency  string          `gorm:"size:3;not null;default:'EUR'" json:"currency"`
	Total     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"total"`
}

func (d *Document) GetCompanyID() uint {
	return d.CompanyID
}

// IsPaid returns true once the document has been settled in full.
func (d *Document) IsPaid() bool {
	return d.Status == DocumentStatusPaid
}

// CanMarkPartiallyPaid reports whether the document may move to PARTIALLY_PAID.
// PAID is terminal for this transition; no other status blocks it.
func (d *Document) CanMarkPartiallyPaid() bool {
	return !d.IsPaid()
}
