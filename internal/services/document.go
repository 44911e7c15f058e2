package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/internal/models"
)

type DocumentService struct {
	db *gorm.DB
}

func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{db: db}
}

// InvoiceScope narrows a document query to invoices and preloads the customer.
func InvoiceScope(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", models.DocumentTypeInvoice).Preload("Customer")
}

// MarkPartiallyPaid moves doc to PARTIALLY_PAID and reloads it with its customer.
// The update is conditional on the stored status so that a document paid in
// the meantime is never downgraded.
func (s *DocumentService) MarkPartiallyPaid(ctx context.Context, doc *models.Document) error {
	if !doc.CanMarkPartiallyPaid() {
		return ErrAlreadyPaid
	}
	res := s.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ? AND company_id = ? AND status <> ?", doc.ID, doc.CompanyID, models.DocumentStatusPaid).
		Update("status", models.DocumentStatusPartiallyPaid)
	if res.Error != nil {
		return fmt.Errorf("update document %d status: %w", doc.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyPaid
	}
	if err := s.db.WithContext(ctx).Preload("Customer").First(doc, doc.ID).Error; err != nil {
		return fmt.Errorf("reload document %d: %w", doc.ID, err)
	}
	return nil
}
