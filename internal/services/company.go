package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/internal/models"
)

type CompanyService struct {
	db *gorm.DB
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

// Get returns the company with the given id.
func (s *CompanyService) Get(ctx context.Context, companyID uint) (models.Company, error) {
	var c models.Company
	if err := s.db.WithContext(ctx).First(&c, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c, ErrNotFound
		}
		return c, fmt.Errorf("load company %d: %w", companyID, err)
	}
	return c, nil
}

// CreateForUser stores c and attaches the user to it in one transaction.
func (s *CompanyService) CreateForUser(ctx context.Context, userID uint, c *models.Company) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("create company: %w", err)
		}
		res := tx.Model(&models.User{}).Where("id = ? AND company_id IS NULL", userID).Update("company_id", c.ID)
		if res.Error != nil {
			return fmt.Errorf("attach user %d to company: %w", userID, res.Error)
		}
		if res.RowsAffected == 0 {
			// user vanished or was attached concurrently
			return ErrNotFound
		}
		return nil
	})
}

// Update persists every profile field of c.
func (s *CompanyService) Update(ctx context.Context, c *models.Company) error {
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("update company %d: %w", c.ID, err)
	}
	return nil
}

// ListTranslations returns the company's translations ordered by language code.
func (s *CompanyService) ListTranslations(ctx context.Context, companyID uint) ([]models.CompanyTranslation, error) {
	out := []models.CompanyTranslation{}
	if err := s.db.WithContext(ctx).Where("company_id = ?", companyID).Order("language_code").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	return out, nil
}

// SaveTranslation inserts or updates the translation for in.LanguageCode.
// created reports whether a new row was inserted.
func (s *CompanyService) SaveTranslation(ctx context.Context, in models.CompanyTranslation) (tr models.CompanyTranslation, created bool, err error) {
	db := s.db.WithContext(ctx)
	for attempt := 0; attempt < 2; attempt++ {
		var existing models.CompanyTranslation
		err = db.Where("company_id = ? AND language_code = ?", in.CompanyID, in.LanguageCode).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			tr = in
			tr.ID = 0
			err = db.Create(&tr).Error
			if IsUniqueViolation(err) {
				// a concurrent request created it first; update that row instead
				continue
			}
			if err != nil {
				return tr, false, fmt.Errorf("create translation: %w", err)
			}
			return tr, true, nil
		case err != nil:
			return tr, false, fmt.Errorf("load translation: %w", err)
		}
		existing.Name = in.Name
		existing.Description = in.Description
		existing.Address = in.Address
		existing.LegalNotice = in.LegalNotice
		existing.PaymentTerms = in.PaymentTerms
		if err = db.Save(&existing).Error; err != nil {
			return tr, false, fmt.Errorf("update translation: %w", err)
		}
		return existing, false, nil
	}
	return tr, false, fmt.Errorf("save translation: %w", err)
}
