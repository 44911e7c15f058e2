package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/bizadmin/internal/models"
)

type TemplateService struct {
	db *gorm.DB
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

// TemplateFilter narrows List results. Empty fields match everything.
type TemplateFilter struct {
	Type         string
	LanguageCode string
}

// forUpdate adds a row lock where the dialect supports it.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func partition(tx *gorm.DB, t *models.Template) *gorm.DB {
	return tx.Model(&models.Template{}).
		Where("company_id = ? AND type = ? AND language_code = ?", t.CompanyID, t.Type, t.LanguageCode)
}

// lockPartition row-locks every template of t's partition in id order. Every
// writer of the default flag takes it before touching any row.
func lockPartition(tx *gorm.DB, t *models.Template) error {
	var ids []uint
	if err := forUpdate(partition(tx, t)).Order("id").Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("lock template partition: %w", err)
	}
	return nil
}

// clearDefaults unsets is_default on every template of t's partition except t.
// The partition must already be locked.
func clearDefaults(tx *gorm.DB, t *models.Template) error {
	q := partition(tx, t).Where("is_default = ?", true)
	if t.ID != 0 {
		q = q.Where("id <> ?", t.ID)
	}
	if err := q.Update("is_default", false).Error; err != nil {
		return fmt.Errorf("clear default templates: %w", err)
	}
	return nil
}

// conflictErr maps store-level races on the default flag to ErrDefaultConflict.
func conflictErr(err error) error {
	if IsUniqueViolation(err) || isLockConflict(err) {
		return ErrDefaultConflict
	}
	return err
}

// List returns the company's templates ordered by type, language and name.
func (s *TemplateService) List(ctx context.Context, companyID uint, f TemplateFilter) ([]models.Template, error) {
	q := s.db.WithContext(ctx).Where("company_id = ?", companyID)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.LanguageCode != "" {
		q = q.Where("language_code = ?", f.LanguageCode)
	}
	out := []models.Template{}
	if err := q.Order("type, language_code, name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return out, nil
}

// Create stores t. When t is flagged default, the previous default of its
// partition is cleared in the same transaction.
func (s *TemplateService) Create(ctx context.Context, t *models.Template) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.IsDefault {
			if err := lockPartition(tx, t); err != nil {
				return err
			}
			if err := clearDefaults(tx, t); err != nil {
				return err
			}
		}
		return tx.Create(t).Error
	})
	return conflictErr(err)
}

// SetDefault makes the template the only default of its (company, type,
// language) partition. changed is false when it already was the default, in
// which case nothing is written.
//
// The target is read once to learn its partition, then the whole partition is
// locked and the target re-read, so its default flag is current under the lock.
func (s *TemplateService) SetDefault(ctx context.Context, companyID, id uint) (tpl models.Template, changed bool, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", companyID).First(&tpl, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load template %d: %w", id, err)
		}
		if err := lockPartition(tx, &tpl); err != nil {
			return err
		}
		if err := tx.First(&tpl, id).Error; err != nil {
			return fmt.Errorf("reload template %d: %w", id, err)
		}
		if tpl.IsDefault {
			return nil
		}
		if err := clearDefaults(tx, &tpl); err != nil {
			return err
		}
		if err := tx.Model(&tpl).Update("is_default", true).Error; err != nil {
			return fmt.Errorf("set default template %d: %w", id, err)
		}
		tpl.IsDefault = true
		changed = true
		return nil
	})
	if err = conflictErr(err); err != nil {
		return models.Template{}, false, err
	}
	return tpl, changed, nil
}

// Duplicate stores a copy of src under name (or "<name> (Copy)"). The copy is never the default.
func (s *TemplateService) Duplicate(ctx context.Context, src *models.Template, name string) (models.Template, error) {
	cp := src.Duplicate(name)
	if err := s.db.WithContext(ctx).Create(&cp).Error; err != nil {
		return models.Template{}, fmt.Errorf("duplicate template %d: %w", src.ID, err)
	}
	return cp, nil
}
