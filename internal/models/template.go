package models

import (
	"strings"
	"time"
)

// CopySuffix is appended to the name of a duplicated template when no
// explicit name is given.
const CopySuffix = " (Copy)"

// Template is a reusable content body for a document type and language.
// At most one template per (company, type, language) may be the default;
// the partial unique index below enforces it at the store level.
type Template struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CompanyID    uint   `gorm:"not null;index;uniqueIndex:idx_templates_single_default,priority:1,where:is_default = true" json:"companyId"`
	Type         string `gorm:"size:50;not null;uniqueIndex:idx_templates_single_default,priority:2,where:is_default = true" json:"type"`
	LanguageCode string `gorm:"size:35;not null;uniqueIndex:idx_templates_single_default,priority:3,where:is_default = true" json:"languageCode"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"size:500" json:"description,omitempty"`
	Content     string `gorm:"type:text;not null" json:"content"`
	IsDefault   bool   `gorm:"not null;default:false" json:"isDefault"`
}

func (t *Template) GetCompanyID() uint {
	return t.CompanyID
}

// Duplicate returns an unsaved copy of t. The copy is never the default.
func (t *Template) Duplicate(name string) Template {
	name = strings.TrimSpace(name)
	if name == "" {
		name = t.Name + CopySuffix
	}
	return Template{
		CompanyID:    t.CompanyID,
		Type:         t.Type,
		LanguageCode: t.LanguageCode,
		Name:         name,
		Description:  t.Description,
		Content:      t.Content,
		IsDefault:    false,
	}
}
