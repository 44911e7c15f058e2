package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is the billed party of a document.
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CompanyID uint   `gorm:"index;not null" json:"companyId"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Email     string `gorm:"size:255" json:"email,omitempty"`
	Phone     string `gorm:"size:50" json:"phone,omitempty"`
	Address   string `gorm:"size:500" json:"address,omitempty"`
	VATID     string `gorm:"column:vat_id;size:32" json:"vatId,omitempty"`
}

func (c *Customer) GetCompanyID() uint {
	return c.CompanyID
}
