package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated user in the system.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string         `gorm:"size:255" json:"name"`
	Image     string         `gorm:"size:500" json:"image,omitempty"`
	Password  string         `gorm:"size:255;not null" json:"-"` // bcrypt hash, never exposed

	// CompanyID links the user to the organization owning their data.
	// A nil value means the account is not attached to any company yet.
	CompanyID *uint    `gorm:"index" json:"-"`
	Company   *Company `gorm:"foreignKey:CompanyID" json:"-"`
}

// UserProfile is the public projection of a User returned by the API.
type UserProfile struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() UserProfile {
	p := UserProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Image != "" {
		img := u.Image
		p.Image = &img
	}
	return p
}

// HasCompany reports whether the user is attached to a company.
func (u *User) HasCompany() bool {
	return u.CompanyID != nil && *u.CompanyID != 0
}
