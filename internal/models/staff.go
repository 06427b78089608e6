// internal/models/staff.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// StaffUser is a reviewer or administrator account. There is no public
// registration; accounts are seeded or created by an admin.
type StaffUser struct {
	BaseModel
	Email        string     `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	FullName     string     `json:"full_name" gorm:"size:255;not null"`
	Role         StaffRole  `json:"role" gorm:"type:varchar(20);not null;default:'reviewer'"`
	Active       bool       `json:"active" gorm:"not null;default:true"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

func (StaffUser) TableName() string {
	return "staff_users"
}

func (u *StaffUser) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *StaffUser) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
