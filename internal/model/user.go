package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names a permission level of a console user.
type Role string

const (
	// RoleAdministrator has full access, including user, instance and AI-config management.
	RoleAdministrator Role = "administrator"
	// RoleOperator can read and operate instances but not create or delete them.
	RoleOperator Role = "operator"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleOperator
}

// User represents an authenticated console user.
type User struct {
	ID           string `json:"id" gorm:"type:varchar(36);primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	Role         Role   `json:"role" gorm:"size:32;not null;default:'operator'"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
