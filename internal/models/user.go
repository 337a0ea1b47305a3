package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RolePMO       UserRole = "pmo"
	RoleEvaluator UserRole = "evaluator"
	RoleResource  UserRole = "resource"
)

func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RolePMO, RoleEvaluator, RoleResource:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Email        string   `gorm:"uniqueIndex;size:255;not null"`
	DisplayName  string   `gorm:"size:255;not null"`
	EnterpriseID string   `gorm:"size:50"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:resource"`
	IsActive     bool     `gorm:"not null;default:true"`
	IsApproved   bool     `gorm:"not null;default:false"`

	// One-time passcode, bcrypt-hashed. Both cleared on successful verification.
	OTPHash      *string `gorm:"size:256"`
	OTPExpiresAt *time.Time
	LastLoginAt  *time.Time

	DemandsCreated []Demand `gorm:"foreignKey:CreatedBy"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsPMO reports whether the user may manage demands and resource uploads.
func (u *User) IsPMO() bool {
	return u.Role == RoleAdmin || u.Role == RolePMO
}

// CanEvaluate reports whether the user may transition evaluation statuses.
func (u *User) CanEvaluate() bool {
	return u.Role == RoleAdmin || u.Role == RolePMO || u.Role == RoleEvaluator
}

func (u *User) DisplayRole() string {
	switch u.Role {
	case RoleAdmin:
		return "Administrator"
	case RolePMO:
		return "PMO Team"
	case RoleEvaluator:
		return "Evaluator"
	default:
		return "Resource"
	}
}

// EnterpriseIDFromEmail derives the enterprise id ("john.doe") from an email.
func EnterpriseIDFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
