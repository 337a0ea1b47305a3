package models

import "time"

type AuditLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID uint
	User   User

	Entity   string `gorm:"size:50;not null"` // "user", "demand", "resource"
	EntityID uint
	Action   string `gorm:"size:50;not null"` // "create", "role_change", "import" etc.
	Details  string `gorm:"type:text"`
}
