package models

import "gorm.io/gorm"

// Skill is a taxonomy tag referenced by demands (many-to-many, unique by name).
type Skill struct {
	gorm.Model
	Name     string `gorm:"uniqueIndex;size:100;not null"`
	Category string `gorm:"size:100"`

	Demands []Demand `gorm:"many2many:demand_skills"`
}
