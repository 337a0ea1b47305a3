package models

import "gorm.io/gorm"

type DemandPriority string
type DemandStatus string

const (
	PriorityCritical DemandPriority = "critical"
	PriorityHigh     DemandPriority = "high"
	PriorityMedium   DemandPriority = "medium"
	PriorityLow      DemandPriority = "low"

	DemandOpen       DemandStatus = "open"
	DemandInProgress DemandStatus = "in_progress"
	DemandFilled     DemandStatus = "filled"
	DemandCancelled  DemandStatus = "cancelled"
)

func ValidDemandStatus(s DemandStatus) bool {
	switch s {
	case DemandOpen, DemandInProgress, DemandFilled, DemandCancelled:
		return true
	}
	return false
}

func ValidPriority(p DemandPriority) bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Demand is a staffing requirement (RRD) raised by the PMO team.
type Demand struct {
	gorm.Model
	RRD         string `gorm:"size:50"`
	ProjectName string `gorm:"size:255;not null"`
	DUName      string `gorm:"size:255"`
	ClientName  string `gorm:"size:255"`
	ManagerName string `gorm:"size:255"`

	CareerLevel  string `gorm:"size:10"`
	NumPositions int    `gorm:"not null;default:1"`

	Priority DemandPriority `gorm:"type:varchar(20);not null;default:medium"`
	Status   DemandStatus   `gorm:"type:varchar(20);not null;default:open;index"`

	Description string `gorm:"type:text"`

	CreatedBy uint
	Creator   *User `gorm:"foreignKey:CreatedBy"`

	Skills []Skill `gorm:"many2many:demand_skills;constraint:OnDelete:CASCADE"`

	// Storage-level cascade; demand deletion also sweeps resources in-process.
	Resources []Resource `gorm:"foreignKey:DemandID;constraint:OnDelete:CASCADE"`
}

func (d *Demand) IsOpen() bool {
	return d.Status == DemandOpen || d.Status == DemandInProgress
}

func (d *Demand) SkillsDisplay() string {
	out := ""
	for i, s := range d.Skills {
		if i > 0 {
			out += ", "
		}
		out += s.Name
	}
	return out
}

func (d *Demand) PriorityColor() string {
	switch d.Priority {
	case PriorityCritical:
		return "danger"
	case PriorityHigh:
		return "warning"
	case PriorityMedium:
		return "info"
	default:
		return "secondary"
	}
}

func (d *Demand) StatusColor() string {
	switch d.Status {
	case DemandOpen:
		return "success"
	case DemandInProgress:
		return "primary"
	case DemandFilled:
		return "secondary"
	case DemandCancelled:
		return "danger"
	}
	return "secondary"
}
