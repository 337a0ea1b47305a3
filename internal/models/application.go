package models

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	AppApplied         ApplicationStatus = "applied"
	AppUnderEvaluation ApplicationStatus = "under_evaluation"
	AppSelected        ApplicationStatus = "selected"
	AppRejected        ApplicationStatus = "rejected"
)

func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case AppApplied, AppUnderEvaluation, AppSelected, AppRejected:
		return true
	}
	return false
}

// applicationTransitions is a strict workflow, unlike the evaluation
// statuses on uploaded resources: an application can only move along
// these edges. Staying on the current status is always permitted.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	AppApplied:         {AppUnderEvaluation, AppRejected},
	AppUnderEvaluation: {AppSelected, AppRejected, AppApplied},
	AppSelected:        {AppUnderEvaluation},
	AppRejected:        {AppUnderEvaluation, AppApplied},
}

func CanTransitionApplication(from, to ApplicationStatus) bool {
	if from == to {
		return true
	}
	for _, next := range applicationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Application is a user's self-service candidacy for a demand, as opposed to
// a Resource row uploaded on their behalf by the PMO.
type Application struct {
	gorm.Model
	DemandID uint    `gorm:"not null;index"`
	Demand   *Demand `gorm:"foreignKey:DemandID;constraint:OnDelete:CASCADE"`

	UserID    uint
	Applicant *User `gorm:"foreignKey:UserID"`

	ApplicantName     string  `gorm:"size:255;not null"`
	EnterpriseID      string  `gorm:"size:50"`
	CurrentProject    string  `gorm:"size:255"`
	YearsOfExperience float64 `gorm:"default:0"`
	SkillsText        string  `gorm:"type:text"`

	Status  ApplicationStatus `gorm:"type:varchar(30);not null;default:applied;index"`
	Remarks string            `gorm:"type:text"`

	History []ApplicationHistory `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
}

// ApplicationHistory records every status change, including the submission
// itself (empty FromStatus).
type ApplicationHistory struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	ApplicationID uint `gorm:"not null;index"`

	FromStatus ApplicationStatus `gorm:"type:varchar(30)"`
	ToStatus   ApplicationStatus `gorm:"type:varchar(30);not null"`

	ChangedBy uint
	Changer   *User `gorm:"foreignKey:ChangedBy"`

	Remarks string `gorm:"type:text"`
}

func (a *Application) StatusDisplay() string {
	switch a.Status {
	case AppApplied:
		return "Applied"
	case AppUnderEvaluation:
		return "Under Evaluation"
	case AppSelected:
		return "Selected"
	case AppRejected:
		return "Rejected"
	}
	return string(a.Status)
}

func (a *Application) StatusColor() string {
	switch a.Status {
	case AppApplied:
		return "secondary"
	case AppUnderEvaluation:
		return "warning"
	case AppSelected:
		return "success"
	case AppRejected:
		return "danger"
	}
	return "secondary"
}
