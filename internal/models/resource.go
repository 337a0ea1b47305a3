package models

import (
	"time"

	"gorm.io/gorm"
)

type EvaluationStatus string

const (
	EvalPending         EvaluationStatus = "pending"
	EvalUnderEvaluation EvaluationStatus = "under_evaluation"
	EvalAccepted        EvaluationStatus = "accepted"
	EvalRejected        EvaluationStatus = "rejected"
	EvalSkillMismatch   EvaluationStatus = "skill_mismatch"
	EvalUnavailable     EvaluationStatus = "unavailable"
	EvalAlreadyLocked   EvaluationStatus = "already_locked"

	// Superseded by EvalAccepted. Still present in old rows; resolved to the
	// accepted presentation at display time, never rewritten in storage.
	evalLegacySelected EvaluationStatus = "selected"
)

// EvaluationStatuses lists the statuses accepted as transition targets.
var EvaluationStatuses = []EvaluationStatus{
	EvalPending,
	EvalUnderEvaluation,
	EvalAccepted,
	EvalRejected,
	EvalSkillMismatch,
	EvalUnavailable,
	EvalAlreadyLocked,
}

func ValidEvaluationStatus(s EvaluationStatus) bool {
	for _, v := range EvaluationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransition is the single validation seam for evaluation status changes.
// The workflow is deliberately soft: any recognized status may follow any other,
// including reversals out of rejected/accepted.
func CanTransition(from, to EvaluationStatus) bool {
	return ValidEvaluationStatus(to)
}

// Resource is one row of uploaded supply data tied to a demand.
type Resource struct {
	gorm.Model
	DemandID uint    `gorm:"not null;index"`
	Demand   *Demand `gorm:"foreignKey:DemandID;constraint:OnDelete:CASCADE"`

	PersonnelNo     string `gorm:"size:50"`
	Name            string `gorm:"size:255;not null"`
	PrimarySkill    string `gorm:"size:255"`
	ManagementLevel string `gorm:"size:50"`
	HomeLocation    string `gorm:"size:255"`
	LockStatus      string `gorm:"size:100"`
	// Free text: source sheets carry values like "on bench", not dates.
	AvailabilityStatus string `gorm:"size:255"`
	Email              string `gorm:"size:255"`
	ContactDetails     string `gorm:"size:100"`
	JoiningDate        string `gorm:"size:100"`

	EvaluationStatus  EvaluationStatus `gorm:"type:varchar(30);not null;default:pending;index"`
	EvaluationRemarks string           `gorm:"type:text"`
	EvaluatedBy       *uint
	Evaluator         *User `gorm:"foreignKey:EvaluatedBy"`
	EvaluatedAt       *time.Time

	UploadedBy uint
	Uploader   *User `gorm:"foreignKey:UploadedBy"`
	UploadedAt time.Time
}

// displayStatus folds legacy stored values into their current synonym.
// Extension point for future renames.
func displayStatus(s EvaluationStatus) EvaluationStatus {
	if s == evalLegacySelected {
		return EvalAccepted
	}
	return s
}

func (r *Resource) StatusDisplay() string {
	switch displayStatus(r.EvaluationStatus) {
	case EvalPending:
		return "Pending"
	case EvalUnderEvaluation:
		return "Under Evaluation"
	case EvalAccepted:
		return "Accepted"
	case EvalRejected:
		return "Rejected"
	case EvalSkillMismatch:
		return "Skill Mismatch"
	case EvalUnavailable:
		return "Unavailable"
	case EvalAlreadyLocked:
		return "Already Locked"
	}
	return string(r.EvaluationStatus)
}

func (r *Resource) StatusColor() string {
	switch displayStatus(r.EvaluationStatus) {
	case EvalPending:
		return "secondary"
	case EvalUnderEvaluation:
		return "warning"
	case EvalAccepted:
		return "success"
	case EvalRejected:
		return "danger"
	case EvalSkillMismatch:
		return "warning"
	case EvalUnavailable:
		return "info"
	case EvalAlreadyLocked:
		return "dark"
	}
	return "secondary"
}

func (r *Resource) StatusIcon() string {
	switch displayStatus(r.EvaluationStatus) {
	case EvalPending:
		return "bi-hourglass"
	case EvalUnderEvaluation:
		return "bi-hourglass-split"
	case EvalAccepted:
		return "bi-check-circle-fill"
	case EvalRejected:
		return "bi-x-circle-fill"
	case EvalSkillMismatch:
		return "bi-exclamation-triangle"
	case EvalUnavailable:
		return "bi-calendar-x"
	case EvalAlreadyLocked:
		return "bi-lock-fill"
	}
	return "bi-question-circle"
}
