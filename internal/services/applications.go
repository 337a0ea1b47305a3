package services

import (
	"fmt"
	"log"
	"strings"

	"skillhive/internal/mail"
	"skillhive/internal/metrics"
	"skillhive/internal/models"

	"gorm.io/gorm"
)

// Applications owns the self-service candidacy workflow: users apply against
// a demand themselves, distinct from the bulk-uploaded Resource rows.
// Mailer is optional; when set, the demand creator is notified of new
// applications and applicants of status changes.
type Applications struct {
	DB     *gorm.DB
	Mailer mail.Sender
}

func NewApplications(db *gorm.DB) *Applications {
	return &Applications{DB: db}
}

type ApplicationInput struct {
	CurrentProject    string
	YearsOfExperience float64
	SkillsText        string
}

// Apply files a candidacy for an open demand. One application per user per
// demand; the first application moves an open demand to in_progress.
func (s *Applications) Apply(actor *models.User, demandID uint, in ApplicationInput) (*models.Application, error) {
	var demand models.Demand
	if err := s.DB.Preload("Creator").First(&demand, demandID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDemandNotFound
		}
		return nil, err
	}
	if !demand.IsOpen() {
		return nil, ErrDemandClosed
	}

	var existing int64
	if err := s.DB.Model(&models.Application{}).
		Where("demand_id = ? AND user_id = ?", demand.ID, actor.ID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyApplied
	}

	application := models.Application{
		DemandID:          demand.ID,
		UserID:            actor.ID,
		ApplicantName:     actor.DisplayName,
		EnterpriseID:      actor.EnterpriseID,
		CurrentProject:    strings.TrimSpace(in.CurrentProject),
		YearsOfExperience: in.YearsOfExperience,
		SkillsText:        strings.TrimSpace(in.SkillsText),
		Status:            models.AppApplied,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&application).Error; err != nil {
			return err
		}
		history := models.ApplicationHistory{
			ApplicationID: application.ID,
			ToStatus:      models.AppApplied,
			ChangedBy:     actor.ID,
			Remarks:       "Application submitted",
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		if demand.Status == models.DemandOpen {
			if err := tx.Model(&demand).Update("status", models.DemandInProgress).Error; err != nil {
				return err
			}
			demand.Status = models.DemandInProgress
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ApplicationsSubmitted.Inc()

	if s.Mailer != nil && demand.Creator != nil {
		body := fmt.Sprintf(
			"<p>%s applied for <strong>%s</strong> (%s).</p>",
			application.ApplicantName, demand.ProjectName, demand.RRD,
		)
		subject := "[SkillHive] New application: " + demand.ProjectName
		if err := s.Mailer.Send(demand.Creator.Email, subject, body); err != nil {
			log.Printf("application mail to %s failed: %v", demand.Creator.Email, err)
		}
	}

	return &application, nil
}

// UpdateStatus moves an application along the strict workflow and appends a
// history row. The applicant is notified best-effort.
func (s *Applications) UpdateStatus(applicationID uint, actor *models.User, status models.ApplicationStatus, remarks string) (*models.Application, error) {
	if !actor.CanEvaluate() {
		return nil, ErrNotAuthorized
	}
	if !models.ValidApplicationStatus(status) {
		return nil, ErrInvalidStatus
	}

	application, err := s.Get(applicationID)
	if err != nil {
		return nil, err
	}
	from := application.Status
	if !models.CanTransitionApplication(from, status) {
		return nil, ErrInvalidTransition
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":  status,
			"remarks": remarks,
		}
		if err := tx.Model(application).Updates(updates).Error; err != nil {
			return err
		}
		history := models.ApplicationHistory{
			ApplicationID: application.ID,
			FromStatus:    from,
			ToStatus:      status,
			ChangedBy:     actor.ID,
			Remarks:       remarks,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}

	application.Status = status
	application.Remarks = remarks
	metrics.ApplicationTransitions.WithLabelValues(string(status)).Inc()

	if s.Mailer != nil && application.Applicant != nil && from != status {
		project := ""
		if application.Demand != nil {
			project = application.Demand.ProjectName
		}
		subject := fmt.Sprintf("[SkillHive] Application update: %s - %s",
			application.StatusDisplay(), project)
		body := fmt.Sprintf(
			"<p>Hi %s,</p><p>Your application for <strong>%s</strong> moved to "+
				"<strong>%s</strong>.</p>",
			application.ApplicantName, project, application.StatusDisplay(),
		)
		if err := s.Mailer.Send(application.Applicant.Email, subject, body); err != nil {
			log.Printf("status mail to %s failed: %v", application.Applicant.Email, err)
		}
	}

	return application, nil
}

// ListMine returns the actor's applications, newest first.
func (s *Applications) ListMine(actor *models.User) ([]models.Application, error) {
	var applications []models.Application
	err := s.DB.Preload("Demand").
		Where("user_id = ?", actor.ID).
		Order("created_at desc").
		Find(&applications).Error
	return applications, err
}

// History returns the status trail for one application, newest first.
func (s *Applications) History(applicationID uint) ([]models.ApplicationHistory, error) {
	var history []models.ApplicationHistory
	err := s.DB.Preload("Changer").
		Where("application_id = ?", applicationID).
		Order("created_at desc, id desc").
		Find(&history).Error
	return history, err
}

func (s *Applications) Get(id uint) (*models.Application, error) {
	var application models.Application
	err := s.DB.Preload("Demand").Preload("Applicant").First(&application, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}
