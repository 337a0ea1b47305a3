package services

import (
	"fmt"
	"log"
	"strings"

	"skillhive/internal/mail"
	"skillhive/internal/models"

	"gorm.io/gorm"
)

// Demands owns demand lifecycle and the skills taxonomy attached to it.
// Mailer is optional; when set, creators get a confirmation mail.
type Demands struct {
	DB     *gorm.DB
	Mailer mail.Sender
}

func NewDemands(db *gorm.DB) *Demands {
	return &Demands{DB: db}
}

type DemandInput struct {
	RRD          string
	ProjectName  string
	DUName       string
	ClientName   string
	ManagerName  string
	CareerLevel  string
	NumPositions int
	Priority     models.DemandPriority
	Description  string
	SkillNames   []string
}

func (s *Demands) Create(actor *models.User, in DemandInput) (*models.Demand, error) {
	if !actor.IsPMO() {
		return nil, ErrNotAuthorized
	}
	if strings.TrimSpace(in.ProjectName) == "" {
		return nil, ErrInvalidStatus
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(in.Priority) {
		return nil, ErrInvalidStatus
	}
	if in.NumPositions < 1 {
		in.NumPositions = 1
	}
	if in.RRD == "" {
		in.RRD = in.ProjectName
	}

	demand := models.Demand{
		RRD:          strings.TrimSpace(in.RRD),
		ProjectName:  strings.TrimSpace(in.ProjectName),
		DUName:       strings.TrimSpace(in.DUName),
		ClientName:   strings.TrimSpace(in.ClientName),
		ManagerName:  strings.TrimSpace(in.ManagerName),
		CareerLevel:  strings.TrimSpace(in.CareerLevel),
		NumPositions: in.NumPositions,
		Priority:     in.Priority,
		Status:       models.DemandOpen,
		Description:  strings.TrimSpace(in.Description),
		CreatedBy:    actor.ID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&demand).Error; err != nil {
			return err
		}
		skills, err := getOrCreateSkills(tx, in.SkillNames)
		if err != nil {
			return err
		}
		if len(skills) > 0 {
			return tx.Model(&demand).Association("Skills").Replace(skills)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Confirmation mail is best-effort; the demand stands either way.
	if s.Mailer != nil {
		body := fmt.Sprintf(
			"<p>Your demand <strong>%s</strong> (%s) was created with %d position(s).</p>",
			demand.RRD, demand.ProjectName, demand.NumPositions,
		)
		if err := s.Mailer.Send(actor.Email, "Demand created: "+demand.RRD, body); err != nil {
			log.Printf("demand confirmation mail to %s failed: %v", actor.Email, err)
		}
	}
	return &demand, nil
}

func (s *Demands) Update(actor *models.User, demandID uint, in DemandInput) (*models.Demand, error) {
	if !actor.IsPMO() {
		return nil, ErrNotAuthorized
	}
	demand, err := s.Get(demandID)
	if err != nil {
		return nil, err
	}

	demand.RRD = strings.TrimSpace(in.RRD)
	demand.ProjectName = strings.TrimSpace(in.ProjectName)
	demand.DUName = strings.TrimSpace(in.DUName)
	demand.ClientName = strings.TrimSpace(in.ClientName)
	demand.ManagerName = strings.TrimSpace(in.ManagerName)
	demand.CareerLevel = strings.TrimSpace(in.CareerLevel)
	demand.Description = strings.TrimSpace(in.Description)
	if in.NumPositions >= 1 {
		demand.NumPositions = in.NumPositions
	}
	if in.Priority != "" {
		if !models.ValidPriority(in.Priority) {
			return nil, ErrInvalidStatus
		}
		demand.Priority = in.Priority
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(demand).Error; err != nil {
			return err
		}
		if in.SkillNames != nil {
			skills, err := getOrCreateSkills(tx, in.SkillNames)
			if err != nil {
				return err
			}
			return tx.Model(demand).Association("Skills").Replace(skills)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return demand, nil
}

// SetStatus is not a closed state machine: any authorized role may move a
// demand to any recognized status at any time.
func (s *Demands) SetStatus(actor *models.User, demandID uint, status models.DemandStatus) (*models.Demand, error) {
	if !actor.IsPMO() {
		return nil, ErrNotAuthorized
	}
	if !models.ValidDemandStatus(status) {
		return nil, ErrInvalidStatus
	}
	demand, err := s.Get(demandID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(demand).Update("status", status).Error; err != nil {
		return nil, err
	}
	demand.Status = status
	return demand, nil
}

// Delete removes a demand and sweeps its resources in the same transaction.
// The FK constraint carries ON DELETE CASCADE as an independent second layer,
// so nothing survives either write path.
func (s *Demands) Delete(actor *models.User, demandID uint) error {
	if !actor.IsPMO() {
		return ErrNotAuthorized
	}
	demand, err := s.Get(demandID)
	if err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("demand_id = ?", demand.ID).
			Delete(&models.Resource{}).Error; err != nil {
			return err
		}
		applicationIDs := tx.Model(&models.Application{}).
			Select("id").Where("demand_id = ?", demand.ID)
		if err := tx.Where("application_id IN (?)", applicationIDs).
			Delete(&models.ApplicationHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("demand_id = ?", demand.ID).
			Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Model(demand).Association("Skills").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(demand).Error
	})
}

func (s *Demands) Get(id uint) (*models.Demand, error) {
	var demand models.Demand
	if err := s.DB.Preload("Skills").Preload("Creator").First(&demand, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDemandNotFound
		}
		return nil, err
	}
	return &demand, nil
}

// getOrCreateSkills resolves names case-insensitively, creating missing ones
// so PMO-entered skills outside the seeded taxonomy still attach.
func getOrCreateSkills(tx *gorm.DB, names []string) ([]models.Skill, error) {
	var skills []models.Skill
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		var skill models.Skill
		err := tx.Where("lower(name) = lower(?)", name).First(&skill).Error
		if err == gorm.ErrRecordNotFound {
			skill = models.Skill{Name: name, Category: "Other"}
			if err := tx.Create(&skill).Error; err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, nil
}
