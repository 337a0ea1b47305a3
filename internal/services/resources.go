package services

import (
	"time"

	"skillhive/internal/metrics"
	"skillhive/internal/models"

	"gorm.io/gorm"
)

// Resources owns the evaluation workflow and manual resource removal.
type Resources struct {
	DB *gorm.DB
}

func NewResources(db *gorm.DB) *Resources {
	return &Resources{DB: db}
}

// UpdateEvaluation transitions a resource's evaluation status. No status is
// locked: authorized actors may move between any two recognized statuses,
// including back out of terminal-looking ones.
func (s *Resources) UpdateEvaluation(resourceID uint, actor *models.User, status models.EvaluationStatus, remarks string) (*models.Resource, error) {
	if !actor.CanEvaluate() {
		return nil, ErrNotAuthorized
	}
	if !models.ValidEvaluationStatus(status) {
		return nil, ErrInvalidStatus
	}

	resource, err := s.Get(resourceID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(resource.EvaluationStatus, status) {
		return nil, ErrInvalidStatus
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"evaluation_status":  status,
		"evaluation_remarks": remarks,
		"evaluated_by":       actor.ID,
		"evaluated_at":       now,
	}
	if err := s.DB.Model(resource).Updates(updates).Error; err != nil {
		return nil, err
	}

	resource.EvaluationStatus = status
	resource.EvaluationRemarks = remarks
	actorID := actor.ID
	resource.EvaluatedBy = &actorID
	resource.EvaluatedAt = &now
	metrics.Evaluations.WithLabelValues(string(status)).Inc()

	return resource, nil
}

func (s *Resources) Delete(actor *models.User, resourceID uint) (*models.Resource, error) {
	if !actor.IsPMO() {
		return nil, ErrNotAuthorized
	}
	resource, err := s.Get(resourceID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Unscoped().Delete(resource).Error; err != nil {
		return nil, err
	}
	return resource, nil
}

// DeleteAll clears every resource under a demand, returning the count removed.
func (s *Resources) DeleteAll(actor *models.User, demandID uint) (int64, error) {
	if !actor.IsPMO() {
		return 0, ErrNotAuthorized
	}
	res := s.DB.Unscoped().Where("demand_id = ?", demandID).Delete(&models.Resource{})
	return res.RowsAffected, res.Error
}

// StatusCounts returns per-status totals for the filter badges on the
// resource list.
func (s *Resources) StatusCounts(demandID uint) (map[models.EvaluationStatus]int64, int64, error) {
	counts := map[models.EvaluationStatus]int64{}
	var total int64

	type row struct {
		EvaluationStatus models.EvaluationStatus
		N                int64
	}
	var rows []row
	err := s.DB.Model(&models.Resource{}).
		Select("evaluation_status, count(*) as n").
		Where("demand_id = ?", demandID).
		Group("evaluation_status").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	for _, r := range rows {
		counts[r.EvaluationStatus] = r.N
		total += r.N
	}
	return counts, total, nil
}

func (s *Resources) Get(id uint) (*models.Resource, error) {
	var resource models.Resource
	if err := s.DB.First(&resource, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return &resource, nil
}
