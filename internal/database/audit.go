package database

import "skillhive/internal/models"

// CreateAuditLog records a portal mutation. Best effort: the caller's
// operation never fails because the audit row could not be written.
func CreateAuditLog(userID uint, entity string, entityID uint, action, details string) {
	if DB == nil {
		return
	}
	record := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	_ = DB.Create(&record).Error
}
