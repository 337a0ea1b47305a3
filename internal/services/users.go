package services

import (
	"strings"

	"skillhive/internal/models"

	"gorm.io/gorm"
)

// Users owns user lifecycle mutations. Every path that can touch the
// designated super admin rejects it here, regardless of which admin asks.
type Users struct {
	DB              *gorm.DB
	SuperAdminEmail string
}

func NewUsers(db *gorm.DB, superAdminEmail string) *Users {
	return &Users{DB: db, SuperAdminEmail: strings.ToLower(superAdminEmail)}
}

func (s *Users) IsSuperAdmin(u *models.User) bool {
	return strings.EqualFold(u.Email, s.SuperAdminEmail)
}

// Create registers a new account. Only the super admin may add users or hand
// out the admin role.
func (s *Users) Create(actor *models.User, email, displayName string, role models.UserRole, approved bool) (*models.User, error) {
	if !s.IsSuperAdmin(actor) {
		return nil, ErrNotAuthorized
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidStatus
	}

	user := models.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		DisplayName:  strings.TrimSpace(displayName),
		EnterpriseID: models.EnterpriseIDFromEmail(strings.ToLower(strings.TrimSpace(email))),
		Role:         role,
		IsActive:     true,
		IsApproved:   approved,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Approve marks a registered user as approved, unlocking OTP login.
func (s *Users) Approve(actor *models.User, userID uint) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAuthorized
	}
	user, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(user).Update("is_approved", true).Error; err != nil {
		return nil, err
	}
	user.IsApproved = true
	return user, nil
}

// Reject removes an account that was never approved. Approved accounts go
// through Delete, which is reserved for the super admin.
func (s *Users) Reject(actor *models.User, userID uint) error {
	if !actor.IsAdmin() {
		return ErrNotAuthorized
	}
	user, err := s.get(userID)
	if err != nil {
		return err
	}
	if s.IsSuperAdmin(user) {
		return ErrSuperAdminProtected
	}
	if user.IsApproved {
		return ErrNotAuthorized
	}
	return s.DB.Unscoped().Delete(user).Error
}

func (s *Users) ChangeRole(actor *models.User, userID uint, role models.UserRole) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAuthorized
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidStatus
	}
	// Granting admin is reserved for the super admin.
	if role == models.RoleAdmin && !s.IsSuperAdmin(actor) {
		return nil, ErrNotAuthorized
	}

	user, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	if s.IsSuperAdmin(user) {
		return nil, ErrSuperAdminProtected
	}

	if err := s.DB.Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (s *Users) SetActive(actor *models.User, userID uint, active bool) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAuthorized
	}
	user, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	if s.IsSuperAdmin(user) {
		return nil, ErrSuperAdminProtected
	}

	if err := s.DB.Model(user).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	user.IsActive = active
	return user, nil
}

func (s *Users) Delete(actor *models.User, userID uint) error {
	if !s.IsSuperAdmin(actor) {
		return ErrNotAuthorized
	}
	user, err := s.get(userID)
	if err != nil {
		return err
	}
	if s.IsSuperAdmin(user) {
		return ErrSuperAdminProtected
	}
	return s.DB.Unscoped().Delete(user).Error
}

func (s *Users) get(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
