package database

import (
	"log"
	"time"

	"skillhive/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn, superAdminEmail, superAdminName string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if err := EnsureSuperAdmin(DB, superAdminEmail, superAdminName); err != nil {
		log.Fatalf("failed to ensure super admin: %v", err)
	}
	seedDefaultSkills(DB)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Skill{},
		&models.Demand{},
		&models.Resource{},
		&models.Application{},
		&models.ApplicationHistory{},
		&models.AuditLog{},
	)
}

// EnsureSuperAdmin guarantees, idempotently, that the designated super admin
// account exists with role=admin, active and approved. Runs on every start so
// the account self-heals if the flags were ever altered directly in storage.
func EnsureSuperAdmin(db *gorm.DB, email, name string) error {
	var admin models.User
	err := db.Where("email = ?", email).First(&admin).Error
	if err == gorm.ErrRecordNotFound {
		admin = models.User{
			Email:        email,
			DisplayName:  name,
			EnterpriseID: models.EnterpriseIDFromEmail(email),
			Role:         models.RoleAdmin,
			IsActive:     true,
			IsApproved:   true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Printf("super admin created: %s", email)
		return nil
	}
	if err != nil {
		return err
	}

	changed := false
	if admin.Role != models.RoleAdmin {
		admin.Role = models.RoleAdmin
		changed = true
	}
	if !admin.IsActive {
		admin.IsActive = true
		changed = true
	}
	if !admin.IsApproved {
		admin.IsApproved = true
		changed = true
	}
	if changed {
		if err := db.Save(&admin).Error; err != nil {
			return err
		}
		log.Printf("super admin status restored: %s", email)
	}
	return nil
}

// Pre-seeded skill taxonomy; admins extend it from the portal.
func seedDefaultSkills(db *gorm.DB) {
	defaults := []models.Skill{
		{Name: "Java", Category: "Programming Language"},
		{Name: "Python", Category: "Programming Language"},
		{Name: "Go", Category: "Programming Language"},
		{Name: "React", Category: "Frontend"},
		{Name: "Angular", Category: "Frontend"},
		{Name: "AWS", Category: "Cloud Platform"},
		{Name: "Azure", Category: "Cloud Platform"},
		{Name: "GCP", Category: "Cloud Platform"},
		{Name: "SAP", Category: "Enterprise"},
		{Name: "Salesforce", Category: "Enterprise"},
	}

	var count int64
	if err := db.Model(&models.Skill{}).Count(&count).Error; err != nil {
		log.Printf("failed to check skills: %v", err)
		return
	}
	if count > 0 {
		return
	}

	if err := db.Create(&defaults).Error; err != nil {
		log.Printf("failed to seed skills: %v", err)
		return
	}
	log.Printf("seeded %d default skills", len(defaults))
}
