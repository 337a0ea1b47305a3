package database

import (
	"fmt"
	"testing"

	"skillhive/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestEnsureSuperAdminCreates(t *testing.T) {
	db := openTestDB(t, t.Name())

	if err := EnsureSuperAdmin(db, "boss@accenture.com", "Boss"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	var admin models.User
	if err := db.Where("email = ?", "boss@accenture.com").First(&admin).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if admin.Role != models.RoleAdmin || !admin.IsActive || !admin.IsApproved {
		t.Fatalf("unexpected account state: %+v", admin)
	}
	if admin.EnterpriseID != "boss" {
		t.Fatalf("enterprise id %q", admin.EnterpriseID)
	}
}

func TestEnsureSuperAdminIsIdempotent(t *testing.T) {
	db := openTestDB(t, t.Name())

	for i := 0; i < 3; i++ {
		if err := EnsureSuperAdmin(db, "boss@accenture.com", "Boss"); err != nil {
			t.Fatalf("ensure run %d: %v", i, err)
		}
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single account, got %d", count)
	}
}

func TestEnsureSuperAdminSelfHeals(t *testing.T) {
	db := openTestDB(t, t.Name())

	if err := EnsureSuperAdmin(db, "boss@accenture.com", "Boss"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	// Degrade the account directly in storage.
	if err := db.Model(&models.User{}).
		Where("email = ?", "boss@accenture.com").
		Updates(map[string]interface{}{
			"role":        models.RoleResource,
			"is_active":   false,
			"is_approved": false,
		}).Error; err != nil {
		t.Fatalf("degrade: %v", err)
	}

	if err := EnsureSuperAdmin(db, "boss@accenture.com", "Boss"); err != nil {
		t.Fatalf("re-ensure: %v", err)
	}

	var admin models.User
	if err := db.Where("email = ?", "boss@accenture.com").First(&admin).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if admin.Role != models.RoleAdmin || !admin.IsActive || !admin.IsApproved {
		t.Fatalf("account was not restored: %+v", admin)
	}
}
