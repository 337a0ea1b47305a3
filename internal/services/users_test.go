package services

import (
	"errors"
	"testing"

	"skillhive/internal/models"
)

const superEmail = "pratyush.vashistha@accenture.com"

func newTestUsers(t *testing.T) (*Users, *models.User) {
	db := setupTestDB(t, t.Name())
	super := seedUser(t, db, superEmail, models.RoleAdmin)
	return NewUsers(db, superEmail), super
}

func TestSuperAdminIsImmutable(t *testing.T) {
	svc, super := newTestUsers(t)
	admin := seedUser(t, svc.DB, "other.admin@accenture.com", models.RoleAdmin)

	// From another admin and from the super admin itself.
	for _, actor := range []*models.User{admin, super} {
		if _, err := svc.ChangeRole(actor, super.ID, models.RoleResource); !errors.Is(err, ErrSuperAdminProtected) {
			t.Fatalf("role change by %s: expected ErrSuperAdminProtected, got %v", actor.Email, err)
		}
		if _, err := svc.SetActive(actor, super.ID, false); !errors.Is(err, ErrSuperAdminProtected) {
			t.Fatalf("deactivate by %s: expected ErrSuperAdminProtected, got %v", actor.Email, err)
		}
	}
	if err := svc.Delete(super, super.ID); !errors.Is(err, ErrSuperAdminProtected) {
		t.Fatalf("delete: expected ErrSuperAdminProtected, got %v", err)
	}

	var check models.User
	svc.DB.Where("email = ?", superEmail).First(&check)
	if check.Role != models.RoleAdmin || !check.IsActive || !check.IsApproved {
		t.Fatalf("super admin flags changed: %+v", check)
	}
}

func TestApproveRequiresAdmin(t *testing.T) {
	svc, super := newTestUsers(t)
	pmo := seedUser(t, svc.DB, "pmo@accenture.com", models.RolePMO)

	pending := seedUser(t, svc.DB, "new@accenture.com", models.RoleResource)
	svc.DB.Model(pending).Update("is_approved", false)

	if _, err := svc.Approve(pmo, pending.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for pmo, got %v", err)
	}

	user, err := svc.Approve(super, pending.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !user.IsApproved {
		t.Fatalf("user should be approved")
	}
}

func TestRejectOnlyRemovesUnapprovedAccounts(t *testing.T) {
	svc, super := newTestUsers(t)
	pmo := seedUser(t, svc.DB, "pmo@accenture.com", models.RolePMO)

	pending := seedUser(t, svc.DB, "new@accenture.com", models.RoleResource)
	svc.DB.Model(pending).Update("is_approved", false)

	if err := svc.Reject(pmo, pending.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for pmo, got %v", err)
	}
	// An already approved account cannot be swept through reject.
	if err := svc.Reject(super, pmo.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for approved target, got %v", err)
	}
	if err := svc.Reject(super, super.ID); !errors.Is(err, ErrSuperAdminProtected) {
		t.Fatalf("expected ErrSuperAdminProtected, got %v", err)
	}

	if err := svc.Reject(super, pending.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	var count int64
	svc.DB.Model(&models.User{}).Where("email = ?", "new@accenture.com").Count(&count)
	if count != 0 {
		t.Fatalf("rejected account should be gone, found %d", count)
	}
}

func TestChangeRoleRules(t *testing.T) {
	svc, super := newTestUsers(t)
	admin := seedUser(t, svc.DB, "other.admin@accenture.com", models.RoleAdmin)
	target := seedUser(t, svc.DB, "user@accenture.com", models.RoleResource)

	if _, err := svc.ChangeRole(admin, target.ID, "wizard"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for unknown role, got %v", err)
	}

	// Only the super admin hands out the admin role.
	if _, err := svc.ChangeRole(admin, target.ID, models.RoleAdmin); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for admin grant, got %v", err)
	}
	if _, err := svc.ChangeRole(super, target.ID, models.RoleAdmin); err != nil {
		t.Fatalf("super admin grant: %v", err)
	}

	// Regular admins may move users between non-admin roles.
	if _, err := svc.ChangeRole(admin, target.ID, models.RoleEvaluator); err != nil {
		t.Fatalf("role change: %v", err)
	}
}

func TestCreateAndDeleteAreSuperAdminOnly(t *testing.T) {
	svc, super := newTestUsers(t)
	admin := seedUser(t, svc.DB, "other.admin@accenture.com", models.RoleAdmin)

	if _, err := svc.Create(admin, "x@accenture.com", "X", models.RoleResource, false); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for create, got %v", err)
	}

	user, err := svc.Create(super, "X@Accenture.com", "X", models.RoleResource, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Email != "x@accenture.com" || user.EnterpriseID != "x" {
		t.Fatalf("email not normalized: %+v", user)
	}
	if user.IsApproved {
		t.Fatalf("admin-created user defaults to unapproved unless asked")
	}

	if err := svc.Delete(admin, user.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for delete, got %v", err)
	}
	if err := svc.Delete(super, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var count int64
	svc.DB.Model(&models.User{}).Where("email = ?", "x@accenture.com").Count(&count)
	if count != 0 {
		t.Fatalf("user should be gone, found %d", count)
	}
}
