package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"skillhive/internal/models"
)

func TestCreateDemandWithSkills(t *testing.T) {
	db := setupTestDB(t, t.Name())
	pmo := seedUser(t, db, "pmo@accenture.com", models.RolePMO)
	plain := seedUser(t, db, "res@accenture.com", models.RoleResource)
	svc := NewDemands(db)

	if _, err := svc.Create(plain, DemandInput{ProjectName: "P"}); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	demand, err := svc.Create(pmo, DemandInput{
		ProjectName: "Phoenix",
		DUName:      "DU7",
		CareerLevel: "10",
		Priority:    models.PriorityHigh,
		SkillNames:  []string{"Go", "  ", "Terraform"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if demand.Status != models.DemandOpen {
		t.Fatalf("new demands open by default, got %s", demand.Status)
	}
	if demand.RRD != "Phoenix" {
		t.Fatalf("RRD defaults to the project name, got %q", demand.RRD)
	}

	loaded, err := svc.Get(demand.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Skills) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(loaded.Skills))
	}

	// Same skill name, different case, must not duplicate the tag.
	other, err := svc.Create(pmo, DemandInput{ProjectName: "Other", SkillNames: []string{"go"}})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	_ = other
	var skillCount int64
	db.Model(&models.Skill{}).Where("lower(name) = ?", "go").Count(&skillCount)
	if skillCount != 1 {
		t.Fatalf("skill duplicated: %d rows", skillCount)
	}
}

func TestSetDemandStatus(t *testing.T) {
	db := setupTestDB(t, t.Name())
	pmo := seedUser(t, db, "pmo@accenture.com", models.RolePMO)
	svc := NewDemands(db)
	demand := seedDemand(t, db, pmo, "RRD-1")

	if _, err := svc.SetStatus(pmo, demand.ID, "paused"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	// Soft workflow: any recognized status is settable, including going back.
	for _, st := range []models.DemandStatus{
		models.DemandFilled, models.DemandOpen, models.DemandCancelled, models.DemandInProgress,
	} {
		updated, err := svc.SetStatus(pmo, demand.ID, st)
		if err != nil {
			t.Fatalf("set %s: %v", st, err)
		}
		if updated.Status != st {
			t.Fatalf("status not applied: %s", updated.Status)
		}
	}
}

// Deleting a demand with K resources leaves zero resources referencing it,
// for any K including zero.
func TestDemandDeleteCascades(t *testing.T) {
	db := setupTestDB(t, t.Name())
	pmo := seedUser(t, db, "pmo@accenture.com", models.RolePMO)
	svc := NewDemands(db)

	for k := 0; k <= 3; k++ {
		demand := seedDemand(t, db, pmo, fmt.Sprintf("RRD-%d", k))
		for i := 0; i < k; i++ {
			r := models.Resource{
				DemandID:         demand.ID,
				Name:             fmt.Sprintf("R%d", i),
				EvaluationStatus: models.EvalPending,
				UploadedBy:       pmo.ID,
			}
			if err := db.Create(&r).Error; err != nil {
				t.Fatalf("seed resource: %v", err)
			}
		}

		if err := svc.Delete(pmo, demand.ID); err != nil {
			t.Fatalf("delete demand with %d resources: %v", k, err)
		}

		var orphans int64
		if err := db.Model(&models.Resource{}).Where("demand_id = ?", demand.ID).Count(&orphans).Error; err != nil {
			t.Fatalf("count orphans: %v", err)
		}
		if orphans != 0 {
			t.Fatalf("K=%d: %d resources survived the cascade", k, orphans)
		}
		if _, err := svc.Get(demand.ID); !errors.Is(err, ErrDemandNotFound) {
			t.Fatalf("demand should be gone, got %v", err)
		}
	}
}

func TestDemandDeleteAuthorization(t *testing.T) {
	db := setupTestDB(t, t.Name())
	pmo := seedUser(t, db, "pmo@accenture.com", models.RolePMO)
	evaluator := seedUser(t, db, "eval@accenture.com", models.RoleEvaluator)
	svc := NewDemands(db)
	demand := seedDemand(t, db, pmo, "RRD-1")

	if err := svc.Delete(evaluator, demand.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestCreateDemandSendsConfirmationMail(t *testing.T) {
	db := setupTestDB(t, t.Name())
	pmo := seedUser(t, db, "pmo@accenture.com", models.RolePMO)
	svc := NewDemands(db)
	sender := &fakeSender{failing: true}
	svc.Mailer = sender

	// A failing mailer never blocks demand creation.
	d, err := svc.Create(pmo, DemandInput{ProjectName: "Atlas", RRD: "RRD-9"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(sender.to) != 1 || sender.to[0] != pmo.Email {
		t.Fatalf("confirmation should go to the creator, got %v", sender.to)
	}
	if !strings.Contains(sender.bodies[0], "RRD-9") {
		t.Fatalf("mail body should name the demand: %q", sender.bodies[0])
	}
	if _, err := svc.Get(d.ID); err != nil {
		t.Fatalf("demand should exist despite mail failure: %v", err)
	}
}
