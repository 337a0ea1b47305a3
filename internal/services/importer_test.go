package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"skillhive/internal/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Skill{}, &models.Demand{},
		&models.Resource{}, &models.Application{},
		&models.ApplicationHistory{}, &models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	u := models.User{
		Email:       email,
		DisplayName: models.EnterpriseIDFromEmail(email),
		Role:        role,
		IsActive:    true,
		IsApproved:  true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return &u
}

func seedDemand(t *testing.T, db *gorm.DB, creator *models.User, name string) *models.Demand {
	d := models.Demand{
		RRD:          name,
		ProjectName:  name,
		DUName:       "DU1",
		CareerLevel:  "11",
		NumPositions: 1,
		Priority:     models.PriorityMedium,
		Status:       models.DemandOpen,
		CreatedBy:    creator.ID,
	}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("seed demand: %v", err)
	}
	return &d
}

func buildSheet(t *testing.T, rows [][]string) *bytes.Buffer {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for rowIdx, row := range rows {
		for colIdx, v := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write sheet: %v", err)
	}
	return buf
}

func TestImportCountsAndDefaults(t *testing.T) {
	db := setupTestDB(t, t.Name())
	pmo := seedUser(t, db, "pmo@accenture.com", models.RolePMO)
	demand := seedDemand(t, db, pmo, "RRD-100")
	imp := NewImporter(db)

	buf := buildSheet(t, [][]string{
		{"NAME", "EMPLOYEE_PRIMARY_SKILL", "E_MAIL_ADDRESS"},
		{"Alice", "Java", "alice@accenture.com"},
		{"", "Python", "nobody@accenture.com"},
		{"Bob", "Go", "bob@accenture.com"},
	})

	report, err := imp.Import(context.Background(), demand.ID, pmo, buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Imported != 2 || report.Skipped != 1 {
		t.Fatalf("expected imported=2 skipped=1, got %d/%d", report.Imported, report.Skipped)
	}
	if report.BatchID == "" {
		t.Fatalf("expected a batch id")
	}

	var resources []models.Resource
	if err := db.Where("demand_id = ?", demand.ID).Order("name asc").Find(&resources).Error; err != nil {
		t.Fatalf("load resources: %v", err)
	}
	if len(resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(resources))
	}
	for _, r := range resources {
		if r.EvaluationStatus != models.EvalPending {
			t.Fatalf("expected pending status, got %s", r.EvaluationStatus)
		}
		if r.UploadedBy != pmo.ID {
			t.Fatalf("expected uploader %d, got %d", pmo.ID, r.UploadedBy)
		}
	}
	if resources[0].Name != "Alice" || resources[0].PrimarySkill != "Java" {
		t.Fatalf("unexpected first row: %+v", resources[0])
	}
	if resources[1].Email != "bob@accenture.com" {
		t.Fatalf("unexpected second row email: %q", resources[1].Email)
	}
}

func TestImportHeaderAliases(t *testing.T) {
	db := setupTestDB(t, t.Name())
	pmo := seedUser(t, db, "pmo@accenture.com", models.RolePMO)
	imp := NewImporter(db)

	variants := []string{"EMAIL", "E_MAIL_ADDRESS", "EMAIL ADDRESS", "e_mail_address "}
	for i, header := range variants {
		demand := seedDemand(t, db, pmo, fmt.Sprintf("RRD-%d", i))
		buf := buildSheet(t, [][]string{
			{"NAME", header},
			{"Carol", "carol@accenture.com"},
		})
		if _, err := imp.Import(context.Background(), demand.ID, pmo, buf); err != nil {
			t.Fatalf("import with header %q: %v", header, err)
		}
		var r models.Resource
		if err := db.Where("demand_id = ?", demand.ID).First(&r).Error; err != nil {
			t.Fatalf("load resource: %v", err)
		}
		if r.Email != "carol@accenture.com" {
			t.Fatalf("header %q did not map to email, got %+v", header, r)
		}
	}
}

func TestMatchHeader(t *testing.T) {
	cases := []struct {
		header string
		field  string
	}{
		{"NAME", "name"},
		{"  name ", "name"},
		{"PERSONNEL_NO/PRE HIRE ID", "personnel_no"},
		{"ROLL OFF DATE", "availability_status"},
		// Substring fallback in both directions.
		{"RESOURCE NAME", "name"},
		{"EMPLOYEE PRIMARY", "primary_skill"},
		{"TOTALLY UNKNOWN COLUMN", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := matchHeader(tc.header); got != tc.field {
			t.Fatalf("matchHeader(%q) = %q, want %q", tc.header, got, tc.field)
		}
	}
}

func TestImportEmptyAndBadFiles(t *testing.T) {
	db := setupTestDB(t, t.Name())
	pmo := seedUser(t, db, "pmo@accenture.com", models.RolePMO)
	demand := seedDemand(t, db, pmo, "RRD-1")
	imp := NewImporter(db)

	empty := buildSheet(t, nil)
	if _, err := imp.Import(context.Background(), demand.ID, pmo, empty); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}

	noKnownHeaders := buildSheet(t, [][]string{{"FOO", "BAR"}, {"x", "y"}})
	if _, err := imp.Import(context.Background(), demand.ID, pmo, noKnownHeaders); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile for unknown headers, got %v", err)
	}

	garbage := bytes.NewBufferString("this is not a spreadsheet")
	if _, err := imp.Import(context.Background(), demand.ID, pmo, garbage); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestImportAllRowsSkippedIsNotAnError(t *testing.T) {
	db := setupTestDB(t, t.Name())
	pmo := seedUser(t, db, "pmo@accenture.com", models.RolePMO)
	demand := seedDemand(t, db, pmo, "RRD-1")
	imp := NewImporter(db)

	buf := buildSheet(t, [][]string{
		{"NAME", "EMAIL"},
		{"", "a@accenture.com"},
		{"", "b@accenture.com"},
	})
	report, err := imp.Import(context.Background(), demand.ID, pmo, buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Imported != 0 || report.Skipped != 2 {
		t.Fatalf("expected imported=0 skipped=2, got %d/%d", report.Imported, report.Skipped)
	}
}

func TestImportAuthorization(t *testing.T) {
	db := setupTestDB(t, t.Name())
	pmo := seedUser(t, db, "pmo@accenture.com", models.RolePMO)
	evaluator := seedUser(t, db, "eval@accenture.com", models.RoleEvaluator)
	demand := seedDemand(t, db, pmo, "RRD-1")
	imp := NewImporter(db)

	buf := buildSheet(t, [][]string{{"NAME"}, {"Alice"}})
	if _, err := imp.Import(context.Background(), demand.ID, evaluator, buf); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestImportMissingDemand(t *testing.T) {
	db := setupTestDB(t, t.Name())
	pmo := seedUser(t, db, "pmo@accenture.com", models.RolePMO)
	imp := NewImporter(db)

	buf := buildSheet(t, [][]string{{"NAME"}, {"Alice"}})
	if _, err := imp.Import(context.Background(), 9999, pmo, buf); !errors.Is(err, ErrDemandNotFound) {
		t.Fatalf("expected ErrDemandNotFound, got %v", err)
	}
}

func TestImportCancelledContextCommitsNothing(t *testing.T) {
	db := setupTestDB(t, t.Name())
	pmo := seedUser(t, db, "pmo@accenture.com", models.RolePMO)
	demand := seedDemand(t, db, pmo, "RRD-1")
	imp := NewImporter(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := buildSheet(t, [][]string{{"NAME"}, {"Alice"}, {"Bob"}})
	if _, err := imp.Import(ctx, demand.ID, pmo, buf); err == nil {
		t.Fatalf("expected an error from the cancelled context")
	}

	var count int64
	if err := db.Model(&models.Resource{}).Where("demand_id = ?", demand.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no partial batch, got %d rows", count)
	}
}
