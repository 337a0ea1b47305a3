package services

import (
	"context"
	"io"
	"strings"
	"time"

	"skillhive/internal/metrics"
	"skillhive/internal/models"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Spreadsheet header -> Resource field. Source files name the same column
// many different ways, so the table carries every spelling seen in the wild.
var headerAliases = map[string]string{
	"PERSONNEL_NO":             "personnel_no",
	"PRE HIRE ID":              "personnel_no",
	"PERSONNEL_NO/PRE HIRE ID": "personnel_no",
	"PERSONNEL NO":             "personnel_no",

	"NAME": "name",

	"EMPLOYEE_PRIMARY_SKILL": "primary_skill",
	"EMPLOYEE PRIMARY SKILL": "primary_skill",
	"PRIMARY SKILL":          "primary_skill",

	"MANAGEMENT LEVEL": "management_level",
	"MANAGEMENT_LEVEL": "management_level",

	"HOME_LOC":      "home_location",
	"HOME LOC":      "home_location",
	"HOME LOCATION": "home_location",

	"CURRENT_LOCK_STATUS": "lock_status",
	"CURRENT LOCK STATUS": "lock_status",
	"LOCK STATUS":         "lock_status",

	"ROLL_OFF_DATE": "availability_status",
	"ROLL OFF DATE": "availability_status",
	"ROLLOFF DATE":  "availability_status",
	"AVAILABILITY":  "availability_status",

	"E_MAIL_ADDRESS": "email",
	"E MAIL ADDRESS": "email",
	"EMAIL":          "email",
	"EMAIL ADDRESS":  "email",

	"CONTACT_DETAILS": "contact_details",
	"CONTACT DETAILS": "contact_details",
	"CONTACT":         "contact_details",
	"PHONE":           "contact_details",

	"JOINING DATE":                 "joining_date",
	"JOINING DATE (BENCH/JOINERS)": "joining_date",
	"JOINING_DATE":                 "joining_date",
}

// matchHeader resolves a raw header cell to a Resource field. Exact match
// against the alias table wins; otherwise a substring match in either
// direction, with the longest alias key taking precedence so the tie-break
// is deterministic rather than map-order luck.
func matchHeader(header string) string {
	normalized := strings.ToUpper(strings.TrimSpace(header))
	if normalized == "" {
		return ""
	}
	if field, ok := headerAliases[normalized]; ok {
		return field
	}

	bestField := ""
	bestLen := 0
	for key, field := range headerAliases {
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			if len(key) > bestLen {
				bestField = field
				bestLen = len(key)
			}
		}
	}
	return bestField
}

// importBatchSize bounds both memory and per-transaction row count.
// Aborting mid-import leaves whole batches committed, never partial ones.
const importBatchSize = 200

type ImportReport struct {
	BatchID  string
	Imported int
	Skipped  int
}

// Importer converts uploaded spreadsheets into Resource rows for a demand.
type Importer struct {
	DB *gorm.DB
}

func NewImporter(db *gorm.DB) *Importer {
	return &Importer{DB: db}
}

// Import streams the spreadsheet row by row; the file is never materialized
// as a full object graph. Rows without a name are counted and skipped.
func (s *Importer) Import(ctx context.Context, demandID uint, actor *models.User, r io.Reader) (*ImportReport, error) {
	if !actor.IsPMO() {
		return nil, ErrNotAuthorized
	}

	var demand models.Demand
	if err := s.DB.First(&demand, demandID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDemandNotFound
		}
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrUnsupportedFormat
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, ErrUnsupportedFormat
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrEmptyFile
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, ErrUnsupportedFormat
	}

	fieldByCol := map[int]string{}
	for idx, cell := range header {
		if field := matchHeader(cell); field != "" {
			fieldByCol[idx] = field
		}
	}
	if len(fieldByCol) == 0 {
		return nil, ErrEmptyFile
	}

	report := &ImportReport{BatchID: uuid.NewString()}
	now := time.Now().UTC()
	batch := make([]models.Resource, 0, importBatchSize)

	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return nil, ErrUnsupportedFormat
		}

		values := map[string]string{}
		for idx, cell := range cols {
			field, ok := fieldByCol[idx]
			if !ok {
				continue
			}
			if v := strings.TrimSpace(cell); v != "" {
				values[field] = v
			}
		}

		// Wholly empty rows are noise, not errors.
		if len(values) == 0 {
			continue
		}
		if values["name"] == "" {
			report.Skipped++
			continue
		}

		batch = append(batch, models.Resource{
			DemandID:           demand.ID,
			PersonnelNo:        values["personnel_no"],
			Name:               values["name"],
			PrimarySkill:       values["primary_skill"],
			ManagementLevel:    values["management_level"],
			HomeLocation:       values["home_location"],
			LockStatus:         values["lock_status"],
			AvailabilityStatus: values["availability_status"],
			Email:              values["email"],
			ContactDetails:     values["contact_details"],
			JoiningDate:        values["joining_date"],
			EvaluationStatus:   models.EvalPending,
			UploadedBy:         actor.ID,
			UploadedAt:         now,
		})

		if len(batch) == importBatchSize {
			if err := s.commitBatch(ctx, batch); err != nil {
				return nil, err
			}
			report.Imported += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := s.commitBatch(ctx, batch); err != nil {
			return nil, err
		}
		report.Imported += len(batch)
	}

	metrics.ResourcesImported.Add(float64(report.Imported))
	metrics.ImportRowsSkipped.Add(float64(report.Skipped))
	return report, nil
}

// Each batch commits in its own transaction. The context is checked up
// front so an abort never starts a new batch but never splits one either.
func (s *Importer) commitBatch(ctx context.Context, batch []models.Resource) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Create(&batch).Error
}
