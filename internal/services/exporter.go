package services

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"skillhive/internal/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Column order is fixed; downstream teams pivot on these headings.
var exportHeaders = []string{
	"Personnel No", "Name", "Primary Skill", "Management Level",
	"Home Location", "Lock Status", "Availability", "Email",
	"Contact Details", "Joining Date", "Evaluation Status",
	"Evaluation Remarks", "Evaluated By",
}

// Exporter serializes the resource set of a demand back to a spreadsheet.
// Read-only: exporting never touches stored data.
type Exporter struct {
	DB *gorm.DB
}

func NewExporter(db *gorm.DB) *Exporter {
	return &Exporter{DB: db}
}

func (s *Exporter) Export(demandID uint) (*excelize.File, string, error) {
	var demand models.Demand
	if err := s.DB.First(&demand, demandID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", ErrDemandNotFound
		}
		return nil, "", err
	}

	var resources []models.Resource
	if err := s.DB.Preload("Evaluator").
		Where("demand_id = ?", demand.ID).
		Order("name asc").
		Find(&resources).Error; err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"A100FF"}},
	})
	if err != nil {
		return nil, "", err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, "", err
	}

	widths := make([]int, len(exportHeaders))
	for i, h := range exportHeaders {
		widths[i] = utf8.RuneCountInString(h)
	}

	for rowIdx, r := range resources {
		evaluator := ""
		if r.Evaluator != nil {
			evaluator = r.Evaluator.DisplayName
		}
		values := []string{
			r.PersonnelNo, r.Name, r.PrimarySkill, r.ManagementLevel,
			r.HomeLocation, r.LockStatus, r.AvailabilityStatus, r.Email,
			r.ContactDetails, r.JoiningDate, r.StatusDisplay(),
			r.EvaluationRemarks, evaluator,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
			// Display width is a rune count, not a byte count.
			if n := utf8.RuneCountInString(v); n > widths[colIdx] {
				widths[colIdx] = n
			}
		}
	}

	if err := applyColumnWidths(f, sheet, widths); err != nil {
		return nil, "", err
	}

	name := demand.RRD
	if name == "" {
		name = fmt.Sprintf("demand_%d", demand.ID)
	}
	return f, name, nil
}

func applyColumnWidths(f *excelize.File, sheet string, widths []int) error {
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(w + 2)
		if width > 40 {
			width = 40
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

var applicationHeaders = []string{
	"ID", "Applicant Name", "Enterprise ID", "Project Name", "RRD",
	"Career Level", "Current Project", "Years of Experience", "Skills",
	"Status", "Remarks", "Applied At", "Last Updated",
}

// ExportApplications serializes applications to a styled spreadsheet,
// filtered to one demand when demandID is non-zero.
func (s *Exporter) ExportApplications(demandID uint) (*excelize.File, error) {
	q := s.DB.Preload("Demand").Order("created_at desc")
	if demandID != 0 {
		q = q.Where("demand_id = ?", demandID)
	}
	var applications []models.Application
	if err := q.Find(&applications).Error; err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"A100FF"}},
	})
	if err != nil {
		return nil, err
	}
	for i, h := range applicationHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(applicationHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	widths := make([]int, len(applicationHeaders))
	for i, h := range applicationHeaders {
		widths[i] = utf8.RuneCountInString(h)
	}

	for rowIdx, a := range applications {
		project, rrd, level := "", "", ""
		if a.Demand != nil {
			project = a.Demand.ProjectName
			rrd = a.Demand.RRD
			level = "CL" + a.Demand.CareerLevel
		}
		values := []string{
			strconv.FormatUint(uint64(a.ID), 10),
			a.ApplicantName, a.EnterpriseID, project, rrd, level,
			a.CurrentProject,
			strconv.FormatFloat(a.YearsOfExperience, 'f', -1, 64),
			a.SkillsText, a.StatusDisplay(), a.Remarks,
			a.CreatedAt.Format("2006-01-02 15:04"),
			a.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
			if n := utf8.RuneCountInString(v); n > widths[colIdx] {
				widths[colIdx] = n
			}
		}
	}

	if err := applyColumnWidths(f, sheet, widths); err != nil {
		return nil, err
	}
	return f, nil
}
