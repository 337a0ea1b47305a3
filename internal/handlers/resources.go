package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"skillhive/internal/database"
	"skillhive/internal/models"
	"skillhive/internal/services"

	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	Importer  *services.Importer
	Exporter  *services.Exporter
	Resources *services.Resources
	Demands   *services.Demands
}

func NewResourceHandler(imp *services.Importer, exp *services.Exporter, res *services.Resources, dem *services.Demands) *ResourceHandler {
	return &ResourceHandler{Importer: imp, Exporter: exp, Resources: res, Demands: dem}
}

func (h *ResourceHandler) ShowUpload(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "demand not found")
		return
	}
	demand, err := h.Demands.Get(uint(id))
	if err != nil {
		c.String(http.StatusNotFound, "demand not found")
		return
	}
	render(c, http.StatusOK, "resources_upload.html", gin.H{"demand": demand, "error": ""})
}

// Upload runs the import pipeline on the posted spreadsheet. Row-level
// problems are summarized in the result, never fatal; only a broken file or
// a missing header row aborts.
func (h *ResourceHandler) Upload(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "demand not found")
		return
	}
	demand, err := h.Demands.Get(uint(id))
	if err != nil {
		c.String(http.StatusNotFound, "demand not found")
		return
	}

	fileHeader, err := c.FormFile("excel_file")
	if err != nil {
		render(c, http.StatusBadRequest, "resources_upload.html", gin.H{
			"demand": demand, "error": "Please choose a spreadsheet to upload.",
		})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		render(c, http.StatusBadRequest, "resources_upload.html", gin.H{
			"demand": demand, "error": "Could not read the uploaded file.",
		})
		return
	}
	defer file.Close()

	report, err := h.Importer.Import(c.Request.Context(), demand.ID, actor, file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotAuthorized):
			c.String(http.StatusForbidden, "access denied")
		case errors.Is(err, services.ErrEmptyFile):
			render(c, http.StatusBadRequest, "resources_upload.html", gin.H{
				"demand": demand,
				"error": "Could not detect column headers. Make sure the first row " +
					"contains headers like NAME, EMPLOYEE_PRIMARY_SKILL, E_MAIL_ADDRESS.",
			})
		case errors.Is(err, services.ErrUnsupportedFormat):
			render(c, http.StatusBadRequest, "resources_upload.html", gin.H{
				"demand": demand, "error": "The file is not a readable Excel spreadsheet.",
			})
		default:
			render(c, http.StatusInternalServerError, "resources_upload.html", gin.H{
				"demand": demand, "error": "Import failed. Please try again.",
			})
		}
		return
	}

	database.CreateAuditLog(actor.ID, "demand", demand.ID, "import",
		fmt.Sprintf("batch=%s imported=%d skipped=%d", report.BatchID, report.Imported, report.Skipped))
	c.Redirect(http.StatusFound, fmt.Sprintf("/demands/%d/resources?imported=%d&skipped=%d",
		demand.ID, report.Imported, report.Skipped))
}

func (h *ResourceHandler) List(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "demand not found")
		return
	}
	demand, err := h.Demands.Get(uint(id))
	if err != nil {
		c.String(http.StatusNotFound, "demand not found")
		return
	}

	statusFilter := c.Query("status")
	dbq := database.DB.Preload("Evaluator").
		Where("demand_id = ?", demand.ID).
		Order("uploaded_at desc")
	if statusFilter != "" {
		dbq = dbq.Where("evaluation_status = ?", statusFilter)
	}

	var resources []models.Resource
	if err := dbq.Find(&resources).Error; err != nil {
		c.String(http.StatusInternalServerError, "failed to load resources")
		return
	}

	counts, total, err := h.Resources.StatusCounts(demand.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load resources")
		return
	}

	render(c, http.StatusOK, "resources_list.html", gin.H{
		"demand":       demand,
		"resources":    resources,
		"stats":        counts,
		"total":        total,
		"StatusFilter": statusFilter,
	})
}

func (h *ResourceHandler) Evaluate(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "resource not found")
		return
	}

	status := models.EvaluationStatus(c.PostForm("evaluation_status"))
	remarks := c.PostForm("evaluation_remarks")

	resource, err := h.Resources.UpdateEvaluation(uint(id), actor, status, remarks)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotAuthorized):
			c.String(http.StatusForbidden, "access denied")
		case errors.Is(err, services.ErrInvalidStatus):
			c.String(http.StatusBadRequest, "unknown evaluation status")
		default:
			c.String(http.StatusNotFound, "resource not found")
		}
		return
	}

	database.CreateAuditLog(actor.ID, "resource", resource.ID, "evaluate", string(status))
	c.Redirect(http.StatusFound, fmt.Sprintf("/demands/%d/resources", resource.DemandID))
}

func (h *ResourceHandler) Delete(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "resource not found")
		return
	}

	resource, err := h.Resources.Delete(actor, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			c.String(http.StatusForbidden, "access denied")
			return
		}
		c.String(http.StatusNotFound, "resource not found")
		return
	}

	database.CreateAuditLog(actor.ID, "resource", resource.ID, "delete", resource.Name)
	c.Redirect(http.StatusFound, fmt.Sprintf("/demands/%d/resources", resource.DemandID))
}

func (h *ResourceHandler) DeleteAll(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "demand not found")
		return
	}

	count, err := h.Resources.DeleteAll(actor, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			c.String(http.StatusForbidden, "access denied")
			return
		}
		c.String(http.StatusInternalServerError, "failed to clear resources")
		return
	}

	database.CreateAuditLog(actor.ID, "demand", uint(id), "clear_resources", strconv.FormatInt(count, 10))
	c.Redirect(http.StatusFound, "/demands/"+c.Param("id"))
}

func (h *ResourceHandler) Export(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "demand not found")
		return
	}

	f, name, err := h.Exporter.Export(uint(id))
	if err != nil {
		c.String(http.StatusNotFound, "demand not found")
		return
	}

	filename := fmt.Sprintf("resources_%s_%s.xlsx", name, time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "failed to write spreadsheet")
	}
}
