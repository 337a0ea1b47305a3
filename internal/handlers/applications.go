package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"skillhive/internal/database"
	"skillhive/internal/models"
	"skillhive/internal/services"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	Applications *services.Applications
	Exporter     *services.Exporter
	Demands      *services.Demands
}

func NewApplicationHandler(apps *services.Applications, exp *services.Exporter, dem *services.Demands) *ApplicationHandler {
	return &ApplicationHandler{Applications: apps, Exporter: exp, Demands: dem}
}

func (h *ApplicationHandler) ShowApply(c *gin.Context) {
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
	render(c, http.StatusOK, "applications_apply.html", gin.H{
		"demand": demand,
		"name":   actor.DisplayName,
		"error":  "",
	})
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
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

	years, _ := strconv.ParseFloat(c.PostForm("years_of_experience"), 64)
	in := services.ApplicationInput{
		CurrentProject:    c.PostForm("current_project"),
		YearsOfExperience: years,
		SkillsText:        c.PostForm("skills_text"),
	}

	application, err := h.Applications.Apply(actor, uint(id), in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDemandClosed):
			c.String(http.StatusBadRequest, "this demand is no longer accepting applications")
		case errors.Is(err, services.ErrAlreadyApplied):
			c.Redirect(http.StatusFound, "/applications/my")
		default:
			c.String(http.StatusNotFound, "demand not found")
		}
		return
	}

	database.CreateAuditLog(actor.ID, "application", application.ID, "apply",
		fmt.Sprintf("demand=%d", application.DemandID))
	c.Redirect(http.StatusFound, "/applications/my")
}

func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	applications, err := h.Applications.ListMine(actor)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load applications")
		return
	}
	render(c, http.StatusOK, "applications_my.html", gin.H{"applications": applications})
}

func (h *ApplicationHandler) Manage(c *gin.Context) {
	statusFilter := c.Query("status")
	demandFilter := c.Query("demand_id")
	search := strings.TrimSpace(c.Query("search"))

	dbq := database.DB.Preload("Demand").Preload("Applicant").
		Joins("JOIN demands ON demands.id = applications.demand_id").
		Order("applications.created_at desc")
	if statusFilter != "" {
		dbq = dbq.Where("applications.status = ?", statusFilter)
	}
	if demandFilter != "" {
		dbq = dbq.Where("applications.demand_id = ?", demandFilter)
	}
	if search != "" {
		pattern := "%" + search + "%"
		dbq = dbq.Where(
			"applications.applicant_name ILIKE ? OR applications.enterprise_id ILIKE ? OR demands.project_name ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var applications []models.Application
	if err := dbq.Find(&applications).Error; err != nil {
		c.String(http.StatusInternalServerError, "failed to load applications")
		return
	}

	var demands []models.Demand
	database.DB.Order("project_name asc").Find(&demands)

	render(c, http.StatusOK, "applications_manage.html", gin.H{
		"applications": applications,
		"demands":      demands,
		"FilterStatus": statusFilter,
		"FilterDemand": demandFilter,
		"Search":       search,
	})
}

func (h *ApplicationHandler) Detail(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "application not found")
		return
	}
	application, err := h.Applications.Get(uint(id))
	if err != nil {
		c.String(http.StatusNotFound, "application not found")
		return
	}
	// Visible to the applicant and to reviewers, nobody else.
	if application.UserID != actor.ID && !actor.CanEvaluate() {
		c.String(http.StatusForbidden, "access denied")
		return
	}

	history, err := h.Applications.History(application.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load application")
		return
	}

	render(c, http.StatusOK, "applications_detail.html", gin.H{
		"application": application,
		"history":     history,
	})
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "application not found")
		return
	}

	status := models.ApplicationStatus(c.PostForm("status"))
	remarks := c.PostForm("remarks")

	application, err := h.Applications.UpdateStatus(uint(id), actor, status, remarks)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotAuthorized):
			c.String(http.StatusForbidden, "access denied")
		case errors.Is(err, services.ErrInvalidStatus):
			c.String(http.StatusBadRequest, "unknown application status")
		case errors.Is(err, services.ErrInvalidTransition):
			c.String(http.StatusBadRequest, "that status change is not permitted")
		default:
			c.String(http.StatusNotFound, "application not found")
		}
		return
	}

	database.CreateAuditLog(actor.ID, "application", application.ID, "status_change", string(status))
	c.Redirect(http.StatusFound, fmt.Sprintf("/applications/%d", application.ID))
}

func (h *ApplicationHandler) Export(c *gin.Context) {
	demandID := 0
	if v := c.Query("demand_id"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			demandID = n
		}
	}

	f, err := h.Exporter.ExportApplications(uint(demandID))
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to export applications")
		return
	}

	filename := fmt.Sprintf("applications_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "failed to write spreadsheet")
	}
}
