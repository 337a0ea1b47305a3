package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"skillhive/internal/database"
	"skillhive/internal/models"
	"skillhive/internal/services"

	"github.com/gin-gonic/gin"
)

type DemandHandler struct {
	Demands *services.Demands
}

func NewDemandHandler(demands *services.Demands) *DemandHandler {
	return &DemandHandler{Demands: demands}
}

func (h *DemandHandler) List(c *gin.Context) {
	statusStr := c.Query("status")
	priorityStr := c.Query("priority")
	search := strings.TrimSpace(c.Query("search"))

	dbq := database.DB.Preload("Skills").Preload("Creator").Order("created_at desc")

	if statusStr != "" {
		dbq = dbq.Where("status = ?", statusStr)
	}
	if priorityStr != "" {
		dbq = dbq.Where("priority = ?", priorityStr)
	}
	if search != "" {
		pattern := "%" + search + "%"
		dbq = dbq.Where(
			"project_name ILIKE ? OR du_name ILIKE ? OR client_name ILIKE ? OR manager_name ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var demands []models.Demand
	if err := dbq.Find(&demands).Error; err != nil {
		c.String(http.StatusInternalServerError, "failed to load demands")
		return
	}

	render(c, http.StatusOK, "demands_list.html", gin.H{
		"demands":        demands,
		"FilterStatus":   statusStr,
		"FilterPriority": priorityStr,
		"Search":         search,
	})
}

func (h *DemandHandler) ShowNew(c *gin.Context) {
	var skills []models.Skill
	database.DB.Order("category asc, name asc").Find(&skills)

	render(c, http.StatusOK, "demands_new.html", gin.H{
		"skills": skills,
		"error":  "",
	})
}

func demandInputFromForm(c *gin.Context) services.DemandInput {
	numPositions, _ := strconv.Atoi(c.PostForm("num_positions"))

	var skillNames []string
	for _, raw := range strings.Split(c.PostForm("skills"), ",") {
		if name := strings.TrimSpace(raw); name != "" {
			skillNames = append(skillNames, name)
		}
	}

	return services.DemandInput{
		RRD:          c.PostForm("rrd"),
		ProjectName:  c.PostForm("project_name"),
		DUName:       c.PostForm("du_name"),
		ClientName:   c.PostForm("client_name"),
		ManagerName:  c.PostForm("manager_name"),
		CareerLevel:  c.PostForm("career_level"),
		NumPositions: numPositions,
		Priority:     models.DemandPriority(c.PostForm("priority")),
		Description:  c.PostForm("description"),
		SkillNames:   skillNames,
	}
}

func (h *DemandHandler) Create(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	demand, err := h.Demands.Create(actor, demandInputFromForm(c))
	if err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			c.String(http.StatusForbidden, "access denied")
			return
		}
		render(c, http.StatusBadRequest, "demands_new.html", gin.H{
			"error": "Could not create the demand. Check the form and try again.",
		})
		return
	}

	database.CreateAuditLog(actor.ID, "demand", demand.ID, "create", demand.ProjectName)
	c.Redirect(http.StatusFound, "/demands/"+strconv.Itoa(int(demand.ID)))
}

func (h *DemandHandler) Detail(c *gin.Context) {
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

	var resourceCount int64
	database.DB.Model(&models.Resource{}).Where("demand_id = ?", demand.ID).Count(&resourceCount)

	render(c, http.StatusOK, "demands_detail.html", gin.H{
		"demand":        demand,
		"resourceCount": resourceCount,
	})
}

func (h *DemandHandler) Update(c *gin.Context) {
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

	if _, err := h.Demands.Update(actor, uint(id), demandInputFromForm(c)); err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			c.String(http.StatusForbidden, "access denied")
			return
		}
		c.String(http.StatusBadRequest, "could not update demand")
		return
	}

	database.CreateAuditLog(actor.ID, "demand", uint(id), "update", "")
	c.Redirect(http.StatusFound, "/demands/"+c.Param("id"))
}

func (h *DemandHandler) SetStatus(c *gin.Context) {
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

	status := models.DemandStatus(c.PostForm("status"))
	if _, err := h.Demands.SetStatus(actor, uint(id), status); err != nil {
		switch {
		case errors.Is(err, services.ErrNotAuthorized):
			c.String(http.StatusForbidden, "access denied")
		case errors.Is(err, services.ErrInvalidStatus):
			c.String(http.StatusBadRequest, "unknown status")
		default:
			c.String(http.StatusNotFound, "demand not found")
		}
		return
	}

	database.CreateAuditLog(actor.ID, "demand", uint(id), "status_change", string(status))
	c.Redirect(http.StatusFound, "/demands/"+c.Param("id"))
}

func (h *DemandHandler) Delete(c *gin.Context) {
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

	if err := h.Demands.Delete(actor, uint(id)); err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			c.String(http.StatusForbidden, "access denied")
			return
		}
		c.String(http.StatusNotFound, "demand not found")
		return
	}

	database.CreateAuditLog(actor.ID, "demand", uint(id), "delete", "")
	c.Redirect(http.StatusFound, "/demands")
}
