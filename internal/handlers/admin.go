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

type AdminHandler struct {
	Users *services.Users
}

func NewAdminHandler(users *services.Users) *AdminHandler {
	return &AdminHandler{Users: users}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	userStats := map[string]int64{}
	for _, role := range []models.UserRole{models.RoleAdmin, models.RolePMO, models.RoleEvaluator, models.RoleResource} {
		var n int64
		database.DB.Model(&models.User{}).Where("role = ?", role).Count(&n)
		userStats[string(role)] = n
	}
	var pending int64
	database.DB.Model(&models.User{}).Where("is_approved = ?", false).Count(&pending)

	demandStats := map[string]int64{}
	for _, st := range []models.DemandStatus{models.DemandOpen, models.DemandInProgress, models.DemandFilled, models.DemandCancelled} {
		var n int64
		database.DB.Model(&models.Demand{}).Where("status = ?", st).Count(&n)
		demandStats[string(st)] = n
	}

	evalStats := map[string]int64{}
	for _, st := range models.EvaluationStatuses {
		var n int64
		database.DB.Model(&models.Resource{}).Where("evaluation_status = ?", st).Count(&n)
		evalStats[string(st)] = n
	}

	var recentUsers []models.User
	database.DB.Order("created_at desc").Limit(10).Find(&recentUsers)

	render(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"userStats":    userStats,
		"pendingUsers": pending,
		"demandStats":  demandStats,
		"evalStats":    evalStats,
		"recentUsers":  recentUsers,
	})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	roleFilter := c.Query("role")
	search := strings.TrimSpace(c.Query("search"))

	dbq := database.DB.Order("created_at desc")
	if roleFilter != "" {
		dbq = dbq.Where("role = ?", roleFilter)
	}
	if search != "" {
		pattern := "%" + search + "%"
		dbq = dbq.Where("display_name ILIKE ? OR email ILIKE ? OR enterprise_id ILIKE ?",
			pattern, pattern, pattern)
	}

	var users []models.User
	if err := dbq.Find(&users).Error; err != nil {
		c.String(http.StatusInternalServerError, "failed to load users")
		return
	}

	render(c, http.StatusOK, "admin_users.html", gin.H{
		"users":      users,
		"FilterRole": roleFilter,
		"Search":     search,
	})
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	email := c.PostForm("email")
	displayName := c.PostForm("display_name")
	role := models.UserRole(c.PostForm("role"))
	approved := c.PostForm("approved") == "on"

	user, err := h.Users.Create(actor, email, displayName, role, approved)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotAuthorized):
			c.String(http.StatusForbidden, "access denied")
		case errors.Is(err, services.ErrInvalidStatus):
			c.String(http.StatusBadRequest, "unknown role")
		default:
			c.String(http.StatusBadRequest, "could not create user")
		}
		return
	}

	database.CreateAuditLog(actor.ID, "user", user.ID, "create", user.Email)
	c.Redirect(http.StatusFound, "/admin/users")
}

func (h *AdminHandler) ApproveUser(c *gin.Context) {
	h.mutateUser(c, "approve", func(actor *models.User, id uint) error {
		_, err := h.Users.Approve(actor, id)
		return err
	})
}

func (h *AdminHandler) RejectUser(c *gin.Context) {
	h.mutateUser(c, "reject", func(actor *models.User, id uint) error {
		return h.Users.Reject(actor, id)
	})
}

func (h *AdminHandler) ChangeRole(c *gin.Context) {
	role := models.UserRole(c.PostForm("role"))
	h.mutateUser(c, "role_change:"+string(role), func(actor *models.User, id uint) error {
		_, err := h.Users.ChangeRole(actor, id, role)
		return err
	})
}

func (h *AdminHandler) SetActive(c *gin.Context) {
	active := c.PostForm("active") == "true"
	action := "deactivate"
	if active {
		action = "activate"
	}
	h.mutateUser(c, action, func(actor *models.User, id uint) error {
		_, err := h.Users.SetActive(actor, id, active)
		return err
	})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	h.mutateUser(c, "delete", func(actor *models.User, id uint) error {
		return h.Users.Delete(actor, id)
	})
}

// mutateUser is the shared request plumbing for the one-target admin actions.
// Super-admin protection surfaces as a distinct response so it is never read
// as a validation problem.
func (h *AdminHandler) mutateUser(c *gin.Context, action string, fn func(actor *models.User, id uint) error) {
	actor, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "user not found")
		return
	}

	if err := fn(actor, uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrSuperAdminProtected):
			c.String(http.StatusForbidden, "the super admin account cannot be modified")
		case errors.Is(err, services.ErrNotAuthorized):
			c.String(http.StatusForbidden, "access denied")
		case errors.Is(err, services.ErrInvalidStatus):
			c.String(http.StatusBadRequest, "unknown role")
		default:
			c.String(http.StatusNotFound, "user not found")
		}
		return
	}

	database.CreateAuditLog(actor.ID, "user", uint(id), action, "")
	c.Redirect(http.StatusFound, "/admin/users")
}

func (h *AdminHandler) ListSkills(c *gin.Context) {
	var skills []models.Skill
	database.DB.Order("category asc, name asc").Find(&skills)
	render(c, http.StatusOK, "admin_skills.html", gin.H{"skills": skills})
}

func (h *AdminHandler) AddSkill(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	category := strings.TrimSpace(c.PostForm("category"))
	if name == "" {
		c.String(http.StatusBadRequest, "skill name is required")
		return
	}
	if category == "" {
		category = "Other"
	}

	var existing models.Skill
	if err := database.DB.Where("lower(name) = lower(?)", name).First(&existing).Error; err == nil {
		c.Redirect(http.StatusFound, "/admin/skills")
		return
	}

	skill := models.Skill{Name: name, Category: category}
	if err := database.DB.Create(&skill).Error; err != nil {
		c.String(http.StatusInternalServerError, "failed to add skill")
		return
	}

	database.CreateAuditLog(actor.ID, "skill", skill.ID, "create", name)
	c.Redirect(http.StatusFound, "/admin/skills")
}

func (h *AdminHandler) DeleteSkill(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "skill not found")
		return
	}

	if err := database.DB.Unscoped().Delete(&models.Skill{}, id).Error; err != nil {
		c.String(http.StatusInternalServerError, "failed to delete skill")
		return
	}

	database.CreateAuditLog(actor.ID, "skill", uint(id), "delete", "")
	c.Redirect(http.StatusFound, "/admin/skills")
}
