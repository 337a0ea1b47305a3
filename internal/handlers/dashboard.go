package handlers

import (
	"net/http"

	"skillhive/internal/database"
	"skillhive/internal/models"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Index serves the landing page or, for a signed-in user, the dashboard.
func (h *DashboardHandler) Index(c *gin.Context) {
	if _, ok := currentUser(c); ok {
		render(c, http.StatusOK, "dashboard.html", gin.H{})
		return
	}

	var openDemands, totalSkills, filled int64
	database.DB.Model(&models.Demand{}).Where("status = ?", models.DemandOpen).Count(&openDemands)
	database.DB.Model(&models.Skill{}).Count(&totalSkills)
	database.DB.Model(&models.Demand{}).Where("status = ?", models.DemandFilled).Count(&filled)

	render(c, http.StatusOK, "index.html", gin.H{
		"openDemands": openDemands,
		"totalSkills": totalSkills,
		"filled":      filled,
	})
}

type statusCount struct {
	Key string `json:"key"`
	N   int64  `json:"count"`
}

func groupCounts(model interface{}, column string) []statusCount {
	var rows []struct {
		Key string
		N   int64
	}
	database.DB.Model(model).
		Select(column + " as key, count(*) as n").
		Group(column).
		Scan(&rows)

	out := make([]statusCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, statusCount{Key: r.Key, N: r.N})
	}
	return out
}

// APIStats feeds the dashboard charts.
func (h *DashboardHandler) APIStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status_distribution":       groupCounts(&models.Demand{}, "status"),
		"priority_distribution":     groupCounts(&models.Demand{}, "priority"),
		"career_level_distribution": groupCounts(&models.Demand{}, "career_level"),
		"evaluation_distribution":   groupCounts(&models.Resource{}, "evaluation_status"),
	})
}

// APISkillCloud returns the most-demanded skills for the trending cloud.
func (h *DashboardHandler) APISkillCloud(c *gin.Context) {
	var rows []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		N        int64  `json:"count"`
	}
	database.DB.Table("skills").
		Select("skills.name, skills.category, count(demand_skills.demand_id) as n").
		Joins("left join demand_skills on demand_skills.skill_id = skills.id").
		Group("skills.id, skills.name, skills.category").
		Order("n desc").
		Limit(30).
		Scan(&rows)

	c.JSON(http.StatusOK, rows)
}
