package server

import (
	"html/template"
	"net/http"

	"skillhive/internal/config"
	"skillhive/internal/database"
	"skillhive/internal/handlers"
	"skillhive/internal/mail"
	"skillhive/internal/middleware"
	"skillhive/internal/models"
	"skillhive/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Static("/static", "./web/static")

	r.SetFuncMap(template.FuncMap{
		"eq": func(a, b interface{}) bool { return a == b },
	})
	r.LoadHTMLGlob("web/templates/*.html")

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("skillhive_session", store))

	r.Use(middleware.InjectUser())

	mailer := mail.NewSMTPSender(cfg.MailHost, cfg.MailPort, cfg.MailUsername, cfg.MailPassword, cfg.MailFrom)

	authSvc := services.NewAuth(database.DB, mailer, cfg.AllowedEmailDomain, cfg.OTPTTL)
	usersSvc := services.NewUsers(database.DB, cfg.SuperAdminEmail)
	demandsSvc := services.NewDemands(database.DB)
	demandsSvc.Mailer = mailer
	resourcesSvc := services.NewResources(database.DB)
	applicationsSvc := services.NewApplications(database.DB)
	applicationsSvc.Mailer = mailer
	importerSvc := services.NewImporter(database.DB)
	exporterSvc := services.NewExporter(database.DB)

	authH := handlers.NewAuthHandler(authSvc)
	demandH := handlers.NewDemandHandler(demandsSvc)
	resourceH := handlers.NewResourceHandler(importerSvc, exporterSvc, resourcesSvc, demandsSvc)
	applicationH := handlers.NewApplicationHandler(applicationsSvc, exporterSvc, demandsSvc)
	adminH := handlers.NewAdminHandler(usersSvc)
	dashH := handlers.NewDashboardHandler()

	// AUTH
	r.GET("/login", authH.ShowLogin)
	r.POST("/login", authH.RequestLogin)
	r.GET("/verify", authH.ShowVerify)
	r.POST("/verify", authH.Verify)
	r.GET("/logout", authH.Logout)

	// LANDING + JSON chart data
	r.GET("/", dashH.Index)
	r.GET("/api/skill-cloud", dashH.APISkillCloud)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/api/stats", dashH.APIStats)

	// DEMANDS
	auth.GET("/demands", demandH.List)
	auth.GET("/demands/new",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO),
		demandH.ShowNew,
	)
	auth.POST("/demands/new",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO),
		demandH.Create,
	)
	auth.GET("/demands/:id", demandH.Detail)
	auth.POST("/demands/:id/edit",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO),
		demandH.Update,
	)
	auth.POST("/demands/:id/status",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO),
		demandH.SetStatus,
	)
	auth.POST("/demands/:id/delete",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO),
		demandH.Delete,
	)

	// RESOURCES
	auth.GET("/demands/:id/resources", resourceH.List)
	auth.GET("/demands/:id/resources/upload",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO),
		resourceH.ShowUpload,
	)
	auth.POST("/demands/:id/resources/upload",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO),
		resourceH.Upload,
	)
	auth.POST("/demands/:id/resources/delete-all",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO),
		resourceH.DeleteAll,
	)
	auth.GET("/demands/:id/resources/export",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO, models.RoleEvaluator),
		resourceH.Export,
	)
	auth.POST("/resources/:id/evaluate",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO, models.RoleEvaluator),
		resourceH.Evaluate,
	)
	auth.POST("/resources/:id/delete",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO),
		resourceH.Delete,
	)

	// APPLICATIONS
	auth.GET("/demands/:id/apply", applicationH.ShowApply)
	auth.POST("/demands/:id/apply", applicationH.Apply)
	auth.GET("/applications/my", applicationH.MyApplications)
	auth.GET("/applications/manage",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO, models.RoleEvaluator),
		applicationH.Manage,
	)
	auth.GET("/applications/export",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO, models.RoleEvaluator),
		applicationH.Export,
	)
	auth.GET("/applications/:id", applicationH.Detail)
	auth.POST("/applications/:id/status",
		middleware.RequireRole(models.RoleAdmin, models.RolePMO, models.RoleEvaluator),
		applicationH.UpdateStatus,
	)

	// ADMIN
	admin := auth.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.GET("", adminH.Dashboard)
	admin.GET("/users", adminH.ListUsers)
	admin.POST("/users/new", adminH.CreateUser)
	admin.POST("/users/:id/approve", adminH.ApproveUser)
	admin.POST("/users/:id/reject", adminH.RejectUser)
	admin.POST("/users/:id/role", adminH.ChangeRole)
	admin.POST("/users/:id/active", adminH.SetActive)
	admin.POST("/users/:id/delete", adminH.DeleteUser)
	admin.GET("/skills", adminH.ListSkills)
	admin.POST("/skills/add", adminH.AddSkill)
	admin.POST("/skills/:id/delete", adminH.DeleteSkill)

	// OPS
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
