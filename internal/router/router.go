package router

import (
	"fmt"
	"net/http"

	"finance-tracker/internal/config"
	"finance-tracker/internal/handler"
	"finance-tracker/internal/logger"
	"finance-tracker/internal/middleware"
	"finance-tracker/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine, templates, static resources and routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log.WithComponent("http")))

	// templates and static files are embedded in the binary
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(web.Static()))

	r.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, db),
		middleware.CSRF(middleware.CSRFKey(cfg.JWT.Secret), cfg.Server.SecureCookies, handler.Forbidden),
		middleware.AuditMiddleware(db, log.WithComponent("audit")),
	)
	r.NoRoute(handler.NotFound)

	authHandler := handler.NewAuthHandler(db, log, cfg.JWT.Secret, cfg.JWT.Issuer,
		cfg.JWT.ExpireHours, cfg.Security.BcryptCost, cfg.Server.SecureCookies)
	expenseHandler := handler.NewExpenseHandler(db, log)
	categoryHandler := handler.NewCategoryHandler(db, log)
	budgetHandler := handler.NewBudgetHandler(db, log)
	dashboardHandler := handler.NewDashboardHandler(db, log)
	exportHandler := handler.NewExportHandler(db, log)
	adminHandler := handler.NewAdminHandler(db, log, cfg.App)

	// public pages
	r.GET("/login/", authHandler.LoginPage)
	r.POST("/login/", authHandler.Login)
	r.GET("/register/", authHandler.RegisterPage)
	r.POST("/register/", authHandler.Register)

	// pages that need a login
	protected := r.Group("/")
	protected.Use(middleware.LoginRequired())
	{
		protected.POST("/logout/", authHandler.Logout)

		protected.GET("/", expenseHandler.Index)
		protected.GET("/add/", expenseHandler.AddForm)
		protected.POST("/add/", expenseHandler.Add)
		protected.GET("/edit/:id/", expenseHandler.EditForm)
		protected.POST("/edit/:id/", expenseHandler.Edit)
		protected.GET("/delete/:id/", expenseHandler.DeleteConfirm)
		protected.POST("/delete/:id/", expenseHandler.Delete)
		protected.GET("/expense/:id/", expenseHandler.Detail)

		protected.GET("/category/", categoryHandler.List)
		protected.GET("/category/add/", categoryHandler.AddForm)
		protected.POST("/category/add/", categoryHandler.Add)
		protected.GET("/category/edit/:id/", categoryHandler.EditForm)
		protected.POST("/category/edit/:id/", categoryHandler.Edit)
		protected.POST("/category/delete/:id/", categoryHandler.Delete)

		protected.GET("/budget/", budgetHandler.List)
		protected.POST("/budget/", budgetHandler.Set)
		protected.POST("/budget/delete/:id/", budgetHandler.Delete)

		protected.GET("/dashboard/", dashboardHandler.Show)

		protected.GET("/export/csv/", exportHandler.ExportCSV)
		protected.GET("/export/xlsx/", exportHandler.ExportXLSX)

		protected.GET("/account/", handler.AccountPage)
		protected.POST("/account/profile/", handler.UpdateProfile(db, log))
		protected.POST("/account/password/", handler.ChangePassword(db, log, cfg.Security.BcryptCost))
		protected.POST("/account/delete/", handler.DeleteAccount(db, log, cfg.Server.SecureCookies))
	}

	// the old admin URL redirects everybody; the dashboard checks access itself
	r.GET("/admin/", handler.RedirectLegacyAdmin)

	// read-only staff area
	staff := r.Group("/")
	staff.Use(middleware.LoginRequired(), middleware.StaffRequired(handler.Forbidden))
	{
		staff.GET("/admin-dashboard/", adminHandler.Dashboard)
	}

	// JSON API
	api := r.Group("/api")
	api.Use(middleware.APILoginRequired())
	{
		api.GET("/me", handler.GetMe)
		api.GET("/dashboard", dashboardHandler.API)
		api.GET("/admin/summary", middleware.APIStaffRequired(), adminHandler.Summary)
	}

	return r, nil
}
