package handler

import (
	"math"
	"net/http"
	"strconv"

	"finance-tracker/internal/config"
	"finance-tracker/internal/logger"
	"finance-tracker/internal/models"
	"finance-tracker/internal/report"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler is the read-only staff view over every user's data.
type AdminHandler struct {
	DB       *gorm.DB
	Log      *logger.Logger
	PageSize int
}

func NewAdminHandler(db *gorm.DB, log *logger.Logger, cfg config.AppSubConfig) *AdminHandler {
	return &AdminHandler{
		DB:       db,
		Log:      log.WithComponent("admin"),
		PageSize: cfg.PageSize,
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	size := h.PageSize
	if size <= 0 {
		size = 25
	}
	page, offset := util.Page(c, size)

	var filterUser uint
	if id, err := strconv.ParseUint(c.Query("user"), 10, 64); err == nil {
		filterUser = uint(id)
	}

	var users []models.User
	if err := h.DB.Order("username ASC").Find(&users).Error; err != nil {
		serverError(c, h.Log, "list users", err)
		return
	}

	// totals and per-user summaries cover every row
	var all []models.Expense
	if err := h.DB.Preload("User").Find(&all).Error; err != nil {
		serverError(c, h.Log, "load expenses", err)
		return
	}

	list := h.DB.Model(&models.Expense{})
	if filterUser != 0 {
		list = list.Where("user_id = ?", filterUser)
	}
	var total int64
	if err := list.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		serverError(c, h.Log, "count expenses", err)
		return
	}
	var expenses []models.Expense
	if err := list.Session(&gorm.Session{}).
		Preload("User").
		Preload("Category").
		Order("date DESC, id DESC").
		Limit(size).
		Offset(offset).
		Find(&expenses).Error; err != nil {
		serverError(c, h.Log, "list expenses", err)
		return
	}

	var logs []models.AuditLog
	if err := h.DB.Preload("User").
		Order("created_at DESC, id DESC").
		Limit(20).
		Find(&logs).Error; err != nil {
		serverError(c, h.Log, "list audit log", err)
		return
	}

	pages := int(math.Ceil(float64(total) / float64(size)))
	if pages == 0 {
		pages = 1
	}

	render(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"title":      "Admin dashboard",
		"users":      users,
		"userCount":  len(users),
		"totals":     report.Summarize(all),
		"owners":     report.ByOwner(all),
		"expenses":   expenses,
		"total":      total,
		"page":       page,
		"pages":      pages,
		"hasPrev":    page > 1,
		"hasNext":    page < pages,
		"prevPage":   page - 1,
		"nextPage":   page + 1,
		"filterUser": filterUser,
		"logs":       logs,
	})
}

// Summary is the JSON view of the staff totals.
func (h *AdminHandler) Summary(c *gin.Context) {
	var userCount int64
	if err := h.DB.Model(&models.User{}).Count(&userCount).Error; err != nil {
		h.Log.Error("count users", "err", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}
	var all []models.Expense
	if err := h.DB.Preload("User").Find(&all).Error; err != nil {
		h.Log.Error("load expenses", "err", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	totals := report.Summarize(all)
	owners := make([]gin.H, 0)
	for _, ot := range report.ByOwner(all) {
		owners = append(owners, gin.H{
			"user_id":  ot.UserID,
			"username": ot.Username,
			"count":    ot.Count,
			"income":   ot.Income.StringFixed(2),
			"expense":  ot.Expense.StringFixed(2),
			"balance":  ot.Balance.StringFixed(2),
		})
	}
	util.Success(c, util.Response{
		"users":         userCount,
		"transactions":  totals.Count,
		"total_income":  totals.Income.StringFixed(2),
		"total_expense": totals.Expense.StringFixed(2),
		"balance":       totals.Balance.StringFixed(2),
		"owners":        owners,
	})
}

// RedirectLegacyAdmin sends /admin/ to the real staff dashboard.
func RedirectLegacyAdmin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/admin-dashboard/")
}
