package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"finance-tracker/internal/logger"
	"finance-tracker/internal/models"
	"finance-tracker/internal/report"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BudgetHandler manages monthly budgets.
type BudgetHandler struct {
	DB  *gorm.DB
	Log *logger.Logger
	Now func() time.Time
}

func NewBudgetHandler(db *gorm.DB, log *logger.Logger) *BudgetHandler {
	return &BudgetHandler{
		DB:  db,
		Log: log.WithComponent("budget"),
		Now: time.Now,
	}
}

// usages pairs every budget with what was spent in its month.
func (h *BudgetHandler) usages(userID uint, budgets []models.MonthlyBudget) ([]report.BudgetUsage, error) {
	out := make([]report.BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		start := b.Period()
		end := start.AddDate(0, 1, 0)
		var rows []models.Expense
		if err := h.DB.Where("user_id = ? AND type = ? AND date >= ? AND date < ?",
			userID, models.TypeExpense, start, end).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		out = append(out, report.Usage(b, rows))
	}
	return out, nil
}

func (h *BudgetHandler) renderList(c *gin.Context, form budgetForm, errs FormErrors) {
	userID := currentUserID(c)

	var budgets []models.MonthlyBudget
	if err := h.DB.Where("user_id = ?", userID).
		Order("year DESC, month DESC").
		Find(&budgets).Error; err != nil {
		serverError(c, h.Log, "list budgets", err)
		return
	}
	usages, err := h.usages(userID, budgets)
	if err != nil {
		serverError(c, h.Log, "budget usage", err)
		return
	}

	render(c, http.StatusOK, "budget.html", gin.H{
		"title":   "Monthly budgets",
		"budgets": usages,
		"form":    form,
		"errors":  errs,
	})
}

func (h *BudgetHandler) List(c *gin.Context) {
	now := h.Now()
	h.renderList(c, budgetForm{
		Year:  strconv.Itoa(now.Year()),
		Month: strconv.Itoa(int(now.Month())),
	}, FormErrors{})
}

// Set creates or overwrites the budget for (year, month).
func (h *BudgetHandler) Set(c *gin.Context) {
	var form budgetForm
	_ = c.ShouldBind(&form)
	in, errs := form.validate()
	if errs.Any() {
		h.renderList(c, form, errs)
		return
	}

	b := models.MonthlyBudget{
		UserID: currentUserID(c),
		Year:   in.Year,
		Month:  in.Month,
		Amount: in.Amount,
	}
	if err := h.DB.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&b).Error; err != nil {
		serverError(c, h.Log, "save budget", err)
		return
	}
	c.Redirect(http.StatusFound, "/budget/")
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		NotFound(c)
		return
	}
	res := h.DB.Where("id = ? AND user_id = ?", id, currentUserID(c)).Delete(&models.MonthlyBudget{})
	if res.Error != nil {
		serverError(c, h.Log, "delete budget", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		NotFound(c)
		return
	}
	c.Redirect(http.StatusFound, "/budget/")
}

// budgetFor returns the user's budget for one month, or nil.
func budgetFor(db *gorm.DB, userID uint, year, month int) (*models.MonthlyBudget, error) {
	var b models.MonthlyBudget
	err := db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
