package handler

import (
	"net/http"
	"strconv"
	"time"

	"finance-tracker/internal/logger"
	"finance-tracker/internal/models"
	"finance-tracker/internal/report"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardHandler renders the per-user reports.
type DashboardHandler struct {
	DB  *gorm.DB
	Log *logger.Logger
	Now func() time.Time
}

func NewDashboardHandler(db *gorm.DB, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		DB:  db,
		Log: log.WithComponent("dashboard"),
		Now: time.Now,
	}
}

// Dashboard is everything the dashboard page and its JSON twin show.
type Dashboard struct {
	Period      report.Period
	Totals      report.Totals
	ByCategory  []report.CategoryTotal
	Trend       []report.MonthTotal
	Budget      *report.BudgetUsage
	SavingsRate decimal.Decimal
	Recent      []models.Expense
}

// period reads ?year=&month=; the year defaults to the current one and a
// missing month means the whole year. ok is false when either value was
// given but out of range; the defaults are used for it.
func (h *DashboardHandler) period(c *gin.Context) (p report.Period, ok bool) {
	p = report.Period{Year: h.Now().Year()}
	ok = true
	if s := c.Query("year"); s != "" {
		if y, err := strconv.Atoi(s); err == nil && y >= 1900 && y <= 9999 {
			p.Year = y
		} else {
			ok = false
		}
	}
	if s := c.Query("month"); s != "" {
		if m, err := strconv.Atoi(s); err == nil && m >= 0 && m <= 12 {
			p.Month = m
		} else {
			ok = false
		}
	}
	return p, ok
}

func (h *DashboardHandler) build(userID uint, p report.Period) (*Dashboard, error) {
	start, end := report.Period{Year: p.Year}.Range()

	var yearRows []models.Expense
	if err := h.DB.Preload("Category").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date DESC, id DESC").
		Find(&yearRows).Error; err != nil {
		return nil, err
	}

	rows := yearRows
	if p.Month != 0 {
		rows = make([]models.Expense, 0, len(yearRows))
		for _, e := range yearRows {
			if p.Contains(e.Date) {
				rows = append(rows, e)
			}
		}
	}

	totals := report.Summarize(rows)
	d := &Dashboard{
		Period:      p,
		Totals:      totals,
		ByCategory:  report.ByCategory(rows),
		Trend:       report.ByMonth(yearRows, p.Year),
		SavingsRate: report.SavingsRate(totals.Income, totals.Expense),
	}
	if len(rows) > 5 {
		d.Recent = rows[:5]
	} else {
		d.Recent = rows
	}

	budgetMonth := p.Month
	if budgetMonth == 0 && p.Year == h.Now().Year() {
		budgetMonth = int(h.Now().Month())
	}
	if budgetMonth != 0 {
		b, err := budgetFor(h.DB, userID, p.Year, budgetMonth)
		if err != nil {
			return nil, err
		}
		if b != nil {
			u := report.Usage(*b, yearRows)
			d.Budget = &u
		}
	}
	return d, nil
}

func (h *DashboardHandler) Show(c *gin.Context) {
	p, _ := h.period(c)
	d, err := h.build(currentUserID(c), p)
	if err != nil {
		serverError(c, h.Log, "build dashboard", err)
		return
	}

	render(c, http.StatusOK, "dashboard.html", gin.H{
		"title":         "Dashboard",
		"dash":          d,
		"prev":          p.Prev(),
		"next":          p.Next(),
		"trendChart":    report.TrendChart(d.Trend),
		"categoryChart": report.CategoryChart(d.ByCategory),
	})
}

// API returns the dashboard as JSON for scripts and charts.
func (h *DashboardHandler) API(c *gin.Context) {
	p, ok := h.period(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "year must be 1900-9999 and month 0-12")
		return
	}
	d, err := h.build(currentUserID(c), p)
	if err != nil {
		h.Log.Error("build dashboard", "err", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	cats := make([]gin.H, 0, len(d.ByCategory))
	for _, ct := range d.ByCategory {
		cats = append(cats, gin.H{
			"category_id": ct.CategoryID,
			"category":    ct.Name,
			"total":       ct.Total.StringFixed(2),
			"count":       ct.Count,
			"percent":     ct.Percent.StringFixed(1),
		})
	}
	trend := make([]gin.H, 0, len(d.Trend))
	for _, m := range d.Trend {
		trend = append(trend, gin.H{
			"month":   int(m.Month),
			"income":  m.Income.StringFixed(2),
			"expense": m.Expense.StringFixed(2),
			"balance": m.Balance.StringFixed(2),
		})
	}
	var budget gin.H
	if d.Budget != nil {
		budget = gin.H{
			"year":      d.Budget.Year,
			"month":     d.Budget.Month,
			"budget":    d.Budget.Budget.StringFixed(2),
			"spent":     d.Budget.Spent.StringFixed(2),
			"remaining": d.Budget.Remaining.StringFixed(2),
			"percent":   d.Budget.Percent.StringFixed(1),
			"over":      d.Budget.Over,
		}
	}

	util.Success(c, util.Response{
		"year":          p.Year,
		"month":         p.Month,
		"count":         d.Totals.Count,
		"total":         d.Totals.All.StringFixed(2),
		"total_income":  d.Totals.Income.StringFixed(2),
		"total_expense": d.Totals.Expense.StringFixed(2),
		"balance":       d.Totals.Balance.StringFixed(2),
		"savings_rate":  d.SavingsRate.StringFixed(1),
		"by_category":   cats,
		"trend":         trend,
		"budget":        budget,
	})
}
