package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"finance-tracker/internal/logger"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/models"
	"finance-tracker/internal/report"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExpenseHandler serves the transaction list and the add/edit/delete forms.
type ExpenseHandler struct {
	DB  *gorm.DB
	Log *logger.Logger
	Now func() time.Time
}

func NewExpenseHandler(db *gorm.DB, log *logger.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		DB:  db,
		Log: log.WithComponent("expense"),
		Now: time.Now,
	}
}

// listFilter is the parsed query string of the transaction list.
type listFilter struct {
	Year     int
	Month    int
	Type     string
	Category string // "", "none" or a category id
}

func parseListFilter(c *gin.Context) listFilter {
	var f listFilter
	if y, err := strconv.Atoi(c.Query("year")); err == nil && y >= 1900 && y <= 9999 {
		f.Year = y
	}
	if m, err := strconv.Atoi(c.Query("month")); err == nil && m >= 1 && m <= 12 && f.Year != 0 {
		f.Month = m
	}
	if t := c.Query("type"); t == models.TypeExpense || t == models.TypeIncome {
		f.Type = t
	}
	if cat := c.Query("category"); cat == "none" {
		f.Category = cat
	} else if id, err := strconv.ParseUint(cat, 10, 64); err == nil && id > 0 {
		f.Category = cat
	}
	return f
}

func (f listFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Year != 0 {
		start, end := report.Period{Year: f.Year, Month: f.Month}.Range()
		q = q.Where("date >= ? AND date < ?", start, end)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	switch f.Category {
	case "":
	case "none":
		q = q.Where("category_id IS NULL")
	default:
		id, _ := strconv.ParseUint(f.Category, 10, 64)
		q = q.Where("category_id = ?", id)
	}
	return q
}

func (h *ExpenseHandler) userCategories(userID uint) ([]models.Category, error) {
	var cats []models.Category
	err := h.DB.Where("user_id = ?", userID).Order("name ASC").Find(&cats).Error
	return cats, err
}

// ownedExpense loads an expense only if it belongs to userID.
func (h *ExpenseHandler) ownedExpense(c *gin.Context, userID uint) (*models.Expense, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var e models.Expense
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// Index lists the current user's transactions; the total is the sum of the listed rows.
func (h *ExpenseHandler) Index(c *gin.Context) {
	userID := currentUserID(c)
	filter := parseListFilter(c)

	var expenses []models.Expense
	q := filter.apply(h.DB.Where("user_id = ?", userID))
	if err := q.Preload("Category").
		Order("date DESC, id DESC").
		Find(&expenses).Error; err != nil {
		serverError(c, h.Log, "list expenses", err)
		return
	}

	cats, err := h.userCategories(userID)
	if err != nil {
		serverError(c, h.Log, "list categories", err)
		return
	}

	render(c, http.StatusOK, "index.html", gin.H{
		"title":      "Transactions",
		"expenses":   expenses,
		"totals":     report.Summarize(expenses),
		"filter":     filter,
		"categories": cats,
		"thisYear":   h.Now().Year(),
	})
}

// Detail shows one expense to its owner, or to staff.
func (h *ExpenseHandler) Detail(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		NotFound(c)
		return
	}

	q := h.DB.Preload("Category").Preload("User").Where("id = ?", id)
	if !user.IsStaff {
		q = q.Where("user_id = ?", user.ID)
	}
	var e models.Expense
	if err := q.First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c)
			return
		}
		serverError(c, h.Log, "load expense", err)
		return
	}

	render(c, http.StatusOK, "expense_detail.html", gin.H{
		"title":   e.Title,
		"expense": e,
		"isOwner": e.UserID == user.ID,
	})
}

func (h *ExpenseHandler) renderForm(c *gin.Context, status int, form expenseForm, errs FormErrors, editing *models.Expense) {
	cats, err := h.userCategories(currentUserID(c))
	if err != nil {
		serverError(c, h.Log, "list categories", err)
		return
	}
	title := "Add transaction"
	action := "/add/"
	if editing != nil {
		title = "Edit transaction"
		action = "/edit/" + strconv.FormatUint(uint64(editing.ID), 10) + "/"
	}
	render(c, status, "expense_form.html", gin.H{
		"title":      title,
		"action":     action,
		"form":       form,
		"errors":     errs,
		"categories": cats,
		"today":      h.Now().Format("2006-01-02"),
	})
}

// bindExpense binds and validates the posted form, including category ownership.
func (h *ExpenseHandler) bindExpense(c *gin.Context, userID uint) (expenseForm, expenseInput, FormErrors, error) {
	var form expenseForm
	if err := c.ShouldBind(&form); err != nil {
		errs := FormErrors{"": "could not read the submitted form"}
		return form, expenseInput{}, errs, nil
	}
	in, errs := form.validate(h.Now())
	if in.CategoryID != nil {
		var n int64
		if err := h.DB.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *in.CategoryID, userID).
			Count(&n).Error; err != nil {
			return form, in, errs, err
		}
		if n == 0 {
			errs.Add("category_id", errCategoryChoice)
		}
	}
	return form, in, errs, nil
}

func (h *ExpenseHandler) AddForm(c *gin.Context) {
	form := expenseForm{
		Type: models.TypeExpense,
		Date: h.Now().Format("2006-01-02"),
	}
	if t := c.Query("type"); t == models.TypeIncome {
		form.Type = t
	}
	h.renderForm(c, http.StatusOK, form, FormErrors{}, nil)
}

// Add creates a transaction; invalid input re-renders the form and writes nothing.
func (h *ExpenseHandler) Add(c *gin.Context) {
	userID := currentUserID(c)
	form, in, errs, err := h.bindExpense(c, userID)
	if err != nil {
		serverError(c, h.Log, "check category", err)
		return
	}
	if errs.Any() {
		h.renderForm(c, http.StatusOK, form, errs, nil)
		return
	}

	e := models.Expense{
		UserID:      userID,
		Title:       in.Title,
		Amount:      in.Amount,
		Date:        in.Date,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		Type:        in.Type,
	}
	if err := h.DB.Omit(clause.Associations).Create(&e).Error; err != nil {
		serverError(c, h.Log, "create expense", err)
		return
	}
	h.Log.Info("expense created", "user_id", userID, "expense_id", e.ID, "type", e.Type)
	c.Redirect(http.StatusFound, "/")
}

func (h *ExpenseHandler) EditForm(c *gin.Context) {
	e, err := h.ownedExpense(c, currentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c)
			return
		}
		serverError(c, h.Log, "load expense", err)
		return
	}
	h.renderForm(c, http.StatusOK, expenseFormFrom(e), FormErrors{}, e)
}

// Edit updates a transaction owned by the current user.
func (h *ExpenseHandler) Edit(c *gin.Context) {
	userID := currentUserID(c)
	e, err := h.ownedExpense(c, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c)
			return
		}
		serverError(c, h.Log, "load expense", err)
		return
	}

	form, in, errs, err := h.bindExpense(c, userID)
	if err != nil {
		serverError(c, h.Log, "check category", err)
		return
	}
	if errs.Any() {
		h.renderForm(c, http.StatusOK, form, errs, e)
		return
	}

	e.Title = in.Title
	e.Amount = in.Amount
	e.Date = in.Date
	e.CategoryID = in.CategoryID
	e.Description = in.Description
	e.Type = in.Type
	if err := h.DB.Omit(clause.Associations).Save(e).Error; err != nil {
		serverError(c, h.Log, "update expense", err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *ExpenseHandler) DeleteConfirm(c *gin.Context) {
	e, err := h.ownedExpense(c, currentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c)
			return
		}
		serverError(c, h.Log, "load expense", err)
		return
	}
	render(c, http.StatusOK, "expense_confirm_delete.html", gin.H{
		"title":   "Delete transaction",
		"expense": e,
	})
}

// Delete removes a transaction owned by the current user.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := currentUserID(c)
	e, err := h.ownedExpense(c, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c)
			return
		}
		serverError(c, h.Log, "load expense", err)
		return
	}
	if err := h.DB.Delete(e).Error; err != nil {
		serverError(c, h.Log, "delete expense", err)
		return
	}
	h.Log.Info("expense deleted", "user_id", userID, "expense_id", e.ID)
	c.Redirect(http.StatusFound, "/")
}
