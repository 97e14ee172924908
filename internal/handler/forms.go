package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/util"

	"github.com/shopspring/decimal"
)

// FormErrors maps a field name to its inline message; "" is the form-wide slot.
type FormErrors map[string]string

func (fe FormErrors) Add(field string, err error) {
	if err == nil {
		return
	}
	if _, exists := fe[field]; !exists {
		fe[field] = err.Error()
	}
}

func (fe FormErrors) Any() bool {
	return len(fe) > 0
}

// ---------- expense ----------

type expenseForm struct {
	Title       string `form:"title"`
	Amount      string `form:"amount"`
	Date        string `form:"date"`
	CategoryID  string `form:"category_id"`
	Description string `form:"description"`
	Type        string `form:"type"`
}

type expenseInput struct {
	Title       string
	Amount      decimal.Decimal
	Date        time.Time
	CategoryID  *uint
	Description string
	Type        string
}

var errCategoryChoice = errors.New("select a valid category")

func (f *expenseForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	if f.Type == "" {
		f.Type = models.TypeExpense
	}
}

// validate checks everything that does not need the database.
func (f *expenseForm) validate(today time.Time) (expenseInput, FormErrors) {
	f.normalize()
	errs := FormErrors{}
	in := expenseInput{
		Title:       f.Title,
		Description: f.Description,
		Type:        f.Type,
	}

	errs.Add("title", util.ValidateName("title", f.Title, 200))

	amount, err := util.ParseAmount(f.Amount)
	errs.Add("amount", err)
	in.Amount = amount

	date, err := util.ParseDate(f.Date, today)
	errs.Add("date", err)
	in.Date = date

	if f.Type != models.TypeExpense && f.Type != models.TypeIncome {
		errs.Add("type", errors.New("type must be expense or income"))
	}

	if f.CategoryID != "" {
		id, err := strconv.ParseUint(f.CategoryID, 10, 64)
		if err != nil || id == 0 {
			errs.Add("category_id", errCategoryChoice)
		} else {
			cid := uint(id)
			in.CategoryID = &cid
		}
	}

	if len(f.Description) > 2000 {
		errs.Add("description", errors.New("description must be at most 2000 characters"))
	}
	return in, errs
}

func expenseFormFrom(e *models.Expense) expenseForm {
	f := expenseForm{
		Title:       e.Title,
		Amount:      e.Amount.StringFixed(2),
		Date:        e.Date.Format(util.DateLayout),
		Description: e.Description,
		Type:        e.Type,
	}
	if e.CategoryID != nil {
		f.CategoryID = strconv.FormatUint(uint64(*e.CategoryID), 10)
	}
	return f
}

// ---------- category ----------

type categoryForm struct {
	Name string `form:"name"`
}

func (f *categoryForm) validate() FormErrors {
	f.Name = strings.TrimSpace(f.Name)
	errs := FormErrors{}
	errs.Add("name", util.ValidateName("name", f.Name, 100))
	return errs
}

// ---------- budget ----------

type budgetForm struct {
	Year   string `form:"year"`
	Month  string `form:"month"`
	Amount string `form:"amount"`
}

type budgetInput struct {
	Year   int
	Month  int
	Amount decimal.Decimal
}

func (f *budgetForm) validate() (budgetInput, FormErrors) {
	errs := FormErrors{}
	var in budgetInput

	year, err := strconv.Atoi(strings.TrimSpace(f.Year))
	if err != nil || year < 1900 || year > 9999 {
		errs.Add("year", errors.New("enter a year between 1900 and 9999"))
	}
	month, err := strconv.Atoi(strings.TrimSpace(f.Month))
	if err != nil || month < 1 || month > 12 {
		errs.Add("month", errors.New("select a month"))
	}
	amount, err := util.ParseBudgetAmount(f.Amount)
	errs.Add("amount", err)

	in.Year, in.Month, in.Amount = year, month, amount
	return in, errs
}
