// Package report aggregates loaded transactions for the dashboards.
// Everything here is pure: callers load the rows, report sums them.
package report

import (
	"sort"
	"strings"
	"time"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// Uncategorized labels rows whose category is NULL.
const Uncategorized = "Uncategorized"

// CategoryLabel is the display name of e's category, Uncategorized when it has none.
func CategoryLabel(e *models.Expense) string {
	if n := e.CategoryName(); n != "" {
		return n
	}
	return Uncategorized
}

var hundred = decimal.NewFromInt(100)

// Totals is the income/expense split of a set of rows. All is the plain
// sum of every row's amount, i.e. the total of what is displayed.
type Totals struct {
	Count   int
	All     decimal.Decimal
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

func Summarize(rows []models.Expense) Totals {
	t := Totals{All: decimal.Zero, Income: decimal.Zero, Expense: decimal.Zero}
	for i := range rows {
		e := &rows[i]
		t.Count++
		t.All = t.All.Add(e.Amount)
		if e.IsIncome() {
			t.Income = t.Income.Add(e.Amount)
		} else {
			t.Expense = t.Expense.Add(e.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

// CategoryTotal is the expense sum of one category.
type CategoryTotal struct {
	CategoryID *uint
	Name       string
	Total      decimal.Decimal
	Count      int
	Percent    decimal.Decimal
}

// ByCategory groups expense-type rows by category, largest first.
// Category must be preloaded for names; NULL categories share one bucket.
func ByCategory(rows []models.Expense) []CategoryTotal {
	type key struct {
		id   uint
		null bool
	}
	groups := make(map[key]*CategoryTotal)
	total := decimal.Zero

	for i := range rows {
		e := &rows[i]
		if e.IsIncome() {
			continue
		}
		k := key{null: e.CategoryID == nil}
		name := Uncategorized
		if e.CategoryID != nil {
			k.id = *e.CategoryID
			name = CategoryLabel(e)
		}
		ct, ok := groups[k]
		if !ok {
			ct = &CategoryTotal{Name: name, Total: decimal.Zero}
			if !k.null {
				id := k.id
				ct.CategoryID = &id
			}
			groups[k] = ct
		}
		ct.Total = ct.Total.Add(e.Amount)
		ct.Count++
		total = total.Add(e.Amount)
	}

	out := make([]CategoryTotal, 0, len(groups))
	for _, ct := range groups {
		ct.Percent = Percent(ct.Total, total)
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// MonthTotal is one point of the yearly trend.
type MonthTotal struct {
	Month   time.Month
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// ByMonth returns twelve entries for year; rows from other years are ignored.
func ByMonth(rows []models.Expense, year int) []MonthTotal {
	out := make([]MonthTotal, 12)
	for m := range out {
		out[m] = MonthTotal{
			Month:   time.Month(m + 1),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}
	for i := range rows {
		e := &rows[i]
		if e.Date.Year() != year {
			continue
		}
		mt := &out[e.Date.Month()-1]
		if e.IsIncome() {
			mt.Income = mt.Income.Add(e.Amount)
		} else {
			mt.Expense = mt.Expense.Add(e.Amount)
		}
	}
	for m := range out {
		out[m].Balance = out[m].Income.Sub(out[m].Expense)
	}
	return out
}

// BudgetUsage compares a monthly budget with what was spent in that month.
type BudgetUsage struct {
	BudgetID  uint
	Year      int
	Month     int
	Budget    decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	Percent   decimal.Decimal
	Over      bool
}

// Usage sums the expense-type rows of the budget's month against it.
func Usage(b models.MonthlyBudget, rows []models.Expense) BudgetUsage {
	p := Period{Year: b.Year, Month: b.Month}
	spent := decimal.Zero
	for i := range rows {
		e := &rows[i]
		if !e.IsIncome() && p.Contains(e.Date) {
			spent = spent.Add(e.Amount)
		}
	}
	u := UsageOf(b.Amount, spent)
	u.BudgetID = b.ID
	u.Year = b.Year
	u.Month = b.Month
	return u
}

func UsageOf(budget, spent decimal.Decimal) BudgetUsage {
	return BudgetUsage{
		Budget:    budget,
		Spent:     spent,
		Remaining: budget.Sub(spent),
		Percent:   Percent(spent, budget),
		Over:      spent.GreaterThan(budget),
	}
}

// SavingsRate is (income - expense) / income as a percentage; zero without income.
func SavingsRate(income, expense decimal.Decimal) decimal.Decimal {
	return Percent(income.Sub(expense), income)
}

// Percent returns part/whole*100 rounded to one place, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(1)
}

// OwnerTotal is the per-user summary shown to staff.
type OwnerTotal struct {
	UserID   uint
	Username string
	Count    int
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Balance  decimal.Decimal
}

// ByOwner groups rows by owner. User must be preloaded for names.
func ByOwner(rows []models.Expense) []OwnerTotal {
	groups := make(map[uint]*OwnerTotal)
	for i := range rows {
		e := &rows[i]
		ot, ok := groups[e.UserID]
		if !ok {
			ot = &OwnerTotal{UserID: e.UserID, Username: e.User.Username, Income: decimal.Zero, Expense: decimal.Zero}
			groups[e.UserID] = ot
		}
		ot.Count++
		if e.IsIncome() {
			ot.Income = ot.Income.Add(e.Amount)
		} else {
			ot.Expense = ot.Expense.Add(e.Amount)
		}
	}
	out := make([]OwnerTotal, 0, len(groups))
	for _, ot := range groups {
		ot.Balance = ot.Income.Sub(ot.Expense)
		out = append(out, *ot)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Username != out[j].Username {
			return out[i].Username < out[j].Username
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
