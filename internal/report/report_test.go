package report

import (
	"testing"
	"time"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y, m, dd int) time.Time { return time.Date(y, time.Month(m), dd, 0, 0, 0, 0, time.UTC) }

func uintPtr(v uint) *uint { return &v }

func fixture() []models.Expense {
	food := &models.Category{ID: 1, Name: "Food"}
	rent := &models.Category{ID: 2, Name: "Rent"}
	return []models.Expense{
		{ID: 1, UserID: 1, Amount: d("12.50"), Date: day(2024, 1, 3), CategoryID: uintPtr(1), Category: food, Type: models.TypeExpense},
		{ID: 2, UserID: 1, Amount: d("7.25"), Date: day(2024, 1, 9), CategoryID: uintPtr(1), Category: food, Type: models.TypeExpense},
		{ID: 3, UserID: 1, Amount: d("800"), Date: day(2024, 1, 1), CategoryID: uintPtr(2), Category: rent, Type: models.TypeExpense},
		{ID: 4, UserID: 1, Amount: d("3000"), Date: day(2024, 1, 28), Type: models.TypeIncome},
		{ID: 5, UserID: 1, Amount: d("40"), Date: day(2024, 2, 14), Type: models.TypeExpense},
		{ID: 6, UserID: 1, Amount: d("99.99"), Date: day(2023, 12, 31), CategoryID: uintPtr(1), Category: food, Type: models.TypeExpense},
	}
}

func TestSummarize(t *testing.T) {
	rows := fixture()
	tot := Summarize(rows)

	assert.Equal(t, 6, tot.Count)
	assert.Equal(t, "3000.00", tot.Income.StringFixed(2))
	assert.Equal(t, "959.74", tot.Expense.StringFixed(2))
	assert.Equal(t, "2040.26", tot.Balance.StringFixed(2))

	// the displayed total is exactly the sum of the displayed rows
	sum := decimal.Zero
	for _, e := range rows {
		sum = sum.Add(e.Amount)
	}
	assert.True(t, sum.Equal(tot.All), "All=%s sum=%s", tot.All, sum)
	assert.True(t, tot.Income.Add(tot.Expense).Equal(tot.All))
}

func TestSummarize_Empty(t *testing.T) {
	tot := Summarize(nil)
	assert.Zero(t, tot.Count)
	assert.True(t, tot.All.IsZero())
	assert.True(t, tot.Balance.IsZero())
}

func TestByCategory(t *testing.T) {
	cats := ByCategory(fixture())
	require.Len(t, cats, 3)

	assert.Equal(t, "Rent", cats[0].Name)
	assert.Equal(t, "800.00", cats[0].Total.StringFixed(2))
	assert.Equal(t, "Food", cats[1].Name)
	assert.Equal(t, "119.74", cats[1].Total.StringFixed(2))
	assert.Equal(t, 3, cats[1].Count)
	assert.Equal(t, Uncategorized, cats[2].Name)
	assert.Nil(t, cats[2].CategoryID)

	// category totals add up to the expense total and income is excluded
	sum := decimal.Zero
	for _, c := range cats {
		sum = sum.Add(c.Total)
	}
	assert.True(t, sum.Equal(Summarize(fixture()).Expense))
	assert.Equal(t, "83.4", cats[0].Percent.String())
}

func TestCategoryLabel(t *testing.T) {
	rows := fixture()
	assert.Equal(t, "Food", CategoryLabel(&rows[0]))
	assert.Equal(t, Uncategorized, CategoryLabel(&rows[4]))

	// category id set but association not loaded
	bare := models.Expense{CategoryID: uintPtr(9)}
	assert.Equal(t, Uncategorized, CategoryLabel(&bare))
}

func TestByCategory_TieBreakByName(t *testing.T) {
	rows := []models.Expense{
		{Amount: d("5"), CategoryID: uintPtr(2), Category: &models.Category{ID: 2, Name: "beta"}, Type: models.TypeExpense},
		{Amount: d("5"), CategoryID: uintPtr(1), Category: &models.Category{ID: 1, Name: "Alpha"}, Type: models.TypeExpense},
	}
	cats := ByCategory(rows)
	require.Len(t, cats, 2)
	assert.Equal(t, "Alpha", cats[0].Name)
	assert.Equal(t, "50", cats[0].Percent.String())
}

func TestByMonth(t *testing.T) {
	months := ByMonth(fixture(), 2024)
	require.Len(t, months, 12)

	assert.Equal(t, time.January, months[0].Month)
	assert.Equal(t, "3000.00", months[0].Income.StringFixed(2))
	assert.Equal(t, "819.75", months[0].Expense.StringFixed(2))
	assert.Equal(t, "2180.25", months[0].Balance.StringFixed(2))
	assert.Equal(t, "40.00", months[1].Expense.StringFixed(2))
	assert.True(t, months[11].Expense.IsZero(), "2023 row must not leak into December 2024")
}

func TestUsage(t *testing.T) {
	b := models.MonthlyBudget{ID: 9, Year: 2024, Month: 1, Amount: d("1000")}
	u := Usage(b, fixture())

	assert.Equal(t, uint(9), u.BudgetID)
	assert.Equal(t, "819.75", u.Spent.StringFixed(2))
	assert.Equal(t, "180.25", u.Remaining.StringFixed(2))
	assert.Equal(t, "82", u.Percent.String())
	assert.False(t, u.Over)

	over := UsageOf(d("100"), d("150"))
	assert.True(t, over.Over)
	assert.Equal(t, "-50", over.Remaining.String())
	assert.Equal(t, "150", over.Percent.String())

	zero := UsageOf(decimal.Zero, d("10"))
	assert.True(t, zero.Percent.IsZero())
	assert.True(t, zero.Over)
}

func TestSavingsRate(t *testing.T) {
	assert.Equal(t, "25", SavingsRate(d("4000"), d("3000")).String())
	assert.Equal(t, "-50", SavingsRate(d("100"), d("150")).String())
	assert.True(t, SavingsRate(decimal.Zero, d("10")).IsZero())
	assert.Equal(t, "33.3", SavingsRate(d("3"), d("2")).String())
}

func TestByOwner(t *testing.T) {
	rows := []models.Expense{
		{UserID: 2, User: models.User{ID: 2, Username: "zed"}, Amount: d("10"), Type: models.TypeExpense},
		{UserID: 1, User: models.User{ID: 1, Username: "amy"}, Amount: d("100"), Type: models.TypeIncome},
		{UserID: 1, User: models.User{ID: 1, Username: "amy"}, Amount: d("30"), Type: models.TypeExpense},
	}
	owners := ByOwner(rows)
	require.Len(t, owners, 2)
	assert.Equal(t, "amy", owners[0].Username)
	assert.Equal(t, 2, owners[0].Count)
	assert.Equal(t, "70", owners[0].Balance.String())
	assert.Equal(t, "zed", owners[1].Username)
}

func TestPeriod(t *testing.T) {
	start, end := Period{Year: 2024, Month: 12}.Range()
	assert.Equal(t, day(2024, 12, 1), start)
	assert.Equal(t, day(2025, 1, 1), end)

	start, end = Period{Year: 2024}.Range()
	assert.Equal(t, day(2024, 1, 1), start)
	assert.Equal(t, day(2025, 1, 1), end)

	assert.Equal(t, Period{Year: 2023, Month: 12}, Period{Year: 2024, Month: 1}.Prev())
	assert.Equal(t, Period{Year: 2025, Month: 1}, Period{Year: 2024, Month: 12}.Next())
	assert.Equal(t, Period{Year: 2023}, Period{Year: 2024}.Prev())

	assert.True(t, Period{Year: 2024}.Contains(day(2024, 7, 4)))
	assert.False(t, Period{Year: 2024, Month: 6}.Contains(day(2024, 7, 4)))
	assert.Equal(t, "March 2024", Period{Year: 2024, Month: 3}.String())
}

func TestCharts(t *testing.T) {
	trend := TrendChart(ByMonth(fixture(), 2024))
	assert.Len(t, trend.Labels, 12)
	assert.Equal(t, "Jan", trend.Labels[0])
	assert.InDelta(t, 3000.0, trend.Income[0], 1e-9)

	cats := CategoryChart(ByCategory(fixture()))
	assert.Equal(t, []string{"Rent", "Food", Uncategorized}, cats.Labels)
	assert.Nil(t, cats.Income)
}
