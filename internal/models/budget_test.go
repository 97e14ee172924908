package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthlyBudgetPeriod(t *testing.T) {
	b := MonthlyBudget{Year: 2024, Month: 12}
	start := b.Period()
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), start.AddDate(0, 1, 0))
}
