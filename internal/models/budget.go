package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyBudget is a per-user spending ceiling for one calendar month.
type MonthlyBudget struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"uniqueIndex:idx_budget_user_month;not null"`
	Year      int             `gorm:"uniqueIndex:idx_budget_user_month;not null"`
	Month     int             `gorm:"uniqueIndex:idx_budget_user_month;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

// Period returns the first day of the budget month.
func (b *MonthlyBudget) Period() time.Time {
	return time.Date(b.Year, time.Month(b.Month), 1, 0, 0, 0, 0, time.UTC)
}
