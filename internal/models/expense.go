package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

// Expense is a single income or expense transaction.
// Amount is fixed-point; Date carries no time of day.
type Expense struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index;not null"`
	Title       string          `gorm:"size:200;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date        time.Time       `gorm:"index;not null"`
	CategoryID  *uint           `gorm:"index"`
	Description string          `gorm:"type:text"`
	Type        string          `gorm:"size:16;index;not null;default:expense"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	User     User      `gorm:"constraint:OnDelete:CASCADE"`
	Category *Category `gorm:"constraint:OnDelete:SET NULL"`
}

// IsIncome reports whether the row is an income transaction.
func (e *Expense) IsIncome() bool {
	return e.Type == TypeIncome
}

// CategoryName returns the category label, or "" when the row is uncategorized
// or the association was not preloaded.
func (e *Expense) CategoryName() string {
	if e.Category == nil {
		return ""
	}
	return e.Category.Name
}
