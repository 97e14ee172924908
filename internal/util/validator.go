package util

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var (
	ErrAmountRequired = errors.New("amount is required")
	ErrAmountInvalid  = errors.New("enter a valid amount, e.g. 12.50")
	ErrAmountPositive = errors.New("amount must be greater than zero")
	ErrAmountNegative = errors.New("amount cannot be negative")
	ErrAmountScale    = errors.New("amount can have at most two decimal places")
	ErrAmountTooLarge = errors.New("amount is too large")
	ErrAmountGrouping = errors.New("do not use thousands separators, e.g. 1000.50")
	ErrDateRequired   = errors.New("date is required")
	ErrDateInvalid    = errors.New("date must be in YYYY-MM-DD format")
	ErrDateInFuture   = errors.New("date cannot be in the future")
)

// maxAmount matches the decimal(12,2) column.
var maxAmount = decimal.New(1, 10)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrAmountRequired
	}
	// a single comma is a decimal comma; anything that looks like digit grouping is refused
	if i := strings.IndexByte(s, ','); i >= 0 {
		frac := s[i+1:]
		if strings.ContainsAny(frac, ",.") || strings.Contains(s[:i], ".") || len(frac) == 0 || len(frac) > 2 {
			return decimal.Zero, ErrAmountGrouping
		}
		s = s[:i] + "." + frac
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrAmountInvalid
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, ErrAmountScale
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return d.Round(2), nil
}

// ParseAmount parses a transaction amount: positive, two decimals at most.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parseAmount(s)
	if err != nil {
		return d, err
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrAmountPositive
	}
	return d, nil
}

// ParseBudgetAmount is ParseAmount that also allows zero.
func ParseBudgetAmount(s string) (decimal.Decimal, error) {
	d, err := parseAmount(s)
	if err != nil {
		return d, err
	}
	if d.IsNegative() {
		return decimal.Zero, ErrAmountNegative
	}
	return d, nil
}

// ParseDate parses a YYYY-MM-DD date and rejects days after today.
// The result is midnight UTC of that calendar day.
func ParseDate(s string, today time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrDateRequired
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrDateInvalid
	}
	if d.Format(DateLayout) > today.Format(DateLayout) {
		return time.Time{}, ErrDateInFuture
	}
	return d, nil
}

// ValidateName checks a required free-text label.
func ValidateName(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s must be at most %d characters", field, max)
	}
	return nil
}

// ValidateUsername: 3-20 letters, digits or underscores.
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return errors.New("username must be 3-20 letters, digits or underscores")
	}
	return nil
}

// ValidatePassword checks strength: 8-32 chars with upper, lower and a digit.
func ValidatePassword(pwd string) error {
	if len(pwd) < 8 || len(pwd) > 32 {
		return errors.New("password must be 8-32 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password needs an upper-case letter, a lower-case letter and a digit")
	}
	return nil
}
