package util

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var today = time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC)

func TestParseAmount_Valid(t *testing.T) {
	cases := map[string]string{
		"0.01":          "0.01",
		"1":             "1.00",
		"100.5":         "100.50",
		" 12,34 ":       "12.34",
		"9999999999.99": "9999999999.99",
		"3.10":          "3.10",
		"2,5":           "2.50",
		"0,05":          "0.05",
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		if err != nil {
			t.Errorf("ParseAmount(%q) error = %v, want nil", in, err)
			continue
		}
		if got.StringFixed(2) != want {
			t.Errorf("ParseAmount(%q) = %s, want %s", in, got.StringFixed(2), want)
		}
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	cases := map[string]error{
		"":            ErrAmountRequired,
		"abc":         ErrAmountInvalid,
		"0":           ErrAmountPositive,
		"-3":          ErrAmountPositive,
		"1.234":       ErrAmountScale,
		"10000000000": ErrAmountTooLarge,
		"1.2.3":       ErrAmountInvalid,
		"1,000":       ErrAmountGrouping,
		"2,500":       ErrAmountGrouping,
		"1,000,000":   ErrAmountGrouping,
		"1,000.50":    ErrAmountGrouping,
		"1.000,50":    ErrAmountGrouping,
		"12,":         ErrAmountGrouping,
		"1,2a":        ErrAmountInvalid,
	}
	for in, want := range cases {
		_, err := ParseAmount(in)
		if !errors.Is(err, want) {
			t.Errorf("ParseAmount(%q) error = %v, want %v", in, err, want)
		}
	}
}

func TestParseBudgetAmount(t *testing.T) {
	if _, err := ParseBudgetAmount("0"); err != nil {
		t.Errorf("ParseBudgetAmount(0) error = %v, want nil", err)
	}
	if _, err := ParseBudgetAmount("-1"); !errors.Is(err, ErrAmountNegative) {
		t.Errorf("ParseBudgetAmount(-1) error = %v, want ErrAmountNegative", err)
	}
}

func TestParseDate_Valid(t *testing.T) {
	for _, s := range []string{"2024-01-01", "2024-06-15", "1999-12-31"} {
		d, err := ParseDate(s, today)
		if err != nil {
			t.Errorf("ParseDate(%q) error = %v, want nil", s, err)
			continue
		}
		if d.Format(DateLayout) != s {
			t.Errorf("ParseDate(%q) = %s", s, d)
		}
	}
}

func TestParseDate_Future(t *testing.T) {
	for _, s := range []string{"2024-06-16", "2025-01-01"} {
		if _, err := ParseDate(s, today); !errors.Is(err, ErrDateInFuture) {
			t.Errorf("ParseDate(%q) error = %v, want ErrDateInFuture", s, err)
		}
	}
}

func TestParseDate_InvalidFormat(t *testing.T) {
	cases := map[string]error{
		"":           ErrDateRequired,
		"2024/01/01": ErrDateInvalid,
		"01-01-2024": ErrDateInvalid,
		"2024-1-1":   ErrDateInvalid,
		"2024-13-01": ErrDateInvalid,
		"2024-01-32": ErrDateInvalid,
	}
	for in, want := range cases {
		if _, err := ParseDate(in, today); !errors.Is(err, want) {
			t.Errorf("ParseDate(%q) error = %v, want %v", in, err, want)
		}
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("name", "Groceries", 100); err != nil {
		t.Errorf("error = %v, want nil", err)
	}
	if err := ValidateName("name", "   ", 100); err == nil {
		t.Error("blank name accepted")
	}
	if err := ValidateName("name", strings.Repeat("é", 101), 100); err == nil {
		t.Error("over-long name accepted")
	}
	if err := ValidateName("name", strings.Repeat("é", 100), 100); err != nil {
		t.Errorf("100 runes rejected: %v", err)
	}
}

func TestValidateUsername(t *testing.T) {
	for _, ok := range []string{"bob", "alice_01", "ABC"} {
		if err := ValidateUsername(ok); err != nil {
			t.Errorf("ValidateUsername(%q) error = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "ab", "has space", "dash-name", strings.Repeat("a", 21)} {
		if err := ValidateUsername(bad); err == nil {
			t.Errorf("ValidateUsername(%q) error = nil", bad)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Secret123"); err != nil {
		t.Errorf("strong password rejected: %v", err)
	}
	for _, bad := range []string{"short1A", "alllowercase1", "ALLUPPER123", "NoDigitsHere", strings.Repeat("Aa1", 11)} {
		if err := ValidatePassword(bad); err == nil {
			t.Errorf("ValidatePassword(%q) error = nil", bad)
		}
	}
}
