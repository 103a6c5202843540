package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/sarhadi-autos/ledger/pkg/errors"
)

// CalculateMonthlyInstallment calculates the nominal monthly installment
// Formula: ceil((Total - Advance) / PlanMonths)
// Rounded up so the plan always covers the full remaining loan.
func CalculateMonthlyInstallment(total, advance decimal.Decimal, planMonths int) decimal.Decimal {
	remaining := total.Sub(advance)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining.Div(decimal.NewFromInt(int64(planMonths))).Ceil()
}

// ParsePlanMonths extracts the number of months from a plan label such as
// "12 Months" or "24 months". The label format comes from the sale form.
func ParsePlanMonths(label string) (int, error) {
	fields := strings.Fields(strings.TrimSpace(label))
	if len(fields) == 0 {
		return 0, customError.WrapInvalidPlanLabel(label)
	}
	months, err := strconv.Atoi(fields[0])
	if err != nil || months <= 0 {
		return 0, customError.WrapInvalidPlanLabel(label)
	}
	return months, nil
}

// StartOfDay truncates a timestamp to its calendar date in UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from one date to
// another, ignoring time of day. Negative when to is before from.
func DaysBetween(from, to time.Time) int {
	return int(StartOfDay(to).Sub(StartOfDay(from)).Hours() / 24)
}

// AddMonths advances a date by whole calendar months.
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}

// DecimalFromFloat converts float64 to decimal.Decimal
func DecimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
