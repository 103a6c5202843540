package ledger

import (
	"github.com/shopspring/decimal"
)

// DefaultDaysPerMonth is the 30-day month approximation used to turn days
// overdue into missed installments. It matches how due dates advance by
// calendar months, not a precise proration.
const DefaultDaysPerMonth = 30

// OverduePolicy controls how an overdue balance is broken down into missed
// installments and a late-fee estimate. The fee accrual is a business policy,
// not an accounting rule, so the divisor is configurable.
type OverduePolicy struct {
	DaysPerMonth int
}

// DefaultOverduePolicy is the policy used when none is configured.
var DefaultOverduePolicy = OverduePolicy{DaysPerMonth: DefaultDaysPerMonth}

// OverdueBreakdown is an informational report of what an overdue borrower
// owes right now. It must never feed back into the remaining balance.
type OverdueBreakdown struct {
	MissedInstallments int             `json:"missed_installments"`
	PrincipalDue       decimal.Decimal `json:"principal_due"`
	LateFeeEstimate    decimal.Decimal `json:"late_fee_estimate"`
	TotalDue           decimal.Decimal `json:"total_due"`
}

// Classify breaks an overdue status down into missed installments, the
// principal those installments represent, and a per-day late-fee estimate.
// All fields are zero when the loan is not overdue.
func (p OverduePolicy) Classify(terms SaleTerms, status LoanStatus) OverdueBreakdown {
	breakdown := OverdueBreakdown{
		PrincipalDue:    decimal.Zero,
		LateFeeEstimate: decimal.Zero,
		TotalDue:        decimal.Zero,
	}
	if !status.IsOverdue || status.DaysOverdue <= 0 {
		return breakdown
	}

	daysPerMonth := p.DaysPerMonth
	if daysPerMonth <= 0 {
		daysPerMonth = DefaultDaysPerMonth
	}

	missed := status.DaysOverdue / daysPerMonth
	if missed < 1 {
		missed = 1
	}

	days := decimal.NewFromInt(int64(daysPerMonth))
	dailyRate := terms.MonthlyInstallment.Div(days).Ceil()

	breakdown.MissedInstallments = missed
	breakdown.PrincipalDue = terms.MonthlyInstallment.Mul(decimal.NewFromInt(int64(missed)))
	breakdown.LateFeeEstimate = dailyRate.Mul(decimal.NewFromInt(int64(status.DaysOverdue)))
	breakdown.TotalDue = breakdown.PrincipalDue.Add(breakdown.LateFeeEstimate)
	return breakdown
}
