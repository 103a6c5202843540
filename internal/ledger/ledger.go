// Package ledger implements the installment accounting rules for vehicle
// sales: deriving the current loan state from sale terms plus the ordered
// payment history, and applying new payments against the remaining balance.
//
// Every function here is pure and deterministic. Persistence, presentation
// and clock access are caller concerns; today's date is always an explicit
// argument.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/sarhadi-autos/ledger/pkg/errors"
	"github.com/sarhadi-autos/ledger/pkg/utils"
)

// SaleTerms is the fixed contract of a vehicle sale. It is created once when
// the sale is recorded and never changes afterwards.
type SaleTerms struct {
	TotalAmount        decimal.Decimal `json:"total_amount"`
	AdvancePayment     decimal.Decimal `json:"advance_payment"`
	PlanLengthMonths   int             `json:"plan_length_months"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	SaleDate           time.Time       `json:"sale_date"`
}

// PaymentRecord is one timestamped payment event against a sale. The advance
// carries sequence label 0, subsequent installments 1..N. The label is
// informational only; progress is always recomputed from cumulative amounts.
type PaymentRecord struct {
	PaymentDate   time.Time       `json:"payment_date"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	SequenceLabel int             `json:"sequence_label"`
}

// LoanStatus is the derived view of a loan. It is recomputed on demand and is
// never the source of truth.
type LoanStatus struct {
	TotalPaid             decimal.Decimal `json:"total_paid"`
	RemainingBalance      decimal.Decimal `json:"remaining_balance"`
	InstallmentsSatisfied int             `json:"installments_satisfied"`
	InstallmentsRemaining int             `json:"installments_remaining"`
	NextDueDate           *time.Time      `json:"next_due_date,omitempty"`
	DaysOverdue           int             `json:"days_overdue"`
	IsOverdue             bool            `json:"is_overdue"`
	IsCompleted           bool            `json:"is_completed"`
}

// Payment is a new payment being applied to a loan.
type Payment struct {
	Amount decimal.Decimal
	Date   time.Time
}

// PaymentResult is the outcome of applying a payment: the history with the
// new record appended, the resulting status, and the portion of the payment
// that exceeded what was owed.
type PaymentResult struct {
	UpdatedHistory []PaymentRecord
	Record         PaymentRecord
	Status         LoanStatus
	Overpayment    decimal.Decimal
}

// NewSaleTerms validates the sale inputs and derives the monthly installment.
// The installment is fixed here and stored, never recomputed from history.
func NewSaleTerms(total, advance decimal.Decimal, planMonths int, saleDate time.Time) (SaleTerms, error) {
	terms := SaleTerms{
		TotalAmount:      total,
		AdvancePayment:   advance,
		PlanLengthMonths: planMonths,
		SaleDate:         saleDate,
	}
	if err := terms.Validate(); err != nil {
		return SaleTerms{}, err
	}
	terms.MonthlyInstallment = utils.CalculateMonthlyInstallment(total, advance, planMonths)
	return terms, nil
}

// Validate checks the invariants every accounting call depends on.
func (t SaleTerms) Validate() error {
	if t.PlanLengthMonths <= 0 {
		return customError.WrapInvalidTerms(
			fmt.Sprintf("plan length must be positive, got %d", t.PlanLengthMonths))
	}
	if t.TotalAmount.IsNegative() {
		return customError.WrapInvalidTerms(
			fmt.Sprintf("total amount must not be negative, got %s", t.TotalAmount))
	}
	if t.AdvancePayment.IsNegative() || t.AdvancePayment.GreaterThan(t.TotalAmount) {
		return customError.WrapInvalidTerms(
			fmt.Sprintf("advance payment %s must be between 0 and total amount %s",
				t.AdvancePayment, t.TotalAmount))
	}
	return nil
}

// ComputeLoanStatus derives the current loan state from the sale terms and
// the full payment history. The advance record, if present, is summed like
// any other record; installments satisfied count only the amount paid beyond
// the advance.
func ComputeLoanStatus(terms SaleTerms, history []PaymentRecord, today time.Time) (LoanStatus, error) {
	if err := terms.Validate(); err != nil {
		return LoanStatus{}, err
	}

	ordered := sortedByDate(history)

	totalPaid := decimal.Zero
	for _, record := range ordered {
		totalPaid = totalPaid.Add(record.AmountPaid)
	}

	remaining := terms.TotalAmount.Sub(totalPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	satisfied := 0
	paidBeyondAdvance := totalPaid.Sub(terms.AdvancePayment)
	if paidBeyondAdvance.IsNegative() {
		paidBeyondAdvance = decimal.Zero
	}
	// MonthlyInstallment is zero only when the advance covered the full
	// price; no installments exist to count in that case.
	if terms.MonthlyInstallment.IsPositive() {
		satisfied = int(paidBeyondAdvance.Div(terms.MonthlyInstallment).Floor().IntPart())
	}
	if satisfied > terms.PlanLengthMonths {
		satisfied = terms.PlanLengthMonths
	}

	status := LoanStatus{
		TotalPaid:             totalPaid,
		RemainingBalance:      remaining,
		InstallmentsSatisfied: satisfied,
		InstallmentsRemaining: terms.PlanLengthMonths - satisfied,
		IsCompleted:           remaining.IsZero(),
	}

	if !status.IsCompleted {
		due := utils.AddMonths(terms.SaleDate, satisfied+1)
		status.NextDueDate = &due

		if days := utils.DaysBetween(due, today); days > 0 {
			status.DaysOverdue = days
			status.IsOverdue = true
		}
	}

	return status, nil
}

// ApplyPayment validates and applies a new payment, returning the history
// with exactly one record appended plus the resulting status. Prior records
// are never mutated or reordered. Payments against a completed loan are
// rejected.
func ApplyPayment(terms SaleTerms, history []PaymentRecord, payment Payment, today time.Time) (PaymentResult, error) {
	if !payment.Amount.IsPositive() {
		return PaymentResult{}, customError.WrapInvalidPayment(payment.Amount.String())
	}

	previous, err := ComputeLoanStatus(terms, history, today)
	if err != nil {
		return PaymentResult{}, err
	}
	if previous.IsCompleted {
		return PaymentResult{}, customError.NewBusinessError(
			customError.ErrCodeLoanAlreadyCompleted,
			"no payments are accepted against a fully paid loan",
			customError.ErrLoanAlreadyCompleted,
		)
	}

	// The full amount is recorded even when it exceeds the balance; the
	// excess is only surfaced so the caller can warn the user.
	overpayment := payment.Amount.Sub(previous.RemainingBalance)
	if overpayment.IsNegative() {
		overpayment = decimal.Zero
	}

	record := PaymentRecord{
		PaymentDate:   payment.Date,
		AmountPaid:    payment.Amount,
		SequenceLabel: nextSequenceLabel(history),
	}

	updated := make([]PaymentRecord, 0, len(history)+1)
	updated = append(updated, history...)
	updated = append(updated, record)

	status, err := ComputeLoanStatus(terms, updated, today)
	if err != nil {
		return PaymentResult{}, err
	}

	return PaymentResult{
		UpdatedHistory: updated,
		Record:         record,
		Status:         status,
		Overpayment:    overpayment,
	}, nil
}

// sortedByDate returns a copy of history ordered ascending by payment date,
// ties broken by insertion order.
func sortedByDate(history []PaymentRecord) []PaymentRecord {
	ordered := make([]PaymentRecord, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PaymentDate.Before(ordered[j].PaymentDate)
	})
	return ordered
}

func nextSequenceLabel(history []PaymentRecord) int {
	max := 0
	for _, record := range history {
		if record.SequenceLabel > max {
			max = record.SequenceLabel
		}
	}
	return max + 1
}
