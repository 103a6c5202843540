package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/sarhadi-autos/ledger/pkg/errors"
)

var saleDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func mustTerms(t *testing.T, total, advance int64, planMonths int) SaleTerms {
	t.Helper()
	terms, err := NewSaleTerms(
		decimal.NewFromInt(total),
		decimal.NewFromInt(advance),
		planMonths,
		saleDate,
	)
	require.NoError(t, err)
	return terms
}

func record(day int, amount int64, label int) PaymentRecord {
	return PaymentRecord{
		PaymentDate:   saleDate.AddDate(0, 0, day),
		AmountPaid:    decimal.NewFromInt(amount),
		SequenceLabel: label,
	}
}

func TestNewSaleTerms_DerivesMonthlyInstallment(t *testing.T) {
	terms := mustTerms(t, 480000, 120000, 24)
	assert.True(t, terms.MonthlyInstallment.Equal(decimal.NewFromInt(15000)))

	// 100,000 / 12 rounds up so the plan covers the full loan
	terms = mustTerms(t, 100000, 0, 12)
	assert.True(t, terms.MonthlyInstallment.Equal(decimal.NewFromInt(8334)))
}

func TestNewSaleTerms_InvalidInputs(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		advance    int64
		planMonths int
	}{
		{name: "zero plan months", total: 100000, advance: 0, planMonths: 0},
		{name: "negative plan months", total: 100000, advance: 0, planMonths: -12},
		{name: "advance exceeds total", total: 100000, advance: 150000, planMonths: 12},
		{name: "negative advance", total: 100000, advance: -1, planMonths: 12},
		{name: "negative total", total: -100000, advance: 0, planMonths: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSaleTerms(
				decimal.NewFromInt(tt.total),
				decimal.NewFromInt(tt.advance),
				tt.planMonths,
				saleDate,
			)
			assert.ErrorIs(t, err, customError.ErrInvalidTerms)
		})
	}
}

func TestComputeLoanStatus_EmptyHistory(t *testing.T) {
	terms := mustTerms(t, 100000, 20000, 4)

	status, err := ComputeLoanStatus(terms, nil, saleDate)
	require.NoError(t, err)

	assert.True(t, status.TotalPaid.IsZero())
	assert.True(t, status.RemainingBalance.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, 0, status.InstallmentsSatisfied)
	assert.Equal(t, 4, status.InstallmentsRemaining)
	require.NotNil(t, status.NextDueDate)
	assert.Equal(t, saleDate.AddDate(0, 1, 0), *status.NextDueDate)
	assert.False(t, status.IsOverdue)
	assert.False(t, status.IsCompleted)
}

func TestComputeLoanStatus_AdvanceAndOneInstallment(t *testing.T) {
	// Property 5: overpayment accounting scenario.
	terms := mustTerms(t, 100000, 20000, 4)
	require.True(t, terms.MonthlyInstallment.Equal(decimal.NewFromInt(20000)))

	history := []PaymentRecord{record(0, 20000, 0)}
	today := saleDate.AddDate(0, 0, 30)

	result, err := ApplyPayment(terms, history, Payment{
		Amount: decimal.NewFromInt(25000),
		Date:   today,
	}, today)
	require.NoError(t, err)

	assert.True(t, result.Status.RemainingBalance.Equal(decimal.NewFromInt(55000)))
	assert.Equal(t, 1, result.Status.InstallmentsSatisfied)
	assert.True(t, result.Overpayment.IsZero(), "25,000 < prior remaining 80,000")
	assert.Len(t, result.UpdatedHistory, 2)
	assert.Equal(t, 1, result.Record.SequenceLabel)
}

func TestComputeLoanStatus_ExactPayoff(t *testing.T) {
	// Property 6: two exact payments close the loan.
	terms := mustTerms(t, 40000, 0, 2)

	history := []PaymentRecord{
		record(30, 20000, 1),
		record(60, 20000, 2),
	}

	status, err := ComputeLoanStatus(terms, history, saleDate.AddDate(0, 0, 61))
	require.NoError(t, err)

	assert.True(t, status.RemainingBalance.IsZero())
	assert.True(t, status.IsCompleted)
	assert.Nil(t, status.NextDueDate)
	assert.False(t, status.IsOverdue)
	assert.Equal(t, 0, status.DaysOverdue)
}

func TestComputeLoanStatus_OverdueDetection(t *testing.T) {
	// Property 7: next due date 40 days in the past with a balance remaining.
	terms := mustTerms(t, 100000, 0, 10)

	firstDue := saleDate.AddDate(0, 1, 0)
	today := firstDue.AddDate(0, 0, 40)

	status, err := ComputeLoanStatus(terms, nil, today)
	require.NoError(t, err)

	assert.True(t, status.IsOverdue)
	assert.Equal(t, 40, status.DaysOverdue)
	require.NotNil(t, status.NextDueDate)
	assert.Equal(t, firstDue, *status.NextDueDate)
}

func TestComputeLoanStatus_ZeroAdvancePlan(t *testing.T) {
	// Property 8: a zero advance must not trip any division guard.
	terms := mustTerms(t, 120000, 0, 12)

	status, err := ComputeLoanStatus(terms, []PaymentRecord{record(30, 10000, 1)}, saleDate.AddDate(0, 0, 31))
	require.NoError(t, err)
	assert.Equal(t, 1, status.InstallmentsSatisfied)
	assert.True(t, status.RemainingBalance.Equal(decimal.NewFromInt(110000)))
}

func TestComputeLoanStatus_NonNegativity(t *testing.T) {
	// Property 2: a single huge payment never produces negative balance or a
	// satisfied count beyond the plan length.
	terms := mustTerms(t, 100000, 20000, 4)

	history := []PaymentRecord{
		record(0, 20000, 0),
		record(30, 5000000, 1),
	}

	status, err := ComputeLoanStatus(terms, history, saleDate.AddDate(0, 0, 31))
	require.NoError(t, err)

	assert.True(t, status.RemainingBalance.IsZero())
	assert.Equal(t, 4, status.InstallmentsSatisfied)
	assert.Equal(t, 0, status.InstallmentsRemaining)
	assert.True(t, status.IsCompleted)
}

func TestComputeLoanStatus_Deterministic(t *testing.T) {
	// Property 3: identical inputs yield identical output.
	terms := mustTerms(t, 100000, 20000, 4)
	history := []PaymentRecord{
		record(0, 20000, 0),
		record(30, 25000, 1),
	}
	today := saleDate.AddDate(0, 0, 45)

	first, err := ComputeLoanStatus(terms, history, today)
	require.NoError(t, err)
	second, err := ComputeLoanStatus(terms, history, today)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeLoanStatus_UnsortedHistory(t *testing.T) {
	// Records arriving out of order are processed sorted by payment date.
	terms := mustTerms(t, 100000, 20000, 4)
	history := []PaymentRecord{
		record(60, 20000, 2),
		record(0, 20000, 0),
		record(30, 20000, 1),
	}

	status, err := ComputeLoanStatus(terms, history, saleDate.AddDate(0, 0, 61))
	require.NoError(t, err)
	assert.True(t, status.TotalPaid.Equal(decimal.NewFromInt(60000)))
	assert.Equal(t, 2, status.InstallmentsSatisfied)

	// Input slice stays untouched.
	assert.Equal(t, 2, history[0].SequenceLabel)
}

func TestApplyPayment_Monotonicity(t *testing.T) {
	// Property 1: balance never increases, satisfied count never decreases.
	terms := mustTerms(t, 100000, 20000, 4)
	history := []PaymentRecord{record(0, 20000, 0)}

	previousBalance := decimal.NewFromInt(80000)
	previousSatisfied := 0

	for month := 1; month <= 4; month++ {
		today := saleDate.AddDate(0, month, 0)
		result, err := ApplyPayment(terms, history, Payment{
			Amount: decimal.NewFromInt(20000),
			Date:   today,
		}, today)
		require.NoError(t, err)

		assert.True(t, result.Status.RemainingBalance.LessThanOrEqual(previousBalance))
		assert.GreaterOrEqual(t, result.Status.InstallmentsSatisfied, previousSatisfied)

		previousBalance = result.Status.RemainingBalance
		previousSatisfied = result.Status.InstallmentsSatisfied
		history = result.UpdatedHistory
	}

	final, err := ComputeLoanStatus(terms, history, saleDate.AddDate(0, 4, 1))
	require.NoError(t, err)
	assert.True(t, final.IsCompleted)
}

func TestApplyPayment_CompletionIsTerminal(t *testing.T) {
	// Property 4: once completed, every further payment is rejected.
	terms := mustTerms(t, 40000, 0, 2)
	history := []PaymentRecord{
		record(30, 20000, 1),
		record(60, 20000, 2),
	}
	today := saleDate.AddDate(0, 0, 90)

	_, err := ApplyPayment(terms, history, Payment{
		Amount: decimal.NewFromInt(1000),
		Date:   today,
	}, today)
	assert.ErrorIs(t, err, customError.ErrLoanAlreadyCompleted)
}

func TestApplyPayment_RejectsNonPositiveAmounts(t *testing.T) {
	terms := mustTerms(t, 40000, 0, 2)
	today := saleDate.AddDate(0, 0, 30)

	for _, amount := range []int64{0, -500} {
		_, err := ApplyPayment(terms, nil, Payment{
			Amount: decimal.NewFromInt(amount),
			Date:   today,
		}, today)
		assert.ErrorIs(t, err, customError.ErrInvalidPayment)
	}
}

func TestApplyPayment_ReportsOverpayment(t *testing.T) {
	terms := mustTerms(t, 40000, 0, 2)
	history := []PaymentRecord{record(30, 20000, 1)}
	today := saleDate.AddDate(0, 0, 60)

	result, err := ApplyPayment(terms, history, Payment{
		Amount: decimal.NewFromInt(25000),
		Date:   today,
	}, today)
	require.NoError(t, err)

	// 25,000 against a 20,000 balance: 5,000 excess is reported but the full
	// amount stays on the record and the balance clamps to zero.
	assert.True(t, result.Overpayment.Equal(decimal.NewFromInt(5000)))
	assert.True(t, result.Record.AmountPaid.Equal(decimal.NewFromInt(25000)))
	assert.True(t, result.Status.RemainingBalance.IsZero())
	assert.True(t, result.Status.IsCompleted)
}

func TestApplyPayment_DoesNotMutateHistory(t *testing.T) {
	terms := mustTerms(t, 100000, 20000, 4)
	history := []PaymentRecord{record(0, 20000, 0)}
	today := saleDate.AddDate(0, 1, 0)

	result, err := ApplyPayment(terms, history, Payment{
		Amount: decimal.NewFromInt(20000),
		Date:   today,
	}, today)
	require.NoError(t, err)

	assert.Len(t, history, 1)
	assert.Len(t, result.UpdatedHistory, 2)
	assert.Equal(t, history[0], result.UpdatedHistory[0])
}

func TestOverduePolicy_Classify(t *testing.T) {
	terms := mustTerms(t, 480000, 120000, 24)
	require.True(t, terms.MonthlyInstallment.Equal(decimal.NewFromInt(15000)))

	tests := []struct {
		name            string
		daysOverdue     int
		isOverdue       bool
		expectedMissed  int
		expectedFee     int64
		expectedPrincip int64
	}{
		{
			name:        "not overdue yields zeroes",
			daysOverdue: 0,
			isOverdue:   false,
		},
		{
			name:            "under one month counts as one missed",
			daysOverdue:     10,
			isOverdue:       true,
			expectedMissed:  1,
			expectedPrincip: 15000,
			expectedFee:     5000, // ceil(15,000/30)=500 per day * 10
		},
		{
			name:            "forty days is one missed installment",
			daysOverdue:     40,
			isOverdue:       true,
			expectedMissed:  1,
			expectedPrincip: 15000,
			expectedFee:     20000,
		},
		{
			name:            "ninety days is three missed installments",
			daysOverdue:     90,
			isOverdue:       true,
			expectedMissed:  3,
			expectedPrincip: 45000,
			expectedFee:     45000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := LoanStatus{
				RemainingBalance: decimal.NewFromInt(300000),
				DaysOverdue:      tt.daysOverdue,
				IsOverdue:        tt.isOverdue,
			}

			breakdown := DefaultOverduePolicy.Classify(terms, status)

			assert.Equal(t, tt.expectedMissed, breakdown.MissedInstallments)
			assert.True(t, breakdown.PrincipalDue.Equal(decimal.NewFromInt(tt.expectedPrincip)),
				"principal due: expected %d, got %s", tt.expectedPrincip, breakdown.PrincipalDue)
			assert.True(t, breakdown.LateFeeEstimate.Equal(decimal.NewFromInt(tt.expectedFee)),
				"late fee: expected %d, got %s", tt.expectedFee, breakdown.LateFeeEstimate)
			assert.True(t, breakdown.TotalDue.Equal(breakdown.PrincipalDue.Add(breakdown.LateFeeEstimate)))
		})
	}
}

func TestOverduePolicy_CustomDivisor(t *testing.T) {
	terms := mustTerms(t, 120000, 0, 12)
	status := LoanStatus{DaysOverdue: 28, IsOverdue: true}

	policy := OverduePolicy{DaysPerMonth: 14}
	breakdown := policy.Classify(terms, status)

	assert.Equal(t, 2, breakdown.MissedInstallments)
}

func TestSaleTerms_FullyPaidByAdvance(t *testing.T) {
	// Advance equal to the total price: monthly installment is zero, a lone
	// advance record completes the loan, and nothing divides by zero.
	terms := mustTerms(t, 50000, 50000, 12)
	require.True(t, terms.MonthlyInstallment.IsZero())

	status, err := ComputeLoanStatus(terms, []PaymentRecord{record(0, 50000, 0)}, saleDate.AddDate(0, 2, 0))
	require.NoError(t, err)
	assert.True(t, status.IsCompleted)
	assert.Equal(t, 0, status.InstallmentsSatisfied)
	assert.Nil(t, status.NextDueDate)
}
