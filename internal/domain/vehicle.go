package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sarhadi-autos/ledger/internal/ledger"
)

// Vehicle represents a vehicle sold on installments together with its sale
// terms. The remaining_loan, paid_count and next_due_date columns are a
// display cache refreshed from the ledger engine; accounting never reads
// them back.
type Vehicle struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	CustomerID         uuid.UUID       `json:"customer_id" db:"customer_id"`
	RegistrationNumber string          `json:"registration_number" db:"registration_number"`
	ItemName           string          `json:"item_name" db:"item_name"`
	EngineNumber       string          `json:"engine_number" db:"engine_number"`
	ChassisNumber      string          `json:"chassis_number" db:"chassis_number"`
	Model              string          `json:"model" db:"model"`
	Color              string          `json:"color" db:"color"`
	InsuranceDocs      string          `json:"insurance_docs" db:"insurance_docs"`
	TotalAmount        decimal.Decimal `json:"total_amount" db:"total_amount"`
	AdvancePayment     decimal.Decimal `json:"advance_payment" db:"advance_payment"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment" db:"monthly_installment"`
	InstallmentPlan    string          `json:"installment_plan" db:"installment_plan"`
	PlanMonths         int             `json:"plan_months" db:"plan_months"`
	SaleDate           time.Time       `json:"sale_date" db:"sale_date"`
	RemainingLoan      decimal.Decimal `json:"remaining_loan" db:"remaining_loan"`
	PaidCount          int             `json:"paid_count" db:"paid_count"`
	NextDueDate        *time.Time      `json:"next_due_date,omitempty" db:"next_due_date"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// Terms builds the immutable sale terms the ledger engine operates on.
func (v *Vehicle) Terms() ledger.SaleTerms {
	return ledger.SaleTerms{
		TotalAmount:        v.TotalAmount,
		AdvancePayment:     v.AdvancePayment,
		PlanLengthMonths:   v.PlanMonths,
		MonthlyInstallment: v.MonthlyInstallment,
		SaleDate:           v.SaleDate,
	}
}

// LedgerSnapshot is the engine-derived state written back onto the vehicle
// row for display and reporting.
type LedgerSnapshot struct {
	RemainingLoan decimal.Decimal
	PaidCount     int
	NextDueDate   *time.Time
}

// DTOs for requests and responses

type RecordSaleRequest struct {
	RegistrationNumber string          `json:"registration_number" validate:"required"`
	ItemName           string          `json:"item_name" validate:"required"`
	EngineNumber       string          `json:"engine_number" validate:"required"`
	ChassisNumber      string          `json:"chassis_number" validate:"required"`
	Model              string          `json:"model" validate:"required"`
	Color              string          `json:"color" validate:"required"`
	InsuranceDocs      string          `json:"insurance_docs"`
	TotalAmount        decimal.Decimal `json:"total_amount" validate:"required"`
	AdvancePayment     decimal.Decimal `json:"advance_payment"`
	InstallmentPlan    string          `json:"installment_plan" validate:"required"`
	SaleDate           string          `json:"sale_date" validate:"required,datetime=2006-01-02"`
}

type RecordSaleResponse struct {
	Vehicle *Vehicle          `json:"vehicle"`
	Status  ledger.LoanStatus `json:"status"`
}

type PayInstallmentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	PaymentDate string          `json:"payment_date" validate:"required,datetime=2006-01-02"`
}

type PayInstallmentResponse struct {
	CustomerName string            `json:"customer_name"`
	VehicleName  string            `json:"vehicle_name"`
	Payment      *Installment      `json:"payment"`
	Status       ledger.LoanStatus `json:"status"`
	Overpayment  decimal.Decimal   `json:"overpayment"`
}

// Balance search keys
const (
	SearchByAccountNumber      = "account_number"
	SearchByRegistrationNumber = "registration_number"
)

type BalanceReport struct {
	CustomerName       string                  `json:"customer_name"`
	AccountNumber      string                  `json:"account_number"`
	VehicleName        string                  `json:"vehicle_name"`
	RegistrationNumber string                  `json:"registration_number"`
	InstallmentPlan    string                  `json:"installment_plan"`
	MonthlyInstallment decimal.Decimal         `json:"monthly_installment"`
	Status             ledger.LoanStatus       `json:"status"`
	Overdue            ledger.OverdueBreakdown `json:"overdue"`
}

// VehicleStatement is one row of the all-records report.
type VehicleStatement struct {
	Vehicle *Vehicle          `json:"vehicle"`
	Status  ledger.LoanStatus `json:"status"`
}
