package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sarhadi-autos/ledger/internal/ledger"
)

// Installment is one persisted payment event against a vehicle. Rows are
// append-only; sequence label 0 marks the advance paid at sale time.
type Installment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	VehicleID     uuid.UUID       `json:"vehicle_id" db:"vehicle_id"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	AmountPaid    decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	SequenceLabel int             `json:"sequence_label" db:"sequence_label"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Record converts the row into the engine's payment record form.
func (i *Installment) Record() ledger.PaymentRecord {
	return ledger.PaymentRecord{
		PaymentDate:   i.PaymentDate,
		AmountPaid:    i.AmountPaid,
		SequenceLabel: i.SequenceLabel,
	}
}

// PaymentHistory converts ordered installment rows into engine records.
func PaymentHistory(installments []*Installment) []ledger.PaymentRecord {
	history := make([]ledger.PaymentRecord, 0, len(installments))
	for _, installment := range installments {
		history = append(history, installment.Record())
	}
	return history
}
