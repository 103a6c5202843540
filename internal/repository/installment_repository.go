package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sarhadi-autos/ledger/internal/domain"
)

type installmentRepository struct {
	db *sqlx.DB
}

func NewInstallmentRepository(db *sqlx.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) ListByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.Installment, error) {
	query := `
		SELECT id, vehicle_id, payment_date, amount_paid, sequence_label, created_at
		FROM installments
		WHERE vehicle_id = $1
		ORDER BY payment_date, created_at
	`

	var installments []*domain.Installment
	if err := r.db.SelectContext(ctx, &installments, query, vehicleID); err != nil {
		return nil, err
	}

	return installments, nil
}
