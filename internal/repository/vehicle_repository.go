package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sarhadi-autos/ledger/internal/domain"
)

const vehicleColumns = `
	id, customer_id, registration_number, item_name, engine_number, chassis_number,
	model, color, insurance_docs, total_amount, advance_payment, monthly_installment,
	installment_plan, plan_months, sale_date, remaining_loan, paid_count, next_due_date,
	created_at, updated_at
`

type vehicleRepository struct {
	db *sqlx.DB
}

func NewVehicleRepository(db *sqlx.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle, advance *domain.Installment) error {
	query := `
		INSERT INTO vehicles (
			id, customer_id, registration_number, item_name, engine_number, chassis_number,
			model, color, insurance_docs, total_amount, advance_payment, monthly_installment,
			installment_plan, plan_months, sale_date, remaining_loan, paid_count, next_due_date,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.CustomerID,
		vehicle.RegistrationNumber,
		vehicle.ItemName,
		vehicle.EngineNumber,
		vehicle.ChassisNumber,
		vehicle.Model,
		vehicle.Color,
		vehicle.InsuranceDocs,
		vehicle.TotalAmount,
		vehicle.AdvancePayment,
		vehicle.MonthlyInstallment,
		vehicle.InstallmentPlan,
		vehicle.PlanMonths,
		vehicle.SaleDate,
		vehicle.RemainingLoan,
		vehicle.PaidCount,
		vehicle.NextDueDate,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if advance != nil {
		if err = insertInstallment(ctx, tx, advance); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	var vehicle domain.Vehicle
	if err := r.db.GetContext(ctx, &vehicle, query, id); err != nil {
		return nil, err
	}

	return &vehicle, nil
}

func (r *vehicleRepository) GetByRegistrationNumber(ctx context.Context, registrationNumber string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE registration_number = $1`

	var vehicle domain.Vehicle
	if err := r.db.GetContext(ctx, &vehicle, query, registrationNumber); err != nil {
		return nil, err
	}

	return &vehicle, nil
}

func (r *vehicleRepository) GetLatestByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var vehicle domain.Vehicle
	if err := r.db.GetContext(ctx, &vehicle, query, customerID); err != nil {
		return nil, err
	}

	return &vehicle, nil
}

func (r *vehicleRepository) List(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY created_at`

	var vehicles []*domain.Vehicle
	if err := r.db.SelectContext(ctx, &vehicles, query); err != nil {
		return nil, err
	}

	return vehicles, nil
}

func (r *vehicleRepository) UpdateSnapshot(ctx context.Context, id uuid.UUID, snapshot *domain.LedgerSnapshot) error {
	query := `
		UPDATE vehicles
		SET remaining_loan = $2, paid_count = $3, next_due_date = $4, updated_at = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		id,
		snapshot.RemainingLoan,
		snapshot.PaidCount,
		snapshot.NextDueDate,
		time.Now(),
	)

	return err
}

// ApplyPayment serializes concurrent payments against the same vehicle on a
// row lock: the vehicle is locked, the history is read inside the same
// transaction, and the new installment plus refreshed snapshot commit
// together or not at all.
func (r *vehicleRepository) ApplyPayment(ctx context.Context, id uuid.UUID, fn PaymentTxFunc) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	lockQuery := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 FOR UPDATE`

	var vehicle domain.Vehicle
	if err = tx.GetContext(ctx, &vehicle, lockQuery, id); err != nil {
		return err
	}

	historyQuery := `
		SELECT id, vehicle_id, payment_date, amount_paid, sequence_label, created_at
		FROM installments
		WHERE vehicle_id = $1
		ORDER BY payment_date, created_at
	`

	var history []*domain.Installment
	if err = tx.SelectContext(ctx, &history, historyQuery, id); err != nil {
		return err
	}

	installment, snapshot, err := fn(&vehicle, history)
	if err != nil {
		return err
	}

	if err = insertInstallment(ctx, tx, installment); err != nil {
		return err
	}

	updateQuery := `
		UPDATE vehicles
		SET remaining_loan = $2, paid_count = $3, next_due_date = $4, updated_at = $5
		WHERE id = $1
	`
	_, err = tx.ExecContext(ctx, updateQuery,
		id,
		snapshot.RemainingLoan,
		snapshot.PaidCount,
		snapshot.NextDueDate,
		time.Now(),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func insertInstallment(ctx context.Context, tx *sqlx.Tx, installment *domain.Installment) error {
	query := `
		INSERT INTO installments (id, vehicle_id, payment_date, amount_paid, sequence_label, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.ExecContext(ctx, query,
		installment.ID,
		installment.VehicleID,
		installment.PaymentDate,
		installment.AmountPaid,
		installment.SequenceLabel,
		installment.CreatedAt,
	)

	return err
}
