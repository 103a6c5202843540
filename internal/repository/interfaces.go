package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sarhadi-autos/ledger/internal/domain"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	// Create registers a new customer
	Create(ctx context.Context, customer *domain.Customer) error

	// GetByAccountNumber retrieves a customer by account number
	GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Customer, error)

	// GetByID retrieves a customer by row id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

// PaymentTxFunc runs inside the row-locked payment transaction. It receives
// the locked vehicle and its date-ordered payment history and returns the new
// installment row plus the refreshed ledger snapshot to write back. Two
// concurrent payments against the same vehicle serialize on the row lock, so
// the history each one sees is final.
type PaymentTxFunc func(vehicle *domain.Vehicle, history []*domain.Installment) (*domain.Installment, *domain.LedgerSnapshot, error)

// VehicleRepository defines the interface for vehicle/sale data operations
type VehicleRepository interface {
	// Create inserts a vehicle sale and, when advance is non-nil, its
	// advance installment row in one transaction
	Create(ctx context.Context, vehicle *domain.Vehicle, advance *domain.Installment) error

	// GetByID retrieves a vehicle by row id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)

	// GetByRegistrationNumber retrieves a vehicle by registration number
	GetByRegistrationNumber(ctx context.Context, registrationNumber string) (*domain.Vehicle, error)

	// GetLatestByCustomerID retrieves the customer's most recent sale
	GetLatestByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Vehicle, error)

	// List retrieves all vehicle sales
	List(ctx context.Context) ([]*domain.Vehicle, error)

	// UpdateSnapshot writes the engine-derived display cache onto the row
	UpdateSnapshot(ctx context.Context, id uuid.UUID, snapshot *domain.LedgerSnapshot) error

	// ApplyPayment locks the vehicle row, hands the vehicle and its history
	// to fn, then persists the returned installment and snapshot atomically
	ApplyPayment(ctx context.Context, id uuid.UUID, fn PaymentTxFunc) error
}

// InstallmentRepository defines the interface for payment history reads
type InstallmentRepository interface {
	// ListByVehicleID retrieves all payments for a vehicle ordered by
	// payment date, ties by insertion order
	ListByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.Installment, error)
}
