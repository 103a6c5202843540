package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sarhadi-autos/ledger/internal/domain"
)

type customerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, account_number, customer_name, father_name, phone, cnic, address, guarantor1_details, guarantor2_details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.AccountNumber,
		customer.CustomerName,
		customer.FatherName,
		customer.Phone,
		customer.CNIC,
		customer.Address,
		customer.Guarantor1,
		customer.Guarantor2,
		customer.CreatedAt,
	)

	return err
}

func (r *customerRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Customer, error) {
	query := `
		SELECT id, account_number, customer_name, father_name, phone, cnic, address, guarantor1_details, guarantor2_details, created_at
		FROM customers
		WHERE account_number = $1
	`

	var customer domain.Customer
	err := r.db.GetContext(ctx, &customer, query, accountNumber)
	if err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := `
		SELECT id, account_number, customer_name, father_name, phone, cnic, address, guarantor1_details, guarantor2_details, created_at
		FROM customers
		WHERE id = $1
	`

	var customer domain.Customer
	err := r.db.GetContext(ctx, &customer, query, id)
	if err != nil {
		return nil, err
	}

	return &customer, nil
}
