package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/sarhadi-autos/ledger/internal/domain"
	"github.com/sarhadi-autos/ledger/internal/repository"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Customer, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

type MockVehicleRepository struct {
	mock.Mock

	// LockedVehicle and LockedHistory stand in for the row-locked reads the
	// real repository performs inside the payment transaction.
	LockedVehicle *domain.Vehicle
	LockedHistory []*domain.Installment
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle, advance *domain.Installment) error {
	args := m.Called(ctx, vehicle, advance)
	return args.Error(0)
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetByRegistrationNumber(ctx context.Context, registrationNumber string) (*domain.Vehicle, error) {
	args := m.Called(ctx, registrationNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetLatestByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) List(ctx context.Context) ([]*domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) UpdateSnapshot(ctx context.Context, id uuid.UUID, snapshot *domain.LedgerSnapshot) error {
	args := m.Called(ctx, id, snapshot)
	return args.Error(0)
}

func (m *MockVehicleRepository) ApplyPayment(ctx context.Context, id uuid.UUID, fn repository.PaymentTxFunc) error {
	args := m.Called(ctx, id, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	_, _, err := fn(m.LockedVehicle, m.LockedHistory)
	return err
}

type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) ListByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.Installment, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}
