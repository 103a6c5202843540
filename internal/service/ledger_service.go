package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sarhadi-autos/ledger/internal/config"
	"github.com/sarhadi-autos/ledger/internal/domain"
	"github.com/sarhadi-autos/ledger/internal/ledger"
	"github.com/sarhadi-autos/ledger/internal/repository"
	customError "github.com/sarhadi-autos/ledger/pkg/errors"
	"github.com/sarhadi-autos/ledger/pkg/utils"
)

const dateLayout = "2006-01-02"

// LedgerService orchestrates the registration, sale, payment and reporting
// flows around the pure accounting engine. All balance math happens in the
// ledger package; this layer only moves data between storage and the engine.
type LedgerService struct {
	customerRepo    repository.CustomerRepository
	vehicleRepo     repository.VehicleRepository
	installmentRepo repository.InstallmentRepository
	redis           *redis.Client
	config          *config.Config
	policy          ledger.OverduePolicy
	now             func() time.Time
}

func NewLedgerService(
	customerRepo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	installmentRepo repository.InstallmentRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *LedgerService {
	policy := ledger.DefaultOverduePolicy
	if cfg != nil {
		policy = cfg.OverduePolicy()
	}
	return &LedgerService{
		customerRepo:    customerRepo,
		vehicleRepo:     vehicleRepo,
		installmentRepo: installmentRepo,
		redis:           redisClient,
		config:          cfg,
		policy:          policy,
		now:             time.Now,
	}
}

// RegisterCustomer registers a new buyer with both guarantors.
func (s *LedgerService) RegisterCustomer(ctx context.Context, request *domain.RegisterCustomerRequest) (*domain.Customer, error) {
	existing, err := s.customerRepo.GetByAccountNumber(ctx, request.AccountNumber)
	if err == nil && existing != nil {
		return nil, customError.WrapCustomerAlreadyExists(request.AccountNumber)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	customer := &domain.Customer{
		ID:            uuid.New(),
		AccountNumber: request.AccountNumber,
		CustomerName:  request.CustomerName,
		FatherName:    request.FatherName,
		Phone:         request.Phone,
		CNIC:          request.CNIC,
		Address:       request.Address,
		Guarantor1:    request.Guarantor1,
		Guarantor2:    request.Guarantor2,
		CreatedAt:     s.now(),
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	logrus.WithFields(logrus.Fields{
		"account_number": customer.AccountNumber,
		"customer_id":    customer.ID,
	}).Info("customer registered")

	return customer, nil
}

// RecordSale records a vehicle sale with its installment terms. The advance
// payment, when present, is persisted as the first installment row with
// sequence label 0 so the payment history is complete from day one.
func (s *LedgerService) RecordSale(ctx context.Context, accountNumber string, request *domain.RecordSaleRequest) (*domain.RecordSaleResponse, error) {
	customer, err := s.customerRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCustomerNotFound(accountNumber)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	existing, err := s.vehicleRepo.GetByRegistrationNumber(ctx, request.RegistrationNumber)
	if err == nil && existing != nil {
		return nil, customError.WrapVehicleAlreadyExists(request.RegistrationNumber)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	planMonths, err := utils.ParsePlanMonths(request.InstallmentPlan)
	if err != nil {
		return nil, err
	}

	saleDate, err := time.Parse(dateLayout, request.SaleDate)
	if err != nil {
		return nil, customError.WrapInvalidTerms(fmt.Sprintf("invalid sale date %q", request.SaleDate))
	}

	terms, err := ledger.NewSaleTerms(request.TotalAmount, request.AdvancePayment, planMonths, saleDate)
	if err != nil {
		return nil, err
	}

	// The engine does not assume an implicit advance entry, so the record
	// is synthesized here before the first status computation.
	var history []ledger.PaymentRecord
	var advance *domain.Installment
	vehicleID := uuid.New()
	if terms.AdvancePayment.IsPositive() {
		advance = &domain.Installment{
			ID:            uuid.New(),
			VehicleID:     vehicleID,
			PaymentDate:   saleDate,
			AmountPaid:    terms.AdvancePayment,
			SequenceLabel: 0,
			CreatedAt:     s.now(),
		}
		history = []ledger.PaymentRecord{advance.Record()}
	}

	status, err := ledger.ComputeLoanStatus(terms, history, s.now())
	if err != nil {
		return nil, err
	}

	vehicle := &domain.Vehicle{
		ID:                 vehicleID,
		CustomerID:         customer.ID,
		RegistrationNumber: request.RegistrationNumber,
		ItemName:           request.ItemName,
		EngineNumber:       request.EngineNumber,
		ChassisNumber:      request.ChassisNumber,
		Model:              request.Model,
		Color:              request.Color,
		InsuranceDocs:      request.InsuranceDocs,
		TotalAmount:        terms.TotalAmount,
		AdvancePayment:     terms.AdvancePayment,
		MonthlyInstallment: terms.MonthlyInstallment,
		InstallmentPlan:    request.InstallmentPlan,
		PlanMonths:         planMonths,
		SaleDate:           saleDate,
		RemainingLoan:      status.RemainingBalance,
		PaidCount:          status.InstallmentsSatisfied,
		NextDueDate:        status.NextDueDate,
		CreatedAt:          s.now(),
		UpdatedAt:          s.now(),
	}

	if err := s.vehicleRepo.Create(ctx, vehicle, advance); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	logrus.WithFields(logrus.Fields{
		"account_number":      accountNumber,
		"registration_number": vehicle.RegistrationNumber,
		"total_amount":        vehicle.TotalAmount,
		"plan_months":         planMonths,
	}).Info("vehicle sale recorded")

	return &domain.RecordSaleResponse{Vehicle: vehicle, Status: status}, nil
}

// PayInstallment applies a payment to the customer's active vehicle loan.
// The engine runs inside the repository's row-locked transaction so two
// concurrent payments can never both compute from the same history.
func (s *LedgerService) PayInstallment(ctx context.Context, accountNumber string, request *domain.PayInstallmentRequest) (*domain.PayInstallmentResponse, error) {
	customer, err := s.customerRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCustomerNotFound(accountNumber)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	vehicle, err := s.vehicleRepo.GetLatestByCustomerID(ctx, customer.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapVehicleNotFound(accountNumber)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	paymentDate, err := time.Parse(dateLayout, request.PaymentDate)
	if err != nil {
		return nil, customError.WrapInvalidPayment(request.PaymentDate)
	}

	var result ledger.PaymentResult
	var installment *domain.Installment

	err = s.vehicleRepo.ApplyPayment(ctx, vehicle.ID, func(locked *domain.Vehicle, rows []*domain.Installment) (*domain.Installment, *domain.LedgerSnapshot, error) {
		applied, err := ledger.ApplyPayment(
			locked.Terms(),
			domain.PaymentHistory(rows),
			ledger.Payment{Amount: request.Amount, Date: paymentDate},
			s.now(),
		)
		if err != nil {
			return nil, nil, err
		}

		result = applied
		installment = &domain.Installment{
			ID:            uuid.New(),
			VehicleID:     locked.ID,
			PaymentDate:   applied.Record.PaymentDate,
			AmountPaid:    applied.Record.AmountPaid,
			SequenceLabel: applied.Record.SequenceLabel,
			CreatedAt:     s.now(),
		}
		snapshot := &domain.LedgerSnapshot{
			RemainingLoan: applied.Status.RemainingBalance,
			PaidCount:     applied.Status.InstallmentsSatisfied,
			NextDueDate:   applied.Status.NextDueDate,
		}
		return installment, snapshot, nil
	})
	if err != nil {
		var businessErr *customError.BusinessError
		if errors.As(err, &businessErr) {
			return nil, businessErr
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateSnapshot(ctx, vehicle.ID)

	logrus.WithFields(logrus.Fields{
		"account_number":    accountNumber,
		"vehicle_id":        vehicle.ID,
		"amount":            request.Amount,
		"remaining_balance": result.Status.RemainingBalance,
		"overpayment":       result.Overpayment,
	}).Info("installment payment applied")

	return &domain.PayInstallmentResponse{
		CustomerName: customer.CustomerName,
		VehicleName:  vehicle.ItemName,
		Payment:      installment,
		Status:       result.Status,
		Overpayment:  result.Overpayment,
	}, nil
}

// CheckBalance reports the current loan state for a vehicle found by account
// number or registration number.
func (s *LedgerService) CheckBalance(ctx context.Context, searchKey, searchType string) (*domain.BalanceReport, error) {
	var customer *domain.Customer
	var vehicle *domain.Vehicle
	var err error

	switch searchType {
	case domain.SearchByRegistrationNumber:
		vehicle, err = s.vehicleRepo.GetByRegistrationNumber(ctx, searchKey)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, customError.WrapVehicleNotFound(searchKey)
			}
			return nil, customError.WrapDatabaseError(err)
		}
		customer, err = s.customerRepo.GetByID(ctx, vehicle.CustomerID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
	case domain.SearchByAccountNumber:
		customer, err = s.customerRepo.GetByAccountNumber(ctx, searchKey)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, customError.WrapCustomerNotFound(searchKey)
			}
			return nil, customError.WrapDatabaseError(err)
		}
		vehicle, err = s.vehicleRepo.GetLatestByCustomerID(ctx, customer.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, customError.WrapVehicleNotFound(searchKey)
			}
			return nil, customError.WrapDatabaseError(err)
		}
	default:
		return nil, fmt.Errorf("unknown search type %q", searchType)
	}

	status, err := s.loanStatus(ctx, vehicle)
	if err != nil {
		return nil, err
	}

	return &domain.BalanceReport{
		CustomerName:       customer.CustomerName,
		AccountNumber:      customer.AccountNumber,
		VehicleName:        vehicle.ItemName,
		RegistrationNumber: vehicle.RegistrationNumber,
		InstallmentPlan:    vehicle.InstallmentPlan,
		MonthlyInstallment: vehicle.MonthlyInstallment,
		Status:             status,
		Overdue:            s.policy.Classify(vehicle.Terms(), status),
	}, nil
}

// ListRecords returns every vehicle sale with its derived loan status.
func (s *LedgerService) ListRecords(ctx context.Context) ([]*domain.VehicleStatement, error) {
	vehicles, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	statements := make([]*domain.VehicleStatement, 0, len(vehicles))
	for _, vehicle := range vehicles {
		status, err := s.computeStatus(ctx, vehicle)
		if err != nil {
			return nil, err
		}
		statements = append(statements, &domain.VehicleStatement{Vehicle: vehicle, Status: status})
	}

	return statements, nil
}

// RefreshSnapshots recomputes every vehicle's ledger state and rewrites the
// display cache columns. Returns the number of overdue loans found. Run
// daily by the scheduler.
func (s *LedgerService) RefreshSnapshots(ctx context.Context) (int, error) {
	vehicles, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	overdue := 0
	for _, vehicle := range vehicles {
		status, err := s.computeStatus(ctx, vehicle)
		if err != nil {
			return overdue, err
		}

		snapshot := &domain.LedgerSnapshot{
			RemainingLoan: status.RemainingBalance,
			PaidCount:     status.InstallmentsSatisfied,
			NextDueDate:   status.NextDueDate,
		}
		if err := s.vehicleRepo.UpdateSnapshot(ctx, vehicle.ID, snapshot); err != nil {
			return overdue, customError.WrapDatabaseError(err)
		}
		s.invalidateSnapshot(ctx, vehicle.ID)

		if status.IsOverdue {
			overdue++
			logrus.WithFields(logrus.Fields{
				"vehicle_id":          vehicle.ID,
				"registration_number": vehicle.RegistrationNumber,
				"days_overdue":        status.DaysOverdue,
				"remaining_balance":   status.RemainingBalance,
			}).Warn("loan overdue")
		}
	}

	return overdue, nil
}

// DueSoon returns active loans whose next installment falls due within the
// given number of days. Used for payment reminders.
func (s *LedgerService) DueSoon(ctx context.Context, windowDays int) ([]*domain.VehicleStatement, error) {
	vehicles, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	var due []*domain.VehicleStatement
	for _, vehicle := range vehicles {
		status, err := s.computeStatus(ctx, vehicle)
		if err != nil {
			return nil, err
		}
		if status.IsCompleted || status.IsOverdue || status.NextDueDate == nil {
			continue
		}
		if days := utils.DaysBetween(s.now(), *status.NextDueDate); days >= 0 && days <= windowDays {
			due = append(due, &domain.VehicleStatement{Vehicle: vehicle, Status: status})
		}
	}

	return due, nil
}

// loanStatus is the cache-aware status read used by the balance report.
func (s *LedgerService) loanStatus(ctx context.Context, vehicle *domain.Vehicle) (ledger.LoanStatus, error) {
	key := snapshotKey(vehicle.ID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			var status ledger.LoanStatus
			if err := json.Unmarshal([]byte(cached), &status); err == nil {
				return status, nil
			}
		}
	}

	status, err := s.computeStatus(ctx, vehicle)
	if err != nil {
		return ledger.LoanStatus{}, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(status); err == nil {
			ttl := 10 * time.Minute
			if s.config != nil {
				ttl = s.config.GetSnapshotTTL()
			}
			if err := s.redis.Set(ctx, key, payload, ttl).Err(); err != nil {
				logrus.WithError(customError.WrapCacheError(err)).Warn("snapshot cache write failed")
			}
		}
	}

	return status, nil
}

func (s *LedgerService) computeStatus(ctx context.Context, vehicle *domain.Vehicle) (ledger.LoanStatus, error) {
	installments, err := s.installmentRepo.ListByVehicleID(ctx, vehicle.ID)
	if err != nil {
		return ledger.LoanStatus{}, customError.WrapDatabaseError(err)
	}

	status, err := ledger.ComputeLoanStatus(vehicle.Terms(), domain.PaymentHistory(installments), s.now())
	if err != nil {
		return ledger.LoanStatus{}, err
	}
	return status, nil
}

func (s *LedgerService) invalidateSnapshot(ctx context.Context, vehicleID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, snapshotKey(vehicleID)).Err(); err != nil {
		logrus.WithError(customError.WrapCacheError(err)).Warn("snapshot cache invalidation failed")
	}
}

func snapshotKey(vehicleID uuid.UUID) string {
	return fmt.Sprintf("ledger:status:%s", vehicleID)
}
