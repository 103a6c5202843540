package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/sarhadi-autos/ledger/internal/config"
	"github.com/sarhadi-autos/ledger/internal/domain"
	"github.com/sarhadi-autos/ledger/internal/service"
	customError "github.com/sarhadi-autos/ledger/pkg/errors"
	"github.com/sarhadi-autos/ledger/pkg/response"
)

type LedgerHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
	config    *config.Config
}

func NewLedgerHandler(service *service.LedgerService, cfg *config.Config) *LedgerHandler {
	return &LedgerHandler{
		service:   service,
		validator: validator.New(),
		config:    cfg,
	}
}

// RegisterCustomer handles POST /api/v1/customers
func (h *LedgerHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var request domain.RegisterCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	customer, err := h.service.RegisterCustomer(r.Context(), &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, customer)
}

// RecordSale handles POST /api/v1/customers/{accountNumber}/sales
func (h *LedgerHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	accountNumber := mux.Vars(r)["accountNumber"]

	var request domain.RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if request.InstallmentPlan == "" && h.config != nil {
		request.InstallmentPlan = h.config.Business.DefaultPlan
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	sale, err := h.service.RecordSale(r.Context(), accountNumber, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, sale)
}

// PayInstallment handles POST /api/v1/customers/{accountNumber}/payments
func (h *LedgerHandler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	accountNumber := mux.Vars(r)["accountNumber"]

	var request domain.PayInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	payment, err := h.service.PayInstallment(r.Context(), accountNumber, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, payment)
}

// CheckBalance handles GET /api/v1/balance?key=...&type=...
func (h *LedgerHandler) CheckBalance(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		response.BadRequest(w, "Query parameter 'key' is required", nil)
		return
	}

	searchType := r.URL.Query().Get("type")
	if searchType == "" {
		searchType = domain.SearchByAccountNumber
	}
	if searchType != domain.SearchByAccountNumber && searchType != domain.SearchByRegistrationNumber {
		response.BadRequest(w, "Query parameter 'type' must be account_number or registration_number", nil)
		return
	}

	report, err := h.service.CheckBalance(r.Context(), key, searchType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, report)
}

// ListRecords handles GET /api/v1/records
func (h *LedgerHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListRecords(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, records)
}

// writeServiceError maps business error codes onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "Internal server error", err)
		return
	}

	switch businessErr.Code {
	case customError.ErrCodeCustomerNotFound, customError.ErrCodeVehicleNotFound:
		response.NotFound(w, businessErr.Message)
	case customError.ErrCodeCustomerAlreadyExists, customError.ErrCodeVehicleAlreadyExists,
		customError.ErrCodeLoanAlreadyCompleted:
		response.Conflict(w, businessErr.Message, businessErr.Err)
	case customError.ErrCodeInvalidTerms, customError.ErrCodeInvalidPayment,
		customError.ErrCodeInvalidPlanLabel:
		response.BadRequest(w, businessErr.Message, businessErr.Err)
	default:
		response.InternalServerError(w, businessErr.Message, businessErr.Err)
	}
}
