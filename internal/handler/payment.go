package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/pdvlite/pos-engine/internal/domain"
	"github.com/pdvlite/pos-engine/internal/service"
	customError "github.com/pdvlite/pos-engine/pkg/errors"
	"github.com/pdvlite/pos-engine/pkg/response"
	"github.com/pdvlite/pos-engine/pkg/utils"
)

type PaymentHandler struct {
	ledger    *service.LedgerService
	validator *validator.Validate
}

func NewPaymentHandler(ledger *service.LedgerService) *PaymentHandler {
	return &PaymentHandler{
		ledger:    ledger,
		validator: validator.New(),
	}
}

// CreatePayment handles POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var request domain.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	payments, err := h.ledger.CreatePayment(r.Context(), &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, &domain.CreatePaymentResponse{Payments: payments})
}

// GetPayment handles GET /api/v1/payments/{paymentId}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := parsePaymentID(r)
	if err != nil {
		response.BadRequest(w, "invalid payment id", err)
		return
	}

	result, err := h.ledger.GetPayment(r.Context(), paymentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPayments handles GET /api/v1/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		response.BadRequest(w, "invalid filter", err)
		return
	}

	payments, err := h.ledger.ListPayments(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, payments)
}

// RegisterPayment handles POST /api/v1/payments/{paymentId}/register
func (h *PaymentHandler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := parsePaymentID(r)
	if err != nil {
		response.BadRequest(w, "invalid payment id", err)
		return
	}

	var request domain.RegisterPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	result, err := h.ledger.RegisterPayment(r.Context(), paymentID, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, result)
}

// PaymentEntries handles GET /api/v1/payments/{paymentId}/entries
func (h *PaymentHandler) PaymentEntries(w http.ResponseWriter, r *http.Request) {
	paymentID, err := parsePaymentID(r)
	if err != nil {
		response.BadRequest(w, "invalid payment id", err)
		return
	}

	entries, err := h.ledger.PaymentEntries(r.Context(), paymentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, entries)
}

// PeriodReport handles GET /api/v1/payments/report?from=&to=
func (h *PaymentHandler) PeriodReport(w http.ResponseWriter, r *http.Request) {
	from, err := utils.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		response.BadRequest(w, "from must be a YYYY-MM-DD date", err)
		return
	}
	to, err := utils.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		response.BadRequest(w, "to must be a YYYY-MM-DD date", err)
		return
	}
	if to.Before(from) {
		response.BadRequest(w, "to must not be before from", nil)
		return
	}

	report, err := h.ledger.PeriodReport(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, report)
}

func parsePaymentID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["paymentId"])
}

func parseFilter(r *http.Request) (domain.PaymentFilter, error) {
	var filter domain.PaymentFilter

	query := r.URL.Query()
	filter.Status = query.Get("status")

	if raw := query.Get("due_from"); raw != "" {
		from, err := utils.ParseDate(raw)
		if err != nil {
			return filter, err
		}
		filter.DueFrom = &from
	}
	if raw := query.Get("due_to"); raw != "" {
		to, err := utils.ParseDate(raw)
		if err != nil {
			return filter, err
		}
		filter.DueTo = &to
	}

	return filter, nil
}

func parseOptionalDate(r *http.Request) (*time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return nil, nil
	}
	date, err := utils.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case customError.IsValidation(err):
		response.BadRequest(w, "validation failed", err)
	case customError.IsOverpayment(err):
		response.UnprocessableEntity(w, "payment exceeds remaining balance", err)
	case customError.IsNotFound(err):
		response.NotFound(w, err.Error())
	default:
		response.InternalServerError(w, "internal error", err)
	}
}
