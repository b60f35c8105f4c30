package quote_price

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/pricing"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "некорректные параметры расчёта"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgNoBand             = "для указанного времени нет тарифа"
)

type Handler struct {
	calculator PriceCalculator
	logger     Logger
}

func NewHandler(calculator PriceCalculator, logger Logger) *Handler {
	return &Handler{
		calculator: calculator,
		logger:     logger,
	}
}

// Handle POST /api/v1/pricing/quote
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /pricing/quote - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.ValidateStruct(&req); fields != nil {
		h.logger.Warn("POST /pricing/quote - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	date, _ := handlers.ParseDate(req.Date)

	quote, err := h.calculator.Calculate(date, req.StartTime, req.EndTime)
	if err != nil {
		h.respondError(w, err)
		return
	}

	// Предлагаемый задаток равен ставке первого часа
	deposit, err := h.calculator.FirstHourRate(date, req.StartTime)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.logger.Info("POST /pricing/quote - Quote calculated: date=%s, %s-%s, cost=%.2f",
		req.Date, req.StartTime, req.EndTime, quote.RentalCost)
	handlers.RespondJSON(w, http.StatusOK, FromQuote(&req, quote, deposit))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidTimeFormat):
		h.logger.Warn("POST /pricing/quote - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
	case errors.Is(err, pricing.ErrNoBand):
		h.logger.Warn("POST /pricing/quote - No tariff band: %v", err)
		handlers.RespondBadRequest(w, msgNoBand)
	default:
		h.logger.Error("POST /pricing/quote - Failed to calculate quote: %v", err)
		handlers.RespondInternalError(w)
	}
}
