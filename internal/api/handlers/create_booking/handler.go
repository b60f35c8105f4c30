package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	createBooking "github.com/m04kA/SMC-VenueCRM/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgValidationFailed    = "некорректные данные бронирования"
	msgInvalidTime         = "некорректный формат времени, ожидается HH:MM"
	msgInvalidInput        = "некорректные данные бронирования"
	msgSlotNotAvailable    = "выбранное время пересекается с другими бронированиями"
	msgClientNotFound      = "клиент не найден"
	msgServiceNotFound     = "доп. услуга не найдена"
	msgServiceNotAvailable = "доп. услуга снята с продажи"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.ValidateStruct(&req); fields != nil {
		h.logger.Warn("POST /bookings - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *domain.DoubleBookingConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("POST /bookings - Slot not available: client_id=%d, %v", req.ClientID, err)
			handlers.RespondConflict(w, msgSlotNotAvailable, conflict.Conflicts)

		case errors.Is(err, createBooking.ErrClientNotFound):
			h.logger.Warn("POST /bookings - Client not found: client_id=%d", req.ClientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createBooking.ErrAddonServiceNotFound):
			h.logger.Warn("POST /bookings - Addon service not found: %v", err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrAddonServiceInactive):
			h.logger.Warn("POST /bookings - Addon service inactive: %v", err)
			handlers.RespondBadRequest(w, msgServiceNotAvailable)

		case errors.Is(err, createBooking.ErrInvalidTimeFormat):
			h.logger.Warn("POST /bookings - Invalid time: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTime)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%d, error=%v",
				req.ClientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, client_id=%d",
		result.Booking.ID, req.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
