package update_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	updateBooking "github.com/m04kA/SMC-VenueCRM/internal/usecase/update_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "некорректные данные бронирования"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgNotFound           = "бронирование не найдено"
	msgArchived           = "архивное бронирование нельзя изменить"
	msgSlotNotAvailable   = "выбранное время пересекается с другими бронированиями"
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.ValidateStruct(&req); fields != nil {
		h.logger.Warn("PUT /bookings/{id} - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *domain.DoubleBookingConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("PUT /bookings/{id} - Slot not available: booking_id=%d, %v", bookingID, err)
			handlers.RespondConflict(w, msgSlotNotAvailable, conflict.Conflicts)

		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateBooking.ErrBookingArchived):
			h.logger.Warn("PUT /bookings/{id} - Booking archived: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgArchived)

		case errors.Is(err, updateBooking.ErrInvalidTimeFormat):
			h.logger.Warn("PUT /bookings/{id} - Invalid time: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTime)

		case errors.Is(err, updateBooking.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		default:
			h.logger.Error("PUT /bookings/{id} - Failed to update booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id} - Booking updated successfully: booking_id=%d, repriced=%t",
		bookingID, result.Repriced)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
