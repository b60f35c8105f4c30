package attach_addon

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/service/addons"
)

const (
	msgInvalidBookingID    = "некорректный ID бронирования"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgValidationFailed    = "некорректные данные доп. услуги"
	msgBookingNotFound     = "бронирование не найдено"
	msgServiceNotFound     = "доп. услуга не найдена"
	msgServiceNotAvailable = "доп. услуга снята с продажи"
)

type Handler struct {
	service AddonService
	logger  Logger
}

func NewHandler(service AddonService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/addons
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/addons - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req AttachAddonRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/addons - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.ValidateStruct(&req); fields != nil {
		h.logger.Warn("POST /bookings/{id}/addons - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	result, err := h.service.Attach(r.Context(), req.ToServiceRequest(bookingID))
	if err != nil {
		switch {
		case errors.Is(err, addons.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/addons - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, addons.ErrServiceNotFound):
			h.logger.Warn("POST /bookings/{id}/addons - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, addons.ErrServiceInactive):
			h.logger.Warn("POST /bookings/{id}/addons - Service inactive: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceNotAvailable)

		case errors.Is(err, addons.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/addons - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		default:
			h.logger.Error("POST /bookings/{id}/addons - Failed to attach addon: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/addons - Addon attached: booking_id=%d, line_id=%d, grand_total=%.2f",
		bookingID, result.ID, result.GrandTotal)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
