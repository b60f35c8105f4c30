package detach_addon

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/service/addons"
)

const (
	msgInvalidLineID = "некорректный ID строки доп. услуги"
	msgNotFound      = "доп. услуга в бронировании не найдена"
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

// Handle DELETE /api/v1/booking-addons/{lineId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lineID, err := handlers.PathID(r, "lineId")
	if err != nil {
		h.logger.Warn("DELETE /booking-addons/{id} - Invalid line ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLineID)
		return
	}

	result, err := h.service.Detach(r.Context(), lineID)
	if err != nil {
		switch {
		case errors.Is(err, addons.ErrBookingAddonNotFound), errors.Is(err, addons.ErrBookingNotFound):
			h.logger.Warn("DELETE /booking-addons/{id} - Line not found: line_id=%d", lineID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /booking-addons/{id} - Failed to detach addon: line_id=%d, error=%v",
				lineID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /booking-addons/{id} - Addon detached: line_id=%d, booking_id=%d",
		lineID, result.BookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
