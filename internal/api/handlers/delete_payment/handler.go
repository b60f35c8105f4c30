package delete_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/service/payments"
)

const (
	msgInvalidPaymentID = "некорректный ID платежа"
	msgNotFound         = "платеж не найден"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/payments/{paymentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	paymentID, err := handlers.PathID(r, "paymentId")
	if err != nil {
		h.logger.Warn("DELETE /payments/{id} - Invalid payment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	result, err := h.service.Delete(r.Context(), paymentID)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrPaymentNotFound), errors.Is(err, payments.ErrBookingNotFound):
			h.logger.Warn("DELETE /payments/{id} - Payment not found: payment_id=%d", paymentID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /payments/{id} - Failed to delete payment: payment_id=%d, error=%v",
				paymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /payments/{id} - Payment deleted: payment_id=%d, booking_id=%d, status=%s",
		paymentID, result.BookingID, result.BookingStatus)
	handlers.RespondJSON(w, http.StatusOK, result)
}
