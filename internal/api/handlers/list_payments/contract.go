package list_payments

import (
	"context"

	"github.com/m04kA/SMC-VenueCRM/internal/service/payments/models"
)

type PaymentService interface {
	ListByBooking(ctx context.Context, bookingID int64) (*models.PaymentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
