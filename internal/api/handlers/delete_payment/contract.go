package delete_payment

import (
	"context"

	"github.com/m04kA/SMC-VenueCRM/internal/service/payments/models"
)

type PaymentService interface {
	Delete(ctx context.Context, paymentID int64) (*models.DeletePaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
