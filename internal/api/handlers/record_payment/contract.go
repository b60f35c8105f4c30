package record_payment

import (
	"context"

	"github.com/m04kA/SMC-VenueCRM/internal/service/payments/models"
)

type PaymentService interface {
	Record(ctx context.Context, req *models.RecordPaymentRequest) (*models.RecordPaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
