package record_payment

import (
	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/service/payments/models"
)

// IdempotencyKeyHeader заголовок для защиты от повторной записи платежа
const IdempotencyKeyHeader = "Idempotency-Key"

// RecordPaymentRequest HTTP request model
type RecordPaymentRequest struct {
	Amount        float64 `json:"amount" validate:"gt=0"`
	PaymentType   string  `json:"paymentType" validate:"required,oneof=deposit partial final other"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,oneof=cash card transfer"`
	PaymentDate   *string `json:"paymentDate,omitempty" validate:"omitempty,date"` // по умолчанию сегодня
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RecordPaymentRequest) ToServiceRequest(bookingID int64, idempotencyKey string) (*models.RecordPaymentRequest, error) {
	req := &models.RecordPaymentRequest{
		BookingID:      bookingID,
		Amount:         r.Amount,
		PaymentType:    r.PaymentType,
		PaymentMethod:  r.PaymentMethod,
		IdempotencyKey: idempotencyKey,
	}

	if r.PaymentDate != nil {
		date, err := handlers.ParseDate(*r.PaymentDate)
		if err != nil {
			return nil, err
		}
		req.PaymentDate = &date
	}

	return req, nil
}
