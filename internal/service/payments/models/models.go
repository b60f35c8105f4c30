package models

import (
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
)

// RecordPaymentRequest запрос на запись платежа
type RecordPaymentRequest struct {
	BookingID      int64
	Amount         float64
	PaymentType    string
	PaymentMethod  string
	PaymentDate    *time.Time // по умолчанию текущая дата площадки
	IdempotencyKey string     // опционально
}

// PaymentResponse ответ с данными платежа
type PaymentResponse struct {
	ID            int64     `json:"id"`
	BookingID     int64     `json:"bookingId"`
	Amount        float64   `json:"amount"`
	PaymentType   string    `json:"paymentType"`
	PaymentMethod string    `json:"paymentMethod"`
	PaymentDate   string    `json:"paymentDate"` // "2026-02-14"
	CreatedAt     time.Time `json:"createdAt"`
}

// RecordPaymentResponse результат записи платежа вместе с новым статусом бронирования
type RecordPaymentResponse struct {
	Payment       PaymentResponse `json:"payment"`
	BookingStatus string          `json:"bookingStatus"`
	TotalPaid     float64         `json:"totalPaid"`
	GrandTotal    float64         `json:"grandTotal"`
	Replayed      bool            `json:"replayed"` // повтор по ключу идемпотентности
}

// PaymentListResponse платежи бронирования
type PaymentListResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPaid float64           `json:"totalPaid"`
}

// DeletePaymentResponse результат удаления платежа
type DeletePaymentResponse struct {
	BookingID     int64   `json:"bookingId"`
	BookingStatus string  `json:"bookingStatus"`
	TotalPaid     float64 `json:"totalPaid"`
}

// FromDomainPayment конвертирует domain модель в DTO
func FromDomainPayment(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		PaymentType:   string(p.PaymentType),
		PaymentMethod: string(p.PaymentMethod),
		PaymentDate:   p.PaymentDate.Format(domain.DateFormat),
		CreatedAt:     p.CreatedAt,
	}
}
