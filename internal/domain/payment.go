package domain

import "time"

// PaymentType describes the purpose of a payment
type PaymentType string

const (
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypePartial PaymentType = "partial"
	PaymentTypeFinal   PaymentType = "final"
	PaymentTypeOther   PaymentType = "other"
)

func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeDeposit, PaymentTypePartial, PaymentTypeFinal, PaymentTypeOther:
		return true
	}
	return false
}

// PaymentMethod describes how money was received
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}

// Payment is an immutable money receipt against a booking
type Payment struct {
	ID            int64
	BookingID     int64
	Amount        float64
	PaymentType   PaymentType
	PaymentDate   time.Time
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
}
