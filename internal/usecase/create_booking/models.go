package create_booking

import (
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/pricing"
)

// AddonLine доп. услуга, добавляемая при создании
type AddonLine struct {
	ServiceID int64
	Quantity  int
}

// Request модель запроса на создание бронирования
type Request struct {
	ClientID      int64     // ID клиента
	Date          time.Time // Дата начала события (без времени)
	StartTime     string    // "18:00"
	EndTime       string    // "01:00" означает окончание на следующий день
	GuestCount    *int      // Количество гостей (опционально)
	EventType     *string   // Тип события (опционально)
	Notes         *string   // Заметки (опционально)
	DepositAmount *float64  // Задаток, по умолчанию ставка первого часа
	Addons        []AddonLine
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking    *domain.Booking
	Addons     []*domain.BookingAddon
	Quote      *pricing.Quote
	GrandTotal float64
}
