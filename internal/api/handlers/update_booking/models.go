package update_booking

import (
	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	bookingModels "github.com/m04kA/SMC-VenueCRM/internal/service/bookings/models"
	updateBooking "github.com/m04kA/SMC-VenueCRM/internal/usecase/update_booking"
)

// UpdateBookingRequest HTTP request model, отсутствующие поля не меняются
type UpdateBookingRequest struct {
	BookingDate   *string  `json:"bookingDate,omitempty" validate:"omitempty,date"`
	StartTime     *string  `json:"startTime,omitempty" validate:"omitempty,hhmm"`
	EndTime       *string  `json:"endTime,omitempty" validate:"omitempty,hhmm"`
	GuestCount    *int     `json:"guestCount,omitempty" validate:"omitempty,gte=1"`
	EventType     *string  `json:"eventType,omitempty" validate:"omitempty,max=100"`
	Notes         *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
	DepositAmount *float64 `json:"depositAmount,omitempty" validate:"omitempty,gte=0"`
}

// UpdateBookingResponse HTTP response model
type UpdateBookingResponse struct {
	bookingModels.BookingResponse
	Repriced       bool    `json:"repriced"`
	PreviousStatus string  `json:"previousStatus"`
	GrandTotal     float64 `json:"grandTotal"`
	TotalPaid      float64 `json:"totalPaid"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(id int64) (*updateBooking.Request, error) {
	req := &updateBooking.Request{
		ID:            id,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		GuestCount:    r.GuestCount,
		EventType:     r.EventType,
		Notes:         r.Notes,
		DepositAmount: r.DepositAmount,
	}

	if r.BookingDate != nil {
		date, err := handlers.ParseDate(*r.BookingDate)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *UpdateBookingResponse {
	return &UpdateBookingResponse{
		BookingResponse: *bookingModels.FromDomainBooking(resp.Booking),
		Repriced:        resp.Repriced,
		PreviousStatus:  string(resp.PreviousStatus),
		GrandTotal:      resp.GrandTotal,
		TotalPaid:       resp.TotalPaid,
	}
}
