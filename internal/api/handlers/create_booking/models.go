package create_booking

import (
	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	bookingModels "github.com/m04kA/SMC-VenueCRM/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-VenueCRM/internal/usecase/create_booking"
)

// AddonLineRequest доп. услуга в запросе
type AddonLineRequest struct {
	ServiceID int64 `json:"serviceId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gte=1"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ClientID      int64              `json:"clientId" validate:"required,gt=0"`
	BookingDate   string             `json:"bookingDate" validate:"required,date"` // "2026-02-14"
	StartTime     string             `json:"startTime" validate:"required,hhmm"`   // "18:00"
	EndTime       string             `json:"endTime" validate:"required,hhmm"`     // "01:00"
	GuestCount    *int               `json:"guestCount,omitempty" validate:"omitempty,gte=1"`
	EventType     *string            `json:"eventType,omitempty" validate:"omitempty,max=100"`
	Notes         *string            `json:"notes,omitempty" validate:"omitempty,max=2000"`
	DepositAmount *float64           `json:"depositAmount,omitempty" validate:"omitempty,gte=0"`
	Addons        []AddonLineRequest `json:"addons,omitempty" validate:"omitempty,dive"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	bookingModels.BookingResponse
	DayType    string                            `json:"dayType"`
	Addons     []bookingModels.AddonLineResponse `json:"addons"`
	GrandTotal float64                           `json:"grandTotal"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := handlers.ParseDate(r.BookingDate)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		ClientID:      r.ClientID,
		Date:          date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		GuestCount:    r.GuestCount,
		EventType:     r.EventType,
		Notes:         r.Notes,
		DepositAmount: r.DepositAmount,
		Addons:        make([]createBooking.AddonLine, 0, len(r.Addons)),
	}
	for _, a := range r.Addons {
		req.Addons = append(req.Addons, createBooking.AddonLine{
			ServiceID: a.ServiceID,
			Quantity:  a.Quantity,
		})
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	details := bookingModels.NewBookingDetails(resp.Booking, resp.Addons, 0)

	result := &CreateBookingResponse{
		BookingResponse: details.BookingResponse,
		Addons:          details.Addons,
		GrandTotal:      resp.GrandTotal,
	}
	if resp.Quote != nil {
		result.DayType = string(resp.Quote.DayType)
	}
	return result
}
