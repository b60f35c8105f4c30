package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/pkg/money"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = errors.New("start date is after end date")
)

// Request модели

// ListBookingsRequest запрос на получение списка бронирований
type ListBookingsRequest struct {
	ClientID        *int64     `json:"clientId,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`   // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`
	IncludeArchived bool       `json:"includeArchived,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		ClientID:        r.ClientID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeArchived: r.IncludeArchived,
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// SetStatusRequest запрос на ручную смену статуса
type SetStatusRequest struct {
	Status string `json:"status"`
}

// Response модели

// AddonLineResponse строка доп. услуги в бронировании
type AddonLineResponse struct {
	ID          int64   `json:"id"`
	ServiceID   int64   `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Quantity    int     `json:"quantity"`
	SalePrice   float64 `json:"salePrice"`
	Total       float64 `json:"total"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64   `json:"id"`
	ClientID      int64   `json:"clientId"`
	BookingDate   string  `json:"bookingDate"` // "2026-02-14"
	StartTime     string  `json:"startTime"`   // "18:00"
	EndTime       string  `json:"endTime"`     // "01:00" для ночных событий
	Overnight     bool    `json:"overnight"`
	Hours         float64 `json:"hours"`
	HourlyRate    float64 `json:"hourlyRate"`
	RentalCost    float64 `json:"rentalCost"`
	DepositAmount float64 `json:"depositAmount"`
	Status        string  `json:"status"`

	GuestCount *int    `json:"guestCount,omitempty"`
	EventType  *string `json:"eventType,omitempty"`
	Notes      *string `json:"notes,omitempty"`

	IsArchived      bool    `json:"isArchived"`
	CalendarEventID *string `json:"calendarEventId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingDetailsResponse бронирование с доп. услугами и оплатой
type BookingDetailsResponse struct {
	BookingResponse
	Addons      []AddonLineResponse `json:"addons"`
	GrandTotal  float64             `json:"grandTotal"`
	TotalPaid   float64             `json:"totalPaid"`
	Outstanding float64             `json:"outstanding"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// StatusResponse результат смены статуса
type StatusResponse struct {
	ID             int64  `json:"id"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previousStatus"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:              b.ID,
		ClientID:        b.ClientID,
		BookingDate:     b.BookingDate.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		EndTime:         b.EndTime.String(),
		Overnight:       b.IsOvernight(),
		Hours:           b.Hours,
		HourlyRate:      b.HourlyRate,
		RentalCost:      b.RentalCost,
		DepositAmount:   b.DepositAmount,
		Status:          string(b.Status),
		GuestCount:      b.GuestCount,
		EventType:       b.EventType,
		Notes:           b.Notes,
		IsArchived:      b.IsArchived,
		CalendarEventID: b.CalendarEventID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// NewBookingDetails собирает карточку бронирования
func NewBookingDetails(b *domain.Booking, addons []*domain.BookingAddon, totalPaid float64) *BookingDetailsResponse {
	grandTotal := domain.GrandTotal(b.RentalCost, addons)

	resp := &BookingDetailsResponse{
		BookingResponse: *FromDomainBooking(b),
		Addons:          make([]AddonLineResponse, 0, len(addons)),
		GrandTotal:      grandTotal,
		TotalPaid:       totalPaid,
		Outstanding:     money.FromCents(max(money.ToCents(grandTotal)-money.ToCents(totalPaid), 0)),
	}

	for _, a := range addons {
		resp.Addons = append(resp.Addons, AddonLineResponse{
			ID:          a.ID,
			ServiceID:   a.ServiceID,
			ServiceName: a.ServiceName,
			Quantity:    a.Quantity,
			SalePrice:   a.SalePrice,
			Total:       a.Total(),
		})
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
