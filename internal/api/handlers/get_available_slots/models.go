package get_available_slots

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-VenueCRM/internal/usecase/get_available_slots"
)

// SlotResponse свободное окно
type SlotResponse struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	EndsNextDay bool   `json:"endsNextDay"`
	Minutes     int    `json:"minutes"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

// ToUseCaseRequest формирует запрос из query параметров
// Query params: date, minMinutes (опционально)
func ToUseCaseRequest(values url.Values) (*getAvailableSlots.Request, error) {
	date, err := handlers.ParseDate(values.Get("date"))
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	req := &getAvailableSlots.Request{Date: date}

	if s := values.Get("minMinutes"); s != "" {
		req.MinMinutes, err = strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid minMinutes: %w", err)
		}
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	result := &AvailableSlotsResponse{
		Date:  resp.Date.Format(domain.DateFormat),
		Slots: make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		result.Slots = append(result.Slots, SlotResponse{
			StartTime:   s.StartTime.String(),
			EndTime:     s.EndTime.String(),
			EndsNextDay: s.EndsNextDay,
			Minutes:     s.Minutes,
		})
	}
	return result
}
