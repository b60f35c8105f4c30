package quote_price

import "github.com/m04kA/SMC-VenueCRM/internal/pricing"

// QuoteRequest HTTP request model
type QuoteRequest struct {
	Date      string `json:"date" validate:"required,date"`      // "2026-02-14"
	StartTime string `json:"startTime" validate:"required,hhmm"` // "18:00"
	EndTime   string `json:"endTime" validate:"required,hhmm"`   // "01:00"
}

// BreakdownResponse часть стоимости по одной тарифной полосе
type BreakdownResponse struct {
	Label    string  `json:"label"`
	Hours    float64 `json:"hours"`
	Rate     float64 `json:"rate"`
	Subtotal float64 `json:"subtotal"`
}

// QuoteResponse HTTP response model
type QuoteResponse struct {
	Date             string              `json:"date"`
	StartTime        string              `json:"startTime"`
	EndTime          string              `json:"endTime"`
	DayType          string              `json:"dayType"`
	Minutes          int                 `json:"minutes"`
	Hours            float64             `json:"hours"`
	HourlyRate       float64             `json:"hourlyRate"`
	RentalCost       float64             `json:"rentalCost"`
	SuggestedDeposit float64             `json:"suggestedDeposit"`
	Breakdown        []BreakdownResponse `json:"breakdown"`
}

// FromQuote конвертирует расчёт в HTTP response
func FromQuote(req *QuoteRequest, q *pricing.Quote, deposit float64) *QuoteResponse {
	resp := &QuoteResponse{
		Date:             req.Date,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		DayType:          string(q.DayType),
		Minutes:          q.Minutes,
		Hours:            q.Hours,
		HourlyRate:       q.HourlyRate,
		RentalCost:       q.RentalCost,
		SuggestedDeposit: deposit,
		Breakdown:        make([]BreakdownResponse, 0, len(q.Breakdown)),
	}
	for _, b := range q.Breakdown {
		resp.Breakdown = append(resp.Breakdown, BreakdownResponse{
			Label:    b.Label,
			Hours:    b.Hours,
			Rate:     b.Rate,
			Subtotal: b.Subtotal,
		})
	}
	return resp
}
