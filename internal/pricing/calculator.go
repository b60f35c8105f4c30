package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-VenueCRM/pkg/money"
	"github.com/m04kA/SMC-VenueCRM/pkg/types"
)

var (
	// ErrInvalidTimeFormat malformed "HH:MM" input
	ErrInvalidTimeFormat = errors.New("pricing: invalid time format")

	// ErrNoBand the tariff table has no band for the requested minute
	ErrNoBand = errors.New("pricing: no tariff band for time")
)

// BreakdownEntry is the part of a booking priced at one band
type BreakdownEntry struct {
	Hours    float64
	Rate     float64
	Subtotal float64
	Label    string
}

// Quote is the price of a booking interval
type Quote struct {
	Minutes    int
	Hours      float64
	RentalCost float64
	HourlyRate float64 // effective blended rate
	DayType    DayType
	Breakdown  []BreakdownEntry
}

// Calculator prices bookings against weekday/weekend band tables
type Calculator struct {
	classify DayClassifier
	tariffs  map[DayType][]Band
}

type Option func(*Calculator)

// WithDayClassifier replaces the weekday/weekend rule
func WithDayClassifier(classify DayClassifier) Option {
	return func(c *Calculator) {
		c.classify = classify
	}
}

// WithTariff replaces the band table for a day type
func WithTariff(dayType DayType, bands []Band) Option {
	return func(c *Calculator) {
		c.tariffs[dayType] = bands
	}
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		classify: DayTypeOf,
		tariffs:  DefaultTariffs(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate prices [start, end) on date. end <= start means the booking ends the next day.
func (c *Calculator) Calculate(date time.Time, start, end string) (*Quote, error) {
	startMin, err := parseMinutes(start)
	if err != nil {
		return nil, err
	}
	endMin, err := parseMinutes(end)
	if err != nil {
		return nil, err
	}
	if endMin <= startMin {
		endMin += types.MinutesPerDay
	}

	dayType := c.classify(date)
	bands := c.tariffs[dayType]

	// minutes per band index, in the order bands are first touched
	minutes := make(map[int]int, len(bands))
	order := make([]int, 0, len(bands))
	accumulate := func(from, to int) {
		for i, band := range bands {
			overlap := min(to, band.EndMinute) - max(from, band.StartMinute)
			if overlap <= 0 {
				continue
			}
			if _, seen := minutes[i]; !seen {
				order = append(order, i)
			}
			minutes[i] += overlap
		}
	}

	windowEnd := min(endMin, WindowMinutes)
	accumulate(startMin, windowEnd)
	if endMin > WindowMinutes {
		// tail past the window repeats the booking date's table, not the next day's tariff
		accumulate(WindowMinutes-types.MinutesPerDay, endMin-types.MinutesPerDay)
	}

	quote := &Quote{
		Minutes:   endMin - startMin,
		DayType:   dayType,
		Breakdown: make([]BreakdownEntry, 0, len(order)),
	}

	var priced int
	var totalCents int64
	for _, i := range order {
		band := bands[i]
		m := minutes[i]
		subtotalCents := int64(math.Round(float64(m) * band.Rate * 100 / 60))

		quote.Breakdown = append(quote.Breakdown, BreakdownEntry{
			Hours:    money.Round2(float64(m) / 60),
			Rate:     band.Rate,
			Subtotal: money.FromCents(subtotalCents),
			Label:    band.Label,
		})
		priced += m
		totalCents += subtotalCents
	}

	if priced != quote.Minutes {
		return nil, fmt.Errorf("%w: %s-%s priced %d of %d minutes", ErrNoBand, start, end, priced, quote.Minutes)
	}

	quote.Hours = money.Round2(float64(quote.Minutes) / 60)
	quote.RentalCost = money.FromCents(totalCents)
	if quote.Minutes > 0 {
		quote.HourlyRate = money.Round2(float64(totalCents) / 100 / (float64(quote.Minutes) / 60))
	}

	return quote, nil
}

// FirstHourRate returns the rate of the band containing start
func (c *Calculator) FirstHourRate(date time.Time, start string) (float64, error) {
	startMin, err := parseMinutes(start)
	if err != nil {
		return 0, err
	}

	for _, band := range c.tariffs[c.classify(date)] {
		if startMin >= band.StartMinute && startMin < band.EndMinute {
			return band.Rate, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrNoBand, start)
}

func parseMinutes(value string) (int, error) {
	ts, err := types.NewTimeStringFromString(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidTimeFormat, err)
	}
	m, err := ts.Minutes()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidTimeFormat, err)
	}
	return m, nil
}
