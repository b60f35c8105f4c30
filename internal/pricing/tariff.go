package pricing

import "time"

// DayType selects the tariff table
type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
)

// DayClassifier maps a booking date to its tariff
type DayClassifier func(date time.Time) DayType

// DayTypeOf treats Friday, Saturday and Sunday as weekend
func DayTypeOf(date time.Time) DayType {
	switch date.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return DayTypeWeekend
	default:
		return DayTypeWeekday
	}
}

// Band is a clock-time segment with a fixed hourly rate.
// Minutes are counted from midnight of the booking date and may exceed 1440.
type Band struct {
	StartMinute int
	EndMinute   int
	Rate        float64
	Label       string
}

const (
	LabelNight   = "night"
	LabelDay     = "day"
	LabelEvening = "evening"
)

// WindowMinutes covers the booking date plus the next morning until 09:00
const WindowMinutes = 1980

// DefaultTariffs returns the venue rate tables
func DefaultTariffs() map[DayType][]Band {
	return map[DayType][]Band{
		DayTypeWeekday: {
			{StartMinute: 0, EndMinute: 540, Rate: 60, Label: LabelNight},
			{StartMinute: 540, EndMinute: 960, Rate: 35, Label: LabelDay},
			{StartMinute: 960, EndMinute: 1380, Rate: 45, Label: LabelEvening},
			{StartMinute: 1380, EndMinute: WindowMinutes, Rate: 60, Label: LabelNight},
		},
		DayTypeWeekend: {
			{StartMinute: 0, EndMinute: 540, Rate: 75, Label: LabelNight},
			{StartMinute: 540, EndMinute: 1380, Rate: 60, Label: LabelDay},
			{StartMinute: 1380, EndMinute: WindowMinutes, Rate: 75, Label: LabelNight},
		},
	}
}
