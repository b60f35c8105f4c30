package gcalendar

import "time"

// Event событие календаря, соответствующее бронированию
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}
