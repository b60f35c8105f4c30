package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-VenueCRM/pkg/types"
)

// ErrDoubleBooking is matched by every *DoubleBookingConflictError
var ErrDoubleBooking = errors.New("booking: double booking conflict")

// Period is a half-open [Start, End) interval in absolute minutes.
// Minutes are counted from 1970-01-01 00:00 of the venue wall clock, so
// bookings on different dates compare correctly.
type Period struct {
	Start int64
	End   int64
}

// NewPeriod anchors start/end at date; end <= start means the event ends the next day
func NewPeriod(date time.Time, start, end types.TimeString) (Period, error) {
	s, err := start.Minutes()
	if err != nil {
		return Period{}, err
	}
	e, err := end.Minutes()
	if err != nil {
		return Period{}, err
	}
	if e <= s {
		e += types.MinutesPerDay
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC).Unix() / 60
	return Period{Start: day + int64(s), End: day + int64(e)}, nil
}

// Overlaps reports whether two half-open intervals intersect
func (p Period) Overlaps(other Period) bool {
	return p.Start < other.End && p.End > other.Start
}

func (p Period) Minutes() int64 {
	return p.End - p.Start
}

func (p Period) Hours() float64 {
	return float64(p.Minutes()) / 60
}

// ConflictingBooking describes an existing booking that blocks a candidate interval
type ConflictingBooking struct {
	ID        int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    BookingStatus
}

// DoubleBookingConflictError carries the bookings that block the write
type DoubleBookingConflictError struct {
	Conflicts []ConflictingBooking
}

func (e *DoubleBookingConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return ErrDoubleBooking.Error()
	}
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("#%d %s %s-%s (%s)",
			c.ID, c.Date.Format(DateFormat), c.StartTime, c.EndTime, c.Status))
	}
	return fmt.Sprintf("%s: %s", ErrDoubleBooking.Error(), strings.Join(parts, ", "))
}

func (e *DoubleBookingConflictError) Is(target error) bool {
	return target == ErrDoubleBooking
}

// FindConflicts returns the blocking bookings whose period intersects candidate.
// excludeID skips the booking being edited.
func FindConflicts(candidate Period, bookings []*Booking, excludeID *int64) ([]ConflictingBooking, error) {
	conflicts := make([]ConflictingBooking, 0)
	for _, b := range bookings {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if !b.BlocksVenue() {
			continue
		}

		period, err := b.Period()
		if err != nil {
			return nil, fmt.Errorf("booking id=%d: %w", b.ID, err)
		}
		if !candidate.Overlaps(period) {
			continue
		}

		conflicts = append(conflicts, ConflictingBooking{
			ID:        b.ID,
			Date:      b.BookingDate,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Status:    b.Status,
		})
	}
	return conflicts, nil
}
