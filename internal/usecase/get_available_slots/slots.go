package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/pricing"
	"github.com/m04kA/SMC-VenueCRM/pkg/types"
)

// dayWindow интервал, который может занять событие с датой date:
// с полуночи до утра следующего дня
func dayWindow(date time.Time) domain.Period {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC).Unix() / 60
	return domain.Period{Start: day, End: day + pricing.WindowMinutes}
}

// wallClockMinute переводит момент в абсолютные минуты по часам площадки
func wallClockMinute(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC).Unix() / 60
}

// busyPeriods собирает интервалы, занятые блокирующими бронированиями.
// Соседние и пересекающиеся интервалы склеиваются.
func busyPeriods(bookings []*domain.Booking) ([]domain.Period, error) {
	periods := make([]domain.Period, 0, len(bookings))
	for _, b := range bookings {
		// Отменённые и архивные площадку не занимают
		if !b.BlocksVenue() {
			continue
		}
		p, err := b.Period()
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}

	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Start < periods[j].Start
	})

	merged := make([]domain.Period, 0, len(periods))
	for _, p := range periods {
		last := len(merged) - 1
		if last >= 0 && p.Start <= merged[last].End {
			if p.End > merged[last].End {
				merged[last].End = p.End
			}
			continue
		}
		merged = append(merged, p)
	}
	return merged, nil
}

// freeWindows вычитает занятые интервалы из окна.
// Окно должно начинаться не позже конца суток date, иначе оно относится к следующей дате.
// Примеры для окна 00:00-09:00(+1) и брони 18:00-01:00:
// - 00:00-18:00 свободно
// - 01:00(+1)-09:00(+1) не попадает: начинается на следующий день
func freeWindows(window domain.Period, busy []domain.Period, notBefore int64, minMinutes int64) []domain.Period {
	lastStart := window.Start + types.MinutesPerDay

	cursor := window.Start
	if notBefore > cursor {
		cursor = notBefore
	}

	result := make([]domain.Period, 0)
	emit := func(end int64) {
		if cursor >= lastStart {
			return
		}
		if end-cursor >= minMinutes {
			result = append(result, domain.Period{Start: cursor, End: end})
		}
	}

	for _, b := range busy {
		if b.End <= cursor {
			continue
		}
		if b.Start >= window.End {
			break
		}
		if b.Start > cursor {
			emit(b.Start)
		}
		cursor = b.End
	}
	if cursor < window.End {
		emit(window.End)
	}

	return result
}

// toSlots конвертирует интервалы в часы площадки
func toSlots(window domain.Period, periods []domain.Period) []Slot {
	slots := make([]Slot, 0, len(periods))
	for _, p := range periods {
		start := p.Start - window.Start
		end := p.End - window.Start
		slots = append(slots, Slot{
			StartTime:   types.NewTimeStringFromMinutes(int(start)),
			EndTime:     types.NewTimeStringFromMinutes(int(end)),
			EndsNextDay: end >= types.MinutesPerDay,
			Minutes:     int(p.Minutes()),
		})
	}
	return slots
}
