package check_overlap

import (
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/pkg/types"
)

// Request модель запроса на проверку пересечений
type Request struct {
	Date      time.Time // Дата начала события (без времени)
	StartTime string    // "18:00"
	EndTime   string    // "01:00" означает окончание на следующий день
	ExcludeID *int64    // Бронирование, которое переносится (опционально)
}

// Response модель ответа со списком конфликтующих бронирований
type Response struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Overnight bool
	Available bool
	Conflicts []domain.ConflictingBooking
}
