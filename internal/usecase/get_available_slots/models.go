package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-VenueCRM/pkg/types"
)

// DefaultMinMinutes окна короче часа не показываются
const DefaultMinMinutes = 60

// Request модель запроса на получение свободных окон
type Request struct {
	Date       time.Time // Дата начала события (без времени)
	MinMinutes int       // Минимальная длина окна, 0 означает DefaultMinMinutes
}

// Response модель ответа со списком свободных окон
type Response struct {
	Date  time.Time
	Slots []Slot
}

// Slot свободный интервал, в котором можно начать событие в эту дату
type Slot struct {
	StartTime   types.TimeString // Время начала окна
	EndTime     types.TimeString // Время окончания окна
	EndsNextDay bool             // Окно заканчивается на следующий день
	Minutes     int              // Длина окна в минутах
}
