package quote_price

import (
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/pricing"
)

type PriceCalculator interface {
	Calculate(date time.Time, start, end string) (*pricing.Quote, error)
	FirstHourRate(date time.Time, start string) (float64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
