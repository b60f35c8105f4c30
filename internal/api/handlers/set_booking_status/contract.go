package set_booking_status

import (
	"context"

	"github.com/m04kA/SMC-VenueCRM/internal/service/bookings/models"
)

type BookingService interface {
	SetStatus(ctx context.Context, id int64, req *models.SetStatusRequest) (*models.StatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
