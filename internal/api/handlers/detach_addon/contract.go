package detach_addon

import (
	"context"

	"github.com/m04kA/SMC-VenueCRM/internal/service/addons/models"
)

type AddonService interface {
	Detach(ctx context.Context, lineID int64) (*models.DetachResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
