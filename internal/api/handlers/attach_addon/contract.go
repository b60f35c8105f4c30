package attach_addon

import (
	"context"

	"github.com/m04kA/SMC-VenueCRM/internal/service/addons/models"
)

type AddonService interface {
	Attach(ctx context.Context, req *models.AttachRequest) (*models.LineResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
