package list_addon_services

import (
	"context"

	"github.com/m04kA/SMC-VenueCRM/internal/service/addons/models"
)

type AddonService interface {
	ListServices(ctx context.Context, activeOnly bool) (*models.ServiceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
