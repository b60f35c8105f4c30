package create_addon_service

import (
	"context"

	"github.com/m04kA/SMC-VenueCRM/internal/service/addons/models"
)

type AddonService interface {
	CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
